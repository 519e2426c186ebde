// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/watch"
)

// resolveGame resolves a game name for the price queries. Registered
// watches are consulted first so that their country and platform act as
// defaults; unknown titles go through the price service lookup.
func (s *Server) resolveGame(ctx context.Context, name, country, platform string) (id string, ccy string, pf string, err error) {
	if w, err := s.resolveWatch(ctx, name); err == nil {
		if len(country) == 0 {
			country = w.Country
		}
		if len(platform) == 0 {
			platform = string(w.Platform)
		}
		return w.ID, country, platform, nil
	}

	id, err = s.gateway.ResolveID(ctx, name)
	if err != nil {
		return "", "", "", err
	}
	if len(country) == 0 {
		country = "US"
	}
	if len(platform) == 0 {
		platform = string(watch.Windows)
	}
	return id, country, platform, nil
}

func dealData(d *itad.Deal) *api.DealData {
	return &api.DealData{
		Shop:      d.Shop.Name,
		Price:     d.Price.Amount,
		Regular:   d.Regular.Amount,
		Currency:  d.Price.Currency,
		URL:       d.URL,
		Timestamp: d.Timestamp,
	}
}

func (s *Server) doPriceLowest(ctx context.Context, req *api.PriceLowestRequest) (*api.PriceLowestResponse, error) {
	id, country, platform, err := s.resolveGame(ctx, req.Name, req.Country, req.Platform)
	if err != nil {
		return nil, err
	}
	prices, err := s.gateway.Prices(ctx, id, country)
	if err != nil {
		return nil, err
	}
	best, ok := prices.LowestDeal(platform)
	if !ok {
		return nil, fmt.Errorf("no deals available for platform %s in %s: %w", platform, country, os.ErrNotExist)
	}
	return &api.PriceLowestResponse{Deal: dealData(best)}, nil
}

func (s *Server) doPriceAllTimeLow(ctx context.Context, req *api.PriceAllTimeLowRequest) (*api.PriceAllTimeLowResponse, error) {
	id, country, _, err := s.resolveGame(ctx, req.Name, req.Country, "")
	if err != nil {
		return nil, err
	}
	prices, err := s.gateway.Prices(ctx, id, country)
	if err != nil {
		return nil, err
	}
	low, ok := prices.AllTimeLow()
	if !ok {
		return nil, fmt.Errorf("no price history available for %q: %w", req.Name, os.ErrNotExist)
	}
	return &api.PriceAllTimeLowResponse{
		Price:    low.Amount,
		Currency: low.Currency,
	}, nil
}

func (s *Server) doPriceDeals(ctx context.Context, req *api.PriceDealsRequest) (*api.PriceDealsResponse, error) {
	id, country, platform, err := s.resolveGame(ctx, req.Name, req.Country, req.Platform)
	if err != nil {
		return nil, err
	}
	prices, err := s.gateway.Prices(ctx, id, country)
	if err != nil {
		return nil, err
	}

	deals := prices.DealsForPlatform(platform)
	sort.SliceStable(deals, func(i, j int) bool {
		return deals[i].Price.Amount.LessThan(deals[j].Price.Amount)
	})

	resp := new(api.PriceDealsResponse)
	for i := range deals {
		resp.Deals = append(resp.Deals, dealData(&deals[i]))
	}
	return resp, nil
}
