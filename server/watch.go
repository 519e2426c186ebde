// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"strings"
	"time"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/schedule"
	"github.com/bvk/dealbot/watch"
)

func watchData(w *watch.Watch) *api.WatchData {
	d := &api.WatchData{
		ID:       w.ID,
		Name:     w.Name,
		Type:     string(w.Type),
		Schedule: w.Schedule,
		Country:  w.Country,
		Platform: string(w.Platform),
	}
	if w.TargetValue != nil {
		v := *w.TargetValue
		d.TargetValue = &v
	}
	return d
}

// parseType accepts hyphenated and underscored spellings, so that command
// line and bot users don't need to quote multi-word type names.
func parseType(s string) (watch.Type, error) {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return watch.ParseType(s)
}

// resolveWatch finds a watch by its game id or its name.
func (s *Server) resolveWatch(ctx context.Context, idOrName string) (*watch.Watch, error) {
	if w, err := s.store.Get(ctx, idOrName); err == nil {
		return w, nil
	}
	return s.store.FindByName(ctx, idOrName)
}

func (s *Server) doWatchAdd(ctx context.Context, req *api.WatchAddRequest) (*api.WatchAddResponse, error) {
	typ, err := parseType(req.Type)
	if err != nil {
		return nil, err
	}

	// The game name is resolved through the price service before anything is
	// saved, so unknown titles are rejected up front.
	id, err := s.gateway.ResolveID(ctx, req.Name)
	if err != nil {
		return nil, err
	}

	w := &watch.Watch{
		ID:          id,
		Name:        req.Name,
		Type:        typ,
		Schedule:    req.Schedule,
		Country:     req.Country,
		Platform:    watch.Platform(req.Platform),
		TargetValue: req.TargetValue,
	}
	nw, err := s.store.Create(ctx, w)
	if err != nil {
		return nil, err
	}
	return &api.WatchAddResponse{Watch: watchData(nw)}, nil
}

func (s *Server) doWatchUpdate(ctx context.Context, req *api.WatchUpdateRequest) (*api.WatchUpdateResponse, error) {
	up := &watch.Update{
		Name:             req.Name,
		Schedule:         req.Schedule,
		Country:          req.Country,
		TargetValue:      req.TargetValue,
		ClearTargetValue: req.ClearTargetValue,
	}
	if req.Type != nil {
		typ, err := parseType(*req.Type)
		if err != nil {
			return nil, err
		}
		up.Type = &typ
	}
	if req.Platform != nil {
		p, err := watch.ParsePlatform(*req.Platform)
		if err != nil {
			return nil, err
		}
		up.Platform = &p
	}

	nw, err := s.store.Update(ctx, req.ID, up)
	if err != nil {
		return nil, err
	}
	return &api.WatchUpdateResponse{Watch: watchData(nw)}, nil
}

func (s *Server) doWatchDelete(ctx context.Context, req *api.WatchDeleteRequest) (*api.WatchDeleteResponse, error) {
	w, err := s.store.Delete(ctx, req.IDOrName)
	if err != nil {
		return nil, err
	}
	return &api.WatchDeleteResponse{Watch: watchData(w)}, nil
}

func (s *Server) doWatchGet(ctx context.Context, req *api.WatchGetRequest) (*api.WatchGetResponse, error) {
	w, err := s.resolveWatch(ctx, req.IDOrName)
	if err != nil {
		return nil, err
	}
	return &api.WatchGetResponse{Watch: watchData(w)}, nil
}

func (s *Server) doWatchList(ctx context.Context, req *api.WatchListRequest) (*api.WatchListResponse, error) {
	ws, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := new(api.WatchListResponse)
	for _, w := range ws {
		resp.Watches = append(resp.Watches, watchData(w))
	}
	return resp, nil
}

func (s *Server) doWatchSchedule(ctx context.Context, req *api.WatchScheduleRequest) (*api.WatchScheduleResponse, error) {
	w, err := s.resolveWatch(ctx, req.IDOrName)
	if err != nil {
		return nil, err
	}
	text, err := schedule.Describe(w.Schedule)
	if err != nil {
		return nil, err
	}
	next, err := schedule.Next(w.Schedule, time.Now())
	if err != nil {
		return nil, err
	}
	return &api.WatchScheduleResponse{
		Expression:  w.Schedule,
		Description: text,
		Next:        next,
	}, nil
}
