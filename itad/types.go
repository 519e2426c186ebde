// Copyright (c) 2025 BVK Chaitanya

package itad

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type Shop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Deal is a single store offer for a game in a given country.
type Deal struct {
	Shop      Shop       `json:"shop"`
	Price     Price      `json:"price"`
	Regular   Price      `json:"regular"`
	Cut       int        `json:"cut"`
	Platforms []Platform `json:"platforms"`
	Timestamp time.Time  `json:"timestamp"`
	URL       string     `json:"url"`
}

type HistoryLow struct {
	All *Price `json:"all"`
	Y1  *Price `json:"y1"`
	M3  *Price `json:"m3"`
}

// GamePrices holds all current deals and the historical low for one game.
type GamePrices struct {
	ID         string     `json:"id"`
	Deals      []Deal     `json:"deals"`
	HistoryLow HistoryLow `json:"historyLow"`
}

type GameInfo struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Type         string `json:"type"`
	Mature       bool   `json:"mature"`
	EarlyAccess  bool   `json:"earlyAccess"`
	Achievements bool   `json:"achievements"`
	ReleaseDate  string `json:"releaseDate"`
	Developers   []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"developers"`
	Publishers []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"publishers"`
	URLs struct {
		Game string `json:"game"`
	} `json:"urls"`
}

// SupportsPlatform returns true if the deal is offered for the given
// platform name. Platform names use the service's exact spelling.
func (d *Deal) SupportsPlatform(platform string) bool {
	for _, p := range d.Platforms {
		if p.Name == platform {
			return true
		}
	}
	return false
}

// DealsForPlatform returns the subset of deals offered for the given
// platform, in their original order.
func (g *GamePrices) DealsForPlatform(platform string) []Deal {
	var deals []Deal
	for _, d := range g.Deals {
		if d.SupportsPlatform(platform) {
			deals = append(deals, d)
		}
	}
	return deals
}

// LowestDeal returns the platform deal with the lowest current price.
// Returns false when no deal is offered for the platform.
func (g *GamePrices) LowestDeal(platform string) (*Deal, bool) {
	var best *Deal
	for i := range g.Deals {
		d := &g.Deals[i]
		if !d.SupportsPlatform(platform) {
			continue
		}
		if best == nil || d.Price.Amount.LessThan(best.Price.Amount) {
			best = d
		}
	}
	return best, best != nil
}

// ModeRegularPrice returns the most common regular price across all
// deals, which approximates the game's official price better than any
// single store's listing. Ties resolve to the earliest observed price.
// Returns false when there are no deals at all.
func (g *GamePrices) ModeRegularPrice() (decimal.Decimal, bool) {
	if len(g.Deals) == 0 {
		return decimal.Decimal{}, false
	}
	counts := make(map[string]int)
	var order []decimal.Decimal
	for _, d := range g.Deals {
		key := d.Regular.Amount.String()
		if counts[key] == 0 {
			order = append(order, d.Regular.Amount)
		}
		counts[key]++
	}
	mode := order[0]
	for _, v := range order[1:] {
		if counts[v.String()] > counts[mode.String()] {
			mode = v
		}
	}
	return mode, true
}

// AllTimeLow returns the lowest price ever recorded for the game.
// Returns false when the service has no history for it.
func (g *GamePrices) AllTimeLow() (*Price, bool) {
	if g.HistoryLow.All == nil {
		return nil, false
	}
	return g.HistoryLow.All, true
}
