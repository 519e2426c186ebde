// Copyright (c) 2025 BVK Chaitanya

package checker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/watch"
)

type fakeSource struct {
	prices map[string]*itad.GamePrices
}

func (f *fakeSource) Prices(ctx context.Context, id, country string) (*itad.GamePrices, error) {
	g, ok := f.prices[id]
	if !ok {
		return nil, fmt.Errorf("unknown game id %q", id)
	}
	return g, nil
}

func deal(shop string, price, regular float64, platforms ...string) itad.Deal {
	d := itad.Deal{
		Shop:    itad.Shop{Name: shop},
		Price:   itad.Price{Amount: decimal.NewFromFloat(price), Currency: "USD"},
		Regular: itad.Price{Amount: decimal.NewFromFloat(regular), Currency: "USD"},
	}
	for _, p := range platforms {
		d.Platforms = append(d.Platforms, itad.Platform{Name: p})
	}
	return d
}

func newTestChecker(prices map[string]*itad.GamePrices) *Checker {
	return New(&fakeSource{prices: prices}, time.Minute)
}

func TestCheckLowerThan(t *testing.T) {
	ctx := context.Background()
	c := newTestChecker(map[string]*itad.GamePrices{
		"id-1": {
			ID: "id-1",
			Deals: []itad.Deal{
				deal("Steam", 45, 60, "Windows"),
				deal("GOG", 30, 60, "Windows"),
			},
		},
	})

	target := decimal.NewFromInt(30)
	w := &watch.Watch{
		ID: "id-1", Name: "Game A", Type: watch.LowerThan,
		Schedule: "0 9 * * 1", Country: "US",
		TargetValue: &target, Platform: watch.Windows,
	}

	// The lowest deal is exactly the target price; inclusive comparison.
	d := c.Check(ctx, w)
	if !d.Triggered {
		t.Fatalf("wanted triggered decision, got %s", d)
	}
	if !d.CurrentPrice.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("current price = %s, want 30", d.CurrentPrice)
	}

	lower := decimal.NewFromFloat(29.99)
	w.TargetValue = &lower
	if d := c.Check(ctx, w); d.Triggered {
		t.Fatalf("price above target must not trigger: %s", d)
	}
}

func TestCheckAllTimeLow(t *testing.T) {
	ctx := context.Background()
	low := itad.Price{Amount: decimal.NewFromInt(25), Currency: "USD"}
	c := newTestChecker(map[string]*itad.GamePrices{
		"id-1": {
			ID:         "id-1",
			Deals:      []itad.Deal{deal("Steam", 25, 60, "Windows")},
			HistoryLow: itad.HistoryLow{All: &low},
		},
		"id-2": {
			ID:         "id-2",
			Deals:      []itad.Deal{deal("Steam", 25.01, 60, "Windows")},
			HistoryLow: itad.HistoryLow{All: &low},
		},
	})

	w := &watch.Watch{
		ID: "id-1", Name: "Game A", Type: watch.AllTimeLow,
		Schedule: "0 9 * * 1", Country: "US", Platform: watch.Windows,
	}
	// Matching the recorded all-time low triggers.
	if d := c.Check(ctx, w); !d.Triggered {
		t.Fatalf("price at the all-time low must trigger: %s", d)
	}

	// One cent above it does not.
	w.ID = "id-2"
	if d := c.Check(ctx, w); d.Triggered {
		t.Fatalf("price above the all-time low must not trigger: %s", d)
	}
}

func TestCheckDiscount(t *testing.T) {
	ctx := context.Background()
	c := newTestChecker(map[string]*itad.GamePrices{
		"id-1": {
			ID: "id-1",
			Deals: []itad.Deal{
				deal("Steam", 45, 60, "Windows"),
				deal("GOG", 50, 60, "Windows"),
				deal("Fanatical", 48, 50, "Windows"),
			},
		},
	})

	// Regular price mode is 60; a 25% discount means 45 or less.
	pct := decimal.NewFromInt(25)
	w := &watch.Watch{
		ID: "id-1", Name: "Game A", Type: watch.Discount,
		Schedule: "0 9 * * 1", Country: "US",
		TargetValue: &pct, Platform: watch.Windows,
	}
	if d := c.Check(ctx, w); !d.Triggered {
		t.Fatalf("45 is 25%% off of 60 and must trigger: %s", d)
	}

	deeper := decimal.NewFromInt(30)
	w.TargetValue = &deeper
	if d := c.Check(ctx, w); d.Triggered {
		t.Fatalf("45 is not 30%% off of 60 and must not trigger: %s", d)
	}
}

func TestCheckFailures(t *testing.T) {
	ctx := context.Background()
	c := newTestChecker(map[string]*itad.GamePrices{
		"id-1": {
			ID:    "id-1",
			Deals: []itad.Deal{deal("PSN", 25, 60, "PS5")},
		},
	})

	target := decimal.NewFromInt(30)
	w := &watch.Watch{
		ID: "missing", Name: "Game A", Type: watch.LowerThan,
		Schedule: "0 9 * * 1", Country: "US",
		TargetValue: &target, Platform: watch.Windows,
	}

	// Fetch failures become untriggered decisions, never panics or errors.
	d := c.Check(ctx, w)
	if d.Triggered || len(d.Reason) == 0 {
		t.Fatalf("failed fetch must yield an untriggered decision with a reason: %s", d)
	}

	// No deals for the watched platform is a failure too.
	w.ID = "id-1"
	d = c.Check(ctx, w)
	if d.Triggered || len(d.Reason) == 0 {
		t.Fatalf("missing platform must yield an untriggered decision with a reason: %s", d)
	}
}
