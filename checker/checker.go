// Copyright (c) 2025 BVK Chaitanya

// Package checker evaluates price watches against fresh price data.
package checker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/watch"
)

// PriceSource fetches current price data for a game id in a country.
type PriceSource interface {
	Prices(ctx context.Context, id, country string) (*itad.GamePrices, error)
}

type Checker struct {
	source PriceSource

	// timeout bounds a single watch evaluation, including the price fetch.
	timeout time.Duration
}

func New(source PriceSource, timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = time.Minute
	}
	return &Checker{source: source, timeout: timeout}
}

var hundred = decimal.NewFromInt(100)

// Check evaluates a single watch. It never returns an error; a failed
// evaluation becomes an untriggered decision with the failure reason, so
// that one bad watch cannot disturb the rest of a scheduler cycle.
func (c *Checker) Check(ctx context.Context, w *watch.Watch) *watch.Decision {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	d := &watch.Decision{
		WatchID: w.ID,
		Name:    w.Name,
	}

	prices, err := c.source.Prices(ctx, w.ID, w.Country)
	if err != nil {
		d.Reason = fmt.Sprintf("could not fetch prices: %v", err)
		slog.WarnContext(ctx, "could not fetch prices for watch", "watch", w, "err", err)
		return d
	}
	best, ok := prices.LowestDeal(string(w.Platform))
	if !ok {
		d.Reason = fmt.Sprintf("no deals available for platform %s in %s", w.Platform, w.Country)
		return d
	}
	d.CurrentPrice = best.Price.Amount
	d.Currency = best.Price.Currency

	switch w.Type {
	case watch.AllTimeLow:
		low, ok := prices.AllTimeLow()
		if !ok {
			d.Reason = "no price history available"
			return d
		}
		// Matching the recorded low counts: the game is at its all-time low.
		if best.Price.Amount.LessThanOrEqual(low.Amount) {
			d.Triggered = true
			d.Reason = fmt.Sprintf("at its all-time low of %s %s at %s", low.Amount.StringFixed(2), low.Currency, best.Shop.Name)
		} else {
			d.Reason = fmt.Sprintf("above the all-time low of %s %s", low.Amount.StringFixed(2), low.Currency)
		}

	case watch.LowerThan:
		if best.Price.Amount.LessThanOrEqual(*w.TargetValue) {
			d.Triggered = true
			d.Reason = fmt.Sprintf("at or below the target price %s at %s", w.TargetValue.StringFixed(2), best.Shop.Name)
		} else {
			d.Reason = fmt.Sprintf("above the target price %s", w.TargetValue.StringFixed(2))
		}

	case watch.Discount:
		regular, ok := prices.ModeRegularPrice()
		if !ok {
			d.Reason = "no regular price available"
			return d
		}
		// A price at or below regular*(1 - pct/100) meets the discount.
		required := regular.Mul(hundred.Sub(*w.TargetValue)).Div(hundred)
		if best.Price.Amount.LessThanOrEqual(required) {
			d.Triggered = true
			d.Reason = fmt.Sprintf("discounted at least %s%% off the regular price %s %s at %s",
				w.TargetValue.StringFixed(0), regular.StringFixed(2), best.Regular.Currency, best.Shop.Name)
		} else {
			d.Reason = fmt.Sprintf("discount is below %s%% of the regular price %s", w.TargetValue.StringFixed(0), regular.StringFixed(2))
		}

	default:
		d.Reason = fmt.Sprintf("unknown watch type %q", w.Type)
	}
	return d
}
