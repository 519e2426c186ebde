// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Decision is the outcome of evaluating one watch against fresh price
// data. Decisions are ephemeral; triggered ones are handed to the
// notification sinks and then dropped.
type Decision struct {
	WatchID string

	Name string

	Triggered bool

	CurrentPrice decimal.Decimal

	Currency string

	// Reason explains the outcome in human readable form, including why an
	// evaluation could not be completed.
	Reason string
}

func (d *Decision) String() string {
	return fmt.Sprintf("decision:%s:triggered=%t:%s", d.WatchID, d.Triggered, d.Reason)
}

func (d *Decision) LogValue() slog.Value {
	return slog.StringValue(d.String())
}

// Message formats the notification text for a triggered decision.
func (d *Decision) Message() string {
	return fmt.Sprintf("%s: %s (current price %s %s)", d.Name, d.Reason, d.CurrentPrice.StringFixed(2), d.Currency)
}
