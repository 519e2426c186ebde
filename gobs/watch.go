// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"github.com/shopspring/decimal"
)

// WatchRecord is the persistent form of a price watch. Fields use basic
// types so that older records can always be decoded by newer binaries.
type WatchRecord struct {
	ID   string
	Name string

	WatchType string

	CronSchedule string

	Country string

	TargetValue *decimal.Decimal

	Platform string
}
