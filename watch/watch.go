// Copyright (c) 2025 BVK Chaitanya

// Package watch defines the price watch entity and its validation rules.
//
// A watch ties a game to a comparison rule (all time low, lower than a
// target price, or a minimum discount percentage) and a cron schedule that
// decides when the rule is evaluated.
package watch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"

	"github.com/bvk/dealbot/schedule"
)

// Type identifies the comparison rule for a watch. The set of types is
// closed; anything else is a validation error.
type Type string

const (
	AllTimeLow Type = "all time low"
	LowerThan  Type = "lower than"
	Discount   Type = "discount"
)

// ParseType normalizes user input into a watch type.
func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case AllTimeLow, LowerThan, Discount:
		return t, nil
	}
	return "", &ValidationError{
		Field:  "watch-type",
		Reason: fmt.Sprintf("%q is not one of %q, %q or %q", s, AllTimeLow, LowerThan, Discount),
	}
}

// NeedsTarget returns true for watch types that require a target value.
func (t Type) NeedsTarget() bool {
	return t == LowerThan || t == Discount
}

// Platform identifies the game platform a watch is interested in.
type Platform string

const (
	Windows Platform = "Windows"
	MacOS   Platform = "MacOS"
	PS5     Platform = "PS5"
	Xbox    Platform = "Xbox"
	Switch  Platform = "Switch"
)

var allPlatforms = []Platform{Windows, MacOS, PS5, Xbox, Switch}

// ParsePlatform validates user input against the fixed platform set.
func ParsePlatform(s string) (Platform, error) {
	for _, p := range allPlatforms {
		if Platform(s) == p {
			return p, nil
		}
	}
	return "", &ValidationError{
		Field:  "platform",
		Reason: fmt.Sprintf("%q is not one of %v", s, allPlatforms),
	}
}

// Watch describes a single price watch on one game.
type Watch struct {
	// ID is the price provider's stable identifier for the game.
	ID string

	// Name is the human readable game title. Names are unique across all
	// watches; the store rejects duplicates.
	Name string

	Type Type

	// Schedule is a cron expression describing when the watch is evaluated.
	// It is validated at registration time and assumed valid afterwards.
	Schedule string

	// Country is an ISO-3166-1 alpha-2 region code. Defaults to "US".
	Country string

	// TargetValue is the maximum acceptable price for LowerThan watches and
	// the required discount percentage (0, 100] for Discount watches. It must
	// be nil for AllTimeLow watches.
	TargetValue *decimal.Decimal

	Platform Platform
}

func (w *Watch) String() string {
	return fmt.Sprintf("watch:%s:%q", w.ID, w.Name)
}

func (w *Watch) LogValue() slog.Value {
	return slog.StringValue(w.String())
}

// SetDefaults fills in the optional fields that have default values.
func (w *Watch) SetDefaults() {
	if len(w.Country) == 0 {
		w.Country = "US"
	}
	if len(w.Platform) == 0 {
		w.Platform = Windows
	}
}

// Check validates the watch as a whole, including the target value
// invariant for the current watch type.
func (w *Watch) Check() error {
	if len(w.ID) == 0 {
		return &ValidationError{Field: "id", Reason: "cannot be empty"}
	}
	if len(w.Name) == 0 {
		return &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	if _, err := ParseType(string(w.Type)); err != nil {
		return err
	}
	if err := schedule.Parse(w.Schedule); err != nil {
		return &ValidationError{
			Field:  "schedule",
			Reason: fmt.Sprintf("%q is not a valid cron expression: %v", w.Schedule, err),
		}
	}
	if err := CheckCountry(w.Country); err != nil {
		return err
	}
	if _, err := ParsePlatform(string(w.Platform)); err != nil {
		return err
	}
	return w.checkTarget()
}

func (w *Watch) checkTarget() error {
	if w.Type == AllTimeLow {
		if w.TargetValue != nil {
			return &ValidationError{
				Field:  "target-value",
				Reason: fmt.Sprintf("%q watches cannot have a target value", AllTimeLow),
			}
		}
		return nil
	}
	if w.TargetValue == nil {
		return &ValidationError{
			Field:  "target-value",
			Reason: fmt.Sprintf("%q watches need a target value", w.Type),
		}
	}
	if !w.TargetValue.IsPositive() {
		return &ValidationError{Field: "target-value", Reason: "must be positive"}
	}
	if w.Type == Discount && w.TargetValue.GreaterThan(decimal.NewFromInt(100)) {
		return &ValidationError{Field: "target-value", Reason: "discount percentage cannot exceed 100"}
	}
	return nil
}

// Clone returns a deep copy of the watch.
func (w *Watch) Clone() *Watch {
	c := *w
	if w.TargetValue != nil {
		v := *w.TargetValue
		c.TargetValue = &v
	}
	return &c
}

// CheckCountry validates an ISO-3166-1 alpha-2 country code.
func CheckCountry(code string) error {
	if len(code) != 2 {
		return &ValidationError{
			Field:  "country",
			Reason: fmt.Sprintf("%q is not a two-letter country code", code),
		}
	}
	if c := countries.ByName(strings.ToUpper(code)); c == countries.Unknown {
		return &ValidationError{
			Field:  "country",
			Reason: fmt.Sprintf("%q is not an ISO-3166-1 alpha-2 country code", code),
		}
	}
	return nil
}
