// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"github.com/shopspring/decimal"
)

// Update carries a partial replacement for a watch. Nil fields are left
// unchanged; non-nil fields replace the current value. The target value
// invariant is re-checked against the final watch type, so switching the
// type and adjusting the target value must happen in the same update.
type Update struct {
	Name *string

	Type *Type

	Schedule *string

	Country *string

	TargetValue *decimal.Decimal

	// ClearTargetValue removes the target value, which is required when
	// switching a watch to the all-time-low type.
	ClearTargetValue bool

	Platform *Platform
}

// IsEmpty returns true when the update would change nothing.
func (u *Update) IsEmpty() bool {
	return u.Name == nil && u.Type == nil && u.Schedule == nil &&
		u.Country == nil && u.TargetValue == nil && !u.ClearTargetValue &&
		u.Platform == nil
}

// Apply returns a copy of the watch with the update applied, after
// re-validating the result. The input watch is never modified.
func (u *Update) Apply(w *Watch) (*Watch, error) {
	if u.TargetValue != nil && u.ClearTargetValue {
		return nil, &ValidationError{
			Field:  "target-value",
			Reason: "cannot be set and cleared in the same update",
		}
	}

	nw := w.Clone()
	if u.Name != nil {
		nw.Name = *u.Name
	}
	if u.Type != nil {
		nw.Type = *u.Type
	}
	if u.Schedule != nil {
		nw.Schedule = *u.Schedule
	}
	if u.Country != nil {
		nw.Country = *u.Country
	}
	if u.TargetValue != nil {
		v := *u.TargetValue
		nw.TargetValue = &v
	}
	if u.ClearTargetValue {
		nw.TargetValue = nil
	}
	if u.Platform != nil {
		nw.Platform = *u.Platform
	}

	if err := nw.Check(); err != nil {
		return nil, err
	}
	return nw, nil
}
