// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestWatch() *Watch {
	target := decimal.NewFromInt(20)
	w := &Watch{
		ID:          "018d937f-test",
		Name:        "Game A",
		Type:        LowerThan,
		Schedule:    "0 9 * * 1",
		TargetValue: &target,
	}
	w.SetDefaults()
	return w
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"all time low", "  All Time Low ", "LOWER THAN", "discount"} {
		if _, err := ParseType(s); err != nil {
			t.Errorf("ParseType(%q): %v", s, err)
		}
	}
	if _, err := ParseType("cheapest ever"); err == nil {
		t.Fatal("wanted non-nil error for unknown watch type")
	} else if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
}

func TestParsePlatform(t *testing.T) {
	for _, s := range []string{"Windows", "MacOS", "PS5", "Xbox", "Switch"} {
		if _, err := ParsePlatform(s); err != nil {
			t.Errorf("ParsePlatform(%q): %v", s, err)
		}
	}
	// Platform names are case sensitive, matching the fixed enum.
	if _, err := ParsePlatform("windows"); err == nil {
		t.Fatal("wanted non-nil error for unknown platform")
	}
}

func TestCheckDefaults(t *testing.T) {
	w := &Watch{}
	w.SetDefaults()
	if w.Country != "US" {
		t.Errorf("default country = %q, want US", w.Country)
	}
	if w.Platform != Windows {
		t.Errorf("default platform = %q, want Windows", w.Platform)
	}
}

func TestCheckTargetInvariant(t *testing.T) {
	target := decimal.NewFromInt(25)

	w := newTestWatch()
	w.Type = AllTimeLow
	w.TargetValue = &target
	if err := w.Check(); err == nil {
		t.Fatal("all-time-low watch with target value must be rejected")
	}
	w.TargetValue = nil
	if err := w.Check(); err != nil {
		t.Fatalf("all-time-low watch without target value: %v", err)
	}

	for _, typ := range []Type{LowerThan, Discount} {
		w := newTestWatch()
		w.Type = typ
		w.TargetValue = nil
		if err := w.Check(); err == nil {
			t.Fatalf("%q watch without target value must be rejected", typ)
		}
		w.TargetValue = &target
		if err := w.Check(); err != nil {
			t.Fatalf("%q watch with target value: %v", typ, err)
		}
	}

	over := decimal.NewFromInt(120)
	w = newTestWatch()
	w.Type = Discount
	w.TargetValue = &over
	if err := w.Check(); err == nil {
		t.Fatal("discount over 100 percent must be rejected")
	}
}

func TestCheckCountry(t *testing.T) {
	for _, cc := range []string{"US", "DE", "br", "JP"} {
		if err := CheckCountry(cc); err != nil {
			t.Errorf("CheckCountry(%q): %v", cc, err)
		}
	}
	for _, cc := range []string{"", "U", "USA", "XX", "1A"} {
		if err := CheckCountry(cc); err == nil {
			t.Errorf("CheckCountry(%q): wanted non-nil error", cc)
		}
	}
}

func TestCheckSchedule(t *testing.T) {
	w := newTestWatch()
	w.Schedule = "not cron"
	if err := w.Check(); err == nil {
		t.Fatal("malformed schedule must be rejected at registration time")
	} else if !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
}

func TestUpdateApply(t *testing.T) {
	w := newTestWatch()

	// Switching to all-time-low requires clearing the target value.
	typ := AllTimeLow
	if _, err := (&Update{Type: &typ}).Apply(w); err == nil {
		t.Fatal("type switch keeping a stale target value must be rejected")
	}
	nw, err := (&Update{Type: &typ, ClearTargetValue: true}).Apply(w)
	if err != nil {
		t.Fatal(err)
	}
	if nw.TargetValue != nil {
		t.Fatal("target value should be cleared")
	}
	if w.TargetValue == nil || w.Type != LowerThan {
		t.Fatal("Apply must not modify the input watch")
	}

	// Switching the other way requires supplying a target value.
	lower := LowerThan
	if _, err := (&Update{Type: &lower}).Apply(nw); err == nil {
		t.Fatal("type switch without a target value must be rejected")
	}
	target := decimal.NewFromInt(30)
	nw2, err := (&Update{Type: &lower, TargetValue: &target}).Apply(nw)
	if err != nil {
		t.Fatal(err)
	}
	if nw2.TargetValue == nil || !nw2.TargetValue.Equal(target) {
		t.Fatalf("target value = %v, want 30", nw2.TargetValue)
	}

	if _, err := (&Update{TargetValue: &target, ClearTargetValue: true}).Apply(w); err == nil {
		t.Fatal("set and clear in the same update must be rejected")
	}
}

func TestUpdateIsEmpty(t *testing.T) {
	if !(&Update{}).IsEmpty() {
		t.Fatal("zero update must be empty")
	}
	name := "Other"
	if (&Update{Name: &name}).IsEmpty() {
		t.Fatal("update with a field must not be empty")
	}
}
