// Copyright (c) 2025 BVK Chaitanya

// Package schedule answers "is this cron expression due within a time
// window?". Cron parsing itself is delegated to the robfig/cron parser;
// this package only layers the window arithmetic on top.
package schedule

import (
	"fmt"
	"sync"
	"time"

	crondesc "github.com/lnquy/cron"
	"github.com/robfig/cron/v3"
)

// Standard five-field cron expressions: minute, hour, day-of-month, month
// and day-of-week.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Parse validates a cron expression. Watches are rejected at registration
// time when their expression does not parse, so evaluation never sees a
// malformed schedule under normal operation.
func Parse(expr string) error {
	if _, err := parser.Parse(expr); err != nil {
		return fmt.Errorf("could not parse cron expression %q: %w", expr, err)
	}
	return nil
}

// Next returns the first firing time at or after the given reference time.
// A zero time is returned when the expression can never fire again.
func Next(expr string, at time.Time) (time.Time, error) {
	sched, err := parser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse cron expression %q: %w", expr, err)
	}
	// cron.Schedule.Next is exclusive of its argument; back off one second so
	// that a firing exactly at the reference time is included. Cron firings
	// are always on whole minutes, so nothing else fits in that second.
	return sched.Next(at.Add(-time.Second)), nil
}

// IsDue reports whether the expression fires within the half-open window
// [windowStart, windowEnd). A firing exactly at windowEnd belongs to the
// next window. The window width is arbitrary; callers typically pass one
// scheduler cycle.
func IsDue(expr string, windowStart, windowEnd time.Time) (bool, error) {
	next, err := Next(expr, windowStart)
	if err != nil {
		return false, err
	}
	if next.IsZero() {
		return false, nil
	}
	return next.Before(windowEnd), nil
}

var descriptor = sync.OnceValues(func() (*crondesc.ExpressionDescriptor, error) {
	return crondesc.NewDescriptor()
})

// Describe returns a human readable description of a cron expression, for
// example "At 09:00 AM, only on Monday". Used in command replies.
func Describe(expr string) (string, error) {
	d, err := descriptor()
	if err != nil {
		return "", fmt.Errorf("could not create cron descriptor: %w", err)
	}
	text, err := d.ToDescription(expr, crondesc.Locale_en)
	if err != nil {
		return "", fmt.Errorf("could not describe cron expression %q: %w", expr, err)
	}
	return text, nil
}
