// Copyright (c) 2025 BVK Chaitanya

package server

import "time"

type Options struct {
	// CycleWidth is the wall-clock alignment and window width of the watch
	// evaluation cycles.
	CycleWidth time.Duration

	// MaxConcurrentChecks bounds parallel watch evaluations in one cycle.
	MaxConcurrentChecks int

	// CheckTimeout bounds a single watch evaluation.
	CheckTimeout time.Duration
}

func (v *Options) setDefaults() {
	if v.CycleWidth == 0 {
		v.CycleWidth = time.Hour
	}
	if v.MaxConcurrentChecks == 0 {
		v.MaxConcurrentChecks = 4
	}
	if v.CheckTimeout == 0 {
		v.CheckTimeout = time.Minute
	}
}

func (v *Options) Check() error {
	return nil
}
