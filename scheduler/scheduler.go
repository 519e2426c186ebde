// Copyright (c) 2025 BVK Chaitanya

// Package scheduler runs the periodic watch evaluation cycles.
//
// A cycle starts at every wall-clock boundary of the cycle width (top of
// the hour by default), selects watches whose cron schedule is due within
// the cycle's window and evaluates them concurrently. Triggered decisions
// are published on a topic for the notification sinks.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/visvasity/topic"

	"github.com/bvk/dealbot/ctxutil"
	"github.com/bvk/dealbot/schedule"
	"github.com/bvk/dealbot/watch"
)

// WatchSource lists the watches to consider for a cycle.
type WatchSource interface {
	ListAll(ctx context.Context) ([]*watch.Watch, error)
}

// Evaluator evaluates one due watch against fresh price data.
type Evaluator interface {
	Check(ctx context.Context, w *watch.Watch) *watch.Decision
}

type Options struct {
	// CycleWidth is the wall-clock alignment and window width of evaluation
	// cycles.
	CycleWidth time.Duration

	// MaxConcurrentChecks bounds the number of watches evaluated in
	// parallel within one cycle.
	MaxConcurrentChecks int
}

func (v *Options) setDefaults() {
	if v.CycleWidth == 0 {
		v.CycleWidth = time.Hour
	}
	if v.MaxConcurrentChecks == 0 {
		v.MaxConcurrentChecks = 4
	}
}

type Scheduler struct {
	cg ctxutil.CloseGroup

	opts Options

	store WatchSource

	checker Evaluator

	decisionTopic *topic.Topic[*watch.Decision]
}

// New creates a scheduler and starts its background cycle loop.
func New(store WatchSource, checker Evaluator, opts *Options) *Scheduler {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()

	s := &Scheduler{
		opts:          *opts,
		store:         store,
		checker:       checker,
		decisionTopic: topic.New[*watch.Decision](),
	}
	s.cg.Go(s.goRun)
	return s
}

// Close stops the cycle loop. A cycle in progress is drained before Close
// returns, so no evaluation outlives the scheduler.
func (s *Scheduler) Close() {
	s.cg.Close()
}

// DecisionUpdates subscribes to triggered decisions.
func (s *Scheduler) DecisionUpdates() (*topic.Receiver[*watch.Decision], error) {
	return topic.Subscribe(s.decisionTopic, 0, false)
}

func (s *Scheduler) goRun(ctx context.Context) {
	width := s.opts.CycleWidth

	// Align to the next wall-clock boundary; a restart mid-window does not
	// replay the window that already began.
	next := time.Now().Truncate(width).Add(width)
	for ctx.Err() == nil {
		ctxutil.Sleep(ctx, time.Until(next))
		if ctx.Err() != nil {
			return
		}
		if time.Now().Before(next) {
			continue
		}

		s.runCycle(ctx, next)

		next = next.Add(width)
		if latest := time.Now().Truncate(width); next.Before(latest) {
			// An overlong cycle swallowed one or more boundaries. Older
			// windows are lost; only the latest one runs.
			slog.WarnContext(ctx, "evaluation cycle overran; skipping to the latest window", "next", latest)
			next = latest
		}
	}
}

// runCycle evaluates all watches due within [windowStart, windowStart+width).
func (s *Scheduler) runCycle(ctx context.Context, windowStart time.Time) {
	due, err := s.selectDue(ctx, windowStart)
	if err != nil {
		// The whole cycle is skipped; the next boundary retries.
		slog.WarnContext(ctx, "could not list watches; skipping cycle", "window", windowStart, "err", err)
		return
	}
	slog.InfoContext(ctx, "starting evaluation cycle", "window", windowStart, "due", len(due))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.opts.MaxConcurrentChecks)
	for _, w := range due {
		wg.Add(1)
		sem <- struct{}{}
		go func(w *watch.Watch) {
			defer wg.Done()
			defer func() { <-sem }()

			d := s.checker.Check(ctx, w)
			if d.Triggered {
				slog.InfoContext(ctx, "watch has triggered", "decision", d)
				s.decisionTopic.Send(d)
			} else {
				slog.InfoContext(ctx, "watch did not trigger", "decision", d)
			}
		}(w)
	}
	wg.Wait()
}

// selectDue returns the watches whose schedule fires within the cycle
// window starting at windowStart. A watch with an unparsable schedule is
// skipped with a warning; it cannot fail the others.
func (s *Scheduler) selectDue(ctx context.Context, windowStart time.Time) ([]*watch.Watch, error) {
	ws, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var due []*watch.Watch
	windowEnd := windowStart.Add(s.opts.CycleWidth)
	for _, w := range ws {
		ok, err := schedule.IsDue(w.Schedule, windowStart, windowEnd)
		if err != nil {
			slog.WarnContext(ctx, "could not evaluate watch schedule (skipped)", "watch", w, "err", err)
			continue
		}
		if ok {
			due = append(due, w)
		}
	}
	return due, nil
}
