// Copyright (c) 2025 BVK Chaitanya

package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/visvasity/topic"

	"github.com/bvk/dealbot/watch"
)

type fakeStore struct {
	ws  []*watch.Watch
	err error
}

func (f *fakeStore) ListAll(ctx context.Context) ([]*watch.Watch, error) {
	return f.ws, f.err
}

type fakeChecker struct {
	mu sync.Mutex

	evaluated []string

	trigger map[string]bool
}

func (f *fakeChecker) Check(ctx context.Context, w *watch.Watch) *watch.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluated = append(f.evaluated, w.ID)
	return &watch.Decision{WatchID: w.ID, Name: w.Name, Triggered: f.trigger[w.ID]}
}

func newTestScheduler(store WatchSource, checker Evaluator) *Scheduler {
	opts := &Options{CycleWidth: time.Hour, MaxConcurrentChecks: 2}
	return &Scheduler{
		opts:          *opts,
		store:         store,
		checker:       checker,
		decisionTopic: topic.New[*watch.Decision](),
	}
}

func testWatch(id, expr string) *watch.Watch {
	return &watch.Watch{ID: id, Name: "Game " + id, Type: watch.AllTimeLow, Schedule: expr}
}

func TestSelectDue(t *testing.T) {
	// 2024-01-01 is a Monday.
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	store := &fakeStore{ws: []*watch.Watch{
		testWatch("at-start", "0 9 * * 1"),
		testWatch("inside", "30 9 * * 1"),
		testWatch("at-end", "0 10 * * 1"),
		testWatch("tuesday", "0 9 * * 2"),
		testWatch("bad-schedule", "bogus"),
	}}
	s := newTestScheduler(store, &fakeChecker{})

	due, err := s.selectDue(context.Background(), monday9)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, w := range due {
		ids = append(ids, w.ID)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "at-start" || ids[1] != "inside" {
		t.Fatalf("due = %v, want [at-start inside]", ids)
	}
}

func TestRunCycle(t *testing.T) {
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	store := &fakeStore{ws: []*watch.Watch{
		testWatch("a", "0 9 * * 1"),
		testWatch("b", "15 9 * * 1"),
		testWatch("c", "0 9 * * 2"),
	}}
	checker := &fakeChecker{trigger: map[string]bool{"b": true}}
	s := newTestScheduler(store, checker)

	recv, err := s.DecisionUpdates()
	if err != nil {
		t.Fatal(err)
	}
	defer recv.Close()
	recvCh, err := topic.ReceiveCh(recv)
	if err != nil {
		t.Fatal(err)
	}

	s.runCycle(context.Background(), monday9)

	sort.Strings(checker.evaluated)
	if len(checker.evaluated) != 2 || checker.evaluated[0] != "a" || checker.evaluated[1] != "b" {
		t.Fatalf("evaluated = %v, want [a b]", checker.evaluated)
	}

	select {
	case d := <-recvCh:
		if d.WatchID != "b" || !d.Triggered {
			t.Fatalf("decision = %s", d)
		}
	case <-time.After(time.Second):
		t.Fatal("triggered decision was not published")
	}
}

func TestRunCycleStoreError(t *testing.T) {
	monday9 := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	store := &fakeStore{err: fmt.Errorf("database is closed")}
	checker := &fakeChecker{}
	s := newTestScheduler(store, checker)

	// A store failure skips the whole cycle without evaluating anything.
	s.runCycle(context.Background(), monday9)
	if len(checker.evaluated) != 0 {
		t.Fatalf("evaluated = %v, want none", checker.evaluated)
	}
}
