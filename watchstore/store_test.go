// Copyright (c) 2025 BVK Chaitanya

package watchstore

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"

	"github.com/bvk/dealbot/watch"
)

func newTestWatch(id, name string) *watch.Watch {
	target := decimal.NewFromInt(20)
	return &watch.Watch{
		ID:          id,
		Name:        name,
		Type:        watch.LowerThan,
		Schedule:    "0 9 * * 1",
		TargetValue: &target,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := New(kvmemdb.New())

	w, err := s.Create(ctx, newTestWatch("id-1", "Game A"))
	if err != nil {
		t.Fatal(err)
	}
	if w.Country != "US" || w.Platform != watch.Windows {
		t.Fatalf("defaults not applied: %+v", w)
	}

	// Same game id must be rejected.
	if _, err := s.Create(ctx, newTestWatch("id-1", "Game B")); !errors.Is(err, os.ErrExist) {
		t.Fatalf("wanted os.ErrExist, got %v", err)
	}
	// Same name on a different game id must be rejected, without case.
	if _, err := s.Create(ctx, newTestWatch("id-2", "game a")); !errors.Is(err, os.ErrExist) {
		t.Fatalf("wanted os.ErrExist, got %v", err)
	}

	ws, err := s.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 1 {
		t.Fatalf("watch count = %d, want 1", len(ws))
	}

	// Invalid watches never reach the database.
	bad := newTestWatch("id-3", "Game C")
	bad.TargetValue = nil
	if _, err := s.Create(ctx, bad); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
	if ws, _ := s.ListAll(ctx); len(ws) != 1 {
		t.Fatalf("watch count = %d, want 1", len(ws))
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := New(kvmemdb.New())

	if _, err := s.Create(ctx, newTestWatch("id-1", "Game A")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, newTestWatch("id-2", "Game B")); err != nil {
		t.Fatal(err)
	}

	// Type switch must keep the target value invariant intact.
	typ := watch.AllTimeLow
	if _, err := s.Update(ctx, "id-1", &watch.Update{Type: &typ}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
	w, err := s.Update(ctx, "id-1", &watch.Update{Type: &typ, ClearTargetValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if w.Type != watch.AllTimeLow || w.TargetValue != nil {
		t.Fatalf("updated watch = %+v", w)
	}
	if w, _ := s.Get(ctx, "id-1"); w.Type != watch.AllTimeLow {
		t.Fatalf("update not persisted: %+v", w)
	}

	// Renaming onto another watch's name must be rejected.
	name := "game b"
	if _, err := s.Update(ctx, "id-1", &watch.Update{Name: &name}); !errors.Is(err, os.ErrExist) {
		t.Fatalf("wanted os.ErrExist, got %v", err)
	}

	if _, err := s.Update(ctx, "missing", &watch.Update{Name: &name}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}
	if _, err := s.Update(ctx, "id-1", &watch.Update{}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid for empty update, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := New(kvmemdb.New())

	if _, err := s.Create(ctx, newTestWatch("id-1", "Game A")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, newTestWatch("id-2", "Game B")); err != nil {
		t.Fatal(err)
	}

	if w, err := s.Delete(ctx, "id-1"); err != nil || w.Name != "Game A" {
		t.Fatalf("delete by id = %+v, %v", w, err)
	}
	if w, err := s.Delete(ctx, "game b"); err != nil || w.ID != "id-2" {
		t.Fatalf("delete by name = %+v, %v", w, err)
	}
	if _, err := s.Delete(ctx, "id-1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}
	if ws, _ := s.ListAll(ctx); len(ws) != 0 {
		t.Fatalf("watch count = %d, want 0", len(ws))
	}
}

func TestFindByName(t *testing.T) {
	ctx := context.Background()
	s := New(kvmemdb.New())

	if _, err := s.Create(ctx, newTestWatch("id-1", "Game A")); err != nil {
		t.Fatal(err)
	}
	if w, err := s.FindByName(ctx, "GAME A"); err != nil || w.ID != "id-1" {
		t.Fatalf("find by name = %+v, %v", w, err)
	}
	if _, err := s.FindByName(ctx, "Game Z"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}
}
