// Copyright (c) 2025 BVK Chaitanya

// Package watchstore persists price watches in a kv.Database.
package watchstore

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bvkgo/kv"

	"github.com/bvk/dealbot/gobs"
	"github.com/bvk/dealbot/kvutil"
	"github.com/bvk/dealbot/watch"
)

// Keyspace holds all watch records, one key per watched game id.
const Keyspace = "/watches/"

type Store struct {
	db kv.Database
}

func New(db kv.Database) *Store {
	return &Store{db: db}
}

func watchKey(id string) string {
	return path.Join(Keyspace, id)
}

func toGob(w *watch.Watch) *gobs.WatchRecord {
	r := &gobs.WatchRecord{
		ID:           w.ID,
		Name:         w.Name,
		WatchType:    string(w.Type),
		CronSchedule: w.Schedule,
		Country:      w.Country,
		Platform:     string(w.Platform),
	}
	if w.TargetValue != nil {
		v := *w.TargetValue
		r.TargetValue = &v
	}
	return r
}

func fromGob(r *gobs.WatchRecord) *watch.Watch {
	w := &watch.Watch{
		ID:       r.ID,
		Name:     r.Name,
		Type:     watch.Type(r.WatchType),
		Schedule: r.CronSchedule,
		Country:  r.Country,
		Platform: watch.Platform(r.Platform),
	}
	if r.TargetValue != nil {
		v := *r.TargetValue
		w.TargetValue = &v
	}
	return w
}

// Create validates and saves a new watch. Returns os.ErrExist when a watch
// already exists for the same game id or the same name.
func (s *Store) Create(ctx context.Context, w *watch.Watch) (*watch.Watch, error) {
	w = w.Clone()
	w.SetDefaults()
	if err := w.Check(); err != nil {
		return nil, err
	}

	create := func(ctx context.Context, rw kv.ReadWriter) error {
		if _, err := rw.Get(ctx, watchKey(w.ID)); err == nil {
			return fmt.Errorf("watch for game id %q already exists: %w", w.ID, os.ErrExist)
		}
		begin, end := kvutil.PathRange(Keyspace)
		checkName := func(ctx context.Context, r kv.Reader, key string, v *gobs.WatchRecord) error {
			if strings.EqualFold(v.Name, w.Name) {
				return fmt.Errorf("watch named %q already exists: %w", v.Name, os.ErrExist)
			}
			return nil
		}
		if err := kvutil.Ascend(ctx, rw, begin, end, checkName); err != nil {
			return err
		}
		return kvutil.Set(ctx, rw, watchKey(w.ID), toGob(w))
	}
	if err := kv.WithReadWriter(ctx, s.db, create); err != nil {
		return nil, err
	}
	return w, nil
}

// Update applies a partial update to an existing watch and saves the
// result. Returns os.ErrNotExist when no watch exists for the game id.
func (s *Store) Update(ctx context.Context, id string, up *watch.Update) (*watch.Watch, error) {
	if up.IsEmpty() {
		return nil, fmt.Errorf("update has no fields to change: %w", os.ErrInvalid)
	}

	var updated *watch.Watch
	update := func(ctx context.Context, rw kv.ReadWriter) error {
		r, err := kvutil.Get[gobs.WatchRecord](ctx, rw, watchKey(id))
		if err != nil {
			return fmt.Errorf("no watch exists for game id %q: %w", id, os.ErrNotExist)
		}
		old := fromGob(r)
		nw, err := up.Apply(old)
		if err != nil {
			return err
		}
		if !strings.EqualFold(nw.Name, old.Name) {
			begin, end := kvutil.PathRange(Keyspace)
			checkName := func(ctx context.Context, r kv.Reader, key string, v *gobs.WatchRecord) error {
				if v.ID != id && strings.EqualFold(v.Name, nw.Name) {
					return fmt.Errorf("watch named %q already exists: %w", v.Name, os.ErrExist)
				}
				return nil
			}
			if err := kvutil.Ascend(ctx, rw, begin, end, checkName); err != nil {
				return err
			}
		}
		updated = nw
		return kvutil.Set(ctx, rw, watchKey(id), toGob(nw))
	}
	if err := kv.WithReadWriter(ctx, s.db, update); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a watch by game id or by name. Returns os.ErrNotExist
// when neither matches.
func (s *Store) Delete(ctx context.Context, idOrName string) (*watch.Watch, error) {
	var deleted *watch.Watch
	del := func(ctx context.Context, rw kv.ReadWriter) error {
		if r, err := kvutil.Get[gobs.WatchRecord](ctx, rw, watchKey(idOrName)); err == nil {
			deleted = fromGob(r)
			return rw.Delete(ctx, watchKey(idOrName))
		}
		begin, end := kvutil.PathRange(Keyspace)
		byName := func(ctx context.Context, r kv.Reader, key string, v *gobs.WatchRecord) error {
			if deleted == nil && strings.EqualFold(v.Name, idOrName) {
				deleted = fromGob(v)
			}
			return nil
		}
		if err := kvutil.Ascend(ctx, rw, begin, end, byName); err != nil {
			return err
		}
		if deleted == nil {
			return fmt.Errorf("no watch exists with id or name %q: %w", idOrName, os.ErrNotExist)
		}
		return rw.Delete(ctx, watchKey(deleted.ID))
	}
	if err := kv.WithReadWriter(ctx, s.db, del); err != nil {
		return nil, err
	}
	return deleted, nil
}

// Get returns the watch for a game id. Returns os.ErrNotExist when there
// is none.
func (s *Store) Get(ctx context.Context, id string) (*watch.Watch, error) {
	r, err := kvutil.GetDB[gobs.WatchRecord](ctx, s.db, watchKey(id))
	if err != nil {
		return nil, fmt.Errorf("no watch exists for game id %q: %w", id, os.ErrNotExist)
	}
	return fromGob(r), nil
}

// FindByName returns the watch with the given name, compared without case.
// Returns os.ErrNotExist when there is none.
func (s *Store) FindByName(ctx context.Context, name string) (*watch.Watch, error) {
	var found *watch.Watch
	begin, end := kvutil.PathRange(Keyspace)
	byName := func(ctx context.Context, r kv.Reader, key string, v *gobs.WatchRecord) error {
		if found == nil && strings.EqualFold(v.Name, name) {
			found = fromGob(v)
		}
		return nil
	}
	if err := kvutil.AscendDB(ctx, s.db, begin, end, byName); err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("no watch exists with name %q: %w", name, os.ErrNotExist)
	}
	return found, nil
}

// ListAll returns all watches in game id order.
func (s *Store) ListAll(ctx context.Context) ([]*watch.Watch, error) {
	var ws []*watch.Watch
	begin, end := kvutil.PathRange(Keyspace)
	collect := func(ctx context.Context, r kv.Reader, key string, v *gobs.WatchRecord) error {
		ws = append(ws, fromGob(v))
		return nil
	}
	if err := kvutil.AscendDB(ctx, s.db, begin, end, collect); err != nil {
		return nil, err
	}
	return ws, nil
}
