// Copyright (c) 2025 BVK Chaitanya

package kvutil

import (
	"context"
	"testing"

	"github.com/bvkgo/kv"
	"github.com/bvkgo/kv/kvmemdb"
)

type item struct {
	Name  string
	Count int
}

func TestGetSetDB(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	want := &item{Name: "first", Count: 1}
	if err := SetDB(ctx, db, "/items/first", want); err != nil {
		t.Fatal(err)
	}
	got, err := GetDB[item](ctx, db, "/items/first")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != want.Name || got.Count != want.Count {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, err := GetDB[item](ctx, db, "/items/missing"); err == nil {
		t.Fatal("wanted non-nil error for missing key")
	}
}

func TestAscendDB(t *testing.T) {
	ctx := context.Background()
	db := kvmemdb.New()

	for _, name := range []string{"a", "b", "c"} {
		if err := SetDB(ctx, db, "/items/"+name, &item{Name: name}); err != nil {
			t.Fatal(err)
		}
	}
	if err := SetDB(ctx, db, "/other/x", &item{Name: "x"}); err != nil {
		t.Fatal(err)
	}

	begin, end := PathRange("/items")
	var got []string
	fn := func(ctx context.Context, r kv.Reader, key string, v *item) error {
		got = append(got, v.Name)
		return nil
	}
	if err := AscendDB(ctx, db, begin, end, fn); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("got %v, want [a b c]", got)
	}
}

func TestPathRange(t *testing.T) {
	begin, end := PathRange("/items")
	if begin != "/items/" || end != "/items0" {
		t.Fatalf("PathRange = (%q, %q)", begin, end)
	}
	begin, end = PathRange("/")
	if begin != "" || end != "" {
		t.Fatalf("PathRange(/) = (%q, %q), want empty range", begin, end)
	}
}
