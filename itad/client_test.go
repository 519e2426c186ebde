// Copyright (c) 2025 BVK Chaitanya

package itad

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	s := httptest.NewServer(handler)
	t.Cleanup(s.Close)

	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	c, err := New("test-key", &Options{RestHostname: u.Host})
	if err != nil {
		t.Fatal(err)
	}
	// The httptest server speaks plain http.
	c.scheme = "http"
	c.client = s.Client()
	return c, s
}

func TestResolveID(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/lookup/id/title/v1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("key = %q, want test-key", r.URL.Query().Get("key"))
		}
		var names []string
		if err := json.NewDecoder(r.Body).Decode(&names); err != nil {
			t.Error(err)
		}
		resp := make(map[string]*string)
		for _, name := range names {
			if name == "Known Game" {
				id := "018d937f-1234"
				resp[name] = &id
			} else {
				resp[name] = nil
			}
		}
		json.NewEncoder(w).Encode(resp)
	})
	c, _ := newTestClient(t, mux)
	ctx := context.Background()

	id, err := c.ResolveID(ctx, "Known Game")
	if err != nil {
		t.Fatal(err)
	}
	if id != "018d937f-1234" {
		t.Fatalf("id = %q", id)
	}

	if _, err := c.ResolveID(ctx, "Unknown Game"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}
}

func TestPrices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/prices/v3", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("country") != "US" {
			t.Errorf("country = %q, want US", r.URL.Query().Get("country"))
		}
		var ids []string
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			t.Error(err)
		}
		resp := []GamePrices{{
			ID: ids[0],
			Deals: []Deal{{
				Shop:      Shop{ID: 61, Name: "Steam"},
				Price:     Price{Amount: decimal.NewFromInt(45), Currency: "USD"},
				Regular:   Price{Amount: decimal.NewFromInt(60), Currency: "USD"},
				Platforms: []Platform{{Name: "Windows"}},
			}},
			HistoryLow: HistoryLow{
				All: &Price{Amount: decimal.NewFromInt(25), Currency: "USD"},
			},
		}}
		json.NewEncoder(w).Encode(resp)
	})
	c, _ := newTestClient(t, mux)

	g, err := c.Prices(context.Background(), "018d937f-1234", "US")
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Deals) != 1 || g.Deals[0].Shop.Name != "Steam" {
		t.Fatalf("deals = %+v", g.Deals)
	}
	low, ok := g.AllTimeLow()
	if !ok || !low.Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("all-time low = %+v, %t", low, ok)
	}
}

func TestGameInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/games/info/v2", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id") != "018d937f-1234" {
			t.Errorf("id = %q", r.URL.Query().Get("id"))
		}
		json.NewEncoder(w).Encode(&GameInfo{ID: "018d937f-1234", Title: "Known Game"})
	})
	c, _ := newTestClient(t, mux)

	info, err := c.GameInfo(context.Background(), "018d937f-1234")
	if err != nil {
		t.Fatal(err)
	}
	if info.Title != "Known Game" {
		t.Fatalf("title = %q", info.Title)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("", nil); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
}
