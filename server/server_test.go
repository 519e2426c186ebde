// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/checker"
	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/watchstore"
)

type fakeGateway struct {
	ids    map[string]string
	prices map[string]*itad.GamePrices
	infos  map[string]*itad.GameInfo
}

func (f *fakeGateway) ResolveID(ctx context.Context, name string) (string, error) {
	id, ok := f.ids[name]
	if !ok {
		return "", fmt.Errorf("game %q is not known: %w", name, os.ErrNotExist)
	}
	return id, nil
}

func (f *fakeGateway) GameInfo(ctx context.Context, id string) (*itad.GameInfo, error) {
	info, ok := f.infos[id]
	if !ok {
		return nil, fmt.Errorf("no info for game id %q: %w", id, os.ErrNotExist)
	}
	return info, nil
}

func (f *fakeGateway) Prices(ctx context.Context, id, country string) (*itad.GamePrices, error) {
	g, ok := f.prices[id]
	if !ok {
		return nil, fmt.Errorf("no prices for game id %q: %w", id, os.ErrNotExist)
	}
	return g, nil
}

func newTestServer(gw *fakeGateway) *Server {
	db := kvmemdb.New()
	s := &Server{
		db:      db,
		store:   watchstore.New(db),
		gateway: gw,
		checker: checker.New(gw, time.Minute),
	}
	s.opts.setDefaults()
	return s
}

func newTestGateway() *fakeGateway {
	low := itad.Price{Amount: decimal.NewFromInt(25), Currency: "USD"}
	return &fakeGateway{
		ids: map[string]string{"Elden Ring": "id-elden"},
		prices: map[string]*itad.GamePrices{
			"id-elden": {
				ID: "id-elden",
				Deals: []itad.Deal{
					{
						Shop:      itad.Shop{Name: "Steam"},
						Price:     itad.Price{Amount: decimal.NewFromInt(45), Currency: "USD"},
						Regular:   itad.Price{Amount: decimal.NewFromInt(60), Currency: "USD"},
						Platforms: []itad.Platform{{Name: "Windows"}},
						URL:       "https://example.org/deal",
					},
					{
						Shop:      itad.Shop{Name: "GOG"},
						Price:     itad.Price{Amount: decimal.NewFromInt(40), Currency: "USD"},
						Regular:   itad.Price{Amount: decimal.NewFromInt(60), Currency: "USD"},
						Platforms: []itad.Platform{{Name: "Windows"}},
					},
				},
				HistoryLow: itad.HistoryLow{All: &low},
			},
		},
		infos: map[string]*itad.GameInfo{
			"id-elden": {ID: "id-elden", Title: "Elden Ring", ReleaseDate: "2022-02-25"},
		},
	}
}

func TestWatchAdd(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newTestGateway())

	target := decimal.NewFromInt(30)
	resp, err := s.doWatchAdd(ctx, &api.WatchAddRequest{
		Name:        "Elden Ring",
		Type:        "lower-than",
		Schedule:    "0 9 * * 1",
		TargetValue: &target,
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Watch.ID != "id-elden" {
		t.Fatalf("watch id = %q, want id-elden", resp.Watch.ID)
	}
	if resp.Watch.Country != "US" || resp.Watch.Platform != "Windows" {
		t.Fatalf("defaults not applied: %+v", resp.Watch)
	}

	// Unknown titles are rejected before anything is saved.
	if _, err := s.doWatchAdd(ctx, &api.WatchAddRequest{
		Name: "No Such Game", Type: "all-time-low", Schedule: "0 9 * * 1",
	}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}

	// Duplicates are rejected.
	if _, err := s.doWatchAdd(ctx, &api.WatchAddRequest{
		Name: "Elden Ring", Type: "lower-than", Schedule: "0 9 * * 1", TargetValue: &target,
	}); !errors.Is(err, os.ErrExist) {
		t.Fatalf("wanted os.ErrExist, got %v", err)
	}
}

func TestWatchUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newTestGateway())

	target := decimal.NewFromInt(30)
	if _, err := s.doWatchAdd(ctx, &api.WatchAddRequest{
		Name: "Elden Ring", Type: "lower than", Schedule: "0 9 * * 1", TargetValue: &target,
	}); err != nil {
		t.Fatal(err)
	}

	typ := "all-time-low"
	if _, err := s.doWatchUpdate(ctx, &api.WatchUpdateRequest{ID: "id-elden", Type: &typ}); !errors.Is(err, os.ErrInvalid) {
		t.Fatalf("wanted os.ErrInvalid, got %v", err)
	}
	resp, err := s.doWatchUpdate(ctx, &api.WatchUpdateRequest{ID: "id-elden", Type: &typ, ClearTargetValue: true})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Watch.Type != "all time low" || resp.Watch.TargetValue != nil {
		t.Fatalf("updated watch = %+v", resp.Watch)
	}

	// Delete works by name too.
	dresp, err := s.doWatchDelete(ctx, &api.WatchDeleteRequest{IDOrName: "elden ring"})
	if err != nil {
		t.Fatal(err)
	}
	if dresp.Watch.ID != "id-elden" {
		t.Fatalf("deleted watch = %+v", dresp.Watch)
	}
	if resp, err := s.doWatchList(ctx, &api.WatchListRequest{}); err != nil || len(resp.Watches) != 0 {
		t.Fatalf("watches = %+v, %v", resp.Watches, err)
	}
}

func TestWatchSchedule(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newTestGateway())

	if _, err := s.doWatchAdd(ctx, &api.WatchAddRequest{
		Name: "Elden Ring", Type: "all time low", Schedule: "0 9 * * 1",
	}); err != nil {
		t.Fatal(err)
	}

	resp, err := s.doWatchSchedule(ctx, &api.WatchScheduleRequest{IDOrName: "Elden Ring"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Expression != "0 9 * * 1" || len(resp.Description) == 0 {
		t.Fatalf("schedule = %+v", resp)
	}
	if !resp.Next.After(time.Now()) {
		t.Fatalf("next = %s is not in the future", resp.Next)
	}
}

func TestPriceQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newTestGateway())

	lresp, err := s.doPriceLowest(ctx, &api.PriceLowestRequest{Name: "Elden Ring"})
	if err != nil {
		t.Fatal(err)
	}
	if lresp.Deal.Shop != "GOG" || !lresp.Deal.Price.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("lowest deal = %+v", lresp.Deal)
	}

	aresp, err := s.doPriceAllTimeLow(ctx, &api.PriceAllTimeLowRequest{Name: "Elden Ring"})
	if err != nil {
		t.Fatal(err)
	}
	if !aresp.Price.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("all-time low = %+v", aresp)
	}

	dresp, err := s.doPriceDeals(ctx, &api.PriceDealsRequest{Name: "Elden Ring"})
	if err != nil {
		t.Fatal(err)
	}
	if len(dresp.Deals) != 2 || dresp.Deals[0].Shop != "GOG" {
		t.Fatalf("deals = %+v", dresp.Deals)
	}

	// Price queries work without a registered watch too.
	if _, err := s.doPriceLowest(ctx, &api.PriceLowestRequest{Name: "No Such Game"}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("wanted os.ErrNotExist, got %v", err)
	}
}

func TestHandlerStatusCodes(t *testing.T) {
	s := newTestServer(newTestGateway())
	h := postJSONHandler(s.doWatchGet)

	post := func(body any) *httptest.ResponseRecorder {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r := httptest.NewRequest(http.MethodPost, api.WatchGetPath, bytes.NewReader(data))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	if w := post(&api.WatchGetRequest{IDOrName: "missing"}); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if w := post(&api.WatchGetRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	r := httptest.NewRequest(http.MethodGet, api.WatchGetPath, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestTelegramCommands(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(newTestGateway())

	var sb strings.Builder
	cctx := cli.WithStdout(ctx, &sb)

	if err := s.addWatchCmd(cctx, []string{"Elden Ring", "discount", "25", "0", "9", "*", "*", "1"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "Elden Ring") {
		t.Fatalf("reply = %q", sb.String())
	}

	sb.Reset()
	if err := s.listAllCmd(cctx, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "discount 25") {
		t.Fatalf("reply = %q", sb.String())
	}

	sb.Reset()
	if err := s.getLowestCmd(cctx, []string{"Elden Ring"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "GOG") {
		t.Fatalf("reply = %q", sb.String())
	}

	sb.Reset()
	if err := s.getBestDealCmd(cctx, []string{"Elden Ring"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "40.00") {
		t.Fatalf("reply = %q", sb.String())
	}

	sb.Reset()
	if err := s.gameInfoCmd(cctx, []string{"Elden Ring"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "2022-02-25") {
		t.Fatalf("reply = %q", sb.String())
	}

	// Default schedule applies when no cron expression is given.
	sb.Reset()
	if err := s.deleteWatchCmd(cctx, []string{"Elden Ring"}); err != nil {
		t.Fatal(err)
	}
	sb.Reset()
	if err := s.addWatchCmd(cctx, []string{"Elden Ring", "all-time-low"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), defaultSchedule) {
		t.Fatalf("reply = %q", sb.String())
	}
}
