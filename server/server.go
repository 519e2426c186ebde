// Copyright (c) 2025 BVK Chaitanya

// Package server ties the watch store, the price service gateway, the
// scheduler and the notification sinks together behind a JSON-over-HTTP
// api and a set of Telegram bot commands.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bvkgo/kv"
	"github.com/visvasity/topic"

	"github.com/bvk/dealbot/api"
	"github.com/bvk/dealbot/checker"
	"github.com/bvk/dealbot/ctxutil"
	"github.com/bvk/dealbot/itad"
	"github.com/bvk/dealbot/pushover"
	"github.com/bvk/dealbot/scheduler"
	"github.com/bvk/dealbot/telegram"
	"github.com/bvk/dealbot/watch"
	"github.com/bvk/dealbot/watchstore"
)

// PriceGateway is the part of the price service client the server uses.
type PriceGateway interface {
	ResolveID(ctx context.Context, name string) (string, error)
	GameInfo(ctx context.Context, id string) (*itad.GameInfo, error)
	Prices(ctx context.Context, id, country string) (*itad.GamePrices, error)
}

// MessageSink receives the notification text for triggered watches.
type MessageSink interface {
	SendMessage(ctx context.Context, at time.Time, text string) error
}

type Server struct {
	cg ctxutil.CloseGroup

	opts Options

	db kv.Database

	store *watchstore.Store

	gateway PriceGateway

	checker *checker.Checker

	scheduler *scheduler.Scheduler

	telegramClient *telegram.Client

	sinks []MessageSink
}

// New creates the dealbot server. The scheduler starts immediately; Close
// stops it along with the notification loop.
func New(ctx context.Context, secrets *Secrets, db kv.Database, opts *Options) (_ *Server, status error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	if err := secrets.Check(); err != nil {
		return nil, err
	}

	gateway, err := itad.New(secrets.ITAD.Key, nil /* opts */)
	if err != nil {
		return nil, fmt.Errorf("could not create price service client: %w", err)
	}

	s := &Server{
		opts:    *opts,
		db:      db,
		store:   watchstore.New(db),
		gateway: gateway,
		checker: checker.New(gateway, opts.CheckTimeout),
	}

	if secrets.Telegram != nil {
		tc, err := telegram.New(ctx, db, secrets.Telegram)
		if err != nil {
			return nil, fmt.Errorf("could not create telegram client: %w", err)
		}
		defer func() {
			if status != nil {
				tc.Close()
			}
		}()
		s.telegramClient = tc
		s.sinks = append(s.sinks, tc)

		if err := s.addTelegramCommands(ctx); err != nil {
			return nil, fmt.Errorf("could not register telegram commands: %w", err)
		}
	}
	if secrets.Pushover != nil {
		pc, err := pushover.New(secrets.Pushover)
		if err != nil {
			return nil, fmt.Errorf("could not create pushover client: %w", err)
		}
		s.sinks = append(s.sinks, pc)
	}

	s.scheduler = scheduler.New(s.store, s.checker, &scheduler.Options{
		CycleWidth:          opts.CycleWidth,
		MaxConcurrentChecks: opts.MaxConcurrentChecks,
	})
	defer func() {
		if status != nil {
			s.scheduler.Close()
		}
	}()

	updates, err := s.scheduler.DecisionUpdates()
	if err != nil {
		return nil, err
	}
	s.cg.Go(func(ctx context.Context) {
		defer updates.Close()
		s.goNotify(ctx, updates)
	})
	return s, nil
}

func (s *Server) Close() error {
	s.scheduler.Close()
	s.cg.Close()
	if s.telegramClient != nil {
		s.telegramClient.Close()
	}
	return nil
}

// HandlerMap returns the api endpoints and their handlers.
func (s *Server) HandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		api.WatchAddPath:        postJSONHandler(s.doWatchAdd),
		api.WatchUpdatePath:     postJSONHandler(s.doWatchUpdate),
		api.WatchDeletePath:     postJSONHandler(s.doWatchDelete),
		api.WatchGetPath:        postJSONHandler(s.doWatchGet),
		api.WatchListPath:       postJSONHandler(s.doWatchList),
		api.WatchSchedulePath:   postJSONHandler(s.doWatchSchedule),
		api.PriceLowestPath:     postJSONHandler(s.doPriceLowest),
		api.PriceAllTimeLowPath: postJSONHandler(s.doPriceAllTimeLow),
		api.PriceDealsPath:      postJSONHandler(s.doPriceDeals),
	}
}

// goNotify forwards triggered decisions to all notification sinks.
func (s *Server) goNotify(ctx context.Context, updates *topic.Receiver[*watch.Decision]) {
	updatesCh, err := topic.ReceiveCh(updates)
	if err != nil {
		slog.ErrorContext(ctx, "could not receive from decision topic", "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case d, ok := <-updatesCh:
			if !ok {
				return
			}
			s.SendMessage(ctx, time.Now(), d.Message())
		}
	}
}

// SendMessage sends the text through every configured notification sink.
// Sink failures are logged and ignored; notifications are best-effort.
func (s *Server) SendMessage(ctx context.Context, at time.Time, text string) {
	if len(s.sinks) == 0 {
		slog.WarnContext(ctx, "no notification sinks are configured (message dropped)", "message", text)
		return
	}
	for _, sink := range s.sinks {
		if err := sink.SendMessage(ctx, at, text); err != nil {
			slog.ErrorContext(ctx, "could not send notification (ignored)", "err", err)
		}
	}
}
