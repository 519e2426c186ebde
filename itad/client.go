// Copyright (c) 2025 BVK Chaitanya

// Package itad implements a client for the IsThereAnyDeal price tracking
// service REST API.
package itad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"golang.org/x/time/rate"
)

type Client struct {
	opts Options

	// scheme is always https outside of tests.
	scheme string

	key string

	client *http.Client

	limiter *rate.Limiter
}

// New creates a client for the IsThereAnyDeal service.
func New(key string, opts *Options) (*Client, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("api key cannot be empty: %w", os.ErrInvalid)
	}
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()

	c := &Client{
		opts:   *opts,
		scheme: "https",
		key:    key,
		client: &http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimitPerSec), 1),
	}
	return c, nil
}

// ResolveID resolves a game name to the service's internal game id. The
// lookup is an exact title match; returns os.ErrNotExist when the service
// doesn't know the name.
func (c *Client) ResolveID(ctx context.Context, name string) (string, error) {
	values := make(url.Values)
	values.Set("key", c.key)

	url := &url.URL{
		Scheme:   c.scheme,
		Host:     c.opts.RestHostname,
		Path:     "/lookup/id/title/v1",
		RawQuery: values.Encode(),
	}
	resp := make(map[string]*string)
	if err := c.httpPostJSON(ctx, url, []string{name}, &resp); err != nil {
		return "", err
	}
	id, ok := resp[name]
	if !ok || id == nil || len(*id) == 0 {
		return "", fmt.Errorf("game %q is not known to the price service: %w", name, os.ErrNotExist)
	}
	return *id, nil
}

// GameInfo fetches the game metadata for a game id.
func (c *Client) GameInfo(ctx context.Context, id string) (*GameInfo, error) {
	values := make(url.Values)
	values.Set("key", c.key)
	values.Set("id", id)

	url := &url.URL{
		Scheme:   c.scheme,
		Host:     c.opts.RestHostname,
		Path:     "/games/info/v2",
		RawQuery: values.Encode(),
	}
	resp := new(GameInfo)
	if err := c.httpGetJSON(ctx, url, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Prices fetches the current deals and historical low for a game id in the
// given country. The returned GamePrices may hold zero deals; callers
// decide how to treat that.
func (c *Client) Prices(ctx context.Context, id, country string) (*GamePrices, error) {
	values := make(url.Values)
	values.Set("key", c.key)
	values.Set("country", country)

	url := &url.URL{
		Scheme:   c.scheme,
		Host:     c.opts.RestHostname,
		Path:     "/games/prices/v3",
		RawQuery: values.Encode(),
	}
	var resp []GamePrices
	if err := c.httpPostJSON(ctx, url, []string{id}, &resp); err != nil {
		return nil, err
	}
	for i := range resp {
		if resp[i].ID == id {
			return &resp[i], nil
		}
	}
	return nil, fmt.Errorf("price service returned no entry for game id %q: %w", id, os.ErrNotExist)
}

func (c *Client) httpGetJSON(ctx context.Context, url *url.URL, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Error("http GET is unsuccessful", "status", resp.StatusCode, "path", url.Path)
		return fmt.Errorf("http GET returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		slog.Error("could not decode response to json", "err", err)
		return err
	}
	return nil
}

func (c *Client) httpPostJSON(ctx context.Context, url *url.URL, request, result interface{}) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Error("http POST is unsuccessful", "status", resp.StatusCode, "path", url.Path)
		return fmt.Errorf("http POST returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		slog.Error("could not decode response to json", "err", err)
		return err
	}
	return nil
}
