// Copyright (c) 2025 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
)

type checkable interface {
	Check() error
}

// postJSONHandler adapts a request/response function into a POST handler
// with JSON encoded bodies.
func postJSONHandler[REQ, RESP any](fn func(context.Context, *REQ) (*RESP, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "expected POST request", http.StatusMethodNotAllowed)
			return
		}

		req := new(REQ)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if c, ok := any(req).(checkable); ok {
			if err := c.Check(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			slog.ErrorContext(r.Context(), "api handler failed", "path", r.URL.Path, "err", err)
			http.Error(w, err.Error(), errorStatus(err))
			return
		}

		w.Header().Set("content-type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.ErrorContext(r.Context(), "could not encode api response (ignored)", "path", r.URL.Path, "err", err)
		}
	})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrExist):
		return http.StatusConflict
	case errors.Is(err, os.ErrInvalid):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
