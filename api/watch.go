// Copyright (c) 2025 BVK Chaitanya

// Package api defines the request and response types for the dealbot api
// endpoints. All endpoints use POST with JSON encoded bodies.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// WatchData is the wire form of a price watch.
type WatchData struct {
	ID string

	Name string

	Type string

	Schedule string

	Country string

	TargetValue *decimal.Decimal

	Platform string
}

const WatchAddPath = "/watch/add"

type WatchAddRequest struct {
	// Name is the game title; it is resolved to a game id through the price
	// service at registration time.
	Name string

	Type string

	Schedule string

	Country string

	TargetValue *decimal.Decimal

	Platform string
}

type WatchAddResponse struct {
	Watch *WatchData
}

const WatchUpdatePath = "/watch/update"

type WatchUpdateRequest struct {
	// ID selects the watch to update. Nil fields below are left unchanged.
	ID string

	Name *string

	Type *string

	Schedule *string

	Country *string

	TargetValue *decimal.Decimal

	// ClearTargetValue removes the target value, which is required when
	// switching a watch to the all time low type.
	ClearTargetValue bool

	Platform *string
}

type WatchUpdateResponse struct {
	Watch *WatchData
}

const WatchDeletePath = "/watch/delete"

type WatchDeleteRequest struct {
	// IDOrName selects the watch by game id or by name.
	IDOrName string
}

type WatchDeleteResponse struct {
	Watch *WatchData
}

const WatchGetPath = "/watch/get"

type WatchGetRequest struct {
	IDOrName string
}

type WatchGetResponse struct {
	Watch *WatchData
}

const WatchListPath = "/watch/list"

type WatchListRequest struct {
}

type WatchListResponse struct {
	Watches []*WatchData
}

const WatchSchedulePath = "/watch/schedule"

type WatchScheduleRequest struct {
	IDOrName string
}

type WatchScheduleResponse struct {
	Expression string

	// Description is the cron expression in human readable form.
	Description string

	// Next is the next time the watch will be evaluated.
	Next time.Time
}
