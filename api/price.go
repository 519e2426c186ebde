// Copyright (c) 2025 BVK Chaitanya

package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealData is the wire form of a single store deal.
type DealData struct {
	Shop string

	Price decimal.Decimal

	Regular decimal.Decimal

	Currency string

	URL string

	Timestamp time.Time
}

const PriceLowestPath = "/price/lowest"

type PriceLowestRequest struct {
	// Name is the game title; registered watches are consulted first, and
	// unknown titles are resolved through the price service.
	Name string

	Country string

	Platform string
}

type PriceLowestResponse struct {
	Deal *DealData
}

const PriceAllTimeLowPath = "/price/alltimelow"

type PriceAllTimeLowRequest struct {
	Name string

	Country string
}

type PriceAllTimeLowResponse struct {
	Price decimal.Decimal

	Currency string
}

const PriceDealsPath = "/price/deals"

type PriceDealsRequest struct {
	Name string

	Country string

	Platform string
}

type PriceDealsResponse struct {
	Deals []*DealData
}
