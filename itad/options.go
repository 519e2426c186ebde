// Copyright (c) 2025 BVK Chaitanya

package itad

import "time"

var RestHostname = "api.isthereanydeal.com"

type Options struct {
	// Hostname for the REST service endpoint.
	RestHostname string

	// Timeout to use for the HTTP requests.
	HttpClientTimeout time.Duration

	// Max number of API requests per second.
	RateLimitPerSec int
}

func (v *Options) setDefaults() {
	if v.RestHostname == "" {
		v.RestHostname = RestHostname
	}
	if v.HttpClientTimeout == 0 {
		v.HttpClientTimeout = 30 * time.Second
	}
	if v.RateLimitPerSec == 0 {
		v.RateLimitPerSec = 10
	}
}
