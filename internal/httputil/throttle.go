// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter allowing perMinute requests per minute with
// the given burst. Non-positive perMinute yields an unlimited limiter.
func NewLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// ThrottleTransport waits on a shared limiter before each request. One
// limiter is shared by every command so concurrent fan-outs draw from the
// same upstream budget.
type ThrottleTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// RoundTrip implements http.RoundTripper.
func (t *ThrottleTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewTransport stacks throttling under retries: every retry attempt also
// consumes budget from the shared limiter.
func NewTransport(limiter *rate.Limiter, maxRetries int) http.RoundTripper {
	return &RetryTransport{
		Base:       &ThrottleTransport{Base: http.DefaultTransport, Limiter: limiter},
		MaxRetries: maxRetries,
	}
}
