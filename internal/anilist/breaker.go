// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/internal/metrics"
)

// BreakerSettings tunes the circuit breaker. Zero values take defaults.
type BreakerSettings struct {
	// MinRequests is the sample size before the failure ratio is considered (default 10).
	MinRequests uint32
	// FailureRatio opens the circuit when reached (default 0.6).
	FailureRatio float64
	// Interval resets counts while closed (default 1m).
	Interval time.Duration
	// Timeout is how long the circuit stays open (default 30s).
	Timeout time.Duration
}

// Breaker wraps an Executor with a circuit breaker so a failing upstream
// is not hammered by every fan-out step. Rejected calls surface as an
// *UpstreamError of kind KindUnavailable.
type Breaker struct {
	next Executor
	cb   *gobreaker.CircuitBreaker[Tree]
}

// NewBreaker wraps next.
func NewBreaker(name string, next Executor, s BreakerSettings) *Breaker {
	if s.MinRequests == 0 {
		s.MinRequests = 10
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}
	if s.Interval <= 0 {
		s.Interval = time.Minute
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[Tree](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= s.FailureRatio
		},
		IsSuccessful: breakerSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("upstream circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &Breaker{next: next, cb: cb}
}

// Execute implements Executor.
func (b *Breaker) Execute(ctx context.Context, shape *Shape, vars Vars) (Tree, error) {
	tree, err := b.cb.Execute(func() (Tree, error) {
		return b.next.Execute(ctx, shape, vars)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.UpstreamRequests.WithLabelValues(shape.Name, "rejected").Inc()
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindUnavailable, Err: err}
	}
	return tree, err
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// breakerSuccess keeps caller mistakes, cancellations and "not found"
// answers from counting against upstream health.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Kind == KindInvalidQuery || ue.NotFound()
	}
	return false
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
