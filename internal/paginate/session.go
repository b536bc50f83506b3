// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paginate holds rendered cards as navigable sessions. A session
// moves between cards within [0, len-1] and stops accepting navigation once
// it has been idle for longer than its timeout, at which point its release
// hooks run.
package paginate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/internal/metrics"
	"github.com/pdiddy/anilookup/pkg/types"
)

// DefaultIdleTimeout is how long a session stays navigable without
// interaction.
const DefaultIdleTimeout = 600 * time.Second

var (
	// ErrNoCards is returned by Present for an empty card sequence.
	ErrNoCards = errors.New("no cards to present")

	// ErrExpired is returned by operations on a released session.
	ErrExpired = errors.New("session expired")
)

// Reason says why a session was released.
type Reason string

const (
	// ReasonExpired means the session sat idle past its timeout.
	ReasonExpired Reason = "expired"
	// ReasonClosed means the session was closed explicitly.
	ReasonClosed Reason = "closed"
	// ReasonReplaced means a newer session took over its conversation.
	ReasonReplaced Reason = "replaced"
)

// Page is one card together with its position in the session.
type Page struct {
	SessionID string     `json:"session"`
	Card      types.Card `json:"card"`
	Index     int        `json:"index"`
	Total     int        `json:"total"`
}

// Number is the 1-based page number.
func (p Page) Number() int { return p.Index + 1 }

// Option configures a Session.
type Option func(*Session)

// WithIdleTimeout sets the idle timeout. Zero or negative keeps the default.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.idle = d
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is a navigable card sequence. All methods are safe for concurrent
// use; navigation and expiry are serialized by one mutex, so a session is
// never both expired and successfully navigated.
type Session struct {
	id    string
	cards []types.Card
	idle  time.Duration
	now   func() time.Time

	mu       sync.Mutex
	index    int
	last     time.Time
	timer    *time.Timer
	released bool
	reason   Reason
	hooks    []func(Reason)
}

// Present starts a session over cards positioned on the first card.
func Present(cards []types.Card, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	s := &Session{
		id:    uuid.NewString(),
		cards: append([]types.Card(nil), cards...),
		idle:  DefaultIdleTimeout,
		now:   time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.last = s.now()
	s.timer = time.AfterFunc(s.idle, s.onIdle)

	metrics.SessionsActive.Inc()
	logging.Debug().Str("session", s.id).Int("cards", len(cards)).Dur("idle", s.idle).Msg("session started")
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Len returns the number of cards in the session.
func (s *Session) Len() int { return len(s.cards) }

// Index returns the current 0-based position.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Current returns the page under the cursor without counting as an
// interaction.
func (s *Session) Current() (Page, error) {
	return s.do(false, func() {})
}

// Next moves forward one card, staying on the last card at the end.
func (s *Session) Next() (Page, error) {
	return s.do(true, func() {
		if s.index < len(s.cards)-1 {
			s.index++
		}
	})
}

// Prev moves back one card, staying on the first card at the start.
func (s *Session) Prev() (Page, error) {
	return s.do(true, func() {
		if s.index > 0 {
			s.index--
		}
	})
}

// First jumps to the first card.
func (s *Session) First() (Page, error) {
	return s.do(true, func() { s.index = 0 })
}

// Last jumps to the last card.
func (s *Session) Last() (Page, error) {
	return s.do(true, func() { s.index = len(s.cards) - 1 })
}

// Expired reports whether the session has been released. A session past
// its idle deadline is released by this call.
func (s *Session) Expired() bool {
	s.mu.Lock()
	hooks := s.expireIfIdleLocked()
	released := s.released
	s.mu.Unlock()
	runHooks(hooks, ReasonExpired)
	return released
}

// Close releases the session. Closing a released session does nothing.
func (s *Session) Close() {
	s.closeWith(ReasonClosed)
}

// OnRelease registers fn to run once when the session is released. If the
// session is already released fn runs immediately.
func (s *Session) OnRelease(fn func(Reason)) {
	s.mu.Lock()
	if s.released {
		reason := s.reason
		s.mu.Unlock()
		fn(reason)
		return
	}
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

func (s *Session) do(interact bool, move func()) (Page, error) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return Page{}, ErrExpired
	}
	if hooks := s.expireIfIdleLocked(); s.released {
		s.mu.Unlock()
		runHooks(hooks, ReasonExpired)
		return Page{}, ErrExpired
	}

	move()
	if interact {
		s.last = s.now()
		s.timer.Reset(s.idle)
	}
	page := Page{SessionID: s.id, Card: s.cards[s.index], Index: s.index, Total: len(s.cards)}
	s.mu.Unlock()
	return page, nil
}

// expireIfIdleLocked releases the session when the idle deadline has passed
// and returns the hooks the caller must run after unlocking.
func (s *Session) expireIfIdleLocked() []func(Reason) {
	if s.released || s.now().Sub(s.last) < s.idle {
		return nil
	}
	return s.releaseLocked(ReasonExpired)
}

func (s *Session) releaseLocked(reason Reason) []func(Reason) {
	s.released = true
	s.reason = reason
	s.timer.Stop()
	hooks := s.hooks
	s.hooks = nil

	metrics.SessionsActive.Dec()
	metrics.SessionsReleased.WithLabelValues(string(reason)).Inc()
	logging.Debug().Str("session", s.id).Str("reason", string(reason)).Msg("session released")
	return hooks
}

func (s *Session) closeWith(reason Reason) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	hooks := s.releaseLocked(reason)
	s.mu.Unlock()
	runHooks(hooks, reason)
}

// onIdle runs on the idle timer. The deadline is re-checked under the lock,
// since navigation may have happened after the timer fired.
func (s *Session) onIdle() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	if remaining := s.idle - s.now().Sub(s.last); remaining > 0 {
		s.timer.Reset(remaining)
		s.mu.Unlock()
		return
	}
	hooks := s.releaseLocked(ReasonExpired)
	s.mu.Unlock()
	runHooks(hooks, ReasonExpired)
}

func runHooks(hooks []func(Reason), reason Reason) {
	for _, fn := range hooks {
		fn(reason)
	}
}
