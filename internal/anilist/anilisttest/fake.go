// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anilisttest provides an in-memory anilist.Executor for tests.
package anilisttest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/anilookup/internal/anilist"
)

// Response is a canned answer: either JSON data or an error.
type Response struct {
	Data string
	Err  error
}

// Call records one Execute invocation.
type Call struct {
	Shape string
	Vars  anilist.Vars
}

// Fake answers Execute calls from canned responses keyed by shape name and
// the "id" variable (or the "search" variable for searches). Unknown keys
// answer with an upstream no-data error. Safe for concurrent use.
type Fake struct {
	// Delay, when set, is slept before answering; used to shuffle
	// completion order in concurrency tests.
	Delay func(c Call) time.Duration

	mu        sync.Mutex
	responses map[string]Response
	calls     []Call
	inFlight  int
	maxFlight int
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// Key builds the lookup key for a shape and its identifying variable.
func Key(shape string, ident any) string {
	return fmt.Sprintf("%s:%v", shape, ident)
}

// On registers data returned for shape with the given identifying value.
func (f *Fake) On(shape *anilist.Shape, ident any, data string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[Key(shape.Name, ident)] = Response{Data: data}
	return f
}

// Fail registers an error returned for shape with the given identifying value.
func (f *Fake) Fail(shape *anilist.Shape, ident any, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[Key(shape.Name, ident)] = Response{Err: err}
	return f
}

// Execute implements anilist.Executor.
func (f *Fake) Execute(ctx context.Context, shape *anilist.Shape, vars anilist.Vars) (anilist.Tree, error) {
	if err := shape.Validate(vars); err != nil {
		return anilist.Tree{}, &anilist.UpstreamError{Op: shape.Name, Kind: anilist.KindInvalidQuery, Err: err}
	}

	ident, ok := vars["id"]
	if !ok {
		ident = vars["search"]
	}
	call := Call{Shape: shape.Name, Vars: vars}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	resp, found := f.responses[Key(shape.Name, ident)]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.Delay != nil {
		select {
		case <-time.After(f.Delay(call)):
		case <-ctx.Done():
			return anilist.Tree{}, &anilist.UpstreamError{Op: shape.Name, Kind: anilist.KindTransport, Err: ctx.Err()}
		}
	}

	if !found {
		return anilist.Tree{}, &anilist.UpstreamError{Op: shape.Name, Kind: anilist.KindNoData}
	}
	if resp.Err != nil {
		return anilist.Tree{}, resp.Err
	}
	return anilist.Tree{Data: []byte(resp.Data)}, nil
}

// Calls returns a copy of the recorded calls in arrival order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsFor returns the identifying values requested for shape, in arrival order.
func (f *Fake) CallsFor(shape *anilist.Shape) []any {
	var out []any
	for _, c := range f.Calls() {
		if c.Shape != shape.Name {
			continue
		}
		if id, ok := c.Vars["id"]; ok {
			out = append(out, id)
		} else {
			out = append(out, c.Vars["search"])
		}
	}
	return out
}

// MaxInFlight reports the highest number of concurrent Execute calls seen.
func (f *Fake) MaxInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxFlight
}

// MediaJSON returns a minimal Media object for canned responses.
func MediaJSON(id int, english string) string {
	return fmt.Sprintf(`{"id":%d,"type":"ANIME","format":"TV","status":"FINISHED","title":{"romaji":%q,"english":%q,"native":null},"synonyms":[]}`,
		id, english, english)
}

// RecommendationListJSON returns a RecommendationList data root for seed
// with the given entry ids.
func RecommendationListJSON(seed int, entries ...int) string {
	nodes := ""
	for i, e := range entries {
		if i > 0 {
			nodes += ","
		}
		nodes += fmt.Sprintf(`{"id":%d}`, e)
	}
	return fmt.Sprintf(`{"Media":{"id":%d,"recommendations":{"nodes":[%s]}}}`, seed, nodes)
}

// RecommendationJSON returns a RecommendationResolve data root.
func RecommendationJSON(entry, mediaID int, english string) string {
	return fmt.Sprintf(`{"Recommendation":{"id":%d,"mediaRecommendation":%s}}`, entry, MediaJSON(mediaID, english))
}
