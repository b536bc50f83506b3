// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies an upstream failure.
type ErrorKind string

const (
	KindTransport    ErrorKind = "transport"
	KindStatus       ErrorKind = "status"
	KindDecode       ErrorKind = "decode"
	KindGraphQL      ErrorKind = "graphql"
	KindNoData       ErrorKind = "no_data"
	KindInvalidQuery ErrorKind = "invalid_query"
	KindUnavailable  ErrorKind = "unavailable"
)

// UpstreamError reports a failed exchange with the GraphQL endpoint.
type UpstreamError struct {
	// Op is the query shape name.
	Op       string
	Kind     ErrorKind
	Status   int
	Messages []string
	Err      error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "anilist %s: %s", e.Op, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.Status)
	}
	if len(e.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Messages, "; "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NotFound reports whether AniList answered that the requested object does
// not exist.
func (e *UpstreamError) NotFound() bool {
	return e.Status == http.StatusNotFound
}
