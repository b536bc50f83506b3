// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package anilist talks to the AniList GraphQL endpoint. A Client performs
// exactly one request/response exchange per Execute call and classifies
// every failure as an *UpstreamError. Retry, throttling and circuit breaking
// live in the layers around it (internal/httputil transports, Breaker).
package anilist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/pdiddy/anilookup/internal/metrics"
	"github.com/pdiddy/anilookup/pkg/types"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// Executor runs one query shape with bound variables. *Client and *Breaker
// implement it; tests substitute in-memory fakes.
type Executor interface {
	Execute(ctx context.Context, shape *Shape, vars Vars) (Tree, error)
}

// GraphQLError is one entry of a response's errors array.
type GraphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
}

// Tree is the parsed data root of a successful response. Errors carries any
// partial errors AniList returned alongside non-null data.
type Tree struct {
	Data   json.RawMessage
	Errors []GraphQLError
}

// Decode unmarshals the data root into v.
func (t Tree) Decode(v any) error {
	return json.Unmarshal(t.Data, v)
}

// Client posts GraphQL documents to a single endpoint.
type Client struct {
	HTTP      *http.Client
	Endpoint  string
	UserAgent string
}

// NewClient builds a Client from configuration. A nil httpClient gets a
// plain client with the configured timeout.
func NewClient(cfg types.AniListConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{
		HTTP:      httpClient,
		Endpoint:  cfg.Endpoint,
		UserAgent: cfg.UserAgent,
	}
}

type requestBody struct {
	Query     string `json:"query"`
	Variables Vars   `json:"variables"`
}

type responseEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Execute validates vars against shape, sends one POST and returns the data
// root. It never retries.
func (c *Client) Execute(ctx context.Context, shape *Shape, vars Vars) (Tree, error) {
	start := time.Now()
	tree, err := c.execute(ctx, shape, vars)
	metrics.UpstreamDuration.WithLabelValues(shape.Name).Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(shape.Name, outcome(err)).Inc()
	return tree, err
}

func (c *Client) execute(ctx context.Context, shape *Shape, vars Vars) (Tree, error) {
	if vars == nil {
		vars = Vars{}
	}
	if err := shape.Validate(vars); err != nil {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindInvalidQuery, Err: err}
	}

	payload, err := json.Marshal(requestBody{Query: shape.Document, Variables: vars})
	if err != nil {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindInvalidQuery, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindTransport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindTransport, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	var env responseEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		kind := KindDecode
		if resp.StatusCode >= 300 {
			kind = KindStatus
		}
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: kind, Status: resp.StatusCode, Err: fmt.Errorf("parsing response: %w", err)}
	}

	if isNull(env.Data) {
		ue := &UpstreamError{Op: shape.Name, Kind: KindNoData, Status: resp.StatusCode}
		switch {
		case len(env.Errors) > 0:
			ue.Kind = KindGraphQL
			ue.Messages = messages(env.Errors)
			if s := env.Errors[0].Status; s != 0 {
				ue.Status = s
			}
		case resp.StatusCode >= 300:
			ue.Kind = KindStatus
		}
		return Tree{}, ue
	}

	// AniList answers a missing object with HTTP 404 and a data root whose
	// field is null; any other error status is a failure even with data.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return Tree{}, &UpstreamError{Op: shape.Name, Kind: KindStatus, Status: resp.StatusCode, Messages: messages(env.Errors)}
	}

	return Tree{Data: env.Data, Errors: env.Errors}, nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

func messages(errs []GraphQLError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		if ue.NotFound() {
			return "not_found"
		}
		if ue.Kind == KindUnavailable {
			return "rejected"
		}
	}
	return "error"
}
