// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package anilist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anilookup/pkg/types"
)

func testClient(url string) *Client {
	cfg := types.DefaultConfig().AniList
	cfg.Endpoint = url
	cfg.Timeout = 2 * time.Second
	cfg.UserAgent = "anilookup-test"
	return NewClient(cfg, nil)
}

func serve(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestExecuteSendsDocumentAndVariables(t *testing.T) {
	var got struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	var headers http.Header
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `{"data":{"Media":{"id":21}}}`)
	}))
	defer ts.Close()

	tree, err := testClient(ts.URL).Execute(context.Background(), MediaByID, Vars{"id": 21, "type": types.KindAnime})
	require.NoError(t, err)

	assert.Equal(t, MediaByID.Document, got.Query)
	assert.Equal(t, float64(21), got.Variables["id"])
	assert.Equal(t, "ANIME", got.Variables["type"])
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.Equal(t, "anilookup-test", headers.Get("User-Agent"))
	assert.JSONEq(t, `{"Media":{"id":21}}`, string(tree.Data))
}

func TestExecuteInvalidVarsSkipNetwork(t *testing.T) {
	ts, calls := serve(t, http.StatusOK, `{"data":{}}`)

	_, err := testClient(ts.URL).Execute(context.Background(), MediaByID, Vars{"id": "abc"})

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, KindInvalidQuery, ue.Kind)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   ErrorKind
		wantStatus int
	}{
		{"malformed body", http.StatusOK, `{"data":`, KindDecode, 200},
		{"html error page", http.StatusBadGateway, `<html>bad gateway</html>`, KindStatus, 502},
		{"missing data root", http.StatusOK, `{}`, KindNoData, 200},
		{"null data root", http.StatusOK, `{"data":null}`, KindNoData, 200},
		{"errors without data", http.StatusBadRequest, `{"data":null,"errors":[{"message":"Validation error","status":400}]}`, KindGraphQL, 400},
		{"server error with data", http.StatusInternalServerError, `{"data":{"Media":null},"errors":[{"message":"boom","status":500}]}`, KindStatus, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, _ := serve(t, tt.status, tt.body)

			_, err := testClient(ts.URL).Execute(context.Background(), MediaByID, Vars{"id": 1})

			var ue *UpstreamError
			require.True(t, errors.As(err, &ue), "got %v", err)
			assert.Equal(t, tt.wantKind, ue.Kind)
			assert.Equal(t, tt.wantStatus, ue.Status)
			assert.Equal(t, "MediaByID", ue.Op)
		})
	}
}

func TestExecuteNotFoundKeepsNullData(t *testing.T) {
	ts, calls := serve(t, http.StatusNotFound, `{"data":{"Media":null},"errors":[{"message":"Not Found.","status":404}]}`)

	tree, err := testClient(ts.URL).Execute(context.Background(), MediaByID, Vars{"id": 999999999})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	require.Len(t, tree.Errors, 1)
	assert.Equal(t, 404, tree.Errors[0].Status)

	rec, err := DecodeMedia(tree)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestExecuteTransportFailure(t *testing.T) {
	ts, _ := serve(t, http.StatusOK, `{}`)
	url := ts.URL
	ts.Close()

	_, err := testClient(url).Execute(context.Background(), MediaByID, Vars{"id": 1})

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, KindTransport, ue.Kind)
}

func TestExecuteSendsExactlyOneRequest(t *testing.T) {
	ts, calls := serve(t, http.StatusTooManyRequests, `{"data":null,"errors":[{"message":"Too Many Requests.","status":429}]}`)

	_, err := testClient(ts.URL).Execute(context.Background(), MediaByID, Vars{"id": 1})
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := &UpstreamError{Op: "MediaByID", Kind: KindGraphQL, Status: 400, Messages: []string{"bad"}, Err: io.EOF}
	assert.Equal(t, "anilist MediaByID: graphql (HTTP 400): bad: EOF", err.Error())
	assert.ErrorIs(t, err, io.EOF)
}
