// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package delivery

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/pdiddy/anilookup/internal/metrics"
)

// HealthFunc reports extra health details, such as the upstream breaker
// state.
type HealthFunc func() map[string]any

// Router mounts the websocket conversation endpoint together with the
// health and metrics endpoints.
func Router(ws *Server, health HealthFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		body := map[string]any{"status": "ok", "sessions": ws.sessions.Len()}
		if health != nil {
			for k, v := range health() {
				body[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/ws", ws.ServeHTTP)

	return r
}
