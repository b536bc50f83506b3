// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"net/http"

	"github.com/pdiddy/anilookup/internal/anilist"
	"github.com/pdiddy/anilookup/internal/bot"
	"github.com/pdiddy/anilookup/internal/httputil"
	"github.com/pdiddy/anilookup/internal/paginate"
	"github.com/pdiddy/anilookup/internal/recommend"
	"github.com/pdiddy/anilookup/internal/render"
	"github.com/pdiddy/anilookup/internal/resolve"
	"github.com/pdiddy/anilookup/pkg/types"
)

// app holds the components shared by every command of one process.
type app struct {
	breaker    *anilist.Breaker
	dispatcher *bot.Dispatcher
}

// newApp wires the upstream stack: one rate limiter and one breaker shared
// by every command, with retries on 429 under the limiter.
func newApp(cfg types.Config) *app {
	limiter := httputil.NewLimiter(cfg.AniList.RatePerMinute, cfg.AniList.Burst)
	httpClient := &http.Client{
		Timeout:   cfg.AniList.Timeout,
		Transport: httputil.NewTransport(limiter, cfg.AniList.MaxRetries),
	}
	client := anilist.NewClient(cfg.AniList, httpClient)
	breaker := anilist.NewBreaker("anilist", client, anilist.BreakerSettings{})

	d := bot.New(
		resolve.New(breaker, cfg.AniList.MediaType),
		recommend.New(breaker, cfg.Recommend.Concurrency),
		render.New(cfg.Render),
		paginate.WithIdleTimeout(cfg.Paginate.IdleTimeout),
	)
	return &app{breaker: breaker, dispatcher: d}
}
