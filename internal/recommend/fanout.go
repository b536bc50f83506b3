// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recommend expands seed media into the media their recommendation
// entries point at. Expansion is two-hop: each seed lists its entry ids, and
// each unique entry id is then resolved to its target media.
package recommend

import (
	"context"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/anilookup/internal/anilist"
	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/internal/metrics"
	"github.com/pdiddy/anilookup/pkg/types"
)

const (
	// DefaultConcurrency is the number of in-flight requests when none is configured.
	DefaultConcurrency = 4
	maxConcurrency     = 8
)

// Fanout issues the listing and resolve requests for a set of seeds.
type Fanout struct {
	exec  anilist.Executor
	limit int
}

// New returns a Fanout that keeps at most concurrency requests in flight.
// Zero or negative means DefaultConcurrency; values above 8 are capped.
func New(exec anilist.Executor, concurrency int) *Fanout {
	switch {
	case concurrency <= 0:
		concurrency = DefaultConcurrency
	case concurrency > maxConcurrency:
		concurrency = maxConcurrency
	}
	return &Fanout{exec: exec, limit: concurrency}
}

// Result holds the expanded records and counters for logging.
type Result struct {
	// Records are the resolved media in first-seen entry order.
	Records []types.MediaRecord

	// Seeds is the number of seeds listed.
	Seeds int

	// Entries is the number of unique entry ids after dedup.
	Entries int

	// Dropped counts seeds and entries whose request failed or resolved to
	// nothing.
	Dropped int
}

// Expand lists up to perSeed recommendation entries for every seed, merges
// the lists in seed order, drops repeated entry ids, and resolves each
// remaining entry exactly once. Individual failures are dropped. If ctx is
// cancelled no further requests are issued and the records gathered so far
// are returned together with ctx.Err().
func (f *Fanout) Expand(ctx context.Context, seedIDs []int, perSeed int) (Result, error) {
	if perSeed < 1 {
		perSeed = 1
	}
	if perSeed > anilist.MaxPerPage {
		perSeed = anilist.MaxPerPage
	}

	res := Result{Seeds: len(seedIDs)}

	listings := f.list(ctx, seedIDs, perSeed, &res)
	entries := lo.Uniq(lo.Flatten(listings))
	res.Entries = len(entries)

	resolved := f.resolve(ctx, entries)
	for i, rec := range resolved {
		if rec == nil {
			res.Dropped++
			metrics.FanoutEntries.WithLabelValues("dropped").Inc()
			logging.Debug().Int("entry", entries[i]).Msg("recommendation entry dropped")
			continue
		}
		metrics.FanoutEntries.WithLabelValues("resolved").Inc()
		res.Records = append(res.Records, *rec)
	}

	logging.Debug().
		Int("seeds", res.Seeds).
		Int("entries", res.Entries).
		Int("records", len(res.Records)).
		Int("dropped", res.Dropped).
		Msg("recommendation fan-out complete")

	return res, ctx.Err()
}

// list fetches each seed's entry ids into a slot addressed by seed index,
// so the merged order follows seedIDs and not completion order.
func (f *Fanout) list(ctx context.Context, seedIDs []int, perSeed int, res *Result) [][]int {
	listings := make([][]int, len(seedIDs))
	failed := make([]bool, len(seedIDs))

	var g errgroup.Group
	g.SetLimit(f.limit)
	for i, seed := range seedIDs {
		if ctx.Err() != nil {
			failed[i] = true
			continue
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				failed[i] = true
				return nil
			}
			tree, err := f.exec.Execute(ctx, anilist.RecommendationList, anilist.Vars{
				"id":      seed,
				"page":    1,
				"perPage": perSeed,
			})
			if err != nil {
				failed[i] = true
				logging.Debug().Err(err).Int("seed", seed).Msg("listing recommendations failed")
				return nil
			}
			ids, found, err := anilist.DecodeRecommendationIDs(tree)
			if err != nil || !found {
				failed[i] = true
				logging.Debug().Err(err).Int("seed", seed).Msg("seed has no recommendation listing")
				return nil
			}
			if len(ids) > perSeed {
				ids = ids[:perSeed]
			}
			listings[i] = ids
			return nil
		})
	}
	_ = g.Wait()

	for _, bad := range failed {
		if bad {
			res.Dropped++
		}
	}
	return listings
}

// resolve maps each entry id to its target media. Failed or empty entries
// leave a nil slot.
func (f *Fanout) resolve(ctx context.Context, entries []int) []*types.MediaRecord {
	resolved := make([]*types.MediaRecord, len(entries))

	var g errgroup.Group
	g.SetLimit(f.limit)
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			tree, err := f.exec.Execute(ctx, anilist.RecommendationResolve, anilist.Vars{"id": entry})
			if err != nil {
				logging.Debug().Err(err).Int("entry", entry).Msg("resolving recommendation failed")
				return nil
			}
			rec, err := anilist.DecodeRecommendation(tree)
			if err != nil {
				logging.Debug().Err(err).Int("entry", entry).Msg("decoding recommendation failed")
				return nil
			}
			resolved[i] = rec
			return nil
		})
	}
	_ = g.Wait()
	return resolved
}
