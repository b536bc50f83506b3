// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anilookup/internal/anilist"
	"github.com/pdiddy/anilookup/internal/anilist/anilisttest"
	"github.com/pdiddy/anilookup/pkg/types"
)

// Entry ids 100 (A), 200 (B), 300 (C) point at media 1100, 1200, 1300.
func twoSeedFake() *anilisttest.Fake {
	return anilisttest.New().
		On(anilist.RecommendationList, 1, anilisttest.RecommendationListJSON(1, 100, 200)).
		On(anilist.RecommendationList, 2, anilisttest.RecommendationListJSON(2, 200, 300)).
		On(anilist.RecommendationResolve, 100, anilisttest.RecommendationJSON(100, 1100, "A")).
		On(anilist.RecommendationResolve, 200, anilisttest.RecommendationJSON(200, 1200, "B")).
		On(anilist.RecommendationResolve, 300, anilisttest.RecommendationJSON(300, 1300, "C"))
}

func ids(recs []types.MediaRecord) []int {
	out := make([]int, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestExpandDedupsInSeedOrder(t *testing.T) {
	fake := twoSeedFake()

	res, err := New(fake, 4).Expand(context.Background(), []int{1, 2}, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{1100, 1200, 1300}, ids(res.Records))
	assert.Equal(t, 2, res.Seeds)
	assert.Equal(t, 3, res.Entries)
	assert.Zero(t, res.Dropped)
	assert.ElementsMatch(t, []any{100, 200, 300}, fake.CallsFor(anilist.RecommendationResolve),
		"each entry resolved exactly once")
}

func TestExpandListsWithPerSeed(t *testing.T) {
	fake := twoSeedFake()

	_, err := New(fake, 1).Expand(context.Background(), []int{1}, 3)
	require.NoError(t, err)

	for _, c := range fake.Calls() {
		if c.Shape == anilist.RecommendationList.Name {
			assert.Equal(t, 1, c.Vars["page"])
			assert.Equal(t, 3, c.Vars["perPage"])
		}
	}
}

func TestExpandTruncatesOverlongListing(t *testing.T) {
	fake := twoSeedFake().
		On(anilist.RecommendationList, 1, anilisttest.RecommendationListJSON(1, 100, 200, 300))

	res, err := New(fake, 2).Expand(context.Background(), []int{1}, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1100, 1200}, ids(res.Records))
}

func TestExpandDropsFailedResolve(t *testing.T) {
	fake := twoSeedFake().
		Fail(anilist.RecommendationResolve, 200, &anilist.UpstreamError{Op: "RecommendationResolve", Kind: anilist.KindTransport, Err: errors.New("reset")})

	res, err := New(fake, 4).Expand(context.Background(), []int{1, 2}, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{1100, 1300}, ids(res.Records))
	assert.Equal(t, 1, res.Dropped)
}

func TestExpandDropsNullTarget(t *testing.T) {
	fake := twoSeedFake().
		On(anilist.RecommendationResolve, 300, `{"Recommendation":{"id":300,"mediaRecommendation":null}}`)

	res, err := New(fake, 4).Expand(context.Background(), []int{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1100, 1200}, ids(res.Records))
}

func TestExpandAbsorbsListingFailure(t *testing.T) {
	fake := twoSeedFake().
		Fail(anilist.RecommendationList, 1, &anilist.UpstreamError{Op: "RecommendationList", Kind: anilist.KindStatus, Status: 500})

	res, err := New(fake, 4).Expand(context.Background(), []int{1, 2}, 10)
	require.NoError(t, err)

	assert.Equal(t, []int{1200, 1300}, ids(res.Records))
	assert.Equal(t, 1, res.Dropped)
}

func TestExpandEmpty(t *testing.T) {
	fake := anilisttest.New().
		On(anilist.RecommendationList, 7, anilisttest.RecommendationListJSON(7))

	res, err := New(fake, 4).Expand(context.Background(), []int{7}, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	res, err = New(fake, 4).Expand(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, fake.CallsFor(anilist.RecommendationResolve))
}

func TestExpandKeepsSeedMedia(t *testing.T) {
	fake := anilisttest.New().
		On(anilist.RecommendationList, 1, anilisttest.RecommendationListJSON(1, 100)).
		On(anilist.RecommendationResolve, 100, anilisttest.RecommendationJSON(100, 1, "Seed itself"))

	res, err := New(fake, 4).Expand(context.Background(), []int{1}, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(res.Records))
}

func TestExpandBoundsConcurrency(t *testing.T) {
	fake := anilisttest.New()
	var seeds []int
	for s := 1; s <= 12; s++ {
		seeds = append(seeds, s)
		fake.On(anilist.RecommendationList, s, anilisttest.RecommendationListJSON(s, s*10))
		fake.On(anilist.RecommendationResolve, s*10, anilisttest.RecommendationJSON(s*10, s*100, "x"))
	}
	fake.Delay = func(anilisttest.Call) time.Duration { return 5 * time.Millisecond }

	res, err := New(fake, 3).Expand(context.Background(), seeds, 10)
	require.NoError(t, err)

	assert.Len(t, res.Records, 12)
	assert.LessOrEqual(t, fake.MaxInFlight(), 3)
}

func TestExpandOrderIndependentOfCompletion(t *testing.T) {
	fake := twoSeedFake()
	rng := rand.New(rand.NewSource(1))
	delays := map[string]time.Duration{}
	for _, k := range []string{"1", "2", "100", "200", "300"} {
		delays[k] = time.Duration(rng.Intn(10)) * time.Millisecond
	}
	// Seed 1 and entry A finish last.
	delays["1"] = 20 * time.Millisecond
	delays["100"] = 20 * time.Millisecond
	fake.Delay = func(c anilisttest.Call) time.Duration {
		return delays[fmt.Sprint(c.Vars["id"])]
	}

	for i := 0; i < 3; i++ {
		res, err := New(fake, 8).Expand(context.Background(), []int{1, 2}, 10)
		require.NoError(t, err)
		assert.Equal(t, []int{1100, 1200, 1300}, ids(res.Records))
	}
}

func TestExpandCancelled(t *testing.T) {
	fake := twoSeedFake()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(fake, 4).Expand(ctx, []int{1, 2}, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.Records)
	assert.Empty(t, fake.Calls(), "no requests issued after cancellation")
}

func TestExpandCancelledMidway(t *testing.T) {
	fake := twoSeedFake()
	ctx, cancel := context.WithCancel(context.Background())
	fake.Delay = func(c anilisttest.Call) time.Duration {
		if c.Shape == anilist.RecommendationResolve.Name {
			cancel()
		}
		return 0
	}

	res, err := New(fake, 1).Expand(ctx, []int{1, 2}, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(res.Records), 1)
	assert.LessOrEqual(t, len(fake.CallsFor(anilist.RecommendationResolve)), 1)
}

func TestNewClampsConcurrency(t *testing.T) {
	assert.Equal(t, DefaultConcurrency, New(nil, 0).limit)
	assert.Equal(t, 8, New(nil, 50).limit)
	assert.Equal(t, 2, New(nil, 2).limit)
}
