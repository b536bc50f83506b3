// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anilookup/internal/anilist"
	"github.com/pdiddy/anilookup/internal/anilist/anilisttest"
	"github.com/pdiddy/anilookup/pkg/types"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"21", 21, false},
		{"  21 ", 21, false},
		{"2 1", 21, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
		{"   ", 0, true},
		{"-4", 0, true},
		{"12abc", 0, true},
		{"99999999999999999999999", 0, true},
		{"2147483647", 2147483647, false},
		{"9999999999", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestByIDInvalidInputShortCircuits(t *testing.T) {
	for _, in := range []string{"abc", "9999999999"} {
		t.Run(in, func(t *testing.T) {
			fake := anilisttest.New()
			_, err := New(fake, types.KindAnime).ByID(context.Background(), in)

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, fake.Calls())
		})
	}
}

func TestByIDFound(t *testing.T) {
	fake := anilisttest.New().On(anilist.MediaByID, 21, `{"Media":`+anilisttest.MediaJSON(21, "One Piece")+`}`)

	rec, err := New(fake, types.KindAnime).ByID(context.Background(), " 21 ")
	require.NoError(t, err)
	assert.Equal(t, 21, rec.ID)
	assert.Equal(t, "One Piece", rec.Title.English)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, types.KindAnime, calls[0].Vars["type"])
}

func TestByIDNullIsNotFound(t *testing.T) {
	fake := anilisttest.New().On(anilist.MediaByID, 999999999, `{"Media":null}`)

	_, err := New(fake, types.KindAnime).ByID(context.Background(), "999999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByIDUpstream404IsNotFound(t *testing.T) {
	fake := anilisttest.New().Fail(anilist.MediaByID, 5, &anilist.UpstreamError{Op: "MediaByID", Kind: anilist.KindGraphQL, Status: 404})

	_, err := New(fake, types.KindAnime).ByID(context.Background(), "5")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestByIDUpstreamFailure(t *testing.T) {
	fake := anilisttest.New().Fail(anilist.MediaByID, 5, &anilist.UpstreamError{Op: "MediaByID", Kind: anilist.KindTransport, Err: fmt.Errorf("connection reset")})

	_, err := New(fake, types.KindAnime).ByID(context.Background(), "5")
	var ue *anilist.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, anilist.KindTransport, ue.Kind)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBySearchRequestsExactlyCount(t *testing.T) {
	page := `{"Page":{"pageInfo":{"total":2},"media":[` +
		anilisttest.MediaJSON(269, "Bleach") + `,` + anilisttest.MediaJSON(41467, "Bleach: TYBW") + `]}}`
	fake := anilisttest.New().On(anilist.MediaSearch, "bleach", page)

	recs, err := New(fake, types.KindManga).BySearch(context.Background(), "bleach", 5)
	require.NoError(t, err)
	require.Len(t, recs, 2, "fewer results than requested is fine")
	assert.Equal(t, 269, recs[0].ID)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].Vars["page"])
	assert.Equal(t, 5, calls[0].Vars["perPage"])
	assert.Equal(t, types.KindManga, calls[0].Vars["type"])
}

func TestBySearchClampsCount(t *testing.T) {
	fake := anilisttest.New().On(anilist.MediaSearch, "x", `{"Page":{"media":[]}}`)
	r := New(fake, "")

	_, err := r.BySearch(context.Background(), "x", 500)
	require.NoError(t, err)
	_, err = r.BySearch(context.Background(), "x", 0)
	require.NoError(t, err)

	calls := fake.Calls()
	assert.Equal(t, anilist.MaxPerPage, calls[0].Vars["perPage"])
	assert.Equal(t, 1, calls[1].Vars["perPage"])
	assert.Equal(t, types.KindAnime, calls[0].Vars["type"])
}

func TestBySearchEmptyTerms(t *testing.T) {
	_, err := New(anilisttest.New(), types.KindAnime).BySearch(context.Background(), "  ", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBySearchUpstreamFailure(t *testing.T) {
	fake := anilisttest.New()
	_, err := New(fake, types.KindAnime).BySearch(context.Background(), "nothing registered", 5)

	var ue *anilist.UpstreamError
	assert.True(t, errors.As(err, &ue))
}
