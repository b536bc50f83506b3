// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve obtains the seed media records a command starts from,
// either by AniList id or by a paged title search.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/anilookup/internal/anilist"
	"github.com/pdiddy/anilookup/pkg/types"
)

var (
	// ErrInvalidInput reports a payload that is not a usable id or search.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound reports that AniList resolved the id to nothing.
	ErrNotFound = errors.New("not found")
)

// Resolver looks up candidate media through an Executor.
type Resolver struct {
	exec anilist.Executor
	kind types.MediaKind
}

// New returns a Resolver restricted to kind. An invalid kind means ANIME.
func New(exec anilist.Executor, kind types.MediaKind) *Resolver {
	if !kind.Valid() {
		kind = types.KindAnime
	}
	return &Resolver{exec: exec, kind: kind}
}

// ParseID converts a user-supplied id to an int. All whitespace is removed
// first, so "2 1" is read as 21 the same way a chat user would type it.
// Ids must fit a GraphQL Int.
func ParseID(s string) (int, error) {
	cleaned := strings.Join(strings.Fields(s), "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty id", ErrInvalidInput)
	}
	id, err := strconv.Atoi(cleaned)
	if err != nil || id < 0 || id > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q is not a numerical id", ErrInvalidInput, s)
	}
	return id, nil
}

// ByID resolves one media by its id string.
func (r *Resolver) ByID(ctx context.Context, s string) (types.MediaRecord, error) {
	id, err := ParseID(s)
	if err != nil {
		return types.MediaRecord{}, err
	}

	tree, err := r.exec.Execute(ctx, anilist.MediaByID, anilist.Vars{"id": id, "type": r.kind})
	if err != nil {
		var ue *anilist.UpstreamError
		if errors.As(err, &ue) && ue.NotFound() {
			return types.MediaRecord{}, fmt.Errorf("%w: media %d", ErrNotFound, id)
		}
		return types.MediaRecord{}, fmt.Errorf("resolving media %d: %w", id, err)
	}

	rec, err := anilist.DecodeMedia(tree)
	if err != nil {
		return types.MediaRecord{}, fmt.Errorf("resolving media %d: %w", id, err)
	}
	if rec == nil {
		return types.MediaRecord{}, fmt.Errorf("%w: media %d", ErrNotFound, id)
	}
	return *rec, nil
}

// BySearch requests exactly count results from page 1 of a title search.
// Fewer results than count is not an error. count is clamped to
// [1, anilist.MaxPerPage].
func (r *Resolver) BySearch(ctx context.Context, terms string, count int) ([]types.MediaRecord, error) {
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return nil, fmt.Errorf("%w: empty search terms", ErrInvalidInput)
	}
	if count < 1 {
		count = 1
	}
	if count > anilist.MaxPerPage {
		count = anilist.MaxPerPage
	}

	tree, err := r.exec.Execute(ctx, anilist.MediaSearch, anilist.Vars{
		"search":  terms,
		"page":    1,
		"perPage": count,
		"type":    r.kind,
	})
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", terms, err)
	}

	_, records, err := anilist.DecodePage(tree)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", terms, err)
	}
	if len(records) > count {
		records = records[:count]
	}
	return records, nil
}
