// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for anilookup: the media
// records fetched from AniList, the cards rendered from them, and the
// configuration consumed by each stage.
package types

import "strings"

// MediaKind is the AniList media type (ANIME or MANGA).
type MediaKind string

const (
	KindAnime MediaKind = "ANIME"
	KindManga MediaKind = "MANGA"
)

// Valid reports whether k is a media type AniList accepts.
func (k MediaKind) Valid() bool {
	return k == KindAnime || k == KindManga
}

// Titles holds the three title variants AniList returns. Any of them may be
// empty.
type Titles struct {
	Romaji  string `json:"romaji,omitempty" yaml:"romaji,omitempty"`
	English string `json:"english,omitempty" yaml:"english,omitempty"`
	Native  string `json:"native,omitempty" yaml:"native,omitempty"`
}

// IsEmpty reports whether no title variant carries text.
func (t Titles) IsEmpty() bool {
	return strings.TrimSpace(t.Romaji) == "" &&
		strings.TrimSpace(t.English) == "" &&
		strings.TrimSpace(t.Native) == ""
}

// MediaRecord is one AniList media entry. Records are immutable once fetched
// and are never cached across commands.
type MediaRecord struct {
	// ID is the AniList media identifier.
	ID int `json:"id" yaml:"id"`

	Title Titles `json:"title" yaml:"title"`

	// Kind is ANIME or MANGA.
	Kind MediaKind `json:"type" yaml:"type"`

	// Format is the finer-grained media format (TV, MOVIE, OVA, NOVEL...).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Status is the release status (FINISHED, RELEASING...).
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Description is free text that may contain HTML-like markup.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// CoverImage is a cover image URL, empty when AniList has none.
	CoverImage string `json:"cover_image,omitempty" yaml:"cover_image,omitempty"`

	// Synonyms lists alternative titles; entries may be non-ASCII.
	Synonyms []string `json:"synonyms,omitempty" yaml:"synonyms,omitempty"`

	// SiteURL is the canonical AniList page, when returned.
	SiteURL string `json:"site_url,omitempty" yaml:"site_url,omitempty"`
}

// SearchQuery is the parsed form of a free-text command payload.
type SearchQuery struct {
	Raw   string
	Count int
	Terms string
}
