// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns media records into display cards. Every field is
// derived through an ordered fallback chain, and Render never fails: a
// record that cannot be rendered yields the generic error card instead.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"

	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/pkg/types"
)

const (
	// NoDescription replaces an absent or blank description.
	NoDescription = "No description available."

	// ErrorTitle is the fixed title of the generic error card.
	ErrorTitle = "an error has occurred while loading this page"

	// CheckedAtLayout formats the render time shown on every media card.
	CheckedAtLayout = "15:04:05"

	siteBase = "https://anilist.co"

	// Card size limits of the chat surfaces cards are delivered to.
	maxDescription = 4096
	maxFieldValue  = 1024
)

// Field names in display order.
const (
	FieldOriginalTitle   = "Original Title"
	FieldAlternateTitles = "Alternate Titles"
	FieldMediaType       = "Media Type"
	FieldStatus          = "Status"
	FieldID              = "AniList ID"
	FieldCheckedAt       = "Checked at"
)

// Renderer builds cards. The zero value is not usable; call New.
type Renderer struct {
	issueTracker string
	now          func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithClock replaces time.Now as the source of the Checked-at field.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// New returns a Renderer linking its error card to cfg.IssueTrackerURL.
func New(cfg types.RenderConfig, opts ...Option) *Renderer {
	r := &Renderer{issueTracker: cfg.IssueTrackerURL, now: time.Now}
	if r.issueTracker == "" {
		r.issueTracker = types.DefaultConfig().Render.IssueTrackerURL
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render converts one record into a media card. It always returns a
// displayable card.
func (r *Renderer) Render(rec types.MediaRecord) (card types.Card) {
	defer func() {
		if p := recover(); p != nil {
			logging.Warn().Int("id", rec.ID).Interface("panic", p).Msg("render fell back to error card")
			card = r.ErrorCard()
		}
	}()

	if rec.Title.IsEmpty() && rec.ID <= 0 {
		logging.Debug().Msg("record has neither title nor id")
		return r.ErrorCard()
	}
	return r.build(rec)
}

// RenderAll renders records in order.
func (r *Renderer) RenderAll(recs []types.MediaRecord) []types.Card {
	cards := make([]types.Card, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, r.Render(rec))
	}
	return cards
}

func (r *Renderer) build(rec types.MediaRecord) types.Card {
	title, _ := firstOf(rec.Title.English, rec.Title.Romaji, rec.Title.Native)
	if title == "" {
		title = fmt.Sprintf("AniList #%d", rec.ID)
	}

	card := types.Card{
		Kind:        types.CardMedia,
		Title:       title,
		URL:         Link(rec.Kind, rec.ID),
		Description: truncate(description(rec.Description), maxDescription),
	}
	if cover, ok := firstOf(rec.CoverImage); ok {
		card.Thumbnail = cover
	}

	original := orDefault("Unknown", rec.Title.Native, rec.Title.Romaji)
	card.Fields = append(card.Fields, field(FieldOriginalTitle, original, false))

	if alt := alternateTitles(rec.Synonyms); alt != "" {
		card.Fields = append(card.Fields, field(FieldAlternateTitles, alt, false))
	}

	card.Fields = append(card.Fields,
		field(FieldMediaType, orDefault("Unknown", rec.Format, string(rec.Kind)), true),
		field(FieldStatus, orDefault("Unknown", rec.Status), true),
		field(FieldID, strconv.Itoa(rec.ID), true),
		field(FieldCheckedAt, r.now().Format(CheckedAtLayout), true),
	)
	return card
}

// Link builds the AniList page URL for a media. An unknown kind links as
// anime.
func Link(kind types.MediaKind, id int) string {
	if !kind.Valid() {
		kind = types.KindAnime
	}
	return fmt.Sprintf("%s/%s/%d", siteBase, strings.ToLower(string(kind)), id)
}

// alternateTitles joins the ASCII-only synonyms. lo.Filter returns a new
// slice; the record's synonyms are left untouched.
func alternateTitles(synonyms []string) string {
	ascii := lo.Filter(synonyms, func(s string, _ int) bool {
		return strings.TrimSpace(s) != "" && isASCII(s)
	})
	return strings.Join(ascii, ", ")
}

func isASCII(s string) bool {
	for _, c := range s {
		if c > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// firstOf returns the first non-blank value.
func firstOf(values ...string) (string, bool) {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

func orDefault(def string, values ...string) string {
	if v, ok := firstOf(values...); ok {
		return v
	}
	return def
}

func field(name, value string, inline bool) types.Field {
	return types.Field{Name: name, Value: truncate(value, maxFieldValue), Inline: inline}
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
