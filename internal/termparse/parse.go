// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package termparse splits a command payload into a result count and search
// terms, honoring an optional "num=<N>" prefix.
package termparse

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/anilookup/pkg/types"
)

// DefaultCount is used when no valid count prefix is present.
const DefaultCount = 10

const prefix = "num="

// maxCount bounds parsed counts so a huge prefix cannot overflow or request
// an absurd page.
const maxCount = 1000

// Parse returns the result count and search terms of text.
//
//	Parse("num=5 bleach") == (5, "bleach")
//	Parse("bleach")       == (10, "bleach")
//	Parse("num=")         == (10, "num=")
//
// A malformed prefix (no digits, digits running to the end of input, no
// separator, zero count, nothing after the separator) falls back to the
// default count with the whole trimmed input as terms.
func Parse(text string) (count int, terms string) {
	text = strings.TrimSpace(text)
	fallback := func() (int, string) { return DefaultCount, text }

	if !strings.HasPrefix(text, prefix) {
		return fallback()
	}

	i := len(prefix)
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	digits := text[len(prefix):i]
	if digits == "" || i >= len(text) {
		return fallback()
	}

	sep, size := utf8.DecodeRuneInString(text[i:])
	if !unicode.IsSpace(sep) {
		return fallback()
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 || n > maxCount {
		return fallback()
	}

	rest := strings.TrimSpace(text[i+size:])
	if rest == "" {
		return fallback()
	}
	return n, rest
}

// ParseQuery is Parse returning the struct form.
func ParseQuery(text string) types.SearchQuery {
	n, terms := Parse(text)
	return types.SearchQuery{Raw: text, Count: n, Terms: terms}
}
