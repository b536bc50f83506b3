// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	tag       = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)
	breakRun  = regexp.MustCompile(`[ \t]*\n\s*`)
	spaceRun  = regexp.MustCompile(`[ \t]{2,}`)
)

// StripMarkup removes angle-bracket tags from AniList description text.
// Line-break tags become newlines and runs of them collapse to one. It is
// plain text extraction, not HTML parsing: an angle bracket that does not
// open a tag name, as in "1 < 2", is kept.
func StripMarkup(s string) string {
	s = lineBreak.ReplaceAllString(s, "\n")
	s = tag.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\r", "")
	s = breakRun.ReplaceAllString(s, "\n")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

func description(raw string) string {
	if text := StripMarkup(raw); text != "" {
		return text
	}
	return NoDescription
}
