// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/anilookup/pkg/types"
)

// WriteCard writes one card in human-readable form to w.
func WriteCard(w io.Writer, c types.Card) {
	fmt.Fprintln(w, c.Title)
	fmt.Fprintln(w, strings.Repeat("=", min(len([]rune(c.Title)), 80)))
	if c.URL != "" {
		fmt.Fprintln(w, c.URL)
	}
	if c.Description != "" {
		fmt.Fprintf(w, "\n%s\n", c.Description)
	}
	if len(c.Fields) > 0 {
		fmt.Fprintln(w)
	}
	for _, f := range c.Fields {
		fmt.Fprintf(w, "%-18s %s\n", f.Name+":", f.Value)
	}
	if c.Thumbnail != "" {
		fmt.Fprintf(w, "%-18s %s\n", "Cover:", c.Thumbnail)
	}
}

// WriteText writes every card separated by a rule.
func WriteText(w io.Writer, cards []types.Card) {
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintln(w, strings.Repeat("-", 80))
		}
		WriteCard(w, c)
	}
	fmt.Fprintf(w, "\n%d card(s)\n", len(cards))
}

// WriteJSON writes cards as indented JSON to w.
func WriteJSON(w io.Writer, cards []types.Card) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cards)
}

// WriteYAML writes cards as a YAML sequence to w.
func WriteYAML(w io.Writer, cards []types.Card) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cards); err != nil {
		return fmt.Errorf("encoding cards: %w", err)
	}
	return enc.Close()
}
