// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CardKind distinguishes media cards from the synthesized status cards.
type CardKind string

const (
	CardMedia     CardKind = "media"
	CardNoResults CardKind = "no_results"
	CardNotFound  CardKind = "not_found"
	CardInvalid   CardKind = "invalid_input"
	CardUpstream  CardKind = "upstream_error"
	CardError     CardKind = "render_error"
	CardInfo      CardKind = "info"
)

// Field is one named value shown on a card.
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Inline bool   `json:"inline" yaml:"inline"`
}

// Card is the presentation value derived from exactly one MediaRecord, or a
// synthesized status card. Field order is fixed by the renderer.
type Card struct {
	Kind        CardKind `json:"kind" yaml:"kind"`
	Title       string   `json:"title" yaml:"title"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Fields      []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
}

// Field returns the value of the named field and whether it is present.
func (c Card) Field(name string) (string, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
