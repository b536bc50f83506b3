// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"

	"github.com/pdiddy/anilookup/pkg/types"
)

const (
	InvalidIDText = "Sorry, you need to enter a valid numerical ID."
	NotFoundText  = "Sorry, that ID doesn't exist."
)

// ErrorCard is the generic card shown when a record cannot be rendered.
func (r *Renderer) ErrorCard() types.Card {
	desc := "Something in this result could not be displayed. Try the command again; " +
		"if it keeps happening, please open an issue at " + r.issueTracker + "."
	return types.Card{
		Kind:        types.CardError,
		Title:       ErrorTitle,
		URL:         r.issueTracker,
		Description: desc,
	}
}

// NoResultsCard stands in for an empty result so that every command still
// produces a session.
func NoResultsCard(terms string) types.Card {
	desc := "Nothing matched your query."
	if terms != "" {
		desc = fmt.Sprintf("Nothing matched %q.", terms)
	}
	return types.Card{Kind: types.CardNoResults, Title: "No results", Description: desc}
}

// NotFoundCard reports an id AniList has no media for.
func NotFoundCard() types.Card {
	return types.Card{Kind: types.CardNotFound, Title: "Error", Description: NotFoundText}
}

// InvalidInputCard reports a payload that is not a numerical id.
func InvalidInputCard() types.Card {
	return types.Card{Kind: types.CardInvalid, Title: "Error", Description: InvalidIDText}
}

// MissingTermsCard reports a search command without search terms.
func MissingTermsCard(usage string) types.Card {
	return types.Card{
		Kind:        types.CardInvalid,
		Title:       "Error",
		Description: "Sorry, you need to enter something to search for.\nUsage: " + usage,
	}
}

// UpstreamErrorCard reports that AniList could not answer the initial lookup.
func UpstreamErrorCard() types.Card {
	return types.Card{
		Kind:        types.CardUpstream,
		Title:       "Error",
		Description: "Sorry, AniList could not be reached right now. Please try again in a moment.",
	}
}

// PingCard answers the ping command.
func PingCard() types.Card {
	return types.Card{Kind: types.CardInfo, Title: "Pong!"}
}

// ReadmeCard lists the chat commands.
func ReadmeCard() types.Card {
	return types.Card{
		Kind:        types.CardInfo,
		Title:       "Commands",
		Description: "Here are the commands for this bot",
		Fields: []types.Field{
			{Name: "$readme", Value: "Shows this message. Kinda redundant, huh."},
			{Name: "$ping", Value: "Checks if the bot is online"},
			{Name: "$lookup <id>", Value: "Looks up one anime by its AniList ID"},
			{Name: "$search [num=N] <terms>", Value: "Searches AniList by title and pages through up to N results (default 10)"},
			{Name: "$recommend [num=N] <terms>", Value: "Recommendations for the top N search matches"},
			{Name: "$recommendid [num=N] <id>", Value: "Up to N recommendations for one AniList ID"},
			{Name: "$next / $prev", Value: "Moves through the current results"},
		},
	}
}
