// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anilookup/internal/bot"
	"github.com/pdiddy/anilookup/pkg/types"
)

func outputCommand(t *testing.T, format string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	prev := appConfig
	appConfig = types.DefaultConfig()
	t.Cleanup(func() { appConfig = prev })

	cmd := &cobra.Command{}
	addOutputFlags(cmd)
	require.NoError(t, cmd.Flags().Set("format", format))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func TestRunBotCommandFormatIsCaseInsensitive(t *testing.T) {
	for _, format := range []string{"json", "JSON", "Json"} {
		t.Run(format, func(t *testing.T) {
			cmd, out := outputCommand(t, format)

			// An invalid id never reaches AniList.
			require.NoError(t, runBotCommand(cmd, bot.CmdLookup, []string{"abc"}))

			var cards []types.Card
			require.NoError(t, json.Unmarshal(out.Bytes(), &cards), out.String())
			require.Len(t, cards, 1)
			assert.Equal(t, types.CardInvalid, cards[0].Kind)
		})
	}
}

func TestRunBotCommandYAML(t *testing.T) {
	cmd, out := outputCommand(t, "YAML")

	require.NoError(t, runBotCommand(cmd, bot.CmdLookup, []string{"abc"}))
	assert.Contains(t, out.String(), "- kind: invalid_input")
}

func TestRunBotCommandUnknownFormat(t *testing.T) {
	cmd, _ := outputCommand(t, "xml")

	err := runBotCommand(cmd, bot.CmdLookup, []string{"abc"})
	assert.ErrorContains(t, err, "unknown format")
}
