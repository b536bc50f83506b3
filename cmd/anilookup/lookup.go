// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/anilookup/internal/bot"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Look up one media by its AniList ID",
	Long: `Lookup resolves an AniList media id to a single card. Spaces inside the id
are ignored, so "2 1" looks up 21.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotCommand(cmd, bot.CmdLookup, args)
	},
}

func init() {
	addOutputFlags(lookupCmd)
	rootCmd.AddCommand(lookupCmd)
}
