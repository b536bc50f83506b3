// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/anilookup/internal/bot"
)

var searchCmd = &cobra.Command{
	Use:   "search [num=N] <terms...>",
	Short: "Search AniList by title",
	Long: `Search asks AniList for the best title matches of the search terms. A
leading num=N sets how many results to fetch (default 10, at most 50). All
remaining words form one search string.`,
	Example: `  anilookup search bleach
  anilookup search num=3 cowboy bebop --all`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotCommand(cmd, bot.CmdSearch, args)
	},
}

func init() {
	addOutputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
