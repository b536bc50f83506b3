// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/anilookup/internal/bot"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [num=N] <terms...>",
	Short: "Recommendations for the top title matches of a search",
	Long: `Recommend searches AniList for the top N title matches and collects up to N
user recommendations for each. Media recommended for more than one match are
shown once, in the order they were first seen.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotCommand(cmd, bot.CmdRecommend, args)
	},
}

var recommendIDCmd = &cobra.Command{
	Use:   "recommend-id [num=N] <id>",
	Short: "Recommendations for one AniList ID",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBotCommand(cmd, bot.CmdRecommendID, args)
	},
}

func init() {
	addOutputFlags(recommendCmd)
	addOutputFlags(recommendIDCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(recommendIDCmd)
}
