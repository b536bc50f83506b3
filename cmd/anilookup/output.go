// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/anilookup/internal/delivery"
	"github.com/pdiddy/anilookup/internal/render"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "text", "output format: text, json, yaml")
	cmd.Flags().Bool("all", false, "print every card instead of paging through them")
}

// runBotCommand runs one dispatcher command and writes its cards in the
// requested format. Text output pages interactively unless --all is set.
func runBotCommand(cmd *cobra.Command, name string, args []string) error {
	payload := strings.Join(args, " ")
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	all, _ := cmd.Flags().GetBool("all")

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	d := newApp(appConfig).dispatcher

	switch format {
	case "json", "yaml":
		cards, err := d.Cards(ctx, name, payload)
		if err != nil {
			return err
		}
		if format == "json" {
			return render.WriteJSON(out, cards)
		}
		return render.WriteYAML(out, cards)
	case "text", "":
		if all {
			cards, err := d.Cards(ctx, name, payload)
			if err != nil {
				return err
			}
			render.WriteText(out, cards)
			return nil
		}
		s, err := d.Run(ctx, name, payload)
		if err != nil {
			return err
		}
		return delivery.Pager{In: cmd.InOrStdin(), Out: out}.Run(ctx, s)
	default:
		return fmt.Errorf("unknown format %q: use text, json or yaml", format)
	}
}
