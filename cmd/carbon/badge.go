package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

var badgeCmd = &cobra.Command{
	Use:     "badge",
	Short:   "Show the badge of the most recent run",
	GroupID: "ledger",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		badge, err := carbonClient.GetLatestBadge(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cmd.OutOrStdout(), badge)
			return nil
		}
		message := badge.Message
		if message == model.BadgeNoData {
			message = ui.RenderMuted(message)
		} else {
			message = ui.RenderBadge(model.Badge(message))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", badge.Label, message, badge.Color)
		return nil
	},
}
