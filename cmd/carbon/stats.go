package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show ledger totals and every recorded emission",
	GroupID: "ledger",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := carbonClient.GetStats(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			printJSON(out, stats)
			return nil
		}

		printStats(out, stats)
		if len(stats.Emissions) > 0 {
			fmt.Fprintln(out)
			printEmissionTable(out, stats.Emissions)
		}
		return nil
	},
}
