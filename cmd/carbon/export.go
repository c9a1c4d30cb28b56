package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/config"
	carbonsync "github.com/alfredjeanlab/carbon/internal/sync"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export the ledger database as JSONL",
	GroupID: "system",
	Args:    cobra.NoArgs,
	// Reads the database directly; no API client needed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		st, err := openStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer st.Close()

		var w io.Writer = cmd.OutOrStdout()
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		n, err := carbonsync.ExportJSONL(context.Background(), st, w)
		if err != nil {
			return err
		}
		if output != "" && output != "-" {
			fmt.Fprintf(os.Stderr, "exported %d emissions to %s\n", n, output)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
}
