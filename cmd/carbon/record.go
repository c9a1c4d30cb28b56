package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/client"
	"github.com/alfredjeanlab/carbon/internal/idgen"
	"github.com/alfredjeanlab/carbon/internal/model"
)

var recordCmd = &cobra.Command{
	Use:     "record",
	Short:   "Record the emissions of one CI run",
	GroupID: "ledger",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _ := cmd.Flags().GetString("repo")
		owner, _ := cmd.Flags().GetString("owner")
		runID, _ := cmd.Flags().GetString("run-id")
		co2, _ := cmd.Flags().GetFloat64("co2")
		duration, _ := cmd.Flags().GetInt64("duration")
		machine, _ := cmd.Flags().GetString("machine-type")
		badge, _ := cmd.Flags().GetString("badge")
		ts, _ := cmd.Flags().GetString("timestamp")

		if runID == "" {
			id, err := idgen.RunID(idgen.PrefixManual)
			if err != nil {
				return err
			}
			runID = id
		}
		if ts == "" {
			ts = time.Now().UTC().Format(time.RFC3339)
		} else if _, err := model.ParseTimestamp(ts); err != nil {
			return fmt.Errorf("--timestamp: %w", err)
		}

		req := &client.RecordRequest{
			Repo:        repo,
			Owner:       owner,
			RunID:       runID,
			CO2:         co2,
			Duration:    duration,
			MachineType: machine,
			Badge:       badge,
			Timestamp:   ts,
		}
		resp, err := carbonClient.RecordEmission(context.Background(), req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(cmd.OutOrStdout(), resp)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recorded emission %d (%s, %.3f kg CO2, %s)\n", resp.ID, repo, co2, badge)
		return nil
	},
}

func init() {
	recordCmd.Flags().String("repo", "", "repository name")
	recordCmd.Flags().String("owner", "", "repository owner")
	recordCmd.Flags().String("run-id", "", "CI run identifier (generated when empty)")
	recordCmd.Flags().Float64("co2", 0, "CO2 emitted in kilograms")
	recordCmd.Flags().Int64("duration", 0, "run duration in seconds")
	recordCmd.Flags().String("machine-type", "", "runner machine type, e.g. ubuntu-latest")
	recordCmd.Flags().String("badge", string(model.BadgeGreen), "impact badge (Green, Yellow or Red)")
	recordCmd.Flags().String("timestamp", "", "run time, RFC 3339 or YYYY-MM-DD[THH:MM:SS] (default now)")
}
