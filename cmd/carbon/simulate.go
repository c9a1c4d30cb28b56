package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/simulate"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

var simulateCmd = &cobra.Command{
	Use:     "simulate",
	Short:   "Record synthetic CI runs for demos",
	GroupID: "ledger",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runs, _ := cmd.Flags().GetInt("runs")
		delay, _ := cmd.Flags().GetDuration("delay")
		seed, _ := cmd.Flags().GetUint64("seed")
		if runs < 0 {
			return fmt.Errorf("--runs must not be negative")
		}
		if !cmd.Flags().Changed("seed") {
			seed = uint64(time.Now().UnixNano())
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		runner := simulate.NewRunner(carbonClient, simulate.NewGenerator(seed, nil), delay, logger)
		if !jsonOutput {
			runner.OnResult = func(e *model.Emission, err error) {
				if err != nil {
					fmt.Fprintf(out, "%s %s: %v\n", ui.RenderMuted("failed"), e.Repo, err)
					return
				}
				fmt.Fprintf(out, "recorded %s: %.3f kg CO2 (%s)\n", e.Repo, e.CO2, ui.RenderBadge(e.Badge))
			}
			fmt.Fprintf(out, "Simulating %d runs against %s\n", runs, httpURL)
		}

		res, err := runner.Run(ctx, runs)
		if errors.Is(err, simulate.ErrBackendUnavailable) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}

		if jsonOutput {
			printJSON(out, res)
			return nil
		}
		fmt.Fprintf(out, "Successfully recorded %d/%d runs\n", res.Succeeded, res.Attempted)
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("runs", simulate.DefaultRuns, "number of runs to simulate")
	simulateCmd.Flags().Duration("delay", simulate.DefaultDelay, "delay between runs")
	simulateCmd.Flags().Uint64("seed", 0, "random seed (default time-based)")
}
