package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/report"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show totals, trends and recent builds",
	GroupID: "views",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetDuration("refresh")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		var r report.DateRange
		var err error
		if from != "" {
			if r.From, err = report.ParseDate(from); err != nil {
				return fmt.Errorf("--from: %w", err)
			}
		}
		if to != "" {
			if r.To, err = report.ParseDate(to); err != nil {
				return fmt.Errorf("--to: %w", err)
			}
		}
		if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
			return fmt.Errorf("--to %s is before --from %s", to, from)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		if err := renderDashboard(ctx, out, r); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: unable to connect to backend at %s: %v\n", httpURL, err)
			os.Exit(1)
		}
		if refresh <= 0 {
			return nil
		}

		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			if !jsonOutput {
				fmt.Fprint(out, "\x1b[H\x1b[2J")
			}
			if err := renderDashboard(ctx, out, r); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				fmt.Fprintf(os.Stderr, "Warning: refresh failed: %v\n", err)
			}
		}
	},
}

func renderDashboard(ctx context.Context, w io.Writer, r report.DateRange) error {
	stats, err := carbonClient.GetStats(ctx)
	if err != nil {
		return err
	}
	rep := report.Build(stats, r)
	if jsonOutput {
		printJSON(w, rep)
		return nil
	}
	return report.Render(w, rep, report.Styler{Badge: ui.RenderBadge, Heading: ui.RenderAccent})
}

func init() {
	dashboardCmd.Flags().Duration("refresh", 0, "re-render at this interval (0 = once)")
	dashboardCmd.Flags().String("from", "", "first date to include, YYYY-MM-DD (default earliest)")
	dashboardCmd.Flags().String("to", "", "last date to include, YYYY-MM-DD (default latest)")
}
