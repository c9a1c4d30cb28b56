package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/carbon/internal/model"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

func printEmission(w io.Writer, e *model.Emission) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Repo:\t%s\n", e.Repo)
	fmt.Fprintf(tw, "Owner:\t%s\n", e.Owner)
	fmt.Fprintf(tw, "Run ID:\t%s\n", e.RunID)
	fmt.Fprintf(tw, "CO2:\t%.3f kg\n", e.CO2)
	fmt.Fprintf(tw, "Duration:\t%ds\n", e.Duration)
	fmt.Fprintf(tw, "Machine:\t%s\n", e.MachineType)
	fmt.Fprintf(tw, "Badge:\t%s\n", ui.RenderBadge(e.Badge))
	fmt.Fprintf(tw, "Timestamp:\t%s\n", e.Timestamp.UTC().Format(timeLayout))
	tw.Flush()
}

func printEmissionTable(w io.Writer, emissions []*model.Emission) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREPO\tOWNER\tCO2 (KG)\tDURATION\tMACHINE\tBADGE\tTIMESTAMP")
	for _, e := range emissions {
		repo := e.Repo
		if len(repo) > 40 {
			repo = repo[:37] + "..."
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.3f\t%ds\t%s\t%s\t%s\n",
			e.ID,
			repo,
			e.Owner,
			e.CO2,
			e.Duration,
			e.MachineType,
			ui.RenderBadge(e.Badge),
			e.Timestamp.UTC().Format(timeLayout),
		)
	}
	tw.Flush()
}

func printStats(w io.Writer, stats *model.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total CO2:\t%.3f kg\n", stats.TotalCO2)
	fmt.Fprintf(tw, "Average CO2:\t%.3f kg\n", stats.AverageCO2)
	fmt.Fprintf(tw, "Builds:\t%d\n", len(stats.Emissions))
	for _, b := range model.KnownBadges {
		fmt.Fprintf(tw, "%s:\t%d\n", ui.RenderBadge(b), stats.BadgeCounts[b])
	}
	tw.Flush()
}
