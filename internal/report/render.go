package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/carbon/internal/model"
)

// Styler decorates text for terminal output.
type Styler struct {
	Badge   func(model.Badge) string
	Heading func(string) string
}

func (s Styler) badge(b model.Badge) string {
	if s.Badge == nil {
		return string(b)
	}
	return s.Badge(b)
}

func (s Styler) heading(h string) string {
	if s.Heading == nil {
		return h
	}
	return s.Heading(h)
}

// Render writes rep as plain-text tables.
func Render(w io.Writer, rep *Report, st Styler) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, st.heading("Carbon-Cost Dashboard"))
	fmt.Fprintf(tw, "Total CO2:\t%.3f kg\n", rep.Metrics.TotalCO2)
	fmt.Fprintf(tw, "Average CO2 per build:\t%.3f kg\n", rep.Metrics.AverageCO2)
	fmt.Fprintf(tw, "Total builds:\t%d\n", rep.Metrics.Builds)
	fmt.Fprintf(tw, "Green builds:\t%d\n", rep.Metrics.GreenBuilds)

	fmt.Fprintf(tw, "\n%s\n", st.heading("Build Status Breakdown"))
	fmt.Fprintln(tw, "BADGE\tCOUNT\tSHARE")
	for _, b := range rep.Badges {
		fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", st.badge(b.Badge), b.Count, b.Share*100)
	}

	if rep.Range.From.IsZero() && rep.Range.To.IsZero() {
		fmt.Fprintf(tw, "\n%s\n", st.heading("Emissions"))
	} else {
		fmt.Fprintf(tw, "\n%s %s .. %s\n", st.heading("Emissions"),
			rep.Range.From.Format(DateLayout), rep.Range.To.Format(DateLayout))
	}

	if len(rep.Recent) == 0 {
		fmt.Fprintln(tw, "No build data available.")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "\n%s\n", st.heading("Daily CO2"))
	fmt.Fprintln(tw, "DATE\tCO2 (KG)")
	for _, d := range rep.Daily {
		fmt.Fprintf(tw, "%s\t%.3f\n", d.Date, d.CO2)
	}

	fmt.Fprintf(tw, "\n%s\n", st.heading("Emissions by Machine Type"))
	fmt.Fprintln(tw, "MACHINE TYPE\tCO2 (KG)")
	for _, m := range rep.Machines {
		fmt.Fprintf(tw, "%s\t%.3f\n", m.MachineType, m.CO2)
	}

	fmt.Fprintf(tw, "\n%s\n", st.heading("Recent Builds"))
	fmt.Fprintln(tw, "REPO\tCO2 (KG)\tDURATION\tMACHINE TYPE\tBADGE\tTIMESTAMP")
	for _, e := range rep.Recent {
		fmt.Fprintf(tw, "%s\t%.3f\t%ds\t%s\t%s\t%s\n",
			e.Repo, e.CO2, e.Duration, e.MachineType, st.badge(e.Badge),
			e.Timestamp.UTC().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
