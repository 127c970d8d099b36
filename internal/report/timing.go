package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"squitterlog/internal/timing"
	"squitterlog/internal/track"
)

// WriteTiming prints the interval analysis of every category each record transmitted
func WriteTiming(w io.Writer, records []*track.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "ICAO\tREG\tCATEGORY\tMSGS\tTARGET\tIN\tFAST\tSLOW\tMIN\tMAX\tMEAN\tSTD\tBURSTS\tSTATUS")
	for _, rec := range records {
		for _, c := range track.Categories() {
			timestamps := rec.Timestamps(c)
			if len(timestamps) == 0 {
				continue
			}
			a := timing.AnalyzeCategory(timestamps, c)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.0f±%.0f\t%s\t%s\n",
				rec.Address, c.Register(), c, len(timestamps),
				a.Target.IntervalMS, a.Target.ToleranceMS,
				timingColumns(a), a.Status)
		}
	}

	return tw.Flush()
}

func timingColumns(a timing.Analysis) string {
	if a.Status != timing.StatusOK {
		return strings.Repeat("-\t", 7) + "-"
	}
	return fmt.Sprintf("%d\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%s",
		a.InRange, a.TooFrequent, a.TooInfrequent,
		a.MinMS, a.MaxMS, a.MeanMS, a.StdDevMS, FormatBursts(a.Bursts))
}

// FormatBursts renders bursts as "~<center>ms:<count>" joined by spaces
func FormatBursts(bursts []timing.Burst) string {
	if len(bursts) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(bursts))
	for _, b := range bursts {
		parts = append(parts, fmt.Sprintf("~%.0fms:%d", b.CenterMS, b.Count))
	}
	return strings.Join(parts, " ")
}
