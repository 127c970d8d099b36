package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const tableWidth = 155

// WriteTable prints the summary table and totals of one capture file
func WriteTable(w io.Writer, s Summary) error {
	bw := bufio.NewWriter(w)

	title := "SUMMARY TABLE"
	fmt.Fprintln(bw, strings.Repeat("=", tableWidth))
	fmt.Fprintf(bw, "%s%s\n", strings.Repeat(" ", (tableWidth-len(title))/2), title)
	fmt.Fprintln(bw, strings.Repeat("=", tableWidth))
	fmt.Fprintf(bw, "%-8s %-12s %-24s %-35s %-30s %-5s %-5s %-5s %-5s %-5s %-5s\n",
		"ICAO", "Flight", "Format", "First (UTC)", "Last (UTC)", "POS", "HDG", "SEL", "DIF", "BAR", "GNS")
	fmt.Fprintln(bw, strings.Repeat("-", tableWidth))

	for _, r := range s.Rows {
		fmt.Fprintf(bw, "%-8s %-12s %-24s %-35s %-30s %-5s %-5s %-5s %-5s %-5s %-5s\n",
			r.Address, r.Identity, r.Formats, r.First, r.Last,
			Flag(r.HasPosition), Flag(r.HasCourse), Flag(r.HasSelectedAltitude),
			Flag(r.HasAltitudeDiff), Flag(r.HasBaroSetting), Flag(r.HasGNSSAltitude))
	}

	fmt.Fprintf(bw, "\nTotal aircraft discovered: %d\n", s.Total)
	fmt.Fprintf(bw, "Filtered out (no ADS-B): %d\n", s.FilteredOut)
	fmt.Fprintf(bw, "Retained (ADS-B): %d\n\n", s.Retained)

	return bw.Flush()
}
