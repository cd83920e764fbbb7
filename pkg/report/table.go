package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// PrintRankings prints the report as aligned text tables
func PrintRankings(out io.Writer, report Report) {
	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 80))
	fmt.Fprintf(out, "%s\n", strings.ToUpper(report.Title))
	fmt.Fprintf(out, "%s\n", strings.Repeat("=", 80))

	for i, section := range report.Sections {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, section.Heading)
		fmt.Fprintf(out, "%s\n", strings.Repeat("-", 60))

		if len(section.Rankings) == 0 {
			fmt.Fprintf(out, "  no applicable results\n")
			continue
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Rank\tAlgorithm\t%s\n", section.Metric.Label())
		for _, r := range section.Rankings {
			fmt.Fprintf(w, "%d\t%s\t%.4f\n", r.Rank, r.Title, r.Value)
		}
		w.Flush()
	}

	fmt.Fprintf(out, "\nSummary:\n")
	for _, line := range report.Summary {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
