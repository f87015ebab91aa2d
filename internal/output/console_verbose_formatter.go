package output

import (
	"bytes"
	"fmt"
	"strings"
)

// ConsoleVerboseFormatter adds the assumptions and a year-end table to the console summary.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writeSummary(&buf, r)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "ASSUMPTIONS")
	fmt.Fprintln(&buf, strings.Repeat("-", 60))
	writeLines(&buf, DefaultAssumptions)
	fmt.Fprintln(&buf)

	writeYearTable(&buf, r)
	return buf.Bytes(), nil
}

// writeYearTable prints the capital at the end of each year; the goal year is flagged.
func writeYearTable(buf *bytes.Buffer, r *Report) {
	fmt.Fprintln(buf, "YEAR-END CAPITAL")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	fmt.Fprintf(buf, "%-6s %-8s %20s %20s\n", "Year", "Month", "Before tax", "After tax")

	goalMonth := -1
	if g := r.Result.GoalReachedAt; g != nil {
		goalMonth = g.TotalMonths()
	}

	for _, p := range r.Result.Timeline {
		if p.Month%12 != 0 {
			continue
		}
		marker := ""
		if goalMonth > 0 && goalMonth > p.Month-12 && goalMonth <= p.Month {
			marker = "  <- goal reached"
		}
		fmt.Fprintf(buf, "%-6d %-8d %20s %20s%s\n",
			p.Month/12, p.Month, FormatCurrency(p.CapitalBeforeTax), FormatCurrency(p.CapitalAfterTax), marker)
	}
}
