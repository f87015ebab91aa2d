package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/riseplan/internal/tui/components"
)

// ConsoleFormatter prints the investment summary, the verdict and the capital chart.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writeSummary(&buf, r)
	if len(r.Result.Timeline) > 0 {
		fmt.Fprintln(&buf)
		buf.WriteString(components.CapitalChart(r.Result).Render())
	}
	return buf.Bytes(), nil
}

func writeSummary(buf *bytes.Buffer, r *Report) {
	title := "INVESTMENT SUMMARY"
	if r.Name != "" {
		title += ": " + r.Name
	}
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", 60))
	writeLines(buf, InputSummary(r))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "PERIODS")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	writeLines(buf, PeriodSummary(r.Input.Periods))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "FINAL RESULTS")
	fmt.Fprintln(buf, strings.Repeat("-", 60))
	writeLines(buf, ResultSummary(r))
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, Assessment(r))
}

func writeLines(buf *bytes.Buffer, lines []string) {
	for _, l := range lines {
		fmt.Fprintf(buf, "  %s\n", l)
	}
}
