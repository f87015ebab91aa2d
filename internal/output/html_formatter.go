package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"
)

// HTMLFormatter produces a standalone HTML report with an inline SVG chart.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Parse(htmlTemplateSource))

const (
	chartWidth  = 720.0
	chartHeight = 280.0
)

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	before, after := r.Result.CapitalSeries()
	lo, hi := seriesBounds(before, after)

	data := struct {
		*Report
		Inputs      []string
		Periods     []string
		Results     []string
		Assumptions []string
		Assessment  string
		Success     bool
		ChartWidth  float64
		ChartHeight float64
		BeforePath  string
		AfterPath   string
		MaxLabel    string
		MinLabel    string
	}{
		Report:      r,
		Inputs:      InputSummary(r),
		Periods:     PeriodSummary(r.Input.Periods),
		Results:     ResultSummary(r),
		Assumptions: DefaultAssumptions,
		Assessment:  Assessment(r),
		Success:     r.TargetMet(),
		ChartWidth:  chartWidth,
		ChartHeight: chartHeight,
		BeforePath:  svgPoints(before, lo, hi),
		AfterPath:   svgPoints(after, lo, hi),
		MaxLabel:    fmt.Sprintf("$%.0f", hi),
		MinLabel:    fmt.Sprintf("$%.0f", lo),
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.Bytes(), nil
}

func seriesBounds(series ...[]float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	first := true
	for _, s := range series {
		for _, v := range s {
			if first || v < lo {
				lo = v
			}
			if first || v > hi {
				hi = v
			}
			first = false
		}
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// svgPoints maps a series onto the chart box as a polyline points attribute.
func svgPoints(values []float64, lo, hi float64) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range values {
		x := 0.0
		if len(values) > 1 {
			x = float64(i) / float64(len(values)-1) * chartWidth
		}
		y := chartHeight - (v-lo)/(hi-lo)*chartHeight
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
