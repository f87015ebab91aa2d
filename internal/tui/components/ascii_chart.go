package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/riseplan/internal/domain"
	"github.com/rgehrsitz/riseplan/internal/tui/tuistyles"
)

const yAxisWidth = 10

// DataSeries represents a single line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart displays a simple line chart
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // X-axis labels, one per point
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      72,
		Height:     14,
		ShowLegend: true,
	}
}

// CapitalChart plots the before- and after-tax capital of every simulated month.
func CapitalChart(result *domain.SimulationResult) *ASCIIChart {
	before, after := result.CapitalSeries()
	labels := make([]string, len(result.Timeline))
	for i, p := range result.Timeline {
		labels[i] = fmt.Sprintf("y%d", (p.Month+11)/12)
	}
	return NewASCIIChart("Capital Growth Over Time").
		AddSeries("Capital (before tax)", before, tuistyles.ColorChartLine1).
		AddSeries("Capital (after tax)", after, tuistyles.ColorChartLine2).
		WithLabels(labels).
		WithAxisLabel("month")
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithAxisLabel sets the X-axis caption
func (c *ASCIIChart) WithAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if !c.hasData() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	minVal, maxVal := c.valueRange()
	content.WriteString(c.renderGrid(minVal, maxVal))

	if c.XAxisLabel != "" {
		content.WriteString(strings.Repeat(" ", yAxisWidth+3))
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
		content.WriteString("\n")
	}

	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}

	return content.String()
}

func (c *ASCIIChart) hasData() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

func (c *ASCIIChart) plotWidth() int {
	w := c.Width - yAxisWidth - 3
	if w < 2 {
		w = 2
	}
	return w
}

func (c *ASCIIChart) plotHeight() int {
	if c.Height < 2 {
		return 2
	}
	return c.Height
}

// valueRange finds the min and max across all series with 10% padding; a flat series gets a unit band.
func (c *ASCIIChart) valueRange() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi-lo < 1e-9 {
		return lo - 1, hi + 1
	}
	padding := (hi - lo) * 0.1
	return lo - padding, hi + padding
}

// resample maps a series of any length onto exactly n columns.
func resample(points []float64, n int) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, n)
	for col := range out {
		idx := 0
		if n > 1 {
			idx = int(math.Round(float64(col) * float64(len(points)-1) / float64(n-1)))
		}
		out[col] = points[idx]
	}
	return out
}

func (c *ASCIIChart) row(value, minVal, maxVal float64) int {
	h := c.plotHeight()
	return h - 1 - int(math.Round((value-minVal)/(maxVal-minVal)*float64(h-1)))
}

func (c *ASCIIChart) renderGrid(minVal, maxVal float64) string {
	width, height := c.plotWidth(), c.plotHeight()

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	for idx, series := range c.Series {
		cols := resample(series.Points, width)
		char := seriesChar(idx)
		for x, v := range cols {
			y := c.row(v, minVal, maxVal)
			if x > 0 {
				drawLine(grid, x-1, c.row(cols[x-1], minVal, maxVal), x, y, char)
			} else {
				plot(grid, x, y, char)
			}
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)

	var out strings.Builder
	for i, r := range grid {
		yValue := maxVal - float64(i)/float64(height-1)*(maxVal-minVal)
		out.WriteString(axisStyle.Render(formatChartValue(yValue)))
		out.WriteString(" │ ")
		out.WriteString(string(r))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth+1))
	out.WriteString("└")
	out.WriteString(strings.Repeat("─", width+1))
	out.WriteString("\n")

	if len(c.Labels) > 0 {
		out.WriteString(c.renderXAxisLabels(width))
	}
	return out.String()
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

func plot(grid [][]rune, x, y int, char rune) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
		grid[y][x] = char
	}
}

// drawLine connects two cells using Bresenham's algorithm; earlier series keep their cells.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, char rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		plot(grid, x0, y0, char)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// renderXAxisLabels places up to five labels at evenly spaced columns.
func (c *ASCIIChart) renderXAxisLabels(width int) string {
	const maxLabels = 5
	line := []rune(strings.Repeat(" ", width+8))
	n := maxLabels
	if len(c.Labels) < n {
		n = len(c.Labels)
	}
	for i := 0; i < n; i++ {
		col, idx := 0, 0
		if n > 1 {
			col = i * (width - 1) / (n - 1)
			idx = i * (len(c.Labels) - 1) / (n - 1)
		}
		label := []rune(c.Labels[idx])
		if col+len(label) > len(line) {
			col = len(line) - len(label)
		}
		copy(line[col:], label)
	}
	return strings.Repeat(" ", yAxisWidth+3) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " ")) + "\n"
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, series := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(series.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", symbol, series.Name))
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: "+strings.Join(items, "  ")) + "\n"
}

// formatChartValue formats a value for display on the Y-axis
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.0fK", value/1000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
