package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"StockPredict/internal/domain/models"
)

const barWidth = 40

var (
	colorAccent = lipgloss.Color("#2CD7C7")
	colorBorder = lipgloss.Color("#16858E")
	colorMuted  = lipgloss.Color("#5C7A84")
	colorError  = lipgloss.Color("#E74C3C")
)

// barColors maps report bar colors onto terminal colors.
var barColors = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#3B82F6"),
	"green":  lipgloss.Color("#22C55E"),
	"orange": lipgloss.Color("#F59E0B"),
	"red":    lipgloss.Color("#EF4444"),
}

var styles = struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Header  lipgloss.Style
	Cell    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Success: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
	Cell:    lipgloss.NewStyle().Padding(0, 1),
}

func renderReport(r *models.Report) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Raw Data") + "\n")
	b.WriteString(styles.Muted.Render(fmt.Sprintf("%d rows, %d dropped, %d securities",
		r.Rows, r.DroppedRows, r.Securities)) + "\n")
	if len(r.Preview) > 0 {
		b.WriteString(previewTable(r.Preview) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.Title.Render("Train") + "\n")
	b.WriteString(styles.Success.Render(r.Message) + "\n")
	b.WriteString(styles.Muted.Render(fmt.Sprintf("seed %d, test ratio %s, %d train / %d test rows",
		r.Regression.Seed, decimal.NewFromFloat(r.Regression.TestRatio).String(),
		r.Regression.TrainRows, r.Regression.TestRows)) + "\n\n")

	b.WriteString(renderChart(r.Chart) + "\n")
	for _, note := range r.Notes {
		b.WriteString(styles.Muted.Render(note) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.Title.Render("Sample Predictions") + "\n")
	if len(r.Samples) > 0 {
		b.WriteString(sampleTable(r.Samples) + "\n")
	}
	b.WriteString(styles.Muted.Render(fmt.Sprintf("showing %d of %d rows", len(r.Samples), r.SampleTotal)) + "\n")
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			return styles.Cell
		})
}

func previewTable(rows []models.PreviewRow) string {
	t := newTable("date", "name", "open", "high", "low", "close", "volume")
	for _, r := range rows {
		t.Row(r.Date, r.Name, fixed(r.Open, 2), fixed(r.High, 2), fixed(r.Low, 2), fixed(r.Close, 2), fixed(r.Volume, 0))
	}
	return t.String()
}

func sampleTable(rows []models.SampleRow) string {
	t := newTable("date", "name", "actual",
		models.LabelLinearRegression, models.LabelHeuristic, models.LabelFOL, models.LabelCSP)
	for _, r := range rows {
		t.Row(r.Date, r.Name, fixed(r.Actual, 2),
			fixed(r.LinearRegression, 2), fixed(r.Heuristic, 2), fixed(r.FOL, 2), fixed(r.CSP, 2))
	}
	return t.String()
}

// renderChart draws the MAE comparison as horizontal bars scaled to the largest value.
func renderChart(c models.Chart) string {
	labelW := 0
	for _, bar := range c.Bars {
		labelW = max(labelW, lipgloss.Width(bar.Label))
	}

	lines := []string{styles.Title.Render(c.Title)}
	maxValue := c.MaxValue()
	for _, bar := range c.Bars {
		style := lipgloss.NewStyle().Foreground(barColors[bar.Color])
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelW, bar.Label,
			style.Render(strings.Repeat("█", barLength(bar.Value, maxValue, barWidth))),
			fixed(bar.Value, 2)))
	}
	lines = append(lines, styles.Muted.Render(c.YLabel))
	return strings.Join(lines, "\n")
}

// barLength scales v against maxValue; any positive value gets at least one cell.
func barLength(v, maxValue float64, width int) int {
	if maxValue <= 0 || v <= 0 {
		return 0
	}
	n := int(math.Round(v / maxValue * float64(width)))
	return min(max(n, 1), width)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
