package api

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"StockPredict/internal/domain/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Line chart geometry, in SVG user units.
const (
	lineChartWidth  = 640
	lineChartHeight = 240
	lineChartPad    = 24
)

// TemplateRenderer renders the embedded HTML pages for echo.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the embedded templates.
func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.New("pages").Funcs(template.FuncMap{
		"fixed":  fixed,
		"barPct": barPct,
		"points": linePoints,
		"chartW": func() int { return lineChartWidth },
		"chartH": func() int { return lineChartHeight },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &TemplateRenderer{tmpl: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// barPct scales v against the chart maximum as a CSS percentage.
func barPct(v, maxValue float64) string {
	if maxValue <= 0 {
		return "0"
	}
	return decimal.NewFromFloat(v / maxValue * 100).StringFixed(1)
}

// linePoints renders one sample series as an SVG polyline over a shared y scale.
func linePoints(samples []models.SampleRow, series string) string {
	if len(samples) == 0 {
		return ""
	}
	pick := func(s models.SampleRow) float64 {
		switch series {
		case "actual":
			return s.Actual
		case "regression":
			return s.LinearRegression
		case "heuristic":
			return s.Heuristic
		case "fol":
			return s.FOL
		default:
			return s.CSP
		}
	}

	lo, hi := samples[0].Actual, samples[0].Actual
	for _, s := range samples {
		for _, v := range []float64{s.Actual, s.LinearRegression, s.Heuristic, s.FOL, s.CSP} {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := 0.0
	if len(samples) > 1 {
		step = float64(lineChartWidth-2*lineChartPad) / float64(len(samples)-1)
	}
	plotH := float64(lineChartHeight - 2*lineChartPad)

	var b strings.Builder
	for i, s := range samples {
		x := float64(lineChartPad) + step*float64(i)
		y := float64(lineChartPad) + plotH - (pick(s)-lo)/span*plotH
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}

var _ echo.Renderer = (*TemplateRenderer)(nil)
