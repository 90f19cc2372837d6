package models

import "time"

// Strategy labels, in the order they are reported.
const (
	LabelLinearRegression = "Linear Regression"
	LabelHeuristic        = "Heuristic"
	LabelFOL              = "FOL Rule"
	LabelCSP              = "CSP Rule"
)

// StrategyLabels is the fixed reporting order.
var StrategyLabels = []string{LabelLinearRegression, LabelHeuristic, LabelFOL, LabelCSP}

// MAEEntry is one strategy's mean absolute error.
type MAEEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// MAERecord maps strategy label to error in fixed order.
// Strategies with no scorable rows are absent.
type MAERecord []MAEEntry

// Get returns the MAE for label.
func (r MAERecord) Get(label string) (float64, bool) {
	for _, e := range r {
		if e.Label == label {
			return e.Value, true
		}
	}
	return 0, false
}

// RegressionSummary describes the fitted linear model.
type RegressionSummary struct {
	Coefficients map[string]float64 `json:"coefficients"`
	Intercept    float64            `json:"intercept"`
	TrainRows    int                `json:"train_rows"`
	TestRows     int                `json:"test_rows"`
	Seed         int64              `json:"seed"`
	TestRatio    float64            `json:"test_ratio"`
	MAE          float64            `json:"mae"`
}

// ChartBar is one bar of the MAE comparison chart.
type ChartBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Chart is the presentation model handed to the chart renderer.
type Chart struct {
	Title  string     `json:"title"`
	YLabel string     `json:"y_label"`
	Bars   []ChartBar `json:"bars"`
}

// MaxValue returns the largest bar value, used to scale renderings.
func (c Chart) MaxValue() float64 {
	m := 0.0
	for _, b := range c.Bars {
		if b.Value > m {
			m = b.Value
		}
	}
	return m
}

// PreviewRow is one raw row of the uploaded data.
type PreviewRow struct {
	Date   string  `json:"date"`
	Name   string  `json:"name"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SampleRow is one aligned prediction row.
type SampleRow struct {
	Date             string  `json:"date"`
	Name             string  `json:"name"`
	Actual           float64 `json:"actual"`
	LinearRegression float64 `json:"linear_regression"`
	Heuristic        float64 `json:"heuristic"`
	FOL              float64 `json:"fol"`
	CSP              float64 `json:"csp"`
}

// Report is the full result of one pipeline run.
type Report struct {
	RunID       string            `json:"run_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Cached      bool              `json:"cached"`
	Rows        int               `json:"rows"`
	DroppedRows int               `json:"dropped_rows"`
	Securities  int               `json:"securities"`
	Preview     []PreviewRow      `json:"preview"`
	Message     string            `json:"message"`
	Regression  RegressionSummary `json:"regression"`
	MAE         MAERecord         `json:"mae"`
	Chart       Chart             `json:"chart"`
	Samples     []SampleRow       `json:"samples"`
	SampleTotal int               `json:"sample_total"`
	Notes       []string          `json:"notes,omitempty"`
}

// PredictRequest carries the optional knobs of an upload.
type PredictRequest struct {
	PreviewRows int `query:"preview_rows" form:"preview_rows" json:"preview_rows" default:"10" validate:"gte=0,lte=100"`
	SampleRows  int `query:"sample_rows" form:"sample_rows" json:"sample_rows" default:"20" validate:"gte=0,lte=500"`
}
