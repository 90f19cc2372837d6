package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPredict/internal/domain/models"
)

func builderDataset() models.Dataset {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }
	return models.Dataset{Rows: []models.Observation{
		{Name: "A", Date: day(1), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Name: "A", Date: day(2), Open: 2, High: 3, Low: 1.5, Close: 2.5, Volume: 20},
		{Name: "B", Date: day(1), Open: 5, High: 6, Low: 4.5, Close: 5.5, Volume: 30},
		{Name: "B", Date: day(2), Open: 6, High: 7, Low: 5.5, Close: 6.5, Volume: 40},
	}}
}

func outcomesFor(n int) []StrategyOutcome {
	full := func(label string, v float64) StrategyOutcome {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v
		}
		return StrategyOutcome{Label: label, Column: models.DenseColumn(label, vals), MAE: v}
	}
	heur := models.NewColumn(models.LabelHeuristic, n)
	heur.Set(1, 2.2)
	heur.Set(3, 6.6)
	// Deliberately out of order: the record follows the fixed label order.
	return []StrategyOutcome{
		full(models.LabelCSP, 0.4),
		full(models.LabelFOL, 0.3),
		{Label: models.LabelHeuristic, Column: heur, MAE: 0.2},
		full(models.LabelLinearRegression, 0.1),
	}
}

func TestBuildOrdersAndDropsIncomplete(t *testing.T) {
	ds := builderDataset()
	r := NewReportBuilder(3, 20).Build(ds, models.RegressionSummary{MAE: 0.1}, outcomesFor(ds.Len()))

	require.Len(t, r.MAE, 4)
	for i, label := range models.StrategyLabels {
		assert.Equal(t, label, r.MAE[i].Label)
	}
	v, ok := r.MAE.Get(models.LabelFOL)
	assert.True(t, ok)
	assert.Equal(t, 0.3, v)

	assert.Len(t, r.Preview, 3)
	assert.Equal(t, 2, r.Securities)

	require.Len(t, r.Samples, 2)
	assert.Equal(t, 2, r.SampleTotal)
	assert.Equal(t, "A", r.Samples[0].Name)
	assert.Equal(t, 2.5, r.Samples[0].Actual)
	assert.Equal(t, 2.2, r.Samples[0].Heuristic)
	assert.Equal(t, 0.4, r.Samples[0].CSP)
	assert.Equal(t, "B", r.Samples[1].Name)
}

func TestBuildLimitsSamples(t *testing.T) {
	ds := builderDataset()
	r := NewReportBuilder(10, 1).Build(ds, models.RegressionSummary{}, outcomesFor(ds.Len()))
	assert.Len(t, r.Samples, 1)
	assert.Equal(t, 2, r.SampleTotal)
	assert.Len(t, r.Preview, 4)
}

func TestBuildNegativeSizes(t *testing.T) {
	ds := builderDataset()
	r := NewReportBuilder(-1, -5).Build(ds, models.RegressionSummary{}, outcomesFor(ds.Len()))
	assert.Empty(t, r.Preview)
	assert.Empty(t, r.Samples)
}

func TestSuccessMessage(t *testing.T) {
	tests := []struct {
		mae  float64
		want string
	}{
		{0, "Model Trained | MAE: 0.00"},
		{1.234, "Model Trained | MAE: 1.23"},
		{0.5, "Model Trained | MAE: 0.50"},
		{12.349, "Model Trained | MAE: 12.35"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SuccessMessage(tt.mae))
	}
}

func TestBuildChart(t *testing.T) {
	record := models.MAERecord{
		{Label: models.LabelLinearRegression, Value: 1},
		{Label: models.LabelHeuristic, Value: 2},
		{Label: models.LabelFOL, Value: 3},
		{Label: models.LabelCSP, Value: 4},
	}
	c := BuildChart(record)
	assert.Equal(t, "Model vs Heuristic MAE Comparison", c.Title)
	assert.Equal(t, "Mean Absolute Error", c.YLabel)
	colors := []string{"blue", "green", "orange", "red"}
	for i, b := range c.Bars {
		assert.Equal(t, colors[i], b.Color)
	}
	assert.Equal(t, 4.0, c.MaxValue())
}
