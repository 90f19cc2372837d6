package analytics

import (
	"math"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
)

const (
	// CSPColumn is the output column of the clamped-midpoint rule.
	CSPColumn = "CSP_prediction"

	cspLowerBound = 0.95
	cspUpperBound = 1.05
)

// CSPEstimator predicts the day's midpoint bounded to within 5% of open.
type CSPEstimator struct{}

func NewCSPEstimator() *CSPEstimator { return &CSPEstimator{} }

func (CSPEstimator) Label() string { return models.LabelCSP }

// Bounds returns the closed interval a prediction for o must fall in.
func (CSPEstimator) Bounds(o models.Observation) (lo, hi float64) {
	return o.Open * cspLowerBound, o.Open * cspUpperBound
}

// PredictRow applies the rule to one observation.
func (e CSPEstimator) PredictRow(o models.Observation) float64 {
	mid := (o.High + o.Low) / 2
	lo, hi := e.Bounds(o)
	return math.Min(math.Max(mid, lo), hi)
}

func (e CSPEstimator) Predict(ds models.Dataset) (models.Column, error) {
	col := models.NewColumn(CSPColumn, ds.Len())
	for i, r := range ds.Rows {
		col.Set(i, e.PredictRow(r))
	}
	return col, nil
}

var _ domsvc.Estimator = (*CSPEstimator)(nil)
