package analytics

import (
	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
)

// FOLColumn is the output column of the midpoint-or-open rule.
const FOLColumn = "FOL_prediction"

// FOLEstimator predicts the day's midpoint when open lies strictly inside the
// high/low range, and open itself otherwise.
type FOLEstimator struct{}

func NewFOLEstimator() *FOLEstimator { return &FOLEstimator{} }

func (FOLEstimator) Label() string { return models.LabelFOL }

// PredictRow applies the rule to one observation.
func (FOLEstimator) PredictRow(o models.Observation) float64 {
	if o.High > o.Open && o.Low < o.Open {
		return (o.High + o.Low) / 2
	}
	return o.Open
}

func (e FOLEstimator) Predict(ds models.Dataset) (models.Column, error) {
	col := models.NewColumn(FOLColumn, ds.Len())
	for i, r := range ds.Rows {
		col.Set(i, e.PredictRow(r))
	}
	return col, nil
}

var _ domsvc.Estimator = (*FOLEstimator)(nil)
