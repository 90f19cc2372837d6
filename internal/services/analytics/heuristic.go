package analytics

import (
	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/services/features"
)

const (
	// HeuristicColumn is the output column of the momentum rule.
	HeuristicColumn = "heuristic_prediction"

	heuristicUp   = 1.01
	heuristicDown = 0.99
)

// HeuristicEstimator predicts a 1% move up when the day opens above the previous
// close on above-average volume, and a 1% move down otherwise.
// Rows without a previous close in their security are left null.
type HeuristicEstimator struct{}

func NewHeuristicEstimator() *HeuristicEstimator { return &HeuristicEstimator{} }

func (HeuristicEstimator) Label() string { return models.LabelHeuristic }

// PredictRow applies the rule given the row's derived features.
func (HeuristicEstimator) PredictRow(o models.Observation, prevClose, avgVolume float64) float64 {
	if o.Open > prevClose && o.Volume > avgVolume {
		return o.Open * heuristicUp
	}
	return o.Open * heuristicDown
}

func (e HeuristicEstimator) Predict(ds models.Dataset) (models.Column, error) {
	prev := features.PrevClose(ds)
	avg := features.AvgVolume(ds)
	col := models.NewColumn(HeuristicColumn, ds.Len())
	for i, r := range ds.Rows {
		pc, ok := prev.At(i)
		if !ok {
			continue
		}
		av, _ := avg.At(i)
		col.Set(i, e.PredictRow(r, pc, av))
	}
	return col, nil
}

var _ domsvc.Estimator = (*HeuristicEstimator)(nil)
