package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"StockPredict/internal/domain/models"
)

// MeanAbsoluteError is mean(|actual - predicted|) over equally sized slices.
// It returns false when there is nothing to score.
func MeanAbsoluteError(actual, predicted []float64) (float64, bool) {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0, false
	}
	diffs := make([]float64, len(actual))
	floats.SubTo(diffs, actual, predicted)
	for i, d := range diffs {
		diffs[i] = math.Abs(d)
	}
	return floats.Sum(diffs) / float64(len(diffs)), true
}

// AlignedMAE scores a prediction column against the actual column, using only rows
// where both sides are present at the same index.
func AlignedMAE(actual, predicted models.Column) (float64, int) {
	n := actual.Len()
	if predicted.Len() < n {
		n = predicted.Len()
	}
	a := make([]float64, 0, n)
	p := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		av, ok1 := actual.At(i)
		pv, ok2 := predicted.At(i)
		if !ok1 || !ok2 {
			continue
		}
		a = append(a, av)
		p = append(p, pv)
	}
	mae, ok := MeanAbsoluteError(a, p)
	if !ok {
		return 0, 0
	}
	return mae, len(a)
}

// ScoreColumn computes the aligned MAE of a strategy column against close prices.
func ScoreColumn(ds models.Dataset, stage string, col models.Column) (float64, error) {
	mae, n := AlignedMAE(models.DenseColumn("close", ds.Closes()), col)
	if n == 0 {
		return 0, &models.InsufficientDataError{Stage: stage, Need: 1, Have: 0}
	}
	return mae, nil
}
