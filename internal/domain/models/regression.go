package models

// FeatureNames are the regression inputs in design-matrix order.
var FeatureNames = []string{"open", "high", "low", "volume"}

// RegressionResult is the output of fitting the linear model.
type RegressionResult struct {
	Coefficients    []float64
	Intercept       float64
	TrainIndices    []int
	TestIndices     []int
	TestPredictions []float64
	Full            Column
	MAE             float64
}

// Summary converts the result into its reported form.
func (r RegressionResult) Summary(seed int64, testRatio float64) RegressionSummary {
	coefs := make(map[string]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		if i < len(r.Coefficients) {
			coefs[name] = r.Coefficients[i]
		}
	}
	return RegressionSummary{
		Coefficients: coefs,
		Intercept:    r.Intercept,
		TrainRows:    len(r.TrainIndices),
		TestRows:     len(r.TestIndices),
		Seed:         seed,
		TestRatio:    testRatio,
		MAE:          r.MAE,
	}
}
