package service

import "StockPredict/internal/domain/models"

// Estimator produces one prediction column for a dataset.
type Estimator interface {
	Label() string
	Predict(ds models.Dataset) (models.Column, error)
}

// Regressor fits a model on a split of the dataset and scores it on the held-out rows.
type Regressor interface {
	Fit(ds models.Dataset) (models.RegressionResult, error)
	Seed() int64
	TestRatio() float64
}
