//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"StockPredict/pkg/config"
	"StockPredict/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,

		// Pipeline stages
		ProvideDatasetLoader,
		ProvideRegressor,
		ProvideEstimators,
		ProvideReportBuilder,
		ProvideReportCache,
		ProvidePredictionPipeline,

		// Transport
		ProvideRenderer,
		ProvidePredictHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
