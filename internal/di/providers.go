package di

import (
	"fmt"
	"time"

	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/handler/api"
	"StockPredict/internal/repository"
	"StockPredict/internal/services/analytics"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/cache"
	"StockPredict/pkg/config"
	xhttp "StockPredict/pkg/http"
	"StockPredict/pkg/http/middleware"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/metrics"
	"StockPredict/pkg/server"
)

const (
	// limiterIdle is how long a client bucket survives without requests.
	limiterIdle = 10 * time.Minute

	redisPingTimeout = 2 * time.Second
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideDatasetLoader creates the CSV loader.
func ProvideDatasetLoader(cfg *config.Config, l *applogger.Logger) *repository.CSVLoader {
	loader := repository.NewCSVLoader(cfg.Pipeline.MaxRows)
	loader.SetLogger(l)
	return loader
}

// ProvideRegressor creates the seeded linear regressor.
func ProvideRegressor(cfg *config.Config) *analytics.LinearRegressor {
	return analytics.NewLinearRegressor(cfg.Pipeline.Seed, cfg.Pipeline.TestRatio)
}

// ProvideEstimators lists the rule estimators in report order.
func ProvideEstimators() []domsvc.Estimator {
	return []domsvc.Estimator{
		analytics.NewHeuristicEstimator(),
		analytics.NewFOLEstimator(),
		analytics.NewCSPEstimator(),
	}
}

// ProvideReportBuilder creates the report assembler with the configured table sizes.
func ProvideReportBuilder(cfg *config.Config) *usecase.ReportBuilder {
	return usecase.NewReportBuilder(cfg.Pipeline.PreviewRows, cfg.Pipeline.SampleRows)
}

// ProvideReportCache creates the configured report cache, or nil when caching is off.
// An unreachable Redis falls back to the memory backend.
func ProvideReportCache(cfg *config.Config, l *applogger.Logger) cache.BytesCache {
	if !cfg.Cache.Enabled {
		return nil
	}
	mem := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.Memory.MaxEntries),
		cache.WithMemoryCleanup(time.Minute),
	}
	rds := []cache.RedisOption{
		cache.WithRedisAddr(cfg.Cache.Redis.Addr),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
		cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		cache.WithRedisPingTimeout(redisPingTimeout),
	}

	c, err := cache.New(cfg.Cache.Backend, mem, rds)
	if err != nil {
		l.Warn("report cache unavailable, using memory",
			applogger.String("backend", cfg.Cache.Backend),
			applogger.Error(err),
		)
		return cache.NewMemoryCache(mem...)
	}
	l.Info("report cache ready", applogger.String("backend", cfg.Cache.Backend))
	return c
}

// ProvidePredictionPipeline wires the pipeline stages together.
func ProvidePredictionPipeline(
	cfg *config.Config,
	loader *repository.CSVLoader,
	regressor *analytics.LinearRegressor,
	estimators []domsvc.Estimator,
	builder *usecase.ReportBuilder,
	reportCache cache.BytesCache,
	recorder *metrics.Recorder,
	l *applogger.Logger,
) *usecase.PredictionPipeline {
	p := usecase.NewPredictionPipeline(loader, regressor, estimators, builder, usecase.PipelineConfig{
		MaxUploadBytes: cfg.Pipeline.MaxUploadBytes,
		CacheTTL:       cfg.Cache.TTL,
	})
	p.SetLogger(l)
	p.SetMetrics(recorder)
	if reportCache != nil {
		p.SetCache(reportCache)
	}
	return p
}

// ProvideRenderer parses the embedded HTML templates.
func ProvideRenderer() (*api.TemplateRenderer, error) {
	return api.NewTemplateRenderer()
}

// ProvidePredictHandler creates the upload page and JSON API handler.
func ProvidePredictHandler(cfg *config.Config, l *applogger.Logger, p *usecase.PredictionPipeline) *api.PredictEchoHandler {
	return api.NewPredictEchoHandler(l, p, cfg.Pipeline.MaxUploadBytes)
}

// ProvideHTTPServer creates the echo server from the server, metrics and rate_limit sections.
func ProvideHTTPServer(
	cfg *config.Config,
	h *api.PredictEchoHandler,
	r *api.TemplateRenderer,
	l *applogger.Logger,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS.Enabled, cfg.Server.CORS.AllowedOrigins...),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Metrics.Path),
		xhttp.WithRenderer(r),
		xhttp.WithLogger(l),
	}
	if cfg.RateLimit.Enabled {
		opts = append(opts, xhttp.WithRateLimit(
			middleware.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, limiterIdle),
		))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(srv *xhttp.Server, reportCache cache.BytesCache, l *applogger.Logger) *server.App {
	return server.New(srv, reportCache, l)
}
