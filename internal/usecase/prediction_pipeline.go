package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"StockPredict/internal/domain/models"
	domrepo "StockPredict/internal/domain/repository"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/services/analytics"
	"StockPredict/pkg/cache"
	applogger "StockPredict/pkg/logger"
)

// Stage names used for timing and error attribution.
const (
	StageRead    = "read"
	StageLoad    = "load"
	StageRegress = "regression"
	StageReport  = "report"
)

// Run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeCached  = "cached"
	OutcomeFailure = "failure"
)

// PipelineConfig holds the per-run limits and cache policy.
type PipelineConfig struct {
	MaxUploadBytes int64
	CacheTTL       time.Duration
}

// PredictionPipeline runs load, regression, the rule estimators and report assembly once per upload.
type PredictionPipeline struct {
	loader     domrepo.DatasetLoader
	regressor  domsvc.Regressor
	estimators []domsvc.Estimator
	builder    *ReportBuilder
	cache      domrepo.ReportCache
	metrics    domrepo.Metrics
	cfg        PipelineConfig
	l          *applogger.Logger

	now   func() time.Time
	newID func() string
}

func NewPredictionPipeline(
	loader domrepo.DatasetLoader,
	regressor domsvc.Regressor,
	estimators []domsvc.Estimator,
	builder *ReportBuilder,
	cfg PipelineConfig,
) *PredictionPipeline {
	return &PredictionPipeline{
		loader:     loader,
		regressor:  regressor,
		estimators: estimators,
		builder:    builder,
		cfg:        cfg,
		l:          applogger.Nop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// SetLogger injects a structured logger.
func (p *PredictionPipeline) SetLogger(l *applogger.Logger) {
	if l != nil {
		p.l = l
	}
}

// SetCache enables report caching; nil disables it.
func (p *PredictionPipeline) SetCache(c domrepo.ReportCache) { p.cache = c }

// SetMetrics injects a metrics recorder; nil disables recording.
func (p *PredictionPipeline) SetMetrics(m domrepo.Metrics) { p.metrics = m }

// Run executes the full pipeline on one upload.
func (p *PredictionPipeline) Run(ctx context.Context, upload io.Reader, req models.PredictRequest) (*models.Report, error) {
	start := p.now()
	runID := p.newID()
	l := p.l.With(applogger.String("run_id", runID))

	report, cached, err := p.run(ctx, upload, req, l)
	if err != nil {
		kind := ErrorKind(err)
		p.recordError(kind)
		p.recordRun(OutcomeFailure)
		l.Warn("prediction run failed",
			applogger.String("kind", kind),
			applogger.Error(err),
			applogger.Duration("duration_ms", p.now().Sub(start)),
		)
		return nil, err
	}

	report.RunID = runID
	report.GeneratedAt = p.now().UTC()
	report.Cached = cached

	outcome := OutcomeSuccess
	if cached {
		outcome = OutcomeCached
	}
	p.recordRun(outcome)
	l.Info("prediction run finished",
		applogger.String("outcome", outcome),
		applogger.Int("rows", report.Rows),
		applogger.Int("dropped", report.DroppedRows),
		applogger.Int("securities", report.Securities),
		applogger.Float64("regression_mae", report.Regression.MAE),
		applogger.Duration("duration_ms", p.now().Sub(start)),
	)
	return report, nil
}

func (p *PredictionPipeline) run(ctx context.Context, upload io.Reader, req models.PredictRequest, l *applogger.Logger) (*models.Report, bool, error) {
	if upload == nil {
		return nil, false, models.ErrNoFile
	}

	var data []byte
	if err := p.stage(StageRead, func() error {
		var err error
		data, err = p.readUpload(upload)
		return err
	}); err != nil {
		return nil, false, err
	}

	key := p.cacheKey(data, req)
	if report, ok := p.lookup(ctx, key, l); ok {
		return report, true, nil
	}

	var ds models.Dataset
	if err := p.stage(StageLoad, func() error {
		var err error
		ds, err = p.loader.Load(ctx, bytes.NewReader(data))
		return err
	}); err != nil {
		return nil, false, fmt.Errorf("load dataset: %w", err)
	}
	if p.metrics != nil {
		p.metrics.RecordRows(ds.Len())
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var reg models.RegressionResult
	if err := p.stage(StageRegress, func() error {
		var err error
		reg, err = p.regressor.Fit(ds)
		return err
	}); err != nil {
		return nil, false, fmt.Errorf("fit regression: %w", err)
	}

	outcomes := make([]StrategyOutcome, 0, len(p.estimators)+1)
	outcomes = append(outcomes, StrategyOutcome{Label: models.LabelLinearRegression, Column: reg.Full, MAE: reg.MAE})

	var notes []string
	for _, est := range p.estimators {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		var (
			out    StrategyOutcome
			scored = true
		)
		if err := p.stage(est.Label(), func() error {
			col, err := est.Predict(ds)
			if err != nil {
				return err
			}
			mae, err := analytics.ScoreColumn(ds, est.Label(), col)
			if models.IsInsufficient(err) {
				scored = false
				return nil
			}
			if err != nil {
				return err
			}
			out = StrategyOutcome{Label: est.Label(), Column: col, MAE: mae}
			return nil
		}); err != nil {
			return nil, false, fmt.Errorf("%s: %w", est.Label(), err)
		}
		if !scored {
			l.Info("strategy has no scorable rows", applogger.String("strategy", est.Label()))
			notes = append(notes, UnavailableNote(est.Label()))
			continue
		}
		outcomes = append(outcomes, out)
	}

	buildStart := p.now()
	summary := reg.Summary(p.regressor.Seed(), p.regressor.TestRatio())
	report := p.builder.WithSizes(req.PreviewRows, req.SampleRows).Build(ds, summary, outcomes)
	report.Notes = notes
	if p.metrics != nil {
		p.metrics.RecordStage(StageReport, p.now().Sub(buildStart).Seconds())
		for _, e := range report.MAE {
			p.metrics.RecordMAE(e.Label, e.Value)
		}
	}

	p.store(ctx, key, &report, l)
	return &report, false, nil
}

func (p *PredictionPipeline) readUpload(r io.Reader) ([]byte, error) {
	if p.cfg.MaxUploadBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, p.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > p.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", models.ErrUploadTooLarge, p.cfg.MaxUploadBytes)
	}
	return data, nil
}

func (p *PredictionPipeline) stage(name string, fn func() error) error {
	start := p.now()
	err := fn()
	if p.metrics != nil {
		p.metrics.RecordStage(name, p.now().Sub(start).Seconds())
	}
	return err
}

// cacheKey covers every input that changes the report body.
func (p *PredictionPipeline) cacheKey(data []byte, req models.PredictRequest) string {
	return cache.GenerateKeyWithParams(cache.HashKey(data),
		p.regressor.Seed(), p.regressor.TestRatio(), req.PreviewRows, req.SampleRows)
}

func (p *PredictionPipeline) lookup(ctx context.Context, key string, l *applogger.Logger) (*models.Report, bool) {
	if p.cache == nil {
		return nil, false
	}
	b, ok, err := p.cache.GetBytes(ctx, key)
	if err != nil {
		l.Warn("report cache lookup failed", applogger.Error(err))
		p.recordError("cache")
		return nil, false
	}
	if p.metrics != nil {
		p.metrics.RecordCacheLookup(ok)
	}
	if !ok {
		return nil, false
	}
	var report models.Report
	if err := json.Unmarshal(b, &report); err != nil {
		l.Warn("report cache entry unreadable", applogger.Error(err))
		return nil, false
	}
	return &report, true
}

func (p *PredictionPipeline) store(ctx context.Context, key string, report *models.Report, l *applogger.Logger) {
	if p.cache == nil {
		return
	}
	b, err := json.Marshal(report)
	if err != nil {
		l.Warn("report encode failed", applogger.Error(err))
		return
	}
	if err := p.cache.SetBytes(ctx, key, b, p.cfg.CacheTTL); err != nil {
		l.Warn("report cache store failed", applogger.Error(err))
		p.recordError("cache")
	}
}

func (p *PredictionPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

func (p *PredictionPipeline) recordRun(outcome string) {
	if p.metrics != nil {
		p.metrics.RecordRun(outcome)
	}
}

// ErrorKind classifies a pipeline error for metrics and transport mapping.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrNoFile):
		return "no_file"
	case errors.Is(err, models.ErrUploadTooLarge):
		return "upload_too_large"
	case errors.Is(err, models.ErrUnreadableInput):
		return "unreadable_input"
	case models.IsMalformed(err):
		return "malformed_input"
	case models.IsInsufficient(err):
		return "insufficient_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
