package repository

import (
	"context"
	"io"
	"time"

	"StockPredict/internal/domain/models"
)

// DatasetLoader turns an uploaded file into a Dataset.
type DatasetLoader interface {
	Load(ctx context.Context, r io.Reader) (models.Dataset, error)
}

// ReportCache stores encoded reports keyed by upload fingerprint.
type ReportCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Metrics records pipeline outcomes.
type Metrics interface {
	RecordRun(outcome string)
	RecordError(kind string)
	RecordStage(stage string, seconds float64)
	RecordMAE(strategy string, value float64)
	RecordRows(rows int)
	RecordCacheLookup(hit bool)
}
