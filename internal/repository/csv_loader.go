package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"StockPredict/internal/domain/models"
	domrepo "StockPredict/internal/domain/repository"
	applogger "StockPredict/pkg/logger"
	"StockPredict/pkg/util"
)

// Required columns, matched case-insensitively against the header.
const (
	ColDate   = "date"
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
	ColName   = "name"
)

var requiredColumns = []string{ColDate, ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColName}

// NAValues are cell contents treated as missing.
var NAValues = []string{"", "NA", "NaN", "nan", "N/A", "n/a", "null", "NULL", "None", "<nil>"}

// CSVLoader implements DatasetLoader for comma-separated uploads.
type CSVLoader struct {
	maxRows int
	l       *applogger.Logger
}

// NewCSVLoader creates a loader; maxRows <= 0 disables the row guard.
func NewCSVLoader(maxRows int) *CSVLoader {
	return &CSVLoader{maxRows: maxRows}
}

// SetLogger injects a structured logger.
func (s *CSVLoader) SetLogger(l *applogger.Logger) { s.l = l }

// Load parses the upload, coerces dates and drops rows with missing required values.
func (s *CSVLoader) Load(ctx context.Context, r io.Reader) (models.Dataset, error) {
	start := time.Now()

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return models.Dataset{}, fmt.Errorf("%w: %v", models.ErrUnreadableInput, err)
	}
	if len(records) == 0 {
		return models.Dataset{}, fmt.Errorf("%w: file has no header", models.ErrUnreadableInput)
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")

	// Header only: validate columns and return an empty dataset.
	if len(records) == 1 {
		if _, err := mapColumns(records[0]); err != nil {
			return models.Dataset{}, err
		}
		return models.Dataset{}, nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(NAValues),
	)
	if df.Err != nil {
		return models.Dataset{}, fmt.Errorf("%w: %v", models.ErrUnreadableInput, df.Err)
	}

	cols, err := mapColumns(df.Names())
	if err != nil {
		return models.Dataset{}, err
	}

	values := make(map[string][]string, len(requiredColumns))
	missing := make(map[string][]bool, len(requiredColumns))
	for _, c := range requiredColumns {
		ser := df.Col(cols[c])
		if ser.Err != nil {
			return models.Dataset{}, &models.MalformedInputError{Column: c, Reason: ser.Err.Error()}
		}
		values[c] = ser.Records()
		missing[c] = ser.IsNaN()
	}

	n := df.Nrow()
	ds := models.Dataset{Rows: make([]models.Observation, 0, n)}
	for i := 0; i < n; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return models.Dataset{}, err
			}
		}
		line := i + 2

		if rowHasMissing(missing, i) {
			ds.DroppedRows++
			continue
		}

		obs, err := parseRow(values, i, line)
		if err != nil {
			return models.Dataset{}, err
		}
		if s.maxRows > 0 && len(ds.Rows) >= s.maxRows {
			return models.Dataset{}, &models.MalformedInputError{
				Reason: fmt.Sprintf("more than %d rows", s.maxRows),
			}
		}
		ds.Rows = append(ds.Rows, obs)
	}

	if s.l != nil {
		s.l.Info("csv dataset loaded",
			applogger.Int("rows", ds.Len()),
			applogger.Int("dropped", ds.DroppedRows),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return ds, nil
}

// mapColumns resolves each required column to its header spelling.
func mapColumns(header []string) (map[string]string, error) {
	byKey := make(map[string]string, len(header))
	for _, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := byKey[key]; !dup {
			byKey[key] = h
		}
	}
	out := make(map[string]string, len(requiredColumns))
	var absent []string
	for _, c := range requiredColumns {
		h, ok := byKey[c]
		if !ok {
			absent = append(absent, c)
			continue
		}
		out[c] = h
	}
	if len(absent) > 0 {
		return nil, &models.MalformedInputError{
			Column: strings.Join(absent, ","),
			Reason: "required column missing",
		}
	}
	return out, nil
}

func rowHasMissing(missing map[string][]bool, i int) bool {
	for _, c := range requiredColumns {
		if missing[c][i] {
			return true
		}
	}
	return false
}

func parseRow(values map[string][]string, i, line int) (models.Observation, error) {
	obs := models.Observation{
		Name: strings.TrimSpace(values[ColName][i]),
		Line: line,
	}

	raw := values[ColDate][i]
	d, ok := util.ParseDate(raw)
	if !ok {
		return obs, &models.MalformedInputError{Column: ColDate, Line: line, Value: raw, Reason: "not a calendar date"}
	}
	obs.Date = d

	targets := []struct {
		col string
		dst *float64
	}{
		{ColOpen, &obs.Open},
		{ColHigh, &obs.High},
		{ColLow, &obs.Low},
		{ColClose, &obs.Close},
		{ColVolume, &obs.Volume},
	}
	for _, t := range targets {
		raw := values[t.col][i]
		v, ok := util.ParseFloat(raw)
		if !ok {
			return obs, &models.MalformedInputError{Column: t.col, Line: line, Value: raw, Reason: "not a number"}
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return obs, &models.MalformedInputError{Column: t.col, Line: line, Value: raw, Reason: "not a finite number"}
		}
		*t.dst = v
	}
	return obs, nil
}

// IsUnreadable reports whether err came from CSV tokenizing.
func IsUnreadable(err error) bool { return errors.Is(err, models.ErrUnreadableInput) }

var _ domrepo.DatasetLoader = (*CSVLoader)(nil)
