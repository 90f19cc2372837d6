package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"StockPredict/internal/di"
	"StockPredict/internal/domain/models"
	"StockPredict/internal/handler/api"
	"StockPredict/internal/repository"
	"StockPredict/internal/services/analytics"
	"StockPredict/internal/usecase"
	"StockPredict/pkg/config"
	applogger "StockPredict/pkg/logger"
)

type reportOptions struct {
	seed      int64
	testRatio float64
	preview   int
	samples   int
	maxRows   int
	json      bool
	verbose   bool
}

// reportError carries the readable message of a failed run.
type reportError struct {
	msg string
	err error
}

func (e *reportError) Error() string { return e.msg }
func (e *reportError) Unwrap() error { return e.err }

func newReportCmd() *cobra.Command {
	defaults := config.Default().Pipeline
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report <file.csv>",
		Short: "Train the models on a CSV file and print the report",
		Long: `Train the models on a CSV file and print the report.

Use "-" to read the file from standard input.

Examples:
  predict report all_stocks_5yr.csv
  predict report prices.csv --seed 7 --test-ratio 0.2
  predict report prices.csv --json > report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().Int64Var(&opts.seed, "seed", defaults.Seed,
		"Random seed of the train/test split")
	cmd.Flags().Float64Var(&opts.testRatio, "test-ratio", defaults.TestRatio,
		"Share of rows held out for scoring, between 0 and 1")
	cmd.Flags().IntVar(&opts.preview, "preview", defaults.PreviewRows,
		"Raw data rows to show (0-100)")
	cmd.Flags().IntVar(&opts.samples, "samples", defaults.SampleRows,
		"Prediction rows to show (0-500)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", defaults.MaxRows,
		"Reject files with more usable rows than this (0 disables)")
	cmd.Flags().BoolVar(&opts.json, "json", false,
		"Output the report as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log pipeline stages to stderr")
	return cmd
}

func runReport(ctx context.Context, cmd *cobra.Command, path string, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.testRatio <= 0 || opts.testRatio >= 1 {
		return fmt.Errorf("--test-ratio must be between 0 and 1, got %v", opts.testRatio)
	}
	req := models.PredictRequest{PreviewRows: opts.preview, SampleRows: opts.samples}
	if err := validator.New().Struct(req); err != nil {
		return fmt.Errorf("invalid sizes: %w", err)
	}

	var in io.Reader
	if path == "-" {
		in = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	level := zerolog.ErrorLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	l := applogger.NewWriter(cmd.ErrOrStderr(), level)

	report, err := newPipeline(opts, l).Run(ctx, in, req)
	if err != nil {
		return &reportError{msg: api.UserMessage(api.MapError(err)), err: err}
	}

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), renderReport(report))
	return err
}

// newPipeline builds the same stages as the service, without cache or metrics.
func newPipeline(opts reportOptions, l *applogger.Logger) *usecase.PredictionPipeline {
	loader := repository.NewCSVLoader(opts.maxRows)
	loader.SetLogger(l)

	p := usecase.NewPredictionPipeline(
		loader,
		analytics.NewLinearRegressor(opts.seed, opts.testRatio),
		di.ProvideEstimators(),
		usecase.NewReportBuilder(opts.preview, opts.samples),
		usecase.PipelineConfig{},
	)
	p.SetLogger(l)
	return p
}
