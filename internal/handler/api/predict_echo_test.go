package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPredict/internal/domain/models"
	domsvc "StockPredict/internal/domain/service"
	"StockPredict/internal/repository"
	"StockPredict/internal/services/analytics"
	"StockPredict/internal/usecase"
)

const sampleCSV = `date,open,high,low,close,volume,Name
2024-01-02,10,11,9,10.5,100,AAA
2024-01-03,10.6,11.2,10.1,10.9,300,AAA
2024-01-04,10.9,11.5,10.4,11.2,150,AAA
2024-01-05,11.1,11.8,10.8,11.6,250,AAA
2024-01-02,50,52,49,51,1000,BBB
2024-01-03,51.5,53,50.5,52.4,1500,BBB
2024-01-04,52,52.5,50,50.8,900,BBB
2024-01-05,50.5,51.5,49.5,51.2,1200,BBB
`

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, maxUpload int64) *echo.Echo {
	t.Helper()
	pipeline := usecase.NewPredictionPipeline(
		repository.NewCSVLoader(0),
		analytics.NewLinearRegressor(0, analytics.DefaultTestRatio),
		[]domsvc.Estimator{
			analytics.NewHeuristicEstimator(),
			analytics.NewFOLEstimator(),
			analytics.NewCSPEstimator(),
		},
		usecase.NewReportBuilder(10, 20),
		usecase.PipelineConfig{MaxUploadBytes: maxUpload},
	)
	renderer, err := NewTemplateRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	NewPredictEchoHandler(nil, pipeline, maxUpload).RegisterRoutes(e)
	return e
}

func multipartBody(t *testing.T, fields map[string]string, file *string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", "prices.csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(*file))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func post(t *testing.T, e *echo.Echo, target string, fields map[string]string, file *string) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartBody(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func ptr(s string) *string { return &s }

func TestIndexShowsAdvisory(t *testing.T) {
	e := newTestServer(t, 0)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), AdvisoryMessage)
	assert.Contains(t, rec.Body.String(), `enctype="multipart/form-data"`)
}

func TestPredictReturnsReport(t *testing.T) {
	e := newTestServer(t, 1<<20)
	rec := post(t, e, "/api/predict", nil, ptr(sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var report models.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 8, report.Rows)
	require.Len(t, report.MAE, 4)
	assert.Equal(t, models.LabelLinearRegression, report.MAE[0].Label)
	assert.Equal(t, models.LabelCSP, report.MAE[3].Label)
	assert.Len(t, report.Preview, 8)
	assert.Len(t, report.Samples, 6)
	assert.True(t, strings.HasPrefix(report.Message, "Model Trained | MAE: "))
}

func TestPredictHonorsSizes(t *testing.T) {
	e := newTestServer(t, 0)
	rec := post(t, e, "/api/predict?preview_rows=0", map[string]string{"sample_rows": "2"}, ptr(sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var report models.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Empty(t, report.Preview)
	assert.Len(t, report.Samples, 2)
}

func TestPredictErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		file   *string
		max    int64
		status int
		code   string
	}{
		{
			name:   "no file",
			status: http.StatusBadRequest,
			code:   CodeNoFile,
		},
		{
			name:   "header only",
			file:   ptr("date,open,high,low,close,volume,name\n"),
			status: http.StatusUnprocessableEntity,
			code:   CodeInsufficientData,
		},
		{
			name:   "missing column",
			file:   ptr("date,open,high,low,close,name\n2024-01-02,1,2,0.5,1.5,A\n"),
			status: http.StatusBadRequest,
			code:   CodeMalformedInput,
		},
		{
			name:   "bad date",
			file:   ptr("date,open,high,low,close,volume,name\nsoon,1,2,0.5,1.5,10,A\n"),
			status: http.StatusBadRequest,
			code:   CodeMalformedInput,
		},
		{
			name:   "empty file",
			file:   ptr(""),
			status: http.StatusBadRequest,
			code:   CodeUnreadableInput,
		},
		{
			name:   "too large",
			file:   ptr(sampleCSV),
			max:    64,
			status: http.StatusRequestEntityTooLarge,
			code:   "ERR_PAYLOAD_TOO_LARGE",
		},
		{
			name:   "preview out of range",
			fields: map[string]string{"preview_rows": "500"},
			file:   ptr(sampleCSV),
			status: http.StatusBadRequest,
			code:   "ERR_LTE",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(t, tt.max)
			rec := post(t, e, "/api/predict", tt.fields, tt.file)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestPredictNoFileCarriesAdvisory(t *testing.T) {
	e := newTestServer(t, 0)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/predict", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), AdvisoryMessage)
}

func TestUploadRendersReportPage(t *testing.T) {
	e := newTestServer(t, 0)
	rec := post(t, e, "/", nil, ptr(sampleCSV))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Raw Data")
	assert.Contains(t, body, "Model Trained | MAE: ")
	assert.Contains(t, body, "Model vs Heuristic MAE Comparison")
	assert.Contains(t, body, "Mean Absolute Error")
	for _, label := range models.StrategyLabels {
		assert.Contains(t, body, label)
	}
	assert.Contains(t, body, "Sample Predictions")
	assert.Contains(t, body, "<polyline")
	assert.NotContains(t, body, AdvisoryMessage)
}

func TestUploadWithoutFileShowsAdvisory(t *testing.T) {
	e := newTestServer(t, 0)
	rec := post(t, e, "/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), AdvisoryMessage)
	assert.NotContains(t, rec.Body.String(), "Model Trained")
}

func TestUploadShowsReadableError(t *testing.T) {
	e := newTestServer(t, 0)
	rec := post(t, e, "/", nil, ptr("date,open,high,low,close,volume,name\nsoon,1,2,0.5,1.5,10,A\n"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The file is malformed: not a calendar date.")
	assert.Contains(t, body, "Line: 2.")
	assert.NotContains(t, body, "goroutine")
}

func TestLinePoints(t *testing.T) {
	samples := []models.SampleRow{
		{Actual: 1, LinearRegression: 1, Heuristic: 1, FOL: 1, CSP: 1},
		{Actual: 3, LinearRegression: 3, Heuristic: 3, FOL: 3, CSP: 3},
	}
	assert.Equal(t, "24.0,216.0 616.0,24.0", linePoints(samples, "actual"))
	assert.Empty(t, linePoints(nil, "actual"))
}

func TestBarPct(t *testing.T) {
	assert.Equal(t, "50.0", barPct(1, 2))
	assert.Equal(t, "0", barPct(1, 0))
}
