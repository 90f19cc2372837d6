package api

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"StockPredict/internal/domain/models"
	xhttp "StockPredict/pkg/http"
	xlogger "StockPredict/pkg/logger"
)

const (
	formFileField = "file"
	indexTemplate = "index.html"

	// multipart bookkeeping allowed on top of the file itself
	formOverheadBytes = 1 << 20
)

// Predictor runs the prediction pipeline on one upload.
type Predictor interface {
	Run(ctx context.Context, upload io.Reader, req models.PredictRequest) (*models.Report, error)
}

// PredictEchoHandler serves the upload page and the JSON prediction API.
type PredictEchoHandler struct {
	logger         *xlogger.Logger
	predictor      Predictor
	maxUploadBytes int64
}

func NewPredictEchoHandler(logger *xlogger.Logger, predictor Predictor, maxUploadBytes int64) *PredictEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PredictEchoHandler{logger: logger, predictor: predictor, maxUploadBytes: maxUploadBytes}
}

func (h *PredictEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/", h.Upload)

	g := e.Group("/api")
	g.POST("/predict", h.Predict)
}

// page is the view model of index.html.
type page struct {
	Message string
	Level   string // info, error or success
	Report  *models.Report
}

// Index renders the empty upload page.
func (h *PredictEchoHandler) Index(c echo.Context) error {
	return c.Render(http.StatusOK, indexTemplate, page{Message: AdvisoryMessage, Level: "info"})
}

// Upload runs the pipeline on a form upload and renders the report page.
func (h *PredictEchoHandler) Upload(c echo.Context) error {
	req := &models.PredictRequest{}
	file, verr, err := h.readUpload(c, req)
	if verr != nil {
		return c.Render(http.StatusBadRequest, indexTemplate, page{Message: "Invalid request options.", Level: "error"})
	}
	if err == nil {
		defer file.Close()
		var report *models.Report
		report, err = h.predictor.Run(c.Request().Context(), file, *req)
		if err == nil {
			return c.Render(http.StatusOK, indexTemplate, page{Report: report})
		}
	}

	appErr := h.fail(c, err)
	level := "error"
	if errors.Is(err, models.ErrNoFile) {
		level = "info"
	}
	return c.Render(appErr.Status, indexTemplate, page{Message: UserMessage(appErr), Level: level})
}

// Predict runs the pipeline and returns the report as JSON.
func (h *PredictEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	file, verr, err := h.readUpload(c, req)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err != nil {
		return xhttp.AppErrorResponse(c, h.fail(c, err))
	}
	defer file.Close()

	report, err := h.predictor.Run(c.Request().Context(), file, *req)
	if err != nil {
		return xhttp.AppErrorResponse(c, h.fail(c, err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, report)
}

// readUpload caps the body, parses the form, binds the options and opens the file.
// verr carries request validation errors; err carries upload errors.
func (h *PredictEchoHandler) readUpload(c echo.Context, req *models.PredictRequest) (multipart.File, interface{}, error) {
	r := c.Request()
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(c.Response(), r.Body, h.maxUploadBytes+formOverheadBytes)
	}

	if err := r.ParseMultipartForm(formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, nil, models.ErrUploadTooLarge
		case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
			return nil, nil, models.ErrNoFile
		default:
			return nil, nil, errors.Join(models.ErrUnreadableInput, err)
		}
	}

	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return nil, verr, nil
	}

	fh, err := c.FormFile(formFileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, models.ErrNoFile
		}
		return nil, nil, errors.Join(models.ErrUnreadableInput, err)
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return nil, nil, models.ErrUploadTooLarge
	}
	file, err := fh.Open()
	if err != nil {
		return nil, nil, errors.Join(models.ErrUnreadableInput, err)
	}
	return file, nil, nil
}

func (h *PredictEchoHandler) fail(c echo.Context, err error) *xhttp.AppError {
	appErr := MapError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error("prediction failed", xlogger.Error(err), xlogger.String("path", c.Path()))
	} else {
		h.logger.Debug("prediction rejected",
			xlogger.String("code", appErr.Code),
			xlogger.Error(err),
		)
	}
	return appErr
}

var _ xhttp.Handler = (*PredictEchoHandler)(nil)
