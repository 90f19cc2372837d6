package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"StockPredict/internal/domain/models"
	xhttp "StockPredict/pkg/http"
)

// AdvisoryMessage is shown when nothing has been uploaded yet.
const AdvisoryMessage = "Please upload a stock CSV file to get started."

// Error codes returned by the prediction endpoints.
const (
	CodeNoFile           = "ERR_NO_FILE"
	CodeMalformedInput   = "ERR_MALFORMED_INPUT"
	CodeInsufficientData = "ERR_INSUFFICIENT_DATA"
	CodeUnreadableInput  = "ERR_UNREADABLE_INPUT"
	CodeCanceled         = "ERR_CANCELED"
)

// MapError translates pipeline errors into user-readable AppErrors.
func MapError(err error) *xhttp.AppError {
	var (
		mal *models.MalformedInputError
		ins *models.InsufficientDataError
	)
	switch {
	case errors.Is(err, models.ErrNoFile):
		return xhttp.NewAppError(CodeNoFile, "file", AdvisoryMessage, http.StatusBadRequest)

	case errors.Is(err, models.ErrUploadTooLarge):
		return xhttp.PayloadTooLargeError("The uploaded file is too large.").WithError(err)

	case errors.Is(err, models.ErrUnreadableInput):
		return xhttp.NewAppError(CodeUnreadableInput, "file",
			"The file could not be read as CSV. Check that it is a comma-separated file with a header row.",
			http.StatusBadRequest).WithError(err)

	case errors.As(err, &mal):
		e := xhttp.NewAppError(CodeMalformedInput, mal.Column,
			"The file is malformed: "+mal.Reason+".", http.StatusBadRequest).WithError(err)
		if mal.Line > 0 {
			e.WithParam("line", mal.Line)
		}
		if mal.Value != "" {
			e.WithParam("value", mal.Value)
		}
		return e

	case errors.As(err, &ins):
		return xhttp.UnprocessableError(CodeInsufficientData,
			"Not enough usable rows to train and score the models.").
			WithParam("stage", ins.Stage).
			WithParam("need", ins.Need).
			WithParam("have", ins.Have).
			WithError(err)

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return xhttp.NewAppError(CodeCanceled, "", "The request was canceled.", http.StatusRequestTimeout).WithError(err)

	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}

// UserMessage is the single line shown in the page's message slot.
func UserMessage(e *xhttp.AppError) string {
	msg := e.Message
	if e.Field != "" && e.Code == CodeMalformedInput {
		msg += " Column: " + e.Field + "."
	}
	if line, ok := e.Params["line"].(int); ok {
		msg += fmt.Sprintf(" Line: %d.", line)
	}
	if need, ok := e.Params["need"].(int); ok {
		msg += fmt.Sprintf(" Need at least %d rows, have %d.", need, e.Params["have"])
	}
	return msg
}
