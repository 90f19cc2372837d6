package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableInput marks uploads the CSV reader could not tokenize at all.
	ErrUnreadableInput = errors.New("unreadable csv input")
	// ErrNoFile is returned when a request carries no upload.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUploadTooLarge is returned when the upload exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")
)

// MalformedInputError reports a missing column or an unparseable cell.
type MalformedInputError struct {
	Column string
	Line   int
	Value  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	switch {
	case e.Line > 0 && e.Value != "":
		return fmt.Sprintf("malformed input: column %q line %d: %s (%q)", e.Column, e.Line, e.Reason, e.Value)
	case e.Line > 0:
		return fmt.Sprintf("malformed input: column %q line %d: %s", e.Column, e.Line, e.Reason)
	case e.Column != "":
		return fmt.Sprintf("malformed input: column %q: %s", e.Column, e.Reason)
	default:
		return "malformed input: " + e.Reason
	}
}

// InsufficientDataError reports a stage that did not get enough rows.
type InsufficientDataError struct {
	Stage string
	Need  int
	Have  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need at least %d rows, have %d", e.Stage, e.Need, e.Have)
}

// IsMalformed reports whether err is or wraps a MalformedInputError.
func IsMalformed(err error) bool {
	var m *MalformedInputError
	return errors.As(err, &m)
}

// IsInsufficient reports whether err is or wraps an InsufficientDataError.
func IsInsufficient(err error) bool {
	var ie *InsufficientDataError
	return errors.As(err, &ie)
}
