package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Pipeline stage error kinds. Every error leaving a stage wraps exactly one
// of these so the caller can classify it with errors.Is.
var (
	// ErrExtraction: the upload could not be parsed as a PDF (corrupt
	// stream, encrypted without password, zero pages).
	ErrExtraction = errors.New("pdf extraction failed")

	// ErrExtractionClient: the model call failed (missing credential,
	// provider unreachable, non-2xx, or a response that does not match the
	// record schema).
	ErrExtractionClient = errors.New("extraction client failed")

	// ErrRender: malformed row data reached the spreadsheet renderer.
	ErrRender = errors.New("spreadsheet render failed")

	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UserMessage flattens a pipeline error into the single human-readable
// string shown to the caller. Stage detail beyond the text is discarded.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtraction):
		return fmt.Sprintf("could not read the PDF: %v", err)
	case errors.Is(err, ErrExtractionClient):
		return fmt.Sprintf("extraction failed: %v", err)
	case errors.Is(err, ErrRender):
		return fmt.Sprintf("could not build the spreadsheet: %v", err)
	default:
		return fmt.Sprintf("an error occurred during processing: %v", err)
	}
}
