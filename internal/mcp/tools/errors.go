package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/usestring/harkit/internal/archive"
	"github.com/usestring/harkit/pkg/wire"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeLoadError    = "LOAD_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapArchiveError converts an error from loading or writing an archive to a
// coded error.
func WrapArchiveError(path string, err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var fieldErr *wire.FieldError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		coded = &CodedError{Code: ErrCodeNotFound, Message: fmt.Sprintf("archive not found: %s", path), Cause: err}
	case errors.Is(err, archive.ErrOutsideRoot):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("path escapes the archive root: %s", path), Cause: err}
	case errors.As(err, &fieldErr):
		coded = &CodedError{Code: ErrCodeLoadError, Message: fmt.Sprintf("%s is not a valid HAR document", path), Cause: err}
	case errors.As(err, &syntaxErr):
		coded = &CodedError{Code: ErrCodeLoadError, Message: fmt.Sprintf("%s is not valid JSON", path), Cause: err}
	default:
		coded = &CodedError{Code: ErrCodeLoadError, Message: err.Error(), Cause: err}
	}

	slog.Warn("archive error",
		slog.String("code", coded.Code),
		slog.String("path", path),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
