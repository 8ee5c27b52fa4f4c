package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - these represent ingestion and query failures
var (
	// Input validation
	ErrEmptyInput        = errors.New("input table is empty")
	ErrMissingColumns    = errors.New("required columns are missing")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMalformedInput    = errors.New("input is not a readable table")
	ErrFileRequired      = errors.New("file is required")
	ErrInvalidFilter     = errors.New("invalid filter")

	// State
	ErrNoDataLoaded = errors.New("no dataset loaded")

	// Persistence
	ErrStore = errors.New("record store failure")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// MissingColumnsError lists every required column that could not be resolved
// from the input headers.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// NewMissingColumnsError builds the error for the given columns.
func NewMissingColumnsError(columns []string) *MissingColumnsError {
	return &MissingColumnsError{Columns: append([]string(nil), columns...)}
}

// StoreError wraps a persistence failure with the operation that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStore, e.Err}
}

// WrapStore tags err as a store failure. Nil stays nil.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewUnsupportedMediaError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "UNSUPPORTED_FORMAT",
		StatusCode: 415,
	}
}

func NewPayloadTooLargeError(err error, limit int64) *AppError {
	return &AppError{
		Err:        err,
		Message:    fmt.Sprintf("Upload exceeds the %d byte limit", limit),
		Code:       "PAYLOAD_TOO_LARGE",
		StatusCode: 413,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
