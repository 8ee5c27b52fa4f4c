package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// ErrorResponse is the standard JSON error response format
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse includes field-level validation errors
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Code   string              `json:"code"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// ErrorHandler provides centralized error handling with logging
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler with the given logger
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle processes an error and writes the appropriate HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		h.logError(r, appErr.StatusCode, appErr.Err)
		h.writeErrorResponse(w, appErr.StatusCode, ErrorResponse{
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
		return
	}

	var validationErrs *apperrors.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.logError(r, http.StatusUnprocessableEntity, err)
		h.writeValidationErrorResponse(w, validationErrs)
		return
	}

	statusCode, response := h.mapDomainError(err)
	h.logError(r, statusCode, err)
	h.writeErrorResponse(w, statusCode, response)
}

// mapDomainError converts domain errors to HTTP status codes and responses
func (h *ErrorHandler) mapDomainError(err error) (int, ErrorResponse) {
	var missing *apperrors.MissingColumnsError
	if errors.As(err, &missing) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:   missing.Error(),
			Code:    "MISSING_COLUMNS",
			Details: map[string]interface{}{"missing": missing.Columns},
		}
	}

	switch {
	// Input problems
	case errors.Is(err, apperrors.ErrEmptyInput):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error: "The uploaded file contains no data",
			Code:  "EMPTY_INPUT",
		}
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, ErrorResponse{
			Error: "Unsupported file format; upload a .csv or .xlsx file",
			Code:  "UNSUPPORTED_FORMAT",
		}
	case errors.Is(err, apperrors.ErrMalformedInput):
		return http.StatusBadRequest, ErrorResponse{
			Error: "The uploaded file could not be read as a table",
			Code:  "MALFORMED_INPUT",
		}
	case errors.Is(err, apperrors.ErrFileRequired):
		return http.StatusBadRequest, ErrorResponse{
			Error: "A file is required",
			Code:  "FILE_REQUIRED",
		}
	case errors.Is(err, apperrors.ErrInvalidFilter),
		errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "BAD_REQUEST",
		}

	// State
	case errors.Is(err, apperrors.ErrNoDataLoaded):
		return http.StatusNotFound, ErrorResponse{
			Error: "No dataset is loaded; upload a file or reload from the store",
			Code:  "NO_DATA_LOADED",
		}

	// Persistence
	case errors.Is(err, apperrors.ErrStore):
		return http.StatusServiceUnavailable, ErrorResponse{
			Error: "The record store is unavailable",
			Code:  "STORE_UNAVAILABLE",
		}

	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error: "An unexpected error occurred",
			Code:  "INTERNAL_ERROR",
		}
	}
}

func (h *ErrorHandler) logError(r *http.Request, statusCode int, err error) {
	logAttrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status_code", statusCode,
	}
	if err != nil {
		logAttrs = append(logAttrs, "error", err.Error())
	}

	ctx := r.Context()
	switch {
	case statusCode >= 500:
		h.logger.ErrorContext(ctx, "server error", logAttrs...)
	case statusCode >= 400:
		h.logger.WarnContext(ctx, "client error", logAttrs...)
	default:
		h.logger.InfoContext(ctx, "request error", logAttrs...)
	}
}

func (h *ErrorHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, response ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *ErrorHandler) writeValidationErrorResponse(w http.ResponseWriter, errs *apperrors.ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Error:  "Validation failed",
		Code:   "VALIDATION_ERROR",
		Fields: errs.Errors,
	})
}

// HandleError writes err when it is non-nil and reports whether it did.
// Usage: if HandleError(w, r, err, h.errorHandler) { return }
func HandleError(w http.ResponseWriter, r *http.Request, err error, handler *ErrorHandler) bool {
	if err != nil {
		handler.Handle(w, r, err)
		return true
	}
	return false
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return mw.GetRequestID(ctx)
}
