package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// writeAppError renders err in the same {"error","code"} shape the API's
// error handler uses. Middleware sits below that handler, so it writes
// directly.
func writeAppError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": err.Message,
		"code":  err.Code,
	})
}
