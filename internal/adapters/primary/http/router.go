package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	mw "github.com/lorrc/ticket-insights/internal/adapters/primary/http/middleware"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// RouterDeps collects everything NewRouter mounts. Rate limiters are
// optional.
type RouterDeps struct {
	Dataset   *DatasetHandler
	Dashboard *DashboardHandler
	WebSocket http.Handler
	Health    *HealthHandler

	GeneralLimiter *mw.RateLimiter
	UploadLimiter  *mw.RateLimiter

	AllowedOrigins []string
	CORSMaxAge     int

	Logger *slog.Logger
}

// NewRouter builds the HTTP API.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	errorHandler := NewErrorHandler(deps.Logger)

	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(deps.Logger))
	r.Use(mw.RecoveryLogger(deps.Logger))

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", mw.RequestIDHeader},
			ExposedHeaders:   []string{mw.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           deps.CORSMaxAge,
		}))
	}

	if deps.GeneralLimiter != nil {
		r.Use(deps.GeneralLimiter.Middleware)
	}

	// Probe paths stay outside /api/v1
	if deps.Health != nil {
		deps.Health.RegisterRoutes(r)
	}

	var writeLimit func(http.Handler) http.Handler
	if deps.UploadLimiter != nil {
		writeLimit = deps.UploadLimiter.Middleware
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/dataset", func(r chi.Router) {
			deps.Dataset.RegisterRoutes(r, writeLimit)
		})
		r.Route("/dashboard", deps.Dashboard.RegisterRoutes)
		if deps.WebSocket != nil {
			r.Get("/ws", deps.WebSocket.ServeHTTP)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.Handle(w, r, apperrors.NewNotFoundError(apperrors.ErrNotFound, "Route not found"))
	})

	return r
}
