package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
)

// HealthChecker defines the interface for health check dependencies
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependency is a named health check. A failing critical dependency makes the
// service unready; a failing optional one only degrades it.
type Dependency struct {
	Name     string
	Checker  HealthChecker
	Critical bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	deps      []Dependency
	loaded    func() bool
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. loaded reports whether a
// dataset is active and may be nil.
func NewHealthHandler(version string, loaded func() bool, deps ...Dependency) *HealthHandler {
	return &HealthHandler{
		deps:      deps,
		loaded:    loaded,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status        string           `json:"status"`
	Timestamp     string           `json:"timestamp"`
	Version       string           `json:"version,omitempty"`
	Uptime        string           `json:"uptime,omitempty"`
	DatasetLoaded *bool            `json:"dataset_loaded,omitempty"`
	Checks        map[string]Check `json:"checks,omitempty"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HandleLiveness reports that the process is serving requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness fails only when a critical dependency is down.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	response := h.evaluate(r.Context())

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	WriteJSON(w, statusCode, response)
}

// HandleHealth handles detailed health check requests (for monitoring/debugging)
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	base := h.evaluate(r.Context())

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := struct {
		HealthResponse
		Memory struct {
			Alloc      uint64 `json:"alloc_bytes"`
			TotalAlloc uint64 `json:"total_alloc_bytes"`
			Sys        uint64 `json:"sys_bytes"`
			NumGC      uint32 `json:"num_gc"`
		} `json:"memory"`
		Goroutines int `json:"goroutines"`
	}{
		HealthResponse: base,
		Goroutines:     runtime.NumGoroutine(),
	}
	response.Memory.Alloc = memStats.Alloc
	response.Memory.TotalAlloc = memStats.TotalAlloc
	response.Memory.Sys = memStats.Sys
	response.Memory.NumGC = memStats.NumGC

	statusCode := http.StatusOK
	if base.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}
	WriteJSON(w, statusCode, response)
}

func (h *HealthHandler) evaluate(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	checks := make(map[string]Check, len(h.deps))
	overallStatus := "healthy"

	for _, dep := range h.deps {
		check := runCheck(ctx, dep.Checker)
		checks[dep.Name] = check
		if check.Status == "healthy" {
			continue
		}
		if dep.Critical {
			overallStatus = "unhealthy"
		} else if overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	response := HealthResponse{
		Status:    overallStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}
	if h.loaded != nil {
		loaded := h.loaded()
		response.DatasetLoaded = &loaded
	}
	return response
}

func runCheck(ctx context.Context, checker HealthChecker) Check {
	if checker == nil {
		return Check{Status: "unhealthy", Message: "not configured"}
	}

	start := time.Now()
	err := checker.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}
