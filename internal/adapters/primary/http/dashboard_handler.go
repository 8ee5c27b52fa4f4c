package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
	"github.com/lorrc/ticket-insights/internal/session"
)

const maxPageSize = 500

// DashboardHandler serves read-only views of the active dataset.
type DashboardHandler struct {
	dashboards   ports.DashboardService
	state        *session.State
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboards ports.DashboardService,
	state *session.State,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboards:   dashboards,
		state:        state,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dashboard"),
	}
}

// RegisterRoutes mounts the dashboard routes
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/pending", h.HandlePending)
	r.Get("/resolved", h.HandleResolved)
	r.Get("/filters", h.HandleFilters)
}

// HandleOverview returns metrics, distributions and timelines for the
// filtered dataset.
func (h *DashboardHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilterQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	ds := h.state.Current()
	ctx := r.Context()
	if ds != nil {
		ctx = logging.WithDatasetID(ctx, ds.ID.String())
	}

	dash, err := h.dashboards.Overview(ctx, ds, filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if dash.NoMatch {
		h.logger.DebugContext(ctx, "filter matched no tickets", "filter", filter.Key())
	}
	WriteSuccess(w, toDashboardResponse(dash))
}

// HandlePending returns a page of the pending tickets table.
func (h *DashboardHandler) HandlePending(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilterQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	rows, err := h.dashboards.PendingTickets(r.Context(), h.state.Current(), filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	p := validation.ParsePagination(r, maxPageSize)
	WritePaginated(w, toPendingRows(page(rows, p)), p.Limit, p.Offset, int64(len(rows)))
}

// HandleResolved returns a page of the resolved tickets table.
func (h *DashboardHandler) HandleResolved(w http.ResponseWriter, r *http.Request) {
	filter, err := validation.ParseFilterQuery(r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	rows, err := h.dashboards.ResolvedTickets(r.Context(), h.state.Current(), filter)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	p := validation.ParsePagination(r, maxPageSize)
	WritePaginated(w, toResolvedRows(page(rows, p)), p.Limit, p.Offset, int64(len(rows)))
}

// HandleFilters returns the choices available for each filter.
func (h *DashboardHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dashboards.FilterOptions(r.Context(), h.state.Current())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteSuccess(w, toFilterOptionsResponse(opts))
}

func page[T any](items []T, p validation.PaginationParams) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}
