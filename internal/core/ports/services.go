package ports

import (
	"context"
	"io"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// ImportParams defines the input for importing an uploaded file.
type ImportParams struct {
	Filename string
	Content  io.Reader
	// Persist replaces the stored set with the imported tickets.
	Persist bool
}

// ImportResult is a freshly built dataset and the report describing it.
type ImportResult struct {
	Dataset   *domain.Dataset
	Report    domain.ImportReport
	Persisted bool
}

// IngestService defines the operations that produce or discard datasets.
// It never holds the active dataset; callers own that state.
type IngestService interface {
	Import(ctx context.Context, params ImportParams) (*ImportResult, error)
	LoadFromStore(ctx context.Context) (*domain.Dataset, error)
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// DashboardService derives views from a caller-supplied dataset. A nil
// dataset yields ErrNoDataLoaded.
type DashboardService interface {
	Overview(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) (*domain.Dashboard, error)
	PendingTickets(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) ([]domain.PendingRow, error)
	ResolvedTickets(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) ([]domain.ResolvedRow, error)
	FilterOptions(ctx context.Context, ds *domain.Dataset) (*domain.FilterOptions, error)
}

// EventBroadcaster defines the port for pushing dataset changes to clients.
type EventBroadcaster interface {
	Broadcast(event domain.DatasetEvent) error
}
