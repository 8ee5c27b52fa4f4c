package ports

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// TicketStore persists the canonical ticket set. Writes replace the whole set;
// there is no per-record mutation.
type TicketStore interface {
	// LoadAll returns every stored ticket in insertion order, or an empty
	// slice when nothing is stored.
	LoadAll(ctx context.Context) ([]domain.Ticket, error)
	// ReplaceAll atomically swaps the stored set for tickets.
	ReplaceAll(ctx context.Context, tickets []domain.Ticket) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (domain.StoreStats, error)
	Ping(ctx context.Context) error
}

// TableReader decodes an uploaded file into a raw table.
type TableReader interface {
	Read(ctx context.Context, filename string, r io.Reader) (domain.RawTable, error)
}

// DashboardCache stores computed dashboards per dataset generation and
// filter. A miss returns nil without error.
type DashboardCache interface {
	Get(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter) (*domain.Dashboard, error)
	Set(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter, dashboard *domain.Dashboard) error
}
