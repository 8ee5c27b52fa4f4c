package services

import (
	"context"
	"log/slog"

	"github.com/lorrc/ticket-insights/internal/core/analytics"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// DashboardService derives dashboard views from a dataset
type DashboardService struct {
	cache  ports.DashboardCache
	logger *slog.Logger
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(cache ports.DashboardCache, logger *slog.Logger) ports.DashboardService {
	return &DashboardService{
		cache:  cache,
		logger: logger.With("service", "dashboard"),
	}
}

// Overview builds every view for the filtered dataset. Cache failures are
// logged and otherwise ignored.
func (s *DashboardService) Overview(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) (*domain.Dashboard, error) {
	if ds == nil {
		return nil, apperrors.ErrNoDataLoaded
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, ds.ID, filter)
		if err != nil {
			s.logger.WarnContext(ctx, "dashboard cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	dash := analytics.BuildDashboard(filter.Apply(ds.Tickets))
	dash.DatasetID = ds.ID.String()

	if s.cache != nil {
		if err := s.cache.Set(ctx, ds.ID, filter, &dash); err != nil {
			s.logger.WarnContext(ctx, "dashboard cache write failed", "error", err)
		}
	}

	return &dash, nil
}

// PendingTickets returns the pending table for the filtered dataset.
func (s *DashboardService) PendingTickets(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) ([]domain.PendingRow, error) {
	if ds == nil {
		return nil, apperrors.ErrNoDataLoaded
	}
	return analytics.PendingRows(filter.Apply(ds.Tickets)), nil
}

// ResolvedTickets returns the resolved table for the filtered dataset.
func (s *DashboardService) ResolvedTickets(ctx context.Context, ds *domain.Dataset, filter domain.TicketFilter) ([]domain.ResolvedRow, error) {
	if ds == nil {
		return nil, apperrors.ErrNoDataLoaded
	}
	return analytics.ResolvedRows(filter.Apply(ds.Tickets)), nil
}

// FilterOptions lists the filter choices for the unfiltered dataset.
func (s *DashboardService) FilterOptions(ctx context.Context, ds *domain.Dataset) (*domain.FilterOptions, error) {
	if ds == nil {
		return nil, apperrors.ErrNoDataLoaded
	}
	opts := analytics.FilterOptions(ds.Tickets)
	return &opts, nil
}
