package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/normalizer"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// IngestService turns uploaded files into datasets and manages the stored set
type IngestService struct {
	reader ports.TableReader
	store  ports.TicketStore
	logger *slog.Logger
}

var _ ports.IngestService = (*IngestService)(nil)

// NewIngestService creates a new ingest service
func NewIngestService(reader ports.TableReader, store ports.TicketStore, logger *slog.Logger) ports.IngestService {
	return &IngestService{
		reader: reader,
		store:  store,
		logger: logger.With("service", "ingest"),
	}
}

// Import reads, normalizes and optionally persists an uploaded file. Nothing
// is persisted unless normalization succeeds, and a store failure yields no
// dataset so the caller keeps whatever it had.
func (s *IngestService) Import(ctx context.Context, params ports.ImportParams) (*ports.ImportResult, error) {
	if params.Content == nil {
		return nil, apperrors.ErrFileRequired
	}

	raw, err := s.reader.Read(ctx, params.Filename, params.Content)
	if err != nil {
		return nil, err
	}

	res, err := normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	if params.Persist {
		if err := s.store.ReplaceAll(ctx, res.Tickets); err != nil {
			return nil, apperrors.WrapStore("replace", err)
		}
	}

	ds := domain.NewDataset(params.Filename, res.Tickets)

	s.logger.InfoContext(ctx, "dataset imported",
		"dataset_id", ds.ID,
		"source", params.Filename,
		"tickets", ds.Len(),
		"skipped_rows", res.Report.SkippedRows,
		"blank_rows", res.Report.BlankRows,
		"unparsed_dates", res.Report.UnparsedDates,
		"duplicate_ids", len(res.Report.DuplicateIDs),
		"persisted", params.Persist,
	)
	if len(res.Report.DroppedColumns) > 0 {
		s.logger.DebugContext(ctx, "columns dropped", "columns", res.Report.DroppedColumns)
	}

	return &ports.ImportResult{
		Dataset:   ds,
		Report:    res.Report,
		Persisted: params.Persist,
	}, nil
}

// LoadFromStore builds a dataset from the stored tickets. An empty store
// yields ErrNoDataLoaded.
func (s *IngestService) LoadFromStore(ctx context.Context) (*domain.Dataset, error) {
	tickets, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.WrapStore("load", err)
	}
	if len(tickets) == 0 {
		return nil, fmt.Errorf("store is empty: %w", apperrors.ErrNoDataLoaded)
	}

	ds := domain.NewDataset("store", tickets)
	s.logger.InfoContext(ctx, "dataset loaded from store", "dataset_id", ds.ID, "tickets", ds.Len())
	return ds, nil
}

// Clear removes every stored ticket.
func (s *IngestService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return apperrors.WrapStore("clear", err)
	}
	s.logger.InfoContext(ctx, "store cleared")
	return nil
}

// Stats reports the stored counts.
func (s *IngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return domain.StoreStats{}, apperrors.WrapStore("stats", err)
	}
	return stats, nil
}
