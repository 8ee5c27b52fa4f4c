// Package sqlite is a single-file record store for local and CLI use.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// TicketStore implements ports.TicketStore on a SQLite database file.
type TicketStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ ports.TicketStore = (*TicketStore)(nil)

// Open creates the database directory if needed, opens the file and applies
// pending migrations.
func Open(ctx context.Context, path string, logger *slog.Logger) (*TicketStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; a single connection keeps WAL simple.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &TicketStore{db: db, path: path, logger: logger.With("component", "sqlite_store")}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *TicketStore) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *TicketStore) Path() string {
	return s.path
}

// LoadAll returns the stored tickets in import order.
func (s *TicketStore) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+strings.Join(ticketColumns[1:], ", ")+` FROM tickets ORDER BY position`)
	if err != nil {
		return nil, apperrors.WrapStore("load", err)
	}
	defer func() { _ = rows.Close() }()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		var (
			t             domain.Ticket
			text          [14]sql.NullString
			created, done sql.NullString
			days, working sql.NullInt64
		)
		dest := []any{&t.ID, &t.Status}
		for i := range text {
			dest = append(dest, &text[i])
		}
		dest = append(dest, &created, &done, &days, &working)
		if err := rows.Scan(dest...); err != nil {
			return nil, apperrors.WrapStore("load", err)
		}

		for i, field := range textFields(&t) {
			*field = fromNullString(text[i])
		}
		if t.CreatedDate, err = fromNullTime(created); err != nil {
			return nil, apperrors.WrapStore("load", err)
		}
		if t.ResolvedDate, err = fromNullTime(done); err != nil {
			return nil, apperrors.WrapStore("load", err)
		}
		t.NoOfDays = fromNullInt(days)
		t.NoOfWorkingDays = fromNullInt(working)
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapStore("load", err)
	}
	return tickets, nil
}

// ReplaceAll swaps the stored set inside one transaction.
func (s *TicketStore) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.WrapStore("replace", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
		return apperrors.WrapStore("replace", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ticketColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tickets (`+strings.Join(ticketColumns, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return apperrors.WrapStore("replace", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range tickets {
		if _, err := stmt.ExecContext(ctx, insertValues(i, &tickets[i])...); err != nil {
			return apperrors.WrapStore("replace", fmt.Errorf("row %d: %w", i+1, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.WrapStore("replace", fmt.Errorf("failed to commit transaction: %w", err))
	}
	s.logger.Debug("replaced stored tickets", "count", len(tickets))
	return nil
}

// Clear removes every stored ticket.
func (s *TicketStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tickets`)
	return apperrors.WrapStore("clear", err)
}

// Stats counts stored tickets per classification.
func (s *TicketStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	resolved := domain.ResolvedStatuses()
	discarded := domain.DiscardedStatuses()
	query := fmt.Sprintf(`
SELECT COUNT(*),
       COUNT(CASE WHEN status IN (%s) THEN 1 END),
       COUNT(CASE WHEN status IN (%s) THEN 1 END)
FROM tickets`, inPlaceholders(len(resolved)), inPlaceholders(len(discarded)))

	args := make([]any, 0, len(resolved)+len(discarded))
	for _, st := range append(resolved, discarded...) {
		args = append(args, st)
	}

	var stats domain.StoreStats
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&stats.Total, &stats.Resolved, &stats.Discarded); err != nil {
		return domain.StoreStats{}, apperrors.WrapStore("stats", err)
	}
	stats.Pending = stats.Total - stats.Resolved - stats.Discarded
	return stats, nil
}

// Ping checks the database handle.
func (s *TicketStore) Ping(ctx context.Context) error {
	return apperrors.WrapStore("ping", s.db.PingContext(ctx))
}

func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// textFields lists the optional text fields in column order.
func textFields(t *domain.Ticket) []**string {
	return []**string{
		&t.AssignedUser, &t.Resolver, &t.Company, &t.Branch, &t.Category,
		&t.Priority, &t.Title, &t.Description, &t.Requester, &t.CreatedUser,
		&t.TicketType, &t.SubCategory, &t.Department, &t.SLA,
	}
}

func insertValues(i int, t *domain.Ticket) []any {
	values := []any{i + 1, t.ID, t.Status}
	for _, field := range textFields(t) {
		values = append(values, toNullString(*field))
	}
	return append(values,
		toNullTime(t.CreatedDate),
		toNullTime(t.ResolvedDate),
		toNullInt(t.NoOfDays),
		toNullInt(t.NoOfWorkingDays),
	)
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// Timestamps are stored as RFC 3339 text in UTC.
func toNullTime(ts *time.Time) sql.NullString {
	if ts == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.UTC().Format(time.RFC3339Nano), Valid: true}
}

func fromNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid stored timestamp %q: %w", s.String, err)
	}
	ts = ts.UTC()
	return &ts, nil
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
