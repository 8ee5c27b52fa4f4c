package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaVersion is the latest version recorded in PRAGMA user_version.
const schemaVersion = 1

type migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

// ticketColumns is the insert order; LoadAll selects everything but position.
var ticketColumns = []string{
	"position", "ticket_id", "status",
	"assigned_user", "resolver", "company", "branch", "category", "priority",
	"title", "description", "requester", "created_user", "ticket_type",
	"sub_category", "department", "sla",
	"created_date", "resolved_date", "no_of_days", "no_of_working_days",
}

var migrations = []migration{
	{
		Version:     1,
		Description: "tickets table",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS tickets (
					position           INTEGER PRIMARY KEY,
					ticket_id          TEXT NOT NULL,
					status             TEXT NOT NULL,
					assigned_user      TEXT,
					resolver           TEXT,
					company            TEXT,
					branch             TEXT,
					category           TEXT,
					priority           TEXT,
					title              TEXT,
					description        TEXT,
					requester          TEXT,
					created_user       TEXT,
					ticket_type        TEXT,
					sub_category       TEXT,
					department         TEXT,
					sla                TEXT,
					created_date       TEXT,
					resolved_date      TEXT,
					no_of_days         INTEGER,
					no_of_working_days INTEGER
				)`,
				`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

func (s *TicketStore) migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported %d", current, schemaVersion)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		s.logger.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}
