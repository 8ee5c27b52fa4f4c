// Package storage builds the configured record store.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lorrc/ticket-insights/internal/adapters/secondary/postgres"
	"github.com/lorrc/ticket-insights/internal/adapters/secondary/sqlite"
	"github.com/lorrc/ticket-insights/internal/config"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// Store is a record store that owns its connection.
type Store struct {
	ports.TicketStore
	Driver string
	close  func() error
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the store selected by cfg.Driver, migrating the schema
// first when configured to.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := postgres.Migrate(cfg.PostgresURL, cfg.MigrationsDir); err != nil {
				return nil, err
			}
			logger.Info("database migrations applied", "dir", cfg.MigrationsDir)
		}

		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			URL:             cfg.PostgresURL,
			MaxConns:        cfg.MaxOpenConns,
			MinConns:        cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", "driver", cfg.Driver)
		return &Store{
			TicketStore: postgres.NewTicketStore(pool),
			Driver:      cfg.Driver,
			close:       func() error { pool.Close(); return nil },
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("database connection established", "driver", cfg.Driver, "path", cfg.SQLitePath)
		return &Store{TicketStore: store, Driver: cfg.Driver, close: store.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
