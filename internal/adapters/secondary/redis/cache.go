// Package redis caches computed dashboards in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

const keyPrefix = "ticket-insights:dashboard:"

// Config holds the connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// DashboardCache stores dashboards as JSON under a key derived from the
// dataset generation and the filter. Entries for replaced datasets are never
// read again and expire with the TTL.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.DashboardCache = (*DashboardCache)(nil)

// NewDashboardCache creates the client. It does not dial; use Ping.
func NewDashboardCache(cfg Config) *DashboardCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &DashboardCache{client: client, ttl: cfg.TTL}
}

// Key returns the cache key for a dataset and filter.
func Key(datasetID uuid.UUID, filter domain.TicketFilter) string {
	return keyPrefix + datasetID.String() + ":" + filter.Key()
}

// Get returns the cached dashboard or nil on a miss.
func (c *DashboardCache) Get(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter) (*domain.Dashboard, error) {
	data, err := c.client.Get(ctx, Key(datasetID, filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var dash domain.Dashboard
	if err := json.Unmarshal(data, &dash); err != nil {
		return nil, fmt.Errorf("decode cached dashboard: %w", err)
	}
	return &dash, nil
}

// Set stores dashboard with the configured TTL.
func (c *DashboardCache) Set(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter, dashboard *domain.Dashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard: %w", err)
	}
	if err := c.client.Set(ctx, Key(datasetID, filter), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping verifies Redis connectivity.
func (c *DashboardCache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("redis client not configured")
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the client.
func (c *DashboardCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
