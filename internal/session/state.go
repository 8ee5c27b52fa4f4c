// Package session holds the dataset the dashboard currently shows. It is
// owned by the process entry point and passed to handlers explicitly.
package session

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// State is a single slot holding the active dataset. Readers always see a
// complete generation; swaps are atomic. Writers are serialized.
type State struct {
	current     atomic.Pointer[domain.Dataset]
	writeMu     sync.Mutex
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
}

// NewState creates an empty state. broadcaster may be nil.
func NewState(broadcaster ports.EventBroadcaster, logger *slog.Logger) *State {
	return &State{
		broadcaster: broadcaster,
		logger:      logger.With("component", "session"),
	}
}

// Current returns the active dataset, or nil when none is loaded.
func (s *State) Current() *domain.Dataset {
	return s.current.Load()
}

// Loaded reports whether a dataset is active.
func (s *State) Loaded() bool {
	return s.current.Load() != nil
}

// Update runs fn under the write lock and installs the dataset it returns,
// which may be nil. Record store writes made inside fn therefore land in the
// same order as the swaps. An error from fn leaves the slot untouched.
// Update returns the dataset that was replaced.
func (s *State) Update(fn func(current *domain.Dataset) (*domain.Dataset, error)) (*domain.Dataset, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := fn(s.current.Load())
	if err != nil {
		return nil, err
	}
	return s.swap(next), nil
}

// Replace makes ds the active dataset and returns the one it replaced.
func (s *State) Replace(ds *domain.Dataset) *domain.Dataset {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.swap(ds)
}

// Clear empties the slot and returns the dataset that was active.
func (s *State) Clear() *domain.Dataset {
	return s.Replace(nil)
}

func (s *State) swap(ds *domain.Dataset) *domain.Dataset {
	prev := s.current.Swap(ds)
	if ds == nil {
		s.notify(domain.DatasetEvent{Type: domain.EventDatasetCleared, At: time.Now().UTC()})
		return prev
	}
	s.notify(domain.DatasetEvent{
		Type:      domain.EventDatasetReplaced,
		DatasetID: ds.ID.String(),
		Source:    ds.Source,
		Tickets:   ds.Len(),
		At:        ds.LoadedAt,
	})
	return prev
}

func (s *State) notify(event domain.DatasetEvent) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("failed to broadcast dataset event", "event_type", event.Type, "error", err)
	}
}
