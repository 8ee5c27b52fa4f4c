package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

// MockTicketStore is a mock implementation of ports.TicketStore
type MockTicketStore struct {
	mock.Mock
}

func NewMockTicketStore() *MockTicketStore {
	return &MockTicketStore{}
}

func (m *MockTicketStore) LoadAll(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketStore) ReplaceAll(ctx context.Context, tickets []domain.Ticket) error {
	args := m.Called(ctx, tickets)
	return args.Error(0)
}

func (m *MockTicketStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTicketStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StoreStats), args.Error(1)
}

func (m *MockTicketStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockTableReader is a mock implementation of ports.TableReader
type MockTableReader struct {
	mock.Mock
}

func NewMockTableReader() *MockTableReader {
	return &MockTableReader{}
}

func (m *MockTableReader) Read(ctx context.Context, filename string, r io.Reader) (domain.RawTable, error) {
	args := m.Called(ctx, filename, r)
	return args.Get(0).(domain.RawTable), args.Error(1)
}

// MockDashboardCache is a mock implementation of ports.DashboardCache
type MockDashboardCache struct {
	mock.Mock
}

func NewMockDashboardCache() *MockDashboardCache {
	return &MockDashboardCache{}
}

func (m *MockDashboardCache) Get(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter) (*domain.Dashboard, error) {
	args := m.Called(ctx, datasetID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *MockDashboardCache) Set(ctx context.Context, datasetID uuid.UUID, filter domain.TicketFilter, dashboard *domain.Dashboard) error {
	args := m.Called(ctx, datasetID, filter, dashboard)
	return args.Error(0)
}

// MockIngestService is a mock implementation of ports.IngestService
type MockIngestService struct {
	mock.Mock
}

func NewMockIngestService() *MockIngestService {
	return &MockIngestService{}
}

func (m *MockIngestService) Import(ctx context.Context, params ports.ImportParams) (*ports.ImportResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ImportResult), args.Error(1)
}

func (m *MockIngestService) LoadFromStore(ctx context.Context) (*domain.Dataset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dataset), args.Error(1)
}

func (m *MockIngestService) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIngestService) Stats(ctx context.Context) (domain.StoreStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.StoreStats), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.DatasetEvent) error {
	args := m.Called(event)
	return args.Error(0)
}
