package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ticket-insights/internal/adapters/secondary/tabular"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/mocks"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/session"
)

const exportCSV = "Ticket ID,Current Status,AssignedTo,Requested Date,Resolved Date,Company Name,Priority\n" +
	"T1,Closed,alice,01-Jan-24,03-Jan-24,Acme,High\n" +
	"T2,Open,bob,02-Jan-24,,Globex,Low\n" +
	"T3,Discard,bob,02-Jan-24,,Acme,Low\n" +
	"T4,In Progress,,03-Jan-24,,Acme,High\n"

type testAPI struct {
	router stdhttp.Handler
	store  *mocks.MockTicketStore
	events *mocks.MockEventBroadcaster
	state  *session.State
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAPI(t *testing.T, maxBytes int64) *testAPI {
	t.Helper()
	logger := discardLogger()

	store := mocks.NewMockTicketStore()
	events := mocks.NewMockEventBroadcaster()
	events.On("Broadcast", mock.Anything).Return(nil).Maybe()

	state := session.NewState(events, logger)
	errorHandler := NewErrorHandler(logger)
	ingest := services.NewIngestService(tabular.NewReader(), store, logger)
	dashboards := services.NewDashboardService(nil, logger)

	router := NewRouter(RouterDeps{
		Dataset:   NewDatasetHandler(ingest, state, maxBytes, errorHandler, logger),
		Dashboard: NewDashboardHandler(dashboards, state, errorHandler, logger),
		Health:    NewHealthHandler("test", state.Loaded, Dependency{Name: "store", Checker: store, Critical: true}),
		Logger:    logger,
	})

	return &testAPI{router: router, store: store, events: events, state: state}
}

func (a *testAPI) do(req *stdhttp.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, target, filename, content string) *stdhttp.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(stdhttp.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func TestDatasetUpload(t *testing.T) {
	t.Run("imports and persists", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.store.On("ReplaceAll", mock.Anything, mock.AnythingOfType("[]domain.Ticket")).Return(nil).Once()

		rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.csv", exportCSV))

		require.Equal(t, stdhttp.StatusCreated, rec.Code)
		resp := decode[envelope[ImportResponse]](t, rec)
		assert.Equal(t, 4, resp.Data.Dataset.Tickets)
		assert.Equal(t, "export.csv", resp.Data.Dataset.Source)
		assert.True(t, resp.Data.Persisted)
		assert.Equal(t, 4, resp.Data.Report.ImportedRows)

		require.True(t, api.state.Loaded())
		assert.Equal(t, resp.Data.Dataset.DatasetID, api.state.Current().ID.String())
		api.store.AssertExpectations(t)
		api.events.AssertCalled(t, "Broadcast", mock.MatchedBy(func(e domain.DatasetEvent) bool {
			return e.Type == domain.EventDatasetReplaced && e.Tickets == 4
		}))
	})

	t.Run("persist=false skips the store", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)

		rec := api.do(uploadRequest(t, "/api/v1/dataset?persist=false", "export.csv", exportCSV))

		require.Equal(t, stdhttp.StatusCreated, rec.Code)
		resp := decode[envelope[ImportResponse]](t, rec)
		assert.False(t, resp.Data.Persisted)
		api.store.AssertNotCalled(t, "ReplaceAll", mock.Anything, mock.Anything)
	})

	t.Run("missing columns keep the previous dataset", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		prev := domain.NewDataset("old.csv", []domain.Ticket{{ID: "X", Status: "Open"}})
		api.state.Replace(prev)

		rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.csv", "Ticket ID,Status\nT1,Open\n"))

		require.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, "MISSING_COLUMNS", resp.Code)
		assert.ElementsMatch(t, []any{"AssignedTo", "Requested Date"}, resp.Details["missing"])
		assert.Same(t, prev, api.state.Current())
	})

	t.Run("store failure keeps the previous dataset", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.store.On("ReplaceAll", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.csv", exportCSV))

		require.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "STORE_UNAVAILABLE", decode[ErrorResponse](t, rec).Code)
		assert.False(t, api.state.Loaded())
	})

	t.Run("unsupported extension", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)

		rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.pdf", exportCSV))

		require.Equal(t, stdhttp.StatusUnsupportedMediaType, rec.Code)
		body := decode[ErrorResponse](t, rec)
		assert.Equal(t, "UNSUPPORTED_FORMAT", body.Code)
		assert.Contains(t, body.Error, `".pdf"`)
	})

	t.Run("no file field", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("note", "hello"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(stdhttp.MethodPost, "/api/v1/dataset", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := api.do(req)

		require.Equal(t, stdhttp.StatusBadRequest, rec.Code)
		assert.Equal(t, "FILE_REQUIRED", decode[ErrorResponse](t, rec).Code)
	})

	t.Run("too large", func(t *testing.T) {
		api := newTestAPI(t, 64)

		rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.csv", exportCSV))

		require.Equal(t, stdhttp.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", decode[ErrorResponse](t, rec).Code)
	})
}

func TestDatasetWritesAreSerialized(t *testing.T) {
	api := newTestAPI(t, 1<<20)

	var (
		mu      sync.Mutex
		stored  []string
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	record := func(args mock.Arguments) {
		tickets := args.Get(1).([]domain.Ticket)
		mu.Lock()
		stored = append(stored, tickets[0].ID)
		mu.Unlock()
	}
	firstBatch := func(ts []domain.Ticket) bool { return len(ts) > 0 && ts[0].ID == "A1" }
	secondBatch := func(ts []domain.Ticket) bool { return len(ts) > 0 && ts[0].ID == "B1" }

	api.store.On("ReplaceAll", mock.Anything, mock.MatchedBy(firstBatch)).Run(func(args mock.Arguments) {
		record(args)
		close(entered)
		<-release
	}).Return(nil).Once()
	api.store.On("ReplaceAll", mock.Anything, mock.MatchedBy(secondBatch)).Run(record).Return(nil).Once()
	api.store.On("Clear", mock.Anything).Return(nil).Once()

	csvFor := func(id string) string {
		return "Ticket ID,Current Status,AssignedTo,Requested Date\n" + id + ",Open,alice,01-Jan-24\n"
	}

	first := uploadRequest(t, "/api/v1/dataset", "a.csv", csvFor("A1"))
	second := uploadRequest(t, "/api/v1/dataset", "b.csv", csvFor("B1"))

	codes := make(chan int, 2)
	go func() {
		codes <- api.do(first).Code
	}()
	<-entered

	secondDone := make(chan struct{})
	go func() {
		codes <- api.do(second).Code
		close(secondDone)
	}()

	select {
	case <-secondDone:
		t.Fatal("second upload completed while the first was still writing")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.Equal(t, stdhttp.StatusCreated, <-codes)
	assert.Equal(t, stdhttp.StatusCreated, <-codes)

	mu.Lock()
	assert.Equal(t, []string{"A1", "B1"}, stored)
	mu.Unlock()
	require.True(t, api.state.Loaded())
	assert.Equal(t, "b.csv", api.state.Current().Source)
	assert.Equal(t, "B1", api.state.Current().Tickets[0].ID)

	rec := api.do(httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/dataset", nil))
	assert.Equal(t, stdhttp.StatusNoContent, rec.Code)
	assert.False(t, api.state.Loaded())
	api.store.AssertExpectations(t)
}

func TestDatasetReloadClearStats(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stored := []domain.Ticket{
		{ID: "T1", Status: "Closed", CreatedDate: &jan1, ResolvedDate: &jan1},
		{ID: "T2", Status: "Open", CreatedDate: &jan1},
	}

	t.Run("reload", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.store.On("LoadAll", mock.Anything).Return(stored, nil)

		rec := api.do(httptest.NewRequest(stdhttp.MethodPost, "/api/v1/dataset/reload", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[envelope[DatasetResponse]](t, rec)
		assert.Equal(t, 2, resp.Data.Tickets)
		assert.Equal(t, 2, api.state.Current().Len())
	})

	t.Run("reload from empty store", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.store.On("LoadAll", mock.Anything).Return([]domain.Ticket{}, nil)

		rec := api.do(httptest.NewRequest(stdhttp.MethodPost, "/api/v1/dataset/reload", nil))

		require.Equal(t, stdhttp.StatusNotFound, rec.Code)
		assert.Equal(t, "NO_DATA_LOADED", decode[ErrorResponse](t, rec).Code)
	})

	t.Run("clear", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.state.Replace(domain.NewDataset("export.csv", stored))
		api.store.On("Clear", mock.Anything).Return(nil).Once()

		rec := api.do(httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/dataset", nil))

		assert.Equal(t, stdhttp.StatusNoContent, rec.Code)
		assert.False(t, api.state.Loaded())
		api.events.AssertCalled(t, "Broadcast", mock.MatchedBy(func(e domain.DatasetEvent) bool {
			return e.Type == domain.EventDatasetCleared
		}))
	})

	t.Run("clear failure keeps the session", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.state.Replace(domain.NewDataset("export.csv", stored))
		api.store.On("Clear", mock.Anything).Return(errors.New("disk I/O error"))

		rec := api.do(httptest.NewRequest(stdhttp.MethodDelete, "/api/v1/dataset", nil))

		assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
		assert.True(t, api.state.Loaded())
	})

	t.Run("stats", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)
		api.store.On("Stats", mock.Anything).Return(domain.StoreStats{Total: 5, Resolved: 2, Pending: 2, Discarded: 1}, nil)

		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dataset/stats", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[envelope[StoreStatsResponse]](t, rec)
		assert.Equal(t, StoreStatsResponse{Total: 5, Resolved: 2, Pending: 2, Discarded: 1}, resp.Data)
	})

	t.Run("current without data", func(t *testing.T) {
		api := newTestAPI(t, 1<<20)

		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dataset", nil))

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})
}

func TestDashboardEndpoints(t *testing.T) {
	api := newTestAPI(t, 1<<20)
	api.store.On("ReplaceAll", mock.Anything, mock.Anything).Return(nil)
	rec := api.do(uploadRequest(t, "/api/v1/dataset", "export.csv", exportCSV))
	require.Equal(t, stdhttp.StatusCreated, rec.Code)

	t.Run("overview", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/overview", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[envelope[DashboardResponse]](t, rec)
		assert.False(t, resp.Data.NoMatch)
		assert.Equal(t, int64(4), resp.Data.Metrics.Total)
		assert.Equal(t, int64(1), resp.Data.Metrics.Resolved)
		assert.Equal(t, int64(2), resp.Data.Metrics.Pending)
		assert.Equal(t, int64(1), resp.Data.Metrics.Discarded)
		assert.Equal(t, []int{2}, resp.Data.ResolutionDays)
	})

	t.Run("overview with company filter", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/overview?company=Globex", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[envelope[DashboardResponse]](t, rec)
		assert.Equal(t, int64(1), resp.Data.Metrics.Total)
		assert.Equal(t, int64(1), resp.Data.Metrics.Pending)
	})

	t.Run("filter matching nothing", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/overview?company=Initech", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.True(t, decode[envelope[DashboardResponse]](t, rec).Data.NoMatch)
	})

	t.Run("invalid date range", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/overview?from=2024-02-01&to=2024-01-01", nil))

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("pending is paginated", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/pending?limit=1", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[PaginatedResponse[PendingRowResponse]](t, rec)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, int64(2), resp.Pagination.TotalCount)
		assert.True(t, resp.Pagination.HasMore)
	})

	t.Run("pending offset past the end", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/pending?offset=10", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[PaginatedResponse[PendingRowResponse]](t, rec)
		assert.Empty(t, resp.Data)
		assert.False(t, resp.Pagination.HasMore)
	})

	t.Run("resolved", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/resolved", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[PaginatedResponse[ResolvedRowResponse]](t, rec)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "T1", resp.Data[0].TicketID)
		assert.Equal(t, "2024-01-03", resp.Data[0].ResolvedDate)
	})

	t.Run("filters", func(t *testing.T) {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/filters", nil))

		require.Equal(t, stdhttp.StatusOK, rec.Code)
		resp := decode[envelope[FilterOptionsResponse]](t, rec)
		assert.Equal(t, []string{"Acme", "Globex"}, resp.Data.Companies)
		require.NotNil(t, resp.Data.CreatedFrom)
		assert.Equal(t, "2024-01-01", *resp.Data.CreatedFrom)
	})
}

func TestDashboardWithoutData(t *testing.T) {
	api := newTestAPI(t, 1<<20)

	for _, path := range []string{"overview", "pending", "resolved", "filters"} {
		rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/dashboard/"+path, nil))
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t, 1<<20)

	rec := api.do(httptest.NewRequest(stdhttp.MethodGet, "/api/v1/tickets", nil))

	require.Equal(t, stdhttp.StatusNotFound, rec.Code)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Route not found", body.Error)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })

	tests := []struct {
		name       string
		deps       []Dependency
		wantCode   int
		wantStatus string
	}{
		{"all healthy", []Dependency{{Name: "store", Checker: ok, Critical: true}, {Name: "cache", Checker: ok}}, stdhttp.StatusOK, "healthy"},
		{"optional cache down", []Dependency{{Name: "store", Checker: ok, Critical: true}, {Name: "cache", Checker: down}}, stdhttp.StatusOK, "degraded"},
		{"store down", []Dependency{{Name: "store", Checker: down, Critical: true}}, stdhttp.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler("test", func() bool { return false }, tt.deps...)
			rec := httptest.NewRecorder()

			h.HandleReadiness(rec, httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			resp := decode[HealthResponse](t, rec)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.NotNil(t, resp.DatasetLoaded)
			assert.False(t, *resp.DatasetLoaded)
		})
	}
}

func TestOriginAllowed(t *testing.T) {
	allowed := []string{"https://dash.example.com", "*.corp.example", "localhost:5173"}

	assert.True(t, originAllowed("dash.example.com", allowed))
	assert.True(t, originAllowed("reports.corp.example", allowed))
	assert.True(t, originAllowed("corp.example", allowed))
	assert.True(t, originAllowed("localhost:5173", allowed))
	assert.False(t, originAllowed("evil.example.com", allowed))
	assert.True(t, originAllowed("anything", []string{"*"}))
}
