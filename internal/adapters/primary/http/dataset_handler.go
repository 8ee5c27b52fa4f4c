package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
	"github.com/lorrc/ticket-insights/internal/session"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temp file.
const multipartMemory = 8 << 20

// DatasetHandler manages the active dataset: upload, reload, clear and stats.
type DatasetHandler struct {
	ingest       ports.IngestService
	state        *session.State
	maxBytes     int64
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(
	ingest ports.IngestService,
	state *session.State,
	maxBytes int64,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DatasetHandler {
	return &DatasetHandler{
		ingest:       ingest,
		state:        state,
		maxBytes:     maxBytes,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "dataset"),
	}
}

// RegisterRoutes mounts the dataset routes. writeLimit, when non-nil, guards
// the routes that replace or clear data.
func (h *DatasetHandler) RegisterRoutes(r chi.Router, writeLimit func(http.Handler) http.Handler) {
	r.Get("/", h.HandleCurrent)
	r.Get("/stats", h.HandleStats)
	r.Group(func(r chi.Router) {
		if writeLimit != nil {
			r.Use(writeLimit)
		}
		r.Post("/", h.HandleUpload)
		r.Post("/reload", h.HandleReload)
		r.Delete("/", h.HandleClear)
	})
}

// HandleUpload imports a multipart "file" field and makes it the active
// dataset. ?persist=false skips the record store.
func (h *DatasetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxBytes {
		h.errorHandler.Handle(w, r, apperrors.NewPayloadTooLargeError(apperrors.ErrBadRequest, h.maxBytes))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.Handle(w, r, apperrors.NewPayloadTooLargeError(err, h.maxBytes))
			return
		}
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Expected a multipart/form-data upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.ErrFileRequired)
		return
	}
	defer func() { _ = file.Close() }()

	params := ports.ImportParams{
		Filename: header.Filename,
		Content:  file,
		Persist:  validation.ParseBoolQueryParam(r, "persist", true),
	}
	var result *ports.ImportResult
	_, err = h.state.Update(func(*domain.Dataset) (*domain.Dataset, error) {
		res, err := h.ingest.Import(r.Context(), params)
		if err != nil {
			return nil, err
		}
		result = res
		return res.Dataset, nil
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	ctx := logging.WithDatasetID(r.Context(), result.Dataset.ID.String())
	h.logger.InfoContext(ctx, "dataset uploaded",
		"filename", header.Filename,
		"size_bytes", header.Size,
		"tickets", result.Dataset.Len(),
		"persisted", result.Persisted,
	)

	WriteCreated(w, SuccessResponse{Data: toImportResponse(result), Message: "Dataset imported"})
}

// HandleReload replaces the active dataset with the stored one.
func (h *DatasetHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	var ds *domain.Dataset
	_, err := h.state.Update(func(*domain.Dataset) (*domain.Dataset, error) {
		loaded, err := h.ingest.LoadFromStore(r.Context())
		ds = loaded
		return loaded, err
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteSuccess(w, toDatasetResponse(ds))
}

// HandleClear empties the record store, then the session. A store failure
// leaves both untouched.
func (h *DatasetHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	prev, err := h.state.Update(func(*domain.Dataset) (*domain.Dataset, error) {
		return nil, h.ingest.Clear(r.Context())
	})
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	if prev != nil {
		h.logger.InfoContext(logging.WithDatasetID(r.Context(), prev.ID.String()), "dataset cleared")
	}
	WriteNoContent(w)
}

// HandleCurrent describes the active dataset.
func (h *DatasetHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	ds := h.state.Current()
	if ds == nil {
		h.errorHandler.Handle(w, r, apperrors.ErrNoDataLoaded)
		return
	}
	WriteSuccess(w, toDatasetResponse(ds))
}

// HandleStats reports counts held by the record store.
func (h *DatasetHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ingest.Stats(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteSuccess(w, toStoreStatsResponse(stats))
}
