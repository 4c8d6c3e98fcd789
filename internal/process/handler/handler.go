package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"protocolo/internal/process/models"
	"protocolo/internal/process/service"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/httputil"
	"protocolo/pkg/requestcontext"
)

// Service is the process service as seen by HTTP handlers.
type Service interface {
	Create(ctx context.Context, req *models.CreateProcessRequest) (*models.Process, error)
	Update(ctx context.Context, processID id.ProcessID, req *models.UpdateProcessRequest) (*models.Process, error)
	MarkExit(ctx context.Context, processID id.ProcessID) (*models.Process, error)
	Conclude(ctx context.Context, processID id.ProcessID) (*models.Process, error)
	Delete(ctx context.Context, processID id.ProcessID) error
	Get(ctx context.Context, processID id.ProcessID) (*models.Process, error)
	LatestByNumber(ctx context.Context, number string) (*models.Process, error)
	ListOpen(ctx context.Context, filter models.ListFilter) ([]service.OpenItem, error)
	ListClosed(ctx context.Context, filter models.ListFilter) ([]*models.Process, error)
	History(ctx context.Context, processID id.ProcessID) (*models.History, error)
	Genres(ctx context.Context) ([]models.Genre, error)
	Species(ctx context.Context, genre models.Genre) ([]string, error)
}

// Handler serves the process and catalogue endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the routes on r. Authentication is applied by the caller.
func (h *Handler) Register(r chi.Router) {
	r.Route("/processes", func(r chi.Router) {
		r.Get("/", h.handleListOpen)
		r.Post("/", h.handleCreate)
		r.Get("/closed", h.handleListClosed)
		r.Get("/by-number/{number}", h.handleLatestByNumber)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Patch("/", h.handleUpdate)
			r.Delete("/", h.handleDelete)
			r.Post("/exit", h.handleMarkExit)
			r.Post("/monitoring/conclude", h.handleConclude)
			r.Get("/history", h.handleHistory)
		})
	})
	r.Get("/catalog/genres", h.handleGenres)
	r.Get("/catalog/species", h.handleSpecies)
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateProcessRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "create process", err)
		return
	}
	p, err := h.service.Create(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "create process", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	h.withProcessID(w, r, "get process", func(ctx context.Context, processID id.ProcessID) (any, error) {
		return h.service.Get(ctx, processID)
	})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProcessRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(r.Context(), w, "update process", err)
		return
	}
	h.withProcessID(w, r, "update process", func(ctx context.Context, processID id.ProcessID) (any, error) {
		return h.service.Update(ctx, processID, &req)
	})
}

func (h *Handler) handleMarkExit(w http.ResponseWriter, r *http.Request) {
	h.withProcessID(w, r, "mark exit", func(ctx context.Context, processID id.ProcessID) (any, error) {
		return h.service.MarkExit(ctx, processID)
	})
}

func (h *Handler) handleConclude(w http.ResponseWriter, r *http.Request) {
	h.withProcessID(w, r, "conclude monitoring", func(ctx context.Context, processID id.ProcessID) (any, error) {
		return h.service.Conclude(ctx, processID)
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	h.withProcessID(w, r, "process history", func(ctx context.Context, processID id.ProcessID) (any, error) {
		return h.service.History(ctx, processID)
	})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	processID, err := id.ParseProcessID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, "delete process", err)
		return
	}
	if err := h.service.Delete(ctx, processID); err != nil {
		h.writeError(ctx, w, "delete process", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLatestByNumber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.service.LatestByNumber(ctx, strings.TrimSpace(chi.URLParam(r, "number")))
	if err != nil {
		h.writeError(ctx, w, "latest by number", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) handleListOpen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := parseListFilter(r)
	items, err := h.service.ListOpen(ctx, filter)
	if err != nil {
		h.writeError(ctx, w, "list open processes", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(items))
}

func (h *Handler) handleListClosed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	filter := parseListFilter(r)
	items, err := h.service.ListClosed(ctx, filter)
	if err != nil {
		h.writeError(ctx, w, "list closed processes", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(items))
}

func (h *Handler) handleGenres(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genres, err := h.service.Genres(ctx)
	if err != nil {
		h.writeError(ctx, w, "list genres", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(genres))
}

func (h *Handler) handleSpecies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	genre := strings.TrimSpace(r.URL.Query().Get("genre"))
	if genre == "" {
		h.writeError(ctx, w, "list species", dErrors.New(dErrors.CodeValidation, "genre is required"))
		return
	}
	species, err := h.service.Species(ctx, models.Genre(genre))
	if err != nil {
		h.writeError(ctx, w, "list species", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, newListResponse(species))
}

// withProcessID parses the {id} path parameter, runs fn and writes its result.
func (h *Handler) withProcessID(w http.ResponseWriter, r *http.Request, action string, fn func(context.Context, id.ProcessID) (any, error)) {
	ctx := r.Context()
	processID, err := id.ParseProcessID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, action, err)
		return
	}
	result, err := fn(ctx, processID)
	if err != nil {
		h.writeError(ctx, w, action, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, action string, err error) {
	code := dErrors.CodeOf(err)
	requestID := requestcontext.RequestID(ctx)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+action, "error", err, "request_id", requestID)
	} else {
		h.logger.WarnContext(ctx, action+" rejected", "error", err, "code", string(code), "request_id", requestID)
	}
	httputil.WriteError(w, err)
}
