package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"protocolo/internal/identity/models"
	id "protocolo/pkg/domain"
	dErrors "protocolo/pkg/domain-errors"
	"protocolo/pkg/platform/httputil"
	"protocolo/pkg/requestcontext"
)

type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserView, error)
	UpdateLevel(ctx context.Context, userID id.UserID, req *models.UpdateLevelRequest) (*models.UserView, error)
	DeleteUser(ctx context.Context, userID id.UserID) error
	ListUsers(ctx context.Context) ([]models.UserView, error)
}

// Handler serves login, logout and user administration.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// RegisterPublic mounts the routes reachable without a token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
}

// RegisterAuthenticated mounts the routes that need an authenticated actor.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Post("/auth/logout", h.handleLogout)
}

// RegisterAdmin mounts user administration. The caller guards it with
// admin.RequireSuperuser.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/users", h.handleListUsers)
	r.Post("/admin/users", h.handleRegister)
	r.Patch("/admin/users/{id}/level", h.handleUpdateLevel)
	r.Delete("/admin/users/{id}", h.handleDeleteUser)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "login", err)
		return
	}
	result, err := h.service.Login(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "login", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.service.Logout(ctx); err != nil {
		h.writeError(ctx, w, "logout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.service.ListUsers(ctx)
	if err != nil {
		h.writeError(ctx, w, "list users", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": users, "count": len(users)})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "register user", err)
		return
	}
	user, err := h.service.Register(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "register user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, "update user level", err)
		return
	}
	var req models.UpdateLevelRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "update user level", err)
		return
	}
	user, err := h.service.UpdateLevel(ctx, userID, &req)
	if err != nil {
		h.writeError(ctx, w, "update user level", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(ctx, w, "delete user", err)
		return
	}
	if err := h.service.DeleteUser(ctx, userID); err != nil {
		h.writeError(ctx, w, "delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, action string, err error) {
	code := dErrors.CodeOf(err)
	requestID := requestcontext.RequestID(ctx)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "failed to "+action, "error", err, "request_id", requestID)
	} else {
		h.logger.WarnContext(ctx, action+" rejected", "code", string(code), "request_id", requestID)
	}
	httputil.WriteError(w, err)
}
