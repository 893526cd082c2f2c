package branch

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	apperrors "github.com/rupeedesk/cbs-admin/internal"
	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/permission"
	"github.com/rupeedesk/cbs-admin/internal/transport"
)

type ServiceAPI interface {
	List() ([]*Branch, error)
	Create(dto CreateBranchDTO, actorRole permission.Role) (*Branch, error)
	Delete(code string, actorRole permission.Role) (*Branch, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

// ListBranches handles GET /branches
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Service.List()
	if err != nil {
		h.Logger.Error("failed to list branches", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": branches})
}

// CreateBranch handles POST /branches
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateBranchDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(dto, actor.Role)
	if err != nil {
		h.writeServiceError(w, err, actor.ID)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// DeleteBranch handles DELETE /branches/{code}
func (h *Handler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.UserFromContext(r.Context())
	if !ok || actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	code := chi.URLParam(r, "code")
	deleted, err := h.Service.Delete(code, actor.Role)
	if err != nil {
		h.writeServiceError(w, err, actor.ID)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": deleted.Name + " branch removed. Associated staff and managers were removed.",
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, actorID string) {
	var validationErr ValidationError
	switch {
	case errors.Is(err, ErrNotPermitted):
		h.Logger.Warn("branch operation denied", "actor_id", actorID)
		h.HandleError(w, apperrors.NewForbiddenError(err.Error(), apperrors.ErrCodeBranchNotPermitted))
	case errors.Is(err, ErrAlreadyExists):
		h.HandleError(w, apperrors.NewConflictError(err.Error(), apperrors.ErrCodeBranchExists))
	case errors.Is(err, ErrNotFound):
		h.HandleError(w, apperrors.NewNotFoundError(err.Error(), apperrors.ErrCodeBranchNotFound))
	case errors.As(err, &validationErr):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed))
	default:
		h.Logger.Error("branch operation failed", "error", err, "actor_id", actorID)
		h.HandleError(w, apperrors.NewInternalError("internal server error", err))
	}
}
