package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	apperrors "github.com/rupeedesk/cbs-admin/internal"
	"github.com/rupeedesk/cbs-admin/internal/auth"
	"github.com/rupeedesk/cbs-admin/internal/transport"
)

type ServiceAPI interface {
	GetByID(id string) (*User, error)
	ListFor(viewer Actor) ([]*User, error)
	Create(dto CreateUserDTO, creator Actor) (*User, error)
	Lock(id string, actor Actor) (*User, error)
	Unlock(id string, actor Actor) (*User, error)
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

func actorFrom(r *http.Request) (Actor, bool) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok || u == nil {
		return Actor{}, false
	}
	return Actor{ID: u.ID, Role: u.Role}, true
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(actor.ID)
	if err != nil {
		h.Logger.Error("failed to load current user", "user_id", actor.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	users, err := h.Service.ListFor(actor)
	if err != nil {
		h.Logger.Error("failed to list users", "viewer_id", actor.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(dto, actor)
	if err != nil {
		h.writeServiceError(w, err, actor.ID)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// LockUser handles PATCH /users/{id}/lock
func (h *Handler) LockUser(w http.ResponseWriter, r *http.Request) {
	h.toggleLock(w, r, true)
}

// UnlockUser handles PATCH /users/{id}/unlock
func (h *Handler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	h.toggleLock(w, r, false)
}

func (h *Handler) toggleLock(w http.ResponseWriter, r *http.Request, lock bool) {
	actor, ok := actorFrom(r)
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var (
		updated *User
		err     error
	)
	if lock {
		updated, err = h.Service.Lock(id, actor)
	} else {
		updated, err = h.Service.Unlock(id, actor)
	}
	if err != nil {
		h.writeServiceError(w, err, actor.ID)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, actorID string) {
	var validationErr ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		h.HandleError(w, apperrors.NewNotFoundError(err.Error(), apperrors.ErrCodeUserNotFound))
	case errors.Is(err, ErrUsernameTaken):
		h.HandleError(w, apperrors.NewConflictError(err.Error(), apperrors.ErrCodeUsernameTaken))
	case errors.Is(err, ErrCreationNotAllowed):
		h.Logger.Warn("directory operation denied", "actor_id", actorID, "error", err)
		h.HandleError(w, apperrors.NewForbiddenError(err.Error(), apperrors.ErrCodeCreationNotAllowed))
	case errors.Is(err, ErrLockNotAllowed):
		h.Logger.Warn("directory operation denied", "actor_id", actorID, "error", err)
		h.HandleError(w, apperrors.NewForbiddenError(err.Error(), apperrors.ErrCodeLockNotAllowed))
	case errors.Is(err, ErrBranchRequired):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeBranchRequired))
	case errors.Is(err, ErrInvalidBranch):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeBranchRequired))
	case errors.Is(err, ErrManagerExists):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeManagerExists))
	case errors.Is(err, ErrStaffCapacity):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeStaffCapacity))
	case errors.Is(err, ErrDepartmentsRequired), errors.Is(err, ErrTooManyDepartments):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeDepartmentsInvalid))
	case errors.As(err, &validationErr):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed))
	default:
		h.Logger.Error("directory operation failed", "error", err, "actor_id", actorID)
		h.HandleError(w, apperrors.NewInternalError("internal server error", err))
	}
}
