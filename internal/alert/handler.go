package alert

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
	Create(dto CreateAlertDTO, creator Creator) (*Alert, error)
	ListFor(viewerID string, viewerRole permission.Role) ([]*Alert, error)
	MarkSeen(viewerID, alertID string) error
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

// ListAlerts handles GET /alerts
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	alerts, err := h.Service.ListFor(viewer.ID, viewer.Role)
	if err != nil {
		h.Logger.Error("failed to list alerts", "viewer_id", viewer.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": alerts})
}

// CreateAlert handles POST /alerts
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	creator, ok := auth.UserFromContext(r.Context())
	if !ok || creator == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateAlertDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.Create(dto, Creator{
		ID:   creator.ID,
		Name: creator.FullName,
		Role: creator.Role,
	})
	if err != nil {
		h.writeServiceError(w, err, creator.ID)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

// MarkSeen handles POST /alerts/{id}/seen
func (h *Handler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	alertID := chi.URLParam(r, "id")
	if err := h.Service.MarkSeen(viewer.ID, alertID); err != nil {
		h.writeServiceError(w, err, viewer.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error, actorID string) {
	var validationErr ValidationError
	switch {
	case errors.Is(err, ErrNotPermitted):
		h.Logger.Warn("alert operation denied", "actor_id", actorID)
		h.HandleError(w, apperrors.NewForbiddenError(err.Error(), apperrors.ErrCodeAlertNotPermitted))
	case errors.Is(err, ErrNotFound):
		h.HandleError(w, apperrors.NewNotFoundError(err.Error(), apperrors.ErrCodeAlertNotFound))
	case errors.Is(err, ErrNoAudience):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeAudienceRequired))
	case errors.As(err, &validationErr):
		h.HandleError(w, apperrors.NewValidationError(err.Error(), apperrors.ErrCodeValidationFailed))
	default:
		h.Logger.Error("alert operation failed", "error", err, "actor_id", actorID)
		h.HandleError(w, apperrors.NewInternalError("internal server error", err))
	}
}
