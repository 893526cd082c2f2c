package approval

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rupeedesk/cbs-admin/internal/transport"
)

// Approval is a pending maker-checker workflow item. The queue is a static
// placeholder until the workflow engine lands.
type Approval struct {
	ID      string `json:"id"`
	Request string `json:"request"`
	By      string `json:"by"`
	Branch  string `json:"branch"`
	SLA     string `json:"sla"`
	Status  string `json:"status"`
}

var pendingQueue = []Approval{
	{ID: "APR-4012", Request: "Account Opening", By: "Neha Singh", Branch: "South Extension", SLA: "14 mins", Status: "Waiting"},
	{ID: "APR-4013", Request: "High Value Transfer", By: "Dev Sharma", Branch: "South Extension", SLA: "5 mins", Status: "Escalated"},
	{ID: "APR-4014", Request: "Credit Limit Enhancement", By: "Kunal Rao", Branch: "Connaught Place", SLA: "26 mins", Status: "Waiting"},
}

type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(nil)}
}

// ListApprovals handles GET /approvals
func (h *Handler) ListApprovals(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": pendingQueue})
}

// ListPending handles GET /approvals/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []Approval{}})
}

// ListHistory handles GET /approvals/history
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []Approval{}})
}

// ListMyRequests handles GET /approvals/my-requests
func (h *Handler) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []Approval{}})
}

// GetApproval handles GET /approvals/{id}
func (h *Handler) GetApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]string{"id": id, "status": "Waiting"},
	})
}

// Approve handles POST /approvals/{id}/approve
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Approved"})
}

// Reject handles POST /approvals/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Rejected"})
}
