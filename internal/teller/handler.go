package teller

import (
	"net/http"

	"github.com/rupeedesk/cbs-admin/internal/transport"
)

// Handler serves the teller counter endpoints. Balances are fixed sample
// figures until the core ledger integration is wired.
type Handler struct {
	*transport.BaseHandler
}

func NewHandler() *Handler {
	return &Handler{BaseHandler: transport.NewBaseHandler(nil)}
}

// OpenCounter handles POST /teller/open
func (h *Handler) OpenCounter(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Counter opened"})
}

// CloseCounter handles POST /teller/close
func (h *Handler) CloseCounter(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Counter closed"})
}

// CashPosition handles GET /teller/cash-position
func (h *Handler) CashPosition(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]int64{"vault": 1000000, "counter": 250000},
	})
}

// CashReceive handles POST /teller/cash-receive
func (h *Handler) CashReceive(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cash received"})
}

// CashTransfer handles POST /teller/cash-transfer
func (h *Handler) CashTransfer(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "Cash transferred"})
}

// VaultBalance handles GET /teller/vault-balance
func (h *Handler) VaultBalance(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]int64{"balance": 5000000},
	})
}

// EODReport handles GET /teller/eod-report
func (h *Handler) EODReport(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"data": []interface{}{}})
}

// Denomination handles GET /teller/denomination
func (h *Handler) Denomination(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data": []int{2000, 500, 200, 100, 50, 20, 10},
	})
}
