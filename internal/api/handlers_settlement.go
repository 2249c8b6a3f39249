package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"
)

// GetBalances handles GET /api/groups/{groupID}/balances.
func (h *Handlers) GetBalances(w http.ResponseWriter, r *http.Request) {
	result, err := h.balances.GetGroupBalances(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type settleResponse struct {
	Success    bool               `json:"success"`
	Settlement *models.Settlement `json:"settlement"`
}

// Settle handles POST /api/groups/{groupID}/settlements.
func (h *Handlers) Settle(w http.ResponseWriter, r *http.Request) {
	var req service.SettleInput
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	settlement, err := h.settlements.Settle(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settleResponse{Success: true, Settlement: settlement})
}

type settleBulkRequest struct {
	Settlements []service.SettleInput `json:"settlements"`
}

type settleBulkResponse struct {
	Success     bool                 `json:"success"`
	Settlements []*models.Settlement `json:"settlements"`
	Count       int                  `json:"count"`
}

// SettleBulk handles POST /api/groups/{groupID}/settlements/bulk.
func (h *Handlers) SettleBulk(w http.ResponseWriter, r *http.Request) {
	var req settleBulkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	settlements, err := h.settlements.SettleBulk(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req.Settlements)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settleBulkResponse{
		Success:     true,
		Settlements: settlements,
		Count:       len(settlements),
	})
}

// ListSettlements handles GET /api/groups/{groupID}/settlements.
func (h *Handlers) ListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.settlements.ListSettlements(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if settlements == nil {
		settlements = []*models.Settlement{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}
