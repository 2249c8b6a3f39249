package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"
)

// CreateExpense handles POST /api/groups/{groupID}/expenses.
func (h *Handlers) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req service.CreateExpenseInput
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	expense, err := h.expenses.CreateExpense(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

// ListExpenses handles GET /api/groups/{groupID}/expenses.
func (h *Handlers) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.ListExpenses(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

// RecordPayment handles POST /api/groups/{groupID}/payments.
func (h *Handlers) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req service.RecordPaymentInput
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	payment, err := h.expenses.RecordPayment(r.Context(), chi.URLParam(r, "groupID"), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}
