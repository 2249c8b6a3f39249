// Package api exposes the service layer over a JSON HTTP surface.
// Handlers parse requests, call the matching service method, and map
// domain errors onto status codes. No business logic lives here.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/service"
)

// Handlers holds the application services the HTTP layer dispatches to.
type Handlers struct {
	groups      *service.GroupService
	expenses    *service.ExpenseService
	balances    *service.BalanceService
	settlements *service.SettlementService
}

// NewHandlers creates the handler set from the application services.
func NewHandlers(
	groups *service.GroupService,
	expenses *service.ExpenseService,
	balances *service.BalanceService,
	settlements *service.SettlementService,
) *Handlers {
	return &Handlers{
		groups:      groups,
		expenses:    expenses,
		balances:    balances,
		settlements: settlements,
	}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
// Validation reasons are surfaced verbatim; unexpected failures are
// logged server-side and returned as a generic 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Reason, "")
	case errors.Is(err, models.ErrInvalidSplitType):
		writeError(w, http.StatusBadRequest, "invalid split type", err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "")
	case errors.Is(err, models.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "permission denied", "")
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", "")
	}
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return models.Validationf("invalid request body: %v", err)
	}
	return nil
}
