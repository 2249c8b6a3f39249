package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/calculator"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// BalanceService runs the balance and settlement engine over a group's
// current storage state. Balances are a pure read computed fresh per
// request.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// Summary rolls up group-wide totals together with the caller's own
// position.
type Summary struct {
	TotalExpenses float64 `json:"total_expenses"`
	TotalPaid     float64 `json:"total_paid"`
	TotalOwed     float64 `json:"total_owed"`
	TotalOwing    float64 `json:"total_owing"`
}

// GroupBalances is the full balance view for a group: every member's
// balance, the suggested transfers that would settle the group, the
// caller's own balance, and summary totals.
type GroupBalances struct {
	Balances    []calculator.Balance    `json:"balances"`
	Settlements []calculator.Suggestion `json:"settlements"`
	UserBalance *calculator.Balance     `json:"user_balance,omitempty"`
	Summary     Summary                 `json:"summary"`
}

// GetGroupBalances aggregates the group's expenses, payments, and
// members into per-member balances and settlement suggestions.
func (s *BalanceService) GetGroupBalances(ctx context.Context, groupID, userID string) (*GroupBalances, error) {
	if _, _, err := authorize(ctx, s.store, groupID, userID, models.CapView); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpenses(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances: failed to load expenses", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	payments, err := s.store.ListPayments(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances: failed to load payments", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}
	members, err := s.store.ListActiveMembers(ctx, groupID)
	if err != nil {
		slog.Error("GetGroupBalances: failed to load members", "group_id", groupID, "error", err)
		return nil, fmt.Errorf("failed to aggregate balances: %w", err)
	}

	balances := calculator.CalculateBalances(expenses, payments, members)
	suggestions := calculator.GenerateSettlementSuggestions(balances)

	result := &GroupBalances{
		Balances:    balances,
		Settlements: suggestions,
	}
	for i := range balances {
		if balances[i].UserID == userID {
			result.UserBalance = &balances[i]
			result.Summary.TotalOwed = balances[i].TotalOwed
			result.Summary.TotalOwing = balances[i].TotalOwing
		}
	}
	for _, e := range expenses {
		result.Summary.TotalExpenses += e.Amount
	}
	for _, p := range payments {
		result.Summary.TotalPaid += p.Amount
	}

	return result, nil
}
