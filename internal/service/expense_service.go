package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/calculator"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// ExpenseService creates and lists expenses and records manual payments
// against splits.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// CreateExpenseInput is the caller-supplied expense definition.
type CreateExpenseInput struct {
	Description string               `json:"description"`
	Amount      float64              `json:"amount"`
	Date        int64                `json:"date,omitempty"`
	PaidBy      string               `json:"paid_by,omitempty"`
	SplitType   models.SplitType     `json:"split_type"`
	Splits      []models.SplitConfig `json:"splits"`
}

// CreateExpense validates the split configuration, calculates the
// per-participant shares, and persists the expense with its splits in
// one atomic write.
func (s *ExpenseService) CreateExpense(ctx context.Context, groupID, actorID string, in CreateExpenseInput) (*models.Expense, error) {
	if in.Amount <= 0 {
		return nil, models.Validationf("amount must be greater than 0")
	}
	if in.Description == "" {
		return nil, models.Validationf("description is required")
	}

	group, _, err := authorize(ctx, s.store, groupID, actorID, models.CapAddExpense)
	if err != nil {
		return nil, err
	}

	paidBy := in.PaidBy
	if paidBy == "" {
		paidBy = actorID
	}
	if activeMember(group, paidBy) == nil {
		return nil, models.Validationf("payer %s is not an active member of the group", paidBy)
	}
	for _, c := range in.Splits {
		if activeMember(group, c.UserID) == nil {
			return nil, models.Validationf("participant %s is not an active member of the group", c.UserID)
		}
	}

	// Validation is a separate step from calculation: the calculator
	// applies whatever configuration it is given.
	if err := calculator.ValidateSplits(in.SplitType, in.Splits, in.Amount); err != nil {
		return nil, err
	}
	shares, err := calculator.CalculateSplits(in.Amount, in.SplitType, in.Splits)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     groupID,
		Description: in.Description,
		Amount:      in.Amount,
		Date:        in.Date,
		PaidBy:      paidBy,
		SplitType:   in.SplitType,
	}
	for _, share := range shares {
		expense.Splits = append(expense.Splits, models.Split{
			UserID: share.UserID,
			Amount: share.Amount,
			// The payer's own share is settled the moment they front the
			// money. Without this the group's net balances would not sum
			// to zero.
			IsPaid: share.UserID == paidBy,
		})
	}

	err = s.store.RunAtomic(ctx, func(st storage.Store) error {
		if err := st.CreateExpense(ctx, expense); err != nil {
			return err
		}
		for i := range expense.Splits {
			split := &expense.Splits[i]
			if !split.IsPaid || split.Amount <= 0 {
				continue
			}
			payment := &models.Payment{
				SplitID: split.ID,
				PaidBy:  split.UserID,
				Amount:  split.Amount,
				Method:  "self",
				Date:    expense.Date,
			}
			if err := st.CreatePayment(ctx, payment); err != nil {
				return err
			}
			split.Payments = append(split.Payments, *payment)
		}
		return st.AppendActivity(ctx, &models.ActivityEntry{
			GroupID: groupID,
			UserID:  actorID,
			Action:  "expense_created",
			Details: fmt.Sprintf("%s (%.2f)", in.Description, in.Amount),
		})
	})
	if err != nil {
		slog.Error("CreateExpense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	return expense, nil
}

// ListExpenses retrieves the group's expenses with splits and payments
// nested.
func (s *ExpenseService) ListExpenses(ctx context.Context, groupID, userID string) ([]models.Expense, error) {
	if _, _, err := authorize(ctx, s.store, groupID, userID, models.CapView); err != nil {
		return nil, err
	}
	return s.store.ListExpenses(ctx, groupID)
}

// RecordPaymentInput is a manual payment against one split.
type RecordPaymentInput struct {
	SplitID string  `json:"split_id"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method,omitempty"`
	Notes   string  `json:"notes,omitempty"`
}

// RecordPayment records a partial or full payment toward a split. The
// recording path refuses to push the payment total past the split
// amount; the balance engine downstream still tolerates overpayment
// defensively.
func (s *ExpenseService) RecordPayment(ctx context.Context, groupID, actorID string, in RecordPaymentInput) (*models.Payment, error) {
	if in.Amount <= 0 {
		return nil, models.Validationf("amount must be greater than 0")
	}
	if in.SplitID == "" {
		return nil, models.Validationf("split_id is required")
	}

	if _, _, err := authorize(ctx, s.store, groupID, actorID, models.CapSettle); err != nil {
		return nil, err
	}

	split, err := s.store.GetSplit(ctx, in.SplitID)
	if err != nil {
		return nil, err
	}
	expense, err := s.store.GetExpense(ctx, split.ExpenseID)
	if err != nil {
		return nil, err
	}
	if expense.GroupID != groupID {
		return nil, fmt.Errorf("split %s in group %s: %w", in.SplitID, groupID, models.ErrNotFound)
	}

	remaining := split.Remaining()
	if in.Amount > remaining+calculator.Epsilon {
		return nil, models.Validationf("payment %.2f exceeds the remaining %.2f on this split", in.Amount, remaining)
	}

	method := in.Method
	if method == "" {
		method = "manual"
	}
	payment := &models.Payment{
		SplitID: in.SplitID,
		PaidBy:  actorID,
		Amount:  in.Amount,
		Method:  method,
		Notes:   in.Notes,
	}

	err = s.store.RunAtomic(ctx, func(st storage.Store) error {
		if err := st.CreatePayment(ctx, payment); err != nil {
			return err
		}
		if remaining-in.Amount <= calculator.Epsilon {
			if err := st.MarkSplitsPaid(ctx, []string{split.ID}); err != nil {
				return err
			}
		}
		return st.AppendActivity(ctx, &models.ActivityEntry{
			GroupID: groupID,
			UserID:  actorID,
			Action:  "payment_recorded",
			Details: fmt.Sprintf("%.2f toward split %s", in.Amount, split.ID),
		})
	})
	if err != nil {
		slog.Error("RecordPayment failed", "group_id", groupID, "split_id", in.SplitID, "error", err)
		return nil, err
	}

	return payment, nil
}
