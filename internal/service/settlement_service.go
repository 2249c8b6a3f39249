package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// defaultSettleMethod is recorded when the caller does not name one.
const defaultSettleMethod = "settlement"

// SettlementService executes settlements: it records payments against
// the underlying splits, flips their paid state, and appends the audit
// Settlement record, all within one storage transaction.
type SettlementService struct {
	store storage.Store
}

// NewSettlementService creates a new SettlementService with the given
// storage backend.
func NewSettlementService(store storage.Store) *SettlementService {
	return &SettlementService{store: store}
}

// SettleInput is one settlement to execute, suggested or manual.
type SettleInput struct {
	FromUserID      string   `json:"from_user_id"`
	ToUserID        string   `json:"to_user_id"`
	Amount          float64  `json:"amount"`
	RelatedExpenses []string `json:"related_expenses"`
	IsNetted        bool     `json:"is_netted,omitempty"`
	Method          string   `json:"method,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

func (s *SettlementService) validateInput(group *models.Group, in SettleInput) error {
	if in.Amount <= 0 {
		return models.Validationf("amount must be greater than 0")
	}
	if in.FromUserID == "" || in.ToUserID == "" {
		return models.Validationf("from_user_id and to_user_id are required")
	}
	if in.FromUserID == in.ToUserID {
		return models.Validationf("cannot settle with yourself")
	}
	if activeMember(group, in.FromUserID) == nil {
		return models.Validationf("user %s is not an active member of the group", in.FromUserID)
	}
	if activeMember(group, in.ToUserID) == nil {
		return models.Validationf("user %s is not an active member of the group", in.ToUserID)
	}
	return nil
}

// Settle executes one settlement atomically. If anything fails mid-way
// the whole write set rolls back: no partial payments, no partially
// flipped splits, no orphaned audit record.
func (s *SettlementService) Settle(ctx context.Context, groupID, actorID string, in SettleInput) (*models.Settlement, error) {
	group, _, err := authorize(ctx, s.store, groupID, actorID, models.CapSettle)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(group, in); err != nil {
		return nil, err
	}

	var settlement *models.Settlement
	err = s.store.RunAtomic(ctx, func(st storage.Store) error {
		var applyErr error
		settlement, applyErr = applySettlement(ctx, st, groupID, actorID, in)
		return applyErr
	})
	if err != nil {
		slog.Error("Settle failed", "group_id", groupID, "from", in.FromUserID, "to", in.ToUserID, "error", err)
		return nil, err
	}
	return settlement, nil
}

// SettleBulk executes an ordered list of settlements within one larger
// atomic unit. A failure anywhere aborts the whole batch.
func (s *SettlementService) SettleBulk(ctx context.Context, groupID, actorID string, inputs []SettleInput) ([]*models.Settlement, error) {
	if len(inputs) == 0 {
		return nil, models.Validationf("at least one settlement is required")
	}

	group, _, err := authorize(ctx, s.store, groupID, actorID, models.CapSettle)
	if err != nil {
		return nil, err
	}
	for i, in := range inputs {
		if err := s.validateInput(group, in); err != nil {
			return nil, fmt.Errorf("settlement %d: %w", i, err)
		}
	}

	settlements := make([]*models.Settlement, 0, len(inputs))
	err = s.store.RunAtomic(ctx, func(st storage.Store) error {
		for i, in := range inputs {
			settlement, applyErr := applySettlement(ctx, st, groupID, actorID, in)
			if applyErr != nil {
				return fmt.Errorf("settlement %d: %w", i, applyErr)
			}
			settlements = append(settlements, settlement)
		}
		return nil
	})
	if err != nil {
		slog.Error("SettleBulk failed", "group_id", groupID, "count", len(inputs), "error", err)
		return nil, err
	}
	return settlements, nil
}

// ListSettlements retrieves the group's settlement audit records.
func (s *SettlementService) ListSettlements(ctx context.Context, groupID, userID string) ([]*models.Settlement, error) {
	if _, _, err := authorize(ctx, s.store, groupID, userID, models.CapView); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// applySettlement runs inside an atomic storage scope. It records the
// audit Settlement, creates payments covering the remaining amounts on
// the splits the settlement resolves, and flips those splits to paid.
//
// Regular mode resolves only the debtor's splits within the related
// expenses. Netted mode resolves debts in both directions between the
// two members at once, so a pair can clear mutual debts with a single
// transfer of the difference.
func applySettlement(ctx context.Context, st storage.Store, groupID, actorID string, in SettleInput) (*models.Settlement, error) {
	method := in.Method
	if method == "" {
		method = defaultSettleMethod
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		Amount:     in.Amount,
		Method:     method,
		Notes:      in.Notes,
		CreatedBy:  actorID,
	}
	if err := st.CreateSettlement(ctx, settlement); err != nil {
		return nil, err
	}

	expenses, err := st.ListExpenses(ctx, groupID)
	if err != nil {
		return nil, err
	}
	related := make(map[string]bool, len(in.RelatedExpenses))
	for _, id := range in.RelatedExpenses {
		related[id] = true
	}

	var toMark []string
	for _, e := range expenses {
		if !related[e.ID] {
			continue
		}
		for i := range e.Splits {
			split := &e.Splits[i]

			var owes bool
			if in.IsNetted {
				// Both directions between the pair, skipping splits
				// already flagged paid.
				fromOwes := split.UserID == in.FromUserID && e.PaidBy == in.ToUserID
				toOwes := split.UserID == in.ToUserID && e.PaidBy == in.FromUserID
				owes = (fromOwes || toOwes) && !split.IsPaid
			} else {
				owes = split.UserID == in.FromUserID
			}
			if !owes {
				continue
			}

			remaining := split.Remaining()
			if remaining <= 0 {
				continue
			}

			payment := &models.Payment{
				SplitID: split.ID,
				PaidBy:  split.UserID,
				Amount:  remaining,
				Method:  method,
				Date:    settlement.SettledAt,
			}
			if err := st.CreatePayment(ctx, payment); err != nil {
				return nil, err
			}
			toMark = append(toMark, split.ID)
		}
	}

	if err := st.MarkSplitsPaid(ctx, toMark); err != nil {
		return nil, err
	}

	entry := &models.ActivityEntry{
		GroupID: groupID,
		UserID:  actorID,
		Action:  "settlement_recorded",
		Details: fmt.Sprintf("%s paid %s %.2f", in.FromUserID, in.ToUserID, in.Amount),
	}
	if err := st.AppendActivity(ctx, entry); err != nil {
		return nil, err
	}

	return settlement, nil
}
