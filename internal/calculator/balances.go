package calculator

import "github.com/splitpot/splitpot/internal/models"

// Transaction is one split a member participates in, carried on their
// balance for display and for relating settlements back to expenses.
type Transaction struct {
	ExpenseID   string  `json:"expense_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	IsPaid      bool    `json:"is_paid"`
	DueDate     int64   `json:"due_date"`
}

// Balance is one member's derived position within a group. It is
// computed fresh per request and never persisted.
type Balance struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`

	// TotalOwed is the gross sum of this member's split amounts across
	// all expenses they participate in, minus their recorded payments.
	TotalOwed float64 `json:"total_owed"`

	// TotalOwing is what other members owe this member: the sum of
	// others' split amounts on expenses this member paid for.
	TotalOwing float64 `json:"total_owing"`

	// NetBalance is TotalOwing - TotalOwed. Positive means others owe
	// this member net; negative means this member owes net.
	NetBalance float64 `json:"net_balance"`

	Transactions []Transaction `json:"transactions"`
}

// CalculateBalances aggregates a group's full expense, split, and
// payment history into one net balance per member.
//
// Payments reduce the paying member's TotalOwed only; the original
// payer's TotalOwing is left untouched. This asymmetry is deliberate
// and load-bearing for compatibility: a creditor's TotalOwing shrinks
// only when debts are resolved through settlements, not through raw
// payment rows.
//
// Defensive behavior: a payment whose split ID matches no split in the
// supplied expenses is ignored, and members with no activity still
// appear with all-zero fields.
func CalculateBalances(expenses []models.Expense, payments []models.Payment, members []models.Member) []Balance {
	index := make(map[string]*Balance, len(members))
	ordered := make([]*Balance, 0, len(members))
	for _, m := range members {
		b := &Balance{
			UserID:       m.UserID,
			Name:         m.Name,
			Email:        m.Email,
			Transactions: []Transaction{},
		}
		index[m.UserID] = b
		ordered = append(ordered, b)
	}

	// splitOwner maps split ID to the member who owes it, for payment
	// attribution below.
	splitOwner := make(map[string]string)

	for _, e := range expenses {
		var othersOwed float64
		for _, s := range e.Splits {
			splitOwner[s.ID] = s.UserID
			if s.UserID != e.PaidBy {
				othersOwed += s.Amount
			}

			b, ok := index[s.UserID]
			if !ok {
				continue
			}
			b.TotalOwed += s.Amount
			b.Transactions = append(b.Transactions, Transaction{
				ExpenseID:   e.ID,
				Description: e.Description,
				Amount:      s.Amount,
				IsPaid:      s.IsPaid,
				DueDate:     e.Date,
			})
		}
		if payer, ok := index[e.PaidBy]; ok {
			payer.TotalOwing += othersOwed
		}
	}

	for _, p := range payments {
		owner, ok := splitOwner[p.SplitID]
		if !ok {
			continue
		}
		if b, ok := index[owner]; ok {
			b.TotalOwed -= p.Amount
		}
	}

	result := make([]Balance, 0, len(ordered))
	for _, b := range ordered {
		b.NetBalance = b.TotalOwing - b.TotalOwed
		result = append(result, *b)
	}
	return result
}
