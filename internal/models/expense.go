package models

// SplitType selects the strategy used to divide an expense among its
// participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitCustom     SplitType = "custom"
	SplitShares     SplitType = "shares"
)

// Expense is a cost advanced by one member (PaidBy) on behalf of the
// group. The total is divided into Splits, one per participant.
type Expense struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"group_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        int64     `json:"date"`
	PaidBy      string    `json:"paid_by"`
	SplitType   SplitType `json:"split_type"`
	Splits      []Split   `json:"splits,omitempty"`
	CreatedAt   int64     `json:"created_at"`
}

// Split is one participant's share of an expense.
//
// IsPaid is derived state: true once payments recorded against this
// split cover its amount. The settlement executor flips it; it is never
// set directly by callers.
type Split struct {
	ID        string    `json:"id"`
	ExpenseID string    `json:"expense_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	IsPaid    bool      `json:"is_paid"`
	Payments  []Payment `json:"payments,omitempty"`
}

// Remaining returns the unpaid portion of the split. Overpayment is
// clamped to zero.
func (s *Split) Remaining() float64 {
	remaining := s.Amount
	for _, p := range s.Payments {
		remaining -= p.Amount
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Payment records an amount paid toward a specific split. Several
// partial payments may target the same split.
type Payment struct {
	ID      string  `json:"id"`
	SplitID string  `json:"split_id"`
	PaidBy  string  `json:"paid_by"`
	Amount  float64 `json:"amount"`
	Method  string  `json:"method"`
	Notes   string  `json:"notes,omitempty"`
	Date    int64   `json:"date"`
}

// SplitConfig is the caller-supplied configuration for one participant
// when creating an expense. Which field matters depends on the split
// type: Percentage for percentage splits, Shares for share-based
// splits, Amount for custom splits. Equal splits need only the UserID.
type SplitConfig struct {
	UserID     string  `json:"user_id"`
	Percentage float64 `json:"percentage,omitempty"`
	Shares     float64 `json:"shares,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
}
