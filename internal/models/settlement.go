package models

// Settlement is an append-only audit record that a transfer between two
// members logically happened. It never moves money itself; executing a
// settlement creates Payments against the splits it resolves.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string `json:"from_user_id"`

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string `json:"to_user_id"`

	// Amount is the payment amount.
	Amount float64 `json:"amount"`

	// Method is how the transfer happened (cash, bank transfer, ...).
	Method string `json:"method"`

	// Notes is an optional description for the settlement.
	Notes string `json:"notes,omitempty"`

	// SettledAt is the Unix timestamp when the settlement was recorded.
	SettledAt int64 `json:"settled_at"`

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string `json:"created_by"`
}

// ActivityEntry is one row of the append-only group activity log.
type ActivityEntry struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details,omitempty"`
	CreatedAt int64  `json:"created_at"`
}
