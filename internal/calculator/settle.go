package calculator

import (
	"math"
	"sort"
)

// suggestionReason is attached to every generated transfer.
const suggestionReason = "Net settlement to minimize transactions"

// Suggestion is a proposed single transfer between two members.
// Applying a full suggestion list brings every balance within a cent of
// zero.
type Suggestion struct {
	FromUserID      string   `json:"from_user_id"`
	ToUserID        string   `json:"to_user_id"`
	FromUserName    string   `json:"from_user_name"`
	ToUserName      string   `json:"to_user_name"`
	Amount          float64  `json:"amount"`
	Reason          string   `json:"reason"`
	RelatedExpenses []string `json:"related_expenses"`
}

// workingBalance is a mutable copy used while netting. Suggestions are
// generated on these copies so the caller's balances are never touched;
// the engine runs per request in a concurrent server.
type workingBalance struct {
	userID  string
	name    string
	net     float64
	related []string
}

// GenerateSettlementSuggestions emits a minimal list of pairwise
// transfers that would zero out every balance, using greedy debt
// netting: the largest creditor is repeatedly matched against the
// largest debtor. For c creditors and d debtors at most c+d-1 transfers
// are produced.
func GenerateSettlementSuggestions(balances []Balance) []Suggestion {
	var creditors, debtors []*workingBalance
	for _, b := range balances {
		switch {
		case b.NetBalance > Epsilon:
			creditors = append(creditors, newWorkingBalance(b))
		case b.NetBalance < -Epsilon:
			debtors = append(debtors, newWorkingBalance(b))
		}
	}

	sort.Slice(creditors, func(i, j int) bool { return creditors[i].net > creditors[j].net })
	sort.Slice(debtors, func(i, j int) bool { return debtors[i].net < debtors[j].net })

	suggestions := []Suggestion{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		transfer := math.Min(creditor.net, -debtor.net)
		if transfer > Epsilon {
			suggestions = append(suggestions, Suggestion{
				FromUserID:      debtor.userID,
				ToUserID:        creditor.userID,
				FromUserName:    debtor.name,
				ToUserName:      creditor.name,
				Amount:          Round2(transfer),
				Reason:          suggestionReason,
				RelatedExpenses: unionExpenses(debtor.related, creditor.related),
			})
		}

		creditor.net -= transfer
		debtor.net += transfer

		if -debtor.net < Epsilon {
			i++
		}
		if creditor.net < Epsilon {
			j++
		}
	}

	return suggestions
}

func newWorkingBalance(b Balance) *workingBalance {
	w := &workingBalance{
		userID: b.UserID,
		name:   b.Name,
		net:    b.NetBalance,
	}
	for _, tx := range b.Transactions {
		if !tx.IsPaid {
			w.related = append(w.related, tx.ExpenseID)
		}
	}
	return w
}

// unionExpenses merges two expense ID lists, keeping first-seen order.
func unionExpenses(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	union := make([]string, 0, len(a)+len(b))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			union = append(union, id)
		}
	}
	for _, id := range b {
		if !seen[id] {
			seen[id] = true
			union = append(union, id)
		}
	}
	return union
}
