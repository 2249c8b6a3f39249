// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/splitpot/splitpot/internal/models"
)

// Store defines the persistence operations the service layer needs.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the services, and lets tests run against a
// throwaway database.
//
// Reads return fully hydrated aggregates: expenses carry their splits,
// splits carry their payments.
type Store interface {
	// CreateGroup persists a new group together with its initial
	// members. The group ID is generated if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with all its members (active and
	// inactive). Returns models.ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByUser retrieves every group the user is an active
	// member of.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds (or reactivates) a member of a group.
	AddMember(ctx context.Context, groupID string, member *models.Member) error

	// DeactivateMember marks a member inactive without deleting their
	// history.
	DeactivateMember(ctx context.Context, groupID, userID string) error

	// ListActiveMembers retrieves the active members of a group.
	ListActiveMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// GetMember retrieves one member row, active or not. Returns
	// models.ErrNotFound if the user never joined the group.
	GetMember(ctx context.Context, groupID, userID string) (*models.Member, error)

	// CreateExpense persists an expense and its splits in one write set.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves one expense with nested splits and payments.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses retrieves a group's expenses with nested splits and
	// payments, newest first.
	ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error)

	// CreatePayment persists a payment against a split.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPayments retrieves every payment recorded against the group's
	// splits.
	ListPayments(ctx context.Context, groupID string) ([]models.Payment, error)

	// GetSplit retrieves one split with its payments.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// MarkSplitsPaid bulk-flips is_paid on the given split IDs.
	MarkSplitsPaid(ctx context.Context, splitIDs []string) error

	// CreateSettlement appends a settlement audit record.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup retrieves a group's settlement records,
	// newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// AppendActivity appends an activity log entry.
	AppendActivity(ctx context.Context, entry *models.ActivityEntry) error

	// ListActivityByGroup retrieves a group's activity log, newest first.
	ListActivityByGroup(ctx context.Context, groupID string) ([]*models.ActivityEntry, error)

	// RunAtomic executes fn with a Store whose writes either all commit
	// or all roll back. Calling RunAtomic on a store that is already
	// inside an atomic scope joins the existing one.
	RunAtomic(ctx context.Context, fn func(Store) error) error

	// Close releases any resources held by the store.
	Close() error
}
