package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "splitpot-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreGroups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and timestamps", func(t *testing.T) {
		group := &models.Group{
			Name:      "Trip to Lisbon",
			CreatedBy: "alice",
			Members: []models.Member{
				{UserID: "alice", Name: "Alice", Email: "alice@example.com", Role: models.RoleOwner, Active: true},
				{UserID: "bob", Name: "Bob", Email: "bob@example.com", Role: models.RoleMember, Active: true},
			},
		}

		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		retrieved, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if retrieved.Name != "Trip to Lisbon" {
			t.Errorf("Name = %q, want %q", retrieved.Name, "Trip to Lisbon")
		}
		if len(retrieved.Members) != 2 {
			t.Fatalf("got %d members, want 2", len(retrieved.Members))
		}
		if retrieved.Members[0].Role != models.RoleOwner {
			t.Errorf("first member role = %q, want owner", retrieved.Members[0].Role)
		}
	})

	t.Run("GetGroup returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "no-such-group")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListGroupsByUser excludes inactive membership", func(t *testing.T) {
		group := &models.Group{
			Name:      "Flatmates",
			CreatedBy: "carol",
			Members: []models.Member{
				{UserID: "carol", Name: "Carol", Role: models.RoleOwner, Active: true},
				{UserID: "dave", Name: "Dave", Role: models.RoleMember, Active: true},
			},
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsByUser(ctx, "dave")
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("got %d groups, want 1", len(groups))
		}

		if err := store.DeactivateMember(ctx, group.ID, "dave"); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}
		groups, err = store.ListGroupsByUser(ctx, "dave")
		if err != nil {
			t.Fatalf("ListGroupsByUser failed: %v", err)
		}
		if len(groups) != 0 {
			t.Errorf("got %d groups after deactivation, want 0", len(groups))
		}
	})

	t.Run("AddMember reactivates a former member", func(t *testing.T) {
		group := &models.Group{
			Name:      "Ski Weekend",
			CreatedBy: "erin",
			Members: []models.Member{
				{UserID: "erin", Name: "Erin", Role: models.RoleOwner, Active: true},
				{UserID: "frank", Name: "Frank", Role: models.RoleMember, Active: true},
			},
		}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.DeactivateMember(ctx, group.ID, "frank"); err != nil {
			t.Fatalf("DeactivateMember failed: %v", err)
		}

		err := store.AddMember(ctx, group.ID, &models.Member{
			UserID: "frank", Name: "Frank", Role: models.RoleMember, Active: true,
		})
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		m, err := store.GetMember(ctx, group.ID, "frank")
		if err != nil {
			t.Fatalf("GetMember failed: %v", err)
		}
		if !m.Active {
			t.Error("Expected frank to be active again")
		}
	})

	t.Run("DeactivateMember returns ErrNotFound for unknown member", func(t *testing.T) {
		err := store.DeactivateMember(ctx, "no-such-group", "no-such-user")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStoreExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Dinner Club",
		CreatedBy: "alice",
		Members: []models.Member{
			{UserID: "alice", Name: "Alice", Role: models.RoleOwner, Active: true},
			{UserID: "bob", Name: "Bob", Role: models.RoleMember, Active: true},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateExpense persists splits and generates IDs", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Sushi",
			Amount:      80,
			PaidBy:      "alice",
			SplitType:   models.SplitEqual,
			Splits: []models.Split{
				{UserID: "alice", Amount: 40, IsPaid: true},
				{UserID: "bob", Amount: 40},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if expense.ID == "" {
			t.Error("Expected expense ID to be generated")
		}
		for _, sp := range expense.Splits {
			if sp.ID == "" {
				t.Error("Expected split ID to be generated")
			}
			if sp.ExpenseID != expense.ID {
				t.Errorf("split expense ID = %q, want %q", sp.ExpenseID, expense.ID)
			}
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if len(retrieved.Splits) != 2 {
			t.Fatalf("got %d splits, want 2", len(retrieved.Splits))
		}
		if !retrieved.Splits[0].IsPaid || retrieved.Splits[1].IsPaid {
			t.Errorf("is_paid flags = %v/%v, want true/false",
				retrieved.Splits[0].IsPaid, retrieved.Splits[1].IsPaid)
		}
	})

	t.Run("payments are nested under their split", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Taxi",
			Amount:      30,
			PaidBy:      "alice",
			SplitType:   models.SplitEqual,
			Splits: []models.Split{
				{UserID: "bob", Amount: 30},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		splitID := expense.Splits[0].ID
		payment := &models.Payment{
			SplitID: splitID,
			PaidBy:  "bob",
			Amount:  10,
			Method:  "cash",
			Notes:   "first installment",
		}
		if err := store.CreatePayment(ctx, payment); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}

		sp, err := store.GetSplit(ctx, splitID)
		if err != nil {
			t.Fatalf("GetSplit failed: %v", err)
		}
		if len(sp.Payments) != 1 {
			t.Fatalf("got %d payments, want 1", len(sp.Payments))
		}
		if sp.Payments[0].Notes != "first installment" {
			t.Errorf("notes = %q, want %q", sp.Payments[0].Notes, "first installment")
		}
		if remaining := sp.Remaining(); remaining != 20 {
			t.Errorf("Remaining() = %v, want 20", remaining)
		}

		payments, err := store.ListPayments(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListPayments failed: %v", err)
		}
		if len(payments) != 1 {
			t.Errorf("got %d group payments, want 1", len(payments))
		}
	})

	t.Run("MarkSplitsPaid flips multiple splits", func(t *testing.T) {
		expense := &models.Expense{
			GroupID:     group.ID,
			Description: "Groceries",
			Amount:      60,
			PaidBy:      "bob",
			SplitType:   models.SplitEqual,
			Splits: []models.Split{
				{UserID: "alice", Amount: 30},
				{UserID: "bob", Amount: 30},
			},
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		ids := []string{expense.Splits[0].ID, expense.Splits[1].ID}
		if err := store.MarkSplitsPaid(ctx, ids); err != nil {
			t.Fatalf("MarkSplitsPaid failed: %v", err)
		}

		retrieved, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		for _, sp := range retrieved.Splits {
			if !sp.IsPaid {
				t.Errorf("split %s not marked paid", sp.ID)
			}
		}
	})

	t.Run("ListExpenses returns newest first with splits", func(t *testing.T) {
		expenses, err := store.ListExpenses(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) < 3 {
			t.Fatalf("got %d expenses, want at least 3", len(expenses))
		}
		for _, e := range expenses {
			if len(e.Splits) == 0 {
				t.Errorf("expense %s has no splits", e.ID)
			}
		}
	})
}

func TestSQLiteStoreSettlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{
		Name:      "Roadtrip",
		CreatedBy: "alice",
		Members: []models.Member{
			{UserID: "alice", Name: "Alice", Role: models.RoleOwner, Active: true},
			{UserID: "bob", Name: "Bob", Role: models.RoleMember, Active: true},
		},
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("settlements are append only and listed newest first", func(t *testing.T) {
		first := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "bob",
			ToUserID:   "alice",
			Amount:     25,
			Method:     "cash",
			CreatedBy:  "bob",
			SettledAt:  1000,
		}
		second := &models.Settlement{
			GroupID:    group.ID,
			FromUserID: "bob",
			ToUserID:   "alice",
			Amount:     10,
			Method:     "bank",
			CreatedBy:  "bob",
			SettledAt:  2000,
		}
		if err := store.CreateSettlement(ctx, first); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
		if err := store.CreateSettlement(ctx, second); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 2 {
			t.Fatalf("got %d settlements, want 2", len(settlements))
		}
		if settlements[0].Amount != 10 {
			t.Errorf("first listed amount = %v, want 10 (newest first)", settlements[0].Amount)
		}
	})

	t.Run("activity log round trip", func(t *testing.T) {
		entry := &models.ActivityEntry{
			GroupID: group.ID,
			UserID:  "alice",
			Action:  "group_created",
			Details: "Roadtrip",
		}
		if err := store.AppendActivity(ctx, entry); err != nil {
			t.Fatalf("AppendActivity failed: %v", err)
		}

		entries, err := store.ListActivityByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListActivityByGroup failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("got %d entries, want 1", len(entries))
		}
		if entries[0].Action != "group_created" {
			t.Errorf("action = %q, want group_created", entries[0].Action)
		}
	})
}

func TestRunAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("rolls back all writes on error", func(t *testing.T) {
		var groupID string
		err := store.RunAtomic(ctx, func(st storage.Store) error {
			group := &models.Group{
				Name:      "Doomed",
				CreatedBy: "alice",
				Members: []models.Member{
					{UserID: "alice", Name: "Alice", Role: models.RoleOwner, Active: true},
				},
			}
			if err := st.CreateGroup(ctx, group); err != nil {
				return err
			}
			groupID = group.ID
			return errors.New("boom")
		})
		if err == nil {
			t.Fatal("Expected RunAtomic to return the callback error")
		}

		_, err = store.GetGroup(ctx, groupID)
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("group survived rollback: err = %v, want ErrNotFound", err)
		}
	})

	t.Run("commits on success and joins nested scopes", func(t *testing.T) {
		group := &models.Group{
			Name:      "Kept",
			CreatedBy: "alice",
			Members: []models.Member{
				{UserID: "alice", Name: "Alice", Role: models.RoleOwner, Active: true},
			},
		}
		err := store.RunAtomic(ctx, func(st storage.Store) error {
			// CreateGroup itself calls RunAtomic; it must join this
			// transaction instead of opening a second one.
			if err := st.CreateGroup(ctx, group); err != nil {
				return err
			}
			return st.AppendActivity(ctx, &models.ActivityEntry{
				GroupID: group.ID,
				UserID:  "alice",
				Action:  "group_created",
			})
		})
		if err != nil {
			t.Fatalf("RunAtomic failed: %v", err)
		}

		if _, err := store.GetGroup(ctx, group.ID); err != nil {
			t.Errorf("GetGroup after commit failed: %v", err)
		}
		entries, err := store.ListActivityByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListActivityByGroup failed: %v", err)
		}
		if len(entries) != 1 {
			t.Errorf("got %d activity entries, want 1", len(entries))
		}
	})
}
