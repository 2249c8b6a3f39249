package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
	"github.com/splitpot/splitpot/internal/storage/sqlite"
)

var (
	alice = Identity{UserID: "alice", Name: "Alice", Email: "alice@example.com"}
	bob   = Identity{UserID: "bob", Name: "Bob", Email: "bob@example.com"}
	carol = Identity{UserID: "carol", Name: "Carol", Email: "carol@example.com"}
)

type testEnv struct {
	store       storage.Store
	groups      *GroupService
	expenses    *ExpenseService
	balances    *BalanceService
	settlements *SettlementService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitpot-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &testEnv{
		store:       store,
		groups:      NewGroupService(store),
		expenses:    NewExpenseService(store),
		balances:    NewBalanceService(store),
		settlements: NewSettlementService(store),
	}
}

// setupGroup creates a group owned by alice with bob and carol as
// plain members.
func setupGroup(t *testing.T, env *testEnv) *models.Group {
	t.Helper()
	ctx := context.Background()

	group, err := env.groups.CreateGroup(ctx, alice, "Trip")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	for _, id := range []Identity{bob, carol} {
		_, err := env.groups.AddMember(ctx, group.ID, alice.UserID, models.Member{
			UserID: id.UserID, Name: id.Name, Email: id.Email, Role: models.RoleMember,
		})
		if err != nil {
			t.Fatalf("AddMember(%s) failed: %v", id.UserID, err)
		}
	}
	return group
}
