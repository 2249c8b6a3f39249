package service

import (
	"context"
	"math"
	"testing"

	"github.com/splitpot/splitpot/internal/calculator"
	"github.com/splitpot/splitpot/internal/models"
)

func TestGetGroupBalances(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	group := setupGroup(t, env)

	// Alice fronts 90 split three ways, Bob fronts 30 split between
	// Bob and Carol. Net: Alice +60, Bob -15, Carol -45.
	_, err := env.expenses.CreateExpense(ctx, group.ID, alice.UserID, CreateExpenseInput{
		Description: "Groceries",
		Amount:      90,
		SplitType:   models.SplitEqual,
		Splits: []models.SplitConfig{
			{UserID: "alice"}, {UserID: "bob"}, {UserID: "carol"},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	_, err = env.expenses.CreateExpense(ctx, group.ID, bob.UserID, CreateExpenseInput{
		Description: "Fuel",
		Amount:      30,
		SplitType:   models.SplitEqual,
		Splits:      []models.SplitConfig{{UserID: "bob"}, {UserID: "carol"}},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	result, err := env.balances.GetGroupBalances(ctx, group.ID, alice.UserID)
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}

	want := map[string]float64{"alice": 60, "bob": -15, "carol": -45}
	var sum float64
	for _, b := range result.Balances {
		if math.Abs(b.NetBalance-want[b.UserID]) > 0.01 {
			t.Errorf("%s NetBalance = %v, want %v", b.UserID, b.NetBalance, want[b.UserID])
		}
		sum += b.NetBalance
	}
	if math.Abs(sum) > 0.01 {
		t.Errorf("balances sum to %v, want 0", sum)
	}

	if len(result.Settlements) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(result.Settlements))
	}
	first := result.Settlements[0]
	if first.FromUserID != "carol" || first.ToUserID != "alice" || math.Abs(first.Amount-45) > 0.01 {
		t.Errorf("first suggestion = %s -> %s %.2f, want carol -> alice 45.00",
			first.FromUserID, first.ToUserID, first.Amount)
	}

	if result.UserBalance == nil || result.UserBalance.UserID != "alice" {
		t.Errorf("UserBalance = %+v, want alice's balance", result.UserBalance)
	}
	if math.Abs(result.Summary.TotalExpenses-120) > 0.01 {
		t.Errorf("TotalExpenses = %v, want 120", result.Summary.TotalExpenses)
	}
	// Self payments: alice 30, bob 15.
	if math.Abs(result.Summary.TotalPaid-45) > 0.01 {
		t.Errorf("TotalPaid = %v, want 45", result.Summary.TotalPaid)
	}
	if math.Abs(result.Summary.TotalOwing-60) > 0.01 {
		t.Errorf("alice TotalOwing = %v, want 60", result.Summary.TotalOwing)
	}
}

func TestGetGroupBalancesApplyingSuggestionsSettlesGroup(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	group := setupGroup(t, env)

	_, err := env.expenses.CreateExpense(ctx, group.ID, alice.UserID, CreateExpenseInput{
		Description: "Dinner",
		Amount:      100,
		SplitType:   models.SplitShares,
		Splits: []models.SplitConfig{
			{UserID: "alice", Shares: 1},
			{UserID: "bob", Shares: 1},
			{UserID: "carol", Shares: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	before, err := env.balances.GetGroupBalances(ctx, group.ID, alice.UserID)
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}

	inputs := make([]SettleInput, 0, len(before.Settlements))
	for _, sg := range before.Settlements {
		inputs = append(inputs, SettleInput{
			FromUserID:      sg.FromUserID,
			ToUserID:        sg.ToUserID,
			Amount:          sg.Amount,
			RelatedExpenses: sg.RelatedExpenses,
		})
	}
	if _, err := env.settlements.SettleBulk(ctx, group.ID, alice.UserID, inputs); err != nil {
		t.Fatalf("SettleBulk failed: %v", err)
	}

	after, err := env.balances.GetGroupBalances(ctx, group.ID, alice.UserID)
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	for _, b := range after.Balances {
		if b.TotalOwed > calculator.Epsilon {
			t.Errorf("%s still owes %v after settling all suggestions", b.UserID, b.TotalOwed)
		}
	}
	if len(after.Settlements) != 0 {
		t.Errorf("got %d suggestions after settling, want 0", len(after.Settlements))
	}
}

func TestGetGroupBalancesEmptyGroup(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	group := setupGroup(t, env)

	result, err := env.balances.GetGroupBalances(ctx, group.ID, bob.UserID)
	if err != nil {
		t.Fatalf("GetGroupBalances failed: %v", err)
	}
	if len(result.Balances) != 3 {
		t.Fatalf("got %d balances, want 3", len(result.Balances))
	}
	for _, b := range result.Balances {
		if b.NetBalance != 0 {
			t.Errorf("%s NetBalance = %v, want 0", b.UserID, b.NetBalance)
		}
	}
	if len(result.Settlements) != 0 {
		t.Errorf("got %d suggestions, want 0", len(result.Settlements))
	}
}

func TestGetGroupBalancesPermission(t *testing.T) {
	env := setupEnv(t)
	group := setupGroup(t, env)

	_, err := env.balances.GetGroupBalances(context.Background(), group.ID, "stranger")
	checkServiceErr(t, err, models.ErrPermissionDenied)
}
