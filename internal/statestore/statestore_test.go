package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/dvloznov/risk-radar/internal/domain"
)

func TestStore_TransactionsReplacedWholesale(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	first := []domain.Transaction{
		{ID: "a", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 100, Type: domain.Credit, Description: "Salary", OwnerRef: "current-user"},
		{ID: "b", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Amount: 50, Type: domain.Debit, Description: "Groceries", OwnerRef: "current-user"},
	}
	if err := store.SaveTransactions(ctx, first); err != nil {
		t.Fatalf("SaveTransactions failed: %v", err)
	}

	second := []domain.Transaction{
		{ID: "c", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Amount: 75, Type: domain.Debit, Description: "Fuel", OwnerRef: "current-user"},
	}
	if err := store.SaveTransactions(ctx, second); err != nil {
		t.Fatalf("SaveTransactions failed: %v", err)
	}

	got, err := store.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "c" {
		t.Errorf("expected wholesale replacement with [c], got %+v", got)
	}
}

func TestStore_LoadTransactions_Empty(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	got, err := store.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("LoadTransactions failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty set, got %+v", got)
	}
}

func TestStore_BudgetGoalDefault(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	goal, err := store.LoadBudgetGoal(ctx)
	if err != nil {
		t.Fatalf("LoadBudgetGoal failed: %v", err)
	}
	if goal.TotalMonthlyLimit != domain.DefaultMonthlyLimit {
		t.Errorf("expected default limit %d, got %v", domain.DefaultMonthlyLimit, goal.TotalMonthlyLimit)
	}
	if goal.CategoryLimits == nil || len(goal.CategoryLimits) != 0 {
		t.Errorf("expected empty category limits, got %+v", goal.CategoryLimits)
	}
}

func TestStore_SessionLifecycle(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if user, err := store.LoadUser(ctx); err != nil || user != nil {
		t.Fatalf("expected no user initially, got %+v (err %v)", user, err)
	}

	if err := store.SaveUser(ctx, domain.User{ID: "u1", Email: "owner@example.com"}); err != nil {
		t.Fatalf("SaveUser failed: %v", err)
	}
	if err := store.SaveTransactions(ctx, []domain.Transaction{{ID: "a", Amount: 1, Type: domain.Debit}}); err != nil {
		t.Fatalf("SaveTransactions failed: %v", err)
	}
	if err := store.SaveBudgetGoal(ctx, domain.BudgetGoal{TotalMonthlyLimit: 900, CategoryLimits: map[string]float64{"Rent": 100}}); err != nil {
		t.Fatalf("SaveBudgetGoal failed: %v", err)
	}
	if err := store.SaveTheme(ctx, "dark-blue"); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}

	if err := store.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	if user, _ := store.LoadUser(ctx); user != nil {
		t.Errorf("expected user cleared, got %+v", user)
	}
	if txs, _ := store.LoadTransactions(ctx); len(txs) != 0 {
		t.Errorf("expected transactions cleared, got %+v", txs)
	}
	goal, _ := store.LoadBudgetGoal(ctx)
	if goal.TotalMonthlyLimit != domain.DefaultMonthlyLimit {
		t.Errorf("expected budget reset to default, got %v", goal.TotalMonthlyLimit)
	}
	// Theme survives logout.
	if theme, _ := store.LoadTheme(ctx); theme != "dark-blue" {
		t.Errorf("expected theme retained, got %q", theme)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	dbPath := t.TempDir() + "/state.db"
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	goal := domain.BudgetGoal{TotalMonthlyLimit: 12000, CategoryLimits: map[string]float64{"Travel": 1000}}
	if err := store.SaveBudgetGoal(ctx, goal); err != nil {
		t.Fatalf("SaveBudgetGoal failed: %v", err)
	}

	got, err := store.LoadBudgetGoal(ctx)
	if err != nil {
		t.Fatalf("LoadBudgetGoal failed: %v", err)
	}
	if got.TotalMonthlyLimit != 12000 || got.CategoryLimits["Travel"] != 1000 {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Saving again overwrites the single row.
	if err := store.SaveBudgetGoal(ctx, domain.BudgetGoal{TotalMonthlyLimit: 500, CategoryLimits: map[string]float64{}}); err != nil {
		t.Fatalf("SaveBudgetGoal failed: %v", err)
	}
	got, _ = store.LoadBudgetGoal(ctx)
	if got.TotalMonthlyLimit != 500 || len(got.CategoryLimits) != 0 {
		t.Errorf("expected overwritten goal, got %+v", got)
	}
}
