package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/store"

	"github.com/shopspring/decimal"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestOpenSeedsDefaultCategories(t *testing.T) {
	repo := openTemp(t)
	cats, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != len(store.DefaultCategories) {
		t.Fatalf("got %v", cats)
	}
	for i, c := range store.DefaultCategories {
		if cats[i] != c {
			t.Fatalf("position %d: got %s want %s", i, cats[i], c)
		}
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	if err := RunMigrations(path); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunMigrations(path); err != nil {
		t.Fatalf("second run: %v", err)
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	e := core.Expense{ID: "e1", Title: "Groceries", Amount: decimal.RequireFromString("19.99"), Category: "Food", Date: core.NewDate(2024, 2, 29)}
	if err := repo.CreateExpense(ctx, e); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateExpense(ctx, e); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	got, err := repo.GetExpense(ctx, "e1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Amount.Equal(e.Amount) || got.Date != e.Date || got.Category != "Food" {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	e.Amount = decimal.RequireFromString("5")
	if err := repo.UpdateExpense(ctx, e); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.ListExpenses(ctx)
	if err != nil || len(list) != 1 || !list[0].Amount.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("list: %+v %v", list, err)
	}

	if err := repo.DeleteExpense(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetExpense(ctx, "e1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, "e1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestIncomeOrderedByDate(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	for _, in := range []core.Income{
		{ID: "b", Source: "Bonus", Amount: decimal.NewFromInt(300), Date: core.NewDate(2024, 5, 1)},
		{ID: "a", Source: "Salary", Amount: decimal.NewFromInt(2000), Date: core.NewDate(2024, 4, 1)},
	} {
		if err := repo.CreateIncome(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.ID, err)
		}
	}
	list, err := repo.ListIncome(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" {
		t.Fatalf("unexpected order %+v", list)
	}
}

func TestGoalRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	g := core.Goal{ID: "g1", Title: "Emergency fund", TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.RequireFromString("250.50")}
	if err := repo.CreateGoal(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetGoal(ctx, "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != core.GoalMonthly {
		t.Fatalf("absent type should be stored as monthly, got %q", got.Type)
	}
	if got.Deadline.Valid() {
		t.Fatalf("empty deadline should stay invalid, got %v", got.Deadline)
	}
	if !got.CurrentAmount.Equal(g.CurrentAmount) {
		t.Fatalf("current: %s", got.CurrentAmount)
	}

	g.Type = core.GoalYearly
	g.Deadline = core.NewDate(2024, 12, 31)
	if err := repo.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetGoal(ctx, "g1")
	if got.Type != core.GoalYearly || got.Deadline != g.Deadline {
		t.Fatalf("update not applied: %+v", got)
	}
	if err := repo.UpdateGoal(ctx, core.Goal{ID: "nope"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	if err := repo.AddCategory(ctx, "Pets"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.AddCategory(ctx, "Pets"); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if err := repo.DeleteCategory(ctx, "Food"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cats, _ := repo.ListCategories(ctx)
	if cats[0] != "Rent" || cats[len(cats)-1] != "Pets" {
		t.Fatalf("unexpected categories %v", cats)
	}
	if err := repo.DeleteCategory(ctx, "Food"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAmountsAreStoredExactlyOrRejected(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	if err := repo.CreateExpense(ctx, core.Expense{ID: "tiny", Title: "x", Amount: decimal.RequireFromString("0.004"), Category: "Food", Date: core.NewDate(2024, 1, 1)}); !errors.Is(err, core.ErrAmountPrecision) {
		t.Fatalf("sub-cent expense: %v", err)
	}
	if err := repo.CreateIncome(ctx, core.Income{ID: "huge", Source: "x", Amount: decimal.RequireFromString("100000000000000000"), Date: core.NewDate(2024, 1, 1)}); !errors.Is(err, core.ErrAmountTooLarge) {
		t.Fatalf("oversized income: %v", err)
	}
	if err := repo.CreateGoal(ctx, core.Goal{ID: "g", Title: "x", TargetAmount: decimal.RequireFromString("12.345")}); !errors.Is(err, core.ErrAmountPrecision) {
		t.Fatalf("sub-cent goal target: %v", err)
	}
	if _, err := repo.GetExpense(ctx, "tiny"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("rejected expense was stored: %v", err)
	}

	limit := core.MaxAmount
	if err := repo.CreateIncome(ctx, core.Income{ID: "max", Source: "x", Amount: limit, Date: core.NewDate(2024, 1, 1)}); err != nil {
		t.Fatalf("max income: %v", err)
	}
	got, err := repo.GetIncome(ctx, "max")
	if err != nil || !got.Amount.Equal(limit) {
		t.Fatalf("max income read back as %s (%v)", got.Amount, err)
	}
}

func TestComplaintRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTemp(t)

	opened := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	c := core.Complaint{ID: "c1", UserID: "u1", Email: "ann@example.com", Subject: "Totals", Description: "March looks wrong", Status: core.ComplaintOpen, CreatedAt: opened}
	if err := repo.CreateComplaint(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateComplaint(ctx, c); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}

	c.Status = core.ComplaintResolved
	c.Subject = "ignored"
	if err := repo.UpdateComplaint(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.GetComplaint(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != core.ComplaintResolved || got.Subject != "Totals" || !got.CreatedAt.Equal(opened) || got.Email != "ann@example.com" {
		t.Fatalf("unexpected complaint %+v", got)
	}

	if err := repo.UpdateComplaint(ctx, core.Complaint{ID: "missing", Status: core.ComplaintResolved}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	list, err := repo.ListComplaints(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %d %v", len(list), err)
	}
}
