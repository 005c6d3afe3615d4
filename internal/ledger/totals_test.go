package ledger

import (
	"testing"

	"budgetwise/internal/core"
)

func TestTotalsAndMonthTotals(t *testing.T) {
	expenses := []core.Expense{
		expense("10", "2024-03-02"),
		expense("20", "2024-04-02"),
		expense("5", "bad"),
	}
	incomes := []core.Income{
		income("100", "2024-03-01"),
		income("1", "2023-03-01"),
	}

	lt := Totals(expenses, incomes)
	if !lt.Income.Equal(d("101")) || !lt.Expense.Equal(d("35")) || !lt.Savings().Equal(d("66")) {
		t.Fatalf("unexpected lifetime totals %+v", lt)
	}

	mt := MonthTotals(expenses, incomes, 2024, 3)
	if !mt.Income.Equal(d("100")) || !mt.Expense.Equal(d("10")) {
		t.Fatalf("unexpected month totals %+v", mt)
	}

	yt := YearTotals(expenses, incomes, 2024)
	if !yt.Income.Equal(d("100")) || !yt.Expense.Equal(d("30")) {
		t.Fatalf("unexpected year totals %+v", yt)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []core.Expense{
		{Title: "a", Amount: d("10"), Category: "Food", Date: core.NewDate(2024, 3, 1)},
		{Title: "b", Amount: d("15"), Category: "Rent", Date: core.NewDate(2024, 3, 2)},
		{Title: "c", Amount: d("5"), Category: "Food", Date: core.NewDate(2024, 3, 3)},
		{Title: "d", Amount: d("15"), Category: "Health", Date: core.NewDate(2024, 3, 3)},
		{Title: "e", Amount: d("3"), Category: "", Date: core.NewDate(2024, 3, 4)},
		{Title: "f", Amount: d("99"), Category: "Food", Date: core.NewDate(2024, 4, 1)},
	}
	ov := CategoryBreakdown(expenses, 2024, 3)
	if !ov.Total.Equal(d("48")) {
		t.Fatalf("total = %s", ov.Total)
	}
	want := []string{"Food", "Health", "Rent", UncategorizedLabel}
	if len(ov.ByCategory) != len(want) {
		t.Fatalf("got %d categories", len(ov.ByCategory))
	}
	for i, name := range want {
		if ov.ByCategory[i].Name != name {
			t.Fatalf("position %d: got %s want %s", i, ov.ByCategory[i].Name, name)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := core.Snapshot{
		Expenses: []core.Expense{expense("40", "2024-03-02"), expense("10", "2024-01-01")},
		Income:   []core.Income{income("100", "2024-03-01")},
		Goals: []core.Goal{
			{Type: core.GoalYearly, TargetAmount: d("50")},
			{Type: core.GoalMonthly, TargetAmount: d("10"), CurrentAmount: d("1")},
		},
	}
	lifetime := Totals(s.Expenses, s.Income)
	sum := Summarize(s, core.NewDate(2024, 3, 15), lifetime)
	if !sum.Lifetime.Savings().Equal(d("50")) {
		t.Fatalf("lifetime savings = %s", sum.Lifetime.Savings())
	}
	if !sum.Month.Savings().Equal(d("60")) {
		t.Fatalf("monthly remaining = %s", sum.Month.Savings())
	}
	if sum.GoalsAchieved != 1 || sum.GoalsTotal != 2 {
		t.Fatalf("goals achieved %d/%d", sum.GoalsAchieved, sum.GoalsTotal)
	}
}
