package ledger

import (
	"reflect"
	"testing"

	"budgetwise/internal/core"
)

func income(amount any, date string) core.Income {
	return core.NormalizeIncome(core.RawIncome{Source: "Salary", Amount: amount, Date: date})
}

func balances(lines []core.StatementLine) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Balance.String()
	}
	return out
}

func TestReconcileStatementExample(t *testing.T) {
	expenses := []core.Expense{expense("100", "2024-03-05")}
	incomes := []core.Income{income(200.0, "2024-03-01")}

	lines := ReconcileStatement(expenses, incomes, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := balances(lines); !reflect.DeepEqual(got, []string{"200", "100"}) {
		t.Fatalf("unexpected balances %v", got)
	}
	if lines[0].Kind != core.KindIncome || lines[1].Kind != core.KindExpense {
		t.Fatalf("unexpected order: %s, %s", lines[0].Kind, lines[1].Kind)
	}

	st := BuildStatement(expenses, incomes, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if !st.OpeningBalance.IsZero() {
		t.Fatalf("opening balance should be 0, got %s", st.OpeningBalance)
	}
	if !st.ClosingBalance.Equal(d("100")) || !st.TotalIncome.Equal(d("200")) || !st.TotalExpense.Equal(d("100")) {
		t.Fatalf("unexpected envelope: %+v", st)
	}
}

func TestReconcileStatementOpeningBalance(t *testing.T) {
	expenses := []core.Expense{
		expense("30", "2024-02-10"),
		expense("10", "2024-03-02"),
		expense("5", "2024-04-01"),
	}
	incomes := []core.Income{
		income("500", "2024-01-01"),
		income("50", "2024-03-31"),
	}
	st := BuildStatement(expenses, incomes, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if !st.OpeningBalance.Equal(d("470")) {
		t.Fatalf("opening: got %s", st.OpeningBalance)
	}
	if got := balances(st.Lines); !reflect.DeepEqual(got, []string{"460", "510"}) {
		t.Fatalf("unexpected balances %v", got)
	}
}

func TestReconcileStatementInclusiveBounds(t *testing.T) {
	expenses := []core.Expense{
		expense("1", "2024-03-01"),
		expense("2", "2024-03-31"),
	}
	lines := ReconcileStatement(expenses, nil, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	if len(lines) != 2 {
		t.Fatalf("both boundary days must be included, got %d lines", len(lines))
	}
	single := ReconcileStatement(expenses, nil, core.NewDate(2024, 3, 31), core.NewDate(2024, 3, 31))
	if len(single) != 1 || !single[0].Balance.Equal(d("-3")) {
		t.Fatalf("single-day window: %+v", single)
	}
}

func TestReconcileStatementInvertedWindow(t *testing.T) {
	lines := ReconcileStatement([]core.Expense{expense("1", "2024-03-05")}, nil, core.NewDate(2024, 3, 31), core.NewDate(2024, 3, 1))
	if lines == nil || len(lines) != 0 {
		t.Fatalf("inverted window must give an empty, non-nil slice, got %#v", lines)
	}
}

func TestReconcileStatementSameDayTieBreak(t *testing.T) {
	expenses := []core.Expense{
		{ID: "e1", Title: "a", Amount: d("10"), Category: "c", Date: core.NewDate(2024, 3, 5)},
		{ID: "e2", Title: "b", Amount: d("20"), Category: "c", Date: core.NewDate(2024, 3, 5)},
	}
	incomes := []core.Income{
		{ID: "i1", Source: "s", Amount: d("100"), Date: core.NewDate(2024, 3, 5)},
	}
	lines := ReconcileStatement(expenses, incomes, core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31))
	var ids []string
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	if !reflect.DeepEqual(ids, []string{"i1", "e1", "e2"}) {
		t.Fatalf("unexpected order %v", ids)
	}
	if got := balances(lines); !reflect.DeepEqual(got, []string{"100", "90", "70"}) {
		t.Fatalf("unexpected balances %v", got)
	}
}

func TestReconcileStatementInvalidDatesExcluded(t *testing.T) {
	expenses := []core.Expense{expense("10", "not a date"), expense("5", "2024-03-02")}
	lines := ReconcileStatement(expenses, nil, core.NewDate(2024, 1, 1), core.NewDate(2024, 12, 31))
	if len(lines) != 1 || !lines[0].Balance.Equal(d("-5")) {
		t.Fatalf("invalid dates must be excluded: %+v", lines)
	}
}

func TestReconcileStatementIdempotent(t *testing.T) {
	expenses := []core.Expense{expense("10", "2024-03-02"), expense("7", "2024-02-01")}
	incomes := []core.Income{income("40", "2024-03-02")}
	start, end := core.NewDate(2024, 3, 1), core.NewDate(2024, 3, 31)

	a := ReconcileStatement(expenses, incomes, start, end)
	b := ReconcileStatement(expenses, incomes, start, end)
	if !reflect.DeepEqual(balances(a), balances(b)) || len(a) != len(b) {
		t.Fatalf("repeated calls differ: %v vs %v", balances(a), balances(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Kind != b[i].Kind {
			t.Fatalf("line %d differs", i)
		}
	}
	// inputs are not reordered
	if expenses[0].Date != core.NewDate(2024, 3, 2) {
		t.Fatalf("input slice was mutated")
	}
}

func TestReconcileFullRangeEqualsLifetimeSavings(t *testing.T) {
	expenses := []core.Expense{
		expense("12.30", "2023-11-02"),
		expense("100", "2024-01-15"),
		expense("0.70", "2024-06-30"),
	}
	incomes := []core.Income{
		income("1500", "2023-10-01"),
		income(250.25, "2024-06-30"),
	}
	first, last, ok := Span(expenses, incomes)
	if !ok || first != core.NewDate(2023, 10, 1) || last != core.NewDate(2024, 6, 30) {
		t.Fatalf("unexpected span %v..%v (%v)", first, last, ok)
	}
	lines := ReconcileStatement(expenses, incomes, first, last)
	final := lines[len(lines)-1].Balance
	if want := Totals(expenses, incomes).Savings(); !final.Equal(want) {
		t.Fatalf("final balance %s != lifetime savings %s", final, want)
	}
}
