package ledger

import (
	"testing"

	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func expense(amount, date string) core.Expense {
	return core.NormalizeExpense(core.RawExpense{Title: "x", Amount: amount, Category: "Food", Date: date})
}

func TestAggregateMonthlyBucketCount(t *testing.T) {
	cases := []struct {
		year, month, want int
	}{
		{2024, 2, 29},
		{2023, 2, 28},
		{2024, 1, 31},
		{2024, 4, 30},
		{2024, 0, 31},  // clamped to January
		{2024, 13, 31}, // clamped to December
	}
	for _, tc := range cases {
		got := AggregateMonthly(nil, tc.year, tc.month)
		if len(got) != tc.want {
			t.Fatalf("%d-%d: got %d buckets, want %d", tc.year, tc.month, len(got), tc.want)
		}
		if got[0].Label != "1" || got[len(got)-1].Label == "" {
			t.Fatalf("unexpected labels: first=%q last=%q", got[0].Label, got[len(got)-1].Label)
		}
		for _, b := range got {
			if !b.Sum.IsZero() {
				t.Fatalf("empty input must give zero buckets, got %s", b.Sum)
			}
		}
	}
}

func TestAggregateMonthlySums(t *testing.T) {
	expenses := []core.Expense{
		expense("10", "2024-03-01"),
		expense("5.50", "2024-03-01"),
		expense("20", "2024-03-31"),
		expense("99", "2024-04-01"), // next month
		expense("77", "2023-03-01"), // same month, other year
		expense("12", "garbage"),
	}
	got := AggregateMonthly(expenses, 2024, 3)
	if len(got) != 31 {
		t.Fatalf("got %d buckets", len(got))
	}
	if !got[0].Sum.Equal(d("15.5")) {
		t.Fatalf("day 1: got %s", got[0].Sum)
	}
	if !got[30].Sum.Equal(d("20")) || got[30].Label != "31" {
		t.Fatalf("day 31: got %s (%s)", got[30].Sum, got[30].Label)
	}
	if got[30].Start != core.NewDate(2024, 3, 31) {
		t.Fatalf("unexpected start %v", got[30].Start)
	}

	var inMonth decimal.Decimal
	for _, e := range expenses {
		if e.Date.Valid() && e.Date.Year() == 2024 && e.Date.Month() == 3 {
			inMonth = inMonth.Add(e.Amount)
		}
	}
	if !SumBuckets(got).Equal(inMonth) {
		t.Fatalf("bucket total %s != month total %s", SumBuckets(got), inMonth)
	}
}

func TestAggregateYearly(t *testing.T) {
	if got := AggregateYearly(nil, 2024); len(got) != 12 || got[0].Label != "Jan" || got[11].Label != "Dec" {
		t.Fatalf("unexpected empty yearly buckets: %+v", got)
	}

	expenses := []core.Expense{
		expense("10", "2024-01-15"),
		expense("15", "2024-01-31"),
		expense("40", "2024-12-31"),
		expense("1000", "2025-01-01"),
	}
	got := AggregateYearly(expenses, 2024)
	if len(got) != 12 {
		t.Fatalf("got %d buckets", len(got))
	}
	if !got[0].Sum.Equal(d("25")) || !got[11].Sum.Equal(d("40")) {
		t.Fatalf("unexpected sums: jan=%s dec=%s", got[0].Sum, got[11].Sum)
	}
	for i := 1; i < 11; i++ {
		if !got[i].Sum.IsZero() {
			t.Fatalf("month %d should be zero, got %s", i+1, got[i].Sum)
		}
	}
}
