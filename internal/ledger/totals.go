package ledger

import (
	"sort"
	"strings"

	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

// UncategorizedLabel names the bucket for expenses without a category.
const UncategorizedLabel = "Uncategorized"

// Totals sums every record regardless of date.
func Totals(expenses []core.Expense, income []core.Income) core.Totals {
	t := core.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range expenses {
		t.Expense = t.Expense.Add(e.Amount)
	}
	for _, i := range income {
		t.Income = t.Income.Add(i.Amount)
	}
	return t
}

// MonthTotals sums the records dated in one calendar month.
func MonthTotals(expenses []core.Expense, income []core.Income, year, month int) core.Totals {
	in := func(d core.Date) bool {
		return d.Valid() && d.Year() == year && d.Month() == month
	}
	t := core.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range expenses {
		if in(e.Date) {
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	for _, i := range income {
		if in(i.Date) {
			t.Income = t.Income.Add(i.Amount)
		}
	}
	return t
}

// YearTotals sums the records dated in one calendar year.
func YearTotals(expenses []core.Expense, income []core.Income, year int) core.Totals {
	t := core.Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range expenses {
		if e.Date.Valid() && e.Date.Year() == year {
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	for _, i := range income {
		if i.Date.Valid() && i.Date.Year() == year {
			t.Income = t.Income.Add(i.Amount)
		}
	}
	return t
}

// CategoryBreakdown sums the expenses of one month per category, largest
// first, ties broken by name.
func CategoryBreakdown(expenses []core.Expense, year, month int) core.MonthOverview {
	month = clampMonth(month)
	ov := core.MonthOverview{Year: year, Month: month, Total: decimal.Zero}

	sums := map[string]decimal.Decimal{}
	for _, e := range expenses {
		if !e.Date.Valid() || e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		name := strings.TrimSpace(e.Category)
		if name == "" {
			name = UncategorizedLabel
		}
		sums[name] = sums[name].Add(e.Amount)
		ov.Total = ov.Total.Add(e.Amount)
	}

	ov.ByCategory = make([]core.CategoryAmount, 0, len(sums))
	for name, amt := range sums {
		ov.ByCategory = append(ov.ByCategory, core.CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(ov.ByCategory, func(i, j int) bool {
		a, b := ov.ByCategory[i], ov.ByCategory[j]
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Name < b.Name
	})
	return ov
}

// Summarize builds the dashboard view for the month containing now.
// goalTotals is the figure yearly goals are measured against.
func Summarize(s core.Snapshot, now core.Date, goalTotals core.Totals) core.Summary {
	return core.Summary{
		Lifetime:      Totals(s.Expenses, s.Income),
		Month:         MonthTotals(s.Expenses, s.Income, now.Year(), now.Month()),
		Year:          now.Year(),
		MonthNumber:   now.Month(),
		GoalsAchieved: CountAchieved(s.Goals, goalTotals),
		GoalsTotal:    len(s.Goals),
	}
}
