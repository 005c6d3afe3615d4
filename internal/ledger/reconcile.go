package ledger

import (
	"sort"

	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

// Merge tags expenses and income as transactions. Expenses come first,
// then income, each in input order.
func Merge(expenses []core.Expense, income []core.Income) []core.Transaction {
	txs := make([]core.Transaction, 0, len(expenses)+len(income))
	for _, e := range expenses {
		txs = append(txs, core.Transaction{
			Kind:        core.KindExpense,
			ID:          e.ID,
			Description: e.Title,
			Category:    e.Category,
			Date:        e.Date,
			Amount:      e.Amount,
		})
	}
	for _, i := range income {
		txs = append(txs, core.Transaction{
			Kind:        core.KindIncome,
			ID:          i.ID,
			Description: i.Source,
			Date:        i.Date,
			Amount:      i.Amount,
		})
	}
	return txs
}

// OpeningBalance is the signed total of every transaction dated strictly
// before start. Transactions with an invalid date never count.
func OpeningBalance(txs []core.Transaction, start core.Date) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txs {
		if t.Date.Valid() && t.Date.Before(start) {
			balance = balance.Add(t.Signed())
		}
	}
	return balance
}

func inWindow(d, start, end core.Date) bool {
	return d.Valid() && !d.Before(start) && !d.After(end)
}

func kindRank(k core.TransactionKind) int {
	if k == core.KindIncome {
		return 0
	}
	return 1
}

// sortChronologically orders by date; on the same day income precedes
// expenses, and equal keys keep their input order.
func sortChronologically(txs []core.Transaction) {
	sort.SliceStable(txs, func(a, b int) bool {
		da, db := txs[a].Date, txs[b].Date
		if !da.Equal(db.Time) {
			return da.Before(db)
		}
		return kindRank(txs[a].Kind) < kindRank(txs[b].Kind)
	})
}

// ReconcileStatement produces the statement lines for the inclusive window
// [start, end]. Each line carries the balance after applying it, starting
// from the opening balance computed over the complete collections. An
// inverted window yields an empty slice.
func ReconcileStatement(expenses []core.Expense, income []core.Income, start, end core.Date) []core.StatementLine {
	lines, _ := reconcile(expenses, income, start, end)
	return lines
}

func reconcile(expenses []core.Expense, income []core.Income, start, end core.Date) ([]core.StatementLine, decimal.Decimal) {
	if !start.Valid() || !end.Valid() || start.After(end) {
		return []core.StatementLine{}, decimal.Zero
	}

	all := Merge(expenses, income)
	balance := OpeningBalance(all, start)
	opening := balance

	window := make([]core.Transaction, 0, len(all))
	for _, t := range all {
		if inWindow(t.Date, start, end) {
			window = append(window, t)
		}
	}
	sortChronologically(window)

	lines := make([]core.StatementLine, len(window))
	for i, t := range window {
		balance = balance.Add(t.Signed())
		lines[i] = core.StatementLine{Transaction: t, Balance: balance}
	}
	return lines, opening
}

// BuildStatement reconciles the window and adds the envelope figures.
func BuildStatement(expenses []core.Expense, income []core.Income, start, end core.Date) core.Statement {
	lines, opening := reconcile(expenses, income, start, end)

	st := core.Statement{
		Start:          start,
		End:            end,
		OpeningBalance: opening,
		ClosingBalance: opening,
		TotalIncome:    decimal.Zero,
		TotalExpense:   decimal.Zero,
		Lines:          lines,
	}
	for _, l := range lines {
		if l.Kind == core.KindIncome {
			st.TotalIncome = st.TotalIncome.Add(l.Amount)
		} else {
			st.TotalExpense = st.TotalExpense.Add(l.Amount)
		}
	}
	if n := len(lines); n > 0 {
		st.ClosingBalance = lines[n-1].Balance
	}
	return st
}

// Span returns the earliest and latest valid dates across both collections.
// ok is false when no record has a valid date.
func Span(expenses []core.Expense, income []core.Income) (first, last core.Date, ok bool) {
	for _, t := range Merge(expenses, income) {
		if !t.Date.Valid() {
			continue
		}
		if !ok || t.Date.Before(first) {
			first = t.Date
		}
		if !ok || t.Date.After(last) {
			last = t.Date
		}
		ok = true
	}
	return first, last, ok
}
