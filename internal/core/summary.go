package core

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

type TransactionKind string

// Bucket is one aggregation slot (a day of a month or a month of a year).
type Bucket struct {
	Label string
	Start Date // first day covered by the bucket
	Sum   decimal.Decimal
}

// Transaction is an income or expense tagged for chronological merging.
// It is derived and never persisted.
type Transaction struct {
	Kind        TransactionKind
	ID          string
	Description string // expense title or income source
	Category    string // empty for income
	Date        Date
	Amount      decimal.Decimal
}

// Signed returns +amount for income and -amount for expenses.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// StatementLine is a transaction plus the running balance after applying it.
type StatementLine struct {
	Transaction
	Balance decimal.Decimal
}

// Statement wraps the lines of a reporting window with its envelope figures.
type Statement struct {
	Start          Date
	End            Date
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	TotalIncome    decimal.Decimal
	TotalExpense   decimal.Decimal
	Lines          []StatementLine
}

// Totals is a snapshot of summed income and expenses.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Savings returns income minus expenses.
func (t Totals) Savings() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

type GoalProgress struct {
	Goal     Goal
	Current  decimal.Decimal
	Target   decimal.Decimal
	Percent  decimal.Decimal // 0..100
	Achieved bool
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// Summary is the dashboard view of an account.
type Summary struct {
	Lifetime      Totals
	Month         Totals
	Year          int
	MonthNumber   int
	GoalsAchieved int
	GoalsTotal    int
}

// Snapshot is one consistent read of every collection the ledger needs.
type Snapshot struct {
	Expenses []Expense
	Income   []Income
	Goals    []Goal
}

const (
	ChangeCreated ChangeOp = "created"
	ChangeUpdated ChangeOp = "updated"
	ChangeDeleted ChangeOp = "deleted"
)

const (
	RecordExpense  RecordKind = "expense"
	RecordIncome   RecordKind = "income"
	RecordGoal     RecordKind = "goal"
	RecordCategory RecordKind = "category"
	// complaints do not feed any report
	RecordComplaint RecordKind = "complaint"
)

type (
	ChangeOp   string
	RecordKind string
)

// ChangeEvent announces that a collection changed.
type ChangeEvent struct {
	Kind   RecordKind `json:"kind"`
	Op     ChangeOp   `json:"op"`
	ID     string     `json:"id"`
	At     time.Time  `json:"at"`
	Origin string     `json:"origin,omitempty"` // instance that produced it
	Remote bool       `json:"-"`                // arrived through the relay
}
