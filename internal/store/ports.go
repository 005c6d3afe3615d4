// Package store defines the data-access ports the services read records
// through. The ledger itself never touches a store; it only receives the
// collections a store returns.
package store

import (
	"context"
	"errors"

	"budgetwise/internal/core"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrUnsupported is returned by backends that cannot perform an operation.
	ErrUnsupported = errors.New("operation not supported by backend")
	// ErrDuplicate is returned when creating a record or category that exists.
	ErrDuplicate = errors.New("record already exists")
)

// Ports for outbound adapters.
type (
	ExpenseStore interface {
		ListExpenses(ctx context.Context) ([]core.Expense, error)
		GetExpense(ctx context.Context, id string) (core.Expense, error)
		CreateExpense(ctx context.Context, e core.Expense) error
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id string) error
	}

	IncomeStore interface {
		ListIncome(ctx context.Context) ([]core.Income, error)
		GetIncome(ctx context.Context, id string) (core.Income, error)
		CreateIncome(ctx context.Context, i core.Income) error
		UpdateIncome(ctx context.Context, i core.Income) error
		DeleteIncome(ctx context.Context, id string) error
	}

	GoalStore interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		CreateGoal(ctx context.Context, g core.Goal) error
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id string) error
	}

	// CategoryStore holds the expense category names offered to users.
	CategoryStore interface {
		ListCategories(ctx context.Context) ([]string, error)
		AddCategory(ctx context.Context, name string) error
		DeleteCategory(ctx context.Context, name string) error
	}

	// ComplaintStore holds help-desk tickets, oldest first. Only the status
	// of a stored ticket may change.
	ComplaintStore interface {
		ListComplaints(ctx context.Context) ([]core.Complaint, error)
		GetComplaint(ctx context.Context, id string) (core.Complaint, error)
		CreateComplaint(ctx context.Context, c core.Complaint) error
		UpdateComplaint(ctx context.Context, c core.Complaint) error
	}

	// Store is everything a backend provides.
	Store interface {
		ExpenseStore
		IncomeStore
		GoalStore
		CategoryStore
		ComplaintStore
	}
)

// DefaultCategories seeds a fresh backend.
var DefaultCategories = []string{
	"Food", "Rent", "Travel", "Shopping", "Utilities", "Health", "Education", "Entertainment",
}
