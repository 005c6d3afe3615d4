// Package sqlite persists records in a SQLite database. Amounts are stored
// as integer cents and dates as YYYY-MM-DD text.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/store"

	_ "modernc.org/sqlite"
)

var _ store.Store = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

// Open creates the database file if needed, applies migrations and returns
// a ready repository.
func Open(ctx context.Context, dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.InfoContext(ctx, "SQLite database ready", "path", dbPath)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping is used by readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

const expenseColumns = `id, title, amount_cents, category, date`

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e     core.Expense
		cents int64
		date  string
	)
	if err := s.Scan(&e.ID, &e.Title, &cents, &e.Category, &date); err != nil {
		return core.Expense{}, err
	}
	e.Amount = core.FromCents(cents)
	e.Date = core.NormalizeDate(date)
	return e, nil
}

func (r *Repository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY date, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, store.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) error {
	cents, err := core.ToCents(e.Amount)
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, title, amount_cents, category, date) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Title, cents, e.Category, e.Date.String())
	if err != nil {
		return fmt.Errorf("create expense: %w", mapConstraint(err))
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"title", e.Title,
		"amount_cents", cents,
		"date", e.Date.String())
	return nil
}

func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	cents, err := core.ToCents(e.Amount)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET title = ?, amount_cents = ?, category = ?, date = ? WHERE id = ?`,
		e.Title, cents, e.Category, e.Date.String(), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return requireAffected(res)
}

const incomeColumns = `id, source, amount_cents, date`

func scanIncome(s scanner) (core.Income, error) {
	var (
		i     core.Income
		cents int64
		date  string
	)
	if err := s.Scan(&i.ID, &i.Source, &cents, &date); err != nil {
		return core.Income{}, err
	}
	i.Amount = core.FromCents(cents)
	i.Date = core.NormalizeDate(date)
	return i, nil
}

func (r *Repository) ListIncome(ctx context.Context) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+incomeColumns+` FROM income ORDER BY date, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list income: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *Repository) GetIncome(ctx context.Context, id string) (core.Income, error) {
	i, err := scanIncome(r.db.QueryRowContext(ctx, `SELECT `+incomeColumns+` FROM income WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Income{}, store.ErrNotFound
	}
	if err != nil {
		return core.Income{}, fmt.Errorf("get income %s: %w", id, err)
	}
	return i, nil
}

func (r *Repository) CreateIncome(ctx context.Context, i core.Income) error {
	cents, err := core.ToCents(i.Amount)
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO income (id, source, amount_cents, date) VALUES (?, ?, ?, ?)`,
		i.ID, i.Source, cents, i.Date.String())
	if err != nil {
		return fmt.Errorf("create income: %w", mapConstraint(err))
	}
	slog.InfoContext(ctx, "Income saved to SQLite", "id", i.ID, "source", i.Source, "date", i.Date.String())
	return nil
}

func (r *Repository) UpdateIncome(ctx context.Context, i core.Income) error {
	cents, err := core.ToCents(i.Amount)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE income SET source = ?, amount_cents = ?, date = ? WHERE id = ?`,
		i.Source, cents, i.Date.String(), i.ID)
	if err != nil {
		return fmt.Errorf("update income: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteIncome(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM income WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	return requireAffected(res)
}

const goalColumns = `id, title, target_cents, current_cents, deadline, type`

func scanGoal(s scanner) (core.Goal, error) {
	var (
		g               core.Goal
		target, current int64
		deadline, typ   string
	)
	if err := s.Scan(&g.ID, &g.Title, &target, &current, &deadline, &typ); err != nil {
		return core.Goal{}, err
	}
	g.TargetAmount = core.FromCents(target)
	g.CurrentAmount = core.FromCents(current)
	g.Deadline = core.NormalizeDate(deadline)
	g.Type = core.GoalType(typ)
	return g, nil
}

func (r *Repository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *Repository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	g, err := scanGoal(r.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %s: %w", id, err)
	}
	return g, nil
}

func goalCents(g core.Goal) (target, current int64, err error) {
	if target, err = core.ToCents(g.TargetAmount); err != nil {
		return 0, 0, fmt.Errorf("target: %w", err)
	}
	if current, err = core.ToCents(g.CurrentAmount); err != nil {
		return 0, 0, fmt.Errorf("current: %w", err)
	}
	return target, current, nil
}

func (r *Repository) CreateGoal(ctx context.Context, g core.Goal) error {
	target, current, err := goalCents(g)
	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO goals (id, title, target_cents, current_cents, deadline, type) VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, target, current, g.Deadline.String(), string(g.EffectiveType()))
	if err != nil {
		return fmt.Errorf("create goal: %w", mapConstraint(err))
	}
	slog.InfoContext(ctx, "Goal saved to SQLite", "id", g.ID, "title", g.Title, "type", g.EffectiveType())
	return nil
}

func (r *Repository) UpdateGoal(ctx context.Context, g core.Goal) error {
	target, current, err := goalCents(g)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET title = ?, target_cents = ?, current_cents = ?, deadline = ?, type = ? WHERE id = ?`,
		g.Title, target, current, g.Deadline.String(), string(g.EffectiveType()), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireAffected(res)
}

func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireAffected(res)
}

// ListCategories returns category names in the order they were added.
func (r *Repository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *Repository) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("add category: %w", mapConstraint(err))
	}
	return nil
}

func (r *Repository) DeleteCategory(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

const complaintColumns = `id, user_id, email, subject, description, status, opened_at`

func scanComplaint(s scanner) (core.Complaint, error) {
	var (
		c        core.Complaint
		status   string
		openedAt string
	)
	if err := s.Scan(&c.ID, &c.UserID, &c.Email, &c.Subject, &c.Description, &status, &openedAt); err != nil {
		return core.Complaint{}, err
	}
	c.Status = core.ComplaintStatus(status)
	t, err := time.Parse(time.RFC3339Nano, openedAt)
	if err != nil {
		return core.Complaint{}, fmt.Errorf("complaint %s opened_at: %w", c.ID, err)
	}
	c.CreatedAt = t
	return c, nil
}

func (r *Repository) ListComplaints(ctx context.Context) ([]core.Complaint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY opened_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	defer rows.Close()

	var out []core.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repository) GetComplaint(ctx context.Context, id string) (core.Complaint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = ?`, id)
	c, err := scanComplaint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Complaint{}, store.ErrNotFound
	}
	if err != nil {
		return core.Complaint{}, fmt.Errorf("get complaint %s: %w", id, err)
	}
	return c, nil
}

func (r *Repository) CreateComplaint(ctx context.Context, c core.Complaint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO complaints (`+complaintColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Email, c.Subject, c.Description, string(c.Status), c.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("create complaint: %w", mapConstraint(err))
	}
	slog.InfoContext(ctx, "Complaint saved to SQLite", "id", c.ID, "subject", c.Subject)
	return nil
}

// UpdateComplaint changes the status of a ticket; the other fields are
// fixed once it is opened.
func (r *Repository) UpdateComplaint(ctx context.Context, c core.Complaint) error {
	res, err := r.db.ExecContext(ctx, `UPDATE complaints SET status = ? WHERE id = ?`, string(c.Status), c.ID)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapConstraint(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	return err
}
