// Package memory is an in-process store, optionally seeded from files.
package memory

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budgetwise/internal/core"
	"budgetwise/internal/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu         sync.Mutex
	cats       []string
	expenses   []core.Expense
	income     []core.Income
	goals      []core.Goal
	complaints []core.Complaint
}

func New(cats []string) *Store {
	return &Store{cats: dedupe(cats)}
}

// NewFromFiles seeds a store from base/seed_categories.txt and the optional
// seed_expenses.json, seed_income.json and seed_goals.json files. JSON seeds
// hold arrays of raw records and go through the normalizer, so loosely
// typed amounts are accepted. Missing files are skipped; a malformed JSON
// file is an error.
func NewFromFiles(base string) (*Store, error) {
	cats := readLines(filepath.Join(base, "seed_categories.txt"))
	if len(cats) == 0 {
		cats = store.DefaultCategories
	}
	s := New(cats)

	var rawExpenses []core.RawExpense
	if err := readJSON(filepath.Join(base, "seed_expenses.json"), &rawExpenses); err != nil {
		return nil, err
	}
	for _, r := range rawExpenses {
		s.expenses = append(s.expenses, core.NormalizeExpense(r))
	}

	var rawIncome []core.RawIncome
	if err := readJSON(filepath.Join(base, "seed_income.json"), &rawIncome); err != nil {
		return nil, err
	}
	for _, r := range rawIncome {
		s.income = append(s.income, core.NormalizeIncome(r))
	}

	var rawGoals []core.RawGoal
	if err := readJSON(filepath.Join(base, "seed_goals.json"), &rawGoals); err != nil {
		return nil, err
	}
	for _, r := range rawGoals {
		s.goals = append(s.goals, core.NormalizeGoal(r))
	}
	return s, nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.expenses...), nil
}

func (s *Store) GetExpense(_ context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexBy(s.expenses, id, func(e core.Expense) string { return e.ID }); i >= 0 {
		return s.expenses[i], nil
	}
	return core.Expense{}, store.ErrNotFound
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexBy(s.expenses, e.ID, func(e core.Expense) string { return e.ID }) >= 0 {
		return fmt.Errorf("expense %s: %w", e.ID, store.ErrDuplicate)
	}
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.expenses, e.ID, func(e core.Expense) string { return e.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.expenses[i] = e
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.expenses, id, func(e core.Expense) string { return e.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
	return nil
}

func (s *Store) ListIncome(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Income(nil), s.income...), nil
}

func (s *Store) GetIncome(_ context.Context, id string) (core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexBy(s.income, id, func(r core.Income) string { return r.ID }); i >= 0 {
		return s.income[i], nil
	}
	return core.Income{}, store.ErrNotFound
}

func (s *Store) CreateIncome(_ context.Context, r core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexBy(s.income, r.ID, func(r core.Income) string { return r.ID }) >= 0 {
		return fmt.Errorf("income %s: %w", r.ID, store.ErrDuplicate)
	}
	s.income = append(s.income, r)
	return nil
}

func (s *Store) UpdateIncome(_ context.Context, r core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.income, r.ID, func(r core.Income) string { return r.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.income[i] = r
	return nil
}

func (s *Store) DeleteIncome(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.income, id, func(r core.Income) string { return r.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.income = append(s.income[:i], s.income[i+1:]...)
	return nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexBy(s.goals, id, func(g core.Goal) string { return g.ID }); i >= 0 {
		return s.goals[i], nil
	}
	return core.Goal{}, store.ErrNotFound
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexBy(s.goals, g.ID, func(g core.Goal) string { return g.ID }) >= 0 {
		return fmt.Errorf("goal %s: %w", g.ID, store.ErrDuplicate)
	}
	s.goals = append(s.goals, g)
	return nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.goals, g.ID, func(g core.Goal) string { return g.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.goals[i] = g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.goals, id, func(g core.Goal) string { return g.ID })
	if i < 0 {
		return store.ErrNotFound
	}
	s.goals = append(s.goals[:i], s.goals[i+1:]...)
	return nil
}

// ListCategories returns the category names in insertion order.
func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cats...), nil
}

func (s *Store) AddCategory(_ context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexBy(s.cats, name, func(c string) string { return c }) >= 0 {
		return fmt.Errorf("category %s: %w", name, store.ErrDuplicate)
	}
	s.cats = append(s.cats, name)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.cats, strings.TrimSpace(name), func(c string) string { return c })
	if i < 0 {
		return store.ErrNotFound
	}
	s.cats = append(s.cats[:i], s.cats[i+1:]...)
	return nil
}

func complaintID(c core.Complaint) string { return c.ID }

func (s *Store) ListComplaints(_ context.Context) ([]core.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Complaint(nil), s.complaints...), nil
}

func (s *Store) GetComplaint(_ context.Context, id string) (core.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := indexBy(s.complaints, id, complaintID); i >= 0 {
		return s.complaints[i], nil
	}
	return core.Complaint{}, store.ErrNotFound
}

func (s *Store) CreateComplaint(_ context.Context, c core.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexBy(s.complaints, c.ID, complaintID) >= 0 {
		return fmt.Errorf("complaint %s: %w", c.ID, store.ErrDuplicate)
	}
	s.complaints = append(s.complaints, c)
	return nil
}

func (s *Store) UpdateComplaint(_ context.Context, c core.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := indexBy(s.complaints, c.ID, complaintID)
	if i < 0 {
		return store.ErrNotFound
	}
	s.complaints[i] = c
	return nil
}

func indexBy[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

func readJSON(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
