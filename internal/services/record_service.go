package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/store"

	"github.com/google/uuid"
)

// ErrInvalidRecord wraps every validation failure returned by RecordService.
var ErrInvalidRecord = errors.New("invalid record")

// Publisher receives change notifications.
type Publisher interface {
	Publish(ev core.ChangeEvent)
}

// RecordService validates and stores records, announcing each change.
type RecordService struct {
	store  store.Store
	events Publisher
	newID  func() string
	now    func() time.Time
}

func NewRecordService(st store.Store, events Publisher) *RecordService {
	return &RecordService{
		store:  st,
		events: events,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (s *RecordService) publish(ctx context.Context, kind core.RecordKind, op core.ChangeOp, id string) {
	log.NewStructuredLogger(log.FromContext(ctx)).LogRecordChanged(ctx, string(kind), id, string(op))
	if s.events == nil {
		return
	}
	s.events.Publish(core.ChangeEvent{Kind: kind, Op: op, ID: id, At: s.now().UTC()})
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
}

func (s *RecordService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *RecordService) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// CreateExpense assigns an id when e has none, validates and stores it.
func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = trimExpense(e)
	if e.ID == "" {
		e.ID = s.newID()
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, invalid(err)
	}
	if err := s.store.CreateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, core.RecordExpense, core.ChangeCreated, e.ID)
	return e, nil
}

func (s *RecordService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	e = trimExpense(e)
	if err := e.Validate(); err != nil {
		return core.Expense{}, invalid(err)
	}
	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", e.ID, err)
	}
	s.publish(ctx, core.RecordExpense, core.ChangeUpdated, e.ID)
	return e, nil
}

func (s *RecordService) DeleteExpense(ctx context.Context, id string) error {
	if err := s.store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}
	s.publish(ctx, core.RecordExpense, core.ChangeDeleted, id)
	return nil
}

func (s *RecordService) ListIncome(ctx context.Context) ([]core.Income, error) {
	return s.store.ListIncome(ctx)
}

func (s *RecordService) GetIncome(ctx context.Context, id string) (core.Income, error) {
	return s.store.GetIncome(ctx, id)
}

func (s *RecordService) CreateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	i.ID = strings.TrimSpace(i.ID)
	i.Source = strings.TrimSpace(i.Source)
	if i.ID == "" {
		i.ID = s.newID()
	}
	if err := i.Validate(); err != nil {
		return core.Income{}, invalid(err)
	}
	if err := s.store.CreateIncome(ctx, i); err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}
	s.publish(ctx, core.RecordIncome, core.ChangeCreated, i.ID)
	return i, nil
}

func (s *RecordService) UpdateIncome(ctx context.Context, i core.Income) (core.Income, error) {
	i.Source = strings.TrimSpace(i.Source)
	if err := i.Validate(); err != nil {
		return core.Income{}, invalid(err)
	}
	if err := s.store.UpdateIncome(ctx, i); err != nil {
		return core.Income{}, fmt.Errorf("update income %s: %w", i.ID, err)
	}
	s.publish(ctx, core.RecordIncome, core.ChangeUpdated, i.ID)
	return i, nil
}

func (s *RecordService) DeleteIncome(ctx context.Context, id string) error {
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income %s: %w", id, err)
	}
	s.publish(ctx, core.RecordIncome, core.ChangeDeleted, id)
	return nil
}

func (s *RecordService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return s.store.ListGoals(ctx)
}

func (s *RecordService) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	return s.store.GetGoal(ctx, id)
}

// CreateGoal stores g; an absent type is recorded as monthly.
func (s *RecordService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.ID = strings.TrimSpace(g.ID)
	g.Title = strings.TrimSpace(g.Title)
	g.Type = g.EffectiveType()
	if g.ID == "" {
		g.ID = s.newID()
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, invalid(err)
	}
	if err := s.store.CreateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, core.RecordGoal, core.ChangeCreated, g.ID)
	return g, nil
}

func (s *RecordService) UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	g.Title = strings.TrimSpace(g.Title)
	g.Type = g.EffectiveType()
	if err := g.Validate(); err != nil {
		return core.Goal{}, invalid(err)
	}
	if err := s.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal %s: %w", g.ID, err)
	}
	s.publish(ctx, core.RecordGoal, core.ChangeUpdated, g.ID)
	return g, nil
}

func (s *RecordService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}
	s.publish(ctx, core.RecordGoal, core.ChangeDeleted, id)
	return nil
}

func (s *RecordService) ListCategories(ctx context.Context) ([]string, error) {
	return s.store.ListCategories(ctx)
}

func (s *RecordService) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid(core.ErrEmptyCategory)
	}
	if err := s.store.AddCategory(ctx, name); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	s.publish(ctx, core.RecordCategory, core.ChangeCreated, name)
	return nil
}

func (s *RecordService) DeleteCategory(ctx context.Context, name string) error {
	if err := s.store.DeleteCategory(ctx, name); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	s.publish(ctx, core.RecordCategory, core.ChangeDeleted, name)
	return nil
}

func trimExpense(e core.Expense) core.Expense {
	e.ID = strings.TrimSpace(e.ID)
	e.Title = strings.TrimSpace(e.Title)
	e.Category = strings.TrimSpace(e.Category)
	return e
}
