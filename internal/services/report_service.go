package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetwise/internal/cache"
	"budgetwise/internal/config"
	"budgetwise/internal/core"
	"budgetwise/internal/ledger"
	"budgetwise/internal/store"

	"golang.org/x/sync/errgroup"
)

// ReportService loads a snapshot of the backend and runs the ledger
// computations over it. Results are memoised until Notify sees a change.
type ReportService struct {
	store       store.Store
	cache       *cache.LRUCache[any]
	yearlyScope string
	now         func() time.Time
	logger      *slog.Logger
}

// ReportOptions tunes a ReportService. Zero values pick the defaults.
type ReportOptions struct {
	Cache       *cache.LRUCache[any]
	YearlyScope string
	Logger      *slog.Logger
}

func NewReportService(st store.Store, opts ReportOptions) *ReportService {
	if opts.Cache == nil {
		opts.Cache = cache.NewLRUCache[any](256, 5*time.Minute)
	}
	if opts.YearlyScope == "" {
		opts.YearlyScope = config.YearlyScopeLifetime
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ReportService{
		store:       st,
		cache:       opts.Cache,
		yearlyScope: opts.YearlyScope,
		now:         time.Now,
		logger:      opts.Logger,
	}
}

// Snapshot reads the three collections concurrently.
func (s *ReportService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if snap.Expenses, err = s.store.ListExpenses(ctx); err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Income, err = s.store.ListIncome(ctx); err != nil {
			return fmt.Errorf("load income: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Goals, err = s.store.ListGoals(ctx); err != nil {
			return fmt.Errorf("load goals: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}

// memo returns the cached value for key or computes it from a fresh
// snapshot. A value computed across a purge is returned but not cached.
func memo[T any](ctx context.Context, s *ReportService, key string, compute func(core.Snapshot) T) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if t, ok := v.(T); ok {
			s.logger.DebugContext(ctx, "Report served from cache", "component", "reports", "report", key)
			return t, nil
		}
	}

	gen := s.cache.Generation()
	snap, err := s.Snapshot(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	v := compute(snap)
	s.cache.SetAt(gen, key, v)
	return v, nil
}

func (s *ReportService) today() core.Date {
	return core.DateOf(s.now().UTC())
}

// goalTotals is the figure yearly goals are measured against.
func (s *ReportService) goalTotals(snap core.Snapshot) core.Totals {
	if s.yearlyScope == config.YearlyScopeCalendarYear {
		return ledger.YearTotals(snap.Expenses, snap.Income, s.today().Year())
	}
	return ledger.Totals(snap.Expenses, snap.Income)
}

// Monthly returns one bucket per day of the month.
func (s *ReportService) Monthly(ctx context.Context, year, month int) ([]core.Bucket, error) {
	key := fmt.Sprintf("monthly:%d:%d", year, month)
	return memo(ctx, s, key, func(snap core.Snapshot) []core.Bucket {
		return ledger.AggregateMonthly(snap.Expenses, year, month)
	})
}

// Yearly returns one bucket per month of the year.
func (s *ReportService) Yearly(ctx context.Context, year int) ([]core.Bucket, error) {
	key := fmt.Sprintf("yearly:%d", year)
	return memo(ctx, s, key, func(snap core.Snapshot) []core.Bucket {
		return ledger.AggregateYearly(snap.Expenses, year)
	})
}

func (s *ReportService) Categories(ctx context.Context, year, month int) (core.MonthOverview, error) {
	key := fmt.Sprintf("categories:%d:%d", year, month)
	return memo(ctx, s, key, func(snap core.Snapshot) core.MonthOverview {
		return ledger.CategoryBreakdown(snap.Expenses, year, month)
	})
}

// Statement reconciles [start, end]. When both bounds are invalid the
// current calendar month is used.
func (s *ReportService) Statement(ctx context.Context, start, end core.Date) (core.Statement, error) {
	if !start.Valid() && !end.Valid() {
		today := s.today()
		start = core.NewDate(today.Year(), today.Month(), 1)
		end = core.NewDate(today.Year(), today.Month(), core.DaysIn(today.Year(), today.Month()))
	}
	key := fmt.Sprintf("statement:%s:%s", start, end)
	return memo(ctx, s, key, func(snap core.Snapshot) core.Statement {
		return ledger.BuildStatement(snap.Expenses, snap.Income, start, end)
	})
}

// FullStatement reconciles every dated record, from the earliest to the
// latest. An empty ledger yields an empty statement with zero dates.
func (s *ReportService) FullStatement(ctx context.Context) (core.Statement, error) {
	return memo(ctx, s, "statement:all", func(snap core.Snapshot) core.Statement {
		first, last, ok := ledger.Span(snap.Expenses, snap.Income)
		if !ok {
			return ledger.BuildStatement(nil, nil, core.Date{}, core.Date{})
		}
		return ledger.BuildStatement(snap.Expenses, snap.Income, first, last)
	})
}

// GoalProgress evaluates every goal, or only those of filter when set.
func (s *ReportService) GoalProgress(ctx context.Context, filter core.GoalType) ([]core.GoalProgress, error) {
	key := fmt.Sprintf("goals:%s:%s", filter, s.today())
	return memo(ctx, s, key, func(snap core.Snapshot) []core.GoalProgress {
		return ledger.EvaluateGoals(snap.Goals, s.goalTotals(snap), filter)
	})
}

func (s *ReportService) Summary(ctx context.Context) (core.Summary, error) {
	today := s.today()
	key := fmt.Sprintf("summary:%s", today)
	return memo(ctx, s, key, func(snap core.Snapshot) core.Summary {
		return ledger.Summarize(snap, today, s.goalTotals(snap))
	})
}

// Invalidate drops every memoised report.
func (s *ReportService) Invalidate() int {
	return s.cache.Purge()
}

// Notify purges the cache for ev. It is registered as a synchronous broker
// handler so a write is visible to the next report request. Complaint events
// leave the cache alone.
func (s *ReportService) Notify(ev core.ChangeEvent) {
	if ev.Kind == core.RecordComplaint {
		return
	}
	n := s.Invalidate()
	s.logger.Debug("Report cache invalidated",
		"component", "reports", "kind", ev.Kind, "op", ev.Op, "remote", ev.Remote, "dropped", n)
}
