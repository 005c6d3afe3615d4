package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"budgetwise/internal/advisor"
	"budgetwise/internal/core"
	"budgetwise/internal/log"
	"budgetwise/internal/middleware/ratelimit"
	"budgetwise/internal/middleware/security"
	"budgetwise/internal/middleware/trace"
)

// Records is the record CRUD surface the handlers need.
type Records interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	GetExpense(ctx context.Context, id string) (core.Expense, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id string) error

	ListIncome(ctx context.Context) ([]core.Income, error)
	GetIncome(ctx context.Context, id string) (core.Income, error)
	CreateIncome(ctx context.Context, i core.Income) (core.Income, error)
	UpdateIncome(ctx context.Context, i core.Income) (core.Income, error)
	DeleteIncome(ctx context.Context, id string) error

	ListGoals(ctx context.Context) ([]core.Goal, error)
	GetGoal(ctx context.Context, id string) (core.Goal, error)
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	DeleteGoal(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	DeleteCategory(ctx context.Context, name string) error
}

// Reports is the read-only reporting surface.
type Reports interface {
	Monthly(ctx context.Context, year, month int) ([]core.Bucket, error)
	Yearly(ctx context.Context, year int) ([]core.Bucket, error)
	Categories(ctx context.Context, year, month int) (core.MonthOverview, error)
	Statement(ctx context.Context, start, end core.Date) (core.Statement, error)
	FullStatement(ctx context.Context) (core.Statement, error)
	GoalProgress(ctx context.Context, filter core.GoalType) ([]core.GoalProgress, error)
	Summary(ctx context.Context) (core.Summary, error)
}

// Advisor answers budgeting questions.
type Advisor interface {
	Ask(ctx context.Context, question string) (advisor.Answer, error)
}

// HelpDesk files and tracks complaints.
type HelpDesk interface {
	Complaints(ctx context.Context, userID string) ([]core.Complaint, error)
	Complaint(ctx context.Context, id string) (core.Complaint, error)
	File(ctx context.Context, c core.Complaint) (core.Complaint, error)
	SetStatus(ctx context.Context, id string, status core.ComplaintStatus) (core.Complaint, error)
}

// Subscriber hands out change feeds for the websocket endpoint.
type Subscriber interface {
	Subscribe(buffer int) (<-chan core.ChangeEvent, func())
}

// Options wires a Server. Records and Reports are required. Without an
// Advisor the advisor routes answer 503; without a HelpDesk the complaint
// routes are not registered.
type Options struct {
	Addr      string
	Records   Records
	Reports   Reports
	Advisor   Advisor
	HelpDesk  HelpDesk
	Changes   Subscriber
	Ready     func(ctx context.Context) error
	RateLimit int // mutating requests per minute per client
	Logger    *log.Logger
}

// Server wraps http.Server with the API routes and middleware chain.
type Server struct {
	http.Server

	records  Records
	reports  Reports
	advisor  Advisor
	helpdesk HelpDesk
	changes  Subscriber
	ready    func(ctx context.Context) error
	logger   *log.Logger
	now      func() time.Time
	started  time.Time

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	// closing is closed by Shutdown so websocket writers stop.
	closing      chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		records:  opts.Records,
		reports:  opts.Reports,
		advisor:  opts.Advisor,
		helpdesk: opts.HelpDesk,
		changes:  opts.Changes,
		ready:    opts.Ready,
		logger:   logger,
		now:      nowUTC,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimit}),
		detector: security.NewDetector(logger),
		closing:  make(chan struct{}),
	}
	s.started = s.now()
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/income", s.handleListIncome)
	mux.HandleFunc("POST /api/income", s.handleCreateIncome)
	mux.HandleFunc("GET /api/income/{id}", s.handleGetIncome)
	mux.HandleFunc("PUT /api/income/{id}", s.handleUpdateIncome)
	mux.HandleFunc("DELETE /api/income/{id}", s.handleDeleteIncome)

	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("POST /api/goals", s.handleCreateGoal)
	mux.HandleFunc("GET /api/goals/progress", s.handleGoalProgress)
	mux.HandleFunc("GET /api/goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PUT /api/goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /api/goals/{id}", s.handleDeleteGoal)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)
	mux.HandleFunc("DELETE /api/categories/{name}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/reports/monthly", s.handleMonthlyReport)
	mux.HandleFunc("GET /api/reports/yearly", s.handleYearlyReport)
	mux.HandleFunc("GET /api/reports/categories", s.handleCategoryReport)
	mux.HandleFunc("GET /api/statement", s.handleStatement)
	mux.HandleFunc("GET /api/summary", s.handleSummary)

	ask := log.ComponentMiddleware(log.ComponentAdvisor)(http.HandlerFunc(s.handleAsk))
	mux.Handle("POST /api/advisor", ask)
	mux.Handle("POST /api/helpdesk/chat", ask)

	if s.helpdesk != nil {
		desk := log.ComponentMiddleware(log.ComponentHelpDesk)
		mux.Handle("GET /api/complaints", desk(http.HandlerFunc(s.handleListComplaints)))
		mux.Handle("POST /api/complaints", desk(http.HandlerFunc(s.handleFileComplaint)))
		mux.Handle("GET /api/complaints/{id}", desk(http.HandlerFunc(s.handleGetComplaint)))
		mux.Handle("PATCH /api/complaints/{id}", desk(http.HandlerFunc(s.handleComplaintStatus)))
	}

	if s.changes != nil {
		mux.HandleFunc("GET /ws/changes", s.handleChanges)
	}
}

// middleware wraps h with, outermost first: tracing, request logger,
// suspicious request detection, security headers and rate limiting.
func (s *Server) middleware(h http.Handler) http.Handler {
	h = s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.Mutating, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.NewFields().WithClientIP(s.detector.ExtractClientIP(r)).WithComponent(log.ComponentRateLimit).ToSlice()...)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
	})(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.detector.Middleware(h)
	h = log.RequestIDMiddleware(trace.RequestIDFromRequest)(h)
	h = log.Middleware(s.logger)(h)
	return s.tracer.Middleware(h)
}

// Run serves until ctx is done, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.Addr)
		errCh <- s.ListenAndServe()
	}()

	go func() {
		_ = s.limiter.Run(ctx)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown closes open change feeds, then shuts the HTTP server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.closing)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
