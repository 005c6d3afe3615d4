package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budgetwise/internal/advisor"
	"budgetwise/internal/core"
	"budgetwise/internal/events"
	"budgetwise/internal/services"
	"budgetwise/internal/store"
	"budgetwise/internal/store/memory"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seeded holds lifetime savings of 900 before March 2024.
func seeded(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.New(store.DefaultCategories)
	for _, err := range []error{
		s.CreateExpense(ctx, core.Expense{ID: "e1", Title: "Rent", Amount: dec("700"), Category: "Rent", Date: core.NewDate(2023, 12, 1)}),
		s.CreateExpense(ctx, core.Expense{ID: "e2", Title: "Groceries", Amount: dec("100"), Category: "Food", Date: core.NewDate(2024, 3, 5)}),
		s.CreateIncome(ctx, core.Income{ID: "i1", Source: "Salary", Amount: dec("1500"), Date: core.NewDate(2023, 12, 1)}),
		s.CreateIncome(ctx, core.Income{ID: "i2", Source: "Bonus", Amount: dec("200"), Date: core.NewDate(2024, 3, 1)}),
		s.CreateGoal(ctx, core.Goal{ID: "g1", Title: "Emergency fund", TargetAmount: dec("800"), Type: core.GoalYearly}),
		s.CreateGoal(ctx, core.Goal{ID: "g2", Title: "Trip", TargetAmount: dec("400"), CurrentAmount: dec("100"), Type: core.GoalMonthly}),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	return s
}

type testEnv struct {
	srv    *Server
	broker *events.Broker
	store  store.Store
}

func newTestEnv(t *testing.T, st store.Store, opts Options) *testEnv {
	t.Helper()
	broker := events.NewBroker(nil)
	t.Cleanup(broker.Close)

	if opts.Records == nil {
		opts.Records = services.NewRecordService(st, broker)
	}
	if opts.Reports == nil {
		reports := services.NewReportService(st, services.ReportOptions{})
		broker.Handle(reports.Notify)
		opts.Reports = reports
	}
	if opts.HelpDesk == nil {
		opts.HelpDesk = services.NewHelpDesk(st, broker)
	}
	if opts.Changes == nil {
		opts.Changes = broker
	}
	srv := NewServer(opts)
	srv.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return &testEnv{srv: srv, broker: broker, store: st}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{Ready: func(context.Context) error { return nil }})

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := env.do(t, http.MethodGet, path, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	failing := newTestEnv(t, seeded(t), Options{Ready: func(context.Context) error { return errors.New("db down") }})
	rr := failing.do(t, http.MethodGet, "/readyz", "")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d, want 503", rr.Code)
	}
	body := decode[map[string]any](t, rr)
	if body["status"] != "not_ready" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestMiddlewareHeaders(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})
	rr := env.do(t, http.MethodGet, "/api/summary", "")

	for _, name := range []string{"X-Request-ID", "X-Content-Type-Options", "Content-Security-Policy"} {
		if rr.Header().Get(name) == "" {
			t.Errorf("missing header %s", name)
		}
	}
}

func TestExpenseLifecycle(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodPost, "/api/expenses", `{"title":"Coffee","amount":"3,50","category":"Food","date":"2024-03-10"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decode[expenseDTO](t, rr)
	if created.ID == "" || created.Amount != 3.5 || created.Date != "2024-03-10" {
		t.Fatalf("created = %+v", created)
	}
	if loc := rr.Header().Get("Location"); loc != "/api/expenses/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	rr = env.do(t, http.MethodGet, "/api/expenses/"+created.ID, "")
	if rr.Code != http.StatusOK || decode[expenseDTO](t, rr).Title != "Coffee" {
		t.Fatalf("get status=%d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPut, "/api/expenses/"+created.ID, `{"title":"Espresso","amount":4,"category":"Food","date":"2024-03-10"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[expenseDTO](t, rr); got.Title != "Espresso" || got.ID != created.ID {
		t.Errorf("updated = %+v", got)
	}

	rr = env.do(t, http.MethodGet, "/api/expenses", "")
	if list := decode[[]expenseDTO](t, rr); len(list) != 3 {
		t.Errorf("list length = %d, want 3", len(list))
	}

	if rr := env.do(t, http.MethodDelete, "/api/expenses/"+created.ID, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/expenses/"+created.ID, ""); rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPut, "/api/expenses/missing", `{"title":"x","amount":1,"category":"Food"}`); rr.Code != http.StatusNotFound {
		t.Fatalf("update missing status=%d", rr.Code)
	}
}

func TestReportsFollowWrites(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})
	const window = "/api/statement?start=2024-03-01&end=2024-03-31"

	closing := func() float64 {
		t.Helper()
		return decode[statementDTO](t, env.do(t, http.MethodGet, window, "")).ClosingBalance
	}
	savings := func() float64 {
		t.Helper()
		return decode[summaryDTO](t, env.do(t, http.MethodGet, "/api/summary", "")).Lifetime.Savings
	}
	yearlyGoal := func() goalProgressDTO {
		t.Helper()
		progress := decode[[]goalProgressDTO](t, env.do(t, http.MethodGet, "/api/goals/progress?type=yearly", ""))
		if len(progress) != 1 {
			t.Fatalf("yearly goals = %d", len(progress))
		}
		return progress[0]
	}

	// warm every report
	if closing() != 900 || savings() != 900 || !yearlyGoal().Achieved {
		t.Fatal("unexpected seeded reports")
	}

	rr := env.do(t, http.MethodPost, "/api/expenses", `{"title":"Bike","amount":150,"category":"Travel","date":"2024-03-10"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}
	id := decode[expenseDTO](t, rr).ID

	if got := closing(); got != 750 {
		t.Errorf("closing after create = %v, want 750", got)
	}
	if got := savings(); got != 750 {
		t.Errorf("savings after create = %v, want 750", got)
	}
	if g := yearlyGoal(); g.Current != 750 || g.Achieved {
		t.Errorf("yearly goal after create = %+v", g)
	}

	rr = env.do(t, http.MethodPut, "/api/expenses/"+id, `{"title":"Bike","amount":50,"category":"Travel","date":"2024-03-10"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("update status=%d", rr.Code)
	}
	if got := closing(); got != 850 {
		t.Errorf("closing after update = %v, want 850", got)
	}

	if rr := env.do(t, http.MethodDelete, "/api/expenses/"+id, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
	if got := closing(); got != 900 {
		t.Errorf("closing after delete = %v, want 900", got)
	}
	if !yearlyGoal().Achieved {
		t.Error("yearly goal should be achieved again after delete")
	}
}

func TestCreateValidation(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"missing title", "/api/expenses", `{"amount":1,"category":"Food"}`, http.StatusUnprocessableEntity},
		{"missing category", "/api/expenses", `{"title":"x","amount":1}`, http.StatusUnprocessableEntity},
		{"negative amount", "/api/expenses", `{"title":"x","amount":-1,"category":"Food"}`, http.StatusUnprocessableEntity},
		{"sub-cent amount", "/api/expenses", `{"title":"x","amount":"0.004","category":"Food"}`, http.StatusUnprocessableEntity},
		{"oversized amount", "/api/income", `{"source":"x","amount":100000000000000000}`, http.StatusUnprocessableEntity},
		{"bad date", "/api/expenses", `{"title":"x","amount":1,"category":"Food","date":"31/02/2024"}`, http.StatusUnprocessableEntity},
		{"malformed json", "/api/expenses", `{"title":`, http.StatusBadRequest},
		{"income without source", "/api/income", `{"amount":10}`, http.StatusUnprocessableEntity},
		{"goal zero target", "/api/goals", `{"title":"x","targetAmount":0}`, http.StatusUnprocessableEntity},
		{"goal bad type", "/api/goals", `{"title":"x","targetAmount":10,"type":"weekly"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, tt.path, tt.body)
			if rr.Code != tt.want {
				t.Errorf("status=%d want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestIncomeAndGoals(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodPost, "/api/income", `{"source":"Freelance","amount":250}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create income status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[incomeDTO](t, rr); got.Date != "2024-03-15" {
		t.Errorf("absent date should default to today, got %q", got.Date)
	}

	rr = env.do(t, http.MethodPost, "/api/goals", `{"title":"Laptop","targetAmount":"1200","deadline":"2024-12-31"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create goal status=%d body=%s", rr.Code, rr.Body.String())
	}
	goal := decode[goalDTO](t, rr)
	if goal.Type != "monthly" || goal.Deadline != "2024-12-31" {
		t.Errorf("goal = %+v", goal)
	}

	rr = env.do(t, http.MethodGet, "/api/goals", "")
	if list := decode[[]goalDTO](t, rr); len(list) != 3 {
		t.Errorf("goals = %d, want 3", len(list))
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodGet, "/api/categories", "")
	if cats := decode[[]string](t, rr); len(cats) != len(store.DefaultCategories) {
		t.Fatalf("categories = %v", cats)
	}

	if rr := env.do(t, http.MethodPost, "/api/categories", `{"name":"Pets"}`); rr.Code != http.StatusCreated {
		t.Fatalf("add status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/categories", `{"name":"Pets"}`); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate add status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/categories", `{"name":"  "}`); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank add status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodDelete, "/api/categories/Pets", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete status=%d", rr.Code)
	}
}

func TestReports(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodGet, "/api/reports/monthly?year=2024&month=3", "")
	monthly := decode[seriesDTO](t, rr)
	if len(monthly.Buckets) != 31 || monthly.Total != 100 || monthly.Buckets[4].Sum != 100 {
		t.Errorf("monthly = %d buckets, total %v", len(monthly.Buckets), monthly.Total)
	}

	rr = env.do(t, http.MethodGet, "/api/reports/monthly?year=2024&month=14", "")
	if got := decode[seriesDTO](t, rr); got.Month != 12 || len(got.Buckets) != 31 {
		t.Errorf("clamped month = %d with %d buckets", got.Month, len(got.Buckets))
	}

	rr = env.do(t, http.MethodGet, "/api/reports/yearly?year=2023", "")
	yearly := decode[seriesDTO](t, rr)
	if len(yearly.Buckets) != 12 || yearly.Buckets[11].Label != "Dec" || yearly.Buckets[11].Sum != 700 {
		t.Errorf("yearly = %+v", yearly.Buckets)
	}

	rr = env.do(t, http.MethodGet, "/api/reports/categories?year=2024&month=3", "")
	if ov := decode[overviewDTO](t, rr); len(ov.ByCategory) != 1 || ov.ByCategory[0].Name != "Food" {
		t.Errorf("categories = %+v", ov)
	}

	if rr := env.do(t, http.MethodGet, "/api/reports/monthly?year=soon", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("malformed year status=%d", rr.Code)
	}
}

func TestStatementEndpoint(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodGet, "/api/statement?start=2024-03-01&end=2024-03-31", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	st := decode[statementDTO](t, rr)
	if st.OpeningBalance != 800 || st.ClosingBalance != 900 {
		t.Errorf("opening %v closing %v", st.OpeningBalance, st.ClosingBalance)
	}
	if len(st.Lines) != 2 || st.Lines[0].ID != "i2" || st.Lines[0].Balance != 1000 || st.Lines[1].Balance != 900 {
		t.Errorf("lines = %+v", st.Lines)
	}

	rr = env.do(t, http.MethodGet, "/api/statement?start=2024-04-01&end=2024-03-01", "")
	if st := decode[statementDTO](t, rr); rr.Code != http.StatusOK || len(st.Lines) != 0 {
		t.Errorf("inverted window: status=%d lines=%d", rr.Code, len(st.Lines))
	}

	rr = env.do(t, http.MethodGet, "/api/statement?range=all", "")
	if all := decode[statementDTO](t, rr); all.Start != "2023-12-01" || all.End != "2024-03-05" || len(all.Lines) != 4 || all.ClosingBalance != 900 {
		t.Errorf("full statement = %+v", all)
	}

	if rr := env.do(t, http.MethodGet, "/api/statement?start=2024-03-01", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("half window status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/statement?start=march", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad date status=%d", rr.Code)
	}
}

func TestGoalProgressAndSummary(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodGet, "/api/goals/progress?type=yearly", "")
	progress := decode[[]goalProgressDTO](t, rr)
	if len(progress) != 1 || progress[0].Current != 900 || progress[0].Percent != 100 || !progress[0].Achieved {
		t.Errorf("yearly progress = %+v", progress)
	}

	rr = env.do(t, http.MethodGet, "/api/goals/progress", "")
	if all := decode[[]goalProgressDTO](t, rr); len(all) != 2 {
		t.Errorf("all progress = %d", len(all))
	}

	if rr := env.do(t, http.MethodGet, "/api/goals/progress?type=weekly", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad filter status=%d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/summary", "")
	sum := decode[summaryDTO](t, rr)
	if sum.Lifetime.Savings != 900 || sum.GoalsTotal != 2 || sum.GoalsAchieved != 1 {
		t.Errorf("summary = %+v", sum)
	}
}

// appendOnly mimics the spreadsheet backend.
type appendOnly struct{ store.Store }

func (appendOnly) UpdateExpense(context.Context, core.Expense) error { return store.ErrUnsupported }

func TestUnsupportedOperation(t *testing.T) {
	env := newTestEnv(t, appendOnly{seeded(t)}, Options{})

	rr := env.do(t, http.MethodPut, "/api/expenses/e2", `{"title":"x","amount":1,"category":"Food"}`)
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status=%d, want 501", rr.Code)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{RateLimit: 1})

	body := `{"title":"x","amount":1,"category":"Food"}`
	if rr := env.do(t, http.MethodPost, "/api/expenses", body); rr.Code != http.StatusCreated {
		t.Fatalf("first status=%d", rr.Code)
	}
	if rr := env.do(t, http.MethodPost, "/api/expenses", body); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second status=%d, want 429", rr.Code)
	}
	if rr := env.do(t, http.MethodGet, "/api/expenses", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads are not limited, got %d", rr.Code)
	}
}

func TestChangeFeed(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})
	ts := httptest.NewServer(env.srv.Handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/changes"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var frame changeFrame
	if err := conn.ReadJSON(&frame); err != nil || frame.Type != "hello" {
		t.Fatalf("hello frame = %+v, %v", frame, err)
	}

	resp, err := http.Post(ts.URL+"/api/expenses", "application/json",
		strings.NewReader(`{"title":"Taxi","amount":20,"category":"Travel"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status=%d", resp.StatusCode)
	}

	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read change: %v", err)
	}
	if frame.Type != "change" || frame.Kind != "expense" || frame.Op != "created" || frame.ID == "" {
		t.Errorf("frame = %+v", frame)
	}
}

type stubAdvisor struct {
	question string
	err      error
}

func (a *stubAdvisor) Ask(_ context.Context, question string) (advisor.Answer, error) {
	a.question = question
	if a.err != nil {
		return advisor.Answer{}, a.err
	}
	return advisor.Answer{Reply: "Spend less on dining out.", Model: "gemini-test"}, nil
}

func TestAdvisorEndpoint(t *testing.T) {
	stub := &stubAdvisor{}
	env := newTestEnv(t, seeded(t), Options{Advisor: stub})

	rr := env.do(t, http.MethodPost, "/api/advisor", `{"message":"How can I save more?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[advisorReplyDTO](t, rr); got.Response != "Spend less on dining out." || got.Model != "gemini-test" {
		t.Fatalf("reply = %+v", got)
	}
	if stub.question != "How can I save more?" {
		t.Fatalf("question = %q", stub.question)
	}
	if rr := env.do(t, http.MethodPost, "/api/helpdesk/chat", `{"message":"Hi"}`); rr.Code != http.StatusOK {
		t.Fatalf("helpdesk chat status=%d", rr.Code)
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty question", fmt.Errorf("ask: %w", advisor.ErrEmptyQuestion), http.StatusUnprocessableEntity},
		{"model down", fmt.Errorf("%w: %w", advisor.ErrModel, errors.New("quota")), http.StatusBadGateway},
		{"empty reply", advisor.ErrEmptyReply, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub.err = tt.err
			if rr := env.do(t, http.MethodPost, "/api/advisor", `{"message":"x"}`); rr.Code != tt.want {
				t.Fatalf("status=%d, want %d", rr.Code, tt.want)
			}
		})
	}

	unconfigured := newTestEnv(t, seeded(t), Options{})
	if rr := unconfigured.do(t, http.MethodPost, "/api/advisor", `{"message":"Hi"}`); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unconfigured status=%d", rr.Code)
	}
}

func TestComplaintEndpoints(t *testing.T) {
	env := newTestEnv(t, seeded(t), Options{})

	rr := env.do(t, http.MethodPost, "/api/complaints",
		`{"userId":"u1","email":"ana@example.com","subject":"Wrong total","description":"March looks off.","status":"resolved"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("file status=%d body=%s", rr.Code, rr.Body.String())
	}
	c := decode[complaintDTO](t, rr)
	if c.ID == "" || c.Status != "open" || c.CreatedAt == "" || rr.Header().Get("Location") != "/api/complaints/"+c.ID {
		t.Fatalf("filed complaint = %+v", c)
	}
	if rr := env.do(t, http.MethodPost, "/api/complaints", `{"userId":"u2","subject":"Other","description":"x"}`); rr.Code != http.StatusCreated {
		t.Fatalf("second file status=%d", rr.Code)
	}

	rr = env.do(t, http.MethodGet, "/api/complaints?user=u1", "")
	if mine := decode[[]complaintDTO](t, rr); len(mine) != 1 || mine[0].ID != c.ID {
		t.Fatalf("u1 complaints = %+v", mine)
	}
	rr = env.do(t, http.MethodGet, "/api/complaints", "")
	if all := decode[[]complaintDTO](t, rr); len(all) != 2 {
		t.Fatalf("all complaints = %d", len(all))
	}

	rr = env.do(t, http.MethodPatch, "/api/complaints/"+c.ID, `{"status":"resolved"}`)
	if got := decode[complaintDTO](t, rr); rr.Code != http.StatusOK || got.Status != "resolved" {
		t.Fatalf("status change = %d %+v", rr.Code, got)
	}
	rr = env.do(t, http.MethodGet, "/api/complaints/"+c.ID, "")
	if got := decode[complaintDTO](t, rr); got.Status != "resolved" || got.Subject != "Wrong total" {
		t.Fatalf("stored complaint = %+v", got)
	}

	tests := []struct {
		name, method, path, body string
		want                     int
	}{
		{"missing subject", http.MethodPost, "/api/complaints", `{"description":"x"}`, http.StatusUnprocessableEntity},
		{"bad email", http.MethodPost, "/api/complaints", `{"subject":"s","description":"d","email":"nope"}`, http.StatusUnprocessableEntity},
		{"empty status", http.MethodPatch, "/api/complaints/" + c.ID, `{}`, http.StatusUnprocessableEntity},
		{"unknown status", http.MethodPatch, "/api/complaints/" + c.ID, `{"status":"escalated"}`, http.StatusUnprocessableEntity},
		{"unknown complaint", http.MethodGet, "/api/complaints/nope", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := env.do(t, tt.method, tt.path, tt.body); rr.Code != tt.want {
				t.Fatalf("status=%d, want %d body=%s", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}
