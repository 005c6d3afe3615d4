// Package sheets reads and appends ledger records in a Google Sheets
// spreadsheet. Each collection lives in its own tab whose first row names
// the columns; column order is free. Rows cannot be edited or removed
// through this backend.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/store"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ store.Store = (*Client)(nil)

// Config names the spreadsheet and its tabs.
type Config struct {
	SpreadsheetID   string
	CredentialsJSON string // inline service account JSON
	CredentialsFile string // path to a service account JSON file
	ExpensesSheet   string
	IncomeSheet     string
	GoalsSheet      string
	CategoriesSheet string
	ComplaintsSheet string
}

func (c *Config) applyDefaults() {
	if c.ExpensesSheet == "" {
		c.ExpensesSheet = "Expenses"
	}
	if c.IncomeSheet == "" {
		c.IncomeSheet = "Income"
	}
	if c.GoalsSheet == "" {
		c.GoalsSheet = "Goals"
	}
	if c.CategoriesSheet == "" {
		c.CategoriesSheet = "Categories"
	}
	if c.ComplaintsSheet == "" {
		c.ComplaintsSheet = "Complaints"
	}
}

type Client struct {
	svc *gsheet.Service
	cfg Config
}

// New creates a client. Without extra options it authenticates with the
// configured service account; tests pass endpoint and HTTP client options.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	cfg.SpreadsheetID = strings.TrimSpace(cfg.SpreadsheetID)
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	cfg.applyDefaults()

	if len(opts) == 0 {
		creds, err := loadCredentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", cfg.SpreadsheetID)
	return &Client{svc: svc, cfg: cfg}, nil
}

func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) readSheet(ctx context.Context, sheet string) ([][]any, error) {
	rng := fmt.Sprintf("%s!A:Z", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// header returns the layout of a tab from its first row.
func (c *Client) header(ctx context.Context, sheet string, fields map[string][]string, required ...string) (layout, error) {
	rng := fmt.Sprintf("%s!1:1", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row", sheet)
	}
	return detectLayout(resp.Values[0], fields, required...)
}

func (c *Client) appendRow(ctx context.Context, sheet string, row []any) error {
	rng := fmt.Sprintf("%s!A:Z", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.cfg.SpreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", sheet, err)
	}
	updated := ""
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Row appended to sheet", "sheet", sheet, "range", updated)
	return nil
}

func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	values, err := c.readSheet(ctx, c.cfg.ExpensesSheet)
	if err != nil {
		return nil, err
	}
	out, err := parseExpenses(values)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.cfg.ExpensesSheet, err)
	}
	return out, nil
}

func (c *Client) GetExpense(ctx context.Context, id string) (core.Expense, error) {
	list, err := c.ListExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}
	for _, e := range list {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, store.ErrNotFound
}

func (c *Client) CreateExpense(ctx context.Context, e core.Expense) error {
	l, err := c.header(ctx, c.cfg.ExpensesSheet, expenseFields, "amount", "date")
	if err != nil {
		return err
	}
	return c.appendRow(ctx, c.cfg.ExpensesSheet, encodeRow(l, map[string]any{
		"id":       e.ID,
		"title":    e.Title,
		"amount":   e.Amount.InexactFloat64(),
		"category": e.Category,
		"date":     e.Date.String(),
	}))
}

func (c *Client) UpdateExpense(context.Context, core.Expense) error { return store.ErrUnsupported }
func (c *Client) DeleteExpense(context.Context, string) error       { return store.ErrUnsupported }

func (c *Client) ListIncome(ctx context.Context) ([]core.Income, error) {
	values, err := c.readSheet(ctx, c.cfg.IncomeSheet)
	if err != nil {
		return nil, err
	}
	out, err := parseIncome(values)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.cfg.IncomeSheet, err)
	}
	return out, nil
}

func (c *Client) GetIncome(ctx context.Context, id string) (core.Income, error) {
	list, err := c.ListIncome(ctx)
	if err != nil {
		return core.Income{}, err
	}
	for _, i := range list {
		if i.ID == id {
			return i, nil
		}
	}
	return core.Income{}, store.ErrNotFound
}

func (c *Client) CreateIncome(ctx context.Context, i core.Income) error {
	l, err := c.header(ctx, c.cfg.IncomeSheet, incomeFields, "amount", "date")
	if err != nil {
		return err
	}
	return c.appendRow(ctx, c.cfg.IncomeSheet, encodeRow(l, map[string]any{
		"id":     i.ID,
		"source": i.Source,
		"amount": i.Amount.InexactFloat64(),
		"date":   i.Date.String(),
	}))
}

func (c *Client) UpdateIncome(context.Context, core.Income) error { return store.ErrUnsupported }
func (c *Client) DeleteIncome(context.Context, string) error      { return store.ErrUnsupported }

func (c *Client) ListGoals(ctx context.Context) ([]core.Goal, error) {
	values, err := c.readSheet(ctx, c.cfg.GoalsSheet)
	if err != nil {
		return nil, err
	}
	out, err := parseGoals(values)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.cfg.GoalsSheet, err)
	}
	return out, nil
}

func (c *Client) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	list, err := c.ListGoals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for _, g := range list {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, store.ErrNotFound
}

func (c *Client) CreateGoal(ctx context.Context, g core.Goal) error {
	l, err := c.header(ctx, c.cfg.GoalsSheet, goalFields, "title", "target")
	if err != nil {
		return err
	}
	return c.appendRow(ctx, c.cfg.GoalsSheet, encodeRow(l, map[string]any{
		"id":       g.ID,
		"title":    g.Title,
		"target":   g.TargetAmount.InexactFloat64(),
		"current":  g.CurrentAmount.InexactFloat64(),
		"deadline": g.Deadline.String(),
		"type":     string(g.EffectiveType()),
	}))
}

func (c *Client) UpdateGoal(context.Context, core.Goal) error { return store.ErrUnsupported }
func (c *Client) DeleteGoal(context.Context, string) error    { return store.ErrUnsupported }

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	rng := fmt.Sprintf("%s!A:A", c.cfg.CategoriesSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return parseCategories(resp.Values), nil
}

func (c *Client) AddCategory(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrEmptyCategory
	}
	existing, err := c.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, v := range existing {
		if v == name {
			return fmt.Errorf("category %s: %w", name, store.ErrDuplicate)
		}
	}
	return c.appendRow(ctx, c.cfg.CategoriesSheet, []any{name})
}

func (c *Client) DeleteCategory(context.Context, string) error { return store.ErrUnsupported }

func (c *Client) ListComplaints(ctx context.Context) ([]core.Complaint, error) {
	values, err := c.readSheet(ctx, c.cfg.ComplaintsSheet)
	if err != nil {
		return nil, err
	}
	out, err := parseComplaints(values)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", c.cfg.ComplaintsSheet, err)
	}
	return out, nil
}

func (c *Client) GetComplaint(ctx context.Context, id string) (core.Complaint, error) {
	list, err := c.ListComplaints(ctx)
	if err != nil {
		return core.Complaint{}, err
	}
	for _, t := range list {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Complaint{}, store.ErrNotFound
}

func (c *Client) CreateComplaint(ctx context.Context, t core.Complaint) error {
	l, err := c.header(ctx, c.cfg.ComplaintsSheet, complaintFields, "subject", "description")
	if err != nil {
		return err
	}
	return c.appendRow(ctx, c.cfg.ComplaintsSheet, encodeRow(l, map[string]any{
		"id":          t.ID,
		"user":        t.UserID,
		"email":       t.Email,
		"subject":     t.Subject,
		"description": t.Description,
		"status":      string(t.Status),
		"opened":      t.CreatedAt.UTC().Format(time.RFC3339),
	}))
}

func (c *Client) UpdateComplaint(context.Context, core.Complaint) error { return store.ErrUnsupported }
