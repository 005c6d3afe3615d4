// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// query parameters for the reports and JSON or form bodies for the records.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds record payloads.
const maxBodyBytes = 1 << 20

// ErrMalformedBody is returned when a body is neither JSON nor form data.
var ErrMalformedBody = errors.New("malformed request body")

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters, using the
// month of now for absent values. Malformed numbers are an error; numeric
// months outside 1..12 are left for the reports to clamp.
func ParseMonthParams(query url.Values, now time.Time) (MonthParams, error) {
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	var err error
	if params.Year, err = intParam(query, "year", params.Year); err != nil {
		return MonthParams{}, err
	}
	if params.Month, err = intParam(query, "month", params.Month); err != nil {
		return MonthParams{}, err
	}
	return params, nil
}

func intParam(query url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

// ParseWindow reads the start and end of a statement window. Absent bounds
// come back as the invalid date; present but unparsable bounds are an error.
func ParseWindow(query url.Values) (start, end core.Date, err error) {
	if start, err = dateParam(query, "start"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	if end, err = dateParam(query, "end"); err != nil {
		return core.Date{}, core.Date{}, err
	}
	return start, end, nil
}

func dateParam(query url.Values, key string) (core.Date, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	d := core.NormalizeDate(v)
	if !d.Valid() {
		return core.Date{}, fmt.Errorf("invalid %s %q: want YYYY-MM-DD", key, v)
	}
	return d, nil
}

// ParseGoalFilter reads the optional goal type filter; empty keeps all goals.
func ParseGoalFilter(query url.Values) (core.GoalType, error) {
	v := strings.TrimSpace(query.Get("type"))
	if v == "" {
		return "", nil
	}
	return core.ParseGoalType(v)
}

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", ErrMalformedBody, p.err)
		return p.err
	}

	body := strings.TrimSpace(string(p.body))
	if body == "" {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(strings.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("%w: %v", ErrMalformedBody, err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(body)
	if p.err != nil {
		p.err = fmt.Errorf("%w: %v", ErrMalformedBody, p.err)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

// Has reports whether key was sent at all.
func (p *RequestBodyParser) Has(key string) bool {
	if p.jsonData != nil {
		v, ok := p.jsonData[key]
		return ok && v != nil
	}
	if p.formData != nil {
		_, ok := p.formData[key]
		return ok
	}
	return false
}

// Amount reads key as a non-negative amount. JSON numbers and decimal
// strings (dot or comma separated) are accepted.
func (p *RequestBodyParser) Amount(key string) (decimal.Decimal, error) {
	if n, ok := p.jsonData[key].(json.Number); ok {
		return strictNumber(n.String())
	}
	return core.ParseAmount(p.Get(key))
}

func strictNumber(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, core.ErrInvalidAmount
	}
	return d, nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// recordDate reads key as a calendar date. An absent date means today; a
// present but unparsable one stays invalid so validation rejects it.
func recordDate(p *RequestBodyParser, key string, today core.Date) core.Date {
	if !p.Has(key) || p.Get(key) == "" {
		return today
	}
	return core.NormalizeDate(p.Get(key))
}

// ParseExpense builds an expense from the body. The id is left for the
// caller.
func ParseExpense(p *RequestBodyParser, today core.Date) (core.Expense, error) {
	if err := p.Parse(); err != nil {
		return core.Expense{}, err
	}
	amount, err := p.Amount("amount")
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Title:    p.Get("title"),
		Amount:   amount,
		Category: p.Get("category"),
		Date:     recordDate(p, "date", today),
	}, nil
}

func ParseIncome(p *RequestBodyParser, today core.Date) (core.Income, error) {
	if err := p.Parse(); err != nil {
		return core.Income{}, err
	}
	amount, err := p.Amount("amount")
	if err != nil {
		return core.Income{}, err
	}
	return core.Income{
		Source: p.Get("source"),
		Amount: amount,
		Date:   recordDate(p, "date", today),
	}, nil
}

// ParseGoal builds a goal from the body. currentAmount and deadline are
// optional; an absent type means monthly.
func ParseGoal(p *RequestBodyParser) (core.Goal, error) {
	if err := p.Parse(); err != nil {
		return core.Goal{}, err
	}
	target, err := p.Amount("targetAmount")
	if err != nil {
		return core.Goal{}, core.ErrInvalidTarget
	}
	current := decimal.Zero
	if p.Has("currentAmount") && p.Get("currentAmount") != "" {
		if current, err = p.Amount("currentAmount"); err != nil {
			return core.Goal{}, err
		}
	}
	typ, err := core.ParseGoalType(p.Get("type"))
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		Title:         p.Get("title"),
		TargetAmount:  target,
		CurrentAmount: current,
		Deadline:      core.NormalizeDate(p.Get("deadline")),
		Type:          typ,
	}, nil
}

// ParseComplaint reads a new help-desk ticket. Status and timestamps are set
// by the help desk, never by the client.
func ParseComplaint(p *RequestBodyParser) (core.Complaint, error) {
	if err := p.Parse(); err != nil {
		return core.Complaint{}, err
	}
	return core.Complaint{
		UserID:      p.Get("userId"),
		Email:       p.Get("email"),
		Subject:     p.Get("subject"),
		Description: p.Get("description"),
	}, nil
}

// ParseStatusChange reads the target status of a status change. Unlike
// the core parser it does not default an empty value to open.
func ParseStatusChange(p *RequestBodyParser) (core.ComplaintStatus, error) {
	if err := p.Parse(); err != nil {
		return "", err
	}
	if strings.TrimSpace(p.Get("status")) == "" {
		return "", core.ErrInvalidStatus
	}
	return core.ParseComplaintStatus(p.Get("status"))
}
