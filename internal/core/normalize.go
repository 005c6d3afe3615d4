package core

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Raw records arrive from loosely typed sources (JSON bodies, spreadsheet
// cells). Amount may be a string, any numeric type, or absent.
type (
	RawExpense struct {
		ID       string `json:"id,omitempty"`
		Title    string `json:"title"`
		Amount   any    `json:"amount"`
		Category string `json:"category"`
		Date     string `json:"date"`
	}

	RawIncome struct {
		ID     string `json:"id,omitempty"`
		Source string `json:"source"`
		Amount any    `json:"amount"`
		Date   string `json:"date"`
	}

	RawGoal struct {
		ID            string `json:"id,omitempty"`
		Title         string `json:"title"`
		TargetAmount  any    `json:"targetAmount"`
		CurrentAmount any    `json:"currentAmount"`
		Deadline      string `json:"deadline"`
		Type          string `json:"type"`
	}
)

// NormalizeAmount coerces a loosely typed amount into a finite decimal.
// Missing, unparsable or non-finite values become zero; it never fails.
func NormalizeAmount(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero
		}
		// spreadsheet locales write a decimal comma
		s = strings.ReplaceAll(s, ",", ".")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		return NormalizeAmount(x.String())
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(x)
	case float32:
		return NormalizeAmount(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	default:
		return decimal.Zero
	}
}

// NormalizeDate parses an ISO date ("2024-03-05") or an ISO timestamp
// ("2024-03-05T10:00:00Z") into a calendar date. Anything else yields the
// invalid zero Date.
func NormalizeDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	if d, err := ParseDate(s); err == nil {
		return d
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t)
	}
	return Date{}
}

func NormalizeExpense(r RawExpense) Expense {
	return Expense{
		ID:       strings.TrimSpace(r.ID),
		Title:    strings.TrimSpace(r.Title),
		Amount:   NormalizeAmount(r.Amount),
		Category: strings.TrimSpace(r.Category),
		Date:     NormalizeDate(r.Date),
	}
}

func NormalizeIncome(r RawIncome) Income {
	return Income{
		ID:     strings.TrimSpace(r.ID),
		Source: strings.TrimSpace(r.Source),
		Amount: NormalizeAmount(r.Amount),
		Date:   NormalizeDate(r.Date),
	}
}

// NormalizeGoal coerces a raw goal. An unknown type is kept verbatim so
// that Validate can report it; an absent type becomes monthly.
func NormalizeGoal(r RawGoal) Goal {
	typ, err := ParseGoalType(r.Type)
	if err != nil {
		typ = GoalType(strings.TrimSpace(r.Type))
	}
	return Goal{
		ID:            strings.TrimSpace(r.ID),
		Title:         strings.TrimSpace(r.Title),
		TargetAmount:  NormalizeAmount(r.TargetAmount),
		CurrentAmount: NormalizeAmount(r.CurrentAmount),
		Deadline:      NormalizeDate(r.Deadline),
		Type:          typ,
	}
}
