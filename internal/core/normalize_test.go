package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "0"},
		{"string", "100", "100"},
		{"string with spaces", " 12.5 ", "12.5"},
		{"decimal comma", "12,50", "12.5"},
		{"garbage string", "abc", "0"},
		{"empty string", "", "0"},
		{"float", 200.0, "200"},
		{"fractional float", 19.99, "19.99"},
		{"int", 7, "7"},
		{"int64", int64(42), "42"},
		{"json number", json.Number("3.25"), "3.25"},
		{"NaN", math.NaN(), "0"},
		{"Inf", math.Inf(1), "0"},
		{"bool", true, "0"},
		{"map", map[string]any{}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAmount(tc.in)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("NormalizeAmount(%v) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	if got := NormalizeDate("2024-03-05"); got != NewDate(2024, 3, 5) {
		t.Fatalf("plain date: got %v", got)
	}
	if got := NormalizeDate("2024-03-05T22:10:00Z"); got != NewDate(2024, 3, 5) {
		t.Fatalf("timestamp: got %v", got)
	}
	for _, bad := range []string{"", "yesterday", "2024-13-01", "2024-02-30"} {
		if NormalizeDate(bad).Valid() {
			t.Fatalf("%q should normalize to the invalid date", bad)
		}
	}
}

func TestNormalizeRecordsFromJSON(t *testing.T) {
	var raw []RawExpense
	body := `[{"title":"Lunch","amount":"100","category":"Food","date":"2024-03-05"},
	          {"title":"Taxi","category":"Travel","date":"not a date"}]`
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	e0 := NormalizeExpense(raw[0])
	if !e0.Amount.Equal(decimal.NewFromInt(100)) || e0.Date != NewDate(2024, 3, 5) {
		t.Fatalf("unexpected first expense: %+v", e0)
	}
	e1 := NormalizeExpense(raw[1])
	if !e1.Amount.IsZero() || e1.Date.Valid() {
		t.Fatalf("missing amount and bad date should be defaulted: %+v", e1)
	}

	var inc RawIncome
	if err := json.Unmarshal([]byte(`{"source":"Salary","amount":200,"date":"2024-03-01"}`), &inc); err != nil {
		t.Fatalf("unmarshal income: %v", err)
	}
	if got := NormalizeIncome(inc); !got.Amount.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected income amount %s", got.Amount)
	}
}

func TestNormalizeGoal(t *testing.T) {
	g := NormalizeGoal(RawGoal{Title: "Trip", TargetAmount: "1000", CurrentAmount: 50.0})
	if g.Type != GoalMonthly {
		t.Fatalf("absent type should default to monthly, got %q", g.Type)
	}
	if !g.TargetAmount.Equal(decimal.NewFromInt(1000)) || !g.CurrentAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected amounts: %+v", g)
	}
	if NormalizeGoal(RawGoal{Type: "weekly"}).Validate() == nil {
		t.Fatalf("unknown goal type must fail validation")
	}
}
