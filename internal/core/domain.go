package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	GoalMonthly GoalType = "monthly"
	GoalYearly  GoalType = "yearly"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type (
	GoalType string

	// Date is a calendar date without a time component. The zero value is
	// the "invalid" date: it never falls inside a reporting window.
	Date struct {
		time.Time
	}

	Expense struct {
		ID       string
		Title    string
		Amount   decimal.Decimal
		Category string
		Date     Date
	}

	Income struct {
		ID     string
		Source string
		Amount decimal.Decimal
		Date   Date
	}

	Goal struct {
		ID            string
		Title         string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal // only meaningful for monthly goals
		Deadline      Date            // informational
		Type          GoalType
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidTarget   = errors.New("target amount must be positive")
	ErrInvalidGoalType = errors.New("invalid goal type")
	ErrEmptyTitle      = errors.New("empty title")
	ErrEmptySource     = errors.New("empty source")
	ErrEmptyCategory   = errors.New("empty category")
	ErrTitleTooLong    = errors.New("title too long (max 200 characters)")
	ErrAmountPrecision = errors.New("amount must not have more than 2 decimal places")
	ErrAmountTooLarge  = errors.New("amount exceeds the maximum of 1000000000000")
)

const maxTitleLen = 200

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day, keeping t's own wall clock.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Valid reports whether the date is a real calendar date.
func (d Date) Valid() bool {
	return !d.IsZero()
}

func (d Date) Validate() error {
	if !d.Valid() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD, or "" for the invalid date.
func (d Date) String() string {
	if !d.Valid() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before compares calendar days.
func (d Date) Before(o Date) bool {
	return d.Time.Before(o.Time)
}

// After compares calendar days.
func (d Date) After(o Date) bool {
	return d.Time.After(o.Time)
}

// DaysIn returns the number of days in the given month, honouring leap years.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseGoalType maps a stored or submitted type to a GoalType.
// Absent values default to monthly.
func ParseGoalType(s string) (GoalType, error) {
	switch GoalType(strings.ToLower(strings.TrimSpace(s))) {
	case "", GoalMonthly:
		return GoalMonthly, nil
	case GoalYearly:
		return GoalYearly, nil
	default:
		return "", ErrInvalidGoalType
	}
}

func validateTitle(s string, empty error) error {
	if len(strings.TrimSpace(s)) == 0 {
		return empty
	}
	if len(s) > maxTitleLen {
		return ErrTitleTooLong
	}
	return nil
}

func validateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrInvalidAmount
	}
	return checkAmountRange(d)
}

func (e Expense) Validate() error {
	if err := validateTitle(e.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if err := validateAmount(e.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

func (i Income) Validate() error {
	if err := validateTitle(i.Source, ErrEmptySource); err != nil {
		return err
	}
	if err := validateAmount(i.Amount); err != nil {
		return err
	}
	return i.Date.Validate()
}

func (g Goal) Validate() error {
	if err := validateTitle(g.Title, ErrEmptyTitle); err != nil {
		return err
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if err := checkAmountRange(g.TargetAmount); err != nil {
		return err
	}
	if err := validateAmount(g.CurrentAmount); err != nil {
		return err
	}
	if _, err := ParseGoalType(string(g.Type)); err != nil {
		return err
	}
	return nil
}

// EffectiveType returns the goal type, defaulting to monthly when absent.
func (g Goal) EffectiveType() GoalType {
	if g.Type == GoalYearly {
		return GoalYearly
	}
	return GoalMonthly
}
