// Package ledger holds the pure computations behind the reports: time
// bucketed expense series, statement reconciliation, goal progress and
// the dashboard totals. Every function is a deterministic function of its
// arguments; none performs I/O or keeps state between calls.
package ledger

import (
	"strconv"

	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// clampMonth keeps month references inside 1..12.
func clampMonth(month int) int {
	if month < 1 {
		return 1
	}
	if month > 12 {
		return 12
	}
	return month
}

// AggregateMonthly sums expenses per day of the given month. The result has
// one bucket per calendar day, zero-filled, index 0 being day 1.
func AggregateMonthly(expenses []core.Expense, year, month int) []core.Bucket {
	month = clampMonth(month)
	n := core.DaysIn(year, month)

	buckets := make([]core.Bucket, n)
	for i := range buckets {
		buckets[i] = core.Bucket{
			Label: strconv.Itoa(i + 1),
			Start: core.NewDate(year, month, i+1),
			Sum:   decimal.Zero,
		}
	}

	for _, e := range expenses {
		if !e.Date.Valid() || e.Date.Year() != year || e.Date.Month() != month {
			continue
		}
		i := e.Date.Day() - 1
		buckets[i].Sum = buckets[i].Sum.Add(e.Amount)
	}
	return buckets
}

// AggregateYearly sums expenses per month of the given year. It always
// returns 12 buckets labelled Jan..Dec.
func AggregateYearly(expenses []core.Expense, year int) []core.Bucket {
	buckets := make([]core.Bucket, 12)
	for i := range buckets {
		buckets[i] = core.Bucket{
			Label: monthLabels[i],
			Start: core.NewDate(year, i+1, 1),
			Sum:   decimal.Zero,
		}
	}

	for _, e := range expenses {
		if !e.Date.Valid() || e.Date.Year() != year {
			continue
		}
		i := e.Date.Month() - 1
		buckets[i].Sum = buckets[i].Sum.Add(e.Amount)
	}
	return buckets
}

// SumBuckets adds up every bucket.
func SumBuckets(buckets []core.Bucket) decimal.Decimal {
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b.Sum)
	}
	return total
}
