package http

import (
	"time"

	"budgetwise/internal/core"
	"budgetwise/internal/ledger"

	"github.com/shopspring/decimal"
)

// Wire representations. Amounts leave the service as JSON numbers rounded
// to cents; dates as YYYY-MM-DD strings (empty when invalid).

type expenseDTO struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

type incomeDTO struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

type goalDTO struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      string  `json:"deadline,omitempty"`
	Type          string  `json:"type"`
}

type complaintDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	Email       string `json:"email,omitempty"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type advisorReplyDTO struct {
	Response string `json:"response"`
	Model    string `json:"model,omitempty"`
}

type bucketDTO struct {
	Label string  `json:"label"`
	Start string  `json:"start"`
	Sum   float64 `json:"sum"`
}

type seriesDTO struct {
	Year    int         `json:"year"`
	Month   int         `json:"month,omitempty"`
	Total   float64     `json:"total"`
	Buckets []bucketDTO `json:"buckets"`
}

type statementLineDTO struct {
	Kind        string  `json:"kind"`
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category,omitempty"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
}

type statementDTO struct {
	Start          string             `json:"start"`
	End            string             `json:"end"`
	OpeningBalance float64            `json:"openingBalance"`
	ClosingBalance float64            `json:"closingBalance"`
	TotalIncome    float64            `json:"totalIncome"`
	TotalExpense   float64            `json:"totalExpense"`
	Lines          []statementLineDTO `json:"lines"`
}

type goalProgressDTO struct {
	Goal     goalDTO `json:"goal"`
	Current  float64 `json:"current"`
	Target   float64 `json:"target"`
	Percent  float64 `json:"percent"`
	Achieved bool    `json:"achieved"`
}

type categoryAmountDTO struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type overviewDTO struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Total      float64             `json:"total"`
	ByCategory []categoryAmountDTO `json:"byCategory"`
}

type totalsDTO struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Savings float64 `json:"savings"`
}

type summaryDTO struct {
	Lifetime      totalsDTO `json:"lifetime"`
	Month         totalsDTO `json:"month"`
	Year          int       `json:"year"`
	MonthNumber   int       `json:"monthNumber"`
	GoalsAchieved int       `json:"goalsAchieved"`
	GoalsTotal    int       `json:"goalsTotal"`
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func toExpenseDTO(e core.Expense) expenseDTO {
	return expenseDTO{ID: e.ID, Title: e.Title, Amount: money(e.Amount), Category: e.Category, Date: e.Date.String()}
}

func toIncomeDTO(i core.Income) incomeDTO {
	return incomeDTO{ID: i.ID, Source: i.Source, Amount: money(i.Amount), Date: i.Date.String()}
}

func toGoalDTO(g core.Goal) goalDTO {
	return goalDTO{
		ID:            g.ID,
		Title:         g.Title,
		TargetAmount:  money(g.TargetAmount),
		CurrentAmount: money(g.CurrentAmount),
		Deadline:      g.Deadline.String(),
		Type:          string(g.EffectiveType()),
	}
}

// mapSlice converts every element, always returning a non-nil slice so
// that empty collections encode as [].
func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func toComplaintDTO(c core.Complaint) complaintDTO {
	return complaintDTO{
		ID:          c.ID,
		UserID:      c.UserID,
		Email:       c.Email,
		Subject:     c.Subject,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toSeriesDTO(year, month int, buckets []core.Bucket) seriesDTO {
	return seriesDTO{
		Year:  year,
		Month: month,
		Total: money(ledger.SumBuckets(buckets)),
		Buckets: mapSlice(buckets, func(b core.Bucket) bucketDTO {
			return bucketDTO{Label: b.Label, Start: b.Start.String(), Sum: money(b.Sum)}
		}),
	}
}

func toStatementDTO(st core.Statement) statementDTO {
	return statementDTO{
		Start:          st.Start.String(),
		End:            st.End.String(),
		OpeningBalance: money(st.OpeningBalance),
		ClosingBalance: money(st.ClosingBalance),
		TotalIncome:    money(st.TotalIncome),
		TotalExpense:   money(st.TotalExpense),
		Lines: mapSlice(st.Lines, func(l core.StatementLine) statementLineDTO {
			return statementLineDTO{
				Kind:        string(l.Kind),
				ID:          l.ID,
				Description: l.Description,
				Category:    l.Category,
				Date:        l.Date.String(),
				Amount:      money(l.Amount),
				Balance:     money(l.Balance),
			}
		}),
	}
}

func toGoalProgressDTO(p core.GoalProgress) goalProgressDTO {
	return goalProgressDTO{
		Goal:     toGoalDTO(p.Goal),
		Current:  money(p.Current),
		Target:   money(p.Target),
		Percent:  p.Percent.InexactFloat64(),
		Achieved: p.Achieved,
	}
}

func toOverviewDTO(ov core.MonthOverview) overviewDTO {
	return overviewDTO{
		Year:  ov.Year,
		Month: ov.Month,
		Total: money(ov.Total),
		ByCategory: mapSlice(ov.ByCategory, func(c core.CategoryAmount) categoryAmountDTO {
			return categoryAmountDTO{Name: c.Name, Amount: money(c.Amount)}
		}),
	}
}

func toTotalsDTO(t core.Totals) totalsDTO {
	return totalsDTO{Income: money(t.Income), Expense: money(t.Expense), Savings: money(t.Savings())}
}

func toSummaryDTO(s core.Summary) summaryDTO {
	return summaryDTO{
		Lifetime:      toTotalsDTO(s.Lifetime),
		Month:         toTotalsDTO(s.Month),
		Year:          s.Year,
		MonthNumber:   s.MonthNumber,
		GoalsAchieved: s.GoalsAchieved,
		GoalsTotal:    s.GoalsTotal,
	}
}
