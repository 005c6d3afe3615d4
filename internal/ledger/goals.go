package ledger

import (
	"budgetwise/internal/core"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EvaluateGoal computes progress for one goal. Yearly goals track the
// savings figure of totals; monthly goals (and goals with no type) track
// their own current amount. A non-positive target is floored to 1 for the
// percentage.
func EvaluateGoal(g core.Goal, totals core.Totals) core.GoalProgress {
	current := g.CurrentAmount
	if g.EffectiveType() == core.GoalYearly {
		current = totals.Savings()
	}

	divisor := g.TargetAmount
	if !divisor.IsPositive() {
		divisor = decimal.NewFromInt(1)
	}

	percent := current.Mul(hundred).Div(divisor)
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}

	return core.GoalProgress{
		Goal:     g,
		Current:  current,
		Target:   g.TargetAmount,
		Percent:  percent.Round(2),
		Achieved: current.GreaterThanOrEqual(g.TargetAmount),
	}
}

// EvaluateGoals evaluates every goal, optionally keeping only one type.
// An empty filter keeps all goals.
func EvaluateGoals(goals []core.Goal, totals core.Totals, filter core.GoalType) []core.GoalProgress {
	out := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		if filter != "" && g.EffectiveType() != filter {
			continue
		}
		out = append(out, EvaluateGoal(g, totals))
	}
	return out
}

// CountAchieved returns how many goals are achieved against totals.
func CountAchieved(goals []core.Goal, totals core.Totals) int {
	n := 0
	for _, g := range goals {
		if EvaluateGoal(g, totals).Achieved {
			n++
		}
	}
	return n
}
