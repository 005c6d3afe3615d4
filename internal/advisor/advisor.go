// Package advisor answers budgeting questions with a generative model. Each
// question is sent together with a finance-only instruction and a short
// summary of the ledger, so answers can refer to the user's own figures.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"budgetwise/internal/core"
	"budgetwise/internal/log"
)

const maxQuestionLen = 2000

var (
	ErrEmptyQuestion   = errors.New("empty question")
	ErrQuestionTooLong = errors.New("question too long (max 2000 characters)")
	// ErrModel wraps every failure of the model call.
	ErrModel = errors.New("advisor model failed")
	// ErrEmptyReply is returned when the model produced no text.
	ErrEmptyReply = errors.New("empty reply from model")
)

// Model generates a reply to prompt under the given system instruction.
type Model interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Ledger supplies the figures quoted to the model.
type Ledger interface {
	Summary(ctx context.Context) (core.Summary, error)
	Categories(ctx context.Context, year, month int) (core.MonthOverview, error)
}

type Answer struct {
	Reply string
	Model string
}

type Advisor struct {
	model     Model
	modelName string
	ledger    Ledger
	timeout   time.Duration
}

type Options struct {
	ModelName string
	Timeout   time.Duration
}

func New(model Model, ledger Ledger, opts Options) *Advisor {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Advisor{model: model, modelName: opts.ModelName, ledger: ledger, timeout: opts.Timeout}
}

// Ask answers one question. Ledger figures that cannot be loaded are left
// out of the context rather than failing the request.
func (a *Advisor) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}
	if utf8.RuneCountInString(question) > maxQuestionLen {
		return Answer{}, ErrQuestionTooLong
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	system := a.instruction(ctx)
	reply, err := a.model.Generate(ctx, system, question)
	if err != nil {
		return Answer{}, fmt.Errorf("%w: %w", ErrModel, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Answer{}, ErrEmptyReply
	}
	return Answer{Reply: reply, Model: a.modelName}, nil
}

const baseInstruction = `You are the assistant of BudgetWise, a personal finance application.
Help the user with tracking expenses and income, setting budgets and savings goals, and general personal-finance advice.
If the user asks about anything unrelated to finance, budgeting or this application, politely refuse to answer.
Keep answers concise and practical. Amounts are in the user's own currency.`

func (a *Advisor) instruction(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(baseInstruction)

	sum, err := a.ledger.Summary(ctx)
	if err != nil {
		log.FromContext(ctx).WarnContext(ctx, "Advisor context without ledger summary",
			log.NewFields().WithComponent(log.ComponentAdvisor).WithError(err).ToSlice()...)
		return b.String()
	}
	b.WriteString("\n\nThe user's ledger:\n")
	fmt.Fprintf(&b, "- Lifetime: income %s, expenses %s, savings %s\n",
		sum.Lifetime.Income.StringFixed(2), sum.Lifetime.Expense.StringFixed(2), sum.Lifetime.Savings().StringFixed(2))
	fmt.Fprintf(&b, "- %04d-%02d: income %s, expenses %s, remaining %s\n", sum.Year, sum.MonthNumber,
		sum.Month.Income.StringFixed(2), sum.Month.Expense.StringFixed(2), sum.Month.Savings().StringFixed(2))
	fmt.Fprintf(&b, "- Goals achieved: %d of %d\n", sum.GoalsAchieved, sum.GoalsTotal)

	ov, err := a.ledger.Categories(ctx, sum.Year, sum.MonthNumber)
	if err == nil && len(ov.ByCategory) > 0 {
		b.WriteString("- Spending this month by category:")
		for _, c := range ov.ByCategory {
			fmt.Fprintf(&b, " %s %s;", c.Name, c.Amount.StringFixed(2))
		}
		b.WriteString("\n")
	}
	return b.String()
}
