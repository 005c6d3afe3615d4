package sheets

import (
	"fmt"
	"strings"
	"time"

	"budgetwise/internal/core"
)

// Column aliases recognised in a tab's header row, matched case-insensitively.
var (
	idHeaders       = []string{"ID"}
	titleHeaders    = []string{"Title", "Description"}
	sourceHeaders   = []string{"Source", "Description"}
	amountHeaders   = []string{"Amount"}
	categoryHeaders = []string{"Category", "Primary"}
	dateHeaders     = []string{"Date"}
	targetHeaders   = []string{"Target", "TargetAmount", "Target Amount"}
	currentHeaders  = []string{"Current", "CurrentAmount", "Current Amount", "Saved"}
	deadlineHeaders = []string{"Deadline"}
	typeHeaders     = []string{"Type"}

	userHeaders        = []string{"User", "UserID", "User ID"}
	emailHeaders       = []string{"Email", "E-mail"}
	subjectHeaders     = []string{"Subject"}
	descriptionHeaders = []string{"Description", "Details"}
	statusHeaders      = []string{"Status"}
	openedHeaders      = []string{"Opened", "Created", "CreatedAt", "Created At"}
)

// layout maps canonical field names to column indexes of one tab.
type layout map[string]int

func detectLayout(header []any, fields map[string][]string, required ...string) (layout, error) {
	cols := toStrings(header)
	l := layout{}
	for field, aliases := range fields {
		l[field] = -1
		for _, a := range aliases {
			if i := indexOf(cols, a); i >= 0 {
				l[field] = i
				break
			}
		}
	}
	var missing []string
	for _, f := range required {
		if l[f] < 0 {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), cols)
	}
	return l, nil
}

// cell returns the raw value of a field, or nil when absent.
func (l layout) cell(row []any, field string) any {
	i, ok := l[field]
	if !ok || i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func (l layout) text(row []any, field string) string {
	v := l.cell(row, field)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// rowID falls back to a positional reference when the tab has no id column.
func (l layout) rowID(row []any, rowNumber int) string {
	if id := l.text(row, "id"); id != "" {
		return id
	}
	return fmt.Sprintf("row-%d", rowNumber)
}

var (
	expenseFields = map[string][]string{"id": idHeaders, "title": titleHeaders, "amount": amountHeaders, "category": categoryHeaders, "date": dateHeaders}
	incomeFields  = map[string][]string{"id": idHeaders, "source": sourceHeaders, "amount": amountHeaders, "date": dateHeaders}
	goalFields    = map[string][]string{"id": idHeaders, "title": titleHeaders, "target": targetHeaders, "current": currentHeaders, "deadline": deadlineHeaders, "type": typeHeaders}

	complaintFields = map[string][]string{"id": idHeaders, "user": userHeaders, "email": emailHeaders, "subject": subjectHeaders, "description": descriptionHeaders, "status": statusHeaders, "opened": openedHeaders}
)

// parseExpenses turns a values matrix (header row first) into expenses.
// Cells go through the normalizer, so malformed amounts become zero and
// malformed dates become invalid rather than failing the whole read.
func parseExpenses(values [][]any) ([]core.Expense, error) {
	if len(values) == 0 {
		return nil, nil
	}
	l, err := detectLayout(values[0], expenseFields, "amount", "date")
	if err != nil {
		return nil, err
	}
	var out []core.Expense
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blank(row) {
			continue
		}
		out = append(out, core.NormalizeExpense(core.RawExpense{
			ID:       l.rowID(row, i+1),
			Title:    l.text(row, "title"),
			Amount:   l.cell(row, "amount"),
			Category: l.text(row, "category"),
			Date:     l.text(row, "date"),
		}))
	}
	return out, nil
}

func parseIncome(values [][]any) ([]core.Income, error) {
	if len(values) == 0 {
		return nil, nil
	}
	l, err := detectLayout(values[0], incomeFields, "amount", "date")
	if err != nil {
		return nil, err
	}
	var out []core.Income
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blank(row) {
			continue
		}
		out = append(out, core.NormalizeIncome(core.RawIncome{
			ID:     l.rowID(row, i+1),
			Source: l.text(row, "source"),
			Amount: l.cell(row, "amount"),
			Date:   l.text(row, "date"),
		}))
	}
	return out, nil
}

func parseGoals(values [][]any) ([]core.Goal, error) {
	if len(values) == 0 {
		return nil, nil
	}
	l, err := detectLayout(values[0], goalFields, "title", "target")
	if err != nil {
		return nil, err
	}
	var out []core.Goal
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blank(row) {
			continue
		}
		out = append(out, core.NormalizeGoal(core.RawGoal{
			ID:            l.rowID(row, i+1),
			Title:         l.text(row, "title"),
			TargetAmount:  l.cell(row, "target"),
			CurrentAmount: l.cell(row, "current"),
			Deadline:      l.text(row, "deadline"),
			Type:          strings.ToLower(l.text(row, "type")),
		}))
	}
	return out, nil
}

// parseComplaints reads the help-desk tab. An unknown status reads as open
// and an unparsable timestamp as the zero time.
func parseComplaints(values [][]any) ([]core.Complaint, error) {
	if len(values) == 0 {
		return nil, nil
	}
	l, err := detectLayout(values[0], complaintFields, "subject", "description")
	if err != nil {
		return nil, err
	}
	var out []core.Complaint
	for i := 1; i < len(values); i++ {
		row := values[i]
		if blank(row) {
			continue
		}
		status, err := core.ParseComplaintStatus(l.text(row, "status"))
		if err != nil {
			status = core.ComplaintOpen
		}
		opened, _ := time.Parse(time.RFC3339, l.text(row, "opened"))
		out = append(out, core.Complaint{
			ID:          l.rowID(row, i+1),
			UserID:      l.text(row, "user"),
			Email:       l.text(row, "email"),
			Subject:     l.text(row, "subject"),
			Description: l.text(row, "description"),
			Status:      status,
			CreatedAt:   opened,
		})
	}
	return out, nil
}

// parseCategories reads the first column, skipping a "Category" or "Name"
// header, comments, blanks and repeats.
func parseCategories(values [][]any) []string {
	seen := map[string]struct{}{}
	var out []string
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if i == 0 && (strings.EqualFold(v, "category") || strings.EqualFold(v, "name")) {
			continue
		}
		if v == "" || strings.HasPrefix(v, "#") {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// encodeRow lays values out in the tab's own column order.
func encodeRow(l layout, values map[string]any) []any {
	width := 0
	for _, i := range l {
		if i+1 > width {
			width = i + 1
		}
	}
	row := make([]any, width)
	for i := range row {
		row[i] = ""
	}
	for field, v := range values {
		if i, ok := l[field]; ok && i >= 0 {
			row[i] = v
		}
	}
	return row
}

func blank(row []any) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}
