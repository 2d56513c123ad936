package budget

import (
	"fmt"
	"time"

	"github.com/fatali-fataliyev/smartsave/internal/period"
	"github.com/shopspring/decimal"
)

const (
	InsightInfo    = "info"
	InsightWarn    = "warn"
	InsightCaution = "caution"
	InsightGood    = "good"
	InsightPurple  = "purple"

	MaxInsights            = 5
	MinExpensesForInsights = 3
)

var (
	hundred = decimal.NewFromInt(100)
	three   = decimal.NewFromInt(3)
)

type Insight struct {
	Type  string
	Icon  string
	Title string
	Text  string
	CTA   string
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// GenerateInsights runs the fixed rule set over a snapshot of the user's data.
// Rules fire in order and the result is truncated to MaxInsights.
func GenerateInsights(acc Account, transactions []Transaction, recurring []RecurringExpense, now time.Time) []Insight {
	var expenses []Transaction
	for _, t := range transactions {
		if t.Type == TypeExpense {
			expenses = append(expenses, t)
		}
	}

	if len(expenses) < MinExpensesForInsights {
		return []Insight{{
			Type:  InsightInfo,
			Icon:  "fa-info-circle",
			Title: "Pattern Detection Inactive",
			Text:  fmt.Sprintf("Add at least %d transactions to activate AI spending analysis.", MinExpensesForInsights),
		}}
	}

	var insights []Insight

	totalExpenses := decimal.Zero
	for _, e := range expenses {
		totalExpenses = totalExpenses.Add(e.Amount)
	}
	count := decimal.NewFromInt(int64(len(expenses)))

	if insight, ok := budgetStatus(acc, now); ok {
		insights = append(insights, insight)
	}

	// amount > 3 * total / count, kept in integers of count to stay exact
	avgExpense := totalExpenses.DivRound(count, 2)
	for _, e := range expenses {
		if e.Amount.Mul(count).GreaterThan(totalExpenses.Mul(three)) {
			insights = append(insights, Insight{
				Type:  InsightWarn,
				Icon:  "fa-bell",
				Title: "Unusual Transaction Detected",
				Text:  fmt.Sprintf("%s on %s, above average %s.", money(e.Amount), e.Merchant, money(avgExpense)),
				CTA:   "Review if this was expected.",
			})
		}
	}

	if insight, ok := topCategory(expenses, totalExpenses); ok {
		insights = append(insights, insight)
	}

	if len(recurring) > 0 {
		insights = append(insights, Insight{
			Type:  InsightPurple,
			Icon:  "fa-sync-alt",
			Title: "Recurring Expenses",
			Text:  fmt.Sprintf("%s/month committed to recurring payments.", money(CommittedMonthly(recurring))),
			CTA:   "Review if all subscriptions are still needed.",
		})
	}

	if insight, ok := savingsRate(acc); ok {
		insights = append(insights, insight)
	}

	if len(insights) > MaxInsights {
		insights = insights[:MaxInsights]
	}
	return insights
}

func budgetStatus(acc Account, now time.Time) (Insight, bool) {
	if !acc.MonthlyBudget.IsPositive() {
		return Insight{}, false
	}

	spent := decimal.Zero
	if entry, ok := acc.MonthEntry(period.MonthKey(period.Today(now))); ok {
		spent = entry.Spent
	}

	switch {
	case spent.GreaterThanOrEqual(acc.MonthlyBudget):
		return Insight{
			Type:  InsightWarn,
			Icon:  "fa-exclamation-triangle",
			Title: "Budget Breached",
			Text:  fmt.Sprintf("You've overspent by %s this month.", money(spent.Sub(acc.MonthlyBudget))),
			CTA:   "Review your spending to get back on track.",
		}, true
	case spent.Mul(decimal.NewFromInt(5)).GreaterThanOrEqual(acc.MonthlyBudget.Mul(decimal.NewFromInt(4))):
		return Insight{
			Type:  InsightCaution,
			Icon:  "fa-exclamation-circle",
			Title: "Budget at 80%",
			Text:  fmt.Sprintf("%s of %s used this month.", money(spent), money(acc.MonthlyBudget)),
			CTA:   "Consider pausing non-essential spending.",
		}, true
	}
	return Insight{}, false
}

// topCategory picks the highest-spending category; on a tie the category seen
// first wins. Expenses without a category are ignored.
func topCategory(expenses []Transaction, totalExpenses decimal.Decimal) (Insight, bool) {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, e := range expenses {
		if e.Category == "" {
			continue
		}
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	if len(order) == 0 {
		return Insight{}, false
	}

	top := order[0]
	for _, category := range order[1:] {
		if totals[category].GreaterThan(totals[top]) {
			top = category
		}
	}

	amount := totals[top]
	pct := amount.Div(totalExpenses).Mul(hundred)
	return Insight{
		Type:  InsightInfo,
		Icon:  "fa-chart-pie",
		Title: fmt.Sprintf("%s is %s%% of spending", top, pct.StringFixed(0)),
		Text:  fmt.Sprintf("You've spent %s on %s.", money(amount), top),
		CTA:   "Consider if this aligns with your priorities.",
	}, true
}

func savingsRate(acc Account) (Insight, bool) {
	if !acc.TotalIncome.IsPositive() {
		return Insight{}, false
	}

	rate := acc.SavingsBalance.Div(acc.TotalIncome).Mul(hundred)
	switch {
	case rate.LessThan(decimal.NewFromInt(10)):
		return Insight{
			Type:  InsightCaution,
			Icon:  "fa-piggy-bank",
			Title: "Low Savings Rate",
			Text:  fmt.Sprintf("Only %s%% of income saved.", rate.StringFixed(1)),
			CTA:   "Aim for at least 10-20% savings rate.",
		}, true
	case rate.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return Insight{
			Type:  InsightGood,
			Icon:  "fa-trophy",
			Title: "Great Savings Rate!",
			Text:  fmt.Sprintf("%s%% of income saved, excellent!", rate.StringFixed(1)),
			CTA:   "Keep up the good work!",
		}, true
	}
	return Insight{}, false
}
