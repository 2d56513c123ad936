package api

import (
	"net/http"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/period"
	"github.com/shopspring/decimal"
)

// REQUESTS START:
type SaveUserRequest struct {
	UserName string `json:"username"`
	FullName string `json:"fullname"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// UserLoginRequest takes either username or email.
type UserLoginRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTransactionRequest struct {
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     string          `json:"date"`
	Type     string          `json:"type"`
}

type SetBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type CategoryBudgetRequest struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type RecurringExpenseRequest struct {
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	Category  string          `json:"category"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
}

//REQUESTS END:

//RESPONSES:

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Storage string `json:"storage"`
}

type UserCreatedResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type MonthBudgetItem struct {
	Budget decimal.Decimal `json:"budget"`
	Spent  decimal.Decimal `json:"spent"`
}

type TransactionItem struct {
	ID        string          `json:"id"`
	Merchant  string          `json:"merchant"`
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	Date      string          `json:"date"`
	Type      string          `json:"type"`
	CreatedAt string          `json:"createdAt"`
}

type AccountItem struct {
	AvailableBalance decimal.Decimal            `json:"availableBalance"`
	SavingsBalance   decimal.Decimal            `json:"savingsBalance"`
	TotalIncome      decimal.Decimal            `json:"totalIncome"`
	Streak           int                        `json:"streak"`
	BudgetsByMonth   map[string]MonthBudgetItem `json:"budgetsByMonth"`
}

// DeletedAccountItem is the account shape after a delete: no totalIncome, no streak.
type DeletedAccountItem struct {
	AvailableBalance decimal.Decimal            `json:"availableBalance"`
	SavingsBalance   decimal.Decimal            `json:"savingsBalance"`
	BudgetsByMonth   map[string]MonthBudgetItem `json:"budgetsByMonth"`
}

type TransactionCreatedResponse struct {
	Transaction TransactionItem `json:"transaction"`
	User        AccountItem     `json:"user"`
}

type TransactionDeletedResponse struct {
	Message string             `json:"message"`
	User    DeletedAccountItem `json:"user"`
}

type BudgetResponse struct {
	MonthlyBudget  decimal.Decimal            `json:"monthlyBudget"`
	BudgetsByMonth map[string]MonthBudgetItem `json:"budgetsByMonth"`
}

type CategoryBudgetsResponse struct {
	CatBudgets map[string]decimal.Decimal `json:"catBudgets"`
}

type DashboardMetricsResponse struct {
	Available   decimal.Decimal `json:"available"`
	Savings     decimal.Decimal `json:"savings"`
	Budget      decimal.Decimal `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Committed   decimal.Decimal `json:"committed"`
	TotalIncome decimal.Decimal `json:"totalIncome"`
	Streak      int             `json:"streak"`
}

type InsightItem struct {
	Type  string `json:"type"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
	CTA   string `json:"cta,omitempty"`
}

type InsightsResponse struct {
	Insights []InsightItem `json:"insights"`
}

type RecurringExpenseItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	Category  string          `json:"category"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func httpStatusFromError(err error) int {
	switch appErrors.CodeOf(err) {
	case appErrors.ErrNotFound:
		return http.StatusNotFound
	case appErrors.ErrInvalidInput, appErrors.ErrInsufficientBalance:
		return http.StatusBadRequest
	case appErrors.ErrAuth:
		return http.StatusUnauthorized
	case appErrors.ErrAccessDenied:
		return http.StatusForbidden
	case appErrors.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func BudgetsToHttp(budgets map[string]*budget.MonthBudget) map[string]MonthBudgetItem {
	result := make(map[string]MonthBudgetItem, len(budgets))
	for key, entry := range budgets {
		result[key] = MonthBudgetItem{
			Budget: entry.Budget,
			Spent:  entry.Spent,
		}
	}
	return result
}

func TransactionToHttp(transaction budget.Transaction) TransactionItem {
	return TransactionItem{
		ID:        transaction.ID,
		Merchant:  transaction.Merchant,
		Amount:    transaction.Amount,
		Category:  transaction.Category,
		Date:      period.FormatDate(transaction.Date),
		Type:      transaction.Type,
		CreatedAt: transaction.CreatedAt.UTC().Format(timestampLayout),
	}
}

func AccountToHttp(view budget.AccountView) AccountItem {
	return AccountItem{
		AvailableBalance: view.AvailableBalance,
		SavingsBalance:   view.SavingsBalance,
		TotalIncome:      view.TotalIncome,
		Streak:           view.Streak,
		BudgetsByMonth:   BudgetsToHttp(view.BudgetsByMonth),
	}
}

func DeletedAccountToHttp(view budget.AccountView) DeletedAccountItem {
	return DeletedAccountItem{
		AvailableBalance: view.AvailableBalance,
		SavingsBalance:   view.SavingsBalance,
		BudgetsByMonth:   BudgetsToHttp(view.BudgetsByMonth),
	}
}

func InsightToHttp(insight budget.Insight) InsightItem {
	return InsightItem{
		Type:  insight.Type,
		Icon:  insight.Icon,
		Title: insight.Title,
		Text:  insight.Text,
		CTA:   insight.CTA,
	}
}

func RecurringToHttp(r budget.RecurringExpense) RecurringExpenseItem {
	item := RecurringExpenseItem{
		ID:        r.ID,
		Name:      r.Name,
		Amount:    r.Amount,
		Frequency: r.Frequency,
		Category:  r.Category,
		StartDate: period.FormatDate(r.StartDate),
		CreatedAt: r.CreatedAt.UTC().Format(timestampLayout),
	}
	if r.EndDate != nil {
		item.EndDate = period.FormatDate(*r.EndDate)
	}
	return item
}
