package budget

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeExpense = "expense"
	TypeIncome  = "income"
	TypeSave    = "save"
)

var ExpenseCategories = []string{"food", "shopping", "transport", "entertainment", "bills", "others"}

// REQUESTS START:
type TransactionRequest struct {
	Merchant string
	Amount   decimal.Decimal
	Category string
	Date     string // YYYY-MM-DD, empty means today
	Type     string
}

type RecurringExpenseRequest struct {
	Name      string
	Amount    decimal.Decimal
	Frequency string
	Category  string
	StartDate string
	EndDate   string
}

type CategoryBudgetRequest struct {
	Category string
	Amount   decimal.Decimal
}

// REQUESTS END:

// MODELS:

type Transaction struct {
	ID        string
	UserID    string
	Merchant  string
	Amount    decimal.Decimal
	Category  string // only set for expenses
	Date      time.Time
	Type      string
	CreatedAt time.Time
}

type RecurringExpense struct {
	ID        string
	UserID    string
	Name      string
	Amount    decimal.Decimal
	Frequency string
	Category  string
	StartDate time.Time
	EndDate   *time.Time
	CreatedAt time.Time
}

type MonthBudget struct {
	Budget decimal.Decimal
	Spent  decimal.Decimal
}

// Account is the mutable financial state of one user.
type Account struct {
	UserID           string
	AvailableBalance decimal.Decimal
	SavingsBalance   decimal.Decimal
	TotalIncome      decimal.Decimal
	MonthlyBudget    decimal.Decimal
	BudgetsByMonth   map[string]*MonthBudget
	CatBudgets       map[string]decimal.Decimal
	Streak           int
}

func NewAccount(userID string) Account {
	return Account{
		UserID:         userID,
		BudgetsByMonth: make(map[string]*MonthBudget),
		CatBudgets:     make(map[string]decimal.Decimal),
	}
}

func (a *Account) MonthEntry(key string) (*MonthBudget, bool) {
	entry, ok := a.BudgetsByMonth[key]
	return entry, ok
}

// EnsureMonth returns the entry for key, creating it as {seed, 0} when absent.
func (a *Account) EnsureMonth(key string, seed decimal.Decimal) *MonthBudget {
	if a.BudgetsByMonth == nil {
		a.BudgetsByMonth = make(map[string]*MonthBudget)
	}
	entry, ok := a.BudgetsByMonth[key]
	if !ok {
		entry = &MonthBudget{Budget: seed, Spent: decimal.Zero}
		a.BudgetsByMonth[key] = entry
	}
	return entry
}

// Clone deep-copies the nested maps.
func (a Account) Clone() Account {
	clone := a
	clone.BudgetsByMonth = make(map[string]*MonthBudget, len(a.BudgetsByMonth))
	for key, entry := range a.BudgetsByMonth {
		copied := *entry
		clone.BudgetsByMonth[key] = &copied
	}
	clone.CatBudgets = make(map[string]decimal.Decimal, len(a.CatBudgets))
	for category, amount := range a.CatBudgets {
		clone.CatBudgets[category] = amount
	}
	return clone
}

// AccountView is the account as returned after a ledger write.
type AccountView struct {
	AvailableBalance decimal.Decimal
	SavingsBalance   decimal.Decimal
	TotalIncome      decimal.Decimal
	Streak           int
	BudgetsByMonth   map[string]*MonthBudget
}

func (a Account) View() AccountView {
	clone := a.Clone()
	return AccountView{
		AvailableBalance: clone.AvailableBalance,
		SavingsBalance:   clone.SavingsBalance,
		TotalIncome:      clone.TotalIncome,
		Streak:           clone.Streak,
		BudgetsByMonth:   clone.BudgetsByMonth,
	}
}

// FILTERS:

type TransactionList struct {
	Day      time.Time
	Type     string
	IsAllNil bool
}

// RESPONSES:

type BudgetResponse struct {
	MonthlyBudget  decimal.Decimal
	BudgetsByMonth map[string]*MonthBudget
}

type DashboardMetrics struct {
	Available   decimal.Decimal
	Savings     decimal.Decimal
	Budget      decimal.Decimal
	Spent       decimal.Decimal
	Committed   decimal.Decimal
	TotalIncome decimal.Decimal
	Streak      int
}
