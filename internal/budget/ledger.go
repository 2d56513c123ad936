package budget

import (
	"context"
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/contextutil"
	"github.com/fatali-fataliyev/smartsave/internal/period"
	"github.com/fatali-fataliyev/smartsave/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func (req TransactionRequest) validate() error {
	if err := validateAmount(req.Amount, "amount"); err != nil {
		return err
	}
	switch req.Type {
	case TypeExpense, TypeIncome, TypeSave:
	default:
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid transaction type '%s', allowed types: expense, income, save.", req.Type)
	}
	if strings.TrimSpace(req.Merchant) == "" {
		return appErrors.New(appErrors.ErrInvalidInput, "Merchant cannot be empty!")
	}
	if len(req.Merchant) > MAX_MERCHANT_LENGTH {
		return appErrors.New(appErrors.ErrInvalidInput, "Merchant so long, maximum length is %d", MAX_MERCHANT_LENGTH)
	}
	if req.Type == TypeExpense && req.Category != "" && !isExpenseCategory(req.Category) {
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid category '%s', allowed categories: %s.", req.Category, strings.Join(ExpenseCategories, ", "))
	}
	if req.Date != "" {
		if _, err := period.ParseDate(req.Date); err != nil {
			return appErrors.New(appErrors.ErrInvalidInput, "Invalid date '%s', expected format YYYY-MM-DD.", req.Date)
		}
	}
	return nil
}

// applyToAccount adds the effect of txn to acc.
func applyToAccount(acc *Account, txn Transaction) {
	switch txn.Type {
	case TypeIncome:
		acc.AvailableBalance = acc.AvailableBalance.Add(txn.Amount)
		acc.TotalIncome = acc.TotalIncome.Add(txn.Amount)
	case TypeExpense:
		acc.AvailableBalance = acc.AvailableBalance.Sub(txn.Amount)
		entry := acc.EnsureMonth(period.MonthKey(txn.Date), acc.MonthlyBudget)
		entry.Spent = entry.Spent.Add(txn.Amount)
	case TypeSave:
		acc.AvailableBalance = acc.AvailableBalance.Sub(txn.Amount)
		acc.SavingsBalance = acc.SavingsBalance.Add(txn.Amount)
	}
}

// reverseOnAccount removes the effect of txn from acc. Month spent never
// goes below zero and a missing month entry is left missing.
func reverseOnAccount(acc *Account, txn Transaction) {
	switch txn.Type {
	case TypeIncome:
		acc.AvailableBalance = acc.AvailableBalance.Sub(txn.Amount)
		acc.TotalIncome = acc.TotalIncome.Sub(txn.Amount)
	case TypeExpense:
		acc.AvailableBalance = acc.AvailableBalance.Add(txn.Amount)
		if entry, ok := acc.MonthEntry(period.MonthKey(txn.Date)); ok {
			entry.Spent = decimal.Max(entry.Spent.Sub(txn.Amount), decimal.Zero)
		}
	case TypeSave:
		acc.AvailableBalance = acc.AvailableBalance.Add(txn.Amount)
		acc.SavingsBalance = acc.SavingsBalance.Sub(txn.Amount)
	}
}

// logInconsistency records a ledger write that has no matching account write.
func logInconsistency(ctx context.Context, userId string, transactionId string, step string, err error) {
	logging.Logger.WithFields(logrus.Fields{
		"trace_id":       contextutil.TraceIDFromContext(ctx),
		"user_id":        userId,
		"transaction_id": transactionId,
		"step":           step,
	}).Errorf("ledger inconsistency: %v", err)
}

// ApplyTransaction records a transaction and moves the user's balances,
// month budget ledger and streak accordingly.
func (bt *BudgetTracker) ApplyTransaction(ctx context.Context, userId string, req TransactionRequest) (Transaction, AccountView, error) {
	if err := req.validate(); err != nil {
		return Transaction{}, AccountView{}, err
	}

	now := bt.clock()
	today := period.Today(now)

	date := today
	if req.Date != "" {
		date, _ = period.ParseDate(req.Date)
	}

	account, err := bt.storage.GetAccount(ctx, userId)
	if err != nil {
		return Transaction{}, AccountView{}, fmt.Errorf("failed to get account: %w", err)
	}

	if req.Type == TypeSave && req.Amount.GreaterThan(account.AvailableBalance) {
		return Transaction{}, AccountView{}, appErrors.New(appErrors.ErrInsufficientBalance, "Insufficient balance, available: %s", account.AvailableBalance.StringFixed(2))
	}

	category := ""
	if req.Type == TypeExpense {
		category = req.Category
	}

	txn := Transaction{
		ID:        uuid.New().String(),
		UserID:    userId,
		Merchant:  strings.TrimSpace(req.Merchant),
		Amount:    req.Amount,
		Category:  category,
		Date:      date,
		Type:      req.Type,
		CreatedAt: now.UTC(),
	}

	if err := bt.storage.SaveTransaction(ctx, txn); err != nil {
		return Transaction{}, AccountView{}, fmt.Errorf("failed to save transaction: %w", err)
	}

	applyToAccount(&account, txn)

	todays, err := bt.storage.GetFilteredTransactions(ctx, userId, &TransactionList{Day: today})
	if err != nil {
		logInconsistency(ctx, userId, txn.ID, "count today's transactions", err)
		return Transaction{}, AccountView{}, fmt.Errorf("failed to update streak: %w", err)
	}
	if len(todays) == 1 {
		account.Streak++
	}

	if err := bt.storage.SaveAccount(ctx, account); err != nil {
		logInconsistency(ctx, userId, txn.ID, "save account after transaction insert", err)
		return Transaction{}, AccountView{}, fmt.Errorf("failed to update balances: %w", err)
	}

	return txn, account.View(), nil
}

// ReverseTransaction deletes a transaction and undoes its balance and month
// budget effects. The streak is left as it is.
func (bt *BudgetTracker) ReverseTransaction(ctx context.Context, userId string, transactionId string) (AccountView, error) {
	txn, err := bt.storage.GetTransactionById(ctx, userId, transactionId)
	if err != nil {
		return AccountView{}, fmt.Errorf("failed to get transaction: %w", err)
	}

	account, err := bt.storage.GetAccount(ctx, userId)
	if err != nil {
		return AccountView{}, fmt.Errorf("failed to get account: %w", err)
	}

	reverseOnAccount(&account, txn)

	if err := bt.storage.SaveAccount(ctx, account); err != nil {
		return AccountView{}, fmt.Errorf("failed to update balances: %w", err)
	}

	if err := bt.storage.DeleteTransaction(ctx, userId, txn.ID); err != nil {
		logInconsistency(ctx, userId, txn.ID, "delete transaction after account reversal", err)
		return AccountView{}, fmt.Errorf("failed to delete transaction: %w", err)
	}

	return account.View(), nil
}

// ListTransactions returns the user's transactions, latest date first and
// latest created first within a day.
func (bt *BudgetTracker) ListTransactions(ctx context.Context, userId string) ([]Transaction, error) {
	ts, err := bt.storage.GetFilteredTransactions(ctx, userId, &TransactionList{IsAllNil: true})
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	sortTransactions(ts)
	return ts, nil
}

func sortTransactions(ts []Transaction) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].Date.Equal(ts[j].Date) {
			return ts[i].Date.After(ts[j].Date)
		}
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
}

func (bt *BudgetTracker) SetMonthlyBudget(ctx context.Context, userId string, amount decimal.Decimal) (BudgetResponse, error) {
	if err := validateAmount(amount, "budget amount"); err != nil {
		return BudgetResponse{}, err
	}

	account, err := bt.storage.GetAccount(ctx, userId)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to get account: %w", err)
	}

	account.MonthlyBudget = amount
	entry := account.EnsureMonth(period.MonthKey(period.Today(bt.clock())), amount)
	entry.Budget = amount

	if err := bt.storage.SaveAccount(ctx, account); err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to save budget: %w", err)
	}

	return BudgetResponse{
		MonthlyBudget:  account.MonthlyBudget,
		BudgetsByMonth: account.BudgetsByMonth,
	}, nil
}

func (bt *BudgetTracker) GetBudget(ctx context.Context, userId string) (BudgetResponse, error) {
	account, err := bt.storage.GetAccount(ctx, userId)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to get account: %w", err)
	}
	return BudgetResponse{
		MonthlyBudget:  account.MonthlyBudget,
		BudgetsByMonth: account.BudgetsByMonth,
	}, nil
}

// SetCategoryBudget records an advisory cap; nothing enforces it.
func (bt *BudgetTracker) SetCategoryBudget(ctx context.Context, userId string, req CategoryBudgetRequest) (map[string]decimal.Decimal, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return nil, appErrors.New(appErrors.ErrInvalidInput, "Category name cannot be empty!")
	}
	if len(category) > MAX_CATEGORY_NAME_LENGTH {
		return nil, appErrors.New(appErrors.ErrInvalidInput, "Category name so long, maximum length is %d", MAX_CATEGORY_NAME_LENGTH)
	}
	if err := validateAmount(req.Amount, "category budget"); err != nil {
		return nil, err
	}

	account, err := bt.storage.GetAccount(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.CatBudgets == nil {
		account.CatBudgets = make(map[string]decimal.Decimal)
	}
	account.CatBudgets[category] = req.Amount

	if err := bt.storage.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save category budget: %w", err)
	}
	return account.CatBudgets, nil
}
