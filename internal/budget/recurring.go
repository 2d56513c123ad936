package budget

import (
	"context"
	"fmt"
	"sort"
	"strings"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/period"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func (bt *BudgetTracker) SaveRecurringExpense(ctx context.Context, userId string, req RecurringExpenseRequest) (RecurringExpense, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Recurring expense name cannot be empty!")
	}
	if len(name) > MAX_RECURRING_NAME_LENGTH {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Recurring expense name so long, maximum length is %d", MAX_RECURRING_NAME_LENGTH)
	}
	if err := validateAmount(req.Amount, "amount"); err != nil {
		return RecurringExpense{}, err
	}
	if !period.IsFrequency(req.Frequency) {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Invalid frequency '%s', allowed: weekly, monthly, yearly.", req.Frequency)
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Category name cannot be empty!")
	}
	if len(category) > MAX_CATEGORY_NAME_LENGTH {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Category name so long, maximum length is %d", MAX_CATEGORY_NAME_LENGTH)
	}

	startDate, err := period.ParseDate(req.StartDate)
	if err != nil {
		return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Invalid start date '%s', expected format YYYY-MM-DD.", req.StartDate)
	}

	recurring := RecurringExpense{
		ID:        uuid.New().String(),
		UserID:    userId,
		Name:      name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		Category:  category,
		StartDate: startDate,
		CreatedAt: bt.clock().UTC(),
	}

	if req.EndDate != "" {
		endDate, err := period.ParseDate(req.EndDate)
		if err != nil {
			return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "Invalid end date '%s', expected format YYYY-MM-DD.", req.EndDate)
		}
		if endDate.Before(startDate) {
			return RecurringExpense{}, appErrors.New(appErrors.ErrInvalidInput, "End date cannot be before start date.")
		}
		recurring.EndDate = &endDate
	}

	if err := bt.storage.SaveRecurringExpense(ctx, recurring); err != nil {
		return RecurringExpense{}, fmt.Errorf("failed to save recurring expense: %w", err)
	}
	return recurring, nil
}

func (bt *BudgetTracker) ListRecurringExpenses(ctx context.Context, userId string) ([]RecurringExpense, error) {
	recurring, err := bt.storage.GetRecurringExpenses(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring expenses: %w", err)
	}
	return recurring, nil
}

func (bt *BudgetTracker) DeleteRecurringExpense(ctx context.Context, userId string, recurringId string) error {
	if err := bt.storage.DeleteRecurringExpense(ctx, userId, recurringId); err != nil {
		return fmt.Errorf("failed to delete recurring expense: %w", err)
	}
	return nil
}

// CommittedMonthly sums the monthly equivalents of all recurring expenses.
func CommittedMonthly(recurring []RecurringExpense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range recurring {
		total = total.Add(period.MonthlyEquivalent(r.Amount, r.Frequency))
	}
	return total
}

func (bt *BudgetTracker) GetDashboardMetrics(ctx context.Context, userId string) (DashboardMetrics, error) {
	var (
		account   Account
		recurring []RecurringExpense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		account, err = bt.storage.GetAccount(gctx, userId)
		return err
	})
	g.Go(func() error {
		var err error
		recurring, err = bt.storage.GetRecurringExpenses(gctx, userId)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardMetrics{}, fmt.Errorf("failed to load dashboard: %w", err)
	}

	budget := account.MonthlyBudget
	spent := decimal.Zero
	if entry, ok := account.MonthEntry(period.MonthKey(period.Today(bt.clock()))); ok {
		if !entry.Budget.IsZero() {
			budget = entry.Budget
		}
		spent = entry.Spent
	}

	return DashboardMetrics{
		Available:   account.AvailableBalance,
		Savings:     account.SavingsBalance,
		Budget:      budget,
		Spent:       spent,
		Committed:   CommittedMonthly(recurring),
		TotalIncome: account.TotalIncome,
		Streak:      account.Streak,
	}, nil
}

func (bt *BudgetTracker) GetInsights(ctx context.Context, userId string) ([]Insight, error) {
	var (
		account      Account
		transactions []Transaction
		recurring    []RecurringExpense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		account, err = bt.storage.GetAccount(gctx, userId)
		return err
	})
	g.Go(func() error {
		var err error
		transactions, err = bt.storage.GetFilteredTransactions(gctx, userId, &TransactionList{IsAllNil: true})
		return err
	})
	g.Go(func() error {
		var err error
		recurring, err = bt.storage.GetRecurringExpenses(gctx, userId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load insight data: %w", err)
	}

	// ledger order: oldest first
	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})
	return GenerateInsights(account, transactions, recurring, bt.clock()), nil
}
