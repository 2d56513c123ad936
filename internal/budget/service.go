package budget

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/auth"
	"github.com/fatali-fataliyev/smartsave/internal/contextutil"
	"github.com/fatali-fataliyev/smartsave/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MAX_MERCHANT_LENGTH       = 255
	MAX_CATEGORY_NAME_LENGTH  = 255
	MAX_RECURRING_NAME_LENGTH = 255
	SESSION_LIFETIME_MONTHS   = 3
	SESSION_RENEW_DAYS        = 5
)

// Fits DECIMAL(18,2).
var MAX_AMOUNT_LIMIT = decimal.RequireFromString("9999999999999999.99")

type BudgetTracker struct {
	storage     Storage
	StorageType string
	now         func() time.Time
}

func NewBudgetTracker(s Storage) BudgetTracker {
	return BudgetTracker{
		storage:     s,
		StorageType: s.GetStorageType(),
		now:         time.Now,
	}
}

// WithClock replaces the clock used for "today" and the current month.
func (bt *BudgetTracker) WithClock(now func() time.Time) {
	bt.now = now
}

func (bt *BudgetTracker) clock() time.Time {
	if bt.now == nil {
		return time.Now()
	}
	return bt.now()
}

type Storage interface {
	SaveUser(ctx context.Context, newUser auth.User) error
	ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error)
	IsUserExists(ctx context.Context, username string) (bool, error)
	SaveSession(ctx context.Context, session auth.Session) error
	GetSessionByToken(ctx context.Context, token string) (auth.Session, error)
	CheckSession(ctx context.Context, token string, now time.Time) (userId string, err error)
	UpdateSession(ctx context.Context, token string, expireAt time.Time) error
	LogoutUser(ctx context.Context, userId string, token string) error
	GetAccount(ctx context.Context, userId string) (Account, error)
	SaveAccount(ctx context.Context, account Account) error
	SaveTransaction(ctx context.Context, t Transaction) error
	GetTransactionById(ctx context.Context, userId string, transactionId string) (Transaction, error)
	GetFilteredTransactions(ctx context.Context, userId string, filters *TransactionList) ([]Transaction, error)
	DeleteTransaction(ctx context.Context, userId string, transactionId string) error
	SaveRecurringExpense(ctx context.Context, r RecurringExpense) error
	GetRecurringExpenses(ctx context.Context, userId string) ([]RecurringExpense, error)
	DeleteRecurringExpense(ctx context.Context, userId string, recurringId string) error
	GetStorageType() string
}

func (bt *BudgetTracker) ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error) {
	user, err := bt.storage.ValidateUser(ctx, credentials)
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to validate user: %w", err)
	}
	return user, nil
}

func (bt *BudgetTracker) GenerateSession(ctx context.Context, credentialsPure auth.UserCredentialsPure) (string, error) {
	user, err := bt.storage.ValidateUser(ctx, credentialsPure)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	session, err := auth.NewSession(user.ID, bt.clock().UTC(), SESSION_LIFETIME_MONTHS)
	if err != nil {
		return "", fmt.Errorf("failed to generate new session: %w", err)
	}

	err = bt.storage.SaveSession(ctx, session)
	if err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}
	return session.Token, nil
}

// CheckSession resolves token to its user and slides the expiry of that one
// session forward when it is close to running out.
func (bt *BudgetTracker) CheckSession(ctx context.Context, token string) (string, error) {
	session, err := bt.storage.GetSessionByToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to get session by token: %w", err)
	}

	now := bt.clock().UTC()
	userId, err := bt.storage.CheckSession(ctx, token, now)
	if err != nil {
		return "", fmt.Errorf("failed to check session: %w", err)
	}

	daysUntilExpiry := int(session.ExpireAt.Sub(now).Hours() / 24)

	if daysUntilExpiry <= SESSION_RENEW_DAYS {
		newExpireAt := now.AddDate(0, 1, 0)

		err := bt.storage.UpdateSession(ctx, session.Token, newExpireAt)
		if err != nil {
			return "", fmt.Errorf("failed to update session: %w", err)
		}
	}

	return userId, nil
}

func (bt *BudgetTracker) IsUserExists(ctx context.Context, username string) (bool, error) {
	result, err := bt.storage.IsUserExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check user existance: %w", err)
	}
	return result, nil
}

// SaveUser registers the user with a zeroed account and returns a session token.
func (bt *BudgetTracker) SaveUser(ctx context.Context, newUser auth.NewUser) (string, error) {
	if err := newUser.ValidateUserFields(); err != nil {
		return "", err
	}

	isUserExists, err := bt.IsUserExists(ctx, strings.ToLower(newUser.UserName))
	if err != nil {
		return "", fmt.Errorf("failed to check username availability: %w", err)
	}
	if isUserExists {
		return "", appErrors.New(appErrors.ErrConflict, "This '%s' username already taken.", newUser.UserName)
	}

	hashedPassword, err := auth.HashPassword(newUser.PasswordPlain)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := auth.User{
		ID:             uuid.New().String(),
		UserName:       strings.ToLower(newUser.UserName),
		FullName:       CapitalizeFullName(newUser.FullName),
		Email:          strings.ToLower(newUser.Email),
		PasswordHashed: hashedPassword,
		CreatedAt:      bt.clock().UTC(),
	}

	if err := bt.storage.SaveUser(ctx, user); err != nil {
		return "", fmt.Errorf("failed to registration: %w", err)
	}

	credentials := auth.UserCredentialsPure{
		UserName:      user.UserName,
		PasswordPlain: newUser.PasswordPlain,
	}

	token, err := bt.GenerateSession(ctx, credentials)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | registration completed but session failed for user %s | Error: %v", contextutil.TraceIDFromContext(ctx), user.ID, err)
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrInternal,
			Message: "Registration completed but something went wrong, try log in please.",
		}
	}
	return token, nil
}

func CapitalizeFullName(name string) string {
	words := strings.Fields(name)
	for i, word := range words {
		if len(word) == 0 {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func (bt *BudgetTracker) LogoutUser(ctx context.Context, userId string, token string) error {
	err := bt.storage.LogoutUser(ctx, userId, token)
	if err != nil {
		return err
	}
	return nil
}

func validateAmount(amount decimal.Decimal, field string) error {
	if !amount.IsPositive() {
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid %s: must be greater than 0.", field)
	}
	if amount.GreaterThan(MAX_AMOUNT_LIMIT) {
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid %s: maximum allowed is %s.", field, MAX_AMOUNT_LIMIT.StringFixed(2))
	}
	if !amount.Equal(amount.Round(2)) {
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid %s: at most 2 decimal places allowed.", field)
	}
	return nil
}

func isExpenseCategory(category string) bool {
	for _, c := range ExpenseCategories {
		if c == category {
			return true
		}
	}
	return false
}
