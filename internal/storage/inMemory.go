package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	authModel "github.com/fatali-fataliyev/smartsave/internal/auth"
	budgetModel "github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/period"
)

// InMemoryStorage keeps everything in process memory. Accounts are copied
// on the way in and out so callers never share state with the store.
type InMemoryStorage struct {
	mu           sync.RWMutex
	users        []authModel.User
	sessions     []authModel.Session
	accounts     map[string]budgetModel.Account
	transactions []budgetModel.Transaction
	recurring    []budgetModel.RecurringExpense
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		accounts: make(map[string]budgetModel.Account),
	}
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return "inmemory"
}

func (inMem *InMemoryStorage) SaveUser(ctx context.Context, newUser authModel.User) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for _, user := range inMem.users {
		if user.UserName == newUser.UserName || user.Email == newUser.Email {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "Username or email already taken.",
			}
		}
	}
	inMem.users = append(inMem.users, newUser)
	inMem.accounts[newUser.ID] = budgetModel.NewAccount(newUser.ID)
	return nil
}

func (inMem *InMemoryStorage) ValidateUser(ctx context.Context, credentials authModel.UserCredentialsPure) (authModel.User, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	email := strings.ToLower(strings.TrimSpace(credentials.Email))
	for _, user := range inMem.users {
		matched := user.UserName == strings.ToLower(credentials.UserName)
		if email != "" {
			matched = user.Email == email
		}
		if matched {
			if authModel.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
				return user, nil
			}
			break
		}
	}
	return authModel.User{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Username or Password is incorrect",
	}
}

func (inMem *InMemoryStorage) IsUserExists(ctx context.Context, username string) (bool, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	for _, user := range inMem.users {
		if user.UserName == username {
			return true, nil
		}
	}
	return false, nil
}

func (inMem *InMemoryStorage) SaveSession(ctx context.Context, session authModel.Session) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.sessions = append(inMem.sessions, session)
	return nil
}

func (inMem *InMemoryStorage) GetSessionByToken(ctx context.Context, token string) (authModel.Session, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	for _, session := range inMem.sessions {
		if session.Token == strings.TrimSpace(token) {
			return session, nil
		}
	}
	return authModel.Session{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Session does not exist, please login.",
	}
}

func (inMem *InMemoryStorage) CheckSession(ctx context.Context, token string, now time.Time) (string, error) {
	session, err := inMem.GetSessionByToken(ctx, token)
	if err != nil {
		return "", err
	}
	if session.ExpireAt.Before(now.UTC()) {
		return "", appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Your session expired, please login again.",
		}
	}
	return session.UserID, nil
}

func (inMem *InMemoryStorage) UpdateSession(ctx context.Context, token string, expireAt time.Time) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i := range inMem.sessions {
		if inMem.sessions[i].Token == strings.TrimSpace(token) {
			inMem.sessions[i].ExpireAt = expireAt
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrAuth,
		Message: "Session does not exist, please login.",
	}
}

func (inMem *InMemoryStorage) LogoutUser(ctx context.Context, userId string, token string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, session := range inMem.sessions {
		if session.UserID == userId && session.Token == strings.TrimSpace(token) {
			inMem.sessions = append(inMem.sessions[:i], inMem.sessions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (inMem *InMemoryStorage) GetAccount(ctx context.Context, userId string) (budgetModel.Account, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	account, ok := inMem.accounts[userId]
	if !ok {
		return budgetModel.Account{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "User not found.",
		}
	}
	return account.Clone(), nil
}

func (inMem *InMemoryStorage) SaveAccount(ctx context.Context, account budgetModel.Account) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	if _, ok := inMem.accounts[account.UserID]; !ok {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "User not found.",
		}
	}
	inMem.accounts[account.UserID] = account.Clone()
	return nil
}

func (inMem *InMemoryStorage) SaveTransaction(ctx context.Context, t budgetModel.Transaction) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.transactions = append(inMem.transactions, t)
	return nil
}

func (inMem *InMemoryStorage) GetTransactionById(ctx context.Context, userId string, transactionId string) (budgetModel.Transaction, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	for _, transaction := range inMem.transactions {
		if transaction.ID == transactionId && transaction.UserID == userId {
			return transaction, nil
		}
	}
	return budgetModel.Transaction{}, appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Transaction not found.",
	}
}

func (inMem *InMemoryStorage) GetFilteredTransactions(ctx context.Context, userId string, filters *budgetModel.TransactionList) ([]budgetModel.Transaction, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	var result []budgetModel.Transaction
	for _, transaction := range inMem.transactions {
		if transaction.UserID != userId {
			continue
		}
		if filters != nil && !filters.IsAllNil {
			if !filters.Day.IsZero() && !period.SameDay(transaction.Date, filters.Day) {
				continue
			}
			if filters.Type != "" && transaction.Type != filters.Type {
				continue
			}
		}
		result = append(result, transaction)
	}
	return result, nil
}

func (inMem *InMemoryStorage) DeleteTransaction(ctx context.Context, userId string, transactionId string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, transaction := range inMem.transactions {
		if transaction.ID == transactionId && transaction.UserID == userId {
			inMem.transactions = append(inMem.transactions[:i], inMem.transactions[i+1:]...)
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Transaction not found.",
	}
}

func (inMem *InMemoryStorage) SaveRecurringExpense(ctx context.Context, r budgetModel.RecurringExpense) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	inMem.recurring = append(inMem.recurring, r)
	return nil
}

func (inMem *InMemoryStorage) GetRecurringExpenses(ctx context.Context, userId string) ([]budgetModel.RecurringExpense, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()

	var result []budgetModel.RecurringExpense
	for _, r := range inMem.recurring {
		if r.UserID == userId {
			result = append(result, r)
		}
	}
	return result, nil
}

func (inMem *InMemoryStorage) DeleteRecurringExpense(ctx context.Context, userId string, recurringId string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()

	for i, r := range inMem.recurring {
		if r.ID == recurringId && r.UserID == userId {
			inMem.recurring = append(inMem.recurring[:i], inMem.recurring[i+1:]...)
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Recurring expense not found.",
	}
}
