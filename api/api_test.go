package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/auth"
	"github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	auth.HashCost = bcrypt.MinCost

	bt := budget.NewBudgetTracker(storage.NewInMemoryStorage())
	server := httptest.NewServer(NewRouter(NewApi(&bt)))
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method string, path string, token string, body any, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// sessionOutageStore fails every session lookup like an unreachable database.
type sessionOutageStore struct {
	*storage.InMemoryStorage
}

func (s *sessionOutageStore) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	return auth.Session{}, appErrors.New(appErrors.ErrInternal, "Failed to check session, please try again later.")
}

func signup(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()
	var created UserCreatedResponse
	status := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"fullname": "test user",
		"password": "secret123",
		"email":    username + "@example.com",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.Token)
	return created.Token
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestHealth(t *testing.T) {
	server := newTestServer(t)

	var health HealthResponse
	status := doRequest(t, server, http.MethodGet, "/api/health", "", nil, &health)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "inmemory", health.Storage)
}

func TestAuthFlow(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "john")

	var errResp ErrorResponse
	status := doRequest(t, server, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "john", "password": "secret123", "email": "other@example.com",
	}, &errResp)
	require.Equal(t, http.StatusConflict, status)

	status = doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "john", "password": "wrong"}, &errResp)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Username or Password is incorrect", errResp.Error)

	var login LoginResponse
	status = doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "john", "password": "secret123"}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEqual(t, token, login.Token)

	var emailLogin LoginResponse
	status = doRequest(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "john@example.com", "password": "secret123"}, &emailLogin)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, emailLogin.Token)

	status = doRequest(t, server, http.MethodGet, "/api/auth/logout", login.Token, nil, nil)
	require.Equal(t, http.StatusOK, status)

	status = doRequest(t, server, http.MethodGet, "/api/transactions", login.Token, nil, &errResp)
	require.Equal(t, http.StatusUnauthorized, status)

	status = doRequest(t, server, http.MethodGet, "/api/transactions", "", nil, &errResp)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Authorization header is required.", errResp.Error)
}

func TestTransactionLifecycle(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "jane")
	today := time.Now().UTC().Format("2006-01-02")
	month := time.Now().UTC().Format("2006-01")

	var created TransactionCreatedResponse
	status := doRequest(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"merchant": "Employer", "amount": 1500, "type": "income",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, today, created.Transaction.Date)
	requireDecimal(t, "1500", created.User.AvailableBalance)
	require.Equal(t, 1, created.User.Streak)

	status = doRequest(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"merchant": "Grocer", "amount": "45.20", "type": "expense", "category": "food",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	expenseId := created.Transaction.ID
	requireDecimal(t, "1454.80", created.User.AvailableBalance)
	requireDecimal(t, "45.20", created.User.BudgetsByMonth[month].Spent)

	var errResp ErrorResponse
	status = doRequest(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"merchant": "Vault", "amount": 5000, "type": "save",
	}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, errResp.Error, "Insufficient balance")

	status = doRequest(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
		"merchant": "Grocer", "amount": -3, "type": "expense",
	}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)

	var list []TransactionItem
	status = doRequest(t, server, http.MethodGet, "/api/transactions", token, nil, &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 2)
	require.Equal(t, expenseId, list[0].ID)

	other := signup(t, server, "mallory")
	status = doRequest(t, server, http.MethodDelete, "/api/transactions/"+expenseId, other, nil, &errResp)
	require.Equal(t, http.StatusNotFound, status)

	var deleted map[string]any
	status = doRequest(t, server, http.MethodDelete, "/api/transactions/"+expenseId, token, nil, &deleted)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Transaction deleted", deleted["message"])
	user := deleted["user"].(map[string]any)
	require.Contains(t, user, "availableBalance")
	require.Contains(t, user, "budgetsByMonth")
	require.NotContains(t, user, "totalIncome")
	require.NotContains(t, user, "streak")
}

func TestBudgetDashboardAndInsights(t *testing.T) {
	server := newTestServer(t)
	token := signup(t, server, "kim")
	month := time.Now().UTC().Format("2006-01")

	var budgetResp BudgetResponse
	status := doRequest(t, server, http.MethodPost, "/api/budget", token, map[string]any{"amount": 1000}, &budgetResp)
	require.Equal(t, http.StatusOK, status)
	requireDecimal(t, "1000", budgetResp.MonthlyBudget)
	requireDecimal(t, "1000", budgetResp.BudgetsByMonth[month].Budget)

	var errResp ErrorResponse
	status = doRequest(t, server, http.MethodPost, "/api/budget", token, map[string]any{"amount": 0}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)

	status = doRequest(t, server, http.MethodGet, "/api/budget", token, nil, &budgetResp)
	require.Equal(t, http.StatusOK, status)
	requireDecimal(t, "1000", budgetResp.MonthlyBudget)

	var catResp CategoryBudgetsResponse
	status = doRequest(t, server, http.MethodPost, "/api/budget/category", token, map[string]any{"category": "food", "amount": 200}, &catResp)
	require.Equal(t, http.StatusOK, status)
	requireDecimal(t, "200", catResp.CatBudgets["food"])

	var insights InsightsResponse
	status = doRequest(t, server, http.MethodGet, "/api/insights", token, nil, &insights)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, insights.Insights, 1)
	require.Equal(t, "Pattern Detection Inactive", insights.Insights[0].Title)

	for _, amount := range []string{"300", "300", "250"} {
		status = doRequest(t, server, http.MethodPost, "/api/transactions", token, map[string]any{
			"merchant": "Store", "amount": amount, "type": "expense", "category": "shopping",
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	status = doRequest(t, server, http.MethodGet, "/api/insights", token, nil, &insights)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Budget at 80%", insights.Insights[0].Title)
	require.Equal(t, "caution", insights.Insights[0].Type)

	var recurring RecurringExpenseItem
	status = doRequest(t, server, http.MethodPost, "/api/recurring", token, map[string]any{
		"name": "Rent", "amount": 120, "frequency": "yearly", "category": "bills", "startDate": "2025-01-01",
	}, &recurring)
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "2025-01-01", recurring.StartDate)

	status = doRequest(t, server, http.MethodPost, "/api/recurring", token, map[string]any{
		"name": "Rent", "amount": 120, "frequency": "daily", "category": "bills", "startDate": "2025-01-01",
	}, &errResp)
	require.Equal(t, http.StatusBadRequest, status)

	var recurringList []RecurringExpenseItem
	status = doRequest(t, server, http.MethodGet, "/api/recurring", token, nil, &recurringList)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, recurringList, 1)

	var metrics DashboardMetricsResponse
	status = doRequest(t, server, http.MethodGet, "/api/dashboard/metrics", token, nil, &metrics)
	require.Equal(t, http.StatusOK, status)
	requireDecimal(t, "-850", metrics.Available)
	requireDecimal(t, "1000", metrics.Budget)
	requireDecimal(t, "850", metrics.Spent)
	requireDecimal(t, "10", metrics.Committed)
	require.Equal(t, 1, metrics.Streak)

	status = doRequest(t, server, http.MethodDelete, "/api/recurring/"+recurring.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, status)
	status = doRequest(t, server, http.MethodDelete, "/api/recurring/"+recurring.ID, token, nil, &errResp)
	require.Equal(t, http.StatusNotFound, status)
}

func TestHttpStatusFromError(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{appErrors.ErrNotFound, http.StatusNotFound},
		{appErrors.ErrInvalidInput, http.StatusBadRequest},
		{appErrors.ErrInsufficientBalance, http.StatusBadRequest},
		{appErrors.ErrAuth, http.StatusUnauthorized},
		{appErrors.ErrAccessDenied, http.StatusForbidden},
		{appErrors.ErrConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", appErrors.New(tt.code, "x"))
			require.Equal(t, tt.expected, httpStatusFromError(err))
		})
	}

	require.Equal(t, http.StatusInternalServerError, httpStatusFromError(errors.New("db down")))
}

func TestAuthorizeStoreFailure(t *testing.T) {
	bt := budget.NewBudgetTracker(&sessionOutageStore{InMemoryStorage: storage.NewInMemoryStorage()})
	server := httptest.NewServer(NewRouter(NewApi(&bt)))
	t.Cleanup(server.Close)

	var errResp ErrorResponse
	status := doRequest(t, server, http.MethodGet, "/api/transactions", "some-token", nil, &errResp)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "Failed to check session, please try again later.", errResp.Error)

	status = doRequest(t, server, http.MethodGet, "/api/transactions", "", nil, &errResp)
	require.Equal(t, http.StatusUnauthorized, status)
}
