package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/0xcafe-io/iz"
	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/auth"
	"github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/contextutil"
	"github.com/fatali-fataliyev/smartsave/logging"
	"github.com/google/uuid"
)

type Api struct {
	Service *budget.BudgetTracker
}

func NewApi(service *budget.BudgetTracker) *Api {
	return &Api{
		Service: service,
	}
}

// NewRouter registers every endpoint on a fresh mux.
func NewRouter(api *Api) *http.ServeMux {
	server := http.NewServeMux()

	server.HandleFunc("GET /api/health", iz.Bind(api.HealthHandler))

	// USER ENDPOINTS.
	server.HandleFunc("POST /api/auth/signup", iz.Bind(api.SaveUserHandler))  // Create User
	server.HandleFunc("POST /api/auth/login", iz.Bind(api.LoginUserHandler))  // Login User
	server.HandleFunc("GET /api/auth/logout", iz.Bind(api.LogoutUserHandler)) // Logout User

	// TRANSACTION ENDPOINTS.
	server.HandleFunc("POST /api/transactions", iz.Bind(api.SaveTransactionHandler))          // Create Transaction
	server.HandleFunc("GET /api/transactions", iz.Bind(api.ListTransactionsHandler))          // List Transactions
	server.HandleFunc("DELETE /api/transactions/{id}", iz.Bind(api.DeleteTransactionHandler)) // Delete Transaction

	// BUDGET ENDPOINTS.
	server.HandleFunc("POST /api/budget", iz.Bind(api.SetBudgetHandler))                  // Set Monthly Budget
	server.HandleFunc("GET /api/budget", iz.Bind(api.GetBudgetHandler))                   // Get Budget
	server.HandleFunc("POST /api/budget/category", iz.Bind(api.SetCategoryBudgetHandler)) // Set Category Budget

	// RECURRING EXPENSE ENDPOINTS.
	server.HandleFunc("POST /api/recurring", iz.Bind(api.SaveRecurringHandler))          // Create Recurring Expense
	server.HandleFunc("GET /api/recurring", iz.Bind(api.ListRecurringHandler))           // List Recurring Expenses
	server.HandleFunc("DELETE /api/recurring/{id}", iz.Bind(api.DeleteRecurringHandler)) // Delete Recurring Expense

	// STATISTICS ENDPOINTS.
	server.HandleFunc("GET /api/dashboard/metrics", iz.Bind(api.DashboardMetricsHandler)) // Dashboard Metrics
	server.HandleFunc("GET /api/insights", iz.Bind(api.InsightsHandler))                  // Spending Insights

	return server
}

func newTraceContext(r *iz.Request) context.Context {
	return contextutil.WithTraceID(r.Context(), uuid.New().String())
}

func errorResponder(err error) iz.Responder {
	return iz.Respond().Status(httpStatusFromError(err)).JSON(ErrorResponse{Error: appErrors.MessageOf(err)})
}

// authorize resolves the Authorization header to a user id. Auth failures
// carry ErrAuth, store faults keep their own code.
func (api *Api) authorize(ctx context.Context, r *iz.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", appErrors.New(appErrors.ErrAuth, "Authorization header is required.")
	}

	userId, err := api.Service.CheckSession(ctx, token)
	if err != nil {
		return "", err
	}
	return userId, nil
}

func (api *Api) HealthHandler(r *iz.Request) iz.Responder {
	resp := HealthResponse{
		Status:  "ok",
		Message: "SmartSave API is running",
		Storage: api.Service.StorageType,
	}
	return iz.Respond().Status(http.StatusOK).JSON(resp)
}

func (api *Api) SaveUserHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	var newUserReq SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&newUserReq); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	newUser := auth.NewUser{
		UserName:      newUserReq.UserName,
		FullName:      newUserReq.FullName,
		PasswordPlain: newUserReq.Password,
		Email:         newUserReq.Email,
	}

	token, err := api.Service.SaveUser(ctx, newUser)
	if err != nil {
		return errorResponder(err)
	}

	resp := UserCreatedResponse{
		Message: "Registration Completed",
		Token:   token,
	}
	return iz.Respond().Status(http.StatusCreated).JSON(resp)
}

func (api *Api) LoginUserHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	var loginRequest UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	credentials := auth.UserCredentialsPure{
		UserName:      loginRequest.UserName,
		Email:         loginRequest.Email,
		PasswordPlain: loginRequest.Password,
	}

	token, err := api.Service.GenerateSession(ctx, credentials)
	if err != nil {
		return errorResponder(err)
	}

	response := LoginResponse{
		Message: "You've logged in successfully!",
		Token:   token,
	}
	return iz.Respond().Status(http.StatusOK).JSON(response)
}

func (api *Api) LogoutUserHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	if err := api.Service.LogoutUser(ctx, userId, r.Header.Get("Authorization")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(http.StatusOK).JSON(MessageResponse{Message: "Logout successful."})
}

func (api *Api) SaveTransactionHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	var newTransactionReq CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&newTransactionReq); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to parse save transaction request: %v", contextutil.TraceIDFromContext(ctx), err)
		msg := fmt.Sprintf("failed to parse save transaction request: %v", err)
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	newTransaction := budget.TransactionRequest{
		Merchant: newTransactionReq.Merchant,
		Amount:   newTransactionReq.Amount,
		Category: newTransactionReq.Category,
		Date:     newTransactionReq.Date,
		Type:     newTransactionReq.Type,
	}

	transaction, view, err := api.Service.ApplyTransaction(ctx, userId, newTransaction)
	if err != nil {
		return errorResponder(err)
	}

	resp := TransactionCreatedResponse{
		Transaction: TransactionToHttp(transaction),
		User:        AccountToHttp(view),
	}
	return iz.Respond().Status(http.StatusCreated).JSON(resp)
}

func (api *Api) ListTransactionsHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	ts, err := api.Service.ListTransactions(ctx, userId)
	if err != nil {
		return errorResponder(err)
	}

	tsForHttp := make([]TransactionItem, 0, len(ts))
	for _, t := range ts {
		tsForHttp = append(tsForHttp, TransactionToHttp(t))
	}
	return iz.Respond().Status(http.StatusOK).JSON(tsForHttp)
}

func (api *Api) DeleteTransactionHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	tId := r.PathValue("id")

	view, err := api.Service.ReverseTransaction(ctx, userId, tId)
	if err != nil {
		return errorResponder(err)
	}

	resp := TransactionDeletedResponse{
		Message: "Transaction deleted",
		User:    DeletedAccountToHttp(view),
	}
	return iz.Respond().Status(http.StatusOK).JSON(resp)
}

func (api *Api) SetBudgetHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	var req SetBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: "Invalid budget amount"})
	}

	result, err := api.Service.SetMonthlyBudget(ctx, userId, req.Amount)
	if err != nil {
		return errorResponder(err)
	}

	resp := BudgetResponse{
		MonthlyBudget:  result.MonthlyBudget,
		BudgetsByMonth: BudgetsToHttp(result.BudgetsByMonth),
	}
	return iz.Respond().Status(http.StatusOK).JSON(resp)
}

func (api *Api) GetBudgetHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	result, err := api.Service.GetBudget(ctx, userId)
	if err != nil {
		return errorResponder(err)
	}

	resp := BudgetResponse{
		MonthlyBudget:  result.MonthlyBudget,
		BudgetsByMonth: BudgetsToHttp(result.BudgetsByMonth),
	}
	return iz.Respond().Status(http.StatusOK).JSON(resp)
}

func (api *Api) SetCategoryBudgetHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	var req CategoryBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	catBudgets, err := api.Service.SetCategoryBudget(ctx, userId, budget.CategoryBudgetRequest{
		Category: req.Category,
		Amount:   req.Amount,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(http.StatusOK).JSON(CategoryBudgetsResponse{CatBudgets: catBudgets})
}

func (api *Api) SaveRecurringHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	var req RecurringExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		msg := fmt.Sprintf("invalid request body: %s", err.Error())
		return iz.Respond().Status(http.StatusBadRequest).JSON(ErrorResponse{Error: msg})
	}

	recurring, err := api.Service.SaveRecurringExpense(ctx, userId, budget.RecurringExpenseRequest{
		Name:      req.Name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		Category:  req.Category,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(http.StatusCreated).JSON(RecurringToHttp(recurring))
}

func (api *Api) ListRecurringHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	recurring, err := api.Service.ListRecurringExpenses(ctx, userId)
	if err != nil {
		return errorResponder(err)
	}

	items := make([]RecurringExpenseItem, 0, len(recurring))
	for _, rec := range recurring {
		items = append(items, RecurringToHttp(rec))
	}
	return iz.Respond().Status(http.StatusOK).JSON(items)
}

func (api *Api) DeleteRecurringHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	if err := api.Service.DeleteRecurringExpense(ctx, userId, r.PathValue("id")); err != nil {
		return errorResponder(err)
	}
	return iz.Respond().Status(http.StatusOK).JSON(MessageResponse{Message: "Recurring expense deleted"})
}

func (api *Api) DashboardMetricsHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	metrics, err := api.Service.GetDashboardMetrics(ctx, userId)
	if err != nil {
		return errorResponder(err)
	}

	resp := DashboardMetricsResponse{
		Available:   metrics.Available,
		Savings:     metrics.Savings,
		Budget:      metrics.Budget,
		Spent:       metrics.Spent,
		Committed:   metrics.Committed,
		TotalIncome: metrics.TotalIncome,
		Streak:      metrics.Streak,
	}
	return iz.Respond().Status(http.StatusOK).JSON(resp)
}

func (api *Api) InsightsHandler(r *iz.Request) iz.Responder {
	ctx := newTraceContext(r)

	userId, err := api.authorize(ctx, r)
	if err != nil {
		return errorResponder(err)
	}

	insights, err := api.Service.GetInsights(ctx, userId)
	if err != nil {
		return errorResponder(err)
	}

	items := make([]InsightItem, 0, len(insights))
	for _, insight := range insights {
		items = append(items, InsightToHttp(insight))
	}
	return iz.Respond().Status(http.StatusOK).JSON(InsightsResponse{Insights: items})
}
