package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/smartsave/customErrors"
	"github.com/fatali-fataliyev/smartsave/internal/auth"
	"github.com/fatali-fataliyev/smartsave/internal/budget"
	"github.com/fatali-fataliyev/smartsave/internal/config"
	"github.com/fatali-fataliyev/smartsave/internal/contextutil"
	"github.com/fatali-fataliyev/smartsave/internal/period"
	"github.com/fatali-fataliyev/smartsave/logging"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	dbConnectAttempts = 15
	dbConnectDelay    = 3 * time.Second
)

// --- INIT START --- //

// Init creates the database when missing, connects to it and applies the
// embedded migrations.
func Init(cfg config.DB) (*sql.DB, error) {
	dbname := cfg.Name
	if dbname == "" {
		dbname = "smartsave"
	}

	var adminDsn, finalDsn string
	if cfg.FullDSN != "" {
		parts := strings.Split(cfg.FullDSN, "/")
		adminDsn = strings.Join(parts[:len(parts)-1], "/") + "/"
		finalDsn = cfg.FullDSN
	} else {
		adminDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/?parseTime=true", cfg.User, cfg.Pass, cfg.Host, cfg.Port)
		finalDsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", cfg.User, cfg.Pass, cfg.Host, cfg.Port, dbname)
	}

	logging.Logger.Info("Connecting to MySQL server for initialization...")
	adminDb, err := sql.Open("mysql", adminDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open admin mysql handle: %w", err)
	}
	defer adminDb.Close()

	connected := false
	for i := 0; i < dbConnectAttempts; i++ {
		if err := adminDb.Ping(); err == nil {
			connected = true
			break
		}
		logging.Logger.Warnf("Database not ready, retrying... (%d/%d)", i+1, dbConnectAttempts)
		time.Sleep(dbConnectDelay)
	}
	if !connected {
		return nil, fmt.Errorf("database unreachable after multiple attempts")
	}

	if cfg.FullDSN == "" {
		createDbSql := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_general_ci;", dbname)
		if _, err := adminDb.Exec(createDbSql); err != nil {
			return nil, fmt.Errorf("failed to create database: %w", err)
		}
	}

	logging.Logger.Info("Connecting to database...")
	db, err := sql.Open("mysql", finalDsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database handle: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logging.Logger.Info("Connected to database successfully")
	logging.Logger.Info("Running migrations...")

	if err := runMigrations(finalDsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// withMultiStatements enables multi statement migration files on dsn.
func withMultiStatements(dsn string) string {
	if strings.Contains(dsn, "multiStatements=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&multiStatements=true"
	}
	return dsn + "?multiStatements=true"
}

func runMigrations(dsn string) error {
	// separate handle: closing the migrator closes its connection
	migrateDB, err := sql.Open("mysql", withMultiStatements(dsn))
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := migratemysql.WithInstance(migrateDB, &migratemysql.Config{})
	if err != nil {
		return fmt.Errorf("create mysql driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}

	logging.Logger.Info("all migrations applied successfully")
	return nil
}

type MySQLStorage struct {
	db *sql.DB
}

func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

// --- INIT END --- //

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func internalError(message string) error {
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrInternal,
		Message: message,
	}
}

func (mySql *MySQLStorage) SaveUser(ctx context.Context, user auth.User) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO user (id, username, fullname, hashed_password, email, joined_at) VALUES (?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, user.ID, user.UserName, user.FullName, user.PasswordHashed, user.Email, user.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "Username or email already taken.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to save user Storage.SaveUser(), Error: %v", traceID, err)
		return internalError("Registration failed, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) ValidateUser(ctx context.Context, credentials auth.UserCredentialsPure) (auth.User, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, username, fullname, hashed_password, email, joined_at FROM user WHERE username = ?;"
	identifier := strings.ToLower(credentials.UserName)
	if email := strings.TrimSpace(credentials.Email); email != "" {
		query = "SELECT id, username, fullname, hashed_password, email, joined_at FROM user WHERE email = ?;"
		identifier = strings.ToLower(email)
	}
	row := mySql.db.QueryRowContext(ctx, query, identifier)
	var user auth.User
	err := row.Scan(&user.ID, &user.UserName, &user.FullName, &user.PasswordHashed, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Username or Password is incorrect",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan user row in Storage.ValidateUser() function | Error: %v", traceID, err)
		return auth.User{}, internalError("Failed to login, try again later.")
	}

	if !auth.ComparePasswords(user.PasswordHashed, credentials.PasswordPlain) {
		return auth.User{}, appErrors.ErrorResponse{
			Code:    appErrors.ErrAuth,
			Message: "Username or Password is incorrect",
		}
	}
	return user, nil
}

func (mySql *MySQLStorage) IsUserExists(ctx context.Context, username string) (bool, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM user WHERE username = ?);"
	if err := mySql.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check user existence in Storage.IsUserExists() function | Error: %v", traceID, err)
		return false, internalError("Failed to check username, try again later.")
	}
	return exists, nil
}

func (mySql *MySQLStorage) SaveSession(ctx context.Context, session auth.Session) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO session (id, token, created_at, expire_at, user_id) VALUES (?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, session.ID, session.Token, session.CreatedAt, session.ExpireAt, session.UserID)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save session in Storage.SaveSession() function | Error: %v", traceID, err)
		return internalError("Failed to create session, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) UpdateSession(ctx context.Context, token string, newExpireDate time.Time) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `UPDATE session SET expire_at = ? WHERE token = ?`
	if _, err := mySql.db.ExecContext(ctx, query, newExpireDate, strings.TrimSpace(token)); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update session in Storage.UpdateSession() function | Error: %v", traceID, err)
		return internalError("Failed to check session, please try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := `SELECT id, token, created_at, expire_at, user_id FROM session WHERE token = ?`
	var dbS dbSession

	err := mySql.db.QueryRowContext(ctx, query, strings.TrimSpace(token)).Scan(
		&dbS.ID,
		&dbS.Token,
		&dbS.CreatedAt,
		&dbS.ExpireAt,
		&dbS.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Session{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrAuth,
				Message: "Session does not exist, please login.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to get session in Storage.GetSessionByToken() function | Error: %v", traceID, err)
		return auth.Session{}, internalError("Failed to check session, please try again later.")
	}

	return auth.Session{
		ID:        dbS.ID,
		Token:     dbS.Token,
		CreatedAt: dbS.CreatedAt,
		ExpireAt:  dbS.ExpireAt,
		UserID:    dbS.UserID,
	}, nil
}

func (mySql *MySQLStorage) CheckSession(ctx context.Context, token string, now time.Time) (string, error) {
	session, err := mySql.GetSessionByToken(ctx, token)
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

func (mySql *MySQLStorage) LogoutUser(ctx context.Context, userId string, token string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "DELETE FROM session WHERE user_id = ? AND token = ?"
	if _, err := mySql.db.ExecContext(ctx, query, userId, strings.TrimSpace(token)); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to logout user in Storage.LogoutUser() function | Error: %v", traceID, err)
		return internalError("Failed to logout, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetAccount(ctx context.Context, userId string) (budget.Account, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	account := budget.NewAccount(userId)

	query := "SELECT available_balance, savings_balance, total_income, monthly_budget, streak FROM user WHERE id = ?;"
	err := mySql.db.QueryRowContext(ctx, query, userId).Scan(
		&account.AvailableBalance,
		&account.SavingsBalance,
		&account.TotalIncome,
		&account.MonthlyBudget,
		&account.Streak,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget.Account{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "User not found.",
			}
		}
		logging.Logger.Errorf("[TraceID=%s] | failed to scan account row in Storage.GetAccount() function | Error: %v", traceID, err)
		return budget.Account{}, internalError("Failed to get account, try again later.")
	}

	monthRows, err := mySql.db.QueryContext(ctx, "SELECT month_key, budget, spent FROM budget_month WHERE user_id = ?;", userId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get budget months in Storage.GetAccount() function | Error: %v", traceID, err)
		return budget.Account{}, internalError("Failed to get account, try again later.")
	}
	defer monthRows.Close()

	for monthRows.Next() {
		var key string
		var entry budget.MonthBudget
		if err := monthRows.Scan(&key, &entry.Budget, &entry.Spent); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan budget month in Storage.GetAccount() function | Error: %v", traceID, err)
			return budget.Account{}, internalError("Failed to get account, try again later.")
		}
		account.BudgetsByMonth[key] = &entry
	}
	if err := monthRows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate budget months in Storage.GetAccount() function | Error: %v", traceID, err)
		return budget.Account{}, internalError("Failed to get account, try again later.")
	}

	catRows, err := mySql.db.QueryContext(ctx, "SELECT category, amount FROM category_budget WHERE user_id = ?;", userId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get category budgets in Storage.GetAccount() function | Error: %v", traceID, err)
		return budget.Account{}, internalError("Failed to get account, try again later.")
	}
	defer catRows.Close()

	for catRows.Next() {
		var category string
		var amount decimal.Decimal
		if err := catRows.Scan(&category, &amount); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan category budget in Storage.GetAccount() function | Error: %v", traceID, err)
			return budget.Account{}, internalError("Failed to get account, try again later.")
		}
		account.CatBudgets[category] = amount
	}
	if err := catRows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate category budgets in Storage.GetAccount() function | Error: %v", traceID, err)
		return budget.Account{}, internalError("Failed to get account, try again later.")
	}

	return account, nil
}

// SaveAccount writes balances, month entries and category budgets in one SQL
// transaction. Month entries and category budgets are only ever upserted.
func (mySql *MySQLStorage) SaveAccount(ctx context.Context, account budget.Account) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	txn, err := mySql.db.BeginTx(ctx, nil)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to start SQL transaction in Storage.SaveAccount() function | Error: %v", traceID, err)
		return internalError("Failed to save account, try again later.")
	}
	defer txn.Rollback()

	query := "UPDATE user SET available_balance = ?, savings_balance = ?, total_income = ?, monthly_budget = ?, streak = ? WHERE id = ?;"
	if _, err := txn.ExecContext(ctx, query, account.AvailableBalance, account.SavingsBalance, account.TotalIncome, account.MonthlyBudget, account.Streak, account.UserID); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to update balances in Storage.SaveAccount() function | Error: %v", traceID, err)
		return internalError("Failed to save account, try again later.")
	}

	monthQuery := "INSERT INTO budget_month (user_id, month_key, budget, spent) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE budget = VALUES(budget), spent = VALUES(spent);"
	for key, entry := range account.BudgetsByMonth {
		if _, err := txn.ExecContext(ctx, monthQuery, account.UserID, key, entry.Budget, entry.Spent); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to upsert budget month %s in Storage.SaveAccount() function | Error: %v", traceID, key, err)
			return internalError("Failed to save account, try again later.")
		}
	}

	catQuery := "INSERT INTO category_budget (user_id, category, amount) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE amount = VALUES(amount);"
	for category, amount := range account.CatBudgets {
		if _, err := txn.ExecContext(ctx, catQuery, account.UserID, category, amount); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to upsert category budget in Storage.SaveAccount() function | Error: %v", traceID, err)
			return internalError("Failed to save account, try again later.")
		}
	}

	if err := txn.Commit(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to commit SQL transaction in Storage.SaveAccount() function | Error: %v", traceID, err)
		return internalError("Failed to save account, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) SaveTransaction(ctx context.Context, t budget.Transaction) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO transaction (id, user_id, merchant, amount, category, date, type, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, t.ID, t.UserID, t.Merchant, t.Amount, NilToNullString(t.Category), period.FormatDate(t.Date), t.Type, t.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save transaction in Storage.SaveTransaction() function, | Error: %v", traceID, err)
		return internalError("Failed to save transaction, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) processTransactionRows(ctx context.Context, rows *sql.Rows) ([]budget.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer rows.Close()

	var transactions []budget.Transaction

	for rows.Next() {
		var dbT dbTransaction
		err := rows.Scan(&dbT.ID, &dbT.UserID, &dbT.Merchant, &dbT.Amount, &dbT.Category, &dbT.Date, &dbT.Type, &dbT.CreatedAt)
		if err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.processTransactionRows() | Error : %v", traceID, err)
			return nil, internalError("Failed to process transactions, try again later.")
		}
		transactions = append(transactions, dbT.toTransaction())
	}

	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.processTransactionRows() | Error : %v", traceID, err)
		return nil, internalError("Failed to process transactions, try again later.")
	}

	return transactions, nil
}

func (dbT dbTransaction) toTransaction() budget.Transaction {
	return budget.Transaction{
		ID:        dbT.ID,
		UserID:    dbT.UserID,
		Merchant:  dbT.Merchant,
		Amount:    dbT.Amount,
		Category:  dbT.Category.String,
		Date:      dbT.Date,
		Type:      dbT.Type,
		CreatedAt: dbT.CreatedAt,
	}
}

const transactionColumns = "id, user_id, merchant, amount, category, date, type, created_at"

func (mySql *MySQLStorage) GetFilteredTransactions(ctx context.Context, userID string, filters *budget.TransactionList) ([]budget.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)
	query := "SELECT " + transactionColumns + " FROM transaction WHERE user_id = ?"
	args := []interface{}{userID}

	if filters != nil && !filters.IsAllNil {
		if !filters.Day.IsZero() {
			query += " AND date = ?"
			args = append(args, period.FormatDate(filters.Day))
		}
		if filters.Type != "" {
			query += " AND type = ?"
			args = append(args, filters.Type)
		}
	}

	query += " ORDER BY date DESC, created_at DESC;"
	rows, err := mySql.db.QueryContext(ctx, query, args...)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get filtered transactions from Storage.GetFilteredTransactions() function | Error : %v", traceID, err)
		return nil, internalError("Failed to get transactions, try again later.")
	}

	return mySql.processTransactionRows(ctx, rows)
}

func (mySql *MySQLStorage) GetTransactionById(ctx context.Context, userID string, transactionId string) (budget.Transaction, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT " + transactionColumns + " FROM transaction WHERE user_id = ? AND id = ?;"
	var dbT dbTransaction
	err := mySql.db.QueryRowContext(ctx, query, userID, transactionId).Scan(&dbT.ID, &dbT.UserID, &dbT.Merchant, &dbT.Amount, &dbT.Category, &dbT.Date, &dbT.Type, &dbT.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return budget.Transaction{}, appErrors.ErrorResponse{
				Code:    appErrors.ErrNotFound,
				Message: "Transaction not found.",
			}
		}

		logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetTransactionById() function | Error : %v", traceID, err)
		return budget.Transaction{}, internalError("Failed to get transaction, try again later.")
	}

	return dbT.toTransaction(), nil
}

func (mySql *MySQLStorage) DeleteTransaction(ctx context.Context, userId string, transactionId string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM transaction WHERE user_id = ? AND id = ?;", userId, transactionId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete transaction in Storage.DeleteTransaction() function | Error : %v", traceID, err)
		return internalError("Failed to delete transaction, try again later.")
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteTransaction() function | Error: %v", traceID, err)
		return internalError("Failed to delete transaction, try again later.")
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Transaction not found.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) SaveRecurringExpense(ctx context.Context, r budget.RecurringExpense) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "INSERT INTO recurring_expense (id, user_id, name, amount, frequency, category, start_date, end_date, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);"
	_, err := mySql.db.ExecContext(ctx, query, r.ID, r.UserID, r.Name, r.Amount, r.Frequency, r.Category, period.FormatDate(r.StartDate), NilToNullTime(r.EndDate), r.CreatedAt)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to save recurring expense in Storage.SaveRecurringExpense() function | Error: %v", traceID, err)
		return internalError("Failed to save recurring expense, try again later.")
	}
	return nil
}

func (mySql *MySQLStorage) GetRecurringExpenses(ctx context.Context, userId string) ([]budget.RecurringExpense, error) {
	traceID := contextutil.TraceIDFromContext(ctx)

	query := "SELECT id, user_id, name, amount, frequency, category, start_date, end_date, created_at FROM recurring_expense WHERE user_id = ? ORDER BY created_at;"
	rows, err := mySql.db.QueryContext(ctx, query, userId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to get recurring expenses in Storage.GetRecurringExpenses() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get recurring expenses, try again later.")
	}
	defer rows.Close()

	var result []budget.RecurringExpense
	for rows.Next() {
		var dbR dbRecurringExpense
		if err := rows.Scan(&dbR.ID, &dbR.UserID, &dbR.Name, &dbR.Amount, &dbR.Frequency, &dbR.Category, &dbR.StartDate, &dbR.EndDate, &dbR.CreatedAt); err != nil {
			logging.Logger.Errorf("[TraceID=%s] | failed to scan row in Storage.GetRecurringExpenses() function | Error: %v", traceID, err)
			return nil, internalError("Failed to get recurring expenses, try again later.")
		}

		r := budget.RecurringExpense{
			ID:        dbR.ID,
			UserID:    dbR.UserID,
			Name:      dbR.Name,
			Amount:    dbR.Amount,
			Frequency: dbR.Frequency,
			Category:  dbR.Category,
			StartDate: dbR.StartDate,
			CreatedAt: dbR.CreatedAt,
		}
		if dbR.EndDate.Valid {
			endDate := dbR.EndDate.Time
			r.EndDate = &endDate
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to iterate rows in Storage.GetRecurringExpenses() function | Error: %v", traceID, err)
		return nil, internalError("Failed to get recurring expenses, try again later.")
	}
	return result, nil
}

func (mySql *MySQLStorage) DeleteRecurringExpense(ctx context.Context, userId string, recurringId string) error {
	traceID := contextutil.TraceIDFromContext(ctx)

	res, err := mySql.db.ExecContext(ctx, "DELETE FROM recurring_expense WHERE user_id = ? AND id = ?;", userId, recurringId)
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to delete recurring expense in Storage.DeleteRecurringExpense() function | Error: %v", traceID, err)
		return internalError("Failed to delete recurring expense, try again later.")
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		logging.Logger.Errorf("[TraceID=%s] | failed to check affected rows in Storage.DeleteRecurringExpense() function | Error: %v", traceID, err)
		return internalError("Failed to delete recurring expense, try again later.")
	}
	if rowsAffected == 0 {
		return appErrors.ErrorResponse{
			Code:    appErrors.ErrNotFound,
			Message: "Recurring expense not found.",
		}
	}
	return nil
}

func (mySql *MySQLStorage) GetStorageType() string {
	return "MySQL"
}
