package storage

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type dbSession struct {
	ID        string
	Token     string
	CreatedAt time.Time
	ExpireAt  time.Time
	UserID    string
}

type dbTransaction struct {
	ID        string
	UserID    string
	Merchant  string
	Amount    decimal.Decimal
	Category  sql.NullString
	Date      time.Time
	Type      string
	CreatedAt time.Time
}

type dbRecurringExpense struct {
	ID        string
	UserID    string
	Name      string
	Amount    decimal.Decimal
	Frequency string
	Category  string
	StartDate time.Time
	EndDate   sql.NullTime
	CreatedAt time.Time
}

func NilToNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{Valid: true, String: v}
}

func NilToNullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Valid: true, Time: *v}
}
