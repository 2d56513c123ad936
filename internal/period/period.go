// Package period holds the calendar helpers shared by the ledger and the
// insight rules. Nothing here reads the wall clock; callers pass "now".
package period

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

const (
	Weekly  = "weekly"
	Monthly = "monthly"
	Yearly  = "yearly"
)

var (
	weeksPerMonth = decimal.RequireFromString("4.33")
	monthsPerYear = decimal.NewFromInt(12)
)

// MonthKey formats t as YYYY-MM in t's own location.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthlyEquivalent normalizes a recurring amount to its average monthly cost.
// Unknown frequencies are returned unchanged.
func MonthlyEquivalent(amount decimal.Decimal, frequency string) decimal.Decimal {
	switch frequency {
	case Weekly:
		return amount.Mul(weeksPerMonth)
	case Monthly:
		return amount
	case Yearly:
		return amount.Div(monthsPerYear)
	default:
		return amount
	}
}

func IsFrequency(frequency string) bool {
	return frequency == Weekly || frequency == Monthly || frequency == Yearly
}

// Today truncates now to its UTC calendar date.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func SameDay(a, b time.Time) bool {
	return FormatDate(a) == FormatDate(b)
}
