package core

import (
	"strings"
	"time"
)

// DefaultCategory is assigned to transactions whose category is blank.
const DefaultCategory = "Other"

type (
	// Money is a signed amount in cents. Positive cents are spending,
	// negative cents are income (by magnitude).
	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry as returned by the tracker API.
	// Every field except ID may be missing or malformed upstream; consumers
	// must degrade to zero values rather than fail.
	Transaction struct {
		ID        string
		Amount    Money
		Date      time.Time
		CreatedAt time.Time
		Category  string
		Note      string
	}
)

// EffectiveDate returns the transaction date, falling back to the creation
// timestamp when no date was recorded.
func (t Transaction) EffectiveDate() time.Time {
	if t.Date.IsZero() {
		return t.CreatedAt
	}
	return t.Date
}

// CategoryLabel returns the category, defaulting blank labels to "Other".
func (t Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return DefaultCategory
	}
	return t.Category
}

// IsExpense reports whether the amount counts toward spending.
// Zero amounts count as spending so category totals stay partition-exact.
func (t Transaction) IsExpense() bool {
	return t.Amount.Cents >= 0
}

// TruncateToDay drops the time-of-day portion, keeping the location of ts.
func TruncateToDay(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

// SameCalendarDay reports calendar-day equality regardless of time of day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameCalendarMonth reports month and year equality.
func SameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
