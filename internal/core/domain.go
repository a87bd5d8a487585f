package core

import (
	"errors"
	"strconv"
	"time"
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is one raw ledger row. Amounts are signed minor units:
	// non-negative is income, negative is an expense.
	Transaction struct {
		ID           string
		AccountID    string
		Date         Date
		Amount       Money
		CategoryID   string
		CategoryName string // embedded name from the raw row, fallback only
		PayeeID      string
		ParentID     string // set iff this row belongs to a split
		Cleared      bool
		Reconciled   bool
	}

	Category struct {
		ID        string
		Name      string
		GroupName string
		IsIncome  bool
		Tombstone bool
	}

	// Payee with a non-empty TransferAccountID marks every transaction
	// referencing it as an inter-account transfer into that account.
	Payee struct {
		ID                string
		Name              string
		Tombstone         bool
		TransferAccountID string
	}

	Account struct {
		ID        string
		Name      string
		Type      string
		OffBudget bool
		Tombstone bool
	}

	// BudgetEntry is one budgeted amount for a category in a month.
	// Month is a full English month name ("January" .. "December").
	BudgetEntry struct {
		CategoryID string
		Month      string
		Budgeted   Money
	}

	// Records is the full input snapshot handed to the transform.
	Records struct {
		Transactions []Transaction
		Categories   []Category
		Payees       []Payee
		Accounts     []Account
		Budgets      []BudgetEntry
	}
)

var (
	ErrMissingID      = errors.New("missing id")
	ErrMissingAccount = errors.New("missing account id")
	ErrMissingDate    = errors.New("missing date")
)

// IsIncome reports whether the transaction counts as income.
// The sign of the amount is the sole classifier.
func (t Transaction) IsIncome() bool {
	return t.Amount.Cents >= 0
}

// IsExpense reports whether the transaction counts as an expense.
func (t Transaction) IsExpense() bool {
	return t.Amount.Cents < 0
}

func (t Transaction) Validate() error {
	if t.ID == "" {
		return ErrMissingID
	}
	if t.AccountID == "" {
		return ErrMissingAccount
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	return nil
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// ISO formats the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return d.Time.Format("2006-01-02")
}

// ParseDate accepts either YYYY-MM-DD or the compact YYYYMMDD form that
// some ledger exports use. An empty or unparseable value yields a zero
// Date and an error; callers drop such records rather than aborting.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, ErrMissingDate
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	if len(s) == 8 {
		if _, err := strconv.Atoi(s); err == nil {
			if t, err := time.Parse("20060102", s); err == nil {
				return Date{Time: t}, nil
			}
		}
	}
	return Date{}, errors.New("unparseable date: " + s)
}

// MonthName returns the full English name for a 1-based month index.
func MonthName(month int) string {
	return time.Month(month).String()
}

// MonthIndex returns the 1-based index for a full English month name,
// or 0 when the name is not a month.
func MonthIndex(name string) int {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return int(m)
		}
	}
	return 0
}

// DaysInYear returns 365 or 366.
func DaysInYear(year int) int {
	if time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}

// DaysInMonth returns the number of calendar days in year/month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LastDayOfMonth returns the date of the final day in year/month.
func LastDayOfMonth(year, month int) Date {
	return NewDate(year, month, DaysInMonth(year, month))
}
