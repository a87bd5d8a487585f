// Package core holds the ledger domain types shared by every stage of the
// transform: transactions, categories, payees, accounts and budget entries,
// plus money and calendar-day helpers.
//
// Money is always carried as signed int64 minor units (cents). Derived views
// convert to major units only at their output boundary.
package core

import (
	"fmt"
	"strings"
)

// Major returns the amount in major currency units as a float64.
// Use cents for every computation; Major is for view output and display.
func (m Money) Major() float64 {
	return float64(m.Cents) / 100.0
}

// Abs returns the magnitude of the amount in cents.
func (m Money) Abs() int64 {
	if m.Cents < 0 {
		return -m.Cents
	}
	return m.Cents
}

// FormatAmount renders a major-unit value with a currency symbol and two
// decimals, e.g. FormatAmount(1234.5, "$") -> "$1234.50". Negative values
// keep the sign ahead of the symbol.
func FormatAmount(major float64, symbol string) string {
	if symbol == "" {
		symbol = "$"
	}
	if major < 0 {
		return "-" + symbol + fmt.Sprintf("%.2f", -major)
	}
	return symbol + fmt.Sprintf("%.2f", major)
}

// EqualFold reports whether two names match ignoring case and surrounding
// whitespace. Used for payee-name checks like the starting-balance marker.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
