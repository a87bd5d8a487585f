// Package views holds the independent reducers of the aggregation engine.
// Every reducer is a pure function of the same filtered transaction slice:
// it never mutates its input, shares no state with any other reducer, and
// may therefore run concurrently with the rest.
//
// Raw amounts are signed cents; every value a reducer emits is in major
// currency units (cents / 100). Percentages are plain floats; rounding is
// the presentation layer's problem.
package views

import (
	"rewind/internal/core"
	"rewind/internal/resolve"
)

// MonthData is one calendar month of the monthly breakdown.
type MonthData struct {
	Month      string  `json:"month"`
	Income     float64 `json:"income"`
	Expenses   float64 `json:"expenses"`
	NetSavings float64 `json:"netSavings"`
}

// MonthlyBreakdown sums income and expenses per calendar month. The result
// always has 12 entries, zero-filled for quiet months; every included
// transaction lands in exactly one of them.
func MonthlyBreakdown(txs []resolve.Transaction) []MonthData {
	out := make([]MonthData, 12)
	for i := range out {
		out[i].Month = core.MonthName(i + 1)
	}
	for _, t := range txs {
		m := &out[t.Date.Month()-1]
		if t.IsIncome() {
			m.Income += t.Amount.Major()
		} else {
			m.Expenses += -t.Amount.Major()
		}
	}
	for i := range out {
		out[i].NetSavings = out[i].Income - out[i].Expenses
	}
	return out
}

// Totals are the year-level identities every other view must agree with.
type Totals struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetSavings    float64 `json:"netSavings"`
	SavingsRate   float64 `json:"savingsRate"`
}

// ComputeTotals folds the monthly breakdown; it is never recomputed from
// raw transactions so the partition property holds by construction.
func ComputeTotals(monthly []MonthData) Totals {
	var t Totals
	for _, m := range monthly {
		t.TotalIncome += m.Income
		t.TotalExpenses += m.Expenses
	}
	t.NetSavings = t.TotalIncome - t.TotalExpenses
	if t.TotalIncome != 0 {
		t.SavingsRate = t.NetSavings / t.TotalIncome * 100
	}
	return t
}

// contribution returns a transaction's amount for the grouped views.
// In net mode every transaction contributes signed spending (expenses
// positive, income negative); in absolute mode only expenses contribute
// and income is ignored entirely.
func contribution(t resolve.Transaction, netIncome bool) (amount float64, counted bool) {
	if netIncome {
		return -t.Amount.Major(), true
	}
	if t.IsExpense() {
		return float64(t.Amount.Abs()) / 100.0, true
	}
	return 0, false
}
