// Package budget implements the budget-vs-actual comparison: a per-category
// walk over the twelve months of the year carrying unspent budget forward.
package budget

import (
	"sort"

	"rewind/internal/core"
	"rewind/internal/resolve"
)

// deletedPrefix is capitalized here, unlike the lowercase marker the
// ranking views use. The discrepancy is inherited from the source behavior
// and kept for output compatibility; see DESIGN.md.
const deletedPrefix = "Deleted: "

// MonthComparison is one month of one category's walk. EffectiveBudget is
// the budgeted amount plus whatever the previous month carried forward.
type MonthComparison struct {
	Month              string  `json:"month"`
	Budgeted           float64 `json:"budgeted"`
	CarryForward       float64 `json:"carryForward"`
	EffectiveBudget    float64 `json:"effectiveBudget"`
	Actual             float64 `json:"actual"`
	Remaining          float64 `json:"remaining"`
	Variance           float64 `json:"variance"`
	VariancePercentage float64 `json:"variancePercentage"`
}

// CategoryComparison is a full year for one category. Total variance is
// computed against the sum of effective budgets, carry-forward included,
// which is not the same base as TotalBudgeted.
type CategoryComparison struct {
	CategoryName            string            `json:"categoryName"`
	Months                  []MonthComparison `json:"months"`
	TotalBudgeted           float64           `json:"totalBudgeted"`
	TotalActual             float64           `json:"totalActual"`
	TotalEffectiveBudget    float64           `json:"totalEffectiveBudget"`
	TotalVariance           float64           `json:"totalVariance"`
	TotalVariancePercentage float64           `json:"totalVariancePercentage"`
}

// Comparison is the whole view: every category plus grand totals on the
// same effective-budget basis.
type Comparison struct {
	Categories              []CategoryComparison `json:"categories"`
	TotalBudgeted           float64              `json:"totalBudgeted"`
	TotalActual             float64              `json:"totalActual"`
	TotalEffectiveBudget    float64              `json:"totalEffectiveBudget"`
	TotalVariance           float64              `json:"totalVariance"`
	TotalVariancePercentage float64              `json:"totalVariancePercentage"`
}

// Compare builds the budget comparison from budget entries and the filtered
// transaction set. It returns nil when there are no budget entries at all:
// "no budget data" is a different answer than "zero budgeted" and consumers
// must be able to tell them apart.
func Compare(entries []core.BudgetEntry, txs []resolve.Transaction, maps resolve.Maps) *Comparison {
	if len(entries) == 0 {
		return nil
	}

	budgeted := budgetedByCategory(entries)
	actual := actualByCategory(txs)

	// The category set is the explicit union of both sources: a category
	// that was budgeted but never spent still appears, and so does one that
	// was spent against with no budget.
	ids := make([]string, 0, len(budgeted)+len(actual))
	seen := make(map[string]bool)
	for id := range budgeted {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for id := range actual {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	result := &Comparison{Categories: make([]CategoryComparison, 0, len(ids))}
	for _, id := range ids {
		cc := compareCategory(categoryLabel(id, maps), budgeted[id], actual[id])
		result.Categories = append(result.Categories, cc)
		result.TotalBudgeted += cc.TotalBudgeted
		result.TotalActual += cc.TotalActual
		result.TotalEffectiveBudget += cc.TotalEffectiveBudget
	}
	sort.Slice(result.Categories, func(i, j int) bool {
		return result.Categories[i].CategoryName < result.Categories[j].CategoryName
	})

	result.TotalVariance = result.TotalActual - result.TotalEffectiveBudget
	if result.TotalEffectiveBudget != 0 {
		result.TotalVariancePercentage = result.TotalVariance / result.TotalEffectiveBudget * 100
	}
	return result
}

// compareCategory walks January through December carrying one piece of
// state. Overspending clamps at zero: it never produces a negative
// allowance for the following month.
func compareCategory(name string, budgetedMonths, actualMonths [12]float64) CategoryComparison {
	cc := CategoryComparison{
		CategoryName: name,
		Months:       make([]MonthComparison, 12),
	}
	carry := 0.0
	for m := 0; m < 12; m++ {
		mc := MonthComparison{
			Month:        core.MonthName(m + 1),
			Budgeted:     budgetedMonths[m],
			CarryForward: carry,
			Actual:       actualMonths[m],
		}
		mc.EffectiveBudget = mc.Budgeted + mc.CarryForward
		mc.Remaining = mc.EffectiveBudget - mc.Actual
		mc.Variance = mc.Actual - mc.EffectiveBudget
		if mc.EffectiveBudget != 0 {
			mc.VariancePercentage = mc.Variance / mc.EffectiveBudget * 100
		}
		cc.Months[m] = mc

		cc.TotalBudgeted += mc.Budgeted
		cc.TotalActual += mc.Actual
		cc.TotalEffectiveBudget += mc.EffectiveBudget

		carry = mc.Remaining
		if carry < 0 {
			carry = 0
		}
	}
	cc.TotalVariance = cc.TotalActual - cc.TotalEffectiveBudget
	if cc.TotalEffectiveBudget != 0 {
		cc.TotalVariancePercentage = cc.TotalVariance / cc.TotalEffectiveBudget * 100
	}
	return cc
}

func budgetedByCategory(entries []core.BudgetEntry) map[string][12]float64 {
	out := make(map[string][12]float64)
	for _, e := range entries {
		idx := core.MonthIndex(e.Month)
		if idx == 0 {
			continue
		}
		months := out[e.CategoryID]
		months[idx-1] += e.Budgeted.Major()
		out[e.CategoryID] = months
	}
	return out
}

// actualByCategory sums expense magnitudes per category and month. Only
// rows with a real category id participate; transfers, uncategorized and
// off-budget spending have no budget line to compare against.
func actualByCategory(txs []resolve.Transaction) map[string][12]float64 {
	out := make(map[string][12]float64)
	for _, t := range txs {
		if !t.IsExpense() || t.CategoryID == "" || t.Transfer != resolve.TransferNone {
			continue
		}
		months := out[t.CategoryID]
		months[t.Date.Month()-1] += float64(t.Amount.Abs()) / 100.0
		out[t.CategoryID] = months
	}
	return out
}

func categoryLabel(id string, maps resolve.Maps) string {
	cat, ok := maps.Categories[id]
	if !ok {
		return id
	}
	if cat.Tombstone {
		return deletedPrefix + cat.Name
	}
	return cat.Name
}
