package resolve

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is the inclusion policy plus the target year. The zero value is
// not useful; start from DefaultOptions.
type Options struct {
	Year int

	// IncludeOffBudget includes transactions held in off-budget accounts.
	IncludeOffBudget bool
	// IncludeOnBudgetTransfers includes on<->off transfer legs.
	IncludeOnBudgetTransfers bool
	// IncludeAllTransfers additionally includes on<->on and off<->off legs
	// and forcibly implies IncludeOnBudgetTransfers.
	IncludeAllTransfers bool
	// IncludeIncomeInCategoryTotals makes category/payee/account aggregates
	// net income against expenses in the same bucket; when false those views
	// use absolute expense magnitude only.
	IncludeIncomeInCategoryTotals bool

	// CurrencySymbol only affects display formatting, never computation.
	CurrencySymbol string
}

// DefaultOptions returns the documented defaults for a target year.
func DefaultOptions(year int) Options {
	return Options{
		Year:                          year,
		IncludeOffBudget:              false,
		IncludeOnBudgetTransfers:      true,
		IncludeAllTransfers:           false,
		IncludeIncomeInCategoryTotals: true,
		CurrencySymbol:                "$",
	}
}

// OnBudgetTransfersIncluded resolves the implication between the two
// transfer toggles.
func (o Options) OnBudgetTransfersIncluded() bool {
	return o.IncludeOnBudgetTransfers || o.IncludeAllTransfers
}

// Fingerprint is a stable cache key covering every option that affects
// numeric output. The currency symbol is display-only and excluded.
func (o Options) Fingerprint() string {
	return strings.Join([]string{
		strconv.Itoa(o.Year),
		fmt.Sprintf("off=%t", o.IncludeOffBudget),
		fmt.Sprintf("onxfer=%t", o.OnBudgetTransfersIncluded()),
		fmt.Sprintf("allxfer=%t", o.IncludeAllTransfers),
		fmt.Sprintf("netinc=%t", o.IncludeIncomeInCategoryTotals),
	}, "|")
}

// Filter produces the working transaction set every view reads. No view
// applies further filtering of its own.
func Filter(txs []Transaction, opts Options) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if included(t, opts) {
			out = append(out, t)
		}
	}
	return out
}

func included(t Transaction, opts Options) bool {
	if t.Date.Year() != opts.Year {
		return false
	}
	// Starting balances and split parents never survive, regardless of any
	// toggle.
	if t.Exclude != ExcludeNone {
		return false
	}
	if t.Transfer != TransferNone {
		switch t.Transfer {
		case TransferOnToOff, TransferOffToOn:
			return opts.OnBudgetTransfersIncluded()
		default:
			return opts.IncludeAllTransfers
		}
	}
	if t.OffBudget && !opts.IncludeOffBudget {
		return false
	}
	return true
}
