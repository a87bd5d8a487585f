package views

import (
	"rewind/internal/resolve"
)

// AccountBreakdownEntry is one account's share of the year's spending.
type AccountBreakdownEntry struct {
	AccountName string  `json:"accountName"`
	Amount      float64 `json:"amount"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// AccountBreakdown groups spending by owning account, sorted descending.
// The net/absolute toggle applies here exactly as in the category and
// payee rankings.
func AccountBreakdown(txs []resolve.Transaction, netIncome bool) []AccountBreakdownEntry {
	g := newGroupTotals()
	counts := make(map[string]int)
	for _, t := range txs {
		if amount, ok := contribution(t, netIncome); ok {
			g.add(t.AccountID, t.AccountName, amount)
			counts[t.AccountID]++
		}
	}
	ranked := g.ranked()
	countByName := make(map[string]int, len(g.order))
	for _, key := range g.order {
		countByName[g.names[key]] += counts[key]
	}
	out := make([]AccountBreakdownEntry, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, AccountBreakdownEntry{
			AccountName: r.Name,
			Amount:      r.Amount,
			Count:       countByName[r.Name],
			Percentage:  r.Percentage,
		})
	}
	return out
}
