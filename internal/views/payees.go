package views

import (
	"rewind/internal/resolve"
)

// PayeeRanking holds both the top-10 slice and the unbounded, fully sorted
// list; consumers that need "everything" must not re-derive it from the
// truncated view.
type PayeeRanking struct {
	Top []RankedGroup `json:"top"`
	All []RankedGroup `json:"all"`
}

// RankPayees groups spending by resolved payee with the same net/absolute
// semantics as the category ranking.
func RankPayees(txs []resolve.Transaction, netIncome bool) PayeeRanking {
	g := newGroupTotals()
	for _, t := range txs {
		if amount, ok := contribution(t, netIncome); ok {
			g.add(t.PayeeKey, t.PayeeName, amount)
		}
	}
	all := g.ranked()
	return PayeeRanking{Top: topN(all, 10), All: all}
}
