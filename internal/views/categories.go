package views

import (
	"sort"

	"rewind/internal/resolve"
)

// RankedGroup is one bucket of a category or payee ranking. Amount may be
// negative in net mode, meaning the bucket earned more than it spent.
type RankedGroup struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// groupTotals accumulates per-key totals, remembering first-seen order and
// display names so ties sort deterministically by input order.
type groupTotals struct {
	order  []string
	names  map[string]string
	totals map[string]float64
}

func newGroupTotals() *groupTotals {
	return &groupTotals{
		names:  make(map[string]string),
		totals: make(map[string]float64),
	}
}

func (g *groupTotals) add(key, name string, amount float64) {
	if _, seen := g.totals[key]; !seen {
		g.order = append(g.order, key)
		g.names[key] = name
	}
	g.totals[key] += amount
}

// ranked returns all groups sorted descending by amount, stable on
// first-seen order, with percentages over the grand total.
func (g *groupTotals) ranked() []RankedGroup {
	var grand float64
	for _, v := range g.totals {
		grand += v
	}
	out := make([]RankedGroup, 0, len(g.order))
	for _, key := range g.order {
		r := RankedGroup{Name: g.names[key], Amount: g.totals[key]}
		if grand != 0 {
			r.Percentage = r.Amount / grand * 100
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

func groupByCategory(txs []resolve.Transaction, netIncome bool) *groupTotals {
	g := newGroupTotals()
	for _, t := range txs {
		if amount, ok := contribution(t, netIncome); ok {
			g.add(t.CategoryKey, t.CategoryName, amount)
		}
	}
	return g
}

// TopCategories ranks spending by resolved category and keeps the top 10.
func TopCategories(txs []resolve.Transaction, netIncome bool) []RankedGroup {
	return topN(groupByCategory(txs, netIncome).ranked(), 10)
}

// CategoryTrend is a 12-element monthly amount series for one category.
type CategoryTrend struct {
	CategoryName   string     `json:"categoryName"`
	MonthlyAmounts [12]float64 `json:"monthlyAmounts"`
}

// CategoryTrends builds monthly series for the top-10 categories,
// zero-filled for months with no activity.
func CategoryTrends(txs []resolve.Transaction, netIncome bool) []CategoryTrend {
	top := TopCategories(txs, netIncome)
	byMonth := categoryMonthly(txs, netIncome)
	out := make([]CategoryTrend, 0, len(top))
	for _, c := range top {
		out = append(out, CategoryTrend{
			CategoryName:   c.Name,
			MonthlyAmounts: byMonth[c.Name],
		})
	}
	return out
}

func categoryMonthly(txs []resolve.Transaction, netIncome bool) map[string][12]float64 {
	byMonth := make(map[string][12]float64)
	for _, t := range txs {
		amount, ok := contribution(t, netIncome)
		if !ok {
			continue
		}
		series := byMonth[t.CategoryName]
		series[t.Date.Month()-1] += amount
		byMonth[t.CategoryName] = series
	}
	return byMonth
}

// CategoryGrowth compares January against December for one category and
// carries the full month-over-month change series.
type CategoryGrowth struct {
	CategoryName     string      `json:"categoryName"`
	JanuaryAmount    float64     `json:"januaryAmount"`
	DecemberAmount   float64     `json:"decemberAmount"`
	Change           float64     `json:"change"`
	PercentageChange float64     `json:"percentageChange"`
	MonthlyChanges   [12]float64 `json:"monthlyChanges"`
}

// CategoryGrowths derives growth figures for the top-10 categories. Each
// month's percentage change is relative to the previous month's amount and
// 0 when that previous amount is 0; January has no predecessor and is
// always 0.
func CategoryGrowths(txs []resolve.Transaction, netIncome bool) []CategoryGrowth {
	top := TopCategories(txs, netIncome)
	byMonth := categoryMonthly(txs, netIncome)
	out := make([]CategoryGrowth, 0, len(top))
	for _, c := range top {
		series := byMonth[c.Name]
		g := CategoryGrowth{
			CategoryName:   c.Name,
			JanuaryAmount:  series[0],
			DecemberAmount: series[11],
		}
		g.Change = g.DecemberAmount - g.JanuaryAmount
		if g.JanuaryAmount != 0 {
			g.PercentageChange = g.Change / g.JanuaryAmount * 100
		}
		for m := 1; m < 12; m++ {
			if prev := series[m-1]; prev != 0 {
				g.MonthlyChanges[m] = (series[m] - prev) / prev * 100
			}
		}
		out = append(out, g)
	}
	return out
}

func topN(groups []RankedGroup, n int) []RankedGroup {
	if len(groups) > n {
		return groups[:n]
	}
	return groups
}
