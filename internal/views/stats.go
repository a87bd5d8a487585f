package views

import (
	"sort"

	"rewind/internal/resolve"
)

// LargestTransaction is the single biggest-magnitude row; ties go to the
// first occurrence in input order.
type LargestTransaction struct {
	Date         string  `json:"date"`
	PayeeName    string  `json:"payeeName"`
	CategoryName string  `json:"categoryName"`
	Amount       float64 `json:"amount"`
}

// TransactionStats are simple whole-set statistics over the filtered list.
type TransactionStats struct {
	TotalCount    int                 `json:"totalCount"`
	AverageAmount float64             `json:"averageAmount"`
	Largest       *LargestTransaction `json:"largest,omitempty"`
}

// ComputeTransactionStats counts transactions, averages their magnitudes
// and finds the largest one.
func ComputeTransactionStats(txs []resolve.Transaction) TransactionStats {
	stats := TransactionStats{TotalCount: len(txs)}
	if len(txs) == 0 {
		return stats
	}
	var sumAbs int64
	largestIdx := 0
	for i, t := range txs {
		sumAbs += t.Amount.Abs()
		if t.Amount.Abs() > txs[largestIdx].Amount.Abs() {
			largestIdx = i
		}
	}
	stats.AverageAmount = float64(sumAbs) / float64(len(txs)) / 100.0
	l := txs[largestIdx]
	stats.Largest = &LargestTransaction{
		Date:         l.Date.ISO(),
		PayeeName:    l.PayeeName,
		CategoryName: l.CategoryName,
		Amount:       l.Amount.Major(),
	}
	return stats
}

// TopMonth is one of the three heaviest spending months.
type TopMonth struct {
	Month    string  `json:"month"`
	Expenses float64 `json:"expenses"`
}

// TopMonths picks the 3 months with the highest expense totals from the
// monthly breakdown, descending; ties keep calendar order.
func TopMonths(monthly []MonthData) []TopMonth {
	ranked := make([]TopMonth, 0, len(monthly))
	for _, m := range monthly {
		ranked = append(ranked, TopMonth{Month: m.Month, Expenses: m.Expenses})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Expenses > ranked[j].Expenses })
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// SizeBucket is one fixed band of the expense size distribution.
type SizeBucket struct {
	Label      string  `json:"label"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"` // 0 for the open-ended top bucket
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SizeDistribution buckets expense magnitudes into fixed bands and carries
// the usual central measures.
type SizeDistribution struct {
	Buckets []SizeBucket `json:"buckets"`
	Median  float64      `json:"median"`
	Mode    float64      `json:"mode"` // midpoint of the fullest bucket
}

// sizeBands are major-unit magnitude bands; max 0 means open-ended.
var sizeBands = []struct {
	label    string
	min, max float64
}{
	{"$0-$10", 0, 10},
	{"$10-$50", 10, 50},
	{"$50-$100", 50, 100},
	{"$100-$500", 100, 500},
	{"$500+", 500, 0},
}

// openBucketSpan stands in for the missing upper bound when computing the
// top bucket's midpoint.
const openBucketSpan = 500.0

// ComputeSizeDistribution histograms expense magnitudes. Income is never
// part of the distribution.
func ComputeSizeDistribution(txs []resolve.Transaction) SizeDistribution {
	var magnitudes []float64
	for _, t := range txs {
		if t.IsExpense() {
			magnitudes = append(magnitudes, float64(t.Amount.Abs())/100.0)
		}
	}

	dist := SizeDistribution{Buckets: make([]SizeBucket, len(sizeBands))}
	for i, b := range sizeBands {
		dist.Buckets[i] = SizeBucket{Label: b.label, Min: b.min, Max: b.max}
	}
	for _, m := range magnitudes {
		dist.Buckets[bucketIndex(m)].Count++
	}
	if len(magnitudes) == 0 {
		return dist
	}
	for i := range dist.Buckets {
		dist.Buckets[i].Percentage = float64(dist.Buckets[i].Count) / float64(len(magnitudes)) * 100
	}

	sort.Float64s(magnitudes)
	n := len(magnitudes)
	if n%2 == 1 {
		dist.Median = magnitudes[n/2]
	} else {
		dist.Median = (magnitudes[n/2-1] + magnitudes[n/2]) / 2
	}

	fullest := 0
	for i, b := range dist.Buckets {
		if b.Count > dist.Buckets[fullest].Count {
			fullest = i
		}
	}
	top := dist.Buckets[fullest]
	if top.Max == 0 {
		dist.Mode = top.Min + openBucketSpan
	} else {
		dist.Mode = (top.Min + top.Max) / 2
	}
	return dist
}

func bucketIndex(magnitude float64) int {
	for i, b := range sizeBands {
		if b.max == 0 || magnitude < b.max {
			return i
		}
	}
	return len(sizeBands) - 1
}
