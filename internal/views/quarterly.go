package views

// QuarterData is one quarter summed from its three constituent months.
type QuarterData struct {
	Quarter    string  `json:"quarter"`
	Income     float64 `json:"income"`
	Expenses   float64 `json:"expenses"`
	NetSavings float64 `json:"netSavings"`
}

// QuarterlyComparison rolls the monthly breakdown up into Q1-Q4. It is
// derived from the monthly view, never recomputed from raw transactions,
// so the two can never disagree.
func QuarterlyComparison(monthly []MonthData) []QuarterData {
	labels := [...]string{"Q1", "Q2", "Q3", "Q4"}
	out := make([]QuarterData, 4)
	for q := range out {
		out[q].Quarter = labels[q]
		for m := q * 3; m < q*3+3; m++ {
			out[q].Income += monthly[m].Income
			out[q].Expenses += monthly[m].Expenses
			out[q].NetSavings += monthly[m].NetSavings
		}
	}
	return out
}
