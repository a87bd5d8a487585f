package views

import (
	"rewind/internal/core"
)

// milestoneThresholds are cumulative-savings levels in major units.
var milestoneThresholds = []float64{10000, 25000, 50000, 100000, 250000, 500000}

// Milestone records the first time cumulative savings reached a threshold.
type Milestone struct {
	Amount float64 `json:"amount"`
	Month  string  `json:"month"`
	Date   string  `json:"date"` // last day of the crossing month
}

// SavingsProgress is the milestone walk expressed as a fold: the per-month
// cumulative series alongside the milestones it produced.
type SavingsProgress struct {
	Cumulative [12]float64 `json:"cumulative"`
	Milestones []Milestone `json:"milestones"`
}

// SavingsMilestones folds the 12 monthly net-savings values into a running
// total and records each threshold the first time the total reaches it.
// Later regressions below a threshold never re-record it, so the result is
// ascending by amount and each threshold appears at most once.
func SavingsMilestones(monthly []MonthData, year int) SavingsProgress {
	var progress SavingsProgress
	recorded := make(map[float64]bool, len(milestoneThresholds))
	running := 0.0
	for m := 0; m < 12; m++ {
		running += monthly[m].NetSavings
		progress.Cumulative[m] = running
		for _, threshold := range milestoneThresholds {
			if recorded[threshold] || running < threshold {
				continue
			}
			recorded[threshold] = true
			progress.Milestones = append(progress.Milestones, Milestone{
				Amount: threshold,
				Month:  monthly[m].Month,
				Date:   core.LastDayOfMonth(year, m+1).ISO(),
			})
		}
	}
	return progress
}
