package views

import (
	"rewind/internal/core"
)

// ProjectedMonth is one month of the forward projection.
type ProjectedMonth struct {
	Month             string  `json:"month"`
	ProjectedSavings  float64 `json:"projectedSavings"`
}

// FutureProjection extends the year's daily averages 12 months forward.
// MonthsUntilZero is nil when net daily savings is non-negative: the
// projection then grows monotonically and never crosses zero.
type FutureProjection struct {
	DailyIncome     float64          `json:"dailyIncome"`
	DailyExpenses   float64          `json:"dailyExpenses"`
	DailyNet        float64          `json:"dailyNet"`
	Months          []ProjectedMonth `json:"months"`
	MonthsUntilZero *int             `json:"monthsUntilZero,omitempty"`
}

// ProjectFuture seeds the projection from the final actual cumulative
// savings, not from zero, and walks the 12 calendar months following the
// target year using their real day counts.
func ProjectFuture(totals Totals, year int) FutureProjection {
	days := float64(core.DaysInYear(year))
	p := FutureProjection{
		DailyIncome:   totals.TotalIncome / days,
		DailyExpenses: totals.TotalExpenses / days,
	}
	p.DailyNet = p.DailyIncome - p.DailyExpenses

	cumulative := totals.NetSavings
	p.Months = make([]ProjectedMonth, 12)
	for i := 0; i < 12; i++ {
		nextYear, nextMonth := year+1, i+1
		cumulative += p.DailyNet * float64(core.DaysInMonth(nextYear, nextMonth))
		p.Months[i] = ProjectedMonth{
			Month:            core.MonthName(nextMonth),
			ProjectedSavings: cumulative,
		}
		if p.MonthsUntilZero == nil && p.DailyNet < 0 && cumulative <= 0 {
			until := i + 1
			p.MonthsUntilZero = &until
		}
	}
	return p
}
