package views

import (
	"time"

	"rewind/internal/core"
	"rewind/internal/resolve"
)

// WeekBucket is one Sunday-to-Saturday slice of the year. The first and
// last buckets may span fewer than 7 days; DailyAverage always divides by
// the actual day span.
type WeekBucket struct {
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
	Days         int     `json:"days"`
	Total        float64 `json:"total"`
	DailyAverage float64 `json:"dailyAverage"`
}

// SpendingVelocity is the pace view: an overall daily average plus weekly
// buckets and the fastest/slowest week by per-day average.
type SpendingVelocity struct {
	DailyAverage float64      `json:"dailyAverage"`
	Weeks        []WeekBucket `json:"weeks"`
	Fastest      *WeekBucket  `json:"fastest,omitempty"`
	Slowest      *WeekBucket  `json:"slowest,omitempty"`
}

// ComputeSpendingVelocity derives spending pace over the whole year.
// Ties for fastest/slowest resolve to the earliest week.
func ComputeSpendingVelocity(txs []resolve.Transaction, year int) SpendingVelocity {
	daysInYear := core.DaysInYear(year)
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)

	// Weeks start Sunday. Day i of the year falls in bucket
	// (i + startOffset) / 7 where startOffset is Jan 1's weekday.
	startOffset := int(start.Weekday())
	numWeeks := (daysInYear + startOffset + 6) / 7

	weeks := make([]WeekBucket, numWeeks)
	for i := range weeks {
		firstDay := i*7 - startOffset
		lastDay := firstDay + 6
		if firstDay < 0 {
			firstDay = 0
		}
		if lastDay > daysInYear-1 {
			lastDay = daysInYear - 1
		}
		weeks[i] = WeekBucket{
			StartDate: start.AddDate(0, 0, firstDay).Format("2006-01-02"),
			EndDate:   start.AddDate(0, 0, lastDay).Format("2006-01-02"),
			Days:      lastDay - firstDay + 1,
		}
	}

	var totalExpenses float64
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		amount := float64(t.Amount.Abs()) / 100.0
		totalExpenses += amount
		weeks[(t.Date.YearDay()-1+startOffset)/7].Total += amount
	}
	for i := range weeks {
		weeks[i].DailyAverage = weeks[i].Total / float64(weeks[i].Days)
	}

	v := SpendingVelocity{
		DailyAverage: totalExpenses / float64(daysInYear),
		Weeks:        weeks,
	}
	fastest, slowest := 0, 0
	for i, w := range weeks {
		if w.DailyAverage > weeks[fastest].DailyAverage {
			fastest = i
		}
		if w.DailyAverage < weeks[slowest].DailyAverage {
			slowest = i
		}
	}
	if len(weeks) > 0 {
		f, s := weeks[fastest], weeks[slowest]
		v.Fastest, v.Slowest = &f, &s
	}
	return v
}
