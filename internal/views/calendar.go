package views

import (
	"time"

	"rewind/internal/core"
	"rewind/internal/resolve"
)

// CalendarDay is one calendar day of the year with its transaction count
// and expense sum. Days with no activity are present with zeros so a
// heatmap consumer never has to infer gaps.
type CalendarDay struct {
	Date   string  `json:"date"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// CalendarData produces one entry per calendar day of the target year.
func CalendarData(txs []resolve.Transaction, year int) []CalendarDay {
	days := core.DaysInYear(year)
	out := make([]CalendarDay, days)
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i].Date = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	for _, t := range txs {
		idx := t.Date.YearDay() - 1
		out[idx].Count++
		if t.IsExpense() {
			out[idx].Amount += float64(t.Amount.Abs()) / 100.0
		}
	}
	return out
}

// WeekdaySpending is the expense profile of one weekday.
type WeekdaySpending struct {
	Day     string  `json:"day"` // Sunday=0 .. Saturday=6, in order
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// DayOfWeekSpending totals expenses per weekday, Sunday first.
func DayOfWeekSpending(txs []resolve.Transaction) []WeekdaySpending {
	out := make([]WeekdaySpending, 7)
	for i := range out {
		out[i].Day = time.Weekday(i).String()
	}
	for _, t := range txs {
		if !t.IsExpense() {
			continue
		}
		d := &out[int(t.Date.Weekday())]
		d.Total += float64(t.Amount.Abs()) / 100.0
		d.Count++
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].Average = out[i].Total / float64(out[i].Count)
		}
	}
	return out
}

// Streak is a run of consecutive calendar days sharing a condition.
type Streak struct {
	Days      int    `json:"days"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// SpendingStreaks summarizes the longest runs of spending and no-spending
// days across the whole year.
type SpendingStreaks struct {
	LongestSpending    Streak `json:"longestSpending"`
	LongestNoSpending  Streak `json:"longestNoSpending"`
	DaysWithSpending   int    `json:"daysWithSpending"`
	DaysWithoutSpending int   `json:"daysWithoutSpending"`
}

// ComputeSpendingStreaks walks every day of the year once. A day belongs to
// exactly one class; a streak resets on the first day violating its
// condition.
func ComputeSpendingStreaks(txs []resolve.Transaction, year int) SpendingStreaks {
	days := core.DaysInYear(year)
	hasExpense := make([]bool, days)
	for _, t := range txs {
		if t.IsExpense() {
			hasExpense[t.Date.YearDay()-1] = true
		}
	}

	var out SpendingStreaks
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	dateOf := func(i int) string { return start.AddDate(0, 0, i).Format("2006-01-02") }

	var cur Streak
	curSpending := false
	flush := func() {
		if cur.Days == 0 {
			return
		}
		if curSpending {
			if cur.Days > out.LongestSpending.Days {
				out.LongestSpending = cur
			}
		} else if cur.Days > out.LongestNoSpending.Days {
			out.LongestNoSpending = cur
		}
	}
	for i := 0; i < days; i++ {
		if hasExpense[i] {
			out.DaysWithSpending++
		} else {
			out.DaysWithoutSpending++
		}
		if cur.Days > 0 && hasExpense[i] == curSpending {
			cur.Days++
			cur.EndDate = dateOf(i)
			continue
		}
		flush()
		curSpending = hasExpense[i]
		cur = Streak{Days: 1, StartDate: dateOf(i), EndDate: dateOf(i)}
	}
	flush()
	return out
}
