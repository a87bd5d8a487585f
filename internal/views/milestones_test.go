package views

import (
	"testing"

	"rewind/internal/resolve"
)

func monthlyFromNet(net [12]float64) []MonthData {
	var txs []resolve.Transaction
	for m, v := range net {
		if v != 0 {
			txs = append(txs, vtx(m+1, 1, int64(v*100), "Salary", "p"))
		}
	}
	return MonthlyBreakdown(txs)
}

func TestSavingsMilestones(t *testing.T) {
	// Cumulative: 8k, 16k, 12k, 30k, 30k. Crosses 10k in Feb, dips,
	// then crosses 25k in Apr. 10k is never re-recorded.
	net := [12]float64{8000, 8000, -4000, 18000}
	progress := SavingsMilestones(monthlyFromNet(net), 2023)

	if len(progress.Milestones) != 2 {
		t.Fatalf("milestones = %+v", progress.Milestones)
	}
	first, second := progress.Milestones[0], progress.Milestones[1]
	if first.Amount != 10000 || first.Month != "February" || first.Date != "2023-02-28" {
		t.Errorf("first milestone = %+v", first)
	}
	if second.Amount != 25000 || second.Month != "April" || second.Date != "2023-04-30" {
		t.Errorf("second milestone = %+v", second)
	}
	// Ascending by amount, each threshold at most once.
	if !(first.Amount < second.Amount) {
		t.Error("milestones not ascending")
	}
	if !approx(progress.Cumulative[1], 16000) || !approx(progress.Cumulative[2], 12000) {
		t.Errorf("cumulative series = %v", progress.Cumulative)
	}
}

func TestSavingsMilestonesMultipleInOneMonth(t *testing.T) {
	net := [12]float64{60000} // crosses 10k, 25k and 50k at once
	progress := SavingsMilestones(monthlyFromNet(net), 2023)
	if len(progress.Milestones) != 3 {
		t.Fatalf("milestones = %+v", progress.Milestones)
	}
	for i, want := range []float64{10000, 25000, 50000} {
		if progress.Milestones[i].Amount != want || progress.Milestones[i].Month != "January" {
			t.Errorf("milestone %d = %+v", i, progress.Milestones[i])
		}
	}
}

func TestSavingsMilestonesNoneWhenBelowEveryThreshold(t *testing.T) {
	net := [12]float64{100, 100, 100}
	if progress := SavingsMilestones(monthlyFromNet(net), 2023); len(progress.Milestones) != 0 {
		t.Errorf("unexpected milestones: %+v", progress.Milestones)
	}
}
