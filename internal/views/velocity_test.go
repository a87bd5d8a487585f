package views

import (
	"testing"

	"rewind/internal/resolve"
)

func TestComputeSpendingVelocity(t *testing.T) {
	// 2023-01-01 is a Sunday, so the first bucket is a full week and the
	// year splits into 53 buckets with a 1-day tail on Dec 31 (Sunday).
	txs := []resolve.Transaction{
		vtx(1, 2, -70000, "A", "p"),   // week 0: $700 over 7 days
		vtx(1, 9, -7000, "A", "p"),    // week 1: $70
		vtx(12, 31, -100000, "A", "p"), // week 52: $1000 over 1 day
	}
	v := ComputeSpendingVelocity(txs, 2023)
	if len(v.Weeks) != 53 {
		t.Fatalf("expected 53 weeks, got %d", len(v.Weeks))
	}
	if v.Weeks[0].StartDate != "2023-01-01" || v.Weeks[0].EndDate != "2023-01-07" || v.Weeks[0].Days != 7 {
		t.Errorf("week 0 = %+v", v.Weeks[0])
	}
	last := v.Weeks[52]
	if last.StartDate != "2023-12-31" || last.Days != 1 {
		t.Errorf("last week = %+v", last)
	}
	if !approx(v.Weeks[0].DailyAverage, 100) {
		t.Errorf("week 0 daily average = %v", v.Weeks[0].DailyAverage)
	}
	// The partial last week has the highest per-day average.
	if v.Fastest == nil || v.Fastest.StartDate != "2023-12-31" || !approx(v.Fastest.DailyAverage, 1000) {
		t.Errorf("fastest = %+v", v.Fastest)
	}
	// Slowest ties resolve to the earliest week; week 2 is the first empty one.
	if v.Slowest == nil || v.Slowest.StartDate != "2023-01-15" || v.Slowest.Total != 0 {
		t.Errorf("slowest = %+v", v.Slowest)
	}
	if !approx(v.DailyAverage, 1770.0/365) {
		t.Errorf("daily average = %v", v.DailyAverage)
	}
}

func TestVelocityPartialFirstWeek(t *testing.T) {
	// 2025-01-01 is a Wednesday: the first bucket spans Wed-Sat, 4 days.
	v := ComputeSpendingVelocity(nil, 2025)
	if v.Weeks[0].StartDate != "2025-01-01" || v.Weeks[0].EndDate != "2025-01-04" || v.Weeks[0].Days != 4 {
		t.Errorf("week 0 = %+v", v.Weeks[0])
	}
	if v.Weeks[1].StartDate != "2025-01-05" || v.Weeks[1].Days != 7 {
		t.Errorf("week 1 = %+v", v.Weeks[1])
	}
}
