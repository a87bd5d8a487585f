package export

import (
	"context"
	"testing"
	"time"

	"rewind/internal/views"
	"rewind/internal/wrapped"
)

func TestSummaryRows(t *testing.T) {
	data := &wrapped.WrappedData{
		Year:        "2023",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Totals: views.Totals{
			TotalIncome:   3000,
			TotalExpenses: 1200,
			NetSavings:    1800,
			SavingsRate:   60,
		},
		TopCategories: []views.RankedGroup{
			{Name: "Groceries", Amount: 800, Percentage: 66.67},
			{Name: "Transport", Amount: 400, Percentage: 33.33},
		},
		MonthlyData: []views.MonthData{
			{Month: "January", Income: 3000, Expenses: 1200},
		},
	}

	rows := summaryRows(data)

	// headline block + "Top Categories" marker + 2 categories + 1 month
	if len(rows) != 6+1+2+1 {
		t.Fatalf("rows = %d, want 10", len(rows))
	}
	if rows[0][0] != "Year in Review" || rows[0][1] != "2023" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][1] != 3000.0 || rows[2][1] != 1200.0 {
		t.Errorf("totals rows = %v, %v", rows[1], rows[2])
	}
	if rows[7][0] != "Groceries" || rows[7][1] != 800.0 {
		t.Errorf("category row = %v", rows[7])
	}
	if rows[9][0] != "January" || rows[9][2] != 1200.0 {
		t.Errorf("month row = %v", rows[9])
	}
}

func TestSummaryRows_NoCategories(t *testing.T) {
	rows := summaryRows(&wrapped.WrappedData{Year: "1999"})
	for _, row := range rows {
		if row[0] == "Top Categories" {
			t.Error("empty ranking should not emit a category block")
		}
	}
}

func TestNewFromEnv_MissingConfig(t *testing.T) {
	ctx := context.Background()

	if _, err := NewFromEnv(ctx, "", "Wrapped"); err == nil {
		t.Error("missing spreadsheet ID should fail")
	}
	if _, err := NewFromEnv(ctx, "sheet-id", ""); err == nil {
		t.Error("missing sheet name should fail")
	}
}
