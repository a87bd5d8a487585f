package views

import (
	"testing"

	"rewind/internal/resolve"
)

func TestTopCategoriesGroceriesScenario(t *testing.T) {
	// Two grocery expenses, 100 and 200 major units, nothing else.
	txs := []resolve.Transaction{
		vtx(1, 15, -10000, "Groceries", "Shop"),
		vtx(2, 15, -20000, "Groceries", "Shop"),
	}
	top := TopCategories(txs, true)
	if len(top) != 1 {
		t.Fatalf("expected 1 category, got %d", len(top))
	}
	if top[0].Name != "Groceries" || !approx(top[0].Amount, 300) || !approx(top[0].Percentage, 100) {
		t.Errorf("topCategories[0] = %+v", top[0])
	}

	trends := CategoryTrends(txs, true)
	if len(trends) != 1 || trends[0].CategoryName != "Groceries" {
		t.Fatalf("trends = %+v", trends)
	}
	want := [12]float64{100, 200}
	if trends[0].MonthlyAmounts != want {
		t.Errorf("trend series = %v, want %v", trends[0].MonthlyAmounts, want)
	}
}

func TestTopCategoriesKeepsTopTen(t *testing.T) {
	var txs []resolve.Transaction
	for i := 0; i < 14; i++ {
		name := string(rune('A' + i))
		txs = append(txs, vtx(3, 1, -int64((i+1)*1000), name, "p"))
	}
	top := TopCategories(txs, true)
	if len(top) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(top))
	}
	if top[0].Name != "N" || !approx(top[0].Amount, 140) {
		t.Errorf("top[0] = %+v", top[0])
	}
	// Top-10 slice covers at most 100%.
	var sum float64
	for _, c := range top {
		sum += c.Percentage
	}
	if sum > 100+1e-9 {
		t.Errorf("top-10 percentages sum to %v", sum)
	}
}

func TestCategoryNetVersusAbsolute(t *testing.T) {
	txs := []resolve.Transaction{
		vtx(1, 1, -10000, "Side Gig", "Client"),
		vtx(2, 1, 15000, "Side Gig", "Client"),
	}
	// Net mode: income offsets spending, bucket goes negative.
	net := TopCategories(txs, true)
	if len(net) != 1 || !approx(net[0].Amount, -50) {
		t.Fatalf("net mode = %+v", net)
	}
	// Absolute mode: income is ignored entirely.
	abs := TopCategories(txs, false)
	if len(abs) != 1 || !approx(abs[0].Amount, 100) {
		t.Fatalf("absolute mode = %+v", abs)
	}
}

func TestFullRankingPercentagesSumTo100(t *testing.T) {
	txs := []resolve.Transaction{
		vtx(1, 1, -10000, "A", "pa"),
		vtx(1, 2, -20000, "B", "pb"),
		vtx(1, 3, -70000, "C", "pc"),
	}
	ranking := RankPayees(txs, true)
	var sum float64
	for _, p := range ranking.All {
		sum += p.Percentage
	}
	if !approx(sum, 100) {
		t.Errorf("full-set percentages sum to %v, want 100", sum)
	}
	if len(ranking.All) != 3 || ranking.All[0].Name != "pc" {
		t.Errorf("ranking = %+v", ranking.All)
	}
}

func TestTransferLegsSumUnderOneKey(t *testing.T) {
	a := vtx(1, 1, -10000, "Transfer: Savings", "Transfer: Savings")
	a.CategoryKey, a.PayeeKey = "transfer:acc2", "transfer:acc2"
	b := vtx(2, 1, -5000, "Transfer: Savings", "Transfer: Savings")
	b.CategoryKey, b.PayeeKey = "transfer:acc2", "transfer:acc2"

	top := TopCategories([]resolve.Transaction{a, b}, true)
	if len(top) != 1 {
		t.Fatalf("transfer legs fragmented: %+v", top)
	}
	if top[0].Name != "Transfer: Savings" || !approx(top[0].Amount, 150) {
		t.Errorf("top[0] = %+v", top[0])
	}
}

func TestCategoryGrowths(t *testing.T) {
	txs := []resolve.Transaction{
		vtx(1, 1, -10000, "Groceries", "Shop"),  // Jan 100
		vtx(2, 1, -15000, "Groceries", "Shop"),  // Feb 150
		vtx(3, 1, -7500, "Groceries", "Shop"),   // Mar 75
		vtx(12, 1, -20000, "Groceries", "Shop"), // Dec 200
	}
	growths := CategoryGrowths(txs, true)
	if len(growths) != 1 {
		t.Fatalf("expected 1 growth entry, got %d", len(growths))
	}
	g := growths[0]
	if !approx(g.JanuaryAmount, 100) || !approx(g.DecemberAmount, 200) {
		t.Errorf("jan/dec = %v/%v", g.JanuaryAmount, g.DecemberAmount)
	}
	if !approx(g.Change, 100) || !approx(g.PercentageChange, 100) {
		t.Errorf("change = %v (%v%%)", g.Change, g.PercentageChange)
	}
	if g.MonthlyChanges[0] != 0 {
		t.Errorf("January has no predecessor, change = %v", g.MonthlyChanges[0])
	}
	if !approx(g.MonthlyChanges[1], 50) {
		t.Errorf("Feb change = %v, want 50", g.MonthlyChanges[1])
	}
	if !approx(g.MonthlyChanges[2], -50) {
		t.Errorf("Mar change = %v, want -50", g.MonthlyChanges[2])
	}
	// April's previous month is 75; April itself is 0. May's previous is 0.
	if !approx(g.MonthlyChanges[3], -100) {
		t.Errorf("Apr change = %v, want -100", g.MonthlyChanges[3])
	}
	if g.MonthlyChanges[4] != 0 {
		t.Errorf("May change vs zero previous = %v, want 0", g.MonthlyChanges[4])
	}
}

func TestAccountBreakdown(t *testing.T) {
	a := vtx(1, 1, -30000, "A", "p")
	b := vtx(2, 1, -10000, "B", "p")
	b.AccountID, b.AccountName = "acc2", "Savings"

	entries := AccountBreakdown([]resolve.Transaction{a, b}, true)
	if len(entries) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(entries))
	}
	if entries[0].AccountName != "Checking" || !approx(entries[0].Amount, 300) || entries[0].Count != 1 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !approx(entries[0].Percentage, 75) || !approx(entries[1].Percentage, 25) {
		t.Errorf("percentages = %v/%v", entries[0].Percentage, entries[1].Percentage)
	}
}
