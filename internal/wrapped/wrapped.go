// Package wrapped assembles every derived view into one immutable result
// snapshot. The transform is pure and deterministic: the same records and
// options always produce the same snapshot, and a failed run surfaces one
// wrapped error instead of a partial result.
package wrapped

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"rewind/internal/budget"
	"rewind/internal/core"
	"rewind/internal/resolve"
	"rewind/internal/views"
)

// WrappedData is the result snapshot: every view fully computed, no lazy
// fields. It is constructed once per transform and never mutated after;
// a re-transform supersedes it wholesale.
type WrappedData struct {
	Year           string    `json:"year"` // echoed as a display string
	CurrencySymbol string    `json:"currencySymbol"`
	GeneratedAt    time.Time `json:"generatedAt"`

	Totals           views.Totals                 `json:"totals"`
	MonthlyData      []views.MonthData            `json:"monthlyData"`
	TopCategories    []views.RankedGroup          `json:"topCategories"`
	CategoryTrends   []views.CategoryTrend        `json:"categoryTrends"`
	Payees           views.PayeeRanking           `json:"payees"`
	TransactionStats views.TransactionStats       `json:"transactionStats"`
	TopMonths        []views.TopMonth             `json:"topMonths"`
	Calendar         []views.CalendarDay          `json:"calendar"`
	Velocity         views.SpendingVelocity       `json:"velocity"`
	DayOfWeek        []views.WeekdaySpending      `json:"dayOfWeek"`
	Accounts         []views.AccountBreakdownEntry `json:"accounts"`
	Streaks          views.SpendingStreaks        `json:"streaks"`
	SizeDistribution views.SizeDistribution       `json:"sizeDistribution"`
	Quarterly        []views.QuarterData          `json:"quarterly"`
	CategoryGrowth   []views.CategoryGrowth       `json:"categoryGrowth"`
	Savings          views.SavingsProgress        `json:"savings"`
	Projection       views.FutureProjection       `json:"projection"`

	// BudgetComparison is nil when the input carried no budget entries;
	// consumers must distinguish that from a zeroed comparison.
	BudgetComparison *budget.Comparison `json:"budgetComparison,omitempty"`
}

// TransformError is the single error shape the transform surfaces. Stage
// names the reducer that failed; the cause is preserved for the chain.
type TransformError struct {
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform failed in %s: %v", e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// Transform runs the whole pipeline: resolve, filter, then every view.
// The independent reducers run concurrently over the same immutable
// filtered slice; correctness does not depend on the parallelism. There is
// no cancellation mid-transform: a run either completes or fails whole.
func Transform(ctx context.Context, records core.Records, opts resolve.Options) (*WrappedData, error) {
	maps := resolve.NewMaps(records)
	resolved := resolve.Resolve(records.Transactions, maps)
	filtered := resolve.Filter(resolved, opts)
	netIncome := opts.IncludeIncomeInCategoryTotals

	data := &WrappedData{
		Year:           fmt.Sprintf("%d", opts.Year),
		CurrencySymbol: opts.CurrencySymbol,
		GeneratedAt:    time.Now().UTC(),
	}

	// The monthly breakdown feeds several other views, so it runs first.
	if err := runView("monthly breakdown", func() {
		data.MonthlyData = views.MonthlyBreakdown(filtered)
		data.Totals = views.ComputeTotals(data.MonthlyData)
	}); err != nil {
		return nil, err
	}

	g, _ := errgroup.WithContext(ctx)
	stage := func(name string, fn func()) {
		g.Go(func() error { return runView(name, fn) })
	}

	stage("category ranking", func() { data.TopCategories = views.TopCategories(filtered, netIncome) })
	stage("category trends", func() { data.CategoryTrends = views.CategoryTrends(filtered, netIncome) })
	stage("payee ranking", func() { data.Payees = views.RankPayees(filtered, netIncome) })
	stage("transaction stats", func() { data.TransactionStats = views.ComputeTransactionStats(filtered) })
	stage("top months", func() { data.TopMonths = views.TopMonths(data.MonthlyData) })
	stage("calendar", func() { data.Calendar = views.CalendarData(filtered, opts.Year) })
	stage("velocity", func() { data.Velocity = views.ComputeSpendingVelocity(filtered, opts.Year) })
	stage("day of week", func() { data.DayOfWeek = views.DayOfWeekSpending(filtered) })
	stage("account breakdown", func() { data.Accounts = views.AccountBreakdown(filtered, netIncome) })
	stage("streaks", func() { data.Streaks = views.ComputeSpendingStreaks(filtered, opts.Year) })
	stage("size distribution", func() { data.SizeDistribution = views.ComputeSizeDistribution(filtered) })
	stage("quarterly", func() { data.Quarterly = views.QuarterlyComparison(data.MonthlyData) })
	stage("category growth", func() { data.CategoryGrowth = views.CategoryGrowths(filtered, netIncome) })
	stage("milestones", func() { data.Savings = views.SavingsMilestones(data.MonthlyData, opts.Year) })
	stage("projection", func() { data.Projection = views.ProjectFuture(data.Totals, opts.Year) })
	stage("budget comparison", func() {
		data.BudgetComparison = budget.Compare(records.Budgets, filtered, maps)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

// runView converts a reducer panic into a stage-named TransformError so a
// bad record can never take down the caller.
func runView(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TransformError{Stage: name, Err: fmt.Errorf("%v", r)}
		}
	}()
	fn()
	return nil
}
