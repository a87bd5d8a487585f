package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rewind/internal/resolve"
)

// parseOptions builds filter options from query parameters, falling back to
// the server defaults. Unknown boolean values are an error rather than a
// silent default so a typo does not serve the wrong snapshot.
func (s *Server) parseOptions(r *http.Request) (resolve.Options, error) {
	opts := resolve.DefaultOptions(s.defaultYear)
	if s.currencySymbol != "" {
		opts.CurrencySymbol = s.currencySymbol
	}

	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("year")); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return resolve.Options{}, fmt.Errorf("invalid year %q", v)
		}
		if year < 1900 || year > 2200 {
			return resolve.Options{}, fmt.Errorf("year %d out of range", year)
		}
		opts.Year = year
	}

	var err error
	if opts.IncludeOffBudget, err = parseBoolParam(q.Get("offBudget"), opts.IncludeOffBudget); err != nil {
		return resolve.Options{}, fmt.Errorf("invalid offBudget: %w", err)
	}
	if opts.IncludeOnBudgetTransfers, err = parseBoolParam(q.Get("onBudgetTransfers"), opts.IncludeOnBudgetTransfers); err != nil {
		return resolve.Options{}, fmt.Errorf("invalid onBudgetTransfers: %w", err)
	}
	if opts.IncludeAllTransfers, err = parseBoolParam(q.Get("allTransfers"), opts.IncludeAllTransfers); err != nil {
		return resolve.Options{}, fmt.Errorf("invalid allTransfers: %w", err)
	}
	if opts.IncludeIncomeInCategoryTotals, err = parseBoolParam(q.Get("incomeInTotals"), opts.IncludeIncomeInCategoryTotals); err != nil {
		return resolve.Options{}, fmt.Errorf("invalid incomeInTotals: %w", err)
	}

	if v := strings.TrimSpace(q.Get("currency")); v != "" {
		opts.CurrencySymbol = v
	}

	return opts, nil
}

func parseBoolParam(raw string, fallback bool) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", raw)
	}
	return v, nil
}
