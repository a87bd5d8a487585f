package http

import (
	"net/http/httptest"
	"testing"
)

func TestParseOptions(t *testing.T) {
	s := &Server{defaultYear: 2023, currencySymbol: "$"}

	tests := []struct {
		name    string
		target  string
		wantErr bool
		check   func(t *testing.T, s *Server)
	}{
		{name: "defaults", target: "/api/wrapped"},
		{name: "explicit year", target: "/api/wrapped?year=2021"},
		{name: "bad year", target: "/api/wrapped?year=twenty", wantErr: true},
		{name: "year out of range", target: "/api/wrapped?year=1800", wantErr: true},
		{name: "toggles", target: "/api/wrapped?offBudget=true&allTransfers=1&incomeInTotals=false"},
		{name: "bad boolean", target: "/api/wrapped?offBudget=maybe", wantErr: true},
		{name: "currency override", target: "/api/wrapped?currency=%E2%82%AC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			opts, err := s.parseOptions(r)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseOptions(%s) expected error", tt.target)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOptions(%s): %v", tt.target, err)
			}

			switch tt.name {
			case "defaults":
				if opts.Year != 2023 || opts.CurrencySymbol != "$" {
					t.Errorf("defaults = %+v", opts)
				}
				if !opts.IncludeOnBudgetTransfers || !opts.IncludeIncomeInCategoryTotals {
					t.Errorf("default toggles = %+v", opts)
				}
			case "explicit year":
				if opts.Year != 2021 {
					t.Errorf("year = %d, want 2021", opts.Year)
				}
			case "toggles":
				if !opts.IncludeOffBudget || !opts.IncludeAllTransfers {
					t.Errorf("toggles = %+v", opts)
				}
				if opts.IncludeIncomeInCategoryTotals {
					t.Error("incomeInTotals=false should stick")
				}
			case "currency override":
				if opts.CurrencySymbol != "€" {
					t.Errorf("currency = %q, want €", opts.CurrencySymbol)
				}
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		raw      string
		fallback bool
		want     bool
		wantErr  bool
	}{
		{"", true, true, false},
		{"", false, false, false},
		{"true", false, true, false},
		{"0", true, false, false},
		{" 1 ", false, true, false},
		{"maybe", false, false, true},
	}

	for _, tt := range tests {
		got, err := parseBoolParam(tt.raw, tt.fallback)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseBoolParam(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseBoolParam(%q, %v) = %v, want %v", tt.raw, tt.fallback, got, tt.want)
		}
	}
}
