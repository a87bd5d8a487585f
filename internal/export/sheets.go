// Package export pushes snapshot summaries to Google Sheets so a year in
// review can be shared outside the API.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"rewind/internal/wrapped"
)

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewFromEnv creates a Sheets exporter using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(sheetName) == "" {
		return nil, errors.New("missing sheet name")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// ExportSnapshot appends a summary block for one snapshot to the sheet.
func (e *SheetsExporter) ExportSnapshot(ctx context.Context, data *wrapped.WrappedData) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}

	rows := summaryRows(data)
	rng := fmt.Sprintf("%s!A:C", e.sheetName)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", e.sheetName, err)
	}

	slog.InfoContext(ctx, "Snapshot exported to sheet",
		"year", data.Year,
		"sheet", e.sheetName,
		"rows", len(rows))
	return nil
}

// summaryRows flattens the headline numbers and category ranking into
// spreadsheet rows. Amounts stay numeric so sheet formulas keep working.
func summaryRows(data *wrapped.WrappedData) [][]any {
	rows := [][]any{
		{"Year in Review", data.Year, data.GeneratedAt.Format(time.RFC3339)},
		{"Total Income", data.Totals.TotalIncome, ""},
		{"Total Expenses", data.Totals.TotalExpenses, ""},
		{"Net Savings", data.Totals.NetSavings, ""},
		{"Savings Rate %", data.Totals.SavingsRate, ""},
		{"Transactions", data.TransactionStats.TotalCount, ""},
	}

	if len(data.TopCategories) > 0 {
		rows = append(rows, []any{"Top Categories", "", ""})
		for _, c := range data.TopCategories {
			rows = append(rows, []any{c.Name, c.Amount, c.Percentage})
		}
	}

	for _, m := range data.MonthlyData {
		rows = append(rows, []any{m.Month, m.Income, m.Expenses})
	}

	return rows
}
