// Package ledger extracts the raw record arrays out of a ledger export's
// sqlite database. It is strictly read-only: the transform never mutates
// source records.
package ledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"rewind/internal/core"

	_ "modernc.org/sqlite"
)

// Load opens the export database read-only and reads every record array.
// The budget table is optional; its absence yields an empty slice, which
// downstream means "no budget data" rather than "zero budgeted". Rows
// without a usable date are dropped one by one, never aborting the load.
func Load(ctx context.Context, dbPath string) (core.Records, error) {
	var records core.Records

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return records, fmt.Errorf("open ledger database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return records, fmt.Errorf("ping ledger database: %w", err)
	}

	if records.Accounts, err = loadAccounts(ctx, db); err != nil {
		return records, err
	}
	if records.Categories, err = loadCategories(ctx, db); err != nil {
		return records, err
	}
	if records.Payees, err = loadPayees(ctx, db); err != nil {
		return records, err
	}
	if records.Transactions, err = loadTransactions(ctx, db); err != nil {
		return records, err
	}
	if records.Budgets, err = loadBudgets(ctx, db); err != nil {
		return records, err
	}

	slog.InfoContext(ctx, "Loaded ledger records",
		"transactions", len(records.Transactions),
		"categories", len(records.Categories),
		"payees", len(records.Payees),
		"accounts", len(records.Accounts),
		"budget_entries", len(records.Budgets))
	return records, nil
}

func loadAccounts(ctx context.Context, db *sql.DB) ([]core.Account, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, COALESCE(type, ''), COALESCE(offbudget, 0), COALESCE(tombstone, 0) FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		var off, tomb int
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &off, &tomb); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.OffBudget = off != 0
		a.Tombstone = tomb != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadCategories(ctx context.Context, db *sql.DB) ([]core.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, COALESCE(group_name, ''), COALESCE(is_income, 0), COALESCE(tombstone, 0) FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		var inc, tomb int
		if err := rows.Scan(&c.ID, &c.Name, &c.GroupName, &inc, &tomb); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.IsIncome = inc != 0
		c.Tombstone = tomb != 0
		out = append(out, c)
	}
	return out, rows.Err()
}

func loadPayees(ctx context.Context, db *sql.DB) ([]core.Payee, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, COALESCE(name, ''), COALESCE(transfer_acct, ''), COALESCE(tombstone, 0) FROM payees`)
	if err != nil {
		return nil, fmt.Errorf("query payees: %w", err)
	}
	defer rows.Close()

	var out []core.Payee
	for rows.Next() {
		var p core.Payee
		var tomb int
		if err := rows.Scan(&p.ID, &p.Name, &p.TransferAccountID, &tomb); err != nil {
			return nil, fmt.Errorf("scan payee: %w", err)
		}
		p.Tombstone = tomb != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func loadTransactions(ctx context.Context, db *sql.DB) ([]core.Transaction, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, COALESCE(account_id, ''), COALESCE(date, ''), COALESCE(amount, 0),
		        COALESCE(category_id, ''), COALESCE(category_name, ''), COALESCE(payee_id, ''),
		        COALESCE(parent_id, ''), COALESCE(cleared, 0), COALESCE(reconciled, 0)
		 FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	dropped := 0
	for rows.Next() {
		var t core.Transaction
		var date string
		var cleared, reconciled int
		if err := rows.Scan(&t.ID, &t.AccountID, &date, &t.Amount.Cents,
			&t.CategoryID, &t.CategoryName, &t.PayeeID,
			&t.ParentID, &cleared, &reconciled); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		d, err := core.ParseDate(date)
		if err != nil {
			// A record without a date cannot land in any month; drop it
			// rather than failing the whole load.
			dropped++
			continue
		}
		t.Date = d
		t.Cleared = cleared != 0
		t.Reconciled = reconciled != 0
		out = append(out, t)
	}
	if dropped > 0 {
		slog.WarnContext(ctx, "Dropped transactions without a usable date", "count", dropped)
	}
	return out, rows.Err()
}

// loadBudgets tolerates a missing budgets table: older exports simply do
// not carry one.
func loadBudgets(ctx context.Context, db *sql.DB) ([]core.BudgetEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT COALESCE(category_id, ''), COALESCE(month, ''), COALESCE(amount, 0) FROM budgets`)
	if err != nil {
		slog.InfoContext(ctx, "No budgets table in ledger export", "error", err)
		return nil, nil
	}
	defer rows.Close()

	var out []core.BudgetEntry
	for rows.Next() {
		var e core.BudgetEntry
		if err := rows.Scan(&e.CategoryID, &e.Month, &e.Budgeted.Cents); err != nil {
			return nil, fmt.Errorf("scan budget entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Checksum hashes the export file; it keys cached snapshots so a changed
// ledger never serves stale results.
func Checksum(dbPath string) (string, error) {
	f, err := os.Open(dbPath)
	if err != nil {
		return "", fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash ledger file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
