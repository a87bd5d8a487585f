package worker

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"rewind/internal/amqp"
	"rewind/internal/ledger"
	"rewind/internal/services"
	"rewind/internal/storage"
	"rewind/internal/wrapped"
)

type fakePublisher struct {
	messages []*amqp.RecomputeCompletedMessage
	err      error
}

func (p *fakePublisher) PublishCompleted(ctx context.Context, msg *amqp.RecomputeCompletedMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type fakeExporter struct {
	exported []*wrapped.WrappedData
}

func (e *fakeExporter) ExportSnapshot(ctx context.Context, data *wrapped.WrappedData) error {
	e.exported = append(e.exported, data)
	return nil
}

func createLedgerDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture db: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE accounts (id TEXT PRIMARY KEY, name TEXT, type TEXT, offbudget INTEGER, tombstone INTEGER)`,
		`CREATE TABLE categories (id TEXT PRIMARY KEY, name TEXT, group_name TEXT, is_income INTEGER, tombstone INTEGER)`,
		`CREATE TABLE payees (id TEXT PRIMARY KEY, name TEXT, transfer_acct TEXT, tombstone INTEGER)`,
		`CREATE TABLE transactions (id TEXT PRIMARY KEY, account_id TEXT, date TEXT, amount INTEGER,
			category_id TEXT, category_name TEXT, payee_id TEXT, parent_id TEXT, cleared INTEGER, reconciled INTEGER)`,
		`INSERT INTO accounts VALUES ('acc1', 'Checking', 'checking', 0, 0)`,
		`INSERT INTO categories VALUES ('cat1', 'Groceries', 'Everyday', 0, 0)`,
		`INSERT INTO payees VALUES ('pay1', 'Corner Shop', '', 0)`,
		`INSERT INTO transactions VALUES
			('t1', 'acc1', '2023-03-01', -8000, 'cat1', '', 'pay1', '', 1, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func newTestWorker(t *testing.T, ledgerPath string) (*RecomputeWorker, *fakePublisher, *fakeExporter, *storage.SQLiteRepository) {
	t.Helper()
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open snapshot store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	svc := services.NewWrappedService(ledgerPath, store, nil, 4, time.Minute)
	publisher := &fakePublisher{}
	exporter := &fakeExporter{}
	return NewRecomputeWorker(svc, publisher, exporter, "$"), publisher, exporter, store
}

func TestOptionsFromMessage(t *testing.T) {
	msg := amqp.NewRecomputeMessage(2023)
	msg.IncludeOffBudget = true
	msg.IncludeAllTransfers = true

	opts := OptionsFromMessage(msg, "€")

	if opts.Year != 2023 {
		t.Errorf("year = %d, want 2023", opts.Year)
	}
	if !opts.IncludeOffBudget || !opts.IncludeAllTransfers {
		t.Errorf("options = %+v, want off-budget and all transfers", opts)
	}
	if !opts.IncludeIncomeInCategoryTotals {
		t.Error("default income inclusion should carry through")
	}
	if opts.CurrencySymbol != "€" {
		t.Errorf("currency symbol = %q, want €", opts.CurrencySymbol)
	}
}

func TestHandleRecomputeMessage(t *testing.T) {
	ledgerPath := createLedgerDB(t)
	w, publisher, exporter, store := newTestWorker(t, ledgerPath)
	ctx := context.Background()

	msg := amqp.NewRecomputeMessage(2023)
	if err := w.HandleRecomputeMessage(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	checksum, err := ledger.Checksum(ledgerPath)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}

	opts := OptionsFromMessage(msg, "$")
	data, err := store.GetSnapshot(ctx, checksum, opts.Fingerprint())
	if err != nil {
		t.Fatalf("stored snapshot: %v", err)
	}
	if data.Totals.TotalExpenses != 80.0 {
		t.Errorf("total expenses = %v, want 80", data.Totals.TotalExpenses)
	}

	if len(publisher.messages) != 1 {
		t.Fatalf("completions = %d, want 1", len(publisher.messages))
	}
	completed := publisher.messages[0]
	if completed.Year != 2023 || completed.LedgerChecksum != checksum {
		t.Errorf("completion = %+v", completed)
	}
	if completed.Fingerprint != opts.Fingerprint() {
		t.Errorf("fingerprint = %q, want %q", completed.Fingerprint, opts.Fingerprint())
	}

	if len(exporter.exported) != 1 {
		t.Fatalf("exports = %d, want 1", len(exporter.exported))
	}
}

func TestHandleRecomputeMessage_InvalidYearDropped(t *testing.T) {
	w, publisher, exporter, _ := newTestWorker(t, createLedgerDB(t))

	if err := w.HandleRecomputeMessage(context.Background(), amqp.NewRecomputeMessage(0)); err != nil {
		t.Fatalf("invalid year should be dropped, got error: %v", err)
	}
	if len(publisher.messages) != 0 || len(exporter.exported) != 0 {
		t.Error("dropped request should not publish or export")
	}
}

func TestHandleRecomputeMessage_PublishFailureIsNonFatal(t *testing.T) {
	w, publisher, _, _ := newTestWorker(t, createLedgerDB(t))
	publisher.err = errors.New("broker down")

	if err := w.HandleRecomputeMessage(context.Background(), amqp.NewRecomputeMessage(2023)); err != nil {
		t.Fatalf("publish failure should not fail the recompute: %v", err)
	}
}

func TestWarmupDefaultYear(t *testing.T) {
	w, publisher, _, _ := newTestWorker(t, createLedgerDB(t))

	if err := w.WarmupDefaultYear(context.Background(), 2023); err != nil {
		t.Fatalf("warmup: %v", err)
	}
	// Warmup is a read, not a recompute; no completion goes out.
	if len(publisher.messages) != 0 {
		t.Errorf("completions = %d, want 0", len(publisher.messages))
	}
}
