package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"rewind/internal/ledger"
	"rewind/internal/resolve"
	"rewind/internal/storage"
)

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
			('t1', 'acc1', '2023-01-05', -12000, 'cat1', '', 'pay1', '', 1, 0),
			('t2', 'acc1', '2023-02-10', -4500, 'cat1', '', 'pay1', '', 0, 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return path
}

func newTestService(t *testing.T, ledgerPath string) (*WrappedService, *storage.SQLiteRepository) {
	t.Helper()
	store, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("open snapshot store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewWrappedService(ledgerPath, store, nil, 4, time.Minute), store
}

func TestWrappedService_Get(t *testing.T) {
	ledgerPath := createLedgerDB(t)
	svc, store := newTestService(t, ledgerPath)
	ctx := context.Background()
	opts := resolve.DefaultOptions(2023)

	data, err := svc.Get(ctx, opts)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data.Year != "2023" {
		t.Errorf("year = %s, want 2023", data.Year)
	}
	if data.Totals.TotalExpenses != 165.0 {
		t.Errorf("total expenses = %v, want 165", data.Totals.TotalExpenses)
	}
	if data.TransactionStats.TotalCount != 2 {
		t.Errorf("transaction count = %d, want 2", data.TransactionStats.TotalCount)
	}

	// Second read is served from the memory cache.
	again, err := svc.Get(ctx, opts)
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if again != data {
		t.Error("second read should return the cached snapshot")
	}

	// The transform was persisted under checksum+fingerprint.
	checksum, err := ledger.Checksum(ledgerPath)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	stored, err := store.GetSnapshot(ctx, checksum, opts.Fingerprint())
	if err != nil {
		t.Fatalf("stored snapshot: %v", err)
	}
	if stored.Totals.TotalExpenses != data.Totals.TotalExpenses {
		t.Errorf("stored expenses = %v, want %v", stored.Totals.TotalExpenses, data.Totals.TotalExpenses)
	}
}

func TestWrappedService_GetServesStoredSnapshot(t *testing.T) {
	ledgerPath := createLedgerDB(t)
	svc, _ := newTestService(t, ledgerPath)
	ctx := context.Background()
	opts := resolve.DefaultOptions(2023)

	if _, err := svc.Get(ctx, opts); err != nil {
		t.Fatalf("get: %v", err)
	}

	// A fresh service against the same stores finds the persisted snapshot
	// without recomputing the in-memory record cache.
	fresh := NewWrappedService(ledgerPath, svc.store, nil, 4, time.Minute)
	data, err := fresh.Get(ctx, opts)
	if err != nil {
		t.Fatalf("get from fresh service: %v", err)
	}
	if fresh.records != nil {
		t.Error("stored snapshot read should not load ledger records")
	}
	if data.Totals.TotalExpenses != 165.0 {
		t.Errorf("total expenses = %v, want 165", data.Totals.TotalExpenses)
	}
}

func TestWrappedService_RecomputeInlineWithoutBroker(t *testing.T) {
	ledgerPath := createLedgerDB(t)
	svc, store := newTestService(t, ledgerPath)
	ctx := context.Background()
	opts := resolve.DefaultOptions(2023)

	if err := svc.RequestRecompute(ctx, opts); err != nil {
		t.Fatalf("request recompute: %v", err)
	}

	checksum, err := ledger.Checksum(ledgerPath)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if _, err := store.GetSnapshot(ctx, checksum, opts.Fingerprint()); err != nil {
		t.Fatalf("snapshot after inline recompute: %v", err)
	}
}

func TestWrappedService_GetMissingLedger(t *testing.T) {
	svc, _ := newTestService(t, filepath.Join(t.TempDir(), "nope.db"))

	_, err := svc.Get(context.Background(), resolve.DefaultOptions(2023))
	if err == nil {
		t.Fatal("get with missing ledger should fail")
	}
}

func TestWrappedService_ListSnapshots(t *testing.T) {
	ledgerPath := createLedgerDB(t)
	svc, _ := newTestService(t, ledgerPath)
	ctx := context.Background()

	for _, year := range []int{2022, 2023} {
		if _, _, err := svc.Recompute(ctx, resolve.DefaultOptions(year)); err != nil {
			t.Fatalf("recompute %d: %v", year, err)
		}
	}

	infos, err := svc.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(infos))
	}
	years := map[int]bool{}
	for _, info := range infos {
		years[info.Year] = true
	}
	if !years[2022] || !years[2023] {
		t.Errorf("snapshot years = %+v, want 2022 and 2023", infos)
	}
}
