package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"rewind/internal/resolve"
	"rewind/internal/views"
	"rewind/internal/wrapped"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleSnapshot() *wrapped.WrappedData {
	return &wrapped.WrappedData{
		Year:           "2023",
		CurrencySymbol: "$",
		Totals:         views.Totals{TotalIncome: 3000, TotalExpenses: 1750, NetSavings: 1250},
	}
}

func TestSaveAndGetSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	fp := resolve.DefaultOptions(2023).Fingerprint()

	if err := repo.SaveSnapshot(ctx, "abc123", fp, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.GetSnapshot(ctx, "abc123", fp)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Year != "2023" || got.Totals.NetSavings != 1250 {
		t.Errorf("snapshot = %+v", got)
	}
}

func TestSaveSnapshotUpserts(t *testing.T) {
	ctx := context.Background()
	repo := testRepo(t)
	fp := resolve.DefaultOptions(2023).Fingerprint()

	first := sampleSnapshot()
	if err := repo.SaveSnapshot(ctx, "abc123", fp, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := sampleSnapshot()
	second.Totals.NetSavings = 999
	if err := repo.SaveSnapshot(ctx, "abc123", fp, second); err != nil {
		t.Fatalf("re-save: %v", err)
	}

	got, err := repo.GetSnapshot(ctx, "abc123", fp)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Totals.NetSavings != 999 {
		t.Errorf("expected superseded payload, got %+v", got.Totals)
	}
	infos, err := repo.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("expected 1 row after upsert, got %d", len(infos))
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.GetSnapshot(context.Background(), "missing", "fp")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("error = %v, want ErrSnapshotNotFound", err)
	}
}
