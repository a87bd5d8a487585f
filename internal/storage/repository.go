// Package storage persists computed snapshots in a local sqlite database so
// a completed transform survives restarts and a failed one never disturbs
// what is already stored.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rewind/internal/wrapped"

	_ "modernc.org/sqlite"
)

// ErrSnapshotNotFound is returned when no stored snapshot matches a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

type SQLiteRepository struct {
	db *sql.DB
}

// SnapshotInfo describes one stored snapshot without its payload.
type SnapshotInfo struct {
	LedgerChecksum     string
	Year               int
	OptionsFingerprint string
	CreatedAt          time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applyMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot upserts a computed snapshot under its cache key. A new
// transform for the same key supersedes the old payload wholesale.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, checksum, fingerprint string, data *wrapped.WrappedData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	year := 0
	fmt.Sscanf(data.Year, "%d", &year)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO snapshots (ledger_checksum, year, options_fingerprint, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (ledger_checksum, year, options_fingerprint)
		 DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		checksum, year, fingerprint, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved",
		"checksum", checksum,
		"year", year,
		"fingerprint", fingerprint,
		"payload_bytes", len(payload))
	return nil
}

// GetSnapshot loads a stored snapshot by its cache key.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, checksum, fingerprint string) (*wrapped.WrappedData, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE ledger_checksum = ? AND options_fingerprint = ?`,
		checksum, fingerprint).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	var data wrapped.WrappedData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &data, nil
}

// ListSnapshots returns metadata for everything stored, newest first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ledger_checksum, year, options_fingerprint, created_at
		 FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.LedgerChecksum, &info.Year, &info.OptionsFingerprint, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot info: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
