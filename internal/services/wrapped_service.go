package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rewind/internal/amqp"
	"rewind/internal/cache"
	"rewind/internal/core"
	"rewind/internal/ledger"
	applog "rewind/internal/log"
	"rewind/internal/resolve"
	"rewind/internal/storage"
	"rewind/internal/wrapped"
)

// WrappedService orchestrates snapshot reads across the ledger file, the
// snapshot store and the in-memory cache. Raw ledger records are cached by
// checksum so repeated requests against an unchanged ledger skip the reload.
type WrappedService struct {
	ledgerPath string
	store      *storage.SQLiteRepository
	amqpClient *amqp.Client
	snapshots  *cache.LRUCache[*wrapped.WrappedData]
	cacheMgr   *cache.Manager
	logger     *applog.StructuredLogger

	mu       sync.Mutex
	records  *core.Records
	checksum string
}

func NewWrappedService(ledgerPath string, store *storage.SQLiteRepository, amqpClient *amqp.Client, cacheSize int, cacheTTL time.Duration) *WrappedService {
	snapshots := cache.NewLRUCache[*wrapped.WrappedData](cacheSize, cacheTTL)

	mgr := cache.NewManager()
	mgr.Register(snapshots)
	mgr.StartCleanup(cacheTTL)

	return &WrappedService{
		ledgerPath: ledgerPath,
		store:      store,
		amqpClient: amqpClient,
		snapshots:  snapshots,
		cacheMgr:   mgr,
		logger:     applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWrapped)),
	}
}

// Get returns the wrapped snapshot for the given options, in order of
// preference: memory cache, snapshot store, fresh transform. A fresh
// transform is persisted before it is returned.
func (s *WrappedService) Get(ctx context.Context, opts resolve.Options) (*wrapped.WrappedData, error) {
	checksum, err := ledger.Checksum(s.ledgerPath)
	if err != nil {
		return nil, fmt.Errorf("checksum ledger: %w", err)
	}

	key := checksum + "|" + opts.Fingerprint()
	if data, ok := s.snapshots.Get(key); ok {
		return data, nil
	}

	if s.store != nil {
		data, err := s.store.GetSnapshot(ctx, checksum, opts.Fingerprint())
		if err == nil {
			s.snapshots.Set(key, data)
			return data, nil
		}
		if !errors.Is(err, storage.ErrSnapshotNotFound) {
			slog.WarnContext(ctx, "Snapshot store read failed, recomputing",
				"error", err, "fingerprint", opts.Fingerprint())
		}
	}

	data, err := s.compute(ctx, checksum, opts)
	if err != nil {
		return nil, err
	}

	s.snapshots.Set(key, data)
	return data, nil
}

// Recompute forces a fresh transform and persists it, bypassing both cache
// layers. Used by the worker when handling recompute requests.
func (s *WrappedService) Recompute(ctx context.Context, opts resolve.Options) (*wrapped.WrappedData, string, error) {
	checksum, err := ledger.Checksum(s.ledgerPath)
	if err != nil {
		return nil, "", fmt.Errorf("checksum ledger: %w", err)
	}

	data, err := s.compute(ctx, checksum, opts)
	if err != nil {
		return nil, "", err
	}

	s.snapshots.Set(checksum+"|"+opts.Fingerprint(), data)
	return data, checksum, nil
}

// RequestRecompute publishes an async recompute request. When no broker is
// configured the recompute runs inline instead.
func (s *WrappedService) RequestRecompute(ctx context.Context, opts resolve.Options) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, recomputing inline", "year", opts.Year)
		_, _, err := s.Recompute(ctx, opts)
		return err
	}

	msg := amqp.NewRecomputeMessage(opts.Year)
	msg.IncludeOffBudget = opts.IncludeOffBudget
	msg.IncludeOnBudgetTransfers = opts.IncludeOnBudgetTransfers
	msg.IncludeAllTransfers = opts.IncludeAllTransfers
	msg.IncludeIncomeInCategoryTotals = opts.IncludeIncomeInCategoryTotals

	return s.amqpClient.PublishRecompute(ctx, msg)
}

// ListSnapshots exposes stored snapshot metadata.
func (s *WrappedService) ListSnapshots(ctx context.Context) ([]storage.SnapshotInfo, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListSnapshots(ctx)
}

func (s *WrappedService) compute(ctx context.Context, checksum string, opts resolve.Options) (*wrapped.WrappedData, error) {
	records, err := s.loadRecords(ctx, checksum)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	data, err := wrapped.Transform(ctx, records, opts)
	if err != nil {
		return nil, err
	}

	s.logger.LogSnapshotComputed(ctx, opts.Year, opts.Fingerprint(), checksum, time.Since(started).Milliseconds())

	if s.store != nil {
		if err := s.store.SaveSnapshot(ctx, checksum, opts.Fingerprint(), data); err != nil {
			// The response is still good; persistence catches up on the next request.
			s.logger.LogError(ctx, "Failed to persist snapshot", err, applog.ComponentStorage, applog.OpSave,
				applog.NewFields().WithSnapshot(opts.Year, opts.Fingerprint(), checksum))
		}
	}

	return data, nil
}

func (s *WrappedService) loadRecords(ctx context.Context, checksum string) (core.Records, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.records != nil && s.checksum == checksum {
		return *s.records, nil
	}

	records, err := ledger.Load(ctx, s.ledgerPath)
	if err != nil {
		return core.Records{}, fmt.Errorf("load ledger: %w", err)
	}

	s.records = &records
	s.checksum = checksum
	return records, nil
}

// Close closes both storage and AMQP connections
func (s *WrappedService) Close() error {
	var errs []error

	if s.cacheMgr != nil {
		s.cacheMgr.Stop()
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close wrapped service: %v", errs)
	}

	return nil
}
