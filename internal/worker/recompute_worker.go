package worker

import (
	"context"
	"fmt"
	"log/slog"

	"rewind/internal/amqp"
	"rewind/internal/resolve"
	"rewind/internal/services"
	"rewind/internal/wrapped"
)

// CompletionPublisher announces finished recomputes. Satisfied by the AMQP
// client; nil disables announcements.
type CompletionPublisher interface {
	PublishCompleted(ctx context.Context, msg *amqp.RecomputeCompletedMessage) error
}

// SnapshotExporter pushes a snapshot summary to an external sink.
type SnapshotExporter interface {
	ExportSnapshot(ctx context.Context, data *wrapped.WrappedData) error
}

// RecomputeWorker rebuilds yearly snapshots on request. Each message carries
// the filter options; the worker reads the ledger itself and persists the
// result through the service.
type RecomputeWorker struct {
	service        *services.WrappedService
	publisher      CompletionPublisher
	exporter       SnapshotExporter
	currencySymbol string
}

func NewRecomputeWorker(service *services.WrappedService, publisher CompletionPublisher, exporter SnapshotExporter, currencySymbol string) *RecomputeWorker {
	return &RecomputeWorker{
		service:        service,
		publisher:      publisher,
		exporter:       exporter,
		currencySymbol: currencySymbol,
	}
}

// OptionsFromMessage maps a recompute request onto filter options.
func OptionsFromMessage(msg *amqp.RecomputeMessage, currencySymbol string) resolve.Options {
	opts := resolve.DefaultOptions(msg.Year)
	opts.IncludeOffBudget = msg.IncludeOffBudget
	opts.IncludeOnBudgetTransfers = msg.IncludeOnBudgetTransfers
	opts.IncludeAllTransfers = msg.IncludeAllTransfers
	opts.IncludeIncomeInCategoryTotals = msg.IncludeIncomeInCategoryTotals
	if currencySymbol != "" {
		opts.CurrencySymbol = currencySymbol
	}
	return opts
}

// HandleRecomputeMessage processes a single recompute request from AMQP
func (w *RecomputeWorker) HandleRecomputeMessage(ctx context.Context, msg *amqp.RecomputeMessage) error {
	slog.InfoContext(ctx, "Processing recompute request", "year", msg.Year)

	// A nonsense year would requeue forever; drop it instead.
	if msg.Year < 1900 || msg.Year > 2200 {
		slog.WarnContext(ctx, "Dropping recompute request with invalid year", "year", msg.Year)
		return nil
	}

	opts := OptionsFromMessage(msg, w.currencySymbol)

	data, checksum, err := w.service.Recompute(ctx, opts)
	if err != nil {
		return fmt.Errorf("recompute snapshot: %w", err)
	}

	w.publishCompleted(ctx, opts, checksum)
	w.export(ctx, data)

	return nil
}

// WarmupDefaultYear computes the default-year snapshot at startup so the
// first request does not pay the transform cost.
func (w *RecomputeWorker) WarmupDefaultYear(ctx context.Context, year int) error {
	opts := resolve.DefaultOptions(year)
	if w.currencySymbol != "" {
		opts.CurrencySymbol = w.currencySymbol
	}

	if _, err := w.service.Get(ctx, opts); err != nil {
		return fmt.Errorf("warmup year %d: %w", year, err)
	}

	slog.InfoContext(ctx, "Warmup snapshot ready", "year", year)
	return nil
}

func (w *RecomputeWorker) publishCompleted(ctx context.Context, opts resolve.Options, checksum string) {
	if w.publisher == nil {
		return
	}

	msg := amqp.NewRecomputeCompletedMessage(opts.Year, opts.Fingerprint(), checksum)
	if err := w.publisher.PublishCompleted(ctx, msg); err != nil {
		// The snapshot is stored; the announcement is advisory.
		slog.ErrorContext(ctx, "Failed to publish completion",
			"year", opts.Year, "error", err)
	}
}

func (w *RecomputeWorker) export(ctx context.Context, data *wrapped.WrappedData) {
	if w.exporter == nil {
		return
	}

	if err := w.exporter.ExportSnapshot(ctx, data); err != nil {
		slog.ErrorContext(ctx, "Failed to export snapshot",
			"year", data.Year, "error", err)
	}
}
