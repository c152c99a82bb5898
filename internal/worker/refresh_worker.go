package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
	"github.com/monukmodi/smart-expense-tracker-client/internal/events"
	"github.com/monukmodi/smart-expense-tracker-client/internal/sheets"
	"github.com/monukmodi/smart-expense-tracker-client/internal/storage"
)

// RefreshWorker mirrors the remote transaction feed into the local SQLite
// database and appends a dashboard snapshot to the export sheet.
type RefreshWorker struct {
	source    aggregate.TransactionSource
	mirror    *storage.SQLiteRepository
	exporter  sheets.OverviewWriter // optional
	fetchSize int
	retention time.Duration
	now       func() time.Time
}

func NewRefreshWorker(source aggregate.TransactionSource, mirror *storage.SQLiteRepository, exporter sheets.OverviewWriter, fetchSize, retentionDays int) *RefreshWorker {
	if fetchSize <= 0 {
		fetchSize = 200
	}
	if retentionDays <= 0 {
		retentionDays = 365
	}
	return &RefreshWorker{
		source:    source,
		mirror:    mirror,
		exporter:  exporter,
		fetchSize: fetchSize,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		now:       time.Now,
	}
}

// HandleRefreshMessage processes a single refresh request from AMQP.
func (w *RefreshWorker) HandleRefreshMessage(ctx context.Context, msg *events.RefreshMessage) error {
	count := msg.Count
	if count <= 0 {
		count = w.fetchSize
	}
	return w.Refresh(ctx, count)
}

// Refresh fetches the latest transactions and rebuilds the mirror. The
// mirror write and the sheet export run concurrently once the fetch is in.
func (w *RefreshWorker) Refresh(ctx context.Context, count int) error {
	start := w.now()

	txs, err := w.source.List(ctx, count)
	if err != nil {
		return fmt.Errorf("fetch transactions: %w", err)
	}

	fetchedAt := w.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := w.mirror.ReplaceAll(gctx, txs, fetchedAt); err != nil {
			return fmt.Errorf("rebuild mirror: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return w.export(gctx, txs, fetchedAt)
	})
	if err := g.Wait(); err != nil {
		return err
	}

	pruned, err := w.mirror.Prune(ctx, fetchedAt.Add(-w.retention))
	if err != nil {
		slog.WarnContext(ctx, "Prune failed", "error", err)
	}

	slog.InfoContext(ctx, "Mirror refreshed",
		"count", len(txs),
		"pruned", pruned,
		"duration_ms", w.now().Sub(start).Milliseconds())
	return nil
}

// export appends a dashboard snapshot. Export failures do not fail the
// refresh; the mirror is the primary artifact.
func (w *RefreshWorker) export(ctx context.Context, txs []core.Transaction, fetchedAt time.Time) error {
	if w.exporter == nil {
		return nil
	}

	overview := aggregate.Aggregate(txs, fetchedAt)
	row := sheets.OverviewRow{
		FetchedAt:    fetchedAt,
		TotalSpent:   overview.Summary.TotalSpent,
		TotalIncome:  overview.Summary.TotalIncome,
		Balance:      overview.Summary.Balance,
		MonthSpent:   overview.Summary.MonthSpent,
		MonthIncome:  overview.Summary.MonthIncome,
		Transactions: len(txs),
	}

	ref, err := w.exporter.AppendOverview(ctx, row)
	if err != nil {
		slog.ErrorContext(ctx, "Overview export failed", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "Overview exported", "sheets_ref", ref, "transaction_count", len(txs))
	return nil
}

// Run consumes refresh messages until the context ends. The ticker is a
// backup in case messages are lost; it refreshes on the given interval.
func (w *RefreshWorker) Run(ctx context.Context, consumer *events.Client, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	// Startup refresh so a fresh deployment has a populated mirror.
	if err := w.Refresh(ctx, w.fetchSize); err != nil {
		slog.WarnContext(ctx, "Startup refresh failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	consumeErr := make(chan error, 1)
	if consumer != nil {
		go func() {
			consumeErr <- consumer.ConsumeRefresh(ctx, func(msg *events.RefreshMessage) error {
				return w.HandleRefreshMessage(ctx, msg)
			})
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-consumeErr:
			return fmt.Errorf("consume refresh messages: %w", err)
		case <-ticker.C:
			if err := w.Refresh(ctx, w.fetchSize); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", "error", err)
			}
		}
	}
}
