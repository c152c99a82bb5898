// Package storage keeps an offline SQLite mirror of the transaction
// history so dashboards keep rendering when the tracker API is down.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/aggregate"
	"github.com/monukmodi/smart-expense-tracker-client/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ aggregate.TransactionSource = (*SQLiteRepository)(nil)

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

	if err := RunMigrations(dbPath); err != nil {
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

// ReplaceAll swaps the mirror content atomically for the given snapshot and
// records the sync watermark.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, txs []core.Transaction, fetchedAt time.Time) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear mirror: %w", err)
	}

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (id, amount_cents, date, created_at, category, note)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.ExecContext(ctx, tx.ID, tx.Amount.Cents,
			encodeTime(tx.Date), encodeTime(tx.CreatedAt), tx.Category, tx.Note)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
		}
	}

	_, err = dbTx.ExecContext(ctx, `
		INSERT INTO sync_state (id, synced_at) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET synced_at = excluded.synced_at`,
		encodeTime(fetchedAt))
	if err != nil {
		return fmt.Errorf("record sync watermark: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirror replaced",
		"count", len(txs),
		"fetched_at", fetchedAt.Format(time.RFC3339))
	return nil
}

// List implements aggregate.TransactionSource: up to size rows, most recent
// effective date first.
func (r *SQLiteRepository) List(ctx context.Context, size int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, date, created_at, category, note
		FROM transactions
		ORDER BY CASE WHEN date != '' THEN date ELSE created_at END DESC
		LIMIT ?`, size)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var tx core.Transaction
		var date, createdAt string
		if err := rows.Scan(&tx.ID, &tx.Amount.Cents, &date, &createdAt, &tx.Category, &tx.Note); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date = decodeTime(date)
		tx.CreatedAt = decodeTime(createdAt)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Prune drops rows whose effective date is before the cutoff.
func (r *SQLiteRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE CASE WHEN date != '' THEN date ELSE created_at END < ?`,
		encodeTime(before))
	if err != nil {
		return 0, fmt.Errorf("prune transactions: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		slog.InfoContext(ctx, "Pruned stale mirror rows", "count", n)
	}
	return n, nil
}

// LastSyncedAt returns the watermark of the last successful mirror, or the
// zero time when the mirror has never synced.
func (r *SQLiteRepository) LastSyncedAt(ctx context.Context) (time.Time, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read sync watermark: %w", err)
	}
	return decodeTime(raw), nil
}

// Timestamps are stored as UTC RFC 3339 text; the zero time round-trips
// as "". The layout keeps all nine fractional digits so the text sorts
// lexicographically even across sub-second values, which the effective-date
// queries rely on. RFC3339Nano would trim trailing zeros and break that
// ("...:05Z" sorts after "...:05.5Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func encodeTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(timeLayout)
}

func decodeTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}
