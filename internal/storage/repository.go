package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Sync states for the spreadsheet export worker.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// ErrNotFound reports that no row matched the given id or key.
var ErrNotFound = errors.New("document not found")

type SQLiteRepository struct {
	db *sql.DB
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

// Ping verifies database connectivity, for readiness checks.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const transactionColumns = "id, amount_cents, description, category, type, date, created_at, updated_at"

// ListTransactions returns every transaction ordered by date descending.
func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// InsertTransaction stores a new transaction and returns it with the
// assigned id and timestamps.
func (r *SQLiteRepository) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount_cents, description, category, type, date, created_at, updated_at, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.Cents, t.Description, t.Category, string(t.Type),
		t.Date.UnixMilli(), now.UnixMilli(), now.UnixMilli(), SyncPending)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"type", t.Type,
		"category", t.Category)

	return t, nil
}

// GetTransaction fetches one transaction by id. Returns ErrNotFound when no
// row matches.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

// UpdateTransaction replaces every user-settable field of the row in one
// conditional statement; a zero row count means the id does not exist, so
// there is no separate existence check to race against. It returns the
// post-update document and the number of modified rows.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id string, t core.Transaction) (core.Transaction, int64, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, description = ?, category = ?, type = ?, date = ?, updated_at = ?, sync_status = ?
		 WHERE id = ?`,
		t.Amount.Cents, t.Description, t.Category, string(t.Type),
		t.Date.UnixMilli(), now.UnixMilli(), SyncPending, id)
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("update transaction %s: %w", id, err)
	}
	modified, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, 0, fmt.Errorf("update transaction %s: %w", id, err)
	}
	if modified == 0 {
		return core.Transaction{}, 0, ErrNotFound
	}

	updated, err := r.GetTransaction(ctx, id)
	if err != nil {
		return core.Transaction{}, 0, err
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "modified", modified)
	return updated, modified, nil
}

// DeleteTransaction removes the row in one conditional statement and returns
// the deleted count; ErrNotFound when the id never existed or was removed by
// a concurrent caller.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete transaction %s: %w", id, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return deleted, nil
}

// CountTransactions returns the number of stored transactions.
func (r *SQLiteRepository) CountTransactions(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

// ListBudgets returns every budget ordered by month descending.
func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, amount_cents, month, created_at, updated_at
		 FROM budgets ORDER BY month DESC, category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]core.Budget, 0)
	for rows.Next() {
		var (
			b                    core.Budget
			month                string
			createdMs, updatedMs int64
		)
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &month, &createdMs, &updatedMs); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		b.Month = core.MonthKey(month)
		b.CreatedAt = time.UnixMilli(createdMs).UTC()
		b.UpdatedAt = time.UnixMilli(updatedMs).UTC()
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

// UpsertBudget inserts or updates the budget for (category, month) in a
// single statement, relying on the unique index instead of a lookup before
// the write. The second return reports whether a new row was created, which
// falls out of the stored timestamps: an insert leaves created_at equal to
// updated_at, an update moves updated_at forward.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, bool, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO budgets (id, category, amount_cents, month, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (category, month) DO UPDATE
		 SET amount_cents = excluded.amount_cents, updated_at = excluded.updated_at
		 RETURNING id, category, amount_cents, month, created_at, updated_at`,
		uuid.NewString(), b.Category, b.Amount.Cents, string(b.Month),
		now.UnixMilli(), now.UnixMilli())

	var (
		stored               core.Budget
		month                string
		createdMs, updatedMs int64
	)
	if err := row.Scan(&stored.ID, &stored.Category, &stored.Amount.Cents, &month, &createdMs, &updatedMs); err != nil {
		return core.Budget{}, false, fmt.Errorf("upsert budget %s/%s: %w", b.Category, b.Month, err)
	}
	stored.Month = core.MonthKey(month)
	stored.CreatedAt = time.UnixMilli(createdMs).UTC()
	stored.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	created := createdMs == updatedMs

	slog.InfoContext(ctx, "Budget upserted",
		"id", stored.ID,
		"category", stored.Category,
		"month", stored.Month,
		"amount_cents", stored.Amount.Cents,
		"created", created)

	return stored, created, nil
}

// GetPendingSyncTransactions returns transactions awaiting spreadsheet
// export, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE sync_status = ? ORDER BY created_at ASC LIMIT ?",
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]core.Transaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	return transactions, nil
}

// MarkSynced records a successful spreadsheet export.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	return r.setSyncStatus(ctx, id, SyncDone)
}

// MarkSyncError records a failed spreadsheet export so the periodic sweep
// can skip the row instead of retrying it forever.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	return r.setSyncStatus(ctx, id, SyncError)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, id, status string) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET sync_status = ? WHERE id = ?", status, id); err != nil {
		return fmt.Errorf("set sync status %s for %s: %w", status, id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                            core.Transaction
		txType                       string
		dateMs, createdMs, updatedMs int64
	)
	if err := row.Scan(&t.ID, &t.Amount.Cents, &t.Description, &t.Category,
		&txType, &dateMs, &createdMs, &updatedMs); err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.TransactionType(txType)
	t.Date = core.Date{Time: time.UnixMilli(dateMs).UTC()}
	t.CreatedAt = time.UnixMilli(createdMs).UTC()
	t.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return t, nil
}
