package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
	"fintrack/internal/storage"
)

// SyncStore is the storage surface the worker needs.
type SyncStore interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id string) error
	MarkSyncError(ctx context.Context, id string) error
}

// SyncWorker mirrors transactions from SQLite to a spreadsheet.
type SyncWorker struct {
	storage   SyncStore
	sheets    sheets.TransactionAppender
	batchSize int
}

func NewSyncWorker(storage SyncStore, sheets sheets.TransactionAppender, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single transaction event from AMQP.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"id", event.ID,
		"action", event.Action)

	// A deleted transaction has no row left to export; the event is only
	// acknowledged.
	if event.Action == amqp.ActionDeleted {
		slog.InfoContext(ctx, "Transaction deleted upstream, nothing to export", "id", event.ID)
		return nil
	}

	transaction, err := w.storage.GetTransaction(ctx, event.ID)
	if err != nil {
		// The row can be gone by the time the event arrives (created then
		// deleted before the worker caught up). Requeueing would redeliver
		// the message forever, so acknowledge and move on.
		if errors.Is(err, storage.ErrNotFound) {
			slog.InfoContext(ctx, "Transaction no longer exists, skipping export", "id", event.ID)
			return nil
		}
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportTransaction(ctx, transaction); err != nil {
		return fmt.Errorf("export transaction: %w", err)
	}

	return nil
}

// ProcessPending exports any transactions that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, transaction := range pending {
		if err := w.exportTransaction(ctx, transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"id", transaction.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck exports pending transactions at worker startup, with a
// larger batch to recover from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, transaction := range pending {
		if err := w.exportTransaction(ctx, transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", transaction.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) exportTransaction(ctx context.Context, t core.Transaction) error {
	rowRef, err := w.sheets.Append(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported to sheet",
		"id", t.ID,
		"row_ref", rowRef)

	return nil
}
