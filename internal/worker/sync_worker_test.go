package worker

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type fakeSyncStore struct {
	transactions map[string]core.Transaction
	synced       []string
	errored      []string
	getErr       error
}

func newFakeSyncStore(transactions ...core.Transaction) *fakeSyncStore {
	f := &fakeSyncStore{transactions: make(map[string]core.Transaction)}
	for _, t := range transactions {
		f.transactions[t.ID] = t
	}
	return f
}

func (f *fakeSyncStore) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	if f.getErr != nil {
		return core.Transaction{}, f.getErr
	}
	t, ok := f.transactions[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return t, nil
}

func (f *fakeSyncStore) GetPendingSyncTransactions(_ context.Context, limit int) ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(f.transactions))
	for _, t := range f.transactions {
		if len(out) == limit {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeSyncStore) MarkSynced(_ context.Context, id string) error {
	f.synced = append(f.synced, id)
	delete(f.transactions, id)
	return nil
}

func (f *fakeSyncStore) MarkSyncError(_ context.Context, id string) error {
	f.errored = append(f.errored, id)
	delete(f.transactions, id)
	return nil
}

type fakeAppender struct {
	appended []string
	err      error
}

func (f *fakeAppender) Append(_ context.Context, t core.Transaction) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, t.ID)
	return "Transactions!A2:E2", nil
}

func syncableTransaction(id string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Amount:      core.Money{Cents: 1200},
		Description: "Coffee",
		Category:    "Food",
		Type:        core.Expense,
		Date:        core.NewDate(2026, 3, 5),
	}
}

func TestHandleEventExports(t *testing.T) {
	tx := syncableTransaction("tx-1")
	store := newFakeSyncStore(tx)
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	event := amqp.NewTransactionEvent(tx.ID, amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	if len(appender.appended) != 1 || appender.appended[0] != tx.ID {
		t.Errorf("expected export of %s, got %v", tx.ID, appender.appended)
	}
	if len(store.synced) != 1 || store.synced[0] != tx.ID {
		t.Errorf("expected %s marked synced, got %v", tx.ID, store.synced)
	}
}

func TestHandleEventDeletedIsNoop(t *testing.T) {
	store := newFakeSyncStore()
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	event := amqp.NewTransactionEvent("gone", amqp.ActionDeleted)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("deleted event must not export, got %v", appender.appended)
	}
}

func TestHandleEventVanishedTransactionIsNoop(t *testing.T) {
	// A transaction can be created and deleted before the worker processes
	// the create event. The event must be acknowledged, not redelivered.
	appender := &fakeAppender{}
	w := NewSyncWorker(newFakeSyncStore(), appender, 10)

	event := amqp.NewTransactionEvent("missing", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("HandleEvent on vanished transaction: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Errorf("vanished transaction must not export, got %v", appender.appended)
	}
}

func TestHandleEventStoreFailure(t *testing.T) {
	store := newFakeSyncStore()
	store.getErr = errors.New("database is locked")
	w := NewSyncWorker(store, &fakeAppender{}, 10)

	event := amqp.NewTransactionEvent("tx-1", amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Error("expected error when storage fails")
	}
}

func TestHandleEventAppendFailureMarksError(t *testing.T) {
	tx := syncableTransaction("tx-1")
	store := newFakeSyncStore(tx)
	appender := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(store, appender, 10)

	event := amqp.NewTransactionEvent(tx.ID, amqp.ActionCreated)
	if err := w.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected error when append fails")
	}
	if len(store.errored) != 1 || store.errored[0] != tx.ID {
		t.Errorf("expected %s marked errored, got %v", tx.ID, store.errored)
	}
	if len(store.synced) != 0 {
		t.Errorf("failed export must not mark synced, got %v", store.synced)
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeSyncStore(
		syncableTransaction("tx-1"),
		syncableTransaction("tx-2"),
		syncableTransaction("tx-3"),
	)
	appender := &fakeAppender{}
	w := NewSyncWorker(store, appender, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if len(store.synced) != 3 {
		t.Errorf("expected 3 synced, got %d", len(store.synced))
	}
}

func TestProcessPendingEmpty(t *testing.T) {
	w := NewSyncWorker(newFakeSyncStore(), &fakeAppender{}, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
}

func TestStartupSyncCheckContinuesPastFailures(t *testing.T) {
	store := newFakeSyncStore(
		syncableTransaction("tx-1"),
		syncableTransaction("tx-2"),
	)
	appender := &fakeAppender{err: errors.New("quota exceeded")}
	w := NewSyncWorker(store, appender, 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(store.errored) != 2 {
		t.Errorf("expected both rows marked errored, got %v", store.errored)
	}
}
