// Package services provides business logic and orchestration services.
package services

import (
	"context"
	"errors"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/errs"
	"fintrack/internal/storage"

	"github.com/google/uuid"
)

// TransactionStore is the storage surface the transaction service needs.
type TransactionStore interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, t core.Transaction) (core.Transaction, int64, error)
	DeleteTransaction(ctx context.Context, id string) (int64, error)
	CountTransactions(ctx context.Context) (int64, error)
}

// EventPublisher publishes transaction change events. A nil publisher is
// valid and disables publishing.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id string, action amqp.EventAction) error
}

// TransactionService orchestrates transaction operations across SQLite and AMQP
type TransactionService struct {
	store     TransactionStore
	publisher EventPublisher
}

func NewTransactionService(store TransactionStore, publisher EventPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// List returns every transaction, newest date first.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, errs.NewStorageError("Failed to fetch transactions", err)
	}
	return transactions, nil
}

// Create validates and stores a new transaction, then publishes a created
// event. A publish failure never fails the request.
func (s *TransactionService) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := validateTransaction(t); err != nil {
		return core.Transaction{}, err
	}

	saved, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, errs.NewStorageError("Failed to save transaction", err)
	}

	s.publishEvent(ctx, saved.ID, amqp.ActionCreated)
	return saved, nil
}

// Get fetches a transaction by id.
func (s *TransactionService) Get(ctx context.Context, id string) (core.Transaction, error) {
	if err := validateID(id); err != nil {
		return core.Transaction{}, err
	}

	t, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Transaction{}, errs.NewNotFoundError("Transaction not found")
	}
	if err != nil {
		return core.Transaction{}, errs.NewStorageError("Failed to fetch transaction", err)
	}
	return t, nil
}

// Update replaces every user field of the transaction and returns the
// post-update document with the modified row count.
func (s *TransactionService) Update(ctx context.Context, id string, t core.Transaction) (core.Transaction, int64, error) {
	if err := validateID(id); err != nil {
		return core.Transaction{}, 0, err
	}
	if err := validateTransaction(t); err != nil {
		return core.Transaction{}, 0, err
	}

	updated, modified, err := s.store.UpdateTransaction(ctx, id, t)
	if errors.Is(err, storage.ErrNotFound) {
		return core.Transaction{}, 0, errs.NewNotFoundError("Transaction not found")
	}
	if err != nil {
		return core.Transaction{}, 0, errs.NewStorageError("Failed to update transaction", err)
	}

	s.publishEvent(ctx, id, amqp.ActionUpdated)
	return updated, modified, nil
}

// Delete removes the transaction and returns the deleted row count. A
// concurrent delete of the same id surfaces as NotFound, never as a silent
// success.
func (s *TransactionService) Delete(ctx context.Context, id string) (int64, error) {
	if err := validateID(id); err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteTransaction(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return 0, errs.NewNotFoundError("Transaction not found")
	}
	if err != nil {
		return 0, errs.NewStorageError("Failed to delete transaction", err)
	}

	s.publishEvent(ctx, id, amqp.ActionDeleted)
	return deleted, nil
}

// Count returns the number of stored transactions.
func (s *TransactionService) Count(ctx context.Context) (int64, error) {
	count, err := s.store.CountTransactions(ctx)
	if err != nil {
		return 0, errs.NewStorageError("Failed to count transactions", err)
	}
	return count, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, id string, action amqp.EventAction) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
		// Don't fail the request - the transaction is saved locally
	}
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidationError("Invalid or missing transaction ID")
	}
	return nil
}

// validateTransaction maps domain validation failures onto the user-facing
// messages the API has always returned.
func validateTransaction(t core.Transaction) error {
	err := t.Validate()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrInvalidAmount):
		return errs.NewValidationError("Amount must be greater than 0")
	case errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrMissingDate):
		return errs.NewValidationError("Missing required fields")
	default:
		return errs.NewValidationError(err.Error())
	}
}
