package services

import (
	"context"
	"errors"

	"fintrack/internal/core"
	"fintrack/internal/errs"
)

// BudgetStore is the storage surface the budget service needs.
type BudgetStore interface {
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, bool, error)
}

// BudgetService handles monthly category budgets.
type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// List returns every budget, newest month first.
func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, errs.NewStorageError("Failed to fetch budgets", err)
	}
	return budgets, nil
}

// Upsert creates or replaces the budget for (category, month). The second
// return reports whether a new budget was created.
func (s *BudgetService) Upsert(ctx context.Context, b core.Budget) (core.Budget, bool, error) {
	if err := validateBudget(b); err != nil {
		return core.Budget{}, false, err
	}

	stored, created, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, false, errs.NewStorageError("Failed to save budget", err)
	}
	return stored, created, nil
}

func validateBudget(b core.Budget) error {
	err := b.Validate()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrInvalidAmount):
		return errs.NewValidationError("Amount must be greater than 0")
	case errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidMonth):
		return errs.NewValidationError("Missing required fields")
	default:
		return errs.NewValidationError(err.Error())
	}
}
