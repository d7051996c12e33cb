package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/errs"
)

type fakeBudgetStore struct {
	budgets  map[string]core.Budget // keyed by category|month
	failWith error
}

func newFakeBudgetStore() *fakeBudgetStore {
	return &fakeBudgetStore{budgets: make(map[string]core.Budget)}
}

func (f *fakeBudgetStore) ListBudgets(context.Context) ([]core.Budget, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]core.Budget, 0, len(f.budgets))
	for _, b := range f.budgets {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBudgetStore) UpsertBudget(_ context.Context, b core.Budget) (core.Budget, bool, error) {
	if f.failWith != nil {
		return core.Budget{}, false, f.failWith
	}
	key := b.Category + "|" + string(b.Month)
	now := time.Now().UTC()
	if existing, ok := f.budgets[key]; ok {
		existing.Amount = b.Amount
		existing.UpdatedAt = now.Add(time.Millisecond)
		f.budgets[key] = existing
		return existing, false, nil
	}
	b.ID = "33333333-3333-3333-3333-333333333333"
	b.CreatedAt = now
	b.UpdatedAt = now
	f.budgets[key] = b
	return b, true, nil
}

func validBudget() core.Budget {
	return core.Budget{
		Category: "Food",
		Amount:   core.Money{Cents: 50000},
		Month:    core.MonthKey("2026-03"),
	}
}

func TestBudgetService_UpsertCreateThenUpdate(t *testing.T) {
	store := newFakeBudgetStore()
	svc := NewBudgetService(store)
	ctx := context.Background()

	first, created, err := svc.Upsert(ctx, validBudget())
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}

	b := validBudget()
	b.Amount = core.Money{Cents: 60000}
	second, created, err := svc.Upsert(ctx, b)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if created {
		t.Error("expected second upsert to update")
	}
	if second.ID != first.ID {
		t.Errorf("id changed across upserts: %s then %s", first.ID, second.ID)
	}
	if second.Amount.Cents != 60000 {
		t.Errorf("amount = %d, want 60000", second.Amount.Cents)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("upsert must preserve createdAt")
	}
	if len(store.budgets) != 1 {
		t.Errorf("expected one budget, got %d", len(store.budgets))
	}
}

func TestBudgetService_UpsertValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*core.Budget)
		wantMsg string
	}{
		{
			name:    "missing category",
			mutate:  func(b *core.Budget) { b.Category = "" },
			wantMsg: "Missing required fields",
		},
		{
			name:    "zero amount",
			mutate:  func(b *core.Budget) { b.Amount = core.Money{} },
			wantMsg: "Amount must be greater than 0",
		},
		{
			name:    "negative amount",
			mutate:  func(b *core.Budget) { b.Amount = core.Money{Cents: -1} },
			wantMsg: "Amount must be greater than 0",
		},
		{
			name:    "missing month",
			mutate:  func(b *core.Budget) { b.Month = "" },
			wantMsg: "Missing required fields",
		},
		{
			name:    "malformed month",
			mutate:  func(b *core.Budget) { b.Month = "2026-3" },
			wantMsg: "Missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeBudgetStore()
			svc := NewBudgetService(store)

			b := validBudget()
			tt.mutate(&b)

			_, _, err := svc.Upsert(context.Background(), b)
			if !errs.IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if len(store.budgets) != 0 {
				t.Error("validation failure must not write a document")
			}
		})
	}
}

func TestBudgetService_StorageFailure(t *testing.T) {
	store := newFakeBudgetStore()
	store.failWith = errors.New("disk full")
	svc := NewBudgetService(store)

	if _, err := svc.List(context.Background()); !errs.IsStorageError(err) {
		t.Errorf("expected StorageError, got %v", err)
	}
	if _, _, err := svc.Upsert(context.Background(), validBudget()); !errs.IsStorageError(err) {
		t.Errorf("expected StorageError, got %v", err)
	}
}
