package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/errs"
)

// budgetRequest is the typed request body for the budget upsert.
type budgetRequest struct {
	Category string        `json:"category"`
	Amount   *core.Money   `json:"amount"`
	Month    core.MonthKey `json:"month"`
}

func (req budgetRequest) toBudget() (core.Budget, error) {
	if req.Amount == nil {
		return core.Budget{}, errs.NewValidationError("Missing required fields")
	}
	return core.Budget{
		Category: req.Category,
		Amount:   *req.Amount,
		Month:    req.Month,
	}, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.budgets.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, budgets)
}

// handleUpsertBudget answers 201 when a new budget was created and 200 when
// an existing (category, month) budget was replaced.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	input, err := req.toBudget()
	if err != nil {
		respondError(w, r, err)
		return
	}

	budget, created, err := s.budgets.Upsert(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries()
	if created {
		respondJSON(w, http.StatusCreated, budget)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":   "Budget updated successfully",
		"_id":       budget.ID,
		"category":  budget.Category,
		"amount":    budget.Amount,
		"month":     budget.Month,
		"updatedAt": budget.UpdatedAt,
	})
}
