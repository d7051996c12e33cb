package http

import (
	"net/http"

	"fintrack/internal/core"
	"fintrack/internal/errs"
)

// transactionRequest is the typed request body for create and update. The
// amount is a pointer so a missing field is distinguishable from zero.
type transactionRequest struct {
	Amount      *core.Money          `json:"amount"`
	Description string               `json:"description"`
	Category    string               `json:"category"`
	Type        core.TransactionType `json:"type"`
	Date        core.Date            `json:"date"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	if req.Amount == nil {
		return core.Transaction{}, errs.NewValidationError("Missing required fields")
	}
	return core.Transaction{
		Amount:      *req.Amount,
		Description: req.Description,
		Category:    req.Category,
		Type:        req.Type,
		Date:        req.Date,
	}, nil
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.transactions.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	input, err := req.toTransaction()
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.transactions.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	transaction, err := s.transactions.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transaction)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	input, err := req.toTransaction()
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, modified, err := s.transactions.Update(r.Context(), r.PathValue("id"), input)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, map[string]any{
		"message":       "Transaction updated successfully",
		"modifiedCount": modified,
		"transaction":   updated,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.transactions.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries()
	respondJSON(w, http.StatusOK, map[string]any{
		"message":      "Transaction deleted successfully",
		"deletedCount": deleted,
	})
}

func (s *Server) handleDebugTransactions(w http.ResponseWriter, r *http.Request) {
	count, err := s.transactions.Count(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"collection": "transactions",
		"count":      count,
	})
}
