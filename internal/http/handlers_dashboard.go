package http

import (
	"net/http"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/errs"
	applog "fintrack/internal/log"
)

// DashboardSummary is the per-month view model assembled from the full
// transaction and budget lists.
type DashboardSummary struct {
	Month          core.MonthKey        `json:"month"`
	Label          string               `json:"label"`
	Income         core.Money           `json:"income"`
	Expenses       core.Money           `json:"expenses"`
	Trend          []core.TrendPoint    `json:"trend"`
	CategoryTotals []core.CategoryTotal `json:"categoryTotals"`
	Budgets        []core.BudgetReport  `json:"budgets"`
	TopCategory    *core.CategoryTotal  `json:"topCategory,omitempty"`
	Recent         []core.Transaction   `json:"recentTransactions"`
}

// handleDashboard serves the aggregated month view. The month query
// parameter defaults to the current month.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	month := core.MonthKey(strings.TrimSpace(r.URL.Query().Get("month")))
	if month == "" {
		month = core.MonthOf(time.Now())
	}
	if err := month.Validate(); err != nil {
		respondError(w, r, errs.NewValidationError("Invalid month format, expected YYYY-MM"))
		return
	}

	if summary, ok := s.summaryCache.Get(string(month)); ok {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard summary cache hit",
			applog.FieldMonth, month)
		respondJSON(w, http.StatusOK, summary)
		return
	}

	transactions, err := s.transactions.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	budgets, err := s.budgets.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	summary := buildSummary(transactions, budgets, month, time.Now())
	s.summaryCache.Set(string(month), summary)
	respondJSON(w, http.StatusOK, summary)
}

func buildSummary(transactions []core.Transaction, budgets []core.Budget, month core.MonthKey, now time.Time) DashboardSummary {
	income, expenses := core.MonthTotals(transactions, month)

	summary := DashboardSummary{
		Month:          month,
		Label:          month.Label(),
		Income:         income,
		Expenses:       expenses,
		Trend:          core.MonthlyTrend(transactions, now),
		CategoryTotals: core.CategoryTotals(transactions, month),
		Budgets:        core.CompareBudgets(budgets, transactions, month),
		Recent:         core.RecentTransactions(transactions, month, 5),
	}

	if top, ok := core.TopCategory(transactions, month); ok {
		summary.TopCategory = &top
	}

	return summary
}
