package core

import (
	"testing"
	"time"
)

func expense(cents int64, category string, date Date) Transaction {
	return Transaction{
		Amount:      Money{Cents: cents},
		Description: category + " purchase",
		Category:    category,
		Type:        Expense,
		Date:        date,
	}
}

func income(cents int64, date Date) Transaction {
	return Transaction{
		Amount:      Money{Cents: cents},
		Description: "Salary",
		Category:    "Salary",
		Type:        Income,
		Date:        date,
	}
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	transactions := []Transaction{
		income(300000, NewDate(2026, 3, 1)),
		expense(12000, "Food", NewDate(2026, 3, 10)),
		expense(8000, "Food", NewDate(2026, 1, 5)),
		// Outside the six-month window, must be ignored.
		expense(99999, "Food", NewDate(2025, 9, 1)),
		expense(99999, "Food", NewDate(2026, 4, 1)),
	}

	trend := MonthlyTrend(transactions, now)
	if len(trend) != 6 {
		t.Fatalf("trend length = %d, want 6", len(trend))
	}

	wantMonths := []MonthKey{"2025-10", "2025-11", "2025-12", "2026-01", "2026-02", "2026-03"}
	for i, want := range wantMonths {
		if trend[i].Month != want {
			t.Errorf("trend[%d].Month = %q, want %q", i, trend[i].Month, want)
		}
	}

	if trend[5].Income.Cents != 300000 || trend[5].Expenses.Cents != 12000 {
		t.Errorf("current month = %+v", trend[5])
	}
	if trend[3].Expenses.Cents != 8000 {
		t.Errorf("january expenses = %d, want 8000", trend[3].Expenses.Cents)
	}
	// Empty months stay at zero rather than being dropped.
	if trend[0].Income.Cents != 0 || trend[0].Expenses.Cents != 0 {
		t.Errorf("empty month carries sums: %+v", trend[0])
	}
	if trend[5].Label != "Mar 2026" {
		t.Errorf("label = %q", trend[5].Label)
	}
}

func TestCategoryTotals(t *testing.T) {
	month := MonthKey("2026-03")
	transactions := []Transaction{
		expense(5000, "Food", NewDate(2026, 3, 1)),
		expense(7000, "Food", NewDate(2026, 3, 12)),
		expense(12000, "Rent", NewDate(2026, 3, 1)),
		expense(12000, "Car", NewDate(2026, 3, 2)),
		// Income and other months never count toward category totals.
		income(500000, NewDate(2026, 3, 1)),
		expense(9999, "Food", NewDate(2026, 2, 28)),
	}

	totals := CategoryTotals(transactions, month)
	if len(totals) != 3 {
		t.Fatalf("totals length = %d, want 3", len(totals))
	}
	// All three tie at 12000, so the lexicographic tiebreak decides the order.
	want := []CategoryTotal{
		{Category: "Car", Total: Money{Cents: 12000}},
		{Category: "Food", Total: Money{Cents: 12000}},
		{Category: "Rent", Total: Money{Cents: 12000}},
	}
	for i, w := range want {
		if totals[i] != w {
			t.Errorf("totals[%d] = %+v, want %+v", i, totals[i], w)
		}
	}

	top, ok := TopCategory(transactions, month)
	if !ok || top.Category != "Car" {
		t.Errorf("TopCategory = %+v, %v", top, ok)
	}

	if _, ok := TopCategory(nil, month); ok {
		t.Error("TopCategory on no expenses should report false")
	}
}

func TestMonthTotals(t *testing.T) {
	month := MonthKey("2026-03")
	transactions := []Transaction{
		income(300000, NewDate(2026, 3, 1)),
		expense(12000, "Food", NewDate(2026, 3, 10)),
		expense(8000, "Rent", NewDate(2026, 3, 1)),
		expense(9999, "Food", NewDate(2026, 2, 1)),
	}

	in, out := MonthTotals(transactions, month)
	if in.Cents != 300000 {
		t.Errorf("income = %d, want 300000", in.Cents)
	}
	if out.Cents != 20000 {
		t.Errorf("expenses = %d, want 20000", out.Cents)
	}
}

func TestCompareBudgets(t *testing.T) {
	month := MonthKey("2026-03")
	budgets := []Budget{
		{Category: "Food", Amount: Money{Cents: 100000}, Month: month},
		{Category: "Rent", Amount: Money{Cents: 50000}, Month: month},
		{Category: "Fun", Amount: Money{Cents: 10000}, Month: month},
		{Category: "Other", Amount: Money{Cents: 10000}, Month: "2026-02"},
	}
	transactions := []Transaction{
		expense(50000, "Food", NewDate(2026, 3, 5)),
		expense(40000, "Rent", NewDate(2026, 3, 1)),
		expense(15000, "Fun", NewDate(2026, 3, 20)),
	}

	reports := CompareBudgets(budgets, transactions, month)
	if len(reports) != 3 {
		t.Fatalf("reports length = %d, want 3", len(reports))
	}

	food := reports[0]
	if food.Percentage != 50 || food.Status != StatusGood || food.Remaining.Cents != 50000 {
		t.Errorf("food report = %+v", food)
	}

	rent := reports[1]
	if rent.Percentage != 80 || rent.Status != StatusGood {
		t.Errorf("rent report = %+v, want exactly 80%% classified good", rent)
	}

	fun := reports[2]
	if fun.Status != StatusOver {
		t.Errorf("fun status = %q, want over", fun.Status)
	}
	if fun.Remaining.Cents != 0 {
		t.Errorf("overspent remaining = %d, want clamped to 0", fun.Remaining.Cents)
	}
	if fun.Percentage != 150 {
		t.Errorf("fun percentage = %v, want raw 150", fun.Percentage)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want BudgetStatus
	}{
		{0, StatusGood},
		{80, StatusGood},
		{80.01, StatusWarning},
		{100, StatusWarning},
		{100.01, StatusOver},
	}
	for _, tt := range tests {
		if got := classify(tt.pct); got != tt.want {
			t.Errorf("classify(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestRecentTransactions(t *testing.T) {
	month := MonthKey("2026-03")
	var transactions []Transaction
	for day := 1; day <= 8; day++ {
		transactions = append(transactions, expense(int64(day*100), "Food", NewDate(2026, 3, day)))
	}
	transactions = append(transactions, expense(9999, "Food", NewDate(2026, 2, 28)))

	recent := RecentTransactions(transactions, month, 5)
	if len(recent) != 5 {
		t.Fatalf("recent length = %d, want 5", len(recent))
	}
	for i := 0; i < len(recent)-1; i++ {
		if recent[i].Date.Before(recent[i+1].Date.Time) {
			t.Fatalf("recent not ordered newest first: %v before %v", recent[i].Date, recent[i+1].Date)
		}
	}
	if recent[0].Date.Day() != 8 {
		t.Errorf("newest date day = %d, want 8", recent[0].Date.Day())
	}

	// Equal dates keep their input order.
	same := []Transaction{
		expense(100, "A", NewDate(2026, 3, 10)),
		expense(200, "B", NewDate(2026, 3, 10)),
	}
	stable := RecentTransactions(same, month, 5)
	if stable[0].Category != "A" || stable[1].Category != "B" {
		t.Errorf("equal-date order not stable: %v", stable)
	}
}
