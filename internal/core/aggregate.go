package core

import (
	"sort"
	"time"
)

// Budget health classification, derived from the raw spent/budget ratio.
const (
	StatusGood    BudgetStatus = "good"
	StatusWarning BudgetStatus = "warning"
	StatusOver    BudgetStatus = "over"
)

type (
	BudgetStatus string

	// TrendPoint is one month of the income/expense trend.
	TrendPoint struct {
		Month    MonthKey `json:"month"`
		Label    string   `json:"label"`
		Income   Money    `json:"income"`
		Expenses Money    `json:"expenses"`
	}

	// CategoryTotal is an expense sum aggregated by category.
	CategoryTotal struct {
		Category string `json:"category"`
		Total    Money  `json:"total"`
	}

	// BudgetReport compares one budget against the month's actual spend.
	// Percentage is the raw spent/budget ratio in percent, unbounded above;
	// clamping for progress bars is a rendering concern.
	BudgetReport struct {
		Category   string       `json:"category"`
		Budget     Money        `json:"budget"`
		Spent      Money        `json:"spent"`
		Remaining  Money        `json:"remaining"`
		Percentage float64      `json:"percentage"`
		Status     BudgetStatus `json:"status"`
	}
)

// trendMonths is the trailing window covered by MonthlyTrend.
const trendMonths = 6

// MonthlyTrend buckets transactions into income and expense sums for the
// trailing six calendar months ending at now, current partial month included.
// The result always has exactly six entries in chronological order; months
// without transactions carry zero sums.
func MonthlyTrend(transactions []Transaction, now time.Time) []TrendPoint {
	points := make([]TrendPoint, 0, trendMonths)
	index := make(map[MonthKey]int, trendMonths)

	first := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := trendMonths - 1; i >= 0; i-- {
		month := MonthOf(first.AddDate(0, -i, 0))
		index[month] = len(points)
		points = append(points, TrendPoint{Month: month, Label: month.Label()})
	}

	for _, t := range transactions {
		i, ok := index[t.Date.MonthKey()]
		if !ok {
			continue
		}
		if t.Type == Expense {
			points[i].Expenses.Cents += t.Amount.Cents
		} else {
			points[i].Income.Cents += t.Amount.Cents
		}
	}

	return points
}

// CategoryTotals sums expense transactions of the given month per category,
// sorted by total descending with a lexicographic tiebreak.
func CategoryTotals(transactions []Transaction, month MonthKey) []CategoryTotal {
	sums := make(map[string]int64)
	for _, t := range transactions {
		if t.Type != Expense || t.Date.MonthKey() != month {
			continue
		}
		sums[t.Category] += t.Amount.Cents
	}

	totals := make([]CategoryTotal, 0, len(sums))
	for category, cents := range sums {
		totals = append(totals, CategoryTotal{Category: category, Total: Money{Cents: cents}})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Total.Cents != totals[j].Total.Cents {
			return totals[i].Total.Cents > totals[j].Total.Cents
		}
		return totals[i].Category < totals[j].Category
	})
	return totals
}

// TopCategory returns the category with the largest expense sum in the month.
// Ties break lexicographically. The second return is false when the month has
// no expenses.
func TopCategory(transactions []Transaction, month MonthKey) (CategoryTotal, bool) {
	totals := CategoryTotals(transactions, month)
	if len(totals) == 0 {
		return CategoryTotal{}, false
	}
	return totals[0], true
}

// MonthTotals returns the month's income and expense sums.
func MonthTotals(transactions []Transaction, month MonthKey) (income, expenses Money) {
	for _, t := range transactions {
		if t.Date.MonthKey() != month {
			continue
		}
		if t.Type == Expense {
			expenses.Cents += t.Amount.Cents
		} else {
			income.Cents += t.Amount.Cents
		}
	}
	return income, expenses
}

// CompareBudgets builds a report for every budget of the month, in the order
// the budgets were given. Spend is restricted to expense transactions of the
// budget's category within that month.
func CompareBudgets(budgets []Budget, transactions []Transaction, month MonthKey) []BudgetReport {
	reports := make([]BudgetReport, 0, len(budgets))
	for _, b := range budgets {
		if b.Month != month {
			continue
		}
		var spent int64
		for _, t := range transactions {
			if t.Type == Expense && t.Category == b.Category && t.Date.MonthKey() == month {
				spent += t.Amount.Cents
			}
		}
		reports = append(reports, BudgetReport{
			Category:   b.Category,
			Budget:     b.Amount,
			Spent:      Money{Cents: spent},
			Remaining:  Money{Cents: max64(0, b.Amount.Cents-spent)},
			Percentage: percentage(spent, b.Amount.Cents),
			Status:     classify(percentage(spent, b.Amount.Cents)),
		})
	}
	return reports
}

// RecentTransactions returns the n most-recently-dated transactions of the
// month, newest first. Equal dates keep their input order.
func RecentTransactions(transactions []Transaction, month MonthKey, n int) []Transaction {
	recent := make([]Transaction, 0, n)
	for _, t := range transactions {
		if t.Date.MonthKey() == month {
			recent = append(recent, t)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date.Time)
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent
}

func percentage(spent, budget int64) float64 {
	if budget <= 0 {
		return 0
	}
	return float64(spent) / float64(budget) * 100
}

// classify uses strict comparisons so exactly 80% is good and exactly 100%
// is warning.
func classify(pct float64) BudgetStatus {
	switch {
	case pct > 100:
		return StatusOver
	case pct > 80:
		return StatusWarning
	default:
		return StatusGood
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
