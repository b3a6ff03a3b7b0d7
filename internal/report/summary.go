package report

import (
	"fmt"

	"finbot/internal/core"
)

// Balance is the all-time financial summary for one user.
type Balance struct {
	Income  float64
	Expense float64
	Balance float64
	Count   int64
}

// NewBalance derives the balance invariant from raw sums.
func NewBalance(income, expense float64, count int64) Balance {
	return Balance{
		Income:  income,
		Expense: expense,
		Balance: income - expense,
		Count:   count,
	}
}

// BudgetInfo describes monthly budget utilization.
type BudgetInfo struct {
	Budget     float64
	Spent      float64
	Remaining  float64
	Percentage float64
}

// BudgetUtilization computes utilization of a monthly budget against the
// current month's expense total. A zero budget yields zero percentage and
// zero remaining rather than a division fault.
func BudgetUtilization(budget, spent float64) BudgetInfo {
	info := BudgetInfo{Budget: budget, Spent: spent}
	if budget > 0 {
		info.Remaining = budget - spent
		info.Percentage = spent / budget * 100
	}
	return info
}

// CategoryShare is a category total with its percentage of the grand total.
type CategoryShare struct {
	Name       string
	Amount     float64
	Count      int64
	Percentage float64
}

// CategoryShares annotates category totals with percentages of the grand
// total, preserving the storage ordering (descending by amount). When the
// total is zero every share is 0%.
func CategoryShares(totals []core.CategoryTotal) (float64, []CategoryShare) {
	var total float64
	for _, ct := range totals {
		total += ct.Amount
	}

	shares := make([]CategoryShare, len(totals))
	for i, ct := range totals {
		share := CategoryShare{Name: ct.Name, Amount: ct.Amount, Count: ct.Count}
		if total > 0 {
			share.Percentage = ct.Amount / total * 100
		}
		shares[i] = share
	}
	return total, shares
}

// TrendPoint is one month of the expense trend.
type TrendPoint struct {
	Label string
	Total float64
}

var monthAbbrevs = [...]string{
	"Янв", "Фев", "Мар", "Апр", "Май", "Июн",
	"Июл", "Авг", "Сен", "Окт", "Ноя", "Дек",
}

// MonthLabel renders a localized month abbreviation with the year.
func MonthLabel(month, year int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%02d %d", month, year)
	}
	return fmt.Sprintf("%s %d", monthAbbrevs[month-1], year)
}

// TrendPoints converts newest-first month totals from storage into a
// chronologically ascending labeled series.
func TrendPoints(rows []core.MonthTotal) []TrendPoint {
	points := make([]TrendPoint, len(rows))
	for i, mt := range rows {
		points[len(rows)-1-i] = TrendPoint{
			Label: MonthLabel(mt.Month, mt.Year),
			Total: mt.Total,
		}
	}
	return points
}
