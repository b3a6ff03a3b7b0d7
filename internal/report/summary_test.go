package report

import (
	"testing"

	"finbot/internal/core"
)

func TestNewBalance(t *testing.T) {
	b := NewBalance(50000, 32000, 17)
	if b.Balance != 18000 {
		t.Errorf("Balance = %v, want 18000", b.Balance)
	}
	if b.Income != 50000 || b.Expense != 32000 || b.Count != 17 {
		t.Errorf("unexpected balance: %+v", b)
	}
}

func TestBudgetUtilization(t *testing.T) {
	tests := []struct {
		name           string
		budget, spent  float64
		wantRemaining  float64
		wantPercentage float64
	}{
		{"under budget", 50000, 20000, 30000, 40},
		{"over budget", 50000, 60000, -10000, 120},
		{"zero budget", 0, 1000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := BudgetUtilization(tt.budget, tt.spent)
			if info.Remaining != tt.wantRemaining {
				t.Errorf("Remaining = %v, want %v", info.Remaining, tt.wantRemaining)
			}
			if info.Percentage != tt.wantPercentage {
				t.Errorf("Percentage = %v, want %v", info.Percentage, tt.wantPercentage)
			}
		})
	}
}

func TestCategoryShares(t *testing.T) {
	total, shares := CategoryShares([]core.CategoryTotal{
		{Name: "🍔 Еда", Amount: 750, Count: 5},
		{Name: "🚗 Транспорт", Amount: 250, Count: 2},
	})

	if total != 1000 {
		t.Fatalf("total = %v", total)
	}
	if shares[0].Percentage != 75 || shares[1].Percentage != 25 {
		t.Errorf("percentages = %v, %v", shares[0].Percentage, shares[1].Percentage)
	}
	// storage ordering is preserved
	if shares[0].Name != "🍔 Еда" {
		t.Errorf("order changed: %v", shares[0].Name)
	}
}

func TestCategorySharesZeroTotal(t *testing.T) {
	total, shares := CategoryShares([]core.CategoryTotal{{Name: "x", Amount: 0}})
	if total != 0 {
		t.Fatalf("total = %v", total)
	}
	if shares[0].Percentage != 0 {
		t.Errorf("zero total must yield zero percentage")
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(8, 2026); got != "Авг 2026" {
		t.Errorf("MonthLabel = %q", got)
	}
	if got := MonthLabel(13, 2026); got != "13 2026" {
		t.Errorf("out-of-range month fallback = %q", got)
	}
}

func TestTrendPointsReversesToChronological(t *testing.T) {
	points := TrendPoints([]core.MonthTotal{
		{Month: 8, Year: 2026, Total: 300},
		{Month: 7, Year: 2026, Total: 200},
		{Month: 6, Year: 2026, Total: 100},
	})

	if len(points) != 3 {
		t.Fatalf("len = %d", len(points))
	}
	if points[0].Label != "Июн 2026" || points[2].Label != "Авг 2026" {
		t.Errorf("order wrong: %v", points)
	}
	if points[0].Total != 100 || points[2].Total != 300 {
		t.Errorf("totals wrong: %v", points)
	}
}
