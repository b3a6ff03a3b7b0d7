package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finbot/internal/core"
	"finbot/internal/render"
	"finbot/internal/report"
	"finbot/internal/storage"
)

// Empty-window sentinels. Each contains render.NoOperationsMarker, which
// the journal mirror relies on to skip empty daily reports.
const (
	NoDailyOperations   = "Сегодня " + render.NoOperationsMarker + "."
	NoWeeklyOperations  = "За эту неделю " + render.NoOperationsMarker + "."
	NoMonthlyOperations = "За этот месяц " + render.NoOperationsMarker + "."
)

// ReportService assembles the read-side texts and figures: periodic
// reports, balance and budget summaries, category statistics, search and
// the chart bundle.
type ReportService struct {
	storage *storage.SQLiteRepository
}

func NewReportService(storage *storage.SQLiteRepository) *ReportService {
	return &ReportService{storage: storage}
}

// DailyReportText renders the detailed report for the calendar day
// containing day, or the empty-day sentinel.
func (s *ReportService) DailyReportText(ctx context.Context, userID int64, day time.Time) (string, error) {
	start, end := report.DayWindow(day)
	txs, err := s.storage.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("daily report: %w", err)
	}
	if len(txs) == 0 {
		return NoDailyOperations, nil
	}
	title := fmt.Sprintf("📊 Отчёт за день %s:", day.Format("02.01.2006"))
	return render.DetailedReport(title, txs), nil
}

// WeeklyReportText renders the detailed report for the ISO week containing
// now, or the empty-week sentinel.
func (s *ReportService) WeeklyReportText(ctx context.Context, userID int64, now time.Time) (string, error) {
	start, end := report.WeekWindow(now)
	txs, err := s.storage.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("weekly report: %w", err)
	}
	if len(txs) == 0 {
		return NoWeeklyOperations, nil
	}
	return render.DetailedReport("📆 Отчёт за неделю (Пн–Вс):", txs), nil
}

// MonthlyReportText renders the detailed report for the calendar month
// containing now, or the empty-month sentinel.
func (s *ReportService) MonthlyReportText(ctx context.Context, userID int64, now time.Time) (string, error) {
	start, end := report.MonthWindow(now)
	txs, err := s.storage.ListTransactions(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("monthly report: %w", err)
	}
	if len(txs) == 0 {
		return NoMonthlyOperations, nil
	}
	return render.DetailedReport("🗓 Отчёт за месяц:", txs), nil
}

// Balance returns the all-time income, expense, balance and operation
// count.
func (s *ReportService) Balance(ctx context.Context, userID int64) (report.Balance, error) {
	totals, err := s.storage.UserTotals(ctx, userID)
	if err != nil {
		return report.Balance{}, fmt.Errorf("balance: %w", err)
	}
	return report.NewBalance(totals.Income, totals.Expense, totals.Count), nil
}

// Budget returns monthly budget utilization against the current month's
// expenses.
func (s *ReportService) Budget(ctx context.Context, userID int64, monthlyBudget float64, now time.Time) (report.BudgetInfo, error) {
	start, end := report.MonthWindow(now)
	spent, err := s.storage.SumKind(ctx, userID, core.KindExpense, start, end)
	if err != nil {
		return report.BudgetInfo{}, fmt.Errorf("budget info: %w", err)
	}
	return report.BudgetUtilization(monthlyBudget, spent), nil
}

// CategoryStats returns the current month's per-category totals of one
// kind with their shares of the grand total, largest first.
func (s *ReportService) CategoryStats(ctx context.Context, userID int64, kind core.Kind, now time.Time) (float64, []report.CategoryShare, error) {
	start, end := report.MonthWindow(now)
	totals, err := s.storage.CategoryTotals(ctx, userID, kind, start, end)
	if err != nil {
		return 0, nil, fmt.Errorf("category stats: %w", err)
	}
	total, shares := report.CategoryShares(totals)
	return total, shares, nil
}

// Search parses the raw query and returns matching transactions, newest
// first.
func (s *ReportService) Search(ctx context.Context, userID int64, query string) ([]core.Transaction, error) {
	filter := report.ParseQuery(query)
	txs, err := s.storage.SearchTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return txs, nil
}

// LastTransactions returns the newest transactions, capped at limit.
func (s *ReportService) LastTransactions(ctx context.Context, userID int64, limit int) ([]core.Transaction, error) {
	txs, err := s.storage.LastTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("last transactions: %w", err)
	}
	return txs, nil
}

// ChartsText assembles the full chart bundle: thirty days of expense bars,
// category breakdowns, the month's income-vs-expense comparison and the
// six-month expense trend.
func (s *ReportService) ChartsText(ctx context.Context, userID int64, now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("\n🎯 ГРАФИКИ И СТАТИСТИКА\n")
	b.WriteString(strings.Repeat("═", 40))
	b.WriteString("\n")

	from, to := report.LastDaysWindow(now, 30)
	daily, err := s.storage.DailyExpenseTotals(ctx, userID, from, to)
	if err != nil {
		return "", fmt.Errorf("charts daily totals: %w", err)
	}
	if len(daily) > 0 {
		entries := make([]render.Entry, len(daily))
		for i, d := range daily {
			entries[i] = render.Entry{Label: d.Date.Format("02.01"), Value: d.Total}
		}
		b.WriteString(render.DailyBarChart("Расходы по дням (30 дней)", entries))
	} else {
		b.WriteString("\n📅 Расходы по дням: Нет данных\n")
	}

	expenseDist, err := s.storage.CategoryDistribution(ctx, userID, core.KindExpense)
	if err != nil {
		return "", fmt.Errorf("charts expense distribution: %w", err)
	}
	if len(expenseDist) > 0 {
		b.WriteString(render.PieChart("Расходы по категориям", categoryEntries(expenseDist)))
	} else {
		b.WriteString("\n📊 Расходы по категориям: Нет данных\n")
	}

	incomeDist, err := s.storage.CategoryDistribution(ctx, userID, core.KindIncome)
	if err != nil {
		return "", fmt.Errorf("charts income distribution: %w", err)
	}
	if len(incomeDist) > 0 {
		b.WriteString(render.PieChart("Доходы по категориям", categoryEntries(incomeDist)))
	} else {
		b.WriteString("\n💰 Доходы по категориям: Нет данных\n")
	}

	monthStart, monthEnd := report.MonthWindow(now)
	income, err := s.storage.SumKind(ctx, userID, core.KindIncome, monthStart, monthEnd)
	if err != nil {
		return "", fmt.Errorf("charts month income: %w", err)
	}
	expense, err := s.storage.SumKind(ctx, userID, core.KindExpense, monthStart, monthEnd)
	if err != nil {
		return "", fmt.Errorf("charts month expense: %w", err)
	}
	if income > 0 || expense > 0 {
		b.WriteString(render.ComparisonChart(income, expense))
	}

	months, err := s.storage.MonthlyExpenseTotals(ctx, userID, 6)
	if err != nil {
		return "", fmt.Errorf("charts monthly trend: %w", err)
	}
	if len(months) > 0 {
		points := report.TrendPoints(months)
		entries := make([]render.Entry, len(points))
		values := make([]float64, len(points))
		for i, p := range points {
			entries[i] = render.Entry{Label: p.Label, Value: p.Total}
			values[i] = p.Total
		}
		b.WriteString(render.BarChart("Тренд расходов (последние 6 месяцев)", entries))
		if len(values) >= 2 {
			b.WriteString(render.TrendChart("Динамика расходов", values))
		}
	}

	b.WriteString(strings.Repeat("═", 40))
	b.WriteString("\n")
	return b.String(), nil
}

func categoryEntries(totals []core.CategoryTotal) []render.Entry {
	entries := make([]render.Entry, len(totals))
	for i, ct := range totals {
		entries[i] = render.Entry{Label: ct.Name, Value: ct.Amount}
	}
	return entries
}
