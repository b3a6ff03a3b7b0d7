package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finbot/internal/core"
)

// Aggregate queries for the read side. Empty result sets are valid zero
// values here, never errors.

// Totals is the all-time income/expense summary for one user.
type Totals struct {
	Income  float64
	Expense float64
	Count   int64
}

// UserTotals sums every transaction for a user with no time bound.
func (r *SQLiteRepository) UserTotals(ctx context.Context, userID int64) (Totals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
		 FROM transactions
		 WHERE user_id = ?
		 GROUP BY type`, userID)
	if err != nil {
		return Totals{}, fmt.Errorf("user totals: %w", err)
	}
	defer rows.Close()

	var t Totals
	for rows.Next() {
		var (
			kind  string
			sum   float64
			count int64
		)
		if err := rows.Scan(&kind, &sum, &count); err != nil {
			return Totals{}, fmt.Errorf("scan totals: %w", err)
		}
		t.Count += count
		switch core.Kind(kind) {
		case core.KindIncome:
			t.Income = sum
		case core.KindExpense:
			t.Expense = sum
		}
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate totals: %w", err)
	}
	return t, nil
}

// SumKind sums amounts of one kind within [from, to).
func (r *SQLiteRepository) SumKind(ctx context.Context, userID int64, kind core.Kind, from, to time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM transactions
		 WHERE user_id = ? AND type = ? AND created_at >= ? AND created_at < ?`,
		userID, string(kind),
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)).Scan(&total)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("sum %s: %w", kind, err)
	}
	return total.Float64, nil
}

// CategoryTotals groups transactions by category within [from, to), summing
// amount and counting rows, ordered by descending amount. Kind "" includes
// both kinds.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, userID int64, kind core.Kind, from, to time.Time) ([]core.CategoryTotal, error) {
	query := `SELECT category, SUM(amount), COUNT(*)
	          FROM transactions
	          WHERE user_id = ? AND created_at >= ? AND created_at < ?`
	args := []any{userID, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)}
	if kind != "" {
		query += ` AND type = ?`
		args = append(args, string(kind))
	}
	query += ` GROUP BY category ORDER BY SUM(amount) DESC`

	return r.categoryTotals(ctx, query, args...)
}

// CategoryDistribution groups all-time transactions by category with no
// window. Kind "" includes both kinds.
func (r *SQLiteRepository) CategoryDistribution(ctx context.Context, userID int64, kind core.Kind) ([]core.CategoryTotal, error) {
	query := `SELECT category, SUM(amount), COUNT(*)
	          FROM transactions
	          WHERE user_id = ?`
	args := []any{userID}
	if kind != "" {
		query += ` AND type = ?`
		args = append(args, string(kind))
	}
	query += ` GROUP BY category ORDER BY SUM(amount) DESC`

	return r.categoryTotals(ctx, query, args...)
}

func (r *SQLiteRepository) categoryTotals(ctx context.Context, query string, args ...any) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category totals: %w", err)
	}
	defer rows.Close()

	var out []core.CategoryTotal
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.Amount, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

// DailyExpenseTotals sums expenses per calendar date within [from, to),
// oldest date first. Dates with no expenses are absent, not zero-filled.
func (r *SQLiteRepository) DailyExpenseTotals(ctx context.Context, userID int64, from, to time.Time) ([]core.DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DATE(created_at), SUM(amount)
		 FROM transactions
		 WHERE user_id = ? AND type = 'expense' AND created_at >= ? AND created_at < ?
		 GROUP BY DATE(created_at)
		 ORDER BY DATE(created_at) ASC`,
		userID, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("daily expense totals: %w", err)
	}
	defer rows.Close()

	var out []core.DailyTotal
	for rows.Next() {
		var (
			day   string
			total float64
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		out = append(out, core.DailyTotal{Date: date, Total: total})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily totals: %w", err)
	}
	return out, nil
}

// MonthlyExpenseTotals groups all-time expenses by calendar month and
// returns the most recent months, newest first, capped at months rows.
func (r *SQLiteRepository) MonthlyExpenseTotals(ctx context.Context, userID int64, months int) ([]core.MonthTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT CAST(strftime('%m', created_at) AS INTEGER),
		        CAST(strftime('%Y', created_at) AS INTEGER),
		        SUM(amount)
		 FROM transactions
		 WHERE user_id = ? AND type = 'expense'
		 GROUP BY strftime('%Y-%m', created_at)
		 ORDER BY strftime('%Y-%m', created_at) DESC
		 LIMIT ?`,
		userID, months)
	if err != nil {
		return nil, fmt.Errorf("monthly expense totals: %w", err)
	}
	defer rows.Close()

	var out []core.MonthTotal
	for rows.Next() {
		var mt core.MonthTotal
		if err := rows.Scan(&mt.Month, &mt.Year, &mt.Total); err != nil {
			return nil, fmt.Errorf("scan month total: %w", err)
		}
		out = append(out, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month totals: %w", err)
	}
	return out, nil
}
