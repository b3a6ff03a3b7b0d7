package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"finbot/internal/core"
)

const deadlineLayout = "2006-01-02"

// CreateGoal inserts a savings goal and returns its id.
func (r *SQLiteRepository) CreateGoal(ctx context.Context, userID int64, name string, targetAmount float64, deadline *time.Time) (int64, error) {
	var dl any
	if deadline != nil {
		dl = deadline.Format(deadlineLayout)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_amount, deadline, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, name, targetAmount, dl, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("goal insert id: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"goal_id", id,
		"user_id", userID,
		"target_amount", targetAmount)
	return id, nil
}

// ListGoals returns the user's goals, newest first.
func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_amount, current_amount, deadline, created_at
		 FROM goals
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var (
			g         core.Goal
			deadline  sql.NullString
			createdAt string
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &deadline, &createdAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if deadline.Valid {
			if d, err := time.Parse(deadlineLayout, deadline.String); err == nil {
				g.Deadline = &d
			}
		}
		g.CreatedAt = parseTime(createdAt)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// ContributeToGoal adds amount to the goal's current total. The ownership
// check and the update are one conditional statement: a goal owned by
// someone else leaves zero rows affected and reports false.
func (r *SQLiteRepository) ContributeToGoal(ctx context.Context, userID, goalID int64, amount float64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET current_amount = current_amount + ?
		 WHERE id = ? AND user_id = ?`,
		amount, goalID, userID)
	if err != nil {
		return false, fmt.Errorf("contribute to goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("contribute rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	slog.InfoContext(ctx, "Goal contribution",
		"goal_id", goalID,
		"user_id", userID,
		"amount", amount)
	return true, nil
}

// DeleteGoal removes a goal. Deletion is ownership-checked in the same
// conditional statement and is permanent.
func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, goalID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM goals WHERE id = ? AND user_id = ?`, goalID, userID)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete goal rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	slog.InfoContext(ctx, "Goal deleted", "goal_id", goalID, "user_id", userID)
	return true, nil
}
