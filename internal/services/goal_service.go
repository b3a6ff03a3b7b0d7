package services

import (
	"context"
	"fmt"
	"time"

	"finbot/internal/core"
	"finbot/internal/storage"
)

// GoalService wraps savings goal persistence with the progress math the
// chat surface renders.
type GoalService struct {
	storage *storage.SQLiteRepository
}

func NewGoalService(storage *storage.SQLiteRepository) *GoalService {
	return &GoalService{storage: storage}
}

// GoalView is a goal annotated with derived progress numbers.
type GoalView struct {
	core.Goal
	Progress          float64  // percent of target reached, clamped to [0, 100]
	Remaining         float64  // amount still missing, never negative
	MonthlySuggestion *float64 // per-month contribution to hit the deadline
}

// Create validates and stores a new goal.
func (s *GoalService) Create(ctx context.Context, userID int64, name string, targetAmount float64, deadline *time.Time) (int64, error) {
	if err := core.ValidateName(name); err != nil {
		return 0, err
	}
	if targetAmount <= 0 {
		return 0, core.ErrInvalidAmount
	}

	id, err := s.storage.CreateGoal(ctx, userID, name, targetAmount, deadline)
	if err != nil {
		return 0, fmt.Errorf("create goal: %w", err)
	}
	return id, nil
}

// List returns the user's goals with derived progress, newest first.
func (s *GoalService) List(ctx context.Context, userID int64) ([]GoalView, error) {
	goals, err := s.storage.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	now := time.Now()
	views := make([]GoalView, len(goals))
	for i, g := range goals {
		views[i] = newGoalView(g, now)
	}
	return views, nil
}

// Contribute adds amount to a goal the user owns. It reports false when
// the goal does not exist or belongs to someone else.
func (s *GoalService) Contribute(ctx context.Context, userID, goalID int64, amount float64) (bool, error) {
	if amount <= 0 {
		return false, core.ErrInvalidAmount
	}
	ok, err := s.storage.ContributeToGoal(ctx, userID, goalID, amount)
	if err != nil {
		return false, fmt.Errorf("contribute to goal: %w", err)
	}
	return ok, nil
}

// Delete removes a goal the user owns. It reports false when the goal does
// not exist or belongs to someone else.
func (s *GoalService) Delete(ctx context.Context, userID, goalID int64) (bool, error) {
	ok, err := s.storage.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	return ok, nil
}

func newGoalView(g core.Goal, now time.Time) GoalView {
	v := GoalView{Goal: g}

	if g.TargetAmount > 0 {
		v.Progress = g.CurrentAmount / g.TargetAmount * 100
	}
	if v.Progress < 0 {
		v.Progress = 0
	}
	if v.Progress > 100 {
		v.Progress = 100
	}

	v.Remaining = g.TargetAmount - g.CurrentAmount
	if v.Remaining < 0 {
		v.Remaining = 0
	}

	if suggestion, ok := monthlySuggestion(v.Remaining, g.Deadline, now); ok {
		v.MonthlySuggestion = &suggestion
	}
	return v
}

// monthlySuggestion splits the remaining amount evenly across the months
// left until the deadline. Months are fractional thirty-day spans, floored
// at one so a near deadline never asks for more than the whole remainder.
func monthlySuggestion(remaining float64, deadline *time.Time, now time.Time) (float64, bool) {
	if deadline == nil || !deadline.After(now) {
		return 0, false
	}
	if remaining <= 0 {
		return 0, true
	}
	monthsLeft := deadline.Sub(now).Hours() / 24 / 30
	if monthsLeft < 1 {
		monthsLeft = 1
	}
	return remaining / monthsLeft, true
}
