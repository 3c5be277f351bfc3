package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	GoalSortRecent = "recent"
	GoalSortStreak = "streak"
	GoalSortArea   = "area"
)

var (
	ErrGoalNotFound = fmt.Errorf("goal %w", apperr.ErrNotFound)
)

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error)
	CountUserGoals(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
	// AdjustStreak atomically adds delta to the streak, flooring at 0.
	// A positive delta also records at as the last completion time.
	AdjustStreak(ctx context.Context, userID, goalID string, delta int, at time.Time) error
	WithTx(tx *sqlx.Tx) GoalRepository
}

type goalRepository struct {
	db sqlx.ExtContext
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) WithTx(tx *sqlx.Tx) GoalRepository {
	return &goalRepository{db: tx}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, area, big_goal, daily_action, streak, last_completed_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Area,
		goal.BigGoal,
		goal.DailyAction,
		goal.Streak,
		goal.LastCompletedAt,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return apperr.Storage("goal insert", err)
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := sqlx.GetContext(ctx, r.db, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, apperr.Storage("goal lookup", err)
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	goals := []*model.Goal{}

	var orderBy string
	switch sortBy {
	case GoalSortStreak:
		orderBy = "ORDER BY streak DESC, updated_at DESC"
	case GoalSortArea:
		orderBy = "ORDER BY LOWER(area) ASC, created_at ASC"
	default: // GoalSortRecent or empty
		orderBy = "ORDER BY updated_at DESC"
	}

	query := `SELECT * FROM goals WHERE user_id = $1 ` + orderBy

	err := sqlx.SelectContext(ctx, r.db, &goals, query, userID)
	if err != nil {
		return nil, apperr.Storage("goal list", err)
	}

	return goals, nil
}

func (r *goalRepository) CountUserGoals(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1`
	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	if err != nil {
		return 0, apperr.Storage("goal count", err)
	}
	return count, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET area = $1, big_goal = $2, daily_action = $3, updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query,
		goal.Area,
		goal.BigGoal,
		goal.DailyAction,
		goal.UpdatedAt,
		goal.ID,
		goal.UserID,
	)
	return affectedOne(result, err, "goal update", ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	return affectedOne(result, err, "goal delete", ErrGoalNotFound)
}

func (r *goalRepository) AdjustStreak(ctx context.Context, userID, goalID string, delta int, at time.Time) error {
	var lastCompleted *time.Time
	if delta > 0 {
		lastCompleted = &at
	}

	query := `UPDATE goals
	          SET streak = CASE WHEN streak + $1 < 0 THEN 0 ELSE streak + $2 END,
	              last_completed_at = COALESCE($3, last_completed_at),
	              updated_at = $4
	          WHERE id = $5 AND user_id = $6`

	result, err := r.db.ExecContext(ctx, query, delta, delta, lastCompleted, at, goalID, userID)
	return affectedOne(result, err, "goal streak adjust", ErrGoalNotFound)
}

// affectedOne maps an Exec outcome to nil, a storage error, or notFound when no row matched.
func affectedOne(result sql.Result, err error, op string, notFound error) error {
	if err != nil {
		return apperr.Storage(op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
