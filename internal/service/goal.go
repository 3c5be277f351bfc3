package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/eehealth/api/internal/validation"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type GoalService struct {
	repo         repository.GoalRepository
	progressRepo repository.ProgressRepository
	tx           repository.Transactor
	maxRetries   int
	now          func() time.Time
}

func NewGoalService(
	repo repository.GoalRepository,
	progressRepo repository.ProgressRepository,
	tx repository.Transactor,
	maxRetries int,
) *GoalService {
	return &GoalService{
		repo:         repo,
		progressRepo: progressRepo,
		tx:           tx,
		maxRetries:   maxRetries,
		now:          time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, userID, area, bigGoal, dailyAction string) (*model.Goal, error) {
	area, err := validation.RequiredText("area", area)
	if err != nil {
		return nil, err
	}
	bigGoal, err = validation.RequiredText("bigGoal", bigGoal)
	if err != nil {
		return nil, err
	}
	dailyAction, err = validation.RequiredText("dailyAction", dailyAction)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Area:        validation.NormalizeArea(area),
		BigGoal:     bigGoal,
		DailyAction: dailyAction,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

func (s *GoalService) Goals(ctx context.Context, userID, sortBy string) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID, sortBy)
}

func (s *GoalService) Count(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUserGoals(ctx, userID)
}

// Update applies the supplied patch fields. The streak is not user editable.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	// Verify ownership
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.Area != nil {
		area, err := validation.RequiredText("area", *patch.Area)
		if err != nil {
			return nil, err
		}
		goal.Area = validation.NormalizeArea(area)
	}
	if patch.BigGoal != nil {
		goal.BigGoal, err = validation.RequiredText("bigGoal", *patch.BigGoal)
		if err != nil {
			return nil, err
		}
	}
	if patch.DailyAction != nil {
		goal.DailyAction, err = validation.RequiredText("dailyAction", *patch.DailyAction)
		if err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		return goal, nil
	}

	goal.UpdatedAt = s.now().UTC()
	err = s.repo.Update(ctx, goal)
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Delete removes the goal and retracts its entries from every progress record
// of the owner, recomputing their aggregates, in a single transaction.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	retracted := 0
	err := withConflictRetry(ctx, s.maxRetries, func(ctx context.Context) error {
		retracted = 0
		return s.tx.Transact(ctx, func(tx *sqlx.Tx) error {
			err := s.repo.WithTx(tx).Delete(ctx, userID, goalID)
			if err != nil {
				return err
			}

			progress := s.progressRepo.WithTx(tx)
			records, err := progress.All(ctx, userID)
			if err != nil {
				return err
			}

			for i := range records {
				record := &records[i]
				if !record.Remove(goalID) {
					continue
				}
				record.Recompute()
				err = progress.Save(ctx, record)
				if err != nil {
					return err
				}
				retracted++
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "user_id", userID, "goal_id", goalID, "records_updated", retracted)
	return nil
}

// adjustStreak moves the goal's streak by delta inside tx. It is only called by
// ProgressService when a day's completion state flips.
func (s *GoalService) adjustStreak(ctx context.Context, tx *sqlx.Tx, userID, goalID string, delta int, at time.Time) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("streak delta must be +1 or -1, got %d", delta)
	}
	return s.repo.WithTx(tx).AdjustStreak(ctx, userID, goalID, delta, at)
}
