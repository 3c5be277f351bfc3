package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/eehealth/api/internal/streak"
	"github.com/eehealth/api/internal/validation"
	"github.com/jmoiron/sqlx"
)

const DefaultHistoryDays = 365

type ProgressService struct {
	repo        repository.ProgressRepository
	goals       *GoalService
	tx          repository.Transactor
	historyDays int
	maxRetries  int
	now         func() time.Time
}

func NewProgressService(
	repo repository.ProgressRepository,
	goals *GoalService,
	tx repository.Transactor,
	historyDays int,
	maxRetries int,
) *ProgressService {
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &ProgressService{
		repo:        repo,
		goals:       goals,
		tx:          tx,
		historyDays: historyDays,
		maxRetries:  maxRetries,
		now:         time.Now,
	}
}

// Record sets the completion state of one goal on one day and returns the
// updated record. The goal's streak moves by one only when the state flips.
func (s *ProgressService) Record(ctx context.Context, userID string, in model.ProgressInput) (*model.DailyProgress, error) {
	if !in.Date.IsValid() {
		return nil, apperr.Validation("date", "is required")
	}
	goalID := strings.TrimSpace(in.GoalID)
	if goalID == "" {
		return nil, apperr.Validation("goalId", "is required")
	}

	// Verify ownership
	goal, err := s.goals.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	area := validation.NormalizeArea(in.Area)
	if area == "" {
		area = goal.Area
	}

	var saved *model.DailyProgress
	attempts := 0
	err = withConflictRetry(ctx, s.maxRetries, func(ctx context.Context) error {
		attempts++

		// Reads stay outside the transaction so its first statement is a write.
		record, err := s.repo.ByDate(ctx, userID, in.Date)
		if err != nil {
			return err
		}
		if record == nil {
			record = model.NewDailyProgress(userID, in.Date)
		}

		now := s.now().UTC()
		entry := model.ProgressEntry{
			GoalID:    goal.ID,
			Area:      area,
			Completed: in.Completed,
		}
		if in.Completed {
			entry.CompletedAt = &now
		}

		prev := record.Upsert(entry)
		record.Recompute()

		delta := 0
		switch {
		case in.Completed && !prev:
			delta = 1
		case !in.Completed && prev:
			delta = -1
		}

		err = s.tx.Transact(ctx, func(tx *sqlx.Tx) error {
			err := s.repo.WithTx(tx).Save(ctx, record)
			if err != nil {
				return err
			}
			if delta == 0 {
				return nil
			}
			return s.goals.adjustStreak(ctx, tx, userID, goal.ID, delta, now)
		})
		if err != nil {
			return err
		}

		saved = record
		return nil
	})
	if err != nil {
		if attempts > 1 {
			slog.Warn("progress record gave up after conflicts", "user_id", userID, "date", in.Date.String(), "attempts", attempts, "error", err)
		}
		return nil, err
	}

	return saved, nil
}

// History returns the records with from <= date <= to, most recent first.
func (s *ProgressService) History(ctx context.Context, userID string, from, to civil.Date) ([]model.DailyProgress, error) {
	if !from.IsValid() {
		return nil, apperr.Validation("from", "is required")
	}
	if !to.IsValid() {
		return nil, apperr.Validation("to", "is required")
	}
	if to.Before(from) {
		return nil, apperr.Validation("from", "must not be after to")
	}
	if to.DaysSince(from) >= s.historyDays {
		return nil, apperr.Validation("to", fmt.Sprintf("range must not exceed %d days", s.historyDays))
	}

	return s.repo.Range(ctx, userID, from, to)
}

// Streaks computes streak statistics from the history window ending at asOf.
func (s *ProgressService) Streaks(ctx context.Context, userID string, asOf civil.Date) (model.StreakStats, error) {
	if !asOf.IsValid() {
		return model.StreakStats{}, apperr.Validation("asOf", "is required")
	}

	history, err := s.repo.Range(ctx, userID, asOf.AddDays(-(s.historyDays - 1)), asOf)
	if err != nil {
		return model.StreakStats{}, err
	}

	return streak.Compute(history, asOf), nil
}

// RecomputeAll repairs every record of the user: entries of goals that no longer
// exist are dropped and aggregates are derived again. It returns how many records changed.
func (s *ProgressService) RecomputeAll(ctx context.Context, userID string) (int, error) {
	repaired := 0
	err := withConflictRetry(ctx, s.maxRetries, func(ctx context.Context) error {
		repaired = 0

		goals, err := s.goals.Goals(ctx, userID, repository.GoalSortRecent)
		if err != nil {
			return err
		}
		owned := make(map[string]bool, len(goals))
		for _, g := range goals {
			owned[g.ID] = true
		}

		records, err := s.repo.All(ctx, userID)
		if err != nil {
			return err
		}

		for i := range records {
			record := &records[i]
			if !repair(record, owned) {
				continue
			}
			err = s.repo.Save(ctx, record)
			if err != nil {
				return err
			}
			repaired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("progress recomputed", "user_id", userID, "records_repaired", repaired)
	return repaired, nil
}

// repair drops orphaned entries and recomputes aggregates, reporting whether anything changed.
func repair(record *model.DailyProgress, owned map[string]bool) bool {
	changed := false
	kept := record.Goals[:0]
	for _, e := range record.Goals {
		if !owned[e.GoalID] {
			changed = true
			continue
		}
		kept = append(kept, e)
	}
	record.Goals = kept

	total, completed, pct := record.TotalGoals, record.CompletedGoals, record.CompletionPercentage
	record.Recompute()
	if record.TotalGoals != total || record.CompletedGoals != completed || record.CompletionPercentage != pct {
		changed = true
	}
	return changed
}
