package service

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/eehealth/api/internal/streak"
)

// WeekDays is the length of the dashboard's trailing window, today included.
const WeekDays = 7

type SummaryService struct {
	progressRepo repository.ProgressRepository
	goalRepo     repository.GoalRepository
}

func NewSummaryService(progressRepo repository.ProgressRepository, goalRepo repository.GoalRepository) *SummaryService {
	return &SummaryService{
		progressRepo: progressRepo,
		goalRepo:     goalRepo,
	}
}

// Summary builds the dashboard read model for today. The week is dense:
// days without a record appear as zeroed records for that date.
func (s *SummaryService) Summary(ctx context.Context, userID string, today civil.Date) (*model.Summary, error) {
	if !today.IsValid() {
		return nil, apperr.Validation("date", "is required")
	}

	records, err := s.progressRepo.Range(ctx, userID, today.AddDays(-(WeekDays - 1)), today)
	if err != nil {
		return nil, err
	}

	byDate := make(map[civil.Date]model.DailyProgress, len(records))
	for _, r := range records {
		byDate[r.Date] = r
	}

	week := make([]model.DailyProgress, 0, WeekDays)
	for i := 0; i < WeekDays; i++ {
		d := today.AddDays(-i)
		record, ok := byDate[d]
		if !ok {
			record = *model.NewDailyProgress(userID, d)
		}
		week = append(week, record)
	}

	totalGoals, err := s.goalRepo.CountUserGoals(ctx, userID)
	if err != nil {
		return nil, err
	}

	current := week[0]
	return &model.Summary{
		Today: model.TodayProgress{
			Date:           today,
			TotalGoals:     current.TotalGoals,
			CompletedGoals: current.CompletedGoals,
			Percentage:     current.CompletionPercentage,
			Goals:          current.Goals,
		},
		Week:         week,
		WeeklyStreak: streak.LeadingActive(week),
		TotalGoals:   totalGoals,
	}, nil
}
