package service

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/dbtest"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db           *sqlx.DB
	owner        *model.User
	goalRepo     repository.GoalRepository
	progressRepo repository.ProgressRepository
	goals        *GoalService
	progress     *ProgressService
	summary      *SummaryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	database := dbtest.New(t)
	goalRepo := repository.NewGoalRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	tx := repository.NewTransactor(database)

	goals := NewGoalService(goalRepo, progressRepo, tx, 20)
	return &fixture{
		db:           database,
		owner:        dbtest.CreateUser(t, database, "owner@example.com"),
		goalRepo:     goalRepo,
		progressRepo: progressRepo,
		goals:        goals,
		progress:     NewProgressService(progressRepo, goals, tx, DefaultHistoryDays, 20),
		summary:      NewSummaryService(progressRepo, goalRepo),
	}
}

func (f *fixture) goal(t *testing.T, area string) *model.Goal {
	t.Helper()
	g, err := f.goals.Create(context.Background(), f.owner.ID, area, "Build a calmer company", "Ten minutes of journaling")
	require.NoError(t, err)
	return g
}

func (f *fixture) record(t *testing.T, goalID string, date civil.Date, completed bool) *model.DailyProgress {
	t.Helper()
	p, err := f.progress.Record(context.Background(), f.owner.ID, model.ProgressInput{
		Date:      date,
		GoalID:    goalID,
		Completed: completed,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) streak(t *testing.T, goalID string) int {
	t.Helper()
	g, err := f.goals.ByID(context.Background(), f.owner.ID, goalID)
	require.NoError(t, err)
	return g.Streak
}

func jan(d int) civil.Date {
	return civil.Date{Year: 2024, Month: time.January, Day: d}
}
