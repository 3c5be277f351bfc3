package service

import (
	"context"
	"testing"

	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/dbtest"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoalCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	g, err := f.goals.Create(ctx, f.owner.ID, " health ", " Run a marathon ", "Run 5k")
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "Health", g.Area)
	assert.Equal(t, "Run a marathon", g.BigGoal)
	assert.Equal(t, 0, g.Streak)
	assert.Nil(t, g.LastCompletedAt)

	tests := []struct {
		name                       string
		area, bigGoal, dailyAction string
		field                      string
	}{
		{"missing area", "", "Big", "Daily", "area"},
		{"blank big goal", "Health", "   ", "Daily", "bigGoal"},
		{"missing daily action", "Health", "Big", "", "dailyAction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.goals.Create(ctx, f.owner.ID, tt.area, tt.bigGoal, tt.dailyAction)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	count, err := f.goals.Count(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGoalUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.goal(t, "Health")
	f.record(t, g.ID, jan(1), true)

	area := "career"
	action := "Call one customer"
	updated, err := f.goals.Update(ctx, f.owner.ID, g.ID, model.GoalPatch{Area: &area, DailyAction: &action})
	require.NoError(t, err)
	assert.Equal(t, "Career", updated.Area)
	assert.Equal(t, "Call one customer", updated.DailyAction)
	assert.Equal(t, g.BigGoal, updated.BigGoal)

	stored, err := f.goals.ByID(ctx, f.owner.ID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Career", stored.Area)
	assert.Equal(t, 1, stored.Streak, "updates never touch the streak")

	empty := "  "
	_, err = f.goals.Update(ctx, f.owner.ID, g.ID, model.GoalPatch{BigGoal: &empty})
	assert.True(t, apperr.IsValidation(err))

	intruder := dbtest.CreateUser(t, f.db, "intruder@example.com")
	_, err = f.goals.Update(ctx, intruder.ID, g.ID, model.GoalPatch{Area: &area})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.goals.Update(ctx, f.owner.ID, "missing", model.GoalPatch{Area: &area})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGoalDeleteRetractsEntries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	keep := f.goal(t, "Health")
	drop := f.goal(t, "Career")

	f.record(t, keep.ID, jan(1), false)
	f.record(t, drop.ID, jan(1), true)
	f.record(t, drop.ID, jan(2), true)
	f.record(t, keep.ID, jan(3), true)

	before, err := f.progressRepo.ByDate(ctx, f.owner.ID, jan(1))
	require.NoError(t, err)
	require.Equal(t, 50, before.CompletionPercentage)

	require.NoError(t, f.goals.Delete(ctx, f.owner.ID, drop.ID))

	_, err = f.goals.ByID(ctx, f.owner.ID, drop.ID)
	assert.ErrorIs(t, err, repository.ErrGoalNotFound)

	day1, err := f.progressRepo.ByDate(ctx, f.owner.ID, jan(1))
	require.NoError(t, err)
	assert.Equal(t, 1, day1.TotalGoals)
	assert.Equal(t, 0, day1.CompletedGoals)
	assert.Equal(t, 0, day1.CompletionPercentage)
	assert.Equal(t, before.Version+1, day1.Version)

	day2, err := f.progressRepo.ByDate(ctx, f.owner.ID, jan(2))
	require.NoError(t, err)
	assert.Equal(t, 0, day2.TotalGoals)
	assert.Empty(t, day2.Goals)
	assert.False(t, day2.IsActive())

	day3, err := f.progressRepo.ByDate(ctx, f.owner.ID, jan(3))
	require.NoError(t, err)
	assert.Equal(t, 1, day3.Version, "records without the goal are untouched")

	stats, err := f.progress.Streaks(ctx, f.owner.ID, jan(3))
	require.NoError(t, err)
	assert.Equal(t, model.StreakStats{CurrentStreak: 1, LongestStreak: 1}, stats)
}

func TestGoalDeleteNotOwned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.goal(t, "Health")
	f.record(t, g.ID, jan(1), true)

	intruder := dbtest.CreateUser(t, f.db, "intruder@example.com")
	assert.ErrorIs(t, f.goals.Delete(ctx, intruder.ID, g.ID), apperr.ErrNotFound)

	p, err := f.progressRepo.ByDate(ctx, f.owner.ID, jan(1))
	require.NoError(t, err)
	assert.Equal(t, 1, p.TotalGoals)
}

func TestAdjustStreakRejectsLargeDeltas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.goal(t, "Health")

	tx := repository.NewTransactor(f.db)
	err := tx.Transact(ctx, func(tx *sqlx.Tx) error {
		return f.goals.adjustStreak(ctx, tx, f.owner.ID, g.ID, 2, f.goals.now())
	})
	assert.Error(t, err)
	assert.Equal(t, 0, f.streak(t, g.ID))
}
