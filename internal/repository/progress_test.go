package repository

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/dbtest"
	"github.com/eehealth/api/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jan(d int) civil.Date {
	return civil.Date{Year: 2024, Month: time.January, Day: d}
}

func TestProgressRepositoryByDateAbsentIsNil(t *testing.T) {
	database := dbtest.New(t)
	owner := dbtest.CreateUser(t, database, "owner@example.com")
	repo := NewProgressRepository(database)

	p, err := repo.ByDate(context.Background(), owner.ID, jan(1))
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProgressRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	owner := dbtest.CreateUser(t, database, "owner@example.com")
	repo := NewProgressRepository(database)

	completedAt := time.Date(2024, time.January, 3, 7, 30, 15, 123456000, time.UTC)
	p := model.NewDailyProgress(owner.ID, jan(3))
	p.Upsert(model.ProgressEntry{GoalID: "g1", Area: "Health", Completed: true, CompletedAt: &completedAt})
	p.Upsert(model.ProgressEntry{GoalID: "g2", Area: "Career"})
	p.Upsert(model.ProgressEntry{GoalID: "g3", Area: "Mindset"})
	p.Recompute()

	require.NoError(t, repo.Save(ctx, p))
	assert.Equal(t, 1, p.Version)

	got, err := repo.ByDate(ctx, owner.ID, jan(3))
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, owner.ID, got.UserID)
	assert.Equal(t, jan(3), got.Date)
	assert.Equal(t, 3, got.TotalGoals)
	assert.Equal(t, 1, got.CompletedGoals)
	assert.Equal(t, 33, got.CompletionPercentage)
	assert.Equal(t, 1, got.Version)
	require.Len(t, got.Goals, 3)
	for i, want := range p.Goals {
		assert.Equal(t, want.GoalID, got.Goals[i].GoalID)
		assert.Equal(t, want.Area, got.Goals[i].Area)
		assert.Equal(t, want.Completed, got.Goals[i].Completed)
	}
	require.NotNil(t, got.Goals[0].CompletedAt)
	assert.True(t, completedAt.Equal(*got.Goals[0].CompletedAt))
	assert.Nil(t, got.Goals[1].CompletedAt)

	// Recomputing a reloaded record changes nothing.
	before := *got
	got.Recompute()
	assert.Equal(t, before.TotalGoals, got.TotalGoals)
	assert.Equal(t, before.CompletedGoals, got.CompletedGoals)
	assert.Equal(t, before.CompletionPercentage, got.CompletionPercentage)
}

func TestProgressRepositorySaveDetectsConflicts(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	owner := dbtest.CreateUser(t, database, "owner@example.com")
	repo := NewProgressRepository(database)

	first := model.NewDailyProgress(owner.ID, jan(1))
	first.Upsert(model.ProgressEntry{GoalID: "g1", Completed: true})
	first.Recompute()
	require.NoError(t, repo.Save(ctx, first))

	// A second writer that also believed the record was absent loses.
	second := model.NewDailyProgress(owner.ID, jan(1))
	second.Upsert(model.ProgressEntry{GoalID: "g2", Completed: true})
	second.Recompute()
	err := repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrProgressConflict)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Two writers loaded version 1; only the first update lands.
	a, err := repo.ByDate(ctx, owner.ID, jan(1))
	require.NoError(t, err)
	b, err := repo.ByDate(ctx, owner.ID, jan(1))
	require.NoError(t, err)

	a.Upsert(model.ProgressEntry{GoalID: "g2", Completed: true})
	a.Recompute()
	require.NoError(t, repo.Save(ctx, a))
	assert.Equal(t, 2, a.Version)

	b.Upsert(model.ProgressEntry{GoalID: "g3", Completed: true})
	b.Recompute()
	assert.ErrorIs(t, repo.Save(ctx, b), ErrProgressConflict)

	stored, err := repo.ByDate(ctx, owner.ID, jan(1))
	require.NoError(t, err)
	assert.Equal(t, 2, stored.TotalGoals)
	assert.Equal(t, 2, stored.Version)
}

func TestProgressRepositoryRangeAndAll(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	owner := dbtest.CreateUser(t, database, "owner@example.com")
	other := dbtest.CreateUser(t, database, "other@example.com")
	repo := NewProgressRepository(database)

	for _, d := range []int{1, 2, 5, 9} {
		p := model.NewDailyProgress(owner.ID, jan(d))
		p.Upsert(model.ProgressEntry{GoalID: "g1", Completed: true})
		p.Recompute()
		require.NoError(t, repo.Save(ctx, p))
	}
	foreign := model.NewDailyProgress(other.ID, jan(3))
	require.NoError(t, repo.Save(ctx, foreign))

	ranged, err := repo.Range(ctx, owner.ID, jan(2), jan(5))
	require.NoError(t, err)
	require.Len(t, ranged, 2)
	assert.Equal(t, jan(5), ranged[0].Date)
	assert.Equal(t, jan(2), ranged[1].Date)

	all, err := repo.All(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, jan(9), all[0].Date)
	assert.Equal(t, jan(1), all[3].Date)
}

func TestTransactorRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	database := dbtest.New(t)
	owner := dbtest.CreateUser(t, database, "owner@example.com")
	repo := NewProgressRepository(database)
	tx := NewTransactor(database)

	err := tx.Transact(ctx, func(tx *sqlx.Tx) error {
		p := model.NewDailyProgress(owner.ID, jan(4))
		if err := repo.WithTx(tx).Save(ctx, p); err != nil {
			return err
		}
		return ErrProgressConflict
	})
	assert.ErrorIs(t, err, ErrProgressConflict)

	p, err := repo.ByDate(ctx, owner.ID, jan(4))
	require.NoError(t, err)
	assert.Nil(t, p)
}
