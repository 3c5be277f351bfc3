package model

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{1, 8, 13},
		{3, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.completed, tt.total), "%d/%d", tt.completed, tt.total)
	}
}

func TestDailyProgressUpsertKeepsEntriesUnique(t *testing.T) {
	p := NewDailyProgress("u1", civil.Date{Year: 2024, Month: time.January, Day: 1})
	now := time.Now()

	assert.False(t, p.Upsert(ProgressEntry{GoalID: "g1", Completed: true, CompletedAt: &now}))
	assert.False(t, p.Upsert(ProgressEntry{GoalID: "g2"}))
	assert.True(t, p.Upsert(ProgressEntry{GoalID: "g1", Completed: false}))
	p.Recompute()

	require.Len(t, p.Goals, 2)
	assert.Equal(t, "g1", p.Goals[0].GoalID, "replacement keeps position")
	assert.Equal(t, 2, p.TotalGoals)
	assert.Equal(t, 0, p.CompletedGoals)
	assert.Equal(t, 0, p.CompletionPercentage)
	assert.False(t, p.IsActive())
}

func TestDailyProgressRemoveRecomputes(t *testing.T) {
	p := NewDailyProgress("u1", civil.Date{Year: 2024, Month: time.January, Day: 1})
	p.Upsert(ProgressEntry{GoalID: "g1", Completed: true})
	p.Upsert(ProgressEntry{GoalID: "g2", Completed: false})
	p.Upsert(ProgressEntry{GoalID: "g3", Completed: true})
	p.Recompute()
	assert.Equal(t, 67, p.CompletionPercentage)

	assert.True(t, p.Remove("g2"))
	assert.False(t, p.Remove("missing"))
	p.Recompute()

	assert.Equal(t, 2, p.TotalGoals)
	assert.Equal(t, 2, p.CompletedGoals)
	assert.Equal(t, 100, p.CompletionPercentage)
	_, ok := p.Entry("g2")
	assert.False(t, ok)
}

func TestGoalPatchIsEmpty(t *testing.T) {
	area := "Health"
	assert.True(t, GoalPatch{}.IsEmpty())
	assert.False(t, GoalPatch{Area: &area}.IsEmpty())
}
