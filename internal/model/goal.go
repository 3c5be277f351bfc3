package model

import (
	"time"
)

type Goal struct {
	ID              string     `db:"id" json:"id"`
	UserID          string     `db:"user_id" json:"userId"`
	Area            string     `db:"area" json:"area"`
	BigGoal         string     `db:"big_goal" json:"bigGoal"`
	DailyAction     string     `db:"daily_action" json:"dailyAction"`
	Streak          int        `db:"streak" json:"streak"`
	LastCompletedAt *time.Time `db:"last_completed_at" json:"lastCompleted"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// GoalPatch carries the user-editable goal fields. Nil means unchanged.
type GoalPatch struct {
	Area        *string `json:"area"`
	BigGoal     *string `json:"bigGoal"`
	DailyAction *string `json:"dailyAction"`
}

func (p GoalPatch) IsEmpty() bool {
	return p.Area == nil && p.BigGoal == nil && p.DailyAction == nil
}
