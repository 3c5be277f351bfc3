package model

import "cloud.google.com/go/civil"

// StreakStats is derived from progress history and never persisted.
type StreakStats struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
}

type TodayProgress struct {
	Date           civil.Date      `json:"date"`
	TotalGoals     int             `json:"totalGoals"`
	CompletedGoals int             `json:"completedGoals"`
	Percentage     int             `json:"percentage"`
	Goals          []ProgressEntry `json:"goals"`
}

// Summary is the dashboard read model.
type Summary struct {
	Today        TodayProgress   `json:"today"`
	Week         []DailyProgress `json:"week"`
	WeeklyStreak int             `json:"weeklyStreak"`
	TotalGoals   int             `json:"totalGoals"`
}
