package model

import (
	"time"

	"cloud.google.com/go/civil"
)

// ProgressEntry is the state of one goal on one day.
type ProgressEntry struct {
	GoalID      string     `json:"goalId"`
	Area        string     `json:"area,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
}

// DailyProgress is the per-user, per-civil-day progress record.
// TotalGoals, CompletedGoals and CompletionPercentage are derived from Goals by Recompute.
type DailyProgress struct {
	UserID               string          `json:"userId"`
	Date                 civil.Date      `json:"date"`
	Goals                []ProgressEntry `json:"goals"`
	TotalGoals           int             `json:"totalGoals"`
	CompletedGoals       int             `json:"completedGoals"`
	CompletionPercentage int             `json:"completionPercentage"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`

	// Version is the optimistic concurrency token; 0 means not yet persisted.
	Version int `json:"-"`
}

// ProgressInput is one completion toggle for a goal on a date.
type ProgressInput struct {
	Date      civil.Date
	GoalID    string
	Completed bool
	Area      string
}

// NewDailyProgress returns an empty, unpersisted record.
func NewDailyProgress(userID string, date civil.Date) *DailyProgress {
	return &DailyProgress{
		UserID: userID,
		Date:   date,
		Goals:  []ProgressEntry{},
	}
}

func (p *DailyProgress) Entry(goalID string) (ProgressEntry, bool) {
	for _, e := range p.Goals {
		if e.GoalID == goalID {
			return e, true
		}
	}
	return ProgressEntry{}, false
}

// Upsert replaces the entry for entry.GoalID or appends it, keeping entries unique
// per goal. It returns the completed state before the call (false when absent).
func (p *DailyProgress) Upsert(entry ProgressEntry) bool {
	for i, e := range p.Goals {
		if e.GoalID == entry.GoalID {
			p.Goals[i] = entry
			return e.Completed
		}
	}
	p.Goals = append(p.Goals, entry)
	return false
}

// Remove drops the entry for goalID and reports whether one existed.
func (p *DailyProgress) Remove(goalID string) bool {
	for i, e := range p.Goals {
		if e.GoalID == goalID {
			p.Goals = append(p.Goals[:i], p.Goals[i+1:]...)
			return true
		}
	}
	return false
}

// Recompute derives the aggregate fields from the entry set.
func (p *DailyProgress) Recompute() {
	completed := 0
	for _, e := range p.Goals {
		if e.Completed {
			completed++
		}
	}
	p.TotalGoals = len(p.Goals)
	p.CompletedGoals = completed
	p.CompletionPercentage = Percentage(completed, len(p.Goals))
}

// IsActive reports whether at least one goal was completed that day.
func (p *DailyProgress) IsActive() bool {
	return p.CompletedGoals > 0
}

// Percentage is round(100 * completed / total), half rounding up, and 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}
