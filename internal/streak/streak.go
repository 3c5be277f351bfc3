// Package streak derives consecutive-day statistics from daily progress history.
//
// Adjacency is always calendar adjacency: two active days belong to the same run
// only when they are exactly one civil day apart, regardless of where the records
// sit in the supplied slice or whether records for the days in between exist.
package streak

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/eehealth/api/internal/model"
)

// Compute returns the current and longest streaks for history as of asOf.
// history is expected newest first but any order is accepted; the slice is not modified.
func Compute(history []model.DailyProgress, asOf civil.Date) model.StreakStats {
	active := ActiveDays(history)
	return model.StreakStats{
		CurrentStreak: Current(active, asOf),
		LongestStreak: Longest(active),
	}
}

// ActiveDays collects the dates whose record has at least one completed goal.
func ActiveDays(history []model.DailyProgress) map[civil.Date]bool {
	active := make(map[civil.Date]bool, len(history))
	for i := range history {
		if history[i].IsActive() {
			active[history[i].Date] = true
		}
	}
	return active
}

// Current walks backward from asOf one civil day at a time while days are active.
// An inactive asOf yields 0 regardless of earlier history.
func Current(active map[civil.Date]bool, asOf civil.Date) int {
	n := 0
	for d := asOf; active[d]; d = d.AddDays(-1) {
		n++
	}
	return n
}

// Longest is the maximal run of calendar-consecutive active days.
func Longest(active map[civil.Date]bool) int {
	if len(active) == 0 {
		return 0
	}

	days := make([]civil.Date, 0, len(active))
	for d := range active {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].DaysSince(days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// LeadingActive counts records from the start of window while they are active.
// window must be dense and newest first for the count to be a day streak.
func LeadingActive(window []model.DailyProgress) int {
	n := 0
	for i := range window {
		if !window[i].IsActive() {
			break
		}
		n++
	}
	return n
}
