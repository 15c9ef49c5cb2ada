// Package stats derives workout statistics from completed-workout history.
// Every function here is a pure function of the history slice and a caller
// supplied clock value, so results are safe to discard and recompute at any
// time.
package stats

import (
	"time"

	"github.com/claude/reptrack/internal/models"
)

// streakHorizonDays bounds the backward scan for the daily streak. Streaks
// longer than this are reported as the cap.
const streakHorizonDays = 30

// WorkoutStats is the derived summary for a user's history.
type WorkoutStats struct {
	TotalWorkouts    int `json:"total_workouts"`
	TotalMinutes     int `json:"total_minutes"`
	TotalExercises   int `json:"total_exercises"`
	CurrentStreak    int `json:"current_streak"`
	WeeklyWorkouts   int `json:"weekly_workouts"`
	StrengthIncrease int `json:"strength_increase"` // percentage
}

// Compute derives WorkoutStats from the full history. The now parameter
// anchors the weekly window and the streak scan.
func Compute(history []models.CompletedWorkout, now time.Time) WorkoutStats {
	s := WorkoutStats{TotalWorkouts: len(history)}

	for _, w := range history {
		s.TotalMinutes += w.DurationMin
		s.TotalExercises += w.ExercisesCompleted
	}

	s.WeeklyWorkouts = countInWindow(history, now.AddDate(0, 0, -7), now)
	s.CurrentStreak = streak(history, now)

	// Placeholder heuristic: 2% per workout, capped at 50%. Kept for
	// compatibility with existing clients.
	if s.TotalWorkouts > 0 {
		s.StrengthIncrease = min(s.TotalWorkouts*2, 50)
	}

	return s
}

// countInWindow counts workouts with start <= date < end.
func countInWindow(history []models.CompletedWorkout, start, end time.Time) int {
	n := 0
	for _, w := range history {
		if !w.Date.Before(start) && w.Date.Before(end) {
			n++
		}
	}
	return n
}

// streak counts consecutive calendar days ending today that each contain at
// least one completed workout. The scan stops at the first empty day and is
// capped at streakHorizonDays.
func streak(history []models.CompletedWorkout, now time.Time) int {
	days := make(map[time.Time]bool, len(history))
	for _, w := range history {
		days[truncateDay(w.Date.In(now.Location()))] = true
	}

	count := 0
	today := truncateDay(now)
	for i := 0; i < streakHorizonDays; i++ {
		if !days[today.AddDate(0, 0, -i)] {
			break
		}
		count++
	}
	return count
}

// TodayWorkouts returns the workouts whose date falls on the same calendar
// day as now.
func TodayWorkouts(history []models.CompletedWorkout, now time.Time) []models.CompletedWorkout {
	today := truncateDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	var result []models.CompletedWorkout
	for _, w := range history {
		d := w.Date.In(now.Location())
		if !d.Before(today) && d.Before(tomorrow) {
			result = append(result, w)
		}
	}
	return result
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
