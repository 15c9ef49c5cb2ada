package stats

import (
	"testing"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/google/uuid"
)

func workoutAt(date time.Time, minutes, exercises int) models.CompletedWorkout {
	return models.CompletedWorkout{
		ID:                 uuid.New(),
		UserID:             "u1",
		WorkoutName:        "Leg Day",
		Date:               date,
		DurationMin:        minutes,
		ExercisesCompleted: exercises,
		TotalExercises:     exercises,
	}
}

// TestComputeEmpty verifies that an empty history yields all-zero stats
// without any division-by-zero style failure.
func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, time.Now())
	want := WorkoutStats{}
	if got != want {
		t.Errorf("Compute(nil) = %+v, want zero value", got)
	}
}

func TestComputeTotals(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	history := []models.CompletedWorkout{
		workoutAt(now.Add(-2*time.Hour), 45, 5),
		workoutAt(now.AddDate(0, 0, -1), 30, 3),
		workoutAt(now.AddDate(0, 0, -20), 60, 8),
	}

	got := Compute(history, now)
	if got.TotalWorkouts != 3 {
		t.Errorf("TotalWorkouts = %d, want 3", got.TotalWorkouts)
	}
	if got.TotalMinutes != 135 {
		t.Errorf("TotalMinutes = %d, want 135", got.TotalMinutes)
	}
	if got.TotalExercises != 16 {
		t.Errorf("TotalExercises = %d, want 16", got.TotalExercises)
	}
	if got.StrengthIncrease != 6 {
		t.Errorf("StrengthIncrease = %d, want 6", got.StrengthIncrease)
	}
}

// TestComputeDeterministic verifies that the computation is a pure function:
// same history and same clock give identical results.
func TestComputeDeterministic(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	history := []models.CompletedWorkout{
		workoutAt(now.Add(-time.Hour), 45, 5),
		workoutAt(now.AddDate(0, 0, -3), 30, 3),
	}

	first := Compute(history, now)
	second := Compute(history, now)
	if first != second {
		t.Errorf("Compute not deterministic: %+v vs %+v", first, second)
	}
}

// TestWeeklyWindow pins the trailing-7-day boundary: the lower bound is
// inclusive, so a workout exactly 7 days old counts while one a second
// older does not.
func TestWeeklyWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"six days ago", now.AddDate(0, 0, -6), 1},
		{"exactly seven days ago", now.AddDate(0, 0, -7), 1},
		{"seven days and one second ago", now.AddDate(0, 0, -7).Add(-time.Second), 0},
		{"in the future", now.Add(time.Second), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := []models.CompletedWorkout{workoutAt(tt.date, 30, 3)}
			got := Compute(history, now)
			if got.WeeklyWorkouts != tt.want {
				t.Errorf("WeeklyWorkouts = %d, want %d", got.WeeklyWorkouts, tt.want)
			}
		})
	}
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC)

	daily := func(n int) []models.CompletedWorkout {
		var history []models.CompletedWorkout
		for i := 0; i < n; i++ {
			history = append(history, workoutAt(now.AddDate(0, 0, -i), 30, 3))
		}
		return history
	}

	tests := []struct {
		name    string
		history []models.CompletedWorkout
		want    int
	}{
		{"no workouts", nil, 0},
		{"today only", daily(1), 1},
		{"five consecutive days", daily(5), 5},
		{"gap yesterday breaks streak", append(daily(1), workoutAt(now.AddDate(0, 0, -2), 30, 3)), 1},
		{"workout yesterday but not today", []models.CompletedWorkout{workoutAt(now.AddDate(0, 0, -1), 30, 3)}, 0},
		{"two workouts same day count once", append(daily(2), workoutAt(now.Add(-time.Hour), 20, 2)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.history, now)
			if got.CurrentStreak != tt.want {
				t.Errorf("CurrentStreak = %d, want %d", got.CurrentStreak, tt.want)
			}
		})
	}
}

// TestStreakCap pins the 30-day scan horizon: 40 consecutive daily workouts
// ending today report a streak of exactly 30.
func TestStreakCap(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	var history []models.CompletedWorkout
	for i := 0; i < 40; i++ {
		history = append(history, workoutAt(now.AddDate(0, 0, -i), 30, 3))
	}

	got := Compute(history, now)
	if got.CurrentStreak != 30 {
		t.Errorf("CurrentStreak = %d, want 30 (capped horizon)", got.CurrentStreak)
	}
}

func TestStrengthIncreaseCap(t *testing.T) {
	now := time.Now()
	var history []models.CompletedWorkout
	for i := 0; i < 60; i++ {
		history = append(history, workoutAt(now.AddDate(0, 0, -i*2), 30, 3))
	}

	got := Compute(history, now)
	if got.StrengthIncrease != 50 {
		t.Errorf("StrengthIncrease = %d, want 50 (cap)", got.StrengthIncrease)
	}
}

func TestTodayWorkouts(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	history := []models.CompletedWorkout{
		workoutAt(now.Add(-2*time.Hour), 30, 3),
		workoutAt(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 20, 2),
		workoutAt(now.AddDate(0, 0, -1), 45, 5),
	}

	got := TodayWorkouts(history, now)
	if len(got) != 2 {
		t.Errorf("TodayWorkouts returned %d entries, want 2", len(got))
	}
}
