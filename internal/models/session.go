package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle state of a workout session.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateActive    SessionState = "active"
	StateResting   SessionState = "resting"
	StateCompleted SessionState = "completed"
	StateCancelled SessionState = "cancelled"
)

// Terminal reports whether the state admits no further transitions.
func (s SessionState) Terminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Exercise is one exercise within a workout. Reps and DurationSec are
// alternatives: a strength exercise carries reps, a timed exercise carries
// a duration, and some carry both.
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps,omitempty"`
	DurationSec int    `json:"duration_sec,omitempty"`
	RestTimeSec int    `json:"rest_time_sec"`
}

// WorkoutSession is one in-progress workout attempt. At most one per user
// is in a non-terminal state at any time.
type WorkoutSession struct {
	ID                   uuid.UUID    `json:"id"`
	UserID               string       `json:"user_id"`
	WorkoutName          string       `json:"workout_name"`
	PlanRef              string       `json:"plan_ref,omitempty"`
	DayRef               string       `json:"day_ref,omitempty"`
	Exercises            []Exercise   `json:"exercises"`
	CurrentExerciseIndex int          `json:"current_exercise_index"`
	CurrentSet           int          `json:"current_set"`
	State                SessionState `json:"state"`
	StartTime            time.Time    `json:"start_time"`
	EndTime              *time.Time   `json:"end_time,omitempty"`
	CompletedExercises   []string     `json:"completed_exercises"`

	// Countdown state for the session screen. Not persisted.
	TimerSeconds int  `json:"timer_seconds"`
	IsRestTimer  bool `json:"is_rest_timer"`

	// Sub-state held across a pause so resuming restores it.
	PausedFrom SessionState `json:"-"`
}

// Clone returns a deep copy so readers never alias the manager's session.
func (s *WorkoutSession) Clone() *WorkoutSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Exercises = append([]Exercise(nil), s.Exercises...)
	c.CompletedExercises = append([]string(nil), s.CompletedExercises...)
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	return &c
}

// CompletedWorkout is the immutable record appended to history when a
// session completes. It is never mutated afterward.
type CompletedWorkout struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"user_id"`
	WorkoutName        string    `json:"workout_name"`
	Date               time.Time `json:"date"`
	DurationMin        int       `json:"duration_min"`
	ExercisesCompleted int       `json:"exercises_completed"`
	TotalExercises     int       `json:"total_exercises"`
	CaloriesBurned     *int      `json:"calories_burned,omitempty"`
}
