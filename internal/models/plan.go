package models

import "time"

// Difficulty of a workout plan.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Goal is the training goal a plan targets.
type Goal string

const (
	GoalBuildMuscle      Goal = "build_muscle"
	GoalWeightLoss       Goal = "weight_loss"
	GoalIncreaseStrength Goal = "increase_strength"
)

// WorkoutDay is one day in a plan schedule.
type WorkoutDay struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
	RestDay   bool       `json:"rest_day"`
}

// WorkoutPlan is a multi-week training program.
type WorkoutPlan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Difficulty  Difficulty   `json:"difficulty"`
	Duration    string       `json:"duration"` // e.g. "1_month", "3_month"
	Goal        Goal         `json:"goal"`
	Schedule    []WorkoutDay `json:"schedule"`
	Generated   bool         `json:"generated"`
	CreatedBy   string       `json:"created_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at,omitzero"`
}
