package plans

import "github.com/claude/reptrack/internal/models"

// catalog holds the built-in plans, keyed by goal. Users without a custom
// plan pick from these; the generator falls back to them when nothing
// matches a request.
var catalog = map[models.Goal][]models.WorkoutPlan{
	models.GoalBuildMuscle: {
		{
			ID:          "plan-upper-strength",
			Name:        "Upper Body Strength",
			Description: "Push/pull split focused on upper-body hypertrophy",
			Difficulty:  models.DifficultyIntermediate,
			Duration:    "3_month",
			Goal:        models.GoalBuildMuscle,
			Schedule: []models.WorkoutDay{
				{
					ID:   "day-1",
					Name: "Day 1: Chest & Triceps",
					Exercises: []models.Exercise{
						{ID: "ex-1", Name: "Bench Press", MuscleGroup: "chest", Sets: 4, Reps: 8, RestTimeSec: 120},
						{ID: "ex-2", Name: "Incline Dumbbell Press", MuscleGroup: "chest", Sets: 3, Reps: 10, RestTimeSec: 90},
						{ID: "ex-3", Name: "Tricep Dips", MuscleGroup: "arms", Sets: 3, Reps: 12, RestTimeSec: 60},
					},
				},
				{
					ID:   "day-2",
					Name: "Day 2: Back & Biceps",
					Exercises: []models.Exercise{
						{ID: "ex-4", Name: "Pull-ups", MuscleGroup: "back", Sets: 4, Reps: 8, RestTimeSec: 120},
						{ID: "ex-5", Name: "Barbell Rows", MuscleGroup: "back", Sets: 4, Reps: 10, RestTimeSec: 90},
						{ID: "ex-6", Name: "Bicep Curls", MuscleGroup: "arms", Sets: 3, Reps: 12, RestTimeSec: 60},
					},
				},
				{ID: "day-3", Name: "Day 3: Rest", RestDay: true},
				{
					ID:   "day-4",
					Name: "Day 4: Legs",
					Exercises: []models.Exercise{
						{ID: "ex-7", Name: "Squats", MuscleGroup: "legs", Sets: 4, Reps: 10, RestTimeSec: 120},
						{ID: "ex-8", Name: "Deadlifts", MuscleGroup: "legs", Sets: 4, Reps: 8, RestTimeSec: 180},
						{ID: "ex-9", Name: "Leg Press", MuscleGroup: "legs", Sets: 3, Reps: 12, RestTimeSec: 90},
					},
				},
				{
					ID:   "day-5",
					Name: "Day 5: Shoulders",
					Exercises: []models.Exercise{
						{ID: "ex-10", Name: "Military Press", MuscleGroup: "shoulders", Sets: 4, Reps: 8, RestTimeSec: 120},
						{ID: "ex-11", Name: "Lateral Raises", MuscleGroup: "shoulders", Sets: 3, Reps: 12, RestTimeSec: 60},
					},
				},
			},
		},
	},
	models.GoalWeightLoss: {
		{
			ID:          "plan-conditioning",
			Name:        "Full Body Conditioning",
			Description: "High-intensity circuits mixing cardio and strength work",
			Difficulty:  models.DifficultyBeginner,
			Duration:    "1_month",
			Goal:        models.GoalWeightLoss,
			Schedule: []models.WorkoutDay{
				{
					ID:   "day-1",
					Name: "Day 1: HIIT Cardio",
					Exercises: []models.Exercise{
						{ID: "ex-1", Name: "Jumping Jacks", MuscleGroup: "cardio", Sets: 3, Reps: 30, RestTimeSec: 30},
						{ID: "ex-2", Name: "Burpees", MuscleGroup: "full_body", Sets: 3, Reps: 15, RestTimeSec: 45},
						{ID: "ex-3", Name: "Mountain Climbers", MuscleGroup: "full_body", Sets: 3, Reps: 30, RestTimeSec: 30},
					},
				},
				{
					ID:   "day-2",
					Name: "Day 2: Strength Circuit",
					Exercises: []models.Exercise{
						{ID: "ex-4", Name: "Squats", MuscleGroup: "legs", Sets: 4, Reps: 15, RestTimeSec: 60},
						{ID: "ex-5", Name: "Push-ups", MuscleGroup: "chest", Sets: 3, Reps: 12, RestTimeSec: 45},
						{ID: "ex-6", Name: "Plank", MuscleGroup: "core", Sets: 3, DurationSec: 45, RestTimeSec: 30},
					},
				},
				{ID: "day-3", Name: "Day 3: Rest", RestDay: true},
				{
					ID:   "day-4",
					Name: "Day 4: Circuit Training",
					Exercises: []models.Exercise{
						{ID: "ex-7", Name: "Jump Squats", MuscleGroup: "legs", Sets: 3, Reps: 20, RestTimeSec: 30},
						{ID: "ex-8", Name: "Lunges", MuscleGroup: "legs", Sets: 3, Reps: 20, RestTimeSec: 30},
					},
				},
			},
		},
	},
	models.GoalIncreaseStrength: {
		{
			ID:          "plan-strength",
			Name:        "Strength Building Program",
			Description: "Low-rep progressive overload around the main lifts",
			Difficulty:  models.DifficultyAdvanced,
			Duration:    "6_month",
			Goal:        models.GoalIncreaseStrength,
			Schedule: []models.WorkoutDay{
				{
					ID:   "day-1",
					Name: "Day 1: Deadlift Focus",
					Exercises: []models.Exercise{
						{ID: "ex-1", Name: "Deadlifts", MuscleGroup: "legs", Sets: 5, Reps: 5, RestTimeSec: 180},
						{ID: "ex-2", Name: "Romanian Deadlifts", MuscleGroup: "legs", Sets: 3, Reps: 8, RestTimeSec: 120},
					},
				},
				{
					ID:   "day-2",
					Name: "Day 2: Bench Press Focus",
					Exercises: []models.Exercise{
						{ID: "ex-3", Name: "Bench Press", MuscleGroup: "chest", Sets: 5, Reps: 5, RestTimeSec: 180},
						{ID: "ex-4", Name: "Incline Bench Press", MuscleGroup: "chest", Sets: 3, Reps: 8, RestTimeSec: 120},
						{ID: "ex-5", Name: "Dips", MuscleGroup: "arms", Sets: 3, Reps: 8, RestTimeSec: 90},
					},
				},
				{ID: "day-3", Name: "Day 3: Rest", RestDay: true},
				{
					ID:   "day-4",
					Name: "Day 4: Squat Focus",
					Exercises: []models.Exercise{
						{ID: "ex-6", Name: "Squats", MuscleGroup: "legs", Sets: 5, Reps: 5, RestTimeSec: 180},
						{ID: "ex-7", Name: "Front Squats", MuscleGroup: "legs", Sets: 3, Reps: 8, RestTimeSec: 120},
					},
				},
				{
					ID:   "day-5",
					Name: "Day 5: Overhead Press Focus",
					Exercises: []models.Exercise{
						{ID: "ex-8", Name: "Military Press", MuscleGroup: "shoulders", Sets: 5, Reps: 5, RestTimeSec: 180},
						{ID: "ex-9", Name: "Pull-ups", MuscleGroup: "back", Sets: 3, Reps: 8, RestTimeSec: 90},
					},
				},
			},
		},
	},
}

// Predefined returns the built-in plans for a goal, filtered by difficulty
// when it matches; if no plan matches the difficulty the full goal list is
// returned so the caller always has something to offer.
func Predefined(goal models.Goal, difficulty models.Difficulty) []models.WorkoutPlan {
	all := catalog[goal]
	var matched []models.WorkoutPlan
	for _, p := range all {
		if p.Difficulty == difficulty {
			matched = append(matched, p)
		}
	}
	if len(matched) == 0 {
		return append([]models.WorkoutPlan(nil), all...)
	}
	return matched
}

// AllPredefined returns every built-in plan.
func AllPredefined() []models.WorkoutPlan {
	var all []models.WorkoutPlan
	for _, ps := range catalog {
		all = append(all, ps...)
	}
	return all
}
