// Package plans holds the built-in workout plan catalog and the fallback
// plan generator used when no predefined plan fits a request.
package plans

import (
	"context"
	"log/slog"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/google/uuid"
)

// PlanStore persists generated plans.
type PlanStore interface {
	InsertPlan(ctx context.Context, plan models.WorkoutPlan) error
}

// Generator selects or builds a plan for a user's goal and persists it.
type Generator struct {
	store PlanStore
	log   *slog.Logger
	now   func() time.Time
}

// NewGenerator creates a Generator backed by the given store.
func NewGenerator(store PlanStore, log *slog.Logger) *Generator {
	return &Generator{store: store, log: log, now: time.Now}
}

// Generate picks the best predefined plan for the goal and fitness level,
// preferring a duration match, and falls back to a generated plan when the
// catalog has nothing for the goal. The plan is persisted under the user's
// id; a storage failure is logged but the plan is still returned so the
// caller can start training with it.
func (g *Generator) Generate(ctx context.Context, userID string, goal models.Goal, difficulty models.Difficulty, duration string) (models.WorkoutPlan, error) {
	var plan models.WorkoutPlan

	if candidates := Predefined(goal, difficulty); len(candidates) > 0 {
		plan = candidates[0]
		for _, c := range candidates {
			if c.Duration == duration {
				plan = c
				break
			}
		}
	} else {
		plan = Fallback(goal, duration)
	}

	plan.CreatedBy = userID
	plan.CreatedAt = g.now()

	if err := g.store.InsertPlan(ctx, plan); err != nil {
		g.log.Error("saving generated plan", "user", userID, "plan", plan.Name, "error", err)
	}
	return plan, nil
}

// Fallback builds a plan from a fixed per-goal template. Unknown goals get
// the muscle-building template.
func Fallback(goal models.Goal, duration string) models.WorkoutPlan {
	plan, ok := fallbackTemplates[goal]
	if !ok {
		plan = fallbackTemplates[models.GoalBuildMuscle]
	}
	plan.ID = "plan-" + uuid.NewString()
	plan.Duration = duration
	plan.Goal = goal
	plan.Generated = true
	plan.Schedule = append([]models.WorkoutDay(nil), plan.Schedule...)
	return plan
}

var fallbackTemplates = map[models.Goal]models.WorkoutPlan{
	models.GoalBuildMuscle: {
		Name:        "Muscle Building Program",
		Description: "Comprehensive muscle building plan with progressive overload",
		Difficulty:  models.DifficultyIntermediate,
		Schedule: []models.WorkoutDay{
			{
				ID:   "day-1",
				Name: "Day 1: Chest & Triceps",
				Exercises: []models.Exercise{
					{ID: "ex-1", Name: "Bench Press", Description: "Lie on bench, lower bar to chest, press up", MuscleGroup: "chest", Sets: 4, Reps: 8, RestTimeSec: 120},
					{ID: "ex-2", Name: "Incline Dumbbell Press", Description: "Press dumbbells on incline bench", MuscleGroup: "chest", Sets: 3, Reps: 10, RestTimeSec: 90},
					{ID: "ex-3", Name: "Tricep Dips", Description: "Lower body using triceps, push back up", MuscleGroup: "arms", Sets: 3, Reps: 12, RestTimeSec: 60},
				},
			},
			{
				ID:   "day-2",
				Name: "Day 2: Back & Biceps",
				Exercises: []models.Exercise{
					{ID: "ex-4", Name: "Pull-ups", Description: "Pull body up to bar using back muscles", MuscleGroup: "back", Sets: 4, Reps: 8, RestTimeSec: 120},
					{ID: "ex-5", Name: "Barbell Rows", Description: "Row barbell to lower chest", MuscleGroup: "back", Sets: 4, Reps: 10, RestTimeSec: 90},
					{ID: "ex-6", Name: "Bicep Curls", Description: "Curl dumbbells using biceps", MuscleGroup: "arms", Sets: 3, Reps: 12, RestTimeSec: 60},
				},
			},
			{
				ID:   "day-3",
				Name: "Day 3: Legs",
				Exercises: []models.Exercise{
					{ID: "ex-7", Name: "Squats", Description: "Lower body by bending knees, return to standing", MuscleGroup: "legs", Sets: 4, Reps: 10, RestTimeSec: 120},
					{ID: "ex-8", Name: "Deadlifts", Description: "Lift barbell from ground to hip level", MuscleGroup: "legs", Sets: 4, Reps: 8, RestTimeSec: 180},
					{ID: "ex-9", Name: "Leg Press", Description: "Press weight with legs on machine", MuscleGroup: "legs", Sets: 3, Reps: 12, RestTimeSec: 90},
				},
			},
			{
				ID:   "day-4",
				Name: "Day 4: Shoulders",
				Exercises: []models.Exercise{
					{ID: "ex-10", Name: "Military Press", Description: "Press barbell overhead", MuscleGroup: "shoulders", Sets: 4, Reps: 8, RestTimeSec: 120},
					{ID: "ex-11", Name: "Lateral Raises", Description: "Raise dumbbells to sides", MuscleGroup: "shoulders", Sets: 3, Reps: 12, RestTimeSec: 60},
					{ID: "ex-12", Name: "Rear Delt Flyes", Description: "Fly dumbbells behind back", MuscleGroup: "shoulders", Sets: 3, Reps: 12, RestTimeSec: 60},
				},
			},
			{ID: "day-5", Name: "Day 5: Rest", RestDay: true},
			{
				ID:   "day-6",
				Name: "Day 6: Full Body",
				Exercises: []models.Exercise{
					{ID: "ex-13", Name: "Burpees", Description: "Squat, jump, push-up, jump", MuscleGroup: "full_body", Sets: 3, Reps: 15, RestTimeSec: 60},
					{ID: "ex-14", Name: "Mountain Climbers", Description: "Alternate knee to chest", MuscleGroup: "full_body", Sets: 3, Reps: 30, RestTimeSec: 45},
					{ID: "ex-15", Name: "Plank", Description: "Hold plank position", MuscleGroup: "core", Sets: 3, DurationSec: 60, RestTimeSec: 45},
				},
			},
			{ID: "day-7", Name: "Day 7: Rest", RestDay: true},
		},
	},
	models.GoalWeightLoss: {
		Name:        "Weight Loss Program",
		Description: "High-intensity cardio and strength training for fat loss",
		Difficulty:  models.DifficultyIntermediate,
		Schedule: []models.WorkoutDay{
			{
				ID:   "day-1",
				Name: "Day 1: HIIT Cardio",
				Exercises: []models.Exercise{
					{ID: "ex-1", Name: "Jumping Jacks", Description: "Jump while raising arms and legs", MuscleGroup: "cardio", Sets: 3, Reps: 30, RestTimeSec: 30},
					{ID: "ex-2", Name: "Burpees", Description: "Squat, jump, push-up, jump", MuscleGroup: "full_body", Sets: 3, Reps: 15, RestTimeSec: 45},
					{ID: "ex-3", Name: "Mountain Climbers", Description: "Alternate knee to chest", MuscleGroup: "full_body", Sets: 3, Reps: 30, RestTimeSec: 30},
				},
			},
			{
				ID:   "day-2",
				Name: "Day 2: Strength Training",
				Exercises: []models.Exercise{
					{ID: "ex-4", Name: "Squats", Description: "Lower body by bending knees", MuscleGroup: "legs", Sets: 4, Reps: 15, RestTimeSec: 60},
					{ID: "ex-5", Name: "Push-ups", Description: "Lower body to ground, push back up", MuscleGroup: "chest", Sets: 3, Reps: 12, RestTimeSec: 45},
					{ID: "ex-6", Name: "Plank", Description: "Hold plank position", MuscleGroup: "core", Sets: 3, DurationSec: 45, RestTimeSec: 30},
				},
			},
			{
				ID:   "day-3",
				Name: "Day 3: Cardio",
				Exercises: []models.Exercise{
					{ID: "ex-7", Name: "Running", Description: "Run at moderate pace", MuscleGroup: "cardio", Sets: 1, DurationSec: 1200, RestTimeSec: 0},
					{ID: "ex-8", Name: "Cycling", Description: "Cycle at high intensity", MuscleGroup: "cardio", Sets: 1, DurationSec: 900, RestTimeSec: 0},
				},
			},
			{ID: "day-4", Name: "Day 4: Rest", RestDay: true},
			{
				ID:   "day-5",
				Name: "Day 5: Circuit Training",
				Exercises: []models.Exercise{
					{ID: "ex-9", Name: "Jump Squats", Description: "Squat then jump", MuscleGroup: "legs", Sets: 3, Reps: 20, RestTimeSec: 30},
					{ID: "ex-10", Name: "Push-ups", Description: "Lower body to ground, push back up", MuscleGroup: "chest", Sets: 3, Reps: 12, RestTimeSec: 30},
					{ID: "ex-11", Name: "Lunges", Description: "Step forward into lunge", MuscleGroup: "legs", Sets: 3, Reps: 20, RestTimeSec: 30},
				},
			},
			{ID: "day-6", Name: "Day 6: Rest", RestDay: true},
			{ID: "day-7", Name: "Day 7: Rest", RestDay: true},
		},
	},
	models.GoalIncreaseStrength: {
		Name:        "Strength Program",
		Description: "Heavy compound lifts for maximal strength gains",
		Difficulty:  models.DifficultyIntermediate,
		Schedule: []models.WorkoutDay{
			{
				ID:   "day-1",
				Name: "Day 1: Squat Day",
				Exercises: []models.Exercise{
					{ID: "ex-1", Name: "Squats", Description: "Lower body by bending knees, return to standing", MuscleGroup: "legs", Sets: 5, Reps: 5, RestTimeSec: 180},
					{ID: "ex-2", Name: "Leg Press", Description: "Press weight with legs on machine", MuscleGroup: "legs", Sets: 3, Reps: 8, RestTimeSec: 120},
				},
			},
			{
				ID:   "day-2",
				Name: "Day 2: Bench Day",
				Exercises: []models.Exercise{
					{ID: "ex-3", Name: "Bench Press", Description: "Lie on bench, lower bar to chest, press up", MuscleGroup: "chest", Sets: 5, Reps: 5, RestTimeSec: 180},
					{ID: "ex-4", Name: "Tricep Dips", Description: "Lower body using triceps, push back up", MuscleGroup: "arms", Sets: 3, Reps: 8, RestTimeSec: 120},
				},
			},
			{ID: "day-3", Name: "Day 3: Rest", RestDay: true},
			{
				ID:   "day-4",
				Name: "Day 4: Deadlift Day",
				Exercises: []models.Exercise{
					{ID: "ex-5", Name: "Deadlifts", Description: "Lift barbell from ground to hip level", MuscleGroup: "legs", Sets: 5, Reps: 5, RestTimeSec: 180},
					{ID: "ex-6", Name: "Barbell Rows", Description: "Row barbell to lower chest", MuscleGroup: "back", Sets: 3, Reps: 8, RestTimeSec: 120},
				},
			},
			{
				ID:   "day-5",
				Name: "Day 5: Press Day",
				Exercises: []models.Exercise{
					{ID: "ex-7", Name: "Military Press", Description: "Press barbell overhead", MuscleGroup: "shoulders", Sets: 5, Reps: 5, RestTimeSec: 180},
					{ID: "ex-8", Name: "Pull-ups", Description: "Pull body up to bar using back muscles", MuscleGroup: "back", Sets: 3, Reps: 8, RestTimeSec: 120},
				},
			},
			{ID: "day-6", Name: "Day 6: Rest", RestDay: true},
			{ID: "day-7", Name: "Day 7: Rest", RestDay: true},
		},
	},
}
