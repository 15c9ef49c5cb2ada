package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/reptrack/internal/models"
)

// AppendCompleted inserts a completed-workout record. The history is
// append-only: the id conflict target makes re-delivery of the same session
// a no-op instead of a duplicate row.
func (db *DB) AppendCompleted(ctx context.Context, w models.CompletedWorkout) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO completed_workouts
		 (id, user_id, workout_name, date, duration_min, exercises_completed, total_exercises, calories_burned)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO NOTHING`,
		w.ID, w.UserID, w.WorkoutName, w.Date, w.DurationMin,
		w.ExercisesCompleted, w.TotalExercises, w.CaloriesBurned)
	if err != nil {
		return fmt.Errorf("inserting completed workout: %w", err)
	}
	return nil
}

// ListCompleted retrieves a user's full history, newest first.
func (db *DB) ListCompleted(ctx context.Context, userID string) ([]models.CompletedWorkout, error) {
	return db.queryCompleted(ctx,
		`SELECT id, user_id, workout_name, date, duration_min, exercises_completed, total_exercises, calories_burned
		 FROM completed_workouts
		 WHERE user_id = $1
		 ORDER BY date DESC`,
		userID)
}

// QueryCompleted retrieves completed workouts in a time range.
func (db *DB) QueryCompleted(ctx context.Context, userID string, start, end time.Time) ([]models.CompletedWorkout, error) {
	return db.queryCompleted(ctx,
		`SELECT id, user_id, workout_name, date, duration_min, exercises_completed, total_exercises, calories_burned
		 FROM completed_workouts
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date DESC`,
		userID, start, end)
}

func (db *DB) queryCompleted(ctx context.Context, query string, args ...any) ([]models.CompletedWorkout, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying completed workouts: %w", err)
	}
	defer rows.Close()

	var result []models.CompletedWorkout
	for rows.Next() {
		var w models.CompletedWorkout
		if err := rows.Scan(&w.ID, &w.UserID, &w.WorkoutName, &w.Date, &w.DurationMin,
			&w.ExercisesCompleted, &w.TotalExercises, &w.CaloriesBurned); err != nil {
			return nil, fmt.Errorf("scanning completed workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// ResetHistory deletes a user's entire history. Only the explicit
// data-reset operation calls this; nothing else ever removes rows.
func (db *DB) ResetHistory(ctx context.Context, userID string) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM completed_workouts WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("resetting history: %w", err)
	}
	return tag.RowsAffected(), nil
}
