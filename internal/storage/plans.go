package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claude/reptrack/internal/models"
)

// InsertPlan stores a workout plan. The schedule is persisted as JSON since
// the server never queries into individual days.
func (db *DB) InsertPlan(ctx context.Context, plan models.WorkoutPlan) error {
	schedule, err := json.Marshal(plan.Schedule)
	if err != nil {
		return fmt.Errorf("marshaling plan schedule: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO workout_plans (id, name, description, difficulty, duration, goal, schedule, generated, created_by, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 ON CONFLICT (id) DO NOTHING`,
		plan.ID, plan.Name, plan.Description, plan.Difficulty, plan.Duration,
		plan.Goal, schedule, plan.Generated, plan.CreatedBy, plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

// ListPlans retrieves the plans created by a user, newest first.
func (db *DB) ListPlans(ctx context.Context, userID string) ([]models.WorkoutPlan, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, description, difficulty, duration, goal, schedule, generated, created_by, created_at
		 FROM workout_plans
		 WHERE created_by = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	var result []models.WorkoutPlan
	for rows.Next() {
		var p models.WorkoutPlan
		var schedule []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Difficulty, &p.Duration,
			&p.Goal, &schedule, &p.Generated, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		if err := json.Unmarshal(schedule, &p.Schedule); err != nil {
			return nil, fmt.Errorf("unmarshaling plan schedule: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
