package mcp

import (
	"context"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/claude/reptrack/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. *storage.DB satisfies
// it; tests use an in-memory fake.
type DataSource interface {
	ListCompleted(ctx context.Context, userID string) ([]models.CompletedWorkout, error)
	QueryCompleted(ctx context.Context, userID string, start, end time.Time) ([]models.CompletedWorkout, error)
	ListPlans(ctx context.Context, userID string) ([]models.WorkoutPlan, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
