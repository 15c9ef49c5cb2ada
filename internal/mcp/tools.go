package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/claude/reptrack/internal/plans"
	"github.com/claude/reptrack/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the last 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetWorkoutStats = mcp.NewTool("get_workout_stats",
	mcp.WithDescription("Get derived training statistics: total workouts, total minutes, total exercises, current daily streak, workouts this week, and estimated strength increase."),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Query completed workouts. Returns workout name, date, duration, and exercise counts, newest first."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetCurrentStreak = mcp.NewTool("get_current_streak",
	mcp.WithDescription("Get the current daily workout streak: consecutive calendar days ending today with at least one completed workout."),
)

var toolGetTodayWorkouts = mcp.NewTool("get_today_workouts",
	mcp.WithDescription("List workouts completed today."),
)

var toolGetPlans = mcp.NewTool("get_plans",
	mcp.WithDescription("List the user's saved workout plans, newest first."),
)

var toolGetRecommendedPlans = mcp.NewTool("get_recommended_plans",
	mcp.WithDescription("Get recommended workout plans for a training goal and fitness level."),
	mcp.WithString("goal", mcp.Required(), mcp.Description("Training goal"), mcp.Enum("build_muscle", "weight_loss", "increase_strength")),
	mcp.WithString("difficulty", mcp.Description("Fitness level. Defaults to intermediate."), mcp.Enum("beginner", "intermediate", "advanced")),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	history, err := h.ds.ListCompleted(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_workout_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats.Compute(history, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	history, err := h.ds.QueryCompleted(ctx, uid, start, end)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	history, err := h.ds.ListCompleted(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_current_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	s := stats.Compute(history, time.Now())
	result, err := mcp.NewToolResultJSON(map[string]int{"current_streak": s.CurrentStreak})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTodayWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	history, err := h.ds.ListCompleted(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_today_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats.TodayWorkouts(history, time.Now()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	list, err := h.ds.ListPlans(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecommendedPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	goal, err := req.RequireString("goal")
	if err != nil {
		return mcp.NewToolResultError("goal parameter is required"), nil
	}
	difficulty := req.GetString("difficulty", string(models.DifficultyIntermediate))

	result, err := mcp.NewToolResultJSON(plans.Predefined(models.Goal(goal), models.Difficulty(difficulty)))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Resource handlers ---

func (h *handlers) trainingSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	history, err := h.ds.ListCompleted(ctx, uid)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := map[string]any{
		"date":            now.Format("2006-01-02"),
		"stats":           stats.Compute(history, now),
		"todays_workouts": stats.TodayWorkouts(history, now),
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
	}, nil
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	now := time.Now()
	history, err := h.ds.QueryCompleted(ctx, uid, now.AddDate(0, 0, -14), now)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
	}, nil
}
