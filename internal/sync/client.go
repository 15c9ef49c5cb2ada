// Package sync pushes completed workout sessions to an upstream fitness
// backend. Delivery is best-effort and fully decoupled from local state:
// a completed workout is correct locally whether or not it ever syncs.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/claude/reptrack/internal/models"
)

// Auth errors are classified separately from network/server errors so
// callers can tell "fix your credentials" apart from "try again later".
var (
	ErrNoToken    = errors.New("no access token stored")
	ErrAuthFailed = errors.New("upstream authentication failed")
)

// caloriesPerMinute is the flat estimate applied to progress entries.
const caloriesPerMinute = 8

// TokenStore supplies and persists upstream credentials.
type TokenStore interface {
	Tokens(ctx context.Context) (access, refresh string, err error)
	SetTokens(ctx context.Context, access, refresh string) error
}

// Client sends completed sessions to the upstream backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	log        *slog.Logger
}

// NewClient creates a Client targeting the given base URL.
func NewClient(baseURL string, tokens TokenStore, log *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		log:        log,
	}
}

// sessionCreate is the upstream session-creation request.
type sessionCreate struct {
	PlanRef            string    `json:"plan_ref"`
	DayRef             string    `json:"day_ref"`
	Status             string    `json:"status"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	DurationMinutes    int       `json:"duration_minutes"`
	TotalExercises     int       `json:"total_exercises"`
	CompletedExercises int       `json:"completed_exercises"`
	Notes              string    `json:"notes"`
	Rating             *float64  `json:"rating"`
}

// sessionCreated is the upstream response carrying the generated id that
// dependent set and progress writes reference.
type sessionCreated struct {
	ID json.Number `json:"id"`
}

// setCreate is the upstream exercise-set request, one per tracked exercise.
type setCreate struct {
	SessionRef       string   `json:"session_ref"`
	ExerciseRef      string   `json:"exercise_ref"`
	SetNumber        int      `json:"set_number"`
	RepsCompleted    int      `json:"reps_completed"`
	WeightUsed       float64  `json:"weight_used"`
	Duration         float64  `json:"duration"`
	RestTime         int      `json:"rest_time"`
	Notes            string   `json:"notes"`
	DifficultyRating *float64 `json:"difficulty_rating"`
}

// progressCreate is the aggregate progress entry written after the sets.
type progressCreate struct {
	SessionRef         string    `json:"session_ref"`
	WorkoutType        string    `json:"workout_type"`
	DurationMinutes    int       `json:"duration_minutes"`
	CaloriesBurned     int       `json:"calories_burned"`
	ExercisesCompleted int       `json:"exercises_completed"`
	Date               time.Time `json:"date"`
}

// PushSession delivers one completed session: the session record first (its
// generated id anchors the rest), then one set write per exercise, then the
// progress entry. Individual set failures are logged and skipped; a session
// or progress failure fails the whole push so the worker retries it.
func (c *Client) PushSession(ctx context.Context, sess *models.WorkoutSession, completed models.CompletedWorkout) error {
	req := sessionCreate{
		PlanRef:            sess.PlanRef,
		DayRef:             sess.DayRef,
		Status:             "completed",
		StartedAt:          sess.StartTime,
		CompletedAt:        completed.Date,
		DurationMinutes:    completed.DurationMin,
		TotalExercises:     completed.TotalExercises,
		CompletedExercises: completed.ExercisesCompleted,
	}

	var created sessionCreated
	if err := c.post(ctx, "/api/workouts/sessions/", completed.ID.String(), req, &created); err != nil {
		return fmt.Errorf("creating upstream session: %w", err)
	}
	remoteID := created.ID.String()

	for i, ex := range sess.Exercises {
		set := setCreate{
			SessionRef:    remoteID,
			ExerciseRef:   ex.ID,
			SetNumber:     i + 1,
			RepsCompleted: ex.Reps,
			Duration:      float64(ex.DurationSec),
			RestTime:      ex.RestTimeSec,
		}
		if set.RestTime == 0 {
			set.RestTime = 60
		}
		if err := c.post(ctx, "/api/workouts/sets/", "", set, nil); err != nil {
			c.log.Warn("exercise set write failed, continuing",
				"session", completed.ID, "exercise", ex.Name, "error", err)
		}
	}

	progress := progressCreate{
		SessionRef:         remoteID,
		WorkoutType:        sess.WorkoutName,
		DurationMinutes:    completed.DurationMin,
		CaloriesBurned:     completed.DurationMin * caloriesPerMinute,
		ExercisesCompleted: completed.ExercisesCompleted,
		Date:               completed.Date,
	}
	if err := c.post(ctx, "/api/progress/entries/", completed.ID.String(), progress, nil); err != nil {
		return fmt.Errorf("creating progress entry: %w", err)
	}

	return nil
}

// post sends an authenticated JSON request. On a 401 it refreshes the
// access token exactly once and retries; a second 401 is terminal.
func (c *Client) post(ctx context.Context, path, idempotencyKey string, body, out any) error {
	access, refresh, err := c.tokens.Tokens(ctx)
	if err != nil {
		return fmt.Errorf("reading tokens: %w", err)
	}
	if access == "" {
		return ErrNoToken
	}

	status, respBody, err := c.send(ctx, path, idempotencyKey, access, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		access, err = c.refreshAccess(ctx, refresh)
		if err != nil {
			return err
		}
		status, respBody, err = c.send(ctx, path, idempotencyKey, access, body)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return fmt.Errorf("%w: still unauthorized after refresh", ErrAuthFailed)
		}
	}

	if status < 200 || status > 299 {
		return fmt.Errorf("POST %s failed (status %d): %s", path, status, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, path, idempotencyKey, token string, body any) (int, []byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// refreshAccess exchanges the refresh token for a new access token and
// persists the rotated pair.
func (c *Client) refreshAccess(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		return "", fmt.Errorf("%w: no refresh token stored", ErrAuthFailed)
	}

	data, _ := json.Marshal(map[string]string{"refresh": refresh})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh/", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: refresh rejected (status %d): %s", ErrAuthFailed, resp.StatusCode, body)
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return "", fmt.Errorf("decoding refresh response: %w", err)
	}
	if tokens.Refresh == "" {
		tokens.Refresh = refresh
	}

	if err := c.tokens.SetTokens(ctx, tokens.Access, tokens.Refresh); err != nil {
		c.log.Warn("failed to persist refreshed tokens", "error", err)
	}
	return tokens.Access, nil
}
