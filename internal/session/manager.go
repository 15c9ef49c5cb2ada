// Package session owns the workout-session state machine. A Manager holds
// at most one non-terminal session per user and serializes every mutation;
// readers only ever see snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/claude/reptrack/internal/observability"
	"github.com/google/uuid"
)

// Transition errors. Invalid transitions fail loudly with a typed error
// rather than silently doing nothing, so callers can map them to a 409.
var (
	ErrNoActiveSession = errors.New("no active workout session")
	ErrNoExercisesLeft = errors.New("all exercises already completed")
	ErrNoExercises     = errors.New("workout has no exercises")
)

// HistoryStore persists completed workouts and serves them back for stats.
type HistoryStore interface {
	AppendCompleted(ctx context.Context, w models.CompletedWorkout) error
	ListCompleted(ctx context.Context, userID string) ([]models.CompletedWorkout, error)
}

// Enqueuer accepts a just-completed session for best-effort upstream sync.
// Enqueue failures are logged and never fail the local completion.
type Enqueuer interface {
	Enqueue(ctx context.Context, sess *models.WorkoutSession, completed models.CompletedWorkout) error
}

// Manager enforces the session state machine.
type Manager struct {
	history HistoryStore
	outbox  Enqueuer // nil disables sync
	log     *slog.Logger
	now     func() time.Time

	mu     sync.Mutex
	active map[string]*models.WorkoutSession
}

// NewManager creates a Manager. outbox may be nil when upstream sync is
// disabled.
func NewManager(history HistoryStore, outbox Enqueuer, log *slog.Logger) *Manager {
	return &Manager{
		history: history,
		outbox:  outbox,
		log:     log,
		now:     time.Now,
		active:  make(map[string]*models.WorkoutSession),
	}
}

// SetClock overrides the manager's clock. Tests only.
func (m *Manager) SetClock(now func() time.Time) { m.now = now }

// Start begins a new session. If the user already has a non-terminal
// session it is cancelled first, so a double start is a deterministic
// replace rather than a silent overwrite.
func (m *Manager) Start(userID, workoutName, planRef, dayRef string, exercises []models.Exercise) (*models.WorkoutSession, error) {
	if len(exercises) == 0 {
		return nil, ErrNoExercises
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.active[userID]; ok {
		m.log.Info("replacing active session", "user", userID, "previous", prev.ID, "workout", prev.WorkoutName)
		observability.RecordSessionCancelled()
	}

	sess := &models.WorkoutSession{
		ID:                 uuid.New(),
		UserID:             userID,
		WorkoutName:        workoutName,
		PlanRef:            planRef,
		DayRef:             dayRef,
		Exercises:          append([]models.Exercise(nil), exercises...),
		CurrentSet:         1,
		State:              models.StateActive,
		StartTime:          m.now(),
		CompletedExercises: []string{},
	}
	m.active[userID] = sess

	observability.RecordSessionStarted()
	m.log.Info("session started", "user", userID, "session", sess.ID, "workout", workoutName, "exercises", len(exercises))
	return sess.Clone(), nil
}

// Current returns a snapshot of the user's active session, or nil.
func (m *Manager) Current(userID string) *models.WorkoutSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[userID].Clone()
}

// CompleteExercise marks the current exercise done and advances the index.
// The set counter restarts at 1 for the next exercise.
func (m *Manager) CompleteExercise(userID string) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if sess.CurrentExerciseIndex >= len(sess.Exercises) {
		return nil, ErrNoExercisesLeft
	}

	sess.CompletedExercises = append(sess.CompletedExercises, sess.Exercises[sess.CurrentExerciseIndex].Name)
	sess.CurrentExerciseIndex++
	sess.CurrentSet = 1
	return sess.Clone(), nil
}

// NextSet advances the set counter within the current exercise.
func (m *Manager) NextSet(userID string) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	sess.CurrentSet++
	return sess.Clone(), nil
}

// StartRest moves the session into the resting state with a countdown.
func (m *Manager) StartRest(userID string, seconds int) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	sess.State = models.StateResting
	sess.TimerSeconds = seconds
	sess.IsRestTimer = true
	return sess.Clone(), nil
}

// UpdateTimer records the client's countdown position.
func (m *Manager) UpdateTimer(userID string, seconds int) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	sess.TimerSeconds = seconds
	return sess.Clone(), nil
}

// Pause suspends the session. Timer state is preserved, and the pre-pause
// sub-state is remembered so Resume can restore it.
func (m *Manager) Pause(userID string) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if sess.State != models.StateIdle {
		sess.PausedFrom = sess.State
		sess.State = models.StateIdle
	}
	return sess.Clone(), nil
}

// Resume returns a paused session to its pre-pause sub-state. A session
// paused mid-rest resumes as resting with its countdown intact.
func (m *Manager) Resume(userID string) (*models.WorkoutSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}
	if sess.State == models.StateIdle {
		if sess.PausedFrom == models.StateResting {
			sess.State = models.StateResting
		} else {
			sess.State = models.StateActive
		}
		sess.PausedFrom = ""
	}
	return sess.Clone(), nil
}

// Complete finishes the session: the completed-workout record is appended
// to history before the session slot is cleared and before any sync is
// dispatched. A history write failure leaves the session active so the
// client can retry; an outbox failure is logged only.
func (m *Manager) Complete(ctx context.Context, userID string) (*models.CompletedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return nil, ErrNoActiveSession
	}

	end := m.now()
	sess.EndTime = &end
	sess.State = models.StateCompleted

	completed := models.CompletedWorkout{
		ID:                 sess.ID,
		UserID:             userID,
		WorkoutName:        sess.WorkoutName,
		Date:               end,
		DurationMin:        int(math.Round(end.Sub(sess.StartTime).Minutes())),
		ExercisesCompleted: len(sess.CompletedExercises),
		TotalExercises:     len(sess.Exercises),
	}

	if err := m.history.AppendCompleted(ctx, completed); err != nil {
		sess.EndTime = nil
		sess.State = models.StateActive
		return nil, fmt.Errorf("appending completed workout: %w", err)
	}

	delete(m.active, userID)
	observability.RecordSessionCompleted()
	m.log.Info("session completed", "user", userID, "session", sess.ID,
		"duration_min", completed.DurationMin,
		"exercises", completed.ExercisesCompleted, "of", completed.TotalExercises)

	if m.outbox != nil {
		if err := m.outbox.Enqueue(ctx, sess, completed); err != nil {
			m.log.Warn("sync enqueue failed, workout kept locally", "session", sess.ID, "error", err)
		}
	}

	return &completed, nil
}

// Cancel discards the session without creating a completed-workout record.
func (m *Manager) Cancel(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.active[userID]
	if !ok {
		return ErrNoActiveSession
	}
	delete(m.active, userID)
	observability.RecordSessionCancelled()
	m.log.Info("session cancelled", "user", userID, "session", sess.ID)
	return nil
}
