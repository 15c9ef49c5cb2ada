package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/claude/reptrack/internal/models"
)

type memHistory struct {
	workouts  []models.CompletedWorkout
	appendErr error
}

func (h *memHistory) AppendCompleted(_ context.Context, w models.CompletedWorkout) error {
	if h.appendErr != nil {
		return h.appendErr
	}
	h.workouts = append(h.workouts, w)
	return nil
}

func (h *memHistory) ListCompleted(_ context.Context, userID string) ([]models.CompletedWorkout, error) {
	var out []models.CompletedWorkout
	for _, w := range h.workouts {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

type memOutbox struct {
	enqueued []models.CompletedWorkout
	err      error
}

func (o *memOutbox) Enqueue(_ context.Context, _ *models.WorkoutSession, completed models.CompletedWorkout) error {
	if o.err != nil {
		return o.err
	}
	o.enqueued = append(o.enqueued, completed)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func legDay() []models.Exercise {
	return []models.Exercise{
		{ID: "ex-1", Name: "Squats", Sets: 3, Reps: 10, RestTimeSec: 120},
		{ID: "ex-2", Name: "Leg Press", Sets: 3, Reps: 12, RestTimeSec: 90},
	}
}

func TestStartCreatesActiveSession(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())

	sess, err := m.Start("u1", "Leg Day", "", "", legDay())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if sess.State != models.StateActive {
		t.Errorf("state = %q, want active", sess.State)
	}
	if sess.CurrentExerciseIndex != 0 || sess.CurrentSet != 1 {
		t.Errorf("index/set = %d/%d, want 0/1", sess.CurrentExerciseIndex, sess.CurrentSet)
	}
	if len(sess.CompletedExercises) != 0 {
		t.Errorf("completed exercises = %d, want 0", len(sess.CompletedExercises))
	}
}

func TestStartRequiresExercises(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	if _, err := m.Start("u1", "Empty", "", "", nil); !errors.Is(err, ErrNoExercises) {
		t.Errorf("err = %v, want ErrNoExercises", err)
	}
}

// TestDoubleStartReplaces pins the double-start policy: a second Start
// discards the previous session deterministically and no completed-workout
// record is written for it.
func TestDoubleStartReplaces(t *testing.T) {
	history := &memHistory{}
	m := NewManager(history, nil, discard())

	first, _ := m.Start("u1", "Leg Day", "", "", legDay())
	second, err := m.Start("u1", "Push Day", "", "", legDay())
	if err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if second.ID == first.ID {
		t.Error("second session reused the first session's id")
	}

	cur := m.Current("u1")
	if cur == nil || cur.WorkoutName != "Push Day" {
		t.Errorf("current session = %+v, want Push Day", cur)
	}
	if len(history.workouts) != 0 {
		t.Errorf("history has %d records, want 0", len(history.workouts))
	}
}

// TestSingleActiveSession checks that after an arbitrary transition sequence
// each user holds at most one non-terminal session.
func TestSingleActiveSession(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())

	m.Start("u1", "A", "", "", legDay())
	m.StartRest("u1", 60)
	m.Pause("u1")
	m.Resume("u1")
	m.Start("u1", "B", "", "", legDay())

	cur := m.Current("u1")
	if cur == nil {
		t.Fatal("no current session")
	}
	if cur.State != models.StateActive && cur.State != models.StateResting {
		t.Errorf("state = %q, want active or resting", cur.State)
	}
	if cur.WorkoutName != "B" {
		t.Errorf("workout = %q, want B", cur.WorkoutName)
	}
}

// TestCompleteExerciseAdvances covers the monotonic-index property: the
// exercise index only grows, never past the exercise count, and the guard
// error fires once the list is exhausted.
func TestCompleteExerciseAdvances(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	m.Start("u1", "Leg Day", "", "", legDay())

	s1, err := m.CompleteExercise("u1")
	if err != nil {
		t.Fatalf("first CompleteExercise: %v", err)
	}
	if s1.CurrentExerciseIndex != 1 {
		t.Errorf("index = %d, want 1", s1.CurrentExerciseIndex)
	}
	if len(s1.CompletedExercises) != 1 || s1.CompletedExercises[0] != "Squats" {
		t.Errorf("completed = %v, want [Squats]", s1.CompletedExercises)
	}

	s2, err := m.CompleteExercise("u1")
	if err != nil {
		t.Fatalf("second CompleteExercise: %v", err)
	}
	if s2.CurrentExerciseIndex != 2 {
		t.Errorf("index = %d, want 2", s2.CurrentExerciseIndex)
	}

	if _, err := m.CompleteExercise("u1"); !errors.Is(err, ErrNoExercisesLeft) {
		t.Errorf("err = %v, want ErrNoExercisesLeft", err)
	}
	if cur := m.Current("u1"); cur.CurrentExerciseIndex != 2 {
		t.Errorf("index after guard = %d, want 2 (unchanged)", cur.CurrentExerciseIndex)
	}
}

func TestCompleteExerciseResetsSet(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	m.Start("u1", "Leg Day", "", "", legDay())

	m.NextSet("u1")
	m.NextSet("u1")
	sess, _ := m.CompleteExercise("u1")
	if sess.CurrentSet != 1 {
		t.Errorf("set after exercise change = %d, want 1", sess.CurrentSet)
	}
}

func TestPauseResumeRestoresRest(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	m.Start("u1", "Leg Day", "", "", legDay())

	m.StartRest("u1", 90)
	paused, _ := m.Pause("u1")
	if paused.State != models.StateIdle {
		t.Errorf("state after pause = %q, want idle", paused.State)
	}
	if paused.TimerSeconds != 90 || !paused.IsRestTimer {
		t.Errorf("timer state not preserved across pause: %d/%v", paused.TimerSeconds, paused.IsRestTimer)
	}

	resumed, _ := m.Resume("u1")
	if resumed.State != models.StateResting {
		t.Errorf("state after resume = %q, want resting", resumed.State)
	}
}

func TestResumeFromActive(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	m.Start("u1", "Leg Day", "", "", legDay())

	m.Pause("u1")
	resumed, _ := m.Resume("u1")
	if resumed.State != models.StateActive {
		t.Errorf("state after resume = %q, want active", resumed.State)
	}
}

// TestCompleteWorkout walks the full Leg Day scenario: two exercises
// completed, then the workout. The record must carry both counts, the
// session slot must clear, and further transitions must fail.
func TestCompleteWorkout(t *testing.T) {
	history := &memHistory{}
	outbox := &memOutbox{}
	m := NewManager(history, outbox, discard())

	m.Start("u1", "Leg Day", "plan-1", "day-1", legDay())
	m.CompleteExercise("u1")
	m.CompleteExercise("u1")

	completed, err := m.Complete(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.ExercisesCompleted != 2 || completed.TotalExercises != 2 {
		t.Errorf("counts = %d/%d, want 2/2", completed.ExercisesCompleted, completed.TotalExercises)
	}
	if len(history.workouts) != 1 {
		t.Fatalf("history has %d records, want 1", len(history.workouts))
	}
	if len(outbox.enqueued) != 1 {
		t.Errorf("outbox has %d records, want 1", len(outbox.enqueued))
	}

	if m.Current("u1") != nil {
		t.Error("session not cleared after completion")
	}
	if _, err := m.CompleteExercise("u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("err after completion = %v, want ErrNoActiveSession", err)
	}
}

// TestCompleteDuration pins duration derivation: completing T minutes after
// start yields duration == round(T).
func TestCompleteDuration(t *testing.T) {
	history := &memHistory{}
	m := NewManager(history, nil, discard())

	start := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	current := start
	m.SetClock(func() time.Time { return current })

	m.Start("u1", "Leg Day", "", "", legDay())

	current = start.Add(42*time.Minute + 40*time.Second)
	completed, err := m.Complete(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.DurationMin != 43 {
		t.Errorf("duration = %d, want 43 (rounded)", completed.DurationMin)
	}
	if !completed.Date.Equal(current) {
		t.Errorf("date = %v, want %v", completed.Date, current)
	}
}

// TestCompleteHistoryFailure verifies that a failed history append leaves
// the session active so the client can retry.
func TestCompleteHistoryFailure(t *testing.T) {
	history := &memHistory{appendErr: errors.New("db down")}
	m := NewManager(history, nil, discard())

	m.Start("u1", "Leg Day", "", "", legDay())
	if _, err := m.Complete(context.Background(), "u1"); err == nil {
		t.Fatal("expected error from Complete")
	}

	cur := m.Current("u1")
	if cur == nil || cur.State != models.StateActive {
		t.Errorf("session = %+v, want still active", cur)
	}
	if cur.EndTime != nil {
		t.Error("end time set on failed completion")
	}
}

// TestCompleteOutboxFailure verifies that a sync enqueue failure never rolls
// back the local completion.
func TestCompleteOutboxFailure(t *testing.T) {
	history := &memHistory{}
	outbox := &memOutbox{err: errors.New("disk full")}
	m := NewManager(history, outbox, discard())

	m.Start("u1", "Leg Day", "", "", legDay())
	completed, err := m.Complete(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed == nil || len(history.workouts) != 1 {
		t.Error("local completion rolled back by outbox failure")
	}
}

// TestCancelWritesNoHistory covers the cancellation scenario: no record, no
// stats change, slot cleared.
func TestCancelWritesNoHistory(t *testing.T) {
	history := &memHistory{}
	m := NewManager(history, nil, discard())

	m.Start("u1", "Leg Day", "", "", legDay())
	if err := m.Cancel("u1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(history.workouts) != 0 {
		t.Errorf("history has %d records, want 0", len(history.workouts))
	}
	if m.Current("u1") != nil {
		t.Error("session not cleared after cancel")
	}
	if err := m.Cancel("u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("second Cancel = %v, want ErrNoActiveSession", err)
	}
}

func TestTransitionsWithoutSession(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())

	if _, err := m.NextSet("u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("NextSet = %v, want ErrNoActiveSession", err)
	}
	if _, err := m.StartRest("u1", 60); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("StartRest = %v, want ErrNoActiveSession", err)
	}
	if _, err := m.Pause("u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Pause = %v, want ErrNoActiveSession", err)
	}
	if _, err := m.Resume("u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Resume = %v, want ErrNoActiveSession", err)
	}
	if _, err := m.Complete(context.Background(), "u1"); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("Complete = %v, want ErrNoActiveSession", err)
	}
}

// TestSnapshotIsolation verifies that mutating a returned snapshot does not
// touch the manager's copy.
func TestSnapshotIsolation(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())
	m.Start("u1", "Leg Day", "", "", legDay())

	snap := m.Current("u1")
	snap.Exercises[0].Name = "mutated"
	snap.CurrentSet = 99

	cur := m.Current("u1")
	if cur.Exercises[0].Name != "Squats" || cur.CurrentSet != 1 {
		t.Error("snapshot mutation leaked into manager state")
	}
}

func TestUsersAreIndependent(t *testing.T) {
	m := NewManager(&memHistory{}, nil, discard())

	m.Start("u1", "Leg Day", "", "", legDay())
	m.Start("u2", "Push Day", "", "", legDay())
	m.Cancel("u1")

	if m.Current("u1") != nil {
		t.Error("u1 session should be gone")
	}
	if cur := m.Current("u2"); cur == nil || cur.WorkoutName != "Push Day" {
		t.Errorf("u2 session = %+v, want Push Day", cur)
	}
}
