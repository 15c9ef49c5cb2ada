package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/claude/reptrack/internal/observability"
)

// drainBatchSize bounds how many queued sessions one drain pass touches.
const drainBatchSize = 50

// Worker drains the outbox against the upstream backend in the background.
// It never blocks or fails session completion: the session controller only
// enqueues, and the worker delivers whenever the upstream cooperates.
type Worker struct {
	state    *StateDB
	client   *Client
	interval time.Duration
	log      *slog.Logger
}

// NewWorker creates a Worker that drains every interval.
func NewWorker(state *StateDB, client *Client, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{state: state, client: client, interval: interval, log: log}
}

// Run drains the outbox periodically until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain attempts delivery of all pending entries once and returns the
// delivered/failed counts. Failures stay queued for the next pass.
func (w *Worker) Drain(ctx context.Context) (delivered, failed int) {
	entries, err := w.state.Pending(ctx, drainBatchSize)
	if err != nil {
		w.log.Error("reading outbox", "error", err)
		return 0, 0
	}

	for _, e := range entries {
		observability.RecordSyncAttempt()
		err := w.client.PushSession(ctx, e.Session, e.Completed)
		if err == nil {
			if err := w.state.MarkDelivered(ctx, e.SessionID); err != nil {
				w.log.Warn("marking delivery", "session", e.SessionID, "error", err)
			}
			delivered++
			continue
		}

		observability.RecordSyncFailure()
		failed++
		if markErr := w.state.MarkFailed(ctx, e.SessionID, err.Error()); markErr != nil {
			w.log.Warn("marking failure", "session", e.SessionID, "error", markErr)
		}

		// Without credentials every remaining entry fails the same way.
		if errors.Is(err, ErrNoToken) || errors.Is(err, ErrAuthFailed) {
			w.log.Warn("sync paused until credentials are fixed", "error", err)
			return delivered, failed
		}
		w.log.Warn("sync delivery failed, will retry", "session", e.SessionID, "attempts", e.Attempts+1, "error", err)
	}

	if delivered > 0 {
		w.log.Info("sync drain complete", "delivered", delivered, "failed", failed)
	}
	return delivered, failed
}
