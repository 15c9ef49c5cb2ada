package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	sessionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reptrack",
		Subsystem: "session",
		Name:      "started_total",
		Help:      "Workout sessions started.",
	})

	sessionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reptrack",
		Subsystem: "session",
		Name:      "completed_total",
		Help:      "Workout sessions completed.",
	})

	sessionsCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reptrack",
		Subsystem: "session",
		Name:      "cancelled_total",
		Help:      "Workout sessions cancelled without a completed-workout record.",
	})

	syncAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reptrack",
		Subsystem: "sync",
		Name:      "attempts_total",
		Help:      "Upstream sync deliveries attempted.",
	})

	syncFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reptrack",
		Subsystem: "sync",
		Name:      "failures_total",
		Help:      "Upstream sync deliveries that failed and will be retried.",
	})
)

func init() {
	prometheus.MustRegister(sessionsStarted, sessionsCompleted, sessionsCancelled, syncAttempts, syncFailures)
}

// RecordSessionStarted increments the started-session counter.
func RecordSessionStarted() { sessionsStarted.Inc() }

// RecordSessionCompleted increments the completed-session counter.
func RecordSessionCompleted() { sessionsCompleted.Inc() }

// RecordSessionCancelled increments the cancelled-session counter.
func RecordSessionCancelled() { sessionsCancelled.Inc() }

// RecordSyncAttempt increments the sync-attempt counter.
func RecordSyncAttempt() { syncAttempts.Inc() }

// RecordSyncFailure increments the sync-failure counter.
func RecordSyncFailure() { syncFailures.Inc() }
