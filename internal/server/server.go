package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/claude/reptrack/internal/plans"
	"github.com/claude/reptrack/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the storage surface the handlers need. *storage.DB satisfies it.
type Store interface {
	ListCompleted(ctx context.Context, userID string) ([]models.CompletedWorkout, error)
	QueryCompleted(ctx context.Context, userID string, start, end time.Time) ([]models.CompletedWorkout, error)
	ResetHistory(ctx context.Context, userID string) (int64, error)
	ListPlans(ctx context.Context, userID string) ([]models.WorkoutPlan, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        Store
	sessions  *session.Manager
	generator *plans.Generator
	log       *slog.Logger
	jwtSecret string
	jwtIssuer string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, sessions *session.Manager, generator *plans.Generator, jwtSecret, jwtIssuer string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		sessions:  sessions,
		generator: generator,
		log:       log,
		jwtSecret: jwtSecret,
		jwtIssuer: jwtIssuer,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Everything user-facing requires a bearer token carrying the user id.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(BearerAuth(s.jwtSecret, s.jwtIssuer))

		r.Route("/session", func(r chi.Router) {
			r.Post("/start", s.handleSessionStart)
			r.Get("/", s.handleSessionCurrent)
			r.Post("/exercise/complete", s.handleCompleteExercise)
			r.Post("/set/next", s.handleNextSet)
			r.Post("/rest", s.handleStartRest)
			r.Post("/timer", s.handleUpdateTimer)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/complete", s.handleComplete)
			r.Post("/cancel", s.handleCancel)
		})

		r.Get("/workouts", s.handleQueryWorkouts)
		r.Get("/workouts/today", s.handleTodayWorkouts)
		r.Get("/stats", s.handleStats)
		r.Delete("/history", s.handleResetHistory)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Get("/recommended", s.handleRecommendedPlans)
			r.Post("/generate", s.handleGeneratePlan)
		})

		r.Post("/measurements/project", s.handleProjectMeasurements)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
