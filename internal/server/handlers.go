package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/claude/reptrack/internal/plans"
	"github.com/claude/reptrack/internal/session"
	"github.com/claude/reptrack/internal/stats"
)

type startSessionRequest struct {
	WorkoutName string            `json:"workout_name"`
	PlanRef     string            `json:"plan_ref"`
	DayRef      string            `json:"day_ref"`
	Exercises   []models.Exercise `json:"exercises"`
}

func (s *Server) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	sess, err := s.sessions.Start(UserID(r.Context()), req.WorkoutName, req.PlanRef, req.DayRef, req.Exercises)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleSessionCurrent(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Current(UserID(r.Context()))
	if sess == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.CompleteExercise(UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleNextSet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.NextSet(UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

type timerRequest struct {
	Seconds int `json:"seconds"`
}

func (s *Server) handleStartRest(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.sessions.StartRest(UserID(r.Context()), req.Seconds)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleUpdateTimer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	sess, err := s.sessions.UpdateTimer(UserID(r.Context()), req.Seconds)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Pause(UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Resume(UserID(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	completed, err := s.sessions.Complete(r.Context(), UserID(r.Context()))
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			writeSessionError(w, err)
			return
		}
		s.log.Error("completing session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, completed)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Cancel(UserID(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// writeSessionError maps state-machine errors onto HTTP statuses: a missing
// session is a conflict with the client's view of the world, not a server
// fault.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoActiveSession), errors.Is(err, session.ErrNoExercisesLeft):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, session.ErrNoExercises):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) handleQueryWorkouts(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())

	if r.URL.Query().Get("start") == "" && r.URL.Query().Get("end") == "" {
		workouts, err := s.db.ListCompleted(r.Context(), userID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, workouts)
		return
	}

	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	workouts, err := s.db.QueryCompleted(r.Context(), userID, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleTodayWorkouts(w http.ResponseWriter, r *http.Request) {
	history, err := s.db.ListCompleted(r.Context(), UserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats.TodayWorkouts(history, time.Now()))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	history, err := s.db.ListCompleted(r.Context(), UserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(history, time.Now()))
}

func (s *Server) handleResetHistory(w http.ResponseWriter, r *http.Request) {
	userID := UserID(r.Context())
	n, err := s.db.ResetHistory(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.log.Info("history reset", "user", userID, "deleted", n)
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	stored, err := s.db.ListPlans(r.Context(), UserID(r.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if stored == nil {
		stored = []models.WorkoutPlan{}
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleRecommendedPlans(w http.ResponseWriter, r *http.Request) {
	goal := models.Goal(r.URL.Query().Get("goal"))
	if goal == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goal parameter required"})
		return
	}
	difficulty := models.Difficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = models.DifficultyIntermediate
	}
	writeJSON(w, http.StatusOK, plans.Predefined(goal, difficulty))
}

type generatePlanRequest struct {
	Goal       models.Goal       `json:"goal"`
	Difficulty models.Difficulty `json:"difficulty"`
	Duration   string            `json:"duration"`
}

func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Goal == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "goal is required"})
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyIntermediate
	}

	plan, err := s.generator.Generate(r.Context(), UserID(r.Context()), req.Goal, req.Difficulty, req.Duration)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

type projectMeasurementsRequest struct {
	Measurements map[string]float64 `json:"measurements"`
	Goal         models.Goal        `json:"goal"`
	Progress     float64            `json:"progress"`
}

func (s *Server) handleProjectMeasurements(w http.ResponseWriter, r *http.Request) {
	var req projectMeasurementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Progress < 0 || req.Progress > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "progress must be between 0 and 100"})
		return
	}
	writeJSON(w, http.StatusOK, plans.ProjectMeasurements(req.Measurements, req.Goal, req.Progress))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = time.Now()
		start = end.AddDate(0, 0, -7)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
	}
	return
}
