// Package importer loads workout history exported from the mobile app into
// the server database. Exports are JSON snapshots of the app's local store,
// so field names follow its camelCase convention.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/claude/reptrack/internal/models"
	"github.com/google/uuid"
)

// Stats tracks import progress.
type Stats struct {
	WorkoutsRead     int
	WorkoutsInserted int
	WorkoutsSkipped  int
	RejectedRecords  []string
}

// HistoryStore is the storage surface the importer writes to. *storage.DB
// satisfies it.
type HistoryStore interface {
	AppendCompleted(ctx context.Context, w models.CompletedWorkout) error
	ListCompleted(ctx context.Context, userID string) ([]models.CompletedWorkout, error)
}

// Importer reads a device export file and inserts its workouts into the DB.
type Importer struct {
	db     HistoryStore
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(db HistoryStore, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun}
}

// exportFile is the top-level shape of a device export.
type exportFile struct {
	WorkoutHistory []exportWorkout `json:"workoutHistory"`
}

// exportWorkout is one history entry as the app stores it.
type exportWorkout struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Date               string `json:"date"`
	Duration           int    `json:"duration"`
	ExercisesCompleted int    `json:"exercisesCompleted"`
	TotalExercises     int    `json:"totalExercises"`
	CaloriesBurned     *int   `json:"caloriesBurned"`
}

// Import reads the export at path and appends its workouts to userID's
// history. Records that cannot be converted are collected in the stats
// rather than aborting the run; duplicates of already-imported workouts are
// counted as skipped.
func (imp *Importer) Import(ctx context.Context, path, userID string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading export: %w", err)
	}

	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		// Some exports are the bare history array rather than the full store.
		if arrErr := json.Unmarshal(data, &export.WorkoutHistory); arrErr != nil {
			return &imp.stats, fmt.Errorf("parsing export: %w", err)
		}
	}

	existing := map[uuid.UUID]bool{}
	if !imp.dryRun {
		history, err := imp.db.ListCompleted(ctx, userID)
		if err != nil {
			return &imp.stats, fmt.Errorf("loading existing history: %w", err)
		}
		for _, w := range history {
			existing[w.ID] = true
		}
	}

	for _, raw := range export.WorkoutHistory {
		imp.stats.WorkoutsRead++

		w, err := convert(raw, userID)
		if err != nil {
			imp.stats.RejectedRecords = append(imp.stats.RejectedRecords, fmt.Sprintf("%s: %v", raw.ID, err))
			imp.log.Warn("skipping export record", "id", raw.ID, "error", err)
			continue
		}

		if existing[w.ID] {
			imp.stats.WorkoutsSkipped++
			continue
		}

		if imp.dryRun {
			imp.stats.WorkoutsInserted++
			continue
		}

		if err := imp.db.AppendCompleted(ctx, w); err != nil {
			return &imp.stats, fmt.Errorf("inserting workout %s: %w", w.ID, err)
		}
		imp.stats.WorkoutsInserted++
	}

	imp.log.Info("import finished",
		"read", imp.stats.WorkoutsRead,
		"inserted", imp.stats.WorkoutsInserted,
		"skipped", imp.stats.WorkoutsSkipped,
		"rejected", len(imp.stats.RejectedRecords))
	return &imp.stats, nil
}

// convert maps one export record onto a CompletedWorkout. Export ids minted
// by older app versions are not UUIDs; those records get a deterministic
// UUID derived from the id string so re-imports stay idempotent.
func convert(raw exportWorkout, userID string) (models.CompletedWorkout, error) {
	if raw.Name == "" {
		return models.CompletedWorkout{}, fmt.Errorf("record has no workout name")
	}

	date, err := parseExportDate(raw.Date)
	if err != nil {
		return models.CompletedWorkout{}, fmt.Errorf("bad date %q: %w", raw.Date, err)
	}
	if raw.Duration < 0 {
		return models.CompletedWorkout{}, fmt.Errorf("negative duration %d", raw.Duration)
	}

	id, err := uuid.Parse(raw.ID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw.ID))
	}

	return models.CompletedWorkout{
		ID:                 id,
		UserID:             userID,
		WorkoutName:        raw.Name,
		Date:               date,
		DurationMin:        raw.Duration,
		ExercisesCompleted: raw.ExercisesCompleted,
		TotalExercises:     raw.TotalExercises,
		CaloriesBurned:     raw.CaloriesBurned,
	}, nil
}

func parseExportDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
