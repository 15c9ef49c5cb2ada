package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/claude/reptrack/internal/models"
	"github.com/google/uuid"
)

type memHistory struct {
	rows []models.CompletedWorkout
}

func (m *memHistory) AppendCompleted(_ context.Context, w models.CompletedWorkout) error {
	m.rows = append(m.rows, w)
	return nil
}

func (m *memHistory) ListCompleted(_ context.Context, userID string) ([]models.CompletedWorkout, error) {
	return m.rows, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const storeExport = `{
  "workoutHistory": [
    {"id": "4dbd68ac-4d21-4ba3-89ab-c7b6c2d1a111", "name": "Leg Day", "date": "2026-03-10T19:00:00Z", "duration": 42, "exercisesCompleted": 3, "totalExercises": 3},
    {"id": "legacy-17", "name": "Upper Body", "date": "2026-03-09", "duration": 30, "exercisesCompleted": 4, "totalExercises": 5},
    {"id": "bad-1", "name": "", "date": "2026-03-08", "duration": 10, "exercisesCompleted": 1, "totalExercises": 1}
  ]
}`

func TestImportStoreExport(t *testing.T) {
	db := &memHistory{}
	imp := New(db, discard(), false)

	stats, err := imp.Import(context.Background(), writeExport(t, storeExport), "u1")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	if stats.WorkoutsRead != 3 {
		t.Errorf("read = %d, want 3", stats.WorkoutsRead)
	}
	if stats.WorkoutsInserted != 2 {
		t.Errorf("inserted = %d, want 2", stats.WorkoutsInserted)
	}
	if len(stats.RejectedRecords) != 1 {
		t.Errorf("rejected = %d, want 1 (nameless record)", len(stats.RejectedRecords))
	}

	if len(db.rows) != 2 {
		t.Fatalf("db rows = %d, want 2", len(db.rows))
	}
	if db.rows[0].UserID != "u1" || db.rows[0].WorkoutName != "Leg Day" || db.rows[0].DurationMin != 42 {
		t.Errorf("first row = %+v", db.rows[0])
	}
}

// TestImportBareArray accepts exports that are just the history array.
func TestImportBareArray(t *testing.T) {
	db := &memHistory{}
	imp := New(db, discard(), false)

	export := `[{"id": "legacy-1", "name": "Core", "date": "2026-03-01", "duration": 20, "exercisesCompleted": 2, "totalExercises": 2}]`
	stats, err := imp.Import(context.Background(), writeExport(t, export), "u1")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.WorkoutsInserted != 1 {
		t.Errorf("inserted = %d, want 1", stats.WorkoutsInserted)
	}
}

// TestImportIdempotent verifies a second import of the same file inserts
// nothing, including for legacy non-UUID ids.
func TestImportIdempotent(t *testing.T) {
	db := &memHistory{}

	if _, err := New(db, discard(), false).Import(context.Background(), writeExport(t, storeExport), "u1"); err != nil {
		t.Fatalf("first import: %v", err)
	}
	stats, err := New(db, discard(), false).Import(context.Background(), writeExport(t, storeExport), "u1")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}

	if stats.WorkoutsInserted != 0 {
		t.Errorf("second import inserted = %d, want 0", stats.WorkoutsInserted)
	}
	if stats.WorkoutsSkipped != 2 {
		t.Errorf("second import skipped = %d, want 2", stats.WorkoutsSkipped)
	}
	if len(db.rows) != 2 {
		t.Errorf("db rows = %d, want 2", len(db.rows))
	}
}

// TestLegacyIDsAreDeterministic verifies the same legacy id always maps to
// the same UUID.
func TestLegacyIDsAreDeterministic(t *testing.T) {
	a, err := convert(exportWorkout{ID: "legacy-17", Name: "A", Date: "2026-03-09", Duration: 30}, "u1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := convert(exportWorkout{ID: "legacy-17", Name: "A", Date: "2026-03-09", Duration: 30}, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("same legacy id mapped to %s and %s", a.ID, b.ID)
	}
	if a.ID == uuid.Nil {
		t.Error("legacy id mapped to nil UUID")
	}
}

func TestDryRunWritesNothing(t *testing.T) {
	db := &memHistory{}
	imp := New(db, discard(), true)

	stats, err := imp.Import(context.Background(), writeExport(t, storeExport), "u1")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if stats.WorkoutsInserted != 2 {
		t.Errorf("dry-run inserted count = %d, want 2", stats.WorkoutsInserted)
	}
	if len(db.rows) != 0 {
		t.Errorf("dry run wrote %d rows", len(db.rows))
	}
}

func TestImportRejectsNegativeDuration(t *testing.T) {
	_, err := convert(exportWorkout{ID: "x", Name: "A", Date: "2026-03-09", Duration: -5}, "u1")
	if err == nil {
		t.Error("expected error for negative duration")
	}
}
