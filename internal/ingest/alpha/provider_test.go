package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
)

// fakeStore records writes in memory.
type fakeStore struct {
	rows    map[string]models.Workout
	logs    map[int64]storage.ImportLog
	failOn  string
	nextLog int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]models.Workout{}, logs: map[int64]storage.ImportLog{}}
}

func (f *fakeStore) UpsertWorkout(_ context.Context, w models.Workout) (bool, error) {
	if w.Date == f.failOn {
		return false, errors.New("boom")
	}
	_, exists := f.rows[w.Key()]
	f.rows[w.Key()] = w
	return !exists, nil
}

func (f *fakeStore) InsertImportLog(_ context.Context, log storage.ImportLog) (int64, error) {
	f.nextLog++
	f.logs[f.nextLog] = log
	return f.nextLog, nil
}

func (f *fakeStore) UpdateImportLog(_ context.Context, id int64, log storage.ImportLog) error {
	f.logs[id] = log
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestIngestInsertsThenUpdates verifies a second import of the same export
// updates existing workouts rather than duplicating them.
func TestIngestInsertsThenUpdates(t *testing.T) {
	store := newFakeStore()
	p := NewProvider(store, quietLogger())
	ctx := context.Background()

	first, err := p.Ingest(ctx, strings.NewReader(sampleCSV), false)
	if err != nil {
		t.Fatal(err)
	}
	if first.WorkoutsInserted != 2 || first.WorkoutsUpdated != 0 {
		t.Errorf("first import = %+v, want 2 inserted", first)
	}
	if first.SetsReceived != 12 {
		t.Errorf("sets received = %d, want 12", first.SetsReceived)
	}

	second, err := p.Ingest(ctx, strings.NewReader(sampleCSV), false)
	if err != nil {
		t.Fatal(err)
	}
	if second.WorkoutsInserted != 0 || second.WorkoutsUpdated != 2 {
		t.Errorf("second import = %+v, want 2 updated", second)
	}
	if len(store.rows) != 2 {
		t.Errorf("rows = %d, want 2", len(store.rows))
	}
	if got := store.logs[2].Status; got != "success" {
		t.Errorf("log status = %q, want success", got)
	}
}

// TestIngestDryRun verifies counts are reported and nothing is written.
func TestIngestDryRun(t *testing.T) {
	store := newFakeStore()
	p := NewProvider(store, quietLogger())

	result, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), true)
	if err != nil {
		t.Fatal(err)
	}
	if !result.DryRun || result.WorkoutsReceived != 2 {
		t.Errorf("result = %+v", result)
	}
	if len(store.rows) != 0 || len(store.logs) != 0 {
		t.Error("dry run wrote to the store")
	}
}

// TestIngestRecordsFailure verifies a failed write marks the import log.
func TestIngestRecordsFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = "2026-02-17"
	p := NewProvider(store, quietLogger())

	if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), false); err == nil {
		t.Fatal("expected error")
	}
	log := store.logs[1]
	if log.Status != "error" || log.ErrorMessage == nil {
		t.Errorf("log = %+v, want error status with message", log)
	}
}
