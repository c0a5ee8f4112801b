package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/editor"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRegistry() *Registry {
	return NewRegistry(storage.NewStatic(storage.SampleWorkouts()), 0)
}

// TestOpenPrefilled verifies a form opened on a recorded date starts from
// that workout, and one on an empty date starts blank.
func TestOpenPrefilled(t *testing.T) {
	r := newRegistry()
	ctx := context.Background()

	snap, err := r.Open(ctx, "2025-05-22")
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Prefilled || snap.Workout.Name != "Pull Day" {
		t.Errorf("snapshot = %+v, want prefilled Pull Day", snap)
	}
	if snap.CanUndo {
		t.Error("fresh form should have nothing to undo")
	}

	blank, err := r.Open(ctx, "2030-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if blank.Prefilled || blank.Workout.Date != "2030-01-01" || len(blank.Workout.Exercises) != 0 {
		t.Errorf("blank form = %+v", blank)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

// TestApplyAndUndo verifies edits push history and undo walks it back.
func TestApplyAndUndo(t *testing.T) {
	r := newRegistry()
	snap, _ := r.Open(context.Background(), "2025-05-22")
	before := len(snap.Workout.Exercises)

	after, err := r.Apply(snap.ID, func(w models.Workout) (models.Workout, error) {
		return editor.AddExercise(w), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Workout.Exercises) != before+1 || !after.CanUndo {
		t.Errorf("after add = %d exercises, canUndo %v", len(after.Workout.Exercises), after.CanUndo)
	}

	undone, err := r.Undo(snap.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(undone.Workout.Exercises) != before || undone.CanUndo {
		t.Errorf("after undo = %d exercises, canUndo %v", len(undone.Workout.Exercises), undone.CanUndo)
	}
	if _, err := r.Undo(snap.ID); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
}

// TestApplyErrorKeepsState verifies a failed edit neither changes the
// workout nor records history.
func TestApplyErrorKeepsState(t *testing.T) {
	r := newRegistry()
	snap, _ := r.Open(context.Background(), "2025-05-22")

	got, err := r.Apply(snap.ID, func(w models.Workout) (models.Workout, error) {
		return editor.DeleteExercise(w, 0, editor.ConfirmFunc(func(editor.Prompt) bool { return false }))
	})
	if !errors.Is(err, editor.ErrNotConfirmed) {
		t.Fatalf("err = %v, want ErrNotConfirmed", err)
	}
	if got.CanUndo || len(got.Workout.Exercises) != len(snap.Workout.Exercises) {
		t.Errorf("state changed after failed edit: %+v", got)
	}
}

// TestUndoDepth verifies history is capped.
func TestUndoDepth(t *testing.T) {
	r := NewRegistry(storage.NewStatic(nil), 2)
	snap, _ := r.Open(context.Background(), "2025-01-01")
	for i := 0; i < 5; i++ {
		if _, err := r.Apply(snap.ID, func(w models.Workout) (models.Workout, error) {
			return editor.AddExercise(w), nil
		}); err != nil {
			t.Fatal(err)
		}
	}
	r.Undo(snap.ID)
	got, _ := r.Undo(snap.ID)
	if len(got.Workout.Exercises) != 3 {
		t.Errorf("exercises after two undos = %d, want 3", len(got.Workout.Exercises))
	}
	if _, err := r.Undo(snap.ID); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("err = %v, want ErrNothingToUndo", err)
	}
}

// TestUnknownForm verifies every operation reports ErrFormNotFound.
func TestUnknownForm(t *testing.T) {
	r := newRegistry()
	if _, err := r.Get("nope"); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := r.Undo("nope"); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("Undo err = %v", err)
	}
	if err := r.Close("nope"); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("Close err = %v", err)
	}
}

// TestPrune verifies idle forms are dropped and active ones kept.
func TestPrune(t *testing.T) {
	r := newRegistry()
	clock := time.Date(2025, 5, 26, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	idle, _ := r.Open(context.Background(), "2025-05-20")
	clock = clock.Add(2 * time.Hour)
	active, _ := r.Open(context.Background(), "2025-05-22")

	if n := r.Prune(time.Hour); n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	if _, err := r.Get(idle.ID); !errors.Is(err, ErrFormNotFound) {
		t.Error("idle form should be pruned")
	}
	if _, err := r.Get(active.ID); err != nil {
		t.Error("active form should be kept")
	}
}

// TestRunJanitorStops verifies the janitor exits on cancellation.
func TestRunJanitorStops(t *testing.T) {
	r := newRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RunJanitor(ctx, time.Millisecond, time.Hour, nil)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

// TestConcurrentEdits verifies parallel edits on one form are serialized.
func TestConcurrentEdits(t *testing.T) {
	r := NewRegistry(storage.NewStatic(nil), 100)
	snap, _ := r.Open(context.Background(), "2025-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Apply(snap.ID, func(w models.Workout) (models.Workout, error) {
				return editor.AddExercise(w), nil
			})
		}()
	}
	wg.Wait()

	got, _ := r.Get(snap.ID)
	if len(got.Workout.Exercises) != 20 {
		t.Errorf("exercises = %d, want 20", len(got.Workout.Exercises))
	}
}
