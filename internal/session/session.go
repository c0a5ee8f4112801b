// Package session keeps the open workout forms. Each form holds the current
// workout plus the snapshots taken before every edit, so edits can be undone.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrNothingToUndo = errors.New("nothing to undo")
)

const (
	DefaultUndoDepth  = 50
	DefaultFormMaxAge = 12 * time.Hour
)

// Snapshot is the client view of a form.
type Snapshot struct {
	ID        string         `json:"id"`
	Workout   models.Workout `json:"workout"`
	Prefilled bool           `json:"prefilled"`
	CanUndo   bool           `json:"canUndo"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type form struct {
	id        string
	current   models.Workout
	history   []models.Workout
	prefilled bool
	updatedAt time.Time
}

func (f *form) snapshot() Snapshot {
	return Snapshot{
		ID:        f.id,
		Workout:   f.current,
		Prefilled: f.prefilled,
		CanUndo:   len(f.history) > 0,
		UpdatedAt: f.updatedAt,
	}
}

// Registry is the set of open forms. It is safe for concurrent use.
type Registry struct {
	src       storage.Source
	undoDepth int

	mu    sync.Mutex
	forms map[string]*form

	now func() time.Time
}

// NewRegistry creates a registry that prefills forms from src.
// undoDepth <= 0 uses DefaultUndoDepth.
func NewRegistry(src storage.Source, undoDepth int) *Registry {
	if undoDepth <= 0 {
		undoDepth = DefaultUndoDepth
	}
	return &Registry{
		src:       src,
		undoDepth: undoDepth,
		forms:     make(map[string]*form),
		now:       time.Now,
	}
}

// Open starts a form for date. If the source has a workout on that date the
// form starts from a copy of it; otherwise it starts blank.
func (r *Registry) Open(ctx context.Context, date string) (Snapshot, error) {
	f := &form{id: uuid.NewString(), current: models.Workout{Date: date}}

	existing, err := r.src.GetWorkout(ctx, date)
	switch {
	case err == nil:
		f.current = existing.Clone()
		f.prefilled = true
	case errors.Is(err, storage.ErrNotFound):
	default:
		return Snapshot{}, fmt.Errorf("loading workout %s: %w", date, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	f.updatedAt = r.now()
	r.forms[f.id] = f
	return f.snapshot(), nil
}

// Get returns the current state of a form.
func (r *Registry) Get(id string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return Snapshot{}, ErrFormNotFound
	}
	return f.snapshot(), nil
}

// Apply runs edit on the form's workout. On success the previous workout is
// pushed onto the undo history; on error the form is left as it was.
func (r *Registry) Apply(id string, edit func(models.Workout) (models.Workout, error)) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return Snapshot{}, ErrFormNotFound
	}

	next, err := edit(f.current)
	if err != nil {
		return f.snapshot(), err
	}
	f.history = append(f.history, f.current)
	if len(f.history) > r.undoDepth {
		f.history = f.history[len(f.history)-r.undoDepth:]
	}
	f.current = next
	f.updatedAt = r.now()
	return f.snapshot(), nil
}

// Undo restores the workout as it was before the last successful edit.
func (r *Registry) Undo(id string) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok {
		return Snapshot{}, ErrFormNotFound
	}
	if len(f.history) == 0 {
		return f.snapshot(), ErrNothingToUndo
	}
	last := len(f.history) - 1
	f.current = f.history[last]
	f.history = f.history[:last]
	f.updatedAt = r.now()
	return f.snapshot(), nil
}

// Close discards a form.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[id]; !ok {
		return ErrFormNotFound
	}
	delete(r.forms, id)
	return nil
}

// Len reports how many forms are open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Prune closes forms untouched for longer than maxAge and returns how many
// were closed.
func (r *Registry) Prune(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-maxAge)
	n := 0
	for id, f := range r.forms {
		if f.updatedAt.Before(cutoff) {
			delete(r.forms, id)
			n++
		}
	}
	return n
}

// RunJanitor prunes idle forms every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, maxAge time.Duration, onPrune func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Prune(maxAge); n > 0 && onPrune != nil {
				onPrune(n)
			}
		}
	}
}
