package storage

import (
	"context"
	"errors"

	"github.com/claude/ironlog/internal/models"
)

// ErrNotFound is returned when no workout exists for a date.
var ErrNotFound = errors.New("workout not found")

// Source is a read-only supplier of workouts. List order is the order
// workouts were added.
type Source interface {
	ListWorkouts(ctx context.Context) ([]models.Workout, error)
	GetWorkout(ctx context.Context, date string) (*models.Workout, error)
}

// Writer loads workouts into a Source backend. It is used by the importer
// only; the editor never writes back.
type Writer interface {
	UpsertWorkout(ctx context.Context, w models.Workout) (inserted bool, err error)
	InsertImportLog(ctx context.Context, log ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log ImportLog) error
}

var (
	_ Source = (*Static)(nil)
	_ Source = (*DB)(nil)
	_ Source = (*SQLite)(nil)
	_ Writer = (*DB)(nil)
	_ Writer = (*SQLite)(nil)
)
