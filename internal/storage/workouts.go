package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListWorkouts returns all workouts in the order they were loaded.
func (db *DB) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, name, body_weight, exercises
		 FROM workouts
		 ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// GetWorkout returns the first workout loaded for date.
func (db *DB) GetWorkout(ctx context.Context, date string) (*models.Workout, error) {
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, ErrNotFound
	}
	row := db.Pool.QueryRow(ctx,
		`SELECT date, name, body_weight, exercises
		 FROM workouts
		 WHERE date = $1
		 ORDER BY seq ASC
		 LIMIT 1`, day)

	w, err := scanWorkout(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// UpsertWorkout stores w keyed by (date, name). A re-import replaces the
// exercises of an existing row. Returns true when a new row was created.
func (db *DB) UpsertWorkout(ctx context.Context, w models.Workout) (bool, error) {
	day, err := time.Parse(models.DateLayout, w.Date)
	if err != nil {
		return false, fmt.Errorf("workout date %q: %w", w.Date, err)
	}
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return false, fmt.Errorf("encoding exercises: %w", err)
	}

	var inserted bool
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO workouts (id, date, name, body_weight, exercises)
		 VALUES ($1, $2, $3, $4, $5::jsonb)
		 ON CONFLICT (date, name) DO UPDATE
			SET body_weight = EXCLUDED.body_weight, exercises = EXCLUDED.exercises
		 RETURNING (xmax = 0)`,
		uuid.New(), day, w.Name, w.BodyWeight, string(exercises)).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upserting workout: %w", err)
	}
	return inserted, nil
}

func scanWorkout(row pgx.Row) (models.Workout, error) {
	var (
		w         models.Workout
		day       time.Time
		exercises []byte
	)
	if err := row.Scan(&day, &w.Name, &w.BodyWeight, &exercises); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return w, err
		}
		return w, fmt.Errorf("scanning workout: %w", err)
	}
	w.Date = day.Format(models.DateLayout)
	if err := json.Unmarshal(exercises, &w.Exercises); err != nil {
		return w, fmt.Errorf("decoding exercises for %s: %w", w.Date, err)
	}
	return w, nil
}
