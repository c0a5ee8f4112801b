package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a single-file workout source for local use.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS workouts (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	date        TEXT NOT NULL,
	name        TEXT NOT NULL,
	body_weight REAL NOT NULL DEFAULT 0,
	exercises   TEXT NOT NULL DEFAULT '[]',
	created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (date, name)
);
CREATE TABLE IF NOT EXISTS import_logs (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	source            TEXT NOT NULL,
	status            TEXT NOT NULL,
	workouts_received INTEGER NOT NULL DEFAULT 0,
	workouts_inserted INTEGER NOT NULL DEFAULT 0,
	workouts_updated  INTEGER NOT NULL DEFAULT 0,
	sets_received     INTEGER NOT NULL DEFAULT 0,
	duration_ms       INTEGER,
	error_message     TEXT
);`

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// One writer at a time; also keeps :memory: databases on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, name, body_weight, exercises FROM workouts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []models.Workout
	for rows.Next() {
		w, err := scanSQLiteWorkout(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (s *SQLite) GetWorkout(ctx context.Context, date string) (*models.Workout, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT date, name, body_weight, exercises FROM workouts
		 WHERE date = ? ORDER BY seq ASC LIMIT 1`, date)
	w, err := scanSQLiteWorkout(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *SQLite) UpsertWorkout(ctx context.Context, w models.Workout) (bool, error) {
	exercises, err := json.Marshal(w.Exercises)
	if err != nil {
		return false, fmt.Errorf("encoding exercises: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE workouts SET body_weight = ?, exercises = ? WHERE date = ? AND name = ?`,
		w.BodyWeight, string(exercises), w.Date, w.Name)
	if err != nil {
		return false, fmt.Errorf("updating workout: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workouts (id, date, name, body_weight, exercises) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), w.Date, w.Name, w.BodyWeight, string(exercises))
	if err != nil {
		return false, fmt.Errorf("inserting workout: %w", err)
	}
	return true, nil
}

func (s *SQLite) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO import_logs (source, status, workouts_received, workouts_inserted,
		 workouts_updated, sets_received, duration_ms, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		log.Source, log.Status, log.WorkoutsReceived, log.WorkoutsInserted,
		log.WorkoutsUpdated, log.SetsReceived, log.DurationMs, log.ErrorMessage)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE import_logs SET status = ?, workouts_received = ?, workouts_inserted = ?,
		 workouts_updated = ?, sets_received = ?, duration_ms = ?, error_message = ?
		 WHERE id = ?`,
		log.Status, log.WorkoutsReceived, log.WorkoutsInserted,
		log.WorkoutsUpdated, log.SetsReceived, log.DurationMs, log.ErrorMessage, id)
	if err != nil {
		return fmt.Errorf("updating import log: %w", err)
	}
	return nil
}

func scanSQLiteWorkout(row interface{ Scan(dest ...any) error }) (models.Workout, error) {
	var (
		w         models.Workout
		exercises string
	)
	if err := row.Scan(&w.Date, &w.Name, &w.BodyWeight, &exercises); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return w, err
		}
		return w, fmt.Errorf("scanning workout: %w", err)
	}
	if err := json.Unmarshal([]byte(exercises), &w.Exercises); err != nil {
		return w, fmt.Errorf("decoding exercises for %s: %w", w.Date, err)
	}
	return w, nil
}
