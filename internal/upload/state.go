package upload

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Export identifies one CSV file by its name under the upload root and
// the size and SHA-256 of its contents. An edited export gets a new hash.
type Export struct {
	Path string
	Size int64
	Hash string
}

// Fingerprint stats and hashes file, naming it rel.
func Fingerprint(file, rel string) (Export, error) {
	f, err := os.Open(file)
	if err != nil {
		return Export{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Export{}, err
	}
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Export{}, fmt.Errorf("hashing %s: %w", file, err)
	}
	return Export{Path: rel, Size: info.Size(), Hash: hex.EncodeToString(h.Sum(nil))}, nil
}

// StateDB is the uploader's local ledger of exports the server accepted.
type StateDB struct {
	db *sql.DB
}

const stateSchema = `CREATE TABLE IF NOT EXISTS sent_exports (
	path     TEXT PRIMARY KEY,
	size     INTEGER NOT NULL,
	sha256   TEXT NOT NULL,
	workouts INTEGER NOT NULL DEFAULT 0,
	sent_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// OpenStateDB opens dir/state.db, creating dir and the ledger table as needed.
func OpenStateDB(dir string) (*StateDB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "state.db"))
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}
	if _, err := db.Exec(stateSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating state table: %w", err)
	}
	return &StateDB{db: db}, nil
}

// Sent reports whether e, with this exact size and hash, is in the ledger.
func (s *StateDB) Sent(e Export) (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sent_exports WHERE path = ? AND size = ? AND sha256 = ?`,
		e.Path, e.Size, e.Hash,
	).Scan(&n)
	return n > 0, err
}

// Record stores e with the number of workouts the server received from it.
// A re-sent path overwrites its previous entry.
func (s *StateDB) Record(e Export, workouts int) error {
	_, err := s.db.Exec(
		`INSERT INTO sent_exports (path, size, sha256, workouts) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET size = excluded.size, sha256 = excluded.sha256,
		   workouts = excluded.workouts, sent_at = CURRENT_TIMESTAMP`,
		e.Path, e.Size, e.Hash, workouts,
	)
	return err
}

// Close closes the state database.
func (s *StateDB) Close() error {
	return s.db.Close()
}
