package upload

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claude/ironlog/internal/ingest/alpha"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	WorkoutsSent     int
	WorkoutsInserted int
	WorkoutsUpdated  int
}

// Uploader walks a directory of Alpha Progression CSV exports and sends
// each new or changed file to the IronLog server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. client may be nil in dry-run mode.
func New(client *Client, state *StateDB, dir string, dryRun bool, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		log:    log,
	}
}

// Run uploads every pending export. A file that fails to read or parse is
// counted and skipped; a transport failure stops the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := Exports(u.dir)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++

		rel, _ := filepath.Rel(u.dir, f)
		if rel == "." {
			rel = filepath.Base(f)
		}
		export, err := Fingerprint(f, rel)
		if err != nil {
			u.log.Warn("fingerprint failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		sent, err := u.state.Sent(export)
		if err != nil {
			u.log.Warn("state check failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if sent {
			u.stats.FilesSkipped++
			continue
		}

		data, err := os.ReadFile(f)
		if err != nil {
			u.log.Warn("read failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}

		// Parse locally so a broken export never reaches the server.
		workouts, err := alpha.Parse(bytes.NewReader(data))
		if err != nil {
			u.log.Warn("parse failed", "file", f, "error", err)
			u.stats.FilesErrored++
			continue
		}
		if len(workouts) == 0 {
			u.stats.FilesSkipped++
			_ = u.state.Record(export, 0)
			continue
		}

		if u.dryRun {
			u.log.Info("dry-run: would send", "file", rel, "workouts", len(workouts))
			u.stats.WorkoutsSent += len(workouts)
			continue
		}

		res, err := u.client.SendExport(ctx, data)
		if err != nil {
			return &u.stats, fmt.Errorf("sending %s: %w", rel, err)
		}
		u.stats.WorkoutsSent += res.WorkoutsReceived
		u.stats.WorkoutsInserted += res.WorkoutsInserted
		u.stats.WorkoutsUpdated += res.WorkoutsUpdated

		if err := u.state.Record(export, res.WorkoutsReceived); err != nil {
			u.log.Warn("failed to mark uploaded", "file", rel, "error", err)
		}
		u.stats.FilesUploaded++
		u.log.Info("uploaded export", "file", rel, "workouts", res.WorkoutsReceived)
	}

	return &u.stats, nil
}

// Exports lists the .csv files under dir, sorted by path.
// A path that is itself a file is returned as the only export.
func Exports(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
