package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/claude/ironlog/internal/ingest"
	"github.com/claude/ironlog/internal/storage"
)

// Provider loads Alpha Progression CSV exports into a workout store.
type Provider struct {
	store storage.Writer
	log   *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(store storage.Writer, log *slog.Logger) *Provider {
	return &Provider{store: store, log: log}
}

// Ingest parses an export and upserts one workout per session. Re-importing
// the same export updates rows in place. With dryRun set nothing is written.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, dryRun bool) (*ingest.Result, error) {
	started := time.Now()

	workouts, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{WorkoutsReceived: len(workouts), DryRun: dryRun}
	for _, w := range workouts {
		for _, e := range w.Exercises {
			result.SetsReceived += len(e.Sets)
		}
	}
	if dryRun {
		result.Message = "dry run: nothing written"
		return result, nil
	}

	logID, err := p.store.InsertImportLog(ctx, storage.ImportLog{
		Source:           "alpha",
		Status:           "running",
		WorkoutsReceived: result.WorkoutsReceived,
		SetsReceived:     result.SetsReceived,
	})
	if err != nil {
		p.log.Warn("import log not recorded", "error", err)
	}

	var importErr error
	for _, w := range workouts {
		inserted, err := p.store.UpsertWorkout(ctx, w)
		if err != nil {
			importErr = fmt.Errorf("storing workout %s %q: %w", w.Date, w.Name, err)
			break
		}
		if inserted {
			result.WorkoutsInserted++
		} else {
			result.WorkoutsUpdated++
		}
	}

	if logID != 0 {
		p.finish(ctx, logID, result, importErr, time.Since(started))
	}
	if importErr != nil {
		return result, importErr
	}

	p.log.Info("alpha import complete",
		"workouts", result.WorkoutsReceived,
		"inserted", result.WorkoutsInserted,
		"updated", result.WorkoutsUpdated,
	)
	return result, nil
}

func (p *Provider) finish(ctx context.Context, id int64, result *ingest.Result, importErr error, elapsed time.Duration) {
	status := "success"
	var errMsg *string
	if importErr != nil {
		status = "error"
		msg := importErr.Error()
		errMsg = &msg
	}
	durationMs := int(elapsed.Milliseconds())

	if err := p.store.UpdateImportLog(ctx, id, storage.ImportLog{
		Status:           status,
		WorkoutsReceived: result.WorkoutsReceived,
		WorkoutsInserted: result.WorkoutsInserted,
		WorkoutsUpdated:  result.WorkoutsUpdated,
		SetsReceived:     result.SetsReceived,
		DurationMs:       &durationMs,
		ErrorMessage:     errMsg,
	}); err != nil {
		p.log.Error("failed to finalize import log", "id", id, "error", err)
	}
}
