package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/ingest"
)

const pushCSV = `"Push";"2026-02-17 16:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
`

const brokenCSV = `"Push";"2026-02-17 5:04 h";"1:00 hr"
1;100;5;1
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// importServer counts POSTs and answers like the import endpoint.
func importServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/api/v1/import" || r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(ingest.Result{WorkoutsReceived: 1, WorkoutsInserted: 1, SetsReceived: 1})
	}))
}

// TestStateDB verifies the ledger matches on path, size and hash, and a
// re-sent path replaces its entry.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	v1 := Export{Path: "a.csv", Size: 10, Hash: "h1"}
	v2 := Export{Path: "a.csv", Size: 10, Hash: "h2"}
	if ok, _ := state.Sent(v1); ok {
		t.Fatal("fresh ledger reports sent")
	}
	if err := state.Record(v1, 3); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.Sent(v1); !ok {
		t.Error("recorded export not reported as sent")
	}
	if ok, _ := state.Sent(v2); ok {
		t.Error("changed hash reported as sent")
	}
	if err := state.Record(v2, 4); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.Sent(v1); ok {
		t.Error("replaced entry still reported as sent")
	}
}

// TestFingerprint verifies size and hash follow the file contents.
func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "push.csv", pushCSV)
	a, err := Fingerprint(filepath.Join(dir, "push.csv"), "push.csv")
	if err != nil {
		t.Fatal(err)
	}
	if a.Path != "push.csv" || a.Size != int64(len(pushCSV)) || len(a.Hash) != 64 {
		t.Errorf("fingerprint = %+v", a)
	}

	writeFile(t, dir, "push.csv", pushCSV+"\n")
	b, err := Fingerprint(filepath.Join(dir, "push.csv"), "push.csv")
	if err != nil {
		t.Fatal(err)
	}
	if a.Hash == b.Hash {
		t.Error("edited export kept its hash")
	}
}

// TestRunUploadsOnce verifies new exports are sent, broken ones skipped,
// and a second run sends nothing.
func TestRunUploadsOnce(t *testing.T) {
	var calls atomic.Int32
	ts := importServer(t, &calls)
	defer ts.Close()

	dir := t.TempDir()
	writeFile(t, dir, "push.csv", pushCSV)
	writeFile(t, dir, "broken.csv", brokenCSV)
	writeFile(t, dir, "notes.txt", "ignored")

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	client := NewClient(ts.URL, "secret")
	stats, err := New(client, state, dir, false, discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 1 || stats.FilesErrored != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.WorkoutsInserted != 1 || calls.Load() != 1 {
		t.Errorf("inserted = %d, calls = %d", stats.WorkoutsInserted, calls.Load())
	}

	stats, err = New(client, state, dir, false, discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || calls.Load() != 1 {
		t.Errorf("second run stats = %+v, calls = %d", stats, calls.Load())
	}
}

// TestRunDryRun verifies a dry run sends nothing and marks nothing.
func TestRunDryRun(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "push.csv", pushCSV)

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(nil, state, dir, true, discardLogger()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.WorkoutsSent != 1 || stats.FilesUploaded != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

// TestSendExportUnauthorized verifies a rejected key is not retried.
func TestSendExportUnauthorized(t *testing.T) {
	var calls atomic.Int32
	ts := importServer(t, &calls)
	defer ts.Close()

	_, err := NewClient(ts.URL, "wrong").SendExport(context.Background(), []byte(pushCSV))
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

// TestSendExportRetries verifies server errors are retried before succeeding.
func TestSendExportRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(ingest.Result{WorkoutsReceived: 2})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret")
	c.backoff = time.Millisecond
	res, err := c.SendExport(context.Background(), []byte(pushCSV))
	if err != nil {
		t.Fatal(err)
	}
	if res.WorkoutsReceived != 2 || calls.Load() != 3 {
		t.Errorf("received = %d, calls = %d", res.WorkoutsReceived, calls.Load())
	}
}

// TestExportsSingleFile verifies a file path is its own export list.
func TestExportsSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "push.csv", pushCSV)

	files, err := Exports(filepath.Join(dir, "push.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("files = %v", files)
	}
}

// TestSendExportClientErrorsNotRetried verifies deterministic rejections
// return after one attempt with the status preserved.
func TestSendExportClientErrorsNotRetried(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusNotImplemented} {
		var calls atomic.Int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "no", code)
		}))

		c := NewClient(ts.URL, "secret")
		c.backoff = time.Millisecond
		_, err := c.SendExport(context.Background(), []byte(pushCSV))
		ts.Close()

		var se *StatusError
		if !errors.As(err, &se) || se.Code != code {
			t.Errorf("status %d: err = %v", code, err)
		}
		if calls.Load() != 1 {
			t.Errorf("status %d: calls = %d, want 1", code, calls.Load())
		}
	}
}
