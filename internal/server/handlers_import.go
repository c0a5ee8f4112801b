package server

import (
	"net/http"
	"strconv"
)

const maxImportBytes = 32 << 20

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if s.importer == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "import needs the postgres or sqlite storage driver"})
		return
	}
	dryRun, _ := strconv.ParseBool(r.URL.Query().Get("dry_run"))

	result, err := s.importer.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxImportBytes), dryRun)
	if s.metrics != nil && result != nil {
		s.metrics.CounterImports.WithLabelValues("inserted").Add(float64(result.WorkoutsInserted))
		s.metrics.CounterImports.WithLabelValues("updated").Add(float64(result.WorkoutsUpdated))
	}
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		status := http.StatusBadRequest
		if result != nil {
			// Parsed fine; the store failed part way.
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
