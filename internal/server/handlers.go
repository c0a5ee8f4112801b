package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

const defaultRecent = 5

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.source.ListWorkouts(r.Context())
	if err != nil {
		s.log.Error("listing workouts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleRecentWorkouts(w http.ResponseWriter, r *http.Request) {
	n := defaultRecent
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "n must be a non-negative integer"})
			return
		}
		n = parsed
	}

	workouts, err := s.source.ListWorkouts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.summaries(history.Recent(workouts, n)))
}

// historySection is a recency bucket of workout cards.
type historySection struct {
	Bucket   history.Bucket    `json:"bucket"`
	Title    string            `json:"title"`
	Workouts []history.Summary `json:"workouts"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.source.ListWorkouts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	groups := history.Group(workouts, s.now().In(s.loc))
	sections := make([]historySection, 0, 3)
	for _, sec := range groups.Sections() {
		sections = append(sections, historySection{
			Bucket:   sec.Bucket,
			Title:    sec.Title,
			Workouts: s.summaries(sec.Workouts),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":    groups.Len(),
		"sections": sections,
	})
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(w, chi.URLParam(r, "date"))
	if !ok {
		return
	}

	workout, err := s.source.GetWorkout(r.Context(), date)
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	title, _ := calendar.LongDate(workout.Date, s.loc, s.labels)
	writeJSON(w, http.StatusOK, map[string]any{
		"workout": workout,
		"summary": history.Summarize(*workout, s.loc, s.labels),
		"title":   title,
	})
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.source.ListWorkouts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"days": history.Streak(workouts, s.now().In(s.loc))})
}

func (s *Server) handleCalendarWindow(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width parameter required"})
		return
	}
	if err := s.layout.CheckWidth(width); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	today := s.today()
	writeJSON(w, http.StatusOK, map[string]any{
		"today":    today.Format(models.DateLayout),
		"maxCards": s.layout.MaxCards(width),
		"days":     calendar.WindowDays(today, width, s.layout, s.labels),
	})
}

// handleCalendarDay classifies a single date. An unparseable date still
// answers 200 with the placeholder card.
func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	day, err := calendar.Classify(raw, s.today(), s.labels)
	if err != nil {
		s.log.Warn("invalid calendar date", "date", raw, "error", err)
	}
	writeJSON(w, http.StatusOK, day)
}

// summaries builds list cards for workouts.
func (s *Server) summaries(workouts []models.Workout) []history.Summary {
	out := make([]history.Summary, len(workouts))
	for i, wo := range workouts {
		out[i] = history.Summarize(wo, s.loc, s.labels)
	}
	return out
}

// dateParam normalizes a calendar date or answers 400.
func (s *Server) dateParam(w http.ResponseWriter, raw string) (string, bool) {
	d, err := calendar.ParseDate(raw, s.loc)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return "", false
	}
	return d.Format(models.DateLayout), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
