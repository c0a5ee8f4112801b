package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/editor"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/session"
	"github.com/go-chi/chi/v5"
)

// formResponse is a form snapshot plus its header line.
type formResponse struct {
	session.Snapshot
	Title string `json:"title"`
}

// fieldUpdate is the body of exercise and set field edits.
type fieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (s *Server) handleOpenForm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	date, ok := s.dateParam(w, req.Date)
	if !ok {
		return
	}

	snap, err := s.forms.Open(r.Context(), date)
	if err != nil {
		s.log.Error("opening form", "date", date, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	s.trackOpenForms()
	s.writeForm(w, http.StatusCreated, snap)
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	snap, err := s.forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	s.writeForm(w, http.StatusOK, snap)
}

func (s *Server) handleCloseForm(w http.ResponseWriter, r *http.Request) {
	if err := s.forms.Close(chi.URLParam(r, "id")); err != nil {
		s.writeFormError(w, err)
		return
	}
	s.trackOpenForms()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		BodyWeight string `json:"bodyWeight"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.edit(w, r, "update_details", func(wo models.Workout) (models.Workout, error) {
		return editor.UpdateDetails(wo, req.Name, req.BodyWeight), nil
	})
}

func (s *Server) handleAddExercise(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, "add_exercise", func(wo models.Workout) (models.Workout, error) {
		return editor.AddExercise(wo), nil
	})
}

func (s *Server) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	var req fieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.edit(w, r, "update_exercise", func(wo models.Workout) (models.Workout, error) {
		return editor.UpdateExercise(wo, ex, editor.ExerciseField(req.Field), req.Value)
	})
}

// handleDeleteExercise deletes only with ?confirm=true. Without it the
// client gets 409 and the prompt to show.
func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	s.edit(w, r, "delete_exercise", func(wo models.Workout) (models.Workout, error) {
		return editor.DeleteExercise(wo, ex, editor.ConfirmFunc(func(editor.Prompt) bool { return confirmed }))
	})
}

func (s *Server) handleAddSet(w http.ResponseWriter, r *http.Request) {
	ex, ok := intParam(w, r, "ex")
	if !ok {
		return
	}
	s.edit(w, r, "add_set", func(wo models.Workout) (models.Workout, error) {
		return editor.AddSet(wo, ex)
	})
}

func (s *Server) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	ex, d, ok := setParams(w, r)
	if !ok {
		return
	}
	s.edit(w, r, "delete_set", func(wo models.Workout) (models.Workout, error) {
		return editor.DeleteSet(wo, ex, d)
	})
}

func (s *Server) handleDuplicateSet(w http.ResponseWriter, r *http.Request) {
	ex, d, ok := setParams(w, r)
	if !ok {
		return
	}
	s.edit(w, r, "duplicate_set", func(wo models.Workout) (models.Workout, error) {
		return editor.DuplicateSet(wo, ex, d)
	})
}

func (s *Server) handleAddDropSet(w http.ResponseWriter, r *http.Request) {
	ex, d, ok := setParams(w, r)
	if !ok {
		return
	}
	s.edit(w, r, "add_drop_set", func(wo models.Workout) (models.Workout, error) {
		return editor.AddDropSet(wo, ex, d)
	})
}

func (s *Server) handleDeleteDropSet(w http.ResponseWriter, r *http.Request) {
	ex, d, ok := setParams(w, r)
	if !ok {
		return
	}
	i, ok := intParam(w, r, "s")
	if !ok {
		return
	}
	s.edit(w, r, "delete_drop_set", func(wo models.Workout) (models.Workout, error) {
		return editor.DeleteDropSet(wo, ex, d, i)
	})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	ex, d, ok := setParams(w, r)
	if !ok {
		return
	}
	i, ok := intParam(w, r, "s")
	if !ok {
		return
	}
	var req fieldUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.edit(w, r, "update_set", func(wo models.Workout) (models.Workout, error) {
		return editor.UpdateSet(wo, ex, d, i, editor.SetField(req.Field), req.Value)
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	snap, err := s.forms.Undo(chi.URLParam(r, "id"))
	s.countEdit("undo", err)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	s.writeForm(w, http.StatusOK, snap)
}

// handleSave checks the form can be submitted. Nothing is persisted; the
// draft is echoed back.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	snap, err := s.forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	err = editor.Validate(snap.Workout)
	s.countEdit("save", err)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	s.log.Info("workout submitted", "form", snap.ID, "date", snap.Workout.Date, "exercises", len(snap.Workout.Exercises))
	s.writeForm(w, http.StatusOK, snap)
}

// edit applies fn to the form named in the URL and answers with the new state.
func (s *Server) edit(w http.ResponseWriter, r *http.Request, op string, fn func(models.Workout) (models.Workout, error)) {
	snap, err := s.forms.Apply(chi.URLParam(r, "id"), fn)
	s.countEdit(op, err)
	if err != nil {
		s.writeFormError(w, err)
		return
	}
	s.writeForm(w, http.StatusOK, snap)
}

func (s *Server) writeForm(w http.ResponseWriter, status int, snap session.Snapshot) {
	title, err := calendar.LongDate(snap.Workout.Date, s.loc, s.labels)
	if err != nil {
		title = snap.Workout.Date
	}
	writeJSON(w, status, formResponse{Snapshot: snap, Title: title})
}

func (s *Server) writeFormError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrFormNotFound), errors.Is(err, editor.ErrIndexOutOfRange):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrNotConfirmed):
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error(), "prompt": editor.DeleteExercisePrompt})
	case errors.Is(err, session.ErrNothingToUndo):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrUnknownField):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, editor.ErrMissingName):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		s.log.Error("form error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) countEdit(op string, err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.CounterEditorOps.WithLabelValues(op, result).Inc()
}

func (s *Server) trackOpenForms() {
	if s.metrics != nil {
		s.metrics.GaugeOpenForms.Set(float64(s.forms.Len()))
	}
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name + " index"})
		return 0, false
	}
	return v, true
}

func setParams(w http.ResponseWriter, r *http.Request) (ex, d int, ok bool) {
	if ex, ok = intParam(w, r, "ex"); !ok {
		return 0, 0, false
	}
	if d, ok = intParam(w, r, "d"); !ok {
		return 0, 0, false
	}
	return ex, d, true
}
