// Package editor implements structural edits on a workout form.
//
// Every operation is copy-on-write: it returns a new Workout and never writes
// into a slice reachable from its input, so earlier snapshots stay valid.
// Untouched branches are shared between snapshots.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/claude/ironlog/internal/models"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotConfirmed    = errors.New("deletion not confirmed")
	ErrUnknownField    = errors.New("unknown field")
	ErrMissingName     = errors.New("workout name is required")
)

// Prompt is a yes/no question shown before a destructive edit.
type Prompt struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// DeleteExercisePrompt gates DeleteExercise.
var DeleteExercisePrompt = Prompt{
	Title:   "Delete Exercise",
	Message: "Are you sure you want to delete this exercise?",
}

// Confirmer answers a Prompt.
type Confirmer interface {
	Confirm(p Prompt) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(p Prompt) bool

func (f ConfirmFunc) Confirm(p Prompt) bool { return f(p) }

// Confirmed is a Confirmer that always answers yes.
var Confirmed = ConfirmFunc(func(Prompt) bool { return true })

// ExerciseField names an editable exercise field.
type ExerciseField string

const FieldName ExerciseField = "name"

// SetField names an editable set field.
type SetField string

const (
	FieldReps   SetField = "reps"
	FieldWeight SetField = "weight"
)

// AddExercise appends an unnamed exercise with one drop set of one zero set.
func AddExercise(w models.Workout) models.Workout {
	w.Exercises = insertAt(w.Exercises, len(w.Exercises), models.NewExercise())
	return w
}

// DeleteExercise removes exercise ex after c confirms. A declined prompt
// returns w unchanged with ErrNotConfirmed.
func DeleteExercise(w models.Workout, ex int, c Confirmer) (models.Workout, error) {
	if ex < 0 || ex >= len(w.Exercises) {
		return w, outOfRange("exercise", ex)
	}
	if c == nil || !c.Confirm(DeleteExercisePrompt) {
		return w, ErrNotConfirmed
	}
	w.Exercises = removeAt(w.Exercises, ex)
	return w, nil
}

// UpdateExercise sets a field on exercise ex. Content is not validated.
func UpdateExercise(w models.Workout, ex int, field ExerciseField, value string) (models.Workout, error) {
	e, err := exerciseAt(w, ex)
	if err != nil {
		return w, err
	}
	switch field {
	case FieldName:
		e.Name = value
	default:
		return w, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return withExercise(w, ex, e), nil
}

// AddSet appends a new drop set to exercise ex.
func AddSet(w models.Workout, ex int) (models.Workout, error) {
	e, err := exerciseAt(w, ex)
	if err != nil {
		return w, err
	}
	e.Sets = insertAt(e.Sets, len(e.Sets), models.NewDropSet())
	return withExercise(w, ex, e), nil
}

// DeleteSet removes drop set d from exercise ex. There is no floor here:
// an exercise may end up with no drop sets.
func DeleteSet(w models.Workout, ex, d int) (models.Workout, error) {
	e, _, err := dropSetAt(w, ex, d)
	if err != nil {
		return w, err
	}
	e.Sets = removeAt(e.Sets, d)
	return withExercise(w, ex, e), nil
}

// DuplicateSet inserts a copy of drop set d directly after it.
func DuplicateSet(w models.Workout, ex, d int) (models.Workout, error) {
	e, ds, err := dropSetAt(w, ex, d)
	if err != nil {
		return w, err
	}
	e.Sets = insertAt(e.Sets, d+1, ds.Clone())
	return withExercise(w, ex, e), nil
}

// AddDropSet appends a zero set to drop set d.
func AddDropSet(w models.Workout, ex, d int) (models.Workout, error) {
	e, ds, err := dropSetAt(w, ex, d)
	if err != nil {
		return w, err
	}
	e.Sets = replaceAt(e.Sets, d, insertAt(ds, len(ds), models.Set{}))
	return withExercise(w, ex, e), nil
}

// DeleteDropSet removes set s from drop set d. A drop set is never reduced
// below one set; deleting its last set is a no-op.
func DeleteDropSet(w models.Workout, ex, d, s int) (models.Workout, error) {
	e, ds, err := dropSetAt(w, ex, d)
	if err != nil {
		return w, err
	}
	if s < 0 || s >= len(ds) {
		return w, outOfRange("set", s)
	}
	if len(ds) <= 1 {
		return w, nil
	}
	e.Sets = replaceAt(e.Sets, d, removeAt(ds, s))
	return withExercise(w, ex, e), nil
}

// UpdateSet stores raw into a set field. Input that does not start with a
// number is stored as 0.
func UpdateSet(w models.Workout, ex, d, s int, field SetField, raw string) (models.Workout, error) {
	e, ds, err := dropSetAt(w, ex, d)
	if err != nil {
		return w, err
	}
	if s < 0 || s >= len(ds) {
		return w, outOfRange("set", s)
	}
	set := ds[s]
	n := ParseInt(raw)
	switch field {
	case FieldReps:
		set.Reps = n
	case FieldWeight:
		set.Weight = float64(n)
	default:
		return w, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	e.Sets = replaceAt(e.Sets, d, replaceAt(ds, s, set))
	return withExercise(w, ex, e), nil
}

// UpdateDetails sets the workout name and body weight. An unparseable or
// negative body weight is stored as 0.
func UpdateDetails(w models.Workout, name, bodyWeight string) models.Workout {
	w.Name = name
	w.BodyWeight = 0
	if f, err := strconv.ParseFloat(strings.TrimSpace(bodyWeight), 64); err == nil && f > 0 {
		w.BodyWeight = f
	}
	return w
}

// Validate checks the fields required to submit a workout.
func Validate(w models.Workout) error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// ParseInt reads the leading integer of raw, ignoring leading whitespace
// and any trailing text. It returns 0 when raw has no leading digits and
// clamps negative values to 0.
func ParseInt(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || neg {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

func outOfRange(what string, i int) error {
	return fmt.Errorf("%s %d: %w", what, i, ErrIndexOutOfRange)
}

func exerciseAt(w models.Workout, ex int) (models.Exercise, error) {
	if ex < 0 || ex >= len(w.Exercises) {
		return models.Exercise{}, outOfRange("exercise", ex)
	}
	return w.Exercises[ex], nil
}

func dropSetAt(w models.Workout, ex, d int) (models.Exercise, models.DropSet, error) {
	e, err := exerciseAt(w, ex)
	if err != nil {
		return e, nil, err
	}
	if d < 0 || d >= len(e.Sets) {
		return e, nil, outOfRange("drop set", d)
	}
	return e, e.Sets[d], nil
}

func withExercise(w models.Workout, ex int, e models.Exercise) models.Workout {
	w.Exercises = replaceAt(w.Exercises, ex, e)
	return w
}

func insertAt[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	return append(out, s[i:]...)
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func replaceAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	out[i] = v
	return out
}
