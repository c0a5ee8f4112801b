package models

// DateLayout is the calendar-date format used to address workouts.
const DateLayout = "2006-01-02"

// Set is a single (reps, weight) measurement.
type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// DropSet is one set slot: one or more sets performed back-to-back
// with decreasing weight.
type DropSet []Set

// Exercise is a named exercise within a workout.
type Exercise struct {
	Name string    `json:"name"`
	Sets []DropSet `json:"sets"`
}

// Workout is a single training session, keyed by its date.
type Workout struct {
	Date       string     `json:"date"`
	Name       string     `json:"name"`
	BodyWeight float64    `json:"bodyWeight"`
	Exercises  []Exercise `json:"exercises"`
}

// NewExercise returns an unnamed exercise holding one drop set with one zero set.
func NewExercise() Exercise {
	return Exercise{Sets: []DropSet{NewDropSet()}}
}

// NewDropSet returns a drop set holding a single zero set.
func NewDropSet() DropSet {
	return DropSet{{}}
}

// Key identifies a workout in lists where several may share a date.
func (w Workout) Key() string {
	return w.Date + w.Name
}

// Clone returns a deep copy of the drop set.
func (d DropSet) Clone() DropSet {
	if d == nil {
		return nil
	}
	out := make(DropSet, len(d))
	copy(out, d)
	return out
}

// Clone returns a deep copy of the exercise.
func (e Exercise) Clone() Exercise {
	out := Exercise{Name: e.Name}
	if e.Sets != nil {
		out.Sets = make([]DropSet, len(e.Sets))
		for i, d := range e.Sets {
			out.Sets[i] = d.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the workout.
func (w Workout) Clone() Workout {
	out := w
	if w.Exercises != nil {
		out.Exercises = make([]Exercise, len(w.Exercises))
		for i, e := range w.Exercises {
			out.Exercises[i] = e.Clone()
		}
	}
	return out
}
