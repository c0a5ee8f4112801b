package history

import (
	"fmt"
	"slices"
	"time"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/models"
)

// maxChips is how many exercise chips a workout card shows before
// collapsing the rest into "+N More".
const maxChips = 4

// Summary is the compact card shown for a workout in lists.
type Summary struct {
	WorkoutID string   `json:"workoutId"`
	Title     string   `json:"title"`
	Date      string   `json:"date"`
	Chips     []string `json:"chips"`
}

// Summarize builds the list card for w. Each chip reads "Name xN" where N
// is the number of drop sets.
func Summarize(w models.Workout, loc *time.Location, labels calendar.Labels) Summary {
	s := Summary{WorkoutID: w.Date, Title: w.Name, Date: w.Date}
	if d, err := calendar.ParseDate(w.Date, loc); err == nil {
		s.Date = fmt.Sprintf("%d%s %s %d", d.Day(), ordinal(d.Day()), labels.Month(int(d.Month())-1), d.Year())
	}

	for i, e := range w.Exercises {
		if i == maxChips {
			s.Chips = append(s.Chips, fmt.Sprintf("+%d More", len(w.Exercises)-maxChips))
			break
		}
		s.Chips = append(s.Chips, fmt.Sprintf("%s x%d", e.Name, len(e.Sets)))
	}
	return s
}

func ordinal(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// Recent returns up to n workouts, newest calendar day first. Workouts
// sharing a day keep their input order; unparseable dates sort last.
func Recent(workouts []models.Workout, n int) []models.Workout {
	type keyed struct {
		w   models.Workout
		day time.Time
	}
	keys := make([]keyed, len(workouts))
	for i, w := range workouts {
		d, _ := calendar.ParseDate(w.Date, time.UTC)
		keys[i] = keyed{w: w, day: d}
	}
	slices.SortStableFunc(keys, func(a, b keyed) int {
		return b.day.Compare(a.day)
	})

	sorted := make([]models.Workout, len(keys))
	for i, k := range keys {
		sorted[i] = k.w
	}
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Streak counts consecutive days with at least one workout, ending today.
// A streak that last continued yesterday is still alive.
func Streak(workouts []models.Workout, now time.Time) int {
	days := make(map[string]struct{}, len(workouts))
	for _, w := range workouts {
		if d, err := calendar.ParseDate(w.Date, now.Location()); err == nil {
			days[d.Format(models.DateLayout)] = struct{}{}
		}
	}

	has := func(t time.Time) bool {
		_, ok := days[t.Format(models.DateLayout)]
		return ok
	}

	day := calendar.Midnight(now)
	if !has(day) {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for has(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
