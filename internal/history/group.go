// Package history groups and summarizes past workouts.
package history

import (
	"time"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/models"
)

// Bucket is a recency bucket.
type Bucket string

const (
	ThisWeek  Bucket = "thisWeek"
	ThisMonth Bucket = "thisMonth"
	Older     Bucket = "older"
)

// Title is the section heading for the bucket.
func (b Bucket) Title() string {
	switch b {
	case ThisWeek:
		return "This Week"
	case ThisMonth:
		return "This Month"
	default:
		return "Older"
	}
}

// Groups partitions workouts by recency. Each slice keeps input order.
type Groups struct {
	ThisWeek  []models.Workout `json:"thisWeek"`
	ThisMonth []models.Workout `json:"thisMonth"`
	Older     []models.Workout `json:"older"`
}

// Section is a non-empty bucket ready for display.
type Section struct {
	Bucket   Bucket           `json:"bucket"`
	Title    string           `json:"title"`
	Workouts []models.Workout `json:"workouts"`
}

// BucketOf classifies a workout date relative to now. The same-week test
// wins over the same-month test; unparseable dates are Older.
func BucketOf(date string, now time.Time) Bucket {
	d, err := calendar.ParseDate(date, now.Location())
	if err != nil {
		return Older
	}
	switch {
	case calendar.SameWeek(d, now):
		return ThisWeek
	case calendar.SameMonth(d, now):
		return ThisMonth
	default:
		return Older
	}
}

// Group places every workout in exactly one bucket.
func Group(workouts []models.Workout, now time.Time) Groups {
	var g Groups
	for _, w := range workouts {
		switch BucketOf(w.Date, now) {
		case ThisWeek:
			g.ThisWeek = append(g.ThisWeek, w)
		case ThisMonth:
			g.ThisMonth = append(g.ThisMonth, w)
		default:
			g.Older = append(g.Older, w)
		}
	}
	return g
}

// Sections lists the buckets in display order, omitting empty ones.
func (g Groups) Sections() []Section {
	sections := make([]Section, 0, 3)
	for _, s := range []Section{
		{Bucket: ThisWeek, Workouts: g.ThisWeek},
		{Bucket: ThisMonth, Workouts: g.ThisMonth},
		{Bucket: Older, Workouts: g.Older},
	} {
		if len(s.Workouts) == 0 {
			continue
		}
		s.Title = s.Bucket.Title()
		sections = append(sections, s)
	}
	return sections
}

// Len returns the number of grouped workouts.
func (g Groups) Len() int {
	return len(g.ThisWeek) + len(g.ThisMonth) + len(g.Older)
}
