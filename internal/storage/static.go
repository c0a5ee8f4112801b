package storage

import (
	"context"

	"github.com/claude/ironlog/internal/models"
)

// Static serves a fixed, in-memory list of workouts.
type Static struct {
	workouts []models.Workout
}

// NewStatic returns a Static source over a private copy of workouts.
func NewStatic(workouts []models.Workout) *Static {
	s := &Static{workouts: make([]models.Workout, len(workouts))}
	for i, w := range workouts {
		s.workouts[i] = w.Clone()
	}
	return s
}

// ListWorkouts returns copies so callers cannot change the dataset.
func (s *Static) ListWorkouts(ctx context.Context) ([]models.Workout, error) {
	out := make([]models.Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.Clone()
	}
	return out, nil
}

// GetWorkout returns the first workout on date.
func (s *Static) GetWorkout(ctx context.Context, date string) (*models.Workout, error) {
	for _, w := range s.workouts {
		if w.Date == date {
			c := w.Clone()
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func chest() models.Exercise {
	return models.Exercise{
		Name: "Barbell Bench Press",
		Sets: []models.DropSet{
			{{Reps: 8, Weight: 60}},
			{{Reps: 6, Weight: 55}},
			{{Reps: 6, Weight: 50}},
		},
	}
}

func press() models.Exercise {
	return models.Exercise{
		Name: "Overhead Press",
		Sets: []models.DropSet{
			{{Reps: 10, Weight: 30}, {Reps: 8, Weight: 25}},
			{{Reps: 10, Weight: 30}},
			{{Reps: 10, Weight: 30}},
		},
	}
}

func pushdown() models.Exercise {
	return models.Exercise{
		Name: "Tricep Pushdown",
		Sets: []models.DropSet{{{Reps: 12, Weight: 20}}, {{Reps: 10, Weight: 15}}},
	}
}

func legs(date string) models.Workout {
	return models.Workout{
		Date:       date,
		Name:       "Leg Day",
		BodyWeight: 75,
		Exercises: []models.Exercise{
			{
				Name: "Back Squat",
				Sets: []models.DropSet{
					{{Reps: 8, Weight: 80}},
					{{Reps: 6, Weight: 75}},
					{{Reps: 6, Weight: 70}},
				},
			},
			{
				Name: "Leg Press",
				Sets: []models.DropSet{{{Reps: 12, Weight: 100}}, {{Reps: 10, Weight: 90}}},
			},
			{
				Name: "Calf Raise",
				Sets: []models.DropSet{{{Reps: 15, Weight: 40}}, {{Reps: 12, Weight: 35}}},
			},
		},
	}
}

// SampleWorkouts is the demo dataset served by the memory driver.
func SampleWorkouts() []models.Workout {
	return []models.Workout{
		{
			Date: "2025-05-26", Name: "Chest Day", BodyWeight: 75,
			Exercises: []models.Exercise{chest(), press(), pushdown()},
		},
		{
			Date: "2025-05-20", Name: "Push Day", BodyWeight: 75,
			Exercises: []models.Exercise{chest(), press(), pushdown()},
		},
		{
			Date: "2025-05-22", Name: "Pull Day", BodyWeight: 75,
			Exercises: []models.Exercise{
				{Name: "Barbell Row", Sets: []models.DropSet{{{Reps: 10, Weight: 50}}, {{Reps: 8, Weight: 45}}}},
				{Name: "Lat Pulldown", Sets: []models.DropSet{{{Reps: 12, Weight: 40}}, {{Reps: 10, Weight: 35}}}},
				{Name: "Barbell Curl", Sets: []models.DropSet{{{Reps: 10, Weight: 20}}, {{Reps: 8, Weight: 15}}}},
			},
		},
		legs("2025-05-24"),
		legs("2024-05-24"),
	}
}
