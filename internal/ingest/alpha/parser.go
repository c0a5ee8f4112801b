// Package alpha reads Alpha Progression CSV exports into workouts.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
)

var (
	// "Legs · Day 2";"2026-02-19 4:54 h";"1:02 hr"
	sessionRe = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2})\s+\d+:\d+\s+h";"(.*)"$`)

	// "1. Hack Squats · Machine · 8 reps[· modifiers]"[;"WU1 · ..."]
	exerciseRe = regexp.MustCompile(`^"\d+\.\s+(.+?)(?:\s+·\s+\S.*?)?\s+·\s+\d+\s+reps.*?"(?:;".*")?$`)

	// 1;115;8;1  (set;kg;reps;rir)
	setRe = regexp.MustCompile(`^\d+;([^;]+);(\d+);[^;]*$`)

	headerRe = regexp.MustCompile(`^#;KG;REPS;RIR$`)
)

// Parse reads an export and returns one workout per session. Every working
// set becomes its own drop set; warm-up sets are not recorded.
func Parse(r io.Reader) ([]models.Workout, error) {
	scanner := bufio.NewScanner(r)
	var (
		workouts []models.Workout
		cur      *models.Workout
		exercise *models.Exercise
	)

	flushExercise := func() {
		if cur != nil && exercise != nil {
			cur.Exercises = append(cur.Exercises, *exercise)
		}
		exercise = nil
	}
	flushSession := func() {
		flushExercise()
		if cur != nil {
			workouts = append(workouts, *cur)
		}
		cur = nil
	}

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		switch {
		case text == "":
			flushSession()

		case headerRe.MatchString(text):

		case sessionRe.MatchString(text):
			flushSession()
			m := sessionRe.FindStringSubmatch(text)
			if _, err := time.Parse(models.DateLayout, m[2]); err != nil {
				return nil, fmt.Errorf("line %d: session date %q: %w", line, m[2], err)
			}
			cur = &models.Workout{Name: m[1], Date: m[2]}

		case exerciseRe.MatchString(text):
			if cur == nil {
				return nil, fmt.Errorf("line %d: exercise without session", line)
			}
			flushExercise()
			m := exerciseRe.FindStringSubmatch(text)
			exercise = &models.Exercise{Name: strings.TrimSpace(m[1])}

		case setRe.MatchString(text):
			if exercise == nil {
				return nil, fmt.Errorf("line %d: set without exercise", line)
			}
			m := setRe.FindStringSubmatch(text)
			reps, _ := strconv.Atoi(m[2])
			exercise.Sets = append(exercise.Sets, models.DropSet{{
				Reps:   reps,
				Weight: parseWeight(m[1]),
			}})
		}
		// Anything else is notes or metadata.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	flushSession()
	return workouts, nil
}

// parseWeight reads "102,5" as 102.5. A leading "+" marks load added to
// body weight and is dropped.
func parseWeight(s string) float64 {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f
}
