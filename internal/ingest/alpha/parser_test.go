package alpha

import (
	"strings"
	"testing"

	"github.com/claude/ironlog/internal/models"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
"4. Standing Calf Raises · Machine · 12 reps"
#;KG;REPS;RIR
1;157,5;11;1
"5. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;0,5

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 16:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;100;6;0
`

// TestParseSessions verifies a multi-session export becomes one workout per
// session with one drop set per working set.
func TestParseSessions(t *testing.T) {
	workouts, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(workouts) != 2 {
		t.Fatalf("workouts = %d, want 2", len(workouts))
	}

	legs := workouts[0]
	if legs.Date != "2026-02-19" {
		t.Errorf("date = %q, want 2026-02-19", legs.Date)
	}
	if legs.Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" {
		t.Errorf("name = %q", legs.Name)
	}
	wantNames := []string{"Hack Squats", "Sumo Squats", "Hyperextensions on Roman Chair", "Standing Calf Raises", "Hanging Leg Raises"}
	if len(legs.Exercises) != len(wantNames) {
		t.Fatalf("exercises = %d, want %d", len(legs.Exercises), len(wantNames))
	}
	for i, want := range wantNames {
		if got := legs.Exercises[i].Name; got != want {
			t.Errorf("exercise %d = %q, want %q", i, got, want)
		}
	}

	// Warm-ups are not recorded: three working sets only.
	hack := legs.Exercises[0]
	if len(hack.Sets) != 3 {
		t.Fatalf("hack squat drop sets = %d, want 3", len(hack.Sets))
	}
	if hack.Sets[1][0] != (models.Set{Reps: 10, Weight: 115}) {
		t.Errorf("hack squat set 2 = %+v", hack.Sets[1][0])
	}

	push := workouts[1]
	if push.Date != "2026-02-17" {
		t.Errorf("date = %q, want 2026-02-17", push.Date)
	}
	if got := push.Exercises[0].Sets[0][0].Weight; got != 102.5 {
		t.Errorf("bench weight = %v, want 102.5", got)
	}
}

// TestParseWeight verifies European decimals and added-load notation.
func TestParseWeight(t *testing.T) {
	cases := map[string]float64{
		"102,5": 102.5,
		"+35":   35,
		"+0":    0,
		"70":    70,
		"junk":  0,
	}
	for in, want := range cases {
		if got := parseWeight(in); got != want {
			t.Errorf("parseWeight(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestParseSetWithoutExercise verifies orphan set rows are rejected.
func TestParseSetWithoutExercise(t *testing.T) {
	csv := `"Push";"2026-02-17 5:04 h";"1:00 hr"
1;100;5;1
`
	if _, err := Parse(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for set without exercise")
	}
}

// TestParseEmpty verifies an empty export yields no workouts.
func TestParseEmpty(t *testing.T) {
	workouts, err := Parse(strings.NewReader("\n\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(workouts) != 0 {
		t.Errorf("workouts = %d, want 0", len(workouts))
	}
}
