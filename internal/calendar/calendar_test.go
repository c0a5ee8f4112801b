package calendar

import (
	"errors"
	"math"
	"testing"
	"time"
)

var today = time.Date(2025, 5, 28, 15, 42, 0, 0, time.UTC) // Wednesday

// TestMaxCards verifies the floor((W - P) / C) card count, including widths
// too narrow for a single card.
func TestMaxCards(t *testing.T) {
	cases := []struct {
		width float64
		want  int
	}{
		{400, 4},
		{440, 5},
		{439, 4},
		{120, 1},
		{119, 0},
		{10, 0},
		{29320, 366},
		{29400, 366},
		{1e12, MaxWindowCards},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := DefaultLayout.MaxCards(tc.width); got != tc.want {
			t.Errorf("MaxCards(%v) = %d, want %d", tc.width, got, tc.want)
		}
	}
	if got := (Layout{}).MaxCards(400); got != 0 {
		t.Errorf("zero card width MaxCards = %d, want 0", got)
	}
}

// TestCheckWidth verifies non-finite and oversized widths are rejected
// and Window stays bounded for them.
func TestCheckWidth(t *testing.T) {
	for _, w := range []float64{0, 400, 29320} {
		if err := DefaultLayout.CheckWidth(w); err != nil {
			t.Errorf("CheckWidth(%v) = %v, want nil", w, err)
		}
	}
	for _, w := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), 29400, 1e12} {
		if err := DefaultLayout.CheckWidth(w); !errors.Is(err, ErrInvalidWidth) {
			t.Errorf("CheckWidth(%v) = %v, want ErrInvalidWidth", w, err)
		}
	}

	if days := Window(today, math.Inf(1), DefaultLayout); len(days) != 0 {
		t.Errorf("Window(+Inf) len = %d, want 0", len(days))
	}
	if days := Window(today, 1e12, DefaultLayout); len(days) != MaxWindowCards {
		t.Errorf("Window(1e12) len = %d, want %d", len(days), MaxWindowCards)
	}
}

// TestWindowEven verifies the 400px example: four cards starting the day
// before today, with today at index 1.
func TestWindowEven(t *testing.T) {
	days := WindowDays(today, 400, DefaultLayout, English)
	want := []string{"2025-05-27", "2025-05-28", "2025-05-29", "2025-05-30"}
	if len(days) != len(want) {
		t.Fatalf("days = %d, want %d", len(days), len(want))
	}
	for i, d := range days {
		if d.Date != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, d.Date, want[i])
		}
	}
	if !days[1].IsToday {
		t.Error("days[1] should be today")
	}
}

// TestWindowOdd verifies today is the exact centre for an odd card count.
func TestWindowOdd(t *testing.T) {
	days := Window(today, 440, DefaultLayout)
	if len(days) != 5 {
		t.Fatalf("days = %d, want 5", len(days))
	}
	if !days[2].Equal(Midnight(today)) {
		t.Errorf("centre = %v, want %v", days[2], Midnight(today))
	}
}

// TestWindowProperties verifies, for a range of widths, that the window has
// MaxCards entries one day apart at midnight with exactly one today.
func TestWindowProperties(t *testing.T) {
	for width := 0.0; width <= 2000; width += 37 {
		n := DefaultLayout.MaxCards(width)
		days := Window(today, width, DefaultLayout)
		if len(days) != n {
			t.Fatalf("width %v: len = %d, want %d", width, len(days), n)
		}
		todays := 0
		for i, d := range days {
			if !d.Equal(Midnight(d)) {
				t.Errorf("width %v: day %d not at midnight", width, i)
			}
			if i > 0 && !days[i-1].AddDate(0, 0, 1).Equal(d) {
				t.Errorf("width %v: day %d not consecutive", width, i)
			}
			if ClassifyTime(d, today, English).IsToday {
				todays++
			}
		}
		if n > 0 && todays != 1 {
			t.Errorf("width %v: %d today cards, want 1", width, todays)
		}
	}
}

// TestWindowAcrossDST verifies day stepping uses calendar days, not 24h,
// so a DST change does not shift cards off midnight.
func TestWindowAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	now := time.Date(2025, 3, 30, 12, 0, 0, 0, loc)
	for _, d := range Window(now, 600, DefaultLayout) {
		if d.Hour() != 0 {
			t.Errorf("%v is not at midnight", d)
		}
	}
}

// TestClassify verifies today, past and future styling.
func TestClassify(t *testing.T) {
	cases := []struct {
		raw     string
		isToday bool
		isPast  bool
		style   Style
		weekday string
	}{
		{"2025-05-28", true, false, StyleEmphasized, "Wed"},
		{"2025-05-27", false, true, StyleEmphasized, "Tue"},
		{"2025-05-29", false, false, StyleNeutral, "Thu"},
		{"2025-05-29T06:00:00Z", false, false, StyleNeutral, "Thu"},
	}
	for _, tc := range cases {
		d, err := Classify(tc.raw, today, English)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tc.raw, err)
		}
		if d.IsToday != tc.isToday || d.IsPast != tc.isPast || d.Style != tc.style {
			t.Errorf("Classify(%q) = %+v", tc.raw, d)
		}
		if d.Weekday != tc.weekday {
			t.Errorf("Classify(%q).Weekday = %q, want %q", tc.raw, d.Weekday, tc.weekday)
		}
	}
}

// TestClassifyInvalid verifies unparseable dates fail closed to the safe
// default while still reporting the parse failure.
func TestClassifyInvalid(t *testing.T) {
	d, err := Classify("not-a-date", today, English)
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("err = %v, want ErrInvalidDate", err)
	}
	if d != Invalid {
		t.Errorf("day = %+v, want %+v", d, Invalid)
	}
	if d.IsToday || d.IsPast || d.Style != StyleNeutral {
		t.Errorf("invalid day is not neutral: %+v", d)
	}
}

// TestMonthDatePadding verifies single-digit days are zero padded.
func TestMonthDatePadding(t *testing.T) {
	d, err := Classify("2025-06-03", today, English)
	if err != nil {
		t.Fatal(err)
	}
	if d.MonthDate != "03" {
		t.Errorf("MonthDate = %q, want 03", d.MonthDate)
	}
}

// TestWeekStart verifies Monday-start weeks with Sunday as day 7.
func TestWeekStart(t *testing.T) {
	cases := map[string]string{
		"2025-05-26": "2025-05-26", // Monday
		"2025-05-28": "2025-05-26",
		"2025-06-01": "2025-05-26", // Sunday
		"2025-06-02": "2025-06-02",
	}
	for in, want := range cases {
		d, err := ParseDate(in, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		if got := WeekStart(d).Format("2006-01-02"); got != want {
			t.Errorf("WeekStart(%s) = %s, want %s", in, got, want)
		}
	}
}

// TestLongDate verifies the form header format.
func TestLongDate(t *testing.T) {
	got, err := LongDate("2025-05-25", time.UTC, English)
	if err != nil {
		t.Fatal(err)
	}
	if got != "25 May 2025" {
		t.Errorf("LongDate = %q, want %q", got, "25 May 2025")
	}
	if _, err := LongDate("25/05/2025", time.UTC, English); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// TestLabelsOutOfRange verifies unknown indices map to "Unknown".
func TestLabelsOutOfRange(t *testing.T) {
	if got := English.Weekday(7); got != "Unknown" {
		t.Errorf("Weekday(7) = %q", got)
	}
	if got := English.Month(-1); got != "Unknown" {
		t.Errorf("Month(-1) = %q", got)
	}
}
