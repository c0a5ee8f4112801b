// Package calendar builds the home-screen date strip and the date helpers
// shared with workout history.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/claude/ironlog/internal/models"
)

// Layout holds the fixed sizes of the date strip.
type Layout struct {
	CardWidth        float64
	ContainerPadding float64
}

// DefaultLayout matches the day cards drawn by the app.
var DefaultLayout = Layout{CardWidth: 80, ContainerPadding: 40}

// MaxWindowCards caps the date strip at one year of cards.
const MaxWindowCards = 366

// ErrInvalidWidth is returned by CheckWidth for widths no screen can have.
var ErrInvalidWidth = errors.New("invalid width")

// cards is the uncapped floor((W - P) / C). Non-finite results are 0.
func (l Layout) cards(width float64) float64 {
	if l.CardWidth <= 0 {
		return 0
	}
	n := math.Floor((width - l.ContainerPadding) / l.CardWidth)
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0
	}
	return n
}

// MaxCards returns how many day cards fit in width, at most MaxWindowCards.
func (l Layout) MaxCards(width float64) int {
	if math.IsInf(width, 0) || math.IsNaN(width) {
		return 0
	}
	return int(math.Min(l.cards(width), MaxWindowCards))
}

// CheckWidth rejects non-finite widths and widths that would hold more than
// MaxWindowCards cards.
func (l Layout) CheckWidth(width float64) error {
	if math.IsInf(width, 0) || math.IsNaN(width) {
		return fmt.Errorf("%w: %v", ErrInvalidWidth, width)
	}
	if l.cards(width) > MaxWindowCards {
		return fmt.Errorf("%w: %v fits more than %d cards", ErrInvalidWidth, width, MaxWindowCards)
	}
	return nil
}

// Window returns MaxCards(width) consecutive days at midnight, placed so
// today sits as close to the centre as possible. For an even count today
// is the left of the two centre cards.
func Window(today time.Time, width float64, l Layout) []time.Time {
	n := l.MaxCards(width)
	offset := 0
	if n%2 == 0 {
		offset = 1
	}
	start := Midnight(today).AddDate(0, 0, -n/2+offset)

	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Style is the visual treatment of a day card.
type Style string

const (
	StyleEmphasized Style = "emphasized"
	StyleNeutral    Style = "neutral"
)

// Day is a classified day card.
type Day struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	MonthDate string `json:"monthDate"`
	IsToday   bool   `json:"isToday"`
	IsPast    bool   `json:"isPast"`
	Style     Style  `json:"style"`
}

// Invalid is the day card shown for a date that cannot be parsed.
var Invalid = Day{MonthDate: "00", Style: StyleNeutral}

// ClassifyTime classifies d against today. Both are compared at midnight in
// today's location.
func ClassifyTime(d, today time.Time, labels Labels) Day {
	today = Midnight(today)
	d = Midnight(d.In(today.Location()))

	day := Day{
		Date:      d.Format(models.DateLayout),
		Weekday:   labels.Weekday(int(d.Weekday())),
		MonthDate: d.Format("02"),
		IsToday:   d.Equal(today),
		IsPast:    d.Before(today),
		Style:     StyleNeutral,
	}
	if day.IsToday || day.IsPast {
		day.Style = StyleEmphasized
	}
	return day
}

// Classify parses raw and classifies it against today. On a parse failure it
// returns Invalid together with an error wrapping ErrInvalidDate.
func Classify(raw string, today time.Time, labels Labels) (Day, error) {
	d, err := ParseDate(raw, today.Location())
	if err != nil {
		return Invalid, err
	}
	return ClassifyTime(d, today, labels), nil
}

// WindowDays is Window with every day classified.
func WindowDays(today time.Time, width float64, l Layout, labels Labels) []Day {
	dates := Window(today, width, l)
	days := make([]Day, len(dates))
	for i, d := range dates {
		days[i] = ClassifyTime(d, today, labels)
	}
	return days
}
