package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/history"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultRecent = 5

// dateBounds parses optional YYYY-MM-DD bounds. A zero time means unbounded.
func dateBounds(startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = calendar.ParseDate(startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endStr != "" {
		end, err = calendar.ParseDate(endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

// inRange keeps workouts dated within [start, end]. Undated workouts are
// kept only when no bound is set.
func inRange(workouts []models.Workout, start, end time.Time, loc *time.Location) []models.Workout {
	if start.IsZero() && end.IsZero() {
		return workouts
	}
	var out []models.Workout
	for _, w := range workouts {
		d, err := calendar.ParseDate(w.Date, loc)
		if err != nil {
			continue
		}
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// --- Tool definitions ---

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Workout history grouped into This Week, This Month and Older sections. Each workout is a card with title, date and exercise chips (\"Bench Press x3\")."),
	mcp.WithString("start", mcp.Description("Only workouts on or after this date (YYYY-MM-DD).")),
	mcp.WithString("end", mcp.Description("Only workouts on or before this date (YYYY-MM-DD).")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Full workout recorded on a date: name, body weight, exercises and every drop set with reps and weight."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Workout date (YYYY-MM-DD)")),
)

var toolGetRecentWorkouts = mcp.NewTool("get_recent_workouts",
	mcp.WithDescription("The most recent workouts, newest first, as list cards."),
	mcp.WithNumber("n", mcp.Description("How many workouts to return. Defaults to 5.")),
)

var toolGetDateWindow = mcp.NewTool("get_date_window",
	mcp.WithDescription("The day cards shown in the date strip for a given screen width, centred on today. Past days and today are emphasized."),
	mcp.WithNumber("width", mcp.Required(), mcp.Description("Available width in points")),
)

var toolGetStreak = mcp.NewTool("get_streak",
	mcp.WithDescription("Number of consecutive days with a workout, ending today or yesterday."),
)

// --- Tool handlers ---

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := dateBounds(req.GetString("start", ""), req.GetString("end", ""), h.loc)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	type section struct {
		Title    string            `json:"title"`
		Workouts []history.Summary `json:"workouts"`
	}
	groups := history.Group(inRange(workouts, start, end, h.loc), h.today())
	sections := make([]section, 0, 3)
	for _, s := range groups.Sections() {
		sections = append(sections, section{Title: s.Title, Workouts: h.summaries(s.Workouts)})
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"total": groups.Len(), "sections": sections})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	d, err := calendar.ParseDate(raw, h.loc)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	date := d.Format(models.DateLayout)

	w, err := h.ds.GetWorkout(ctx, date)
	if errors.Is(err, storage.ErrNotFound) {
		return mcp.NewToolResultError("no workout on " + date), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	title, _ := calendar.LongDate(w.Date, h.loc, h.labels)
	result, err := mcp.NewToolResultJSON(map[string]any{
		"title":   title,
		"workout": w,
		"summary": history.Summarize(*w, h.loc, h.labels),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecentWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n := req.GetInt("n", defaultRecent)
	if n < 0 {
		return mcp.NewToolResultError("n must not be negative"), nil
	}

	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp get_recent_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(h.summaries(history.Recent(workouts, n)))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getDateWindow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width, err := req.RequireFloat("width")
	if err != nil {
		return mcp.NewToolResultError("width parameter is required"), nil
	}
	if err := h.layout.CheckWidth(width); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	today := calendar.Midnight(h.today())
	result, err := mcp.NewToolResultJSON(map[string]any{
		"today":    today.Format(models.DateLayout),
		"maxCards": h.layout.MaxCards(width),
		"days":     calendar.WindowDays(today, width, h.layout, h.labels),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStreak(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx)
	if err != nil {
		h.log.Error("mcp get_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]int{"days": history.Streak(workouts, h.today())})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) summaries(workouts []models.Workout) []history.Summary {
	out := make([]history.Summary, len(workouts))
	for i, w := range workouts {
		out[i] = history.Summarize(w, h.loc, h.labels)
	}
	return out
}
