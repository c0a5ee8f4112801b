package mcp

import (
	"log/slog"
	"time"

	"github.com/claude/ironlog/internal/calendar"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Options carries the calendar settings shared with the REST API.
type Options struct {
	Layout   calendar.Layout
	Labels   calendar.Labels
	Location *time.Location
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, opts Options, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("IronLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("IronLog workout log. Browse strength workouts by date, grouped history, recent sessions, training streak and the calendar date strip."),
	)

	h := newHandlers(ds, opts, log)

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetRecentWorkouts, Handler: h.getRecentWorkouts},
		server.ServerTool{Tool: toolGetDateWindow, Handler: h.getDateWindow},
		server.ServerTool{Tool: toolGetStreak, Handler: h.getStreak},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resThisWeek, Handler: h.thisWeek},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	layout calendar.Layout
	labels calendar.Labels
	loc    *time.Location
	log    *slog.Logger
	now    func() time.Time
}

func newHandlers(ds DataSource, opts Options, log *slog.Logger) *handlers {
	h := &handlers{
		ds:     ds,
		layout: opts.Layout,
		labels: opts.Labels,
		loc:    opts.Location,
		log:    log,
		now:    time.Now,
	}
	if h.labels == nil {
		h.labels = calendar.English
	}
	if h.loc == nil {
		h.loc = time.Local
	}
	if h.layout == (calendar.Layout{}) {
		h.layout = calendar.DefaultLayout
	}
	return h
}

func (h *handlers) today() time.Time {
	return h.now().In(h.loc)
}

// --- Resource definitions ---

var resRecentWorkouts = mcp.NewResource(
	"ironlog://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The five most recent workouts as list cards"),
	mcp.WithMIMEType("application/json"),
)

var resThisWeek = mcp.NewResource(
	"ironlog://this_week",
	"This Week",
	mcp.WithResourceDescription("Full workouts recorded in the current Monday-start week"),
	mcp.WithMIMEType("application/json"),
)
