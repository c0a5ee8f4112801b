package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/ironlog/internal/auth"
	"github.com/claude/ironlog/internal/calendar"
	"github.com/claude/ironlog/internal/ingest/alpha"
	"github.com/claude/ironlog/internal/metrics"
	"github.com/claude/ironlog/internal/session"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the handlers need. Importer and Metrics may be
// nil; the import route then answers 501 and no instruments are recorded.
type Deps struct {
	Source   storage.Source
	Forms    *session.Registry
	Auth     *auth.Service
	Importer *alpha.Provider
	Metrics  *metrics.Manager
	Layout   calendar.Layout
	Labels   calendar.Labels
	Location *time.Location
	APIKey   string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	source   storage.Source
	forms    *session.Registry
	auth     *auth.Service
	importer *alpha.Provider
	metrics  *metrics.Manager
	layout   calendar.Layout
	labels   calendar.Labels
	loc      *time.Location
	apiKey   string
	log      *slog.Logger
	router   chi.Router
	whois    WhoIser
	now      func() time.Time
}

// New creates a new Server with all routes configured.
func New(d Deps, log *slog.Logger) *Server {
	s := &Server{
		source:   d.Source,
		forms:    d.Forms,
		auth:     d.Auth,
		importer: d.Importer,
		metrics:  d.Metrics,
		layout:   d.Layout,
		labels:   d.Labels,
		loc:      d.Location,
		apiKey:   d.APIKey,
		log:      log,
		router:   chi.NewRouter(),
		now:      time.Now,
	}
	if s.labels == nil {
		s.labels = calendar.English
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.layout == (calendar.Layout{}) {
		s.layout = calendar.DefaultLayout
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity lookup to the tailnet. Call before serving.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// Mount attaches an extra handler, e.g. the MCP endpoint or /metrics.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) today() time.Time {
	return calendar.Midnight(s.now().In(s.loc))
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Instrument(s.metrics))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)

		r.Post("/auth/sign-in", s.handleSignIn)
		r.Post("/auth/sign-up", s.handleSignUp)

		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/recent", s.handleRecentWorkouts)
		r.Get("/workouts/history", s.handleHistory)
		r.Get("/workouts/{date}", s.handleGetWorkout)
		r.Get("/streak", s.handleStreak)

		r.Get("/calendar/window", s.handleCalendarWindow)
		r.Get("/calendar/day", s.handleCalendarDay)

		r.Route("/forms", func(r chi.Router) {
			r.Post("/", s.handleOpenForm)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetForm)
				r.Patch("/", s.handleUpdateDetails)
				r.Delete("/", s.handleCloseForm)
				r.Post("/undo", s.handleUndo)
				r.Post("/save", s.handleSave)

				r.Post("/exercises", s.handleAddExercise)
				r.Route("/exercises/{ex}", func(r chi.Router) {
					r.Patch("/", s.handleUpdateExercise)
					r.Delete("/", s.handleDeleteExercise)
					r.Post("/sets", s.handleAddSet)
					r.Route("/sets/{d}", func(r chi.Router) {
						r.Delete("/", s.handleDeleteSet)
						r.Post("/duplicate", s.handleDuplicateSet)
						r.Post("/drops", s.handleAddDropSet)
						r.Patch("/drops/{s}", s.handleUpdateSet)
						r.Delete("/drops/{s}", s.handleDeleteDropSet)
					})
				})
			})
		})

		// Import endpoint (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/import", s.handleImport)
		})
	})
}
