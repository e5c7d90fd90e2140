package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meutreino/skill/internal/coach"
	"github.com/meutreino/skill/internal/session"
)

// Dispatcher runs one turn.
type Dispatcher interface {
	Dispatch(ctx context.Context, op coach.Operation, req coach.Request) (coach.Prompt, error)
}

// SessionViewer exposes the in-memory session of a user.
type SessionViewer interface {
	Snapshot(userID string) session.Slot
}

// Pinger checks a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	turns    Dispatcher
	sessions SessionViewer
	store    Pinger
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. sessions may be nil,
// which disables the session inspection endpoint.
func New(turns Dispatcher, sessions SessionViewer, store Pinger, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		turns:    turns,
		sessions: sessions,
		store:    store,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/api/v1/healthz", s.handleHealth)

	// Turn endpoints (API key required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/turns/{operation}", s.handleTurn)
		r.Get("/sessions/{userID}", s.handleSession)
	})
}
