// Package httpapi serves tile and enemy definitions, scores, run history
// and on-demand board simulations over HTTP.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/sim"
	"github.com/RauAliaxYr/ApocalypticBase/internal/storage"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = ":5808"

// Store is the read side of the score database.
type Store interface {
	TopScores(mode string, limit int) ([]storage.ScoreEntry, error)
	RecentRuns(mode string, limit int) ([]storage.Run, error)
	GetAllGamesStats() (map[string]*storage.GameStats, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	cfg    *config.GameConfig
	store  Store
	sim    *sim.Simulator
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New builds the router. store may be nil, in which case the score and run
// endpoints answer 503.
func New(cfg *config.GameConfig, store Store, opts ...Option) (*Server, error) {
	s := &Server{cfg: cfg, store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	simulator, err := sim.New(cfg, sim.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	s.sim = simulator

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(s.logRequests)
	r.Use(chimid.Recoverer)
	r.Use(Compression)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/defs", s.handleDefs)
		r.Get("/stats", s.handleStats)
		r.Get("/scores/{mode}", s.handleScores)
		r.Get("/runs", s.handleRuns)
		r.Post("/simulate", s.handleSimulate)
	})
	s.router = r
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", chimid.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start))
	})
}
