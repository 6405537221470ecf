// Package api serves grids over HTTP.
//
// Each grid is addressed by id and, optionally, a scope taken from the
// X-Colgrid-Scope header (for example a user id). The server keeps one
// [grid.Grid] per scope and id, and hands out resize and reorder sessions as
// UUIDs that expire when left open.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/colgrid/pkg/grid"
	"github.com/matzehuels/colgrid/pkg/layout"
	"github.com/matzehuels/colgrid/pkg/observability"
	"github.com/matzehuels/colgrid/pkg/store"
)

// ScopeHeader selects the storage scope of a request.
const ScopeHeader = "X-Colgrid-Scope"

// Defaults applied by [New].
const (
	DefaultSessionTTL     = 5 * time.Minute
	DefaultContainerWidth = 1200
)

// Config configures a [Server].
type Config struct {
	Store          store.Store
	Logger         *log.Logger
	SessionTTL     time.Duration
	StateTTL       time.Duration
	ContainerWidth float64
	ResizeMinWidth float64
	LayoutOptions  []layout.Option
}

// Server is the HTTP API over a set of grids.
type Server struct {
	cfg    Config
	logger *log.Logger
	now    func() time.Time

	mu       sync.Mutex
	grids    map[string]*grid.Grid
	sessions map[string]*session
}

// New creates a server. A nil store keeps state in memory.
func New(cfg Config) *Server {
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.ContainerWidth <= 0 {
		cfg.ContainerWidth = DefaultContainerWidth
	}
	return &Server{
		cfg:      cfg,
		logger:   cfg.Logger,
		now:      time.Now,
		grids:    make(map[string]*grid.Grid),
		sessions: make(map[string]*session),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1/grids/{id}", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Get("/state", s.handleGetState)
		r.Delete("/state", s.handleDeleteState)
		r.Post("/visibility", s.handleVisibility)
		r.Post("/autofill", s.handleAutoFill)
		r.Get("/export", s.handleExport)

		r.Post("/resize", s.handleBeginResize)
		r.Post("/resize/{session}/delta", s.handleResizeDelta)
		r.Post("/resize/{session}/commit", s.handleResizeCommit)
		r.Post("/resize/{session}/cancel", s.handleCancel)

		r.Post("/reorder", s.handleBeginReorder)
		r.Post("/reorder/{session}/preview", s.handleReorderPreview)
		r.Post("/reorder/{session}/commit", s.handleReorderCommit)
		r.Post("/reorder/{session}/cancel", s.handleCancel)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down and
// cancels every open session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close(shutdownCtx)
	s.logger.Info("server stopped")
	return err
}

// Close cancels every open session.
func (s *Server) Close(ctx context.Context) {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range open {
		sess.cancel(ctx)
	}
}

// observe reports requests to the HTTP hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", dur,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
