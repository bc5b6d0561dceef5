package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/raphi011/themestore/internal/cache"
	"github.com/raphi011/themestore/internal/log"
	"github.com/raphi011/themestore/internal/theme"
)

// Store is the subset of *cache.Store the handlers use.
type Store interface {
	Get(name string) (*theme.Theme, error)
	Insert(doc *theme.Theme) error
	Set(currentName string, doc *theme.Theme) error
	Remove(name string) error
	Entries() ([]cache.EntryInfo, error)
	Poisoned() bool
}

// maxBodyBytes limits request bodies.
const maxBodyBytes = 1 << 20

// Server serves a Store over HTTP.
type Server struct {
	store        Store
	logger       *log.Logger
	resourcesDir string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithResources serves dir under /res/. An empty dir disables the route.
func WithResources(dir string) Option {
	return func(s *Server) { s.resourcesDir = dir }
}

// New creates a Server for store.
func New(store Store, opts ...Option) *Server {
	s := &Server{store: store, logger: log.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(mux)
}

// RegisterRoutes registers the theme endpoints on mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleHello)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /themes", s.handleList)
	mux.HandleFunc("GET /theme/{name}", s.handleGet)
	mux.HandleFunc("POST /theme", s.handleInsert)
	mux.HandleFunc("POST /new_theme", s.handleInsert)
	mux.HandleFunc("PUT /theme/{name}", s.handleSet)
	mux.HandleFunc("DELETE /theme/{name}", s.handleRemove)

	if s.resourcesDir != "" {
		mux.Handle("GET /res/", http.StripPrefix("/res/", http.FileServer(http.Dir(s.resourcesDir))))
	}
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
// It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s\n", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		done := s.logger.Request(r.Method, r.URL.Path)
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		done(rec.status, time.Since(start))
	})
}
