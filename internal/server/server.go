package server

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/olevel/internal/feed"
	"github.com/jpalmerr/olevel/internal/metrics"
	"github.com/jpalmerr/olevel/internal/records"
)

const (
	// sseWriteTimeout bounds a single SSE write so a stalled client cannot
	// pin its handler goroutine. Must be <= shutdown timeout.
	sseWriteTimeout = 5 * time.Second

	// entryTTL is how long an untouched score-entry dialog stays open.
	entryTTL = time.Hour

	defaultTitle     = "O-Level Student Records"
	titlePlaceholder = "{{.Title}}"
)

// Options configures a [Server].
type Options struct {
	// Port is the TCP port to listen on.
	Port int

	// Assets holds assets/index.html. May be nil.
	Assets fs.FS

	// Title replaces the title placeholder in the dashboard.
	Title string

	// RedirectDelay is how long the dashboard shows the registration
	// success message before returning to the list.
	RedirectDelay time.Duration

	// Metrics receives request and rejection observations. May be nil.
	Metrics *metrics.Metrics

	Logger *slog.Logger
}

// Server serves the dashboard and API for one records store.
type Server struct {
	store      *records.Store
	changes    *feed.Feed
	opts       Options
	logger     *slog.Logger
	httpServer *http.Server

	entriesMu sync.Mutex
	entries   map[string]*entrySession
	now       func() time.Time
}

type entrySession struct {
	entry  *records.Entry
	opened time.Time
}

// NewServer creates a server. It is not started until [Server.Start].
func NewServer(st *records.Store, changes *feed.Feed, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   st,
		changes: changes,
		opts:    opts,
		logger:  logger,
		entries: make(map[string]*entrySession),
		now:     time.Now,
	}
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	s.route(mux, "GET /api/students", s.handleList)
	s.route(mux, "GET /api/table", s.handleTable)
	s.route(mux, "POST /api/students", s.handleRegister)
	s.route(mux, "DELETE /api/students", s.handleClear)
	s.route(mux, "GET /api/students/{id}", s.handleDetails)
	s.route(mux, "DELETE /api/students/{id}", s.handleDelete)
	s.route(mux, "POST /api/students/{id}/promote", s.handlePromote)
	s.route(mux, "POST /api/students/{id}/entry", s.handleOpenEntry)
	s.route(mux, "POST /api/entries/{token}", s.handleSaveEntry)
	s.route(mux, "DELETE /api/entries/{token}", s.handleCancelEntry)

	// long-lived; kept out of request metrics
	mux.HandleFunc("GET /api/sse", s.handleSSE)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}
	if s.opts.Assets != nil {
		mux.HandleFunc("GET /", s.handleDashboard)
	}
	return mux
}

// Start begins serving in a background goroutine and returns once the
// listener is bound. Cancelling ctx shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	handler := s.Handler()

	// bind first so port errors surface synchronously
	addr := fmt.Sprintf(":%d", s.opts.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.opts.Port, err)
	}

	s.httpServer = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// request contexts derive from ctx so SSE handlers exit on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// route registers h under pattern with request metrics.
func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	if s.opts.Metrics == nil {
		mux.HandleFunc(pattern, h)
		return
	}
	m := s.opts.Metrics
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		m.ObserveRequest(pattern, sw.code, time.Since(start))
	})
}

// statusWriter captures the response code for metrics.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"students": s.store.Len(),
	}, s.logger)
}

// handleDashboard serves the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	content, err := fs.ReadFile(s.opts.Assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	title := s.opts.Title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err = w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}
