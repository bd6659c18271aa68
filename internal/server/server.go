package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contactfinder/contactfinder/internal/config"
	"github.com/contactfinder/contactfinder/internal/database"
	"github.com/contactfinder/contactfinder/internal/model"
)

// ScanRequest carries the per-scan settings submitted through the web form.
type ScanRequest struct {
	// Person is the full name to scan for. Required.
	Person string

	// Company is an optional company qualifier.
	Company string

	// Backend selects the search backend ("serpapi" or "github").
	// Empty means the caller's default.
	Backend string

	// Results is the number of search results to request.
	// Zero means the caller's default.
	Results int

	// RestrictUK limits web search to UK sites.
	RestrictUK bool
}

// ScanFunc runs a scan for the given request and returns the completed
// report. The server does not build pipelines itself; the caller injects
// the scan behavior so the server stays testable without network access.
type ScanFunc func(ctx context.Context, req ScanRequest) (*model.ScanReport, error)

// ErrNoScanFunc is returned when the server is started without a scan function.
var ErrNoScanFunc = errors.New("server: no scan function configured")

// Server serves the web UI and the JSON API on top of the scan database.
type Server struct {
	db      *database.ContactDB
	scan    ScanFunc
	logger  *slog.Logger
	addr    string
	timeout time.Duration
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address (e.g. ":8317").
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithScanFunc sets the function used to run scans from the web UI.
func WithScanFunc(scan ScanFunc) Option {
	return func(s *Server) {
		s.scan = scan
	}
}

// WithLogger sets the logger for request and scan events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScanTimeout bounds the duration of scans started from the web UI.
func WithScanTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// New creates a Server backed by the given database.
//
// Design decision: gin runs in release mode and without its default logger
// because all our logging goes through slog; only the recovery middleware
// is kept.
func New(db *database.ContactDB, opts ...Option) (*Server, error) {
	s := &Server{
		db:      db,
		logger:  slog.Default(),
		addr:    config.DefaultServerAddr,
		timeout: 5 * time.Minute,
	}

	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tmpl)

	s.engine = engine
	s.registerRoutes()

	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the underlying HTTP handler. Exposed for tests and for
// embedding the server behind custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe starts the HTTP server and blocks until the context is
// cancelled or the listener fails. On cancellation the server shuts down
// gracefully with a short drain timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("web server started", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// registerRoutes wires all HTTP routes.
func (s *Server) registerRoutes() {
	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/scan", s.handleScan)
	s.engine.GET("/scans/:id", s.handleScanDetail)
	s.engine.GET("/scans/:id/export.csv", s.handleExportCSV)

	api := s.engine.Group("/api")
	api.GET("/scans", s.handleListScans)
	api.GET("/scans/:id", s.handleGetScan)

	s.engine.GET("/health", s.handleHealth)
}

// requestLogger logs each request through slog after it completes.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
