// Package server assembles the roster HTTP service from configuration: it
// picks the storage engine, builds services and routes, and runs the
// http.Server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jbweber/homelab/roster/internal/api"
	"github.com/jbweber/homelab/roster/internal/config"
	"github.com/jbweber/homelab/roster/internal/datastore"
	"github.com/jbweber/homelab/roster/internal/repository"
	"github.com/jbweber/homelab/roster/internal/service"
)

// Server is the assembled roster service
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	ds      *datastore.Datastore
	closers []io.Closer
	handler http.Handler
}

// New builds the repositories for cfg.Store, the services on top of them and
// the HTTP router.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("new server: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, logger: logger}

	var employeeRepo repository.EmployeeRepository
	var companyRepo repository.CompanyRepository
	if cfg.Store == config.StoreMemory {
		employeeRepo = repository.NewMemoryEmployeeRepository()
		companyRepo = repository.NewMemoryCompanyRepository()
	} else {
		ds, err := cfg.InitializeDatabase(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s store: %w", cfg.Store, err)
		}
		s.ds = ds
		employeeRepo = repository.NewSQLEmployeeRepository(ds, logger)
		companyRepo = repository.NewSQLCompanyRepository(ds, logger)
	}
	for _, repo := range []any{employeeRepo, companyRepo} {
		if c, ok := repo.(io.Closer); ok {
			s.closers = append(s.closers, c)
		}
	}

	employees, err := service.NewEmployeeService(employeeRepo, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	companies, err := service.NewCompanyService(companyRepo, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	s.handler = s.routes(api.NewAPI(employees, companies, logger.With("component", "api")), api.NewMetrics())
	logger.Info("server assembled", "store", cfg.Store)
	return s, nil
}

func (s *Server) routes(a *api.API, metrics *api.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.With("component", "http").Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	a.RegisterRoutes(r)

	// Health check endpoint
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.WriteString(w, "ok\n"); err != nil {
			s.logger.Warn("failed to write health response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured port and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler: s.handler,
		// Limits time to read request headers and reduces slowloris risk.
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("roster listening", "addr", listener.Addr().String())

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown requested, draining in-flight requests")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("server forced to shutdown", "error", err)
	} else {
		s.logger.Info("server exited gracefully")
	}

	select {
	case err := <-serveErr:
		return err
	case <-shutdownCtx.Done():
		s.logger.Warn("timed out waiting for server goroutine to exit", "error", shutdownCtx.Err())
	}
	return nil
}

// Close releases the repositories and the database, if any
func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	if s.ds != nil {
		errs = append(errs, s.ds.Close())
	}
	return errors.Join(errs...)
}
