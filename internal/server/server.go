package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sundayezeilo/readlater/internal/api"
	"github.com/sundayezeilo/readlater/internal/auth"
	"github.com/sundayezeilo/readlater/internal/config"
	"github.com/sundayezeilo/readlater/internal/httpx"
	"github.com/sundayezeilo/readlater/internal/storage"
)

// Server represents the HTTP server with all dependencies.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	handler  *api.Handler
	verifier auth.Verifier
	acquire  storage.Acquirer
	server   *http.Server
}

// Deps are the collaborators the router wires into the request pipeline.
type Deps struct {
	Handler  *api.Handler
	Verifier auth.Verifier
	Acquire  storage.Acquirer
}

// New creates a new Server instance.
func New(cfg *config.Config, logger *slog.Logger, deps Deps) *Server {
	return &Server{
		config:   cfg,
		logger:   logger,
		handler:  deps.Handler,
		verifier: deps.Verifier,
		acquire:  deps.Acquire,
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port),
		Handler:      s.Routes(),
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting http server",
			"addr", s.server.Addr,
			"env", s.config.App.Environment,
		)
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		s.logger.Info("shutdown requested", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		s.logger.Info("server stopped gracefully")
		return nil
	}
}

// Routes builds the router. The health check is public; /api requires a bearer token
// and runs on a per-request storage session.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.Recovery(s.logger))
	r.Use(httpx.RequestID)
	r.Use(httpx.Logger(s.logger))
	r.Use(httpx.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.CleanPath)
	r.Use(middleware.GetHead)

	r.Get("/x/health", s.healthCheckHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(s.verifier, s.logger))
		r.Use(storage.Middleware(s.acquire, s.logger))
		s.handler.Routes(r)
	})

	return r
}

// healthCheckHandler handles health check requests.
func (s *Server) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.config.Observability.ServiceName,
		"version": s.config.Observability.ServiceVersion,
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("shutdown timeout exceeded, forcing close")
			return s.server.Close()
		}
		return err
	}

	return nil
}
