package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/akave-ai/logrelay/internal/config"
	"github.com/akave-ai/logrelay/internal/handler"
	"github.com/akave-ai/logrelay/internal/observability"
)

// Server holds the Echo app and dependencies.
type Server struct {
	Echo   *echo.Echo
	Config *config.Config
	log    zerolog.Logger
	nrApp  *newrelic.Application // optional; shut down with the server
}

// New builds the Echo server and registers routes. nrApp may be nil.
func New(cfg *config.Config, log zerolog.Logger, model handler.Completer, nrApp *newrelic.Application) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Validator = handler.NewRequestValidator()

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		contextLogger(log),
		requestLogger(log),
		middleware.Recover(),
	)
	if nrApp != nil {
		e.Use(observability.Middleware(nrApp))
	}
	// Open to every origin, credentials included. Suitable for local
	// frontends only.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc: func(string) (bool, error) { return true, nil },
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch,
			http.MethodPost, http.MethodDelete, http.MethodOptions,
		},
		AllowCredentials: true,
	}))

	relay := &handler.RelayHandler{Model: model}
	e.POST("/upload", relay.Upload)
	e.POST("/ask", relay.Ask)
	e.GET("/healthz", relay.Health)

	return &Server{Echo: e, Config: cfg, log: log, nrApp: nrApp}
}

// Start serves until ctx is cancelled or the listener fails. On cancel the
// server is shut down and in-flight requests get server.shutdown_timeout to
// finish.
func (s *Server) Start(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	addr := ":" + s.Config.Server.Port

	g.Go(func() error {
		s.log.Info().Str("addr", addr).Msg("listening")
		if err := s.Echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown gracefully stops the HTTP server and flushes the New Relic agent.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down")
	err := s.Echo.Shutdown(ctx)
	if s.nrApp != nil {
		s.nrApp.Shutdown(5 * time.Second)
	}
	return err
}
