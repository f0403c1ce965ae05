package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/longregen/improv/internal/adapters/http/handlers"
	"github.com/longregen/improv/internal/adapters/http/middleware"
	"github.com/longregen/improv/internal/config"
	"github.com/longregen/improv/internal/ports"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "improv"

type Server struct {
	config     *config.Config
	router     *chi.Mux
	httpServer *http.Server
	logger     *slog.Logger
	version    string
	issuer     ports.CredentialIssuer
	probe      ports.RoomProbe
}

// NewServer wires the routes. issuer and probe may be nil when LiveKit is
// not configured; the issuance routes then answer with the generic 500.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	version string,
	issuer ports.CredentialIssuer,
	probe ports.RoomProbe,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config:  cfg,
		logger:  logger,
		version: version,
		issuer:  issuer,
		probe:   probe,
	}

	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName, r))
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.CORS(s.config.Server.CORSOrigins))
	r.Use(middleware.Metrics)

	healthHandler := handlers.NewHealthHandler(s.version)
	detailedHealthHandler := handlers.NewHealthHandlerWithDeps(s.version, s.probe, s.issuer != nil)
	r.Get("/health", healthHandler.Handle)
	r.Get("/health/detailed", detailedHealthHandler.HandleDetailed)
	r.Handle("/metrics", promhttp.Handler())

	credentialsHandler := handlers.NewCredentialsHandler(s.issuer, s.logger)
	mount := func(r chi.Router) {
		r.Post("/connection-details", credentialsHandler.ConnectionDetails)
		r.Get("/token", credentialsHandler.Token)
	}
	mount(r)
	r.Route("/api", mount)

	s.router = r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Router() *chi.Mux {
	return s.router
}
