package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/longregen/improv/internal/adapters/http"
	"github.com/longregen/improv/internal/adapters/tracing"
	"github.com/longregen/improv/internal/ports"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the credential-issuance HTTP server.

Endpoints:
  POST /connection-details   fresh room per call, token for the player
  GET  /token?identity=      token for the shared battle room

Required configuration:
  - LiveKit (LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET)

Without it the server still starts, but both endpoints answer 500.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

// runServer initializes and starts the HTTP API server
func runServer(ctx context.Context) error {
	logger.Info("starting improv API server",
		"addr", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port),
		"livekit", cfg.LiveKit.URL,
		"version", version,
	)

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  "improv",
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		Stdout:       cfg.Telemetry.TraceStdout,
	})
	if err != nil {
		logger.Warn("failed to initialize tracing", "error", err)
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
	}

	var issuer ports.CredentialIssuer
	var probe ports.RoomProbe
	credentialService, lk, err := newIssuer()
	if err != nil {
		logger.Error("credential issuer unavailable; issuance endpoints will answer 500", "error", err)
	} else {
		issuer = credentialService
		probe = lk
		logger.Info("credential issuer initialized",
			"fixed_room", cfg.Rooms.FixedRoom,
			"room_prefix", cfg.Rooms.Prefix,
			"token_ttl", cfg.LiveKit.TokenTTL(),
		)
	}

	server := http.NewServer(cfg, logger, version, issuer, probe)

	serverErrors := make(chan error, 1)

	go func() {
		serverErrors <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		logger.Info("server stopped")
		return nil
	}
}
