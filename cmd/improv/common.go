package main

import (
	"log/slog"
	"os"

	"github.com/longregen/improv/internal/adapters/id"
	"github.com/longregen/improv/internal/adapters/livekit"
	"github.com/longregen/improv/internal/adapters/tracing"
	"github.com/longregen/improv/internal/application/services"
	"github.com/longregen/improv/internal/config"
)

// Version information (set via ldflags)
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// Shared global variables
var (
	cfg    *config.Config
	logger *slog.Logger
)

func initLogger() {
	logger = tracing.NewLogger(os.Stderr, cfg.Telemetry.LogFormat, cfg.Telemetry.SlogLevel())
	slog.SetDefault(logger)
}

// newIssuer builds the LiveKit signer and the credential service on top of
// it. Both fail with domain.ErrMisconfigured when credentials are missing.
func newIssuer() (*services.CredentialService, *livekit.Service, error) {
	lk, err := livekit.NewService(&livekit.ServiceConfig{
		URL:                   cfg.LiveKit.URL,
		APIKey:                cfg.LiveKit.APIKey,
		APISecret:             cfg.LiveKit.APISecret,
		TokenValidityDuration: cfg.LiveKit.TokenTTL(),
	})
	if err != nil {
		return nil, nil, err
	}

	issuer, err := services.NewCredentialService(
		services.CredentialConfig{
			ServerURL:              lk.URL(),
			DefaultParticipantName: cfg.Rooms.DefaultParticipant,
			DefaultIdentity:        cfg.Rooms.DefaultIdentity,
			FixedRoomName:          cfg.Rooms.FixedRoom,
		},
		lk,
		id.New(cfg.Rooms.Prefix, cfg.Rooms.SuffixLength),
	)
	if err != nil {
		return nil, nil, err
	}

	return issuer, lk, nil
}

// maskSecret masks a secret string for display
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "(set)"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// boolStatus returns a status string for a boolean
func boolStatus(b bool) string {
	if b {
		return "configured"
	}
	return "not configured"
}
