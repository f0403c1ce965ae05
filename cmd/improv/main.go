package main

import (
	"fmt"
	"os"

	"github.com/longregen/improv/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "improv",
		Short: "Improv - LiveKit credential issuer",
		Long: `Improv issues LiveKit access tokens for the improv game.

It serves two HTTP endpoints: one that creates a fresh room per player
and one that grants access to the shared battle room. The same issuers
are available from the command line for debugging.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			initLogger()
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		connectCmd(),
		tokenCmd(),
		inspectCmd(),
		configCmd(),
		versionCmd(),
	)

	return rootCmd
}

// configCmd shows current configuration
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Current configuration:")
			fmt.Fprintln(out)

			fmt.Fprintln(out, "LiveKit:")
			fmt.Fprintf(out, "  URL:        %s\n", cfg.LiveKit.URL)
			fmt.Fprintf(out, "  API Key:    %s\n", maskSecret(cfg.LiveKit.APIKey))
			fmt.Fprintf(out, "  API Secret: %s\n", maskSecret(cfg.LiveKit.APISecret))
			fmt.Fprintf(out, "  Token TTL:  %s\n", cfg.LiveKit.TokenTTL())
			fmt.Fprintf(out, "  Status:     %s\n", boolStatus(cfg.IsLiveKitConfigured()))
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Rooms:")
			fmt.Fprintf(out, "  Prefix:              %s\n", cfg.Rooms.Prefix)
			fmt.Fprintf(out, "  Suffix Length:       %d\n", cfg.Rooms.SuffixLength)
			fmt.Fprintf(out, "  Fixed Room:          %s\n", cfg.Rooms.FixedRoom)
			fmt.Fprintf(out, "  Default Participant: %s\n", cfg.Rooms.DefaultParticipant)
			fmt.Fprintf(out, "  Default Identity:    %s\n", cfg.Rooms.DefaultIdentity)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Server:")
			fmt.Fprintf(out, "  Address: %s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Fprintf(out, "  CORS:    %v\n", cfg.Server.CORSOrigins)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Telemetry:")
			fmt.Fprintf(out, "  OTLP Endpoint: %s\n", cfg.Telemetry.OTLPEndpoint)
			fmt.Fprintf(out, "  Environment:   %s\n", cfg.Telemetry.Environment)
			fmt.Fprintf(out, "  Log:           %s (%s)\n", cfg.Telemetry.LogLevel, cfg.Telemetry.LogFormat)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Environment variables:")
			fmt.Fprintln(out, "  LIVEKIT_URL, LIVEKIT_API_KEY, LIVEKIT_API_SECRET (or IMPROV_LIVEKIT_*)")
			fmt.Fprintln(out, "  IMPROV_TOKEN_TTL_SECONDS, IMPROV_ROOM_PREFIX, IMPROV_ROOM_SUFFIX_LENGTH, IMPROV_FIXED_ROOM")
			fmt.Fprintln(out, "  IMPROV_DEFAULT_PARTICIPANT, IMPROV_DEFAULT_IDENTITY")
			fmt.Fprintln(out, "  IMPROV_SERVER_HOST, IMPROV_SERVER_PORT, IMPROV_CORS_ORIGINS")
			fmt.Fprintln(out, "  IMPROV_OTEL_ENDPOINT, IMPROV_ENVIRONMENT, IMPROV_TRACE_STDOUT, IMPROV_LOG_LEVEL, IMPROV_LOG_FORMAT")

			return nil
		},
	}
}

// versionCmd shows version information
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// version needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Improv %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Build Date: %s\n", buildDate)
		},
	}
}
