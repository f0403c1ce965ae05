package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/longregen/improv/internal/domain/models"
)

// Config holds all configuration for the credential service
type Config struct {
	LiveKit   LiveKitConfig   `json:"livekit"`
	Rooms     RoomsConfig     `json:"rooms"`
	Server    ServerConfig    `json:"server"`
	Telemetry TelemetryConfig `json:"telemetry"`
}

// LiveKitConfig holds LiveKit server configuration
type LiveKitConfig struct {
	URL             string `json:"url"`               // WebSocket URL returned to clients (e.g., wss://example.livekit.cloud)
	APIKey          string `json:"api_key"`           // LiveKit API key
	APISecret       string `json:"api_secret"`        // LiveKit API secret
	TokenTTLSeconds int    `json:"token_ttl_seconds"` // Validity of issued tokens
}

// RoomsConfig controls room naming and participant defaults
type RoomsConfig struct {
	Prefix             string `json:"prefix"`              // Dynamic room prefix, e.g. "improv-"
	FixedRoom          string `json:"fixed_room"`          // Shared room for the fixed issuer
	SuffixLength       int    `json:"suffix_length"`       // Random suffix after the timestamp, 0 disables it
	DefaultParticipant string `json:"default_participant"` // Name used when player_name is empty
	DefaultIdentity    string `json:"default_identity"`    // Identity used when ?identity is absent
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
}

// TelemetryConfig holds logging and tracing configuration
type TelemetryConfig struct {
	OTLPEndpoint string `json:"otlp_endpoint"`
	Environment  string `json:"environment"`
	TraceStdout  bool   `json:"trace_stdout"`
	LogLevel     string `json:"log_level"`  // debug, info, warn, error
	LogFormat    string `json:"log_format"` // pretty or json
}

const maxSuffixLength = 21

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LiveKit: LiveKitConfig{
			URL:             "",
			APIKey:          "",
			APISecret:       "",
			TokenTTLSeconds: int((6 * time.Hour).Seconds()),
		},
		Rooms: RoomsConfig{
			Prefix:             models.DefaultRoomPrefix,
			FixedRoom:          models.DefaultFixedRoomName,
			SuffixLength:       6,
			DefaultParticipant: models.DefaultParticipantName,
			DefaultIdentity:    models.DefaultIdentity,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			CORSOrigins: []string{"http://localhost:3000"}, // Default development origin
		},
		Telemetry: TelemetryConfig{
			Environment: "development",
			LogLevel:    "info",
			LogFormat:   "pretty",
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envStringWithFallback tries primary first, then the un-prefixed fallback name
func envStringWithFallback(primary, fallback string, target *string) {
	for _, key := range []string{primary, fallback} {
		if v := os.Getenv(key); v != "" {
			*target = v
			return
		}
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

func envBool(key string, target *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	// LiveKit; the un-prefixed names are what LiveKit tooling exports
	envStringWithFallback("IMPROV_LIVEKIT_URL", "LIVEKIT_URL", &cfg.LiveKit.URL)
	envStringWithFallback("IMPROV_LIVEKIT_API_KEY", "LIVEKIT_API_KEY", &cfg.LiveKit.APIKey)
	envStringWithFallback("IMPROV_LIVEKIT_API_SECRET", "LIVEKIT_API_SECRET", &cfg.LiveKit.APISecret)
	envInt("IMPROV_TOKEN_TTL_SECONDS", &cfg.LiveKit.TokenTTLSeconds)

	envString("IMPROV_ROOM_PREFIX", &cfg.Rooms.Prefix)
	envString("IMPROV_FIXED_ROOM", &cfg.Rooms.FixedRoom)
	envInt("IMPROV_ROOM_SUFFIX_LENGTH", &cfg.Rooms.SuffixLength)
	envString("IMPROV_DEFAULT_PARTICIPANT", &cfg.Rooms.DefaultParticipant)
	envString("IMPROV_DEFAULT_IDENTITY", &cfg.Rooms.DefaultIdentity)

	envString("IMPROV_SERVER_HOST", &cfg.Server.Host)
	envInt("IMPROV_SERVER_PORT", &cfg.Server.Port)
	envStringSlice("IMPROV_CORS_ORIGINS", &cfg.Server.CORSOrigins)

	envString("IMPROV_OTEL_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	envString("IMPROV_ENVIRONMENT", &cfg.Telemetry.Environment)
	envBool("IMPROV_TRACE_STDOUT", &cfg.Telemetry.TraceStdout)
	envString("IMPROV_LOG_LEVEL", &cfg.Telemetry.LogLevel)
	envString("IMPROV_LOG_FORMAT", &cfg.Telemetry.LogFormat)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsLiveKitConfigured returns true if all three LiveKit values are present
func (c *Config) IsLiveKitConfigured() bool {
	return len(c.LiveKit.Missing()) == 0
}

// Missing names the absent LiveKit values. Used in log lines only.
func (l LiveKitConfig) Missing() []string {
	var missing []string
	if l.URL == "" {
		missing = append(missing, "url")
	}
	if l.APIKey == "" {
		missing = append(missing, "api_key")
	}
	if l.APISecret == "" {
		missing = append(missing, "api_secret")
	}
	return missing
}

// TokenTTL returns the token validity as a duration
func (l LiveKitConfig) TokenTTL() time.Duration {
	return time.Duration(l.TokenTTLSeconds) * time.Second
}

// SlogLevel maps the configured level name onto slog
func (t TelemetryConfig) SlogLevel() slog.Level {
	switch strings.ToLower(t.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func isLiveKitScheme(urlStr string) bool {
	u, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "ws", "wss", "http", "https":
		return true
	}
	return false
}

// Validate checks that the configuration has valid values. Missing LiveKit
// credentials are not an error here: the server starts and the issuance
// endpoints answer with a generic failure until they are provided.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}

	// LiveKit validation (if set)
	if c.LiveKit.URL != "" {
		if !isValidURL(c.LiveKit.URL) || !isLiveKitScheme(c.LiveKit.URL) {
			errs = append(errs, "LiveKit URL must be a valid ws, wss, http or https URL")
		}
	}
	if c.LiveKit.TokenTTLSeconds < 1 {
		errs = append(errs, "LiveKit token TTL must be positive")
	}

	// Room validation
	if c.Rooms.Prefix == "" {
		errs = append(errs, "room prefix is required")
	}
	if c.Rooms.FixedRoom == "" {
		errs = append(errs, "fixed room name is required")
	}
	if c.Rooms.SuffixLength < 0 || c.Rooms.SuffixLength > maxSuffixLength {
		errs = append(errs, fmt.Sprintf("room suffix length must be between 0 and %d", maxSuffixLength))
	}
	if c.Rooms.DefaultParticipant == "" {
		errs = append(errs, "default participant name is required")
	}
	if c.Rooms.DefaultIdentity == "" {
		errs = append(errs, "default identity is required")
	}

	// Telemetry validation (optional but validate if set)
	if c.Telemetry.OTLPEndpoint != "" && !isValidURL(c.Telemetry.OTLPEndpoint) {
		errs = append(errs, "OTLP endpoint must be a valid URL")
	}
	if c.Telemetry.LogFormat != "pretty" && c.Telemetry.LogFormat != "json" {
		errs = append(errs, "log format must be 'pretty' or 'json'")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("IMPROV_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	// Check ~/.config/improv/config.json first
	configPath := filepath.Join(homeDir, ".config", "improv", "config.json")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	// Check ~/.improv/config.json
	altPath := filepath.Join(homeDir, ".improv", "config.json")
	if _, err := os.Stat(altPath); err == nil {
		return altPath
	}

	return configPath
}
