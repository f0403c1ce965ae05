package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Room defaults
	if cfg.Rooms.Prefix != "improv-" {
		t.Errorf("expected room prefix 'improv-', got %q", cfg.Rooms.Prefix)
	}
	if cfg.Rooms.FixedRoom != "improv-battle" {
		t.Errorf("expected fixed room 'improv-battle', got %q", cfg.Rooms.FixedRoom)
	}
	if cfg.Rooms.DefaultParticipant != "Player" {
		t.Errorf("expected default participant 'Player', got %q", cfg.Rooms.DefaultParticipant)
	}
	if cfg.Rooms.DefaultIdentity != "guest" {
		t.Errorf("expected default identity 'guest', got %q", cfg.Rooms.DefaultIdentity)
	}

	// LiveKit defaults
	if cfg.LiveKit.TokenTTL() != 6*time.Hour {
		t.Errorf("expected 6h token TTL, got %v", cfg.LiveKit.TokenTTL())
	}
	if cfg.IsLiveKitConfigured() {
		t.Error("LiveKit should not be configured by default")
	}

	// Server defaults
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		t.Error("Server Port should be valid")
	}
	if cfg.Server.Host == "" {
		t.Error("Server Host should not be empty")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestEnvString(t *testing.T) {
	target := "original"

	t.Run("sets value when env var exists", func(t *testing.T) {
		t.Setenv("TEST_VAR", "new_value")
		envString("TEST_VAR", &target)
		if target != "new_value" {
			t.Errorf("expected 'new_value', got '%s'", target)
		}
	})

	t.Run("does not change value when env var is empty", func(t *testing.T) {
		t.Setenv("TEST_VAR", "")
		target = "original"
		envString("TEST_VAR", &target)
		if target != "original" {
			t.Errorf("expected 'original', got '%s'", target)
		}
	})
}

func TestEnvStringWithFallback(t *testing.T) {
	t.Run("primary wins", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "primary")
		t.Setenv("TEST_FALLBACK", "fallback")
		target := "original"
		envStringWithFallback("TEST_PRIMARY", "TEST_FALLBACK", &target)
		if target != "primary" {
			t.Errorf("expected 'primary', got '%s'", target)
		}
	})

	t.Run("fallback used when primary unset", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "fallback")
		target := "original"
		envStringWithFallback("TEST_PRIMARY", "TEST_FALLBACK", &target)
		if target != "fallback" {
			t.Errorf("expected 'fallback', got '%s'", target)
		}
	})

	t.Run("unchanged when neither set", func(t *testing.T) {
		t.Setenv("TEST_PRIMARY", "")
		t.Setenv("TEST_FALLBACK", "")
		target := "original"
		envStringWithFallback("TEST_PRIMARY", "TEST_FALLBACK", &target)
		if target != "original" {
			t.Errorf("expected 'original', got '%s'", target)
		}
	})
}

func TestEnvInt(t *testing.T) {
	target := 10

	t.Run("sets valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		envInt("TEST_INT", &target)
		if target != 42 {
			t.Errorf("expected 42, got %d", target)
		}
	})

	t.Run("ignores invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "not_a_number")
		target = 10
		envInt("TEST_INT", &target)
		if target != 10 {
			t.Errorf("expected 10, got %d", target)
		}
	})
}

func TestEnvBool(t *testing.T) {
	target := false
	t.Setenv("TEST_BOOL", "true")
	envBool("TEST_BOOL", &target)
	if !target {
		t.Error("expected true")
	}

	t.Setenv("TEST_BOOL", "maybe")
	envBool("TEST_BOOL", &target)
	if !target {
		t.Error("invalid bool should leave target unchanged")
	}
}

func TestEnvStringSlice(t *testing.T) {
	target := []string{"original"}

	t.Run("parses comma-separated values", func(t *testing.T) {
		t.Setenv("TEST_SLICE", "a,b,c")
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 3 || target[0] != "a" || target[1] != "b" || target[2] != "c" {
			t.Errorf("expected [a b c], got %v", target)
		}
	})

	t.Run("filters empty values", func(t *testing.T) {
		t.Setenv("TEST_SLICE", " a,, b ,  ,c")
		target = []string{"original"}
		envStringSlice("TEST_SLICE", &target)
		if len(target) != 3 || target[0] != "a" || target[1] != "b" || target[2] != "c" {
			t.Errorf("expected [a b c], got %v", target)
		}
	})
}

func TestLoad_LiveKitFromEnv(t *testing.T) {
	t.Setenv("IMPROV_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("IMPROV_LIVEKIT_URL", "")
	t.Setenv("LIVEKIT_URL", "wss://lk.example.com")
	t.Setenv("LIVEKIT_API_KEY", "APIkey")
	t.Setenv("LIVEKIT_API_SECRET", "secret")
	t.Setenv("IMPROV_LIVEKIT_API_SECRET", "override-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LiveKit.URL != "wss://lk.example.com" {
		t.Errorf("expected LiveKit URL from fallback env, got %q", cfg.LiveKit.URL)
	}
	if cfg.LiveKit.APISecret != "override-secret" {
		t.Errorf("expected prefixed env to win, got %q", cfg.LiveKit.APISecret)
	}
	if !cfg.IsLiveKitConfigured() {
		t.Error("expected LiveKit to be configured")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"rooms": {"prefix": "battle-", "fixed_room": "main-stage", "suffix_length": 0}, "server": {"port": 9090}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("IMPROV_CONFIG", path)
	t.Setenv("IMPROV_SERVER_PORT", "9191")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Rooms.Prefix != "battle-" || cfg.Rooms.FixedRoom != "main-stage" {
		t.Errorf("expected rooms from file, got %+v", cfg.Rooms)
	}
	if cfg.Rooms.SuffixLength != 0 {
		t.Errorf("expected suffix length 0 from file, got %d", cfg.Rooms.SuffixLength)
	}
	if cfg.Server.Port != 9191 {
		t.Errorf("expected env to override file port, got %d", cfg.Server.Port)
	}
	if cfg.Rooms.DefaultParticipant != "Player" {
		t.Errorf("defaults should survive partial file, got %q", cfg.Rooms.DefaultParticipant)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("IMPROV_CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("IMPROV_SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestValidate_ServerPort(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 80", 80, false},
		{"valid port 8080", 8080, false},
		{"valid port 65535", 65535, false},
		{"invalid port 0", 0, true},
		{"invalid port -1", -1, true},
		{"invalid port 65536", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Server.Port = tt.port
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != nil && !strings.Contains(err.Error(), "server port") {
				t.Errorf("error should mention server port, got: %v", err)
			}
		})
	}
}

func TestValidate_LiveKit(t *testing.T) {
	t.Run("missing credentials do not fail validation", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LiveKit.URL = "wss://lk.example.com"
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if cfg.IsLiveKitConfigured() {
			t.Error("LiveKit should not report configured without key and secret")
		}
	})

	t.Run("validates URL format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LiveKit.URL = "invalid-url"
		err := cfg.Validate()
		if err == nil {
			t.Fatal("expected error for invalid LiveKit URL")
		}
		if !strings.Contains(err.Error(), "LiveKit URL") {
			t.Errorf("error should mention LiveKit URL, got: %v", err)
		}
	})

	t.Run("rejects non websocket scheme", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LiveKit.URL = "ftp://lk.example.com"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for ftp scheme")
		}
	})

	t.Run("validates token TTL", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LiveKit.TokenTTLSeconds = 0
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "TTL") {
			t.Errorf("expected TTL error, got %v", err)
		}
	})
}

func TestValidate_Rooms(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty prefix", func(c *Config) { c.Rooms.Prefix = "" }, "room prefix"},
		{"empty fixed room", func(c *Config) { c.Rooms.FixedRoom = "" }, "fixed room"},
		{"negative suffix", func(c *Config) { c.Rooms.SuffixLength = -1 }, "suffix length"},
		{"suffix too long", func(c *Config) { c.Rooms.SuffixLength = 22 }, "suffix length"},
		{"empty default participant", func(c *Config) { c.Rooms.DefaultParticipant = "" }, "default participant"},
		{"empty default identity", func(c *Config) { c.Rooms.DefaultIdentity = "" }, "default identity"},
		{"zero suffix allowed", func(c *Config) { c.Rooms.SuffixLength = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_Telemetry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Telemetry.OTLPEndpoint = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid OTLP endpoint")
	}

	cfg = DefaultConfig()
	cfg.Telemetry.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestLiveKitConfig_Missing(t *testing.T) {
	tests := []struct {
		name     string
		lk       LiveKitConfig
		expected []string
	}{
		{"all missing", LiveKitConfig{}, []string{"url", "api_key", "api_secret"}},
		{"only secret missing", LiveKitConfig{URL: "wss://x", APIKey: "k"}, []string{"api_secret"}},
		{"none missing", LiveKitConfig{URL: "wss://x", APIKey: "k", APISecret: "s"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.lk.Missing()
			if strings.Join(got, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("Missing() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTelemetryConfig_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for level, expected := range tests {
		if got := (TelemetryConfig{LogLevel: level}).SlogLevel(); got != expected {
			t.Errorf("SlogLevel(%q) = %v, want %v", level, got, expected)
		}
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"wss://example.livekit.cloud", true},
		{"http://localhost:7880", true},
		{"localhost:7880", false},
		{"", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		if got := isValidURL(tt.url); got != tt.valid {
			t.Errorf("isValidURL(%q) = %v, want %v", tt.url, got, tt.valid)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	t.Run("uses IMPROV_CONFIG env var when set", func(t *testing.T) {
		t.Setenv("IMPROV_CONFIG", "/custom/path/config.json")
		path := getConfigPath()
		if path != "/custom/path/config.json" {
			t.Errorf("expected custom path, got %s", path)
		}
	})

	t.Run("defaults under home directory", func(t *testing.T) {
		t.Setenv("IMPROV_CONFIG", "")
		path := getConfigPath()
		if !strings.HasPrefix(path, homeDir) {
			t.Errorf("expected path under %s, got %s", homeDir, path)
		}
	})
}
