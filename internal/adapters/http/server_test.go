package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/longregen/improv/internal/adapters/id"
	"github.com/longregen/improv/internal/adapters/livekit"
	"github.com/longregen/improv/internal/application/services"
	"github.com/longregen/improv/internal/config"
	"github.com/longregen/improv/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testURL    = "wss://improv.livekit.cloud"
	testKey    = "APIimprovtest"
	testSecret = "improv-test-secret-that-is-long-enough-for-hs256"
)

type okProbe struct{}

func (okProbe) Ping(ctx context.Context) error { return nil }

func newTestServer(t *testing.T, configured bool) (*Server, *livekit.Service) {
	t.Helper()

	cfg := config.DefaultConfig()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	if !configured {
		return NewServer(cfg, logger, "test", nil, nil), nil
	}

	lk, err := livekit.NewService(&livekit.ServiceConfig{URL: testURL, APIKey: testKey, APISecret: testSecret})
	require.NoError(t, err)

	issuer, err := services.NewCredentialService(
		services.CredentialConfig{ServerURL: lk.URL()},
		lk,
		id.New(models.DefaultRoomPrefix, cfg.Rooms.SuffixLength),
	)
	require.NoError(t, err)

	return NewServer(cfg, logger, "test", issuer, okProbe{}), lk
}

func TestServer_ConnectionDetailsEndToEnd(t *testing.T) {
	srv, lk := newTestServer(t, true)

	for _, path := range []string{"/connection-details", "/api/connection-details"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("POST", path, strings.NewReader(`{"player_name":"Alex"}`))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			srv.Router().ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			var body struct {
				ServerURL        string `json:"serverUrl"`
				ParticipantToken string `json:"participantToken"`
				ParticipantName  string `json:"participantName"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, testURL, body.ServerURL)
			assert.Equal(t, "Alex", body.ParticipantName)

			claims, err := lk.VerifyToken(context.Background(), body.ParticipantToken)
			require.NoError(t, err)
			assert.Equal(t, "Alex", claims.Identity)
			assert.Regexp(t, `^improv-\d+-[0-9a-z]{6}$`, claims.Grant.Room)
			assert.True(t, claims.Grant.IsFull())
			assert.JSONEq(t, `{"playerName":"Alex"}`, claims.Metadata)
			assert.WithinDuration(t, time.Now().Add(6*time.Hour), claims.ExpiresAt, time.Minute)
		})
	}
}

func TestServer_TokenEndToEnd(t *testing.T) {
	srv, lk := newTestServer(t, true)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/token?identity=bob", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))

	claims, err := lk.VerifyToken(context.Background(), body["token"])
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Identity)
	assert.Equal(t, "improv-battle", claims.Grant.Room)
}

func TestServer_Unconfigured(t *testing.T) {
	srv, _ := newTestServer(t, false)

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{"POST", "/connection-details", `{"error":"Failed to create connection details"}`},
		{"GET", "/token", `{"error":"Failed to create token"}`},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, tt.body, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/health/detailed", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/connection-details", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	srv, _ := newTestServer(t, true)

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/token", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `improv_tokens_issued_total{issuer="fixed"}`)
	assert.Contains(t, rr.Body.String(), `improv_http_requests_total`)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, true)

	req := httptest.NewRequest("OPTIONS", "/connection-details", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()

	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_StopBeforeStart(t *testing.T) {
	srv := NewServer(config.DefaultConfig(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), "test", nil, nil)
	assert.NoError(t, srv.Stop(context.Background()))
}
