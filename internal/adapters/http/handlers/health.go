package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/longregen/improv/internal/ports"
)

// HealthCheckConfig holds configuration for health checks
type HealthCheckConfig struct {
	Timeout time.Duration // Timeout for each individual health check
}

// DefaultHealthCheckConfig returns default health check configuration
func DefaultHealthCheckConfig() HealthCheckConfig {
	return HealthCheckConfig{
		Timeout: 5 * time.Second,
	}
}

type HealthHandler struct {
	config  HealthCheckConfig
	version string
	probe   ports.RoomProbe
	// issuerReady is false when LiveKit credentials are missing
	issuerReady bool
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		config:  DefaultHealthCheckConfig(),
		version: version,
	}
}

func NewHealthHandlerWithDeps(version string, probe ports.RoomProbe, issuerReady bool) *HealthHandler {
	return &HealthHandler{
		config:      DefaultHealthCheckConfig(),
		version:     version,
		probe:       probe,
		issuerReady: issuerReady,
	}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type DetailedHealthResponse struct {
	Status   string                   `json:"status"`
	Version  string                   `json:"version"`
	Services map[string]ServiceHealth `json:"services"`
}

type ServiceHealth struct {
	Status    string  `json:"status"`
	LatencyMs *int64  `json:"latency_ms,omitempty"`
	Error     *string `json:"error,omitempty"`
}

// Handle provides a basic liveness endpoint
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, HealthResponse{Status: "ok", Version: h.version}, http.StatusOK)
}

// HandleDetailed reports whether tokens can be issued and whether the
// LiveKit API answers. Issuance never calls LiveKit, so an unreachable
// server only degrades the status.
func (h *HealthHandler) HandleDetailed(w http.ResponseWriter, r *http.Request) {
	response := DetailedHealthResponse{
		Version:  h.version,
		Services: make(map[string]ServiceHealth),
	}

	if h.issuerReady {
		response.Services["issuer"] = ServiceHealth{Status: "healthy"}
	} else {
		msg := "LiveKit credentials not configured"
		response.Services["issuer"] = ServiceHealth{Status: "unhealthy", Error: &msg}
	}

	if h.probe != nil {
		response.Services["livekit"] = h.checkLiveKit(r.Context())
	}

	response.Status = calculateOverallStatus(response.Services)

	statusCode := http.StatusOK
	if response.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	respondJSON(w, response, statusCode)
}

func (h *HealthHandler) checkLiveKit(ctx context.Context) ServiceHealth {
	start := time.Now()
	checkCtx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	err := h.probe.Ping(checkCtx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		errMsg := err.Error()
		return ServiceHealth{
			Status:    "unhealthy",
			LatencyMs: &latency,
			Error:     &errMsg,
		}
	}

	return ServiceHealth{
		Status:    "healthy",
		LatencyMs: &latency,
	}
}

// calculateOverallStatus: the issuer is critical, everything else degrades
func calculateOverallStatus(services map[string]ServiceHealth) string {
	degraded := false
	for name, service := range services {
		if service.Status != "unhealthy" {
			continue
		}
		if name == "issuer" {
			return "unhealthy"
		}
		degraded = true
	}
	if degraded {
		return "degraded"
	}
	return "healthy"
}
