package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/longregen/improv/internal/adapters/http/dto"
	"github.com/longregen/improv/internal/adapters/http/middleware"
	"github.com/longregen/improv/internal/domain"
	"github.com/longregen/improv/internal/domain/models"
	"github.com/longregen/improv/internal/ports"
)

const (
	connectionDetailsFailure = "Failed to create connection details"
	tokenFailure             = "Failed to create token"
)

// CredentialsHandler serves both issuance endpoints. A nil issuer means
// LiveKit is not configured; every call then fails as misconfigured.
type CredentialsHandler struct {
	issuer ports.CredentialIssuer
	logger *slog.Logger
}

func NewCredentialsHandler(issuer ports.CredentialIssuer, logger *slog.Logger) *CredentialsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CredentialsHandler{
		issuer: issuer,
		logger: logger,
	}
}

// ConnectionDetails handles POST /connection-details.
func (h *CredentialsHandler) ConnectionDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := decodeBody[dto.ConnectionDetailsRequest](w, r)
	if err != nil {
		h.fail(ctx, w, r, connectionDetailsFailure, err)
		return
	}

	if req.HasRoomConfig() {
		h.logger.DebugContext(ctx, "room_config supplied and ignored")
	}

	if h.issuer == nil {
		h.fail(ctx, w, r, connectionDetailsFailure, errNotConfigured)
		return
	}

	details, err := h.issuer.IssueConnectionDetails(ctx, req.ToModel())
	if err != nil {
		h.fail(ctx, w, r, connectionDetailsFailure, err)
		return
	}

	h.logger.InfoContext(ctx, "connection details issued",
		"room", details.RoomName,
		"participant", details.ParticipantName,
	)

	respond(w, r, details, http.StatusOK)
}

// Token handles GET /token?identity=.
func (h *CredentialsHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.issuer == nil {
		h.fail(ctx, w, r, tokenFailure, errNotConfigured)
		return
	}

	req := &models.FixedIssuanceRequest{Identity: r.URL.Query().Get("identity")}

	token, err := h.issuer.IssueFixedRoomToken(ctx, req)
	if err != nil {
		h.fail(ctx, w, r, tokenFailure, err)
		return
	}

	h.logger.InfoContext(ctx, "room token issued",
		"room", token.RoomName,
		"identity", token.Identity,
	)

	respond(w, r, &dto.TokenResponse{Token: token.Token}, http.StatusOK)
}

var errNotConfigured = domain.NewDomainError(domain.ErrMisconfigured, "LiveKit credentials not configured")

// fail logs the real cause and answers with the fixed message only.
func (h *CredentialsHandler) fail(ctx context.Context, w http.ResponseWriter, r *http.Request, message string, err error) {
	h.logger.ErrorContext(ctx, message,
		"error", err,
		"kind", domain.Kind(err),
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetRequestID(ctx),
	)
	respondError(w, r, message, http.StatusInternalServerError)
}
