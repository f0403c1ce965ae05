package ports

import (
	"context"
	"time"

	"github.com/longregen/improv/internal/domain/models"
)

// TokenSigner signs and verifies LiveKit access tokens
type TokenSigner interface {
	SignToken(ctx context.Context, spec models.TokenSpec) (string, error)
	VerifyToken(ctx context.Context, token string) (*models.TokenClaims, error)
}

// RoomNamer mints room names for the dynamic-room issuer
type RoomNamer interface {
	DynamicRoomName(now time.Time) string
}

// CredentialIssuer issues credentials for both the dynamic and fixed rooms.
// Implementations are stateless and safe for concurrent use.
type CredentialIssuer interface {
	IssueConnectionDetails(ctx context.Context, req *models.IssuanceRequest) (*models.ConnectionDescriptor, error)
	IssueFixedRoomToken(ctx context.Context, req *models.FixedIssuanceRequest) (*models.FixedRoomToken, error)
}

// RoomProbe reports whether the LiveKit server answers API calls
type RoomProbe interface {
	Ping(ctx context.Context) error
}
