package livekit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/livekit/protocol/auth"
	lkproto "github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/longregen/improv/internal/adapters/circuitbreaker"
	"github.com/longregen/improv/internal/domain"
	"github.com/longregen/improv/internal/domain/models"
)

type ServiceConfig struct {
	URL                   string
	APIKey                string
	APISecret             string
	TokenValidityDuration time.Duration
}

// Service signs access tokens locally with the API key pair. Only Ping
// talks to the LiveKit server.
type Service struct {
	config  *ServiceConfig
	breaker *circuitbreaker.CircuitBreaker
	// listRooms is the single server round trip; replaced in tests
	listRooms func(ctx context.Context) error
}

func NewService(config *ServiceConfig) (*Service, error) {
	if config == nil {
		return nil, domain.NewDomainError(domain.ErrMisconfigured, "LiveKit service config required")
	}

	var missing []string
	if config.URL == "" {
		missing = append(missing, "URL")
	}
	if config.APIKey == "" {
		missing = append(missing, "API key")
	}
	if config.APISecret == "" {
		missing = append(missing, "API secret")
	}
	if len(missing) > 0 {
		return nil, domain.NewDomainError(domain.ErrMisconfigured, "LiveKit "+strings.Join(missing, ", ")+" required")
	}

	if config.TokenValidityDuration == 0 {
		config.TokenValidityDuration = 6 * time.Hour
	}

	roomClient := lksdk.NewRoomServiceClient(config.URL, config.APIKey, config.APISecret)

	return &Service{
		config:  config,
		breaker: circuitbreaker.New(3, 30*time.Second),
		listRooms: func(ctx context.Context) error {
			_, err := roomClient.ListRooms(ctx, &lkproto.ListRoomsRequest{})
			return err
		},
	}, nil
}

// URL is the transport endpoint handed to clients.
func (s *Service) URL() string {
	return s.config.URL
}

func (s *Service) SignToken(ctx context.Context, spec models.TokenSpec) (string, error) {
	if spec.Grant.Room == "" {
		return "", domain.NewDomainError(domain.ErrSigningFailure, "room name is required")
	}

	if spec.Identity == "" {
		return "", domain.NewDomainError(domain.ErrSigningFailure, "participant identity is required")
	}

	canPublish := spec.Grant.CanPublish
	canSubscribe := spec.Grant.CanSubscribe
	grant := &auth.VideoGrant{
		RoomJoin:     spec.Grant.RoomJoin,
		Room:         spec.Grant.Room,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}

	at := auth.NewAccessToken(s.config.APIKey, s.config.APISecret)
	at.SetVideoGrant(grant).
		SetIdentity(spec.Identity).
		SetValidFor(s.config.TokenValidityDuration)

	if spec.Name != "" {
		at.SetName(spec.Name)
	}
	if spec.Metadata != "" {
		at.SetMetadata(spec.Metadata)
	}

	token, err := at.ToJWT()
	if err != nil {
		return "", domain.NewDomainError(domain.ErrSigningFailure, fmt.Sprintf("failed to generate token: %v", err))
	}

	return token, nil
}

// VerifyToken checks the signature against the configured secret and
// returns the decoded principal and grant.
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.TokenClaims, error) {
	verifier, err := auth.ParseAPIToken(token)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrInvalidToken, fmt.Sprintf("failed to parse token: %v", err))
	}

	if verifier.APIKey() != s.config.APIKey {
		return nil, domain.NewDomainError(domain.ErrInvalidToken, "token issued for a different API key")
	}

	claims, grants, err := verifier.Verify(s.config.APISecret)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrInvalidToken, fmt.Sprintf("failed to verify token: %v", err))
	}

	result := &models.TokenClaims{
		APIKey:   verifier.APIKey(),
		Identity: grants.Identity,
		Name:     grants.Name,
		Metadata: grants.Metadata,
	}
	if grants.Video != nil {
		result.Grant = models.Grant{
			Room:         grants.Video.Room,
			RoomJoin:     grants.Video.RoomJoin,
			CanPublish:   boolValue(grants.Video.CanPublish),
			CanSubscribe: boolValue(grants.Video.CanSubscribe),
		}
	}
	if claims != nil && claims.Expiry != nil {
		result.ExpiresAt = claims.Expiry.Time()
	}

	return result, nil
}

// Ping lists rooms to confirm the API key pair is accepted by the server.
// After repeated failures it answers circuitbreaker.ErrCircuitOpen without
// calling LiveKit until the cool-down passes.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.breaker.Execute(ctx, s.listRooms); err != nil {
		return fmt.Errorf("failed to list rooms: %w", err)
	}
	return nil
}

// LiveKit treats an unset permission pointer as allowed.
func boolValue(p *bool) bool {
	if p == nil {
		return true
	}
	return *p
}
