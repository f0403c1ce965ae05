package services

import (
	"context"
	"strings"
	"time"

	"github.com/longregen/improv/internal/adapters/metrics"
	"github.com/longregen/improv/internal/adapters/tracing"
	"github.com/longregen/improv/internal/domain"
	"github.com/longregen/improv/internal/domain/models"
	"github.com/longregen/improv/internal/ports"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = tracing.Tracer("improv/services/credentials")

type CredentialConfig struct {
	// ServerURL is the LiveKit endpoint returned to browsers verbatim.
	ServerURL              string
	DefaultParticipantName string
	DefaultIdentity        string
	FixedRoomName          string
}

// CredentialService implements both issuers. It holds no per-request state.
type CredentialService struct {
	config CredentialConfig
	signer ports.TokenSigner
	namer  ports.RoomNamer
	now    func() time.Time
}

// NewCredentialService fails with domain.ErrMisconfigured when a required
// collaborator or setting is absent, so that a broken deployment is caught
// at startup rather than on the first request.
func NewCredentialService(config CredentialConfig, signer ports.TokenSigner, namer ports.RoomNamer) (*CredentialService, error) {
	if config.DefaultParticipantName == "" {
		config.DefaultParticipantName = models.DefaultParticipantName
	}
	if config.DefaultIdentity == "" {
		config.DefaultIdentity = models.DefaultIdentity
	}
	if config.FixedRoomName == "" {
		config.FixedRoomName = models.DefaultFixedRoomName
	}

	s := &CredentialService{
		config: config,
		signer: signer,
		namer:  namer,
		now:    time.Now,
	}
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CredentialService) checkConfigured() error {
	var missing []string
	if s.config.ServerURL == "" {
		missing = append(missing, "server URL")
	}
	if s.signer == nil {
		missing = append(missing, "token signer")
	}
	if s.namer == nil {
		missing = append(missing, "room namer")
	}
	if len(missing) > 0 {
		return domain.NewDomainError(domain.ErrMisconfigured, strings.Join(missing, ", ")+" not configured")
	}
	return nil
}

// IssueConnectionDetails mints a fresh room and a token to join it.
func (s *CredentialService) IssueConnectionDetails(ctx context.Context, req *models.IssuanceRequest) (*models.ConnectionDescriptor, error) {
	ctx, span := tracer.Start(ctx, "credentials.IssueConnectionDetails")
	defer span.End()

	if err := s.checkConfigured(); err != nil {
		return nil, s.fail(span, metrics.IssuerDynamic, err)
	}
	if req == nil {
		req = &models.IssuanceRequest{}
	}

	name := models.ResolveParticipantName(req.ParticipantName, s.config.DefaultParticipantName)
	room := s.namer.DynamicRoomName(s.now())

	metadata, err := models.ParticipantMetadata{PlayerName: name}.Encode()
	if err != nil {
		return nil, s.fail(span, metrics.IssuerDynamic, domain.NewDomainError(domain.ErrSigningFailure, err.Error()))
	}

	// The display name doubles as identity; two players with the same name
	// never share a room because every call gets its own.
	token, err := s.sign(ctx, metrics.IssuerDynamic, models.TokenSpec{
		Identity: name,
		Name:     name,
		Metadata: metadata,
		Grant:    models.FullGrant(room),
	})
	if err != nil {
		return nil, s.fail(span, metrics.IssuerDynamic, err)
	}

	span.SetAttributes(
		attribute.String("livekit.room", room),
		attribute.String("livekit.participant", name),
	)
	metrics.TokensIssuedTotal.WithLabelValues(metrics.IssuerDynamic).Inc()

	return &models.ConnectionDescriptor{
		ServerURL:        s.config.ServerURL,
		ParticipantToken: token,
		ParticipantName:  name,
		RoomName:         room,
	}, nil
}

// IssueFixedRoomToken grants identity access to the shared battle room.
func (s *CredentialService) IssueFixedRoomToken(ctx context.Context, req *models.FixedIssuanceRequest) (*models.FixedRoomToken, error) {
	ctx, span := tracer.Start(ctx, "credentials.IssueFixedRoomToken")
	defer span.End()

	if err := s.checkConfigured(); err != nil {
		return nil, s.fail(span, metrics.IssuerFixed, err)
	}
	if req == nil {
		req = &models.FixedIssuanceRequest{}
	}

	identity := models.ResolveIdentity(req.Identity, s.config.DefaultIdentity)
	room := s.config.FixedRoomName

	token, err := s.sign(ctx, metrics.IssuerFixed, models.TokenSpec{
		Identity: identity,
		Grant:    models.FullGrant(room),
	})
	if err != nil {
		return nil, s.fail(span, metrics.IssuerFixed, err)
	}

	span.SetAttributes(
		attribute.String("livekit.room", room),
		attribute.String("livekit.identity", identity),
	)
	metrics.TokensIssuedTotal.WithLabelValues(metrics.IssuerFixed).Inc()

	return &models.FixedRoomToken{
		Token:    token,
		Identity: identity,
		RoomName: room,
	}, nil
}

func (s *CredentialService) sign(ctx context.Context, issuer string, spec models.TokenSpec) (string, error) {
	start := time.Now()
	token, err := s.signer.SignToken(ctx, spec)
	metrics.TokenSigningDuration.WithLabelValues(issuer).Observe(time.Since(start).Seconds())
	if err != nil {
		if domain.Kind(err) == "internal" {
			err = domain.NewDomainError(domain.ErrSigningFailure, err.Error())
		}
		return "", err
	}
	if token == "" {
		return "", domain.NewDomainError(domain.ErrSigningFailure, "signer returned an empty token")
	}
	return token, nil
}

func (s *CredentialService) fail(span trace.Span, issuer string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.IssuanceFailuresTotal.WithLabelValues(issuer, domain.Kind(err)).Inc()
	return err
}
