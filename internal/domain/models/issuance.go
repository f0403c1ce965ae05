package models

import (
	"encoding/json"
	"time"
)

const (
	DefaultParticipantName = "Player"
	DefaultIdentity        = "guest"
	DefaultRoomPrefix      = "improv-"
	DefaultFixedRoomName   = "improv-battle"
)

// IssuanceRequest is the input of the dynamic-room issuer.
type IssuanceRequest struct {
	ParticipantName string
	// RoomConfig is accepted from callers but not consumed by issuance.
	RoomConfig json.RawMessage
}

// FixedIssuanceRequest is the input of the fixed-room issuer.
type FixedIssuanceRequest struct {
	Identity string
}

// ConnectionDescriptor is everything a browser needs to join a dynamic room.
type ConnectionDescriptor struct {
	ServerURL        string `json:"serverUrl" msgpack:"serverUrl"`
	ParticipantToken string `json:"participantToken" msgpack:"participantToken"`
	ParticipantName  string `json:"participantName" msgpack:"participantName"`

	// RoomName is kept server-side for logs and metrics; it travels to the
	// client only inside the signed token.
	RoomName string `json:"-" msgpack:"-"`
}

// FixedRoomToken is the result of the fixed-room issuer.
type FixedRoomToken struct {
	Token string `json:"token" msgpack:"token"`

	Identity string `json:"-" msgpack:"-"`
	RoomName string `json:"-" msgpack:"-"`
}

// TokenSpec is the principal and grant handed to the signer.
type TokenSpec struct {
	Identity string
	Name     string
	Metadata string
	Grant    Grant
}

// TokenClaims is the decoded view of a signed access token.
type TokenClaims struct {
	APIKey    string    `json:"api_key"`
	Identity  string    `json:"identity"`
	Name      string    `json:"name,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	Grant     Grant     `json:"grant"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// ResolveParticipantName returns name verbatim when non-empty, fallback otherwise.
func ResolveParticipantName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// ResolveIdentity returns identity verbatim when non-empty, fallback otherwise.
func ResolveIdentity(identity, fallback string) string {
	if identity != "" {
		return identity
	}
	return fallback
}
