package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Grant is the permission set attached to a token. Issuers only ever
// produce the maximal set; read-only and moderator roles do not exist.
type Grant struct {
	Room         string `json:"room"`
	RoomJoin     bool   `json:"roomJoin"`
	CanPublish   bool   `json:"canPublish"`
	CanSubscribe bool   `json:"canSubscribe"`
}

// FullGrant returns join, publish and subscribe on room.
func FullGrant(room string) Grant {
	return Grant{
		Room:         room,
		RoomJoin:     true,
		CanPublish:   true,
		CanSubscribe: true,
	}
}

func (g Grant) IsFull() bool {
	return g.RoomJoin && g.CanPublish && g.CanSubscribe
}

// ParticipantMetadata rides inside the token so the agent can read the
// display name without a lookup. The single recognized key is playerName;
// new fields must be added under a version or namespace key.
type ParticipantMetadata struct {
	PlayerName string `json:"playerName"`
}

// Encode returns the JSON string embedded in the token, e.g. {"playerName":"Alex"}.
func (m ParticipantMetadata) Encode() (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Names are shown to the agent as typed; keep <, > and & literal.
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", fmt.Errorf("failed to encode participant metadata: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func DecodeParticipantMetadata(raw string) (*ParticipantMetadata, error) {
	var m ParticipantMetadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("failed to decode participant metadata: %w", err)
	}
	return &m, nil
}
