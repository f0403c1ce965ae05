package dto

import (
	"encoding/json"

	"github.com/longregen/improv/internal/domain/models"
	"github.com/vmihailenco/msgpack/v5"
)

// ConnectionDetailsRequest is the body of POST /connection-details. Every
// field is optional.
type ConnectionDetailsRequest struct {
	PlayerName string `json:"player_name,omitempty" msgpack:"player_name,omitempty"`
	// ParticipantName is accepted for clients written against the stock
	// LiveKit sandbox, which sends camelCase.
	ParticipantName string `json:"participantName,omitempty" msgpack:"participantName,omitempty"`

	RoomConfig        json.RawMessage    `json:"room_config,omitempty" msgpack:"-"`
	RoomConfigMsgpack msgpack.RawMessage `json:"-" msgpack:"room_config,omitempty"`
}

func (r *ConnectionDetailsRequest) HasRoomConfig() bool {
	return (len(r.RoomConfig) > 0 && string(r.RoomConfig) != "null") || len(r.RoomConfigMsgpack) > 0
}

func (r *ConnectionDetailsRequest) ToModel() *models.IssuanceRequest {
	name := r.PlayerName
	if name == "" {
		name = r.ParticipantName
	}
	return &models.IssuanceRequest{
		ParticipantName: name,
		RoomConfig:      r.RoomConfig,
	}
}

// TokenResponse is the body of a successful GET /token.
type TokenResponse struct {
	Token string `json:"token" msgpack:"token"`
}
