package request

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/room"
)

// MaxRoundsLimit caps the number of rounds returned in one response
const MaxRoundsLimit = 100

// ActionPayload is the payload of an action request
type ActionPayload struct {
	Name     string `json:"name,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Word     string `json:"word,omitempty"`
}

// ActionRequest is the request body for POST /api/v1/games/{gameId}
type ActionRequest struct {
	Action  string        `json:"action"`
	Payload ActionPayload `json:"payload"`
}

// ToRoomAction converts the request into a room action
func (r ActionRequest) ToRoomAction() room.ActionRequest {
	return room.ActionRequest{
		Action: room.Action(r.Action),
		Payload: room.ActionPayload{
			Name:     r.Payload.Name,
			PlayerID: model.PlayerID(r.Payload.PlayerID),
			Word:     r.Payload.Word,
		},
	}
}

// ParseRoundsLimit reads the optional "limit" query parameter.
// Missing means MaxRoundsLimit; values above it are clamped.
func ParseRoundsLimit(query url.Values) (int, error) {
	raw := query.Get("limit")
	if raw == "" {
		return MaxRoundsLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", model.ErrInvalidRequest)
	}
	return min(limit, MaxRoundsLimit), nil
}
