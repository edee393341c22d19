package response

import (
	"time"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Player represents a player in API responses
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p model.Player) Player {
	return Player{
		ID:   string(p.ID),
		Name: p.Name,
	}
}

// Room represents a room in API responses and push events
type Room struct {
	GameID             string     `json:"game_id"`
	State              string     `json:"state"`
	Players            []Player   `json:"players"`
	Words              []string   `json:"words"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	CurrentPlayerID    *string    `json:"current_player_id"`
	IsStarted          bool       `json:"is_started"`
	IsGameOver         bool       `json:"is_game_over"`
	HostID             string     `json:"host_id"`
	LoserID            *string    `json:"loser_id"`
	TurnStartedAt      *time.Time `json:"turn_started_at"`
	TurnDeadline       *time.Time `json:"turn_deadline"`
	TurnDurationMs     int64      `json:"turn_duration_ms"`
	Version            int64      `json:"version"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RoomFromModel converts a model.Room. turnDuration is used to compute the deadline.
func RoomFromModel(r *model.Room, turnDuration time.Duration) Room {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = PlayerFromModel(p)
	}

	words := r.Words
	if words == nil {
		words = []string{}
	}

	resp := Room{
		GameID:             string(r.GameID),
		State:              string(r.State()),
		Players:            players,
		Words:              words,
		CurrentPlayerIndex: r.CurrentPlayerIndex,
		IsStarted:          r.IsStarted,
		IsGameOver:         r.IsGameOver,
		HostID:             string(r.HostID),
		TurnStartedAt:      r.TurnStartedAt,
		TurnDeadline:       r.TurnDeadline(turnDuration),
		TurnDurationMs:     turnDuration.Milliseconds(),
		Version:            r.Version,
		UpdatedAt:          r.UpdatedAt,
	}

	if r.State() == model.RoomStatePlaying {
		if current := r.CurrentPlayer(); current != nil {
			id := string(current.ID)
			resp.CurrentPlayerID = &id
		}
	}
	if loser := r.Loser(); loser != nil {
		id := string(loser.ID)
		resp.LoserID = &id
	}

	return resp
}

// ActionResponse is the response to a room action
type ActionResponse struct {
	Room
	PlayerID string `json:"player_id,omitempty"`
}

// DeletedResponse is returned when the last player leaves
type DeletedResponse struct {
	GameID  string `json:"game_id"`
	Deleted bool   `json:"deleted"`
}

// RoomSummary represents a room listing entry
type RoomSummary struct {
	GameID      string    `json:"game_id"`
	State       string    `json:"state"`
	PlayerCount int       `json:"player_count"`
	HostName    string    `json:"host_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoomSummaryFromModel converts model.RoomSummary
func RoomSummaryFromModel(s model.RoomSummary) RoomSummary {
	return RoomSummary{
		GameID:      string(s.GameID),
		State:       string(s.State),
		PlayerCount: s.PlayerCount,
		HostName:    s.HostName,
		UpdatedAt:   s.UpdatedAt,
	}
}

// RoomList is the response for listing rooms
type RoomList struct {
	Games []RoomSummary `json:"games"`
}

// Round represents a finished round
type Round struct {
	ID               string    `json:"id"`
	GameID           string    `json:"game_id"`
	Words            []string  `json:"words"`
	LosingPlayerID   string    `json:"losing_player_id"`
	LosingPlayerName string    `json:"losing_player_name"`
	Reason           string    `json:"reason"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at"`
}

// RoundFromModel converts model.RoundRecord
func RoundFromModel(r *model.RoundRecord) Round {
	words := r.Words
	if words == nil {
		words = []string{}
	}
	return Round{
		ID:               r.ID,
		GameID:           string(r.GameID),
		Words:            words,
		LosingPlayerID:   string(r.LosingPlayerID),
		LosingPlayerName: r.LosingPlayerName,
		Reason:           string(r.Reason),
		StartedAt:        r.StartedAt,
		EndedAt:          r.EndedAt,
	}
}

// RoundList is the response for a game's round history
type RoundList struct {
	GameID string  `json:"game_id"`
	Rounds []Round `json:"rounds"`
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
