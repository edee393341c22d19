package model

import (
	"slices"
	"time"
)

// GameID is the external identifier of a room
type GameID string

// RoomState is the lifecycle phase of a room, derived from its flags
type RoomState string

const (
	RoomStateLobby     RoomState = "lobby"      // Not started yet
	RoomStatePlaying   RoomState = "playing"    // Accepting word submissions
	RoomStateRoundOver RoomState = "round_over" // Waiting for the host to start again
)

// Room is one game session. It is stored and loaded as a single document.
type Room struct {
	GameID             GameID
	Players            []Player // Insertion order is turn order
	Words              []string // Accepted words of the current round
	CurrentPlayerIndex int
	IsStarted          bool
	IsGameOver         bool
	HostID             PlayerID

	TurnStartedAt  *time.Time // nil when no timer is running
	RoundStartedAt *time.Time

	// Version is incremented by the store on every successful write
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the lifecycle phase from the room flags
func (r *Room) State() RoomState {
	switch {
	case !r.IsStarted:
		return RoomStateLobby
	case r.IsGameOver:
		return RoomStateRoundOver
	default:
		return RoomStatePlaying
	}
}

// GetPlayer returns the player with the given ID, or nil if not present
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// GetPlayerByName returns the player with the given name, or nil if not present
func (r *Room) GetPlayerByName(name string) *Player {
	for i := range r.Players {
		if r.Players[i].Name == name {
			return &r.Players[i]
		}
	}
	return nil
}

// IndexOf returns the turn position of a player, or -1
func (r *Room) IndexOf(id PlayerID) int {
	return slices.IndexFunc(r.Players, func(p Player) bool { return p.ID == id })
}

// CurrentPlayer returns the player whose turn it is, or nil when the room is empty
func (r *Room) CurrentPlayer() *Player {
	if r.CurrentPlayerIndex < 0 || r.CurrentPlayerIndex >= len(r.Players) {
		return nil
	}
	return &r.Players[r.CurrentPlayerIndex]
}

// Loser returns the player who held the turn when the round ended.
// It is nil unless the room is in the round-over state.
func (r *Room) Loser() *Player {
	if r.State() != RoomStateRoundOver {
		return nil
	}
	return r.CurrentPlayer()
}

// LastWord returns the most recently accepted word, or "" at the start of a round
func (r *Room) LastWord() string {
	if len(r.Words) == 0 {
		return ""
	}
	return r.Words[len(r.Words)-1]
}

// TurnDeadline returns when the current turn expires for the given turn duration
func (r *Room) TurnDeadline(turnDuration time.Duration) *time.Time {
	if r.TurnStartedAt == nil || r.State() != RoomStatePlaying {
		return nil
	}
	deadline := r.TurnStartedAt.Add(turnDuration)
	return &deadline
}

// Clone returns a deep copy so that a transition can be discarded on failure
func (r *Room) Clone() *Room {
	c := *r
	c.Players = slices.Clone(r.Players)
	c.Words = slices.Clone(r.Words)
	if r.TurnStartedAt != nil {
		t := *r.TurnStartedAt
		c.TurnStartedAt = &t
	}
	if r.RoundStartedAt != nil {
		t := *r.RoundStartedAt
		c.RoundStartedAt = &t
	}
	return &c
}

// RoomSummary is a lightweight listing entry for a room
type RoomSummary struct {
	GameID      GameID
	State       RoomState
	PlayerCount int
	HostName    string
	UpdatedAt   time.Time
}

// Summary builds the listing entry for the room
func (r *Room) Summary() RoomSummary {
	summary := RoomSummary{
		GameID:      r.GameID,
		State:       r.State(),
		PlayerCount: len(r.Players),
		UpdatedAt:   r.UpdatedAt,
	}
	if host := r.GetPlayer(r.HostID); host != nil {
		summary.HostName = host.Name
	}
	return summary
}
