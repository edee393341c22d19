package room

import (
	"strings"
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/wordrule"
)

const (
	// PlayerIDPrefix starts every generated player ID
	PlayerIDPrefix = "player_"
	// PlayerIDLength is the number of random characters after the prefix
	PlayerIDLength = 9
	// PlayerIDAlphabet is base36
	PlayerIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Rules are the tunable limits of a room
type Rules struct {
	MaxPlayers   int
	TurnDuration time.Duration
}

// DefaultRules returns the standard room limits
func DefaultRules() Rules {
	return Rules{
		MaxPlayers:   10,
		TurnDuration: 10 * time.Second,
	}
}

// transition describes what an operation did to a room
type transition struct {
	changed    bool // The room must be persisted
	deleted    bool // The last player left
	playerID   model.PlayerID
	roundEnded model.RoundEndReason
}

// Machine applies the room state transitions. It never performs I/O and
// mutates the room it is given, so callers pass a copy.
type Machine struct {
	rules     Rules
	validator *wordrule.Validator
	random    random.Random
}

// NewMachine creates a state machine
func NewMachine(rules Rules, validator *wordrule.Validator, random random.Random) *Machine {
	return &Machine{
		rules:     rules,
		validator: validator,
		random:    random,
	}
}

// Rules returns the room limits
func (m *Machine) Rules() Rules {
	return m.rules
}

// NewRoom returns an empty, unsaved room. It becomes valid once a player joins.
func (m *Machine) NewRoom(gameID model.GameID, now time.Time) *model.Room {
	return &model.Room{
		GameID:    gameID,
		Players:   []model.Player{},
		Words:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Join adds a player by name. Joining with a name already in the room
// returns the existing player's ID without changing anything.
func (m *Machine) Join(room *model.Room, name string, now time.Time) (transition, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return transition{}, model.ErrInvalidName
	}

	if existing := room.GetPlayerByName(name); existing != nil {
		return transition{playerID: existing.ID}, nil
	}

	if len(room.Players) >= m.rules.MaxPlayers {
		return transition{}, model.ErrRoomFull
	}

	player := model.Player{
		ID:   m.newPlayerID(room),
		Name: name,
	}
	room.Players = append(room.Players, player)
	if len(room.Players) == 1 {
		room.HostID = player.ID
	}
	room.UpdatedAt = now

	return transition{changed: true, playerID: player.ID}, nil
}

// Start begins a round, or resets a finished one. Only the host may start.
// Starting a round in progress keeps its words and restarts the turn timer.
func (m *Machine) Start(room *model.Room, playerID model.PlayerID, now time.Time) (transition, error) {
	if playerID != room.HostID {
		return transition{}, model.ErrNotHost
	}
	if room.State() == model.RoomStatePlaying {
		room.TurnStartedAt = timePtr(now)
		room.UpdatedAt = now
		return transition{changed: true}, nil
	}

	room.Words = []string{}
	room.CurrentPlayerIndex = 0
	room.IsStarted = true
	room.IsGameOver = false
	room.TurnStartedAt = timePtr(now)
	room.RoundStartedAt = timePtr(now)
	room.UpdatedAt = now

	return transition{changed: true}, nil
}

// SubmitWord plays a word for the current player. A late submission ends the
// round; the returned transition must still be persisted alongside ErrTurnExpired.
func (m *Machine) SubmitWord(room *model.Room, playerID model.PlayerID, word string, now time.Time) (transition, error) {
	if room.State() != model.RoomStatePlaying {
		return transition{}, model.ErrNotPlaying
	}

	current := room.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return transition{}, model.ErrNotPlayerTurn
	}

	if room.TurnStartedAt != nil && now.Sub(*room.TurnStartedAt) > m.rules.TurnDuration {
		room.IsGameOver = true
		room.UpdatedAt = now
		return transition{changed: true, roundEnded: model.RoundEndTurnExpired}, model.ErrTurnExpired
	}

	word = wordrule.Normalize(word)
	if err := m.validator.Validate(word, room.Words); err != nil {
		return transition{}, err
	}

	room.Words = append(room.Words, word)
	room.CurrentPlayerIndex = (room.CurrentPlayerIndex + 1) % len(room.Players)
	room.TurnStartedAt = timePtr(now)
	room.UpdatedAt = now

	return transition{changed: true}, nil
}

// Timeout ends the running round. Reports that arrive after the round ended
// are accepted without effect.
func (m *Machine) Timeout(room *model.Room, _ model.PlayerID, now time.Time) (transition, error) {
	switch room.State() {
	case model.RoomStateLobby:
		return transition{}, model.ErrNotPlaying
	case model.RoomStateRoundOver:
		return transition{}, nil
	}

	room.IsGameOver = true
	room.UpdatedAt = now

	return transition{changed: true, roundEnded: model.RoundEndTimeout}, nil
}

// Leave removes a player. The host role passes to the first remaining player
// and the turn index is kept pointing at a present player.
func (m *Machine) Leave(room *model.Room, playerID model.PlayerID, now time.Time) (transition, error) {
	idx := room.IndexOf(playerID)
	if idx < 0 {
		return transition{}, nil
	}

	playing := room.State() == model.RoomStatePlaying
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

	if len(room.Players) == 0 {
		return transition{changed: true, deleted: true}, nil
	}

	if room.HostID == playerID {
		room.HostID = room.Players[0].ID
	}

	switch {
	case idx < room.CurrentPlayerIndex:
		room.CurrentPlayerIndex--
	case idx == room.CurrentPlayerIndex:
		if room.CurrentPlayerIndex >= len(room.Players) {
			room.CurrentPlayerIndex = 0
		}
		if playing {
			// The next player inherits the turn
			room.TurnStartedAt = timePtr(now)
		}
	}
	room.UpdatedAt = now

	return transition{changed: true}, nil
}

func (m *Machine) newPlayerID(room *model.Room) model.PlayerID {
	for {
		id := model.PlayerID(PlayerIDPrefix + m.random.String(PlayerIDLength, PlayerIDAlphabet))
		if room.GetPlayer(id) == nil {
			return id
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
