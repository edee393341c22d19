package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Broadcaster pushes committed room state to the room's hub. Rooms nobody
// watches are skipped.
type Broadcaster struct {
	hubManager   *HubManager
	turnDuration time.Duration
	logger       *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, turnDuration time.Duration, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager:   hubManager,
		turnDuration: turnDuration,
		logger:       logger.With(slog.String("component", "broadcaster")),
	}
}

// Notify broadcasts the new state of a room
func (b *Broadcaster) Notify(_ context.Context, room *model.Room) {
	hub := b.hubManager.GetHub(room.GameID)
	if hub == nil {
		return
	}

	event, err := roomEvent(room, b.turnDuration)
	if err != nil {
		b.logger.Error("failed to encode room",
			slog.String("game_id", string(room.GameID)),
			slog.Any("error", err))
		return
	}
	hub.Broadcast(event)
}

// NotifyDeleted tells subscribers that the room no longer exists
func (b *Broadcaster) NotifyDeleted(_ context.Context, gameID model.GameID) {
	hub := b.hubManager.GetHub(gameID)
	if hub == nil {
		return
	}

	event, err := NewEvent(EventGameDeleted, map[string]any{
		"game_id": string(gameID),
		"deleted": true,
	})
	if err != nil {
		return
	}
	hub.Broadcast(event)
}
