package realtime

import (
	"encoding/json"
	"time"

	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Event names pushed to clients
const (
	EventConnected   = "connected"
	EventGameUpdate  = "game_update"
	EventGameDeleted = "game_deleted"
	EventJoined      = "joined"
	EventError       = "error"
)

// Event is one message pushed to a client. SSE clients receive Type as the
// event name and Data as the payload; socket clients receive the JSON object.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewEvent encodes data into an event
func NewEvent(eventType string, data any) (Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Data: raw}, nil
}

// roomEvent builds the game_update event for a room
func roomEvent(room *model.Room, turnDuration time.Duration) (Event, error) {
	return NewEvent(EventGameUpdate, response.RoomFromModel(room, turnDuration))
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	msg := "event: " + eventName + "\n"
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		msg += "data: " + line + "\n"
	}
	msg += "\n"
	return []byte(msg)
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	var lines []string
	var current string
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		lines = append(lines, "")
	}
	return lines
}
