package room

import (
	"fmt"
	"strings"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Action names a room operation as sent by clients
type Action string

const (
	ActionJoin    Action = "join_game"
	ActionStart   Action = "start_game"
	ActionSubmit  Action = "submit_word"
	ActionTimeout Action = "timeout"
	ActionLeave   Action = "leave_game"
)

// Actions lists every supported action
var Actions = []Action{ActionJoin, ActionStart, ActionSubmit, ActionTimeout, ActionLeave}

// ParseAction validates an action name
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: unknown action %q", model.ErrInvalidAction, s)
}

// ActionPayload carries the arguments of every action; each action reads
// only the fields it needs
type ActionPayload struct {
	Name     string         `json:"name,omitempty"`
	PlayerID model.PlayerID `json:"player_id,omitempty"`
	Word     string         `json:"word,omitempty"`
}

// ActionRequest is one client command against a room
type ActionRequest struct {
	Action  Action        `json:"action"`
	Payload ActionPayload `json:"payload"`
}

// Validate checks that the fields required by the action are present
func (r ActionRequest) Validate() error {
	if _, err := ParseAction(string(r.Action)); err != nil {
		return err
	}

	switch r.Action {
	case ActionJoin:
		if strings.TrimSpace(r.Payload.Name) == "" {
			return fmt.Errorf("%w: name is required", model.ErrInvalidRequest)
		}
	default:
		if r.Payload.PlayerID == "" {
			return fmt.Errorf("%w: player_id is required", model.ErrInvalidRequest)
		}
	}

	if r.Action == ActionSubmit && strings.TrimSpace(r.Payload.Word) == "" {
		return fmt.Errorf("%w: word is required", model.ErrInvalidRequest)
	}
	return nil
}

// Result is the outcome of a successful action
type Result struct {
	Room     *model.Room // nil when Deleted
	PlayerID model.PlayerID
	Deleted  bool

	created bool
	tr      transition
}
