package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/wordchain-go/internal/api/response"
)

// ActionResult is the response to an action: the room, the new player id
// after a join, or a deletion notice after the last player left
type ActionResult struct {
	response.ActionResponse
	Deleted bool `json:"deleted,omitempty"`
}

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case ActionResult:
		o.printActionResult(v)
	case response.Room:
		o.printRoom(v)
	case response.RoomList:
		o.printRoomList(v)
	case response.RoundList:
		o.printRoundList(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printActionResult(r ActionResult) {
	if r.Deleted {
		fmt.Fprintf(o.w, "Game %s closed: no players left\n", r.GameID)
		return
	}
	if r.PlayerID != "" {
		fmt.Fprintf(o.w, "Joined as %s\n", r.PlayerID)
	}
	o.printRoom(r.Room)
}

func (o *Output) printRoom(r response.Room) {
	fmt.Fprintf(o.w, "Game: %s (v%d)\n", r.GameID, r.Version)
	fmt.Fprintf(o.w, "State: %s\n", r.State)

	fmt.Fprintf(o.w, "Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		var marks []string
		if p.ID == r.HostID {
			marks = append(marks, "host")
		}
		if r.CurrentPlayerID != nil && *r.CurrentPlayerID == p.ID {
			marks = append(marks, "turn")
		}
		if r.LoserID != nil && *r.LoserID == p.ID {
			marks = append(marks, "lost")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " [" + strings.Join(marks, ", ") + "]"
		}
		fmt.Fprintf(o.w, "  - %s (%s)%s\n", p.Name, p.ID, suffix)
	}

	if len(r.Words) > 0 {
		fmt.Fprintf(o.w, "Words: %s\n", strings.Join(r.Words, " → "))
	}
	if r.TurnDeadline != nil {
		fmt.Fprintf(o.w, "Turn ends: %s\n", r.TurnDeadline.Local().Format("15:04:05.0"))
	}
}

func (o *Output) printRoomList(l response.RoomList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, g := range l.Games {
		fmt.Fprintf(o.w, "%s\t%s\t%d players\thost %s\n", g.GameID, g.State, g.PlayerCount, g.HostName)
	}
}

func (o *Output) printRoundList(l response.RoundList) {
	if len(l.Rounds) == 0 {
		fmt.Fprintf(o.w, "No finished rounds in %s\n", l.GameID)
		return
	}
	for _, r := range l.Rounds {
		fmt.Fprintf(o.w, "[%s] %s lost (%s) after %d words: %s\n",
			r.EndedAt.Local().Format("2006-01-02 15:04:05"),
			r.LosingPlayerName, r.Reason, len(r.Words), strings.Join(r.Words, " → "))
	}
}
