// Package components holds fragments rendered inside pages.
package components

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/wordchain-go/internal/api/response"
)

var stateLabels = map[string]string{
	"lobby":      "Waiting for the host to start",
	"playing":    "Round in progress",
	"round_over": "Round over",
}

// StateLabel returns the human readable room state
func StateLabel(state string) string {
	if label, ok := stateLabels[state]; ok {
		return label
	}
	return state
}

// RoomStatus renders the state line, including the loser once a round ends
func RoomStatus(room response.Room) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<p id="room-status" data-state="` + templ.EscapeString(room.State) + `">`)
		b.WriteString(templ.EscapeString(StateLabel(room.State)))
		if room.LoserID != nil {
			for _, p := range room.Players {
				if p.ID == *room.LoserID {
					b.WriteString(` - <span class="loser">` + templ.EscapeString(p.Name) + ` lost</span>`)
				}
			}
		}
		b.WriteString(`</p>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// PlayerList renders players in turn order, marking the host and the current player
func PlayerList(room response.Room) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ol id="players">`)
		for _, p := range room.Players {
			class := "player"
			if room.CurrentPlayerID != nil && *room.CurrentPlayerID == p.ID {
				class += " current"
			}
			fmt.Fprintf(&b, `<li class="%s" data-player-id="%s">%s`,
				class, templ.EscapeString(p.ID), templ.EscapeString(p.Name))
			if p.ID == room.HostID {
				b.WriteString(` <small class="host">(host)</small>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ol>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// WordList renders the words of the current round in order
func WordList(words []string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<ul id="words" class="words">`)
		for _, word := range words {
			b.WriteString(`<li class="word">` + templ.EscapeString(word) + `</li>`)
		}
		b.WriteString(`</ul>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RoundHistory renders finished rounds, most recent first
func RoundHistory(rounds []response.Round) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="history"><h2>Previous rounds</h2>`)
		if len(rounds) == 0 {
			b.WriteString(`<p class="empty">No rounds finished yet.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<table><thead><tr><th>Ended</th><th>Loser</th><th>Reason</th><th>Words</th></tr></thead><tbody>`)
		for _, r := range rounds {
			fmt.Fprintf(&b, `<tr class="round"><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				r.EndedAt.Format("15:04:05"),
				templ.EscapeString(r.LosingPlayerName),
				templ.EscapeString(r.Reason),
				templ.EscapeString(strings.Join(r.Words, " → ")),
			)
		}
		b.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RoomTable renders the room listing on the home page
func RoomTable(games []response.RoomSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="games"><h2>Open rooms</h2>`)
		if len(games) == 0 {
			b.WriteString(`<p class="empty">No rooms yet. Create one below.</p></section>`)
			_, err := io.WriteString(w, b.String())
			return err
		}
		b.WriteString(`<table><thead><tr><th>Room</th><th>Host</th><th>Players</th><th>State</th></tr></thead><tbody>`)
		for _, g := range games {
			fmt.Fprintf(&b, `<tr class="game"><td><a href="/games/%s">%s</a></td><td>%s</td><td>%d</td><td>%s</td></tr>`,
				templ.EscapeString(url.PathEscape(g.GameID)), templ.EscapeString(g.GameID),
				templ.EscapeString(g.HostName), g.PlayerCount,
				templ.EscapeString(StateLabel(g.State)),
			)
		}
		b.WriteString(`</tbody></table></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
