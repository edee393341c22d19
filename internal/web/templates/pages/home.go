// Package pages holds the full web pages.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/web/templates/components"
	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
)

// HomeData holds data for the home page
type HomeData struct {
	layout.PageData
	Games []response.RoomSummary
	// SuggestedGameID pre-fills the room field of the join form
	SuggestedGameID string
}

// Home renders the room list and the join form
func Home(data HomeData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := components.RoomTable(data.Games).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<section id="join"><h2>Join or create a room</h2>`+
			`<form method="post" action="/games/join">`+
			`<label>Room <input name="game_id" required maxlength="64" value="`+templ.EscapeString(data.SuggestedGameID)+`"></label> `+
			`<label>Name <input name="name" required maxlength="32"></label> `+
			`<button type="submit">Join</button></form></section>`)
		return err
	})
	return layout.Base(data.PageData, body)
}
