package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
)

// Error renders a page for failures that have no better place to go
func Error(message string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section id="error"><h1>Something went wrong</h1>`+
			`<p>`+templ.EscapeString(message)+`</p>`+
			`<p><a href="/">Back to the room list</a></p></section>`)
		return err
	})
	return layout.Base(layout.PageData{Title: "Error"}, body)
}
