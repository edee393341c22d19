// Package layout holds the page shell shared by every web page.
package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData holds the fields every page needs
type PageData struct {
	Title string
	Flash *FlashMessage
}

// Base renders the HTML document around body
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="ko"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>`+templ.EscapeString(data.Title)+` - 끝말잇기</title>`+
			`<style>`+baseCSS+`</style></head><body>`+
			`<header><a href="/" class="brand">끝말잇기</a></header><main>`); err != nil {
			return err
		}

		if data.Flash != nil {
			if _, err := io.WriteString(w, `<div class="flash flash-`+templ.EscapeString(data.Flash.Type)+`" role="alert">`+
				templ.EscapeString(data.Flash.Message)+`</div>`); err != nil {
				return err
			}
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

const baseCSS = `body{font-family:system-ui,sans-serif;max-width:48rem;margin:0 auto;padding:1rem;}` +
	`header{margin-bottom:1rem;}.brand{font-weight:bold;font-size:1.4rem;text-decoration:none;}` +
	`.flash{padding:.5rem 1rem;border-radius:4px;margin-bottom:1rem;}` +
	`.flash-error{background:#fdd;}.flash-success{background:#dfd;}.flash-info{background:#def;}` +
	`table{border-collapse:collapse;width:100%;}td,th{padding:.25rem .5rem;border-bottom:1px solid #ddd;text-align:left;}` +
	`.words li{display:inline-block;margin:0 .25rem;padding:.1rem .4rem;background:#eee;border-radius:3px;}` +
	`.current{font-weight:bold;}.hidden{display:none;}`
