package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/middleware"
	"github.com/mcoot/wordchain-go/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface.
// Returns the HTML error page on panic.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error("The server hit an unexpected error. Please try again.").Render(r.Context(), w)
}
