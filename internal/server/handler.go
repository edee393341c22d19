// Package server assembles the HTTP surface of the game: the JSON API with
// its push endpoints, the Prometheus endpoint and the HTML pages.
package server

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/api"
	"github.com/mcoot/wordchain-go/internal/factory"
	"github.com/mcoot/wordchain-go/internal/web"
)

// Config holds the inputs for NewHandler
type Config struct {
	Logger    *slog.Logger
	App       *factory.App
	StaticDir string
}

// NewHandler combines the API and web routers
func NewHandler(cfg Config) http.Handler {
	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:   cfg.Logger,
		Rooms:    cfg.App.RoomController,
		Realtime: cfg.App.Realtime,
		Metrics:  cfg.App.Metrics.Handler(),
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:    cfg.Logger,
		Rooms:     cfg.App.RoomController,
		StaticDir: cfg.StaticDir,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", apiRouter)
	mux.Handle("/", webRouter)

	return mux
}
