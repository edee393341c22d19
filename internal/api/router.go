package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordchain-go/internal/api/handler"
	"github.com/mcoot/wordchain-go/internal/api/middleware"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/realtime"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Rooms  handler.RoomService
	// Realtime serves the SSE and WebSocket endpoints (optional)
	Realtime *realtime.Handler
	// Metrics serves /metrics (optional)
	Metrics http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Rooms, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Game routes
	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("/{gameId}", gameHandler.Get).Methods(http.MethodGet)
	games.Handle("/{gameId}", middleware.JSONContentType(http.HandlerFunc(gameHandler.Action))).Methods(http.MethodPost)
	games.HandleFunc("/{gameId}/rounds", gameHandler.Rounds).Methods(http.MethodGet)

	// Push channels
	if cfg.Realtime != nil {
		games.HandleFunc("/{gameId}/events", cfg.Realtime.Events).Methods(http.MethodGet)
		games.HandleFunc("/{gameId}/ws", cfg.Realtime.Socket).Methods(http.MethodGet)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
