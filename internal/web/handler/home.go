package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/room"
	"github.com/mcoot/wordchain-go/internal/web/middleware"
	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
	"github.com/mcoot/wordchain-go/internal/web/templates/pages"
)

// RoomService is the part of the room controller the web pages use
type RoomService interface {
	Rules() room.Rules
	GetRoom(ctx context.Context, gameID model.GameID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.RoomSummary, error)
	ListRounds(ctx context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error)
	Join(ctx context.Context, gameID model.GameID, name string) (*model.Room, model.PlayerID, error)
}

// HomeHandler handles the home page
type HomeHandler struct {
	rooms  RoomService
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(rooms RoomService, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		rooms:  rooms,
		logger: logger.With(slog.String("component", "web")),
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		h.logger.Error("failed to list rooms", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	games := make([]response.RoomSummary, len(summaries))
	for i, s := range summaries {
		games[i] = response.RoomSummaryFromModel(s)
	}

	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
		Games:           games,
		SuggestedGameID: r.URL.Query().Get("game"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
