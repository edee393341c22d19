package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/web/middleware"
	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
	"github.com/mcoot/wordchain-go/internal/web/templates/pages"
)

// historyLimit is the number of past rounds shown on the game page
const historyLimit = 10

// GameHandler handles the game page and the join form
type GameHandler struct {
	rooms  RoomService
	logger *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(rooms RoomService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		rooms:  rooms,
		logger: logger.With(slog.String("component", "web")),
	}
}

// View renders GET /games/{gameId}. A room nobody has joined yet renders
// with only the join form.
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	data := pages.GameData{
		PageData: layout.PageData{
			Title: "Room " + string(gameID),
			Flash: middleware.GetFlash(r.Context()),
		},
		GameID: string(gameID),
	}

	rm, err := h.rooms.GetRoom(r.Context(), gameID)
	switch {
	case err == nil:
		resp := response.RoomFromModel(rm, h.rooms.Rules().TurnDuration)
		data.Room = &resp
	case !errors.Is(err, model.ErrRoomNotFound):
		h.logger.Error("failed to load room", slog.String("game_id", string(gameID)), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	records, err := h.rooms.ListRounds(r.Context(), gameID, historyLimit)
	if err != nil {
		h.logger.Warn("failed to load round history", slog.String("game_id", string(gameID)), slog.String("error", err.Error()))
	}
	data.Rounds = make([]response.Round, len(records))
	for i, rec := range records {
		data.Rounds[i] = response.RoundFromModel(rec)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Game(data).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Join handles POST /games/join from the home page form. On success it
// redirects to the game page, passing the new player id for the page
// script to remember.
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.SetFlash(w, "error", "Invalid form submission")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	gameID := strings.TrimSpace(r.FormValue("game_id"))
	if gameID == "" {
		middleware.SetFlash(w, "error", "Enter a room name")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, playerID, err := h.rooms.Join(r.Context(), model.GameID(gameID), r.FormValue("name"))
	if err != nil {
		middleware.SetFlash(w, "error", apierr.FromError(err).Message)
		http.Redirect(w, r, "/?game="+url.QueryEscape(gameID), http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "success", "Joined room "+gameID)
	target := "/games/" + url.PathEscape(gameID) + "?player=" + url.QueryEscape(string(playerID))
	http.Redirect(w, r, target, http.StatusSeeOther)
}
