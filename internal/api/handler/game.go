package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordchain-go/internal/api/request"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/room"
)

// maxActionBodyBytes bounds the size of an action request body
const maxActionBodyBytes = 4096

// RoomService is the subset of the room controller used by the API
type RoomService interface {
	Rules() room.Rules
	GetRoom(ctx context.Context, gameID model.GameID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]model.RoomSummary, error)
	ListRounds(ctx context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error)
	Dispatch(ctx context.Context, gameID model.GameID, req room.ActionRequest) (*room.Result, error)
}

// GameHandler handles game-related endpoints
type GameHandler struct {
	rooms  RoomService
	logger *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(rooms RoomService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		rooms:  rooms,
		logger: logger.With(slog.String("component", "api")),
	}
}

func (h *GameHandler) turnDuration() time.Duration {
	return h.rooms.Rules().TurnDuration
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.RoomList{Games: make([]response.RoomSummary, len(summaries))}
	for i, s := range summaries {
		resp.Games[i] = response.RoomSummaryFromModel(s)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Get handles GET /api/v1/games/{gameId}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	rm, err := h.rooms.GetRoom(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm, h.turnDuration()))
}

// Action handles POST /api/v1/games/{gameId}
func (h *GameHandler) Action(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	var req request.ActionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBodyBytes)).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Request body must be a JSON action"))
		return
	}

	res, err := h.rooms.Dispatch(r.Context(), gameID, req.ToRoomAction())
	if err != nil {
		WriteError(w, err)
		return
	}

	if res.Deleted {
		response.JSON(w, http.StatusOK, response.DeletedResponse{GameID: string(gameID), Deleted: true})
		return
	}

	resp := response.ActionResponse{Room: response.RoomFromModel(res.Room, h.turnDuration())}
	if req.Action == string(room.ActionJoin) {
		resp.PlayerID = string(res.PlayerID)
	}
	response.JSON(w, http.StatusOK, resp)
}

// Rounds handles GET /api/v1/games/{gameId}/rounds
func (h *GameHandler) Rounds(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	limit, err := request.ParseRoundsLimit(r.URL.Query())
	if err != nil {
		WriteError(w, err)
		return
	}

	records, err := h.rooms.ListRounds(r.Context(), gameID, limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.RoundList{GameID: string(gameID), Rounds: make([]response.Round, len(records))}
	for i, rec := range records {
		resp.Rounds[i] = response.RoundFromModel(rec)
	}
	response.JSON(w, http.StatusOK, resp)
}
