package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/room"
)

// leaveTimeout bounds the leave issued when a socket disconnects
const leaveTimeout = 5 * time.Second

// RoomService is the part of the room controller the push endpoints use
type RoomService interface {
	GetRoom(ctx context.Context, gameID model.GameID) (*model.Room, error)
	Dispatch(ctx context.Context, gameID model.GameID, req room.ActionRequest) (*room.Result, error)
	Leave(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Room, bool, error)
}

// Handler serves the SSE and WebSocket endpoints of a room
type Handler struct {
	hubManager   *HubManager
	rooms        RoomService
	turnDuration time.Duration
	random       random.Random
	upgrader     websocket.Upgrader
	logger       *slog.Logger
}

// NewHandler creates the push endpoint handler
func NewHandler(
	hubManager *HubManager,
	rooms RoomService,
	turnDuration time.Duration,
	random random.Random,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		hubManager:   hubManager,
		rooms:        rooms,
		turnDuration: turnDuration,
		random:       random,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// Events handles GET /games/{gameId}/events
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	current, err := h.rooms.GetRoom(r.Context(), gameID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	hub := h.hubManager.GetOrCreateHub(gameID)
	client := NewClient(hub, h.random.UUID(), TransportSSE)
	hub.Register(client)

	// Ensure cleanup on disconnect
	defer hub.Unregister(client)

	// Send initial connection event and the current state
	_, _ = w.Write(formatSSEMessage(EventConnected, `{"status":"connected"}`))
	if snapshot, err := roomEvent(current, h.turnDuration); err == nil {
		_, _ = w.Write(formatSSEMessage(snapshot.Type, string(snapshot.Data)))
	}
	flusher.Flush()

	// Create ticker for keepalive
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(formatSSEMessage(event.Type, string(event.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

// Socket handles GET /games/{gameId}/ws. The socket receives the same events
// as SSE clients and may send action requests. Every player that joined over
// the socket leaves the room when it disconnects.
func (h *Handler) Socket(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["gameId"])

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	hub := h.hubManager.GetOrCreateHub(gameID)
	client := NewClient(hub, h.random.UUID(), TransportSocket)
	hub.Register(client)

	direct := make(chan Event, 16)
	go h.writePump(conn, client, direct)

	if current, err := h.rooms.GetRoom(r.Context(), gameID); err == nil {
		if snapshot, err := roomEvent(current, h.turnDuration); err == nil {
			direct <- snapshot
		}
	}

	joined := h.readPump(conn, gameID, direct)

	hub.Unregister(client)

	if len(joined) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()
	for _, playerID := range joined {
		if _, _, err := h.rooms.Leave(ctx, gameID, playerID); err != nil && !errors.Is(err, model.ErrRoomNotFound) {
			h.logger.Warn("leave on disconnect failed",
				slog.String("game_id", string(gameID)),
				slog.String("player_id", string(playerID)),
				slog.Any("error", err))
		}
	}
}

// readPump dispatches actions until the connection fails and returns the
// players still joined over this socket, in join order
func (h *Handler) readPump(conn *websocket.Conn, gameID model.GameID, direct chan<- Event) []model.PlayerID {
	var joined []model.PlayerID

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}
			return joined
		}

		var req room.ActionRequest
		if err := json.Unmarshal(message, &req); err != nil {
			h.reply(direct, EventError, apierr.FromError(apierr.NewInvalidRequestError("Invalid message")))
			continue
		}

		res, err := h.rooms.Dispatch(context.Background(), gameID, req)
		if err != nil {
			h.reply(direct, EventError, apierr.FromError(err))
			continue
		}

		switch req.Action {
		case room.ActionJoin:
			joined = append(joined, res.PlayerID)
			h.reply(direct, EventJoined, map[string]string{"player_id": string(res.PlayerID)})
		case room.ActionLeave:
			joined = slices.DeleteFunc(joined, func(id model.PlayerID) bool {
				return id == req.Payload.PlayerID
			})
		}
	}
}

func (h *Handler) reply(direct chan<- Event, eventType string, data any) {
	event, err := NewEvent(eventType, data)
	if err != nil {
		return
	}
	select {
	case direct <- event:
	default:
		h.logger.Warn("socket reply dropped - buffer full", slog.String("event", eventType))
	}
}

// writePump writes hub and direct events to the socket and keeps it alive
func (h *Handler) writePump(conn *websocket.Conn, client *Client, direct <-chan Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	write := func(event Event) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(event)
	}

	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := write(event); err != nil {
				return
			}

		case event := <-direct:
			if err := write(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
