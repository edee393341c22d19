package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	historymemory "github.com/mcoot/wordchain-go/internal/history/memory"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/services/room"
	"github.com/mcoot/wordchain-go/internal/services/wordrule"
	"github.com/mcoot/wordchain-go/internal/storage/memory"
	"github.com/mcoot/wordchain-go/internal/testutil"
)

type HandlerSuite struct {
	suite.Suite
	hubs       *HubManager
	controller *room.Controller
	server     *httptest.Server
	ctx        context.Context
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := testutil.NopLogger()
	rules := room.DefaultRules()
	rnd := random.New()

	s.hubs = NewHubManager(logger)
	broadcaster := NewBroadcaster(s.hubs, rules.TurnDuration, logger)
	machine := room.NewMachine(rules, wordrule.New(wordrule.DefaultMinLength), rnd)
	s.controller = room.NewController(
		memory.New(),
		machine,
		historymemory.New(),
		broadcaster,
		nil,
		clock.New(),
		rnd,
		logger,
	)

	handler := NewHandler(s.hubs, s.controller, rules.TurnDuration, rnd, logger)
	r := mux.NewRouter()
	r.HandleFunc("/games/{gameId}/events", handler.Events).Methods(http.MethodGet)
	r.HandleFunc("/games/{gameId}/ws", handler.Socket).Methods(http.MethodGet)

	s.server = httptest.NewServer(r)
	s.ctx = context.Background()
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
	s.hubs.Close()
}

// readSSEEvent reads lines until a complete event with the given name arrives
func (s *HandlerSuite) readSSEEvent(reader *bufio.Reader, name string) string {
	deadline := time.Now().Add(2 * time.Second)
	current := ""
	for time.Now().Before(deadline) {
		line, err := reader.ReadString('\n')
		s.Require().NoError(err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			current = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && current == name:
			return strings.TrimPrefix(line, "data: ")
		}
	}
	s.FailNow("event not received", name)
	return ""
}

func (s *HandlerSuite) TestEventsUnknownRoom() {
	resp, err := http.Get(s.server.URL + "/games/missing/events")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestEventsStreamsSnapshotAndUpdates() {
	_, alice, err := s.controller.Join(s.ctx, "abc123", "Alice")
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, s.server.URL+"/games/abc123/events", nil)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))
	reader := bufio.NewReader(resp.Body)

	s.readSSEEvent(reader, EventConnected)
	snapshot := s.readSSEEvent(reader, EventGameUpdate)
	s.Contains(snapshot, `"game_id":"abc123"`)

	// Wait for the hub to register the stream
	s.Eventually(func() bool { return s.hubs.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err = s.controller.Start(s.ctx, "abc123", alice)
	s.Require().NoError(err)

	update := s.readSSEEvent(reader, EventGameUpdate)
	var payload struct {
		State string `json:"state"`
	}
	s.Require().NoError(json.Unmarshal([]byte(update), &payload))
	s.Equal(string(model.RoomStatePlaying), payload.State)
}

func (s *HandlerSuite) dial(gameID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/games/" + gameID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

// readUntil reads socket events until one of the given type arrives
func (s *HandlerSuite) readUntil(conn *websocket.Conn, eventType string) Event {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var event Event
		s.Require().NoError(conn.ReadJSON(&event))
		if event.Type == eventType {
			return event
		}
	}
}

func (s *HandlerSuite) TestSocketJoinAndDisconnectLeaves() {
	conn := s.dial("abc123")

	s.Require().NoError(conn.WriteJSON(room.ActionRequest{
		Action:  room.ActionJoin,
		Payload: room.ActionPayload{Name: "Alice"},
	}))

	joined := s.readUntil(conn, EventJoined)
	var payload map[string]string
	s.Require().NoError(json.Unmarshal(joined.Data, &payload))
	s.NotEmpty(payload["player_id"])

	current, err := s.controller.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Len(current.Players, 1)

	s.Require().NoError(conn.Close())

	// The only player left, so the room is deleted
	s.Eventually(func() bool {
		_, err := s.controller.GetRoom(s.ctx, "abc123")
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)
}

func (s *HandlerSuite) TestSocketDisconnectLeavesEveryJoinedPlayer() {
	_, carol, err := s.controller.Join(s.ctx, "abc123", "Carol")
	s.Require().NoError(err)

	conn := s.dial("abc123")
	for _, name := range []string{"Alice", "Bob"} {
		s.Require().NoError(conn.WriteJSON(room.ActionRequest{
			Action:  room.ActionJoin,
			Payload: room.ActionPayload{Name: name},
		}))
		s.readUntil(conn, EventJoined)
	}

	current, err := s.controller.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Len(current.Players, 3)

	s.Require().NoError(conn.Close())

	s.Eventually(func() bool {
		current, err := s.controller.GetRoom(s.ctx, "abc123")
		return err == nil && len(current.Players) == 1
	}, 2*time.Second, 20*time.Millisecond)

	current, err = s.controller.GetRoom(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(carol, current.Players[0].ID)
	s.Nil(current.GetPlayerByName("Alice"))
	s.Nil(current.GetPlayerByName("Bob"))
}

func (s *HandlerSuite) TestSocketReceivesBroadcasts() {
	_, alice, err := s.controller.Join(s.ctx, "abc123", "Alice")
	s.Require().NoError(err)

	conn := s.dial("abc123")
	defer conn.Close()

	// Initial snapshot
	s.readUntil(conn, EventGameUpdate)
	s.Eventually(func() bool { return s.hubs.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_, err = s.controller.Start(s.ctx, "abc123", alice)
	s.Require().NoError(err)

	event := s.readUntil(conn, EventGameUpdate)
	s.Contains(string(event.Data), `"state":"playing"`)
}

func (s *HandlerSuite) TestSocketActionErrorIsReported() {
	_, _, err := s.controller.Join(s.ctx, "abc123", "Alice")
	s.Require().NoError(err)

	conn := s.dial("abc123")
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(room.ActionRequest{
		Action:  room.ActionStart,
		Payload: room.ActionPayload{PlayerID: "player_nobody"},
	}))

	event := s.readUntil(conn, EventError)
	s.Contains(string(event.Data), `"code":"NOT_HOST"`)
}

func (s *HandlerSuite) TestSocketMalformedMessage() {
	conn := s.dial("abc123")
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	event := s.readUntil(conn, EventError)
	s.Contains(string(event.Data), `"code":"INVALID_REQUEST"`)
}
