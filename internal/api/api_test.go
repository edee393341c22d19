package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordchain-go/internal/api"
	"github.com/mcoot/wordchain-go/internal/api/apierr"
	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/factory"
	"github.com/mcoot/wordchain-go/internal/testutil"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.LoadTestDictionary())
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Rooms:    app.RoomController,
		Realtime: app.Realtime,
		Metrics:  app.Metrics.Handler(),
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) action(gameID, action string, payload map[string]string) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/v1/games/"+gameID, map[string]any{
		"action":  action,
		"payload": payload,
	})
}

func joinGame(t *testing.T, ts *testServer, gameID, name string) string {
	t.Helper()

	rr := ts.action(gameID, "join_game", map[string]string{"name": name})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.ActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.PlayerID)
	return resp.PlayerID
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	joinGame(t, ts, "game1", "Alice")

	rr := ts.request(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `wordchain_actions_total{action="join_game",outcome="ok"} 1`)
}

func TestJoinCreatesRoom(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockRandom.QueueString("alice0001")

	rr := ts.action("game1", "join_game", map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.ActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "player_alice0001", resp.PlayerID)
	assert.Equal(t, "game1", resp.GameID)
	assert.Equal(t, "lobby", resp.State)
	assert.Equal(t, resp.PlayerID, resp.HostID)
	require.Len(t, resp.Players, 1)
	assert.Equal(t, "Alice", resp.Players[0].Name)
	assert.Equal(t, []string{}, resp.Words)
	assert.Equal(t, int64(1), resp.Version)
}

func TestJoinSameNameIsIdempotent(t *testing.T) {
	ts := newTestServer(t)

	first := joinGame(t, ts, "game1", "Alice")
	second := joinGame(t, ts, "game1", "Alice")
	assert.Equal(t, first, second)

	rr := ts.request(http.MethodGet, "/api/v1/games/game1", nil)
	var room response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Len(t, room.Players, 1)
}

func TestGetUnknownRoom(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeRoomNotFound, decodeError(t, rr).Code)
}

func TestListGames(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"games":[]}`, rr.Body.String())

	joinGame(t, ts, "beta", "Bob")
	joinGame(t, ts, "alpha", "Alice")

	rr = ts.request(http.MethodGet, "/api/v1/games", nil)
	var list response.RoomList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Games, 2)
	assert.Equal(t, "alpha", list.Games[0].GameID)
	assert.Equal(t, "Alice", list.Games[0].HostName)
	assert.Equal(t, 1, list.Games[1].PlayerCount)
}

func TestFullRoundFlow(t *testing.T) {
	ts := newTestServer(t)

	alice := joinGame(t, ts, "game1", "Alice")
	bob := joinGame(t, ts, "game1", "Bob")

	// Only the host can start
	rr := ts.action("game1", "start_game", map[string]string{"player_id": bob})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotHost, decodeError(t, rr).Code)

	rr = ts.action("game1", "start_game", map[string]string{"player_id": alice})
	require.Equal(t, http.StatusOK, rr.Code)
	var room response.ActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Equal(t, "playing", room.State)
	require.NotNil(t, room.CurrentPlayerID)
	assert.Equal(t, alice, *room.CurrentPlayerID)
	require.NotNil(t, room.TurnDeadline)
	assert.Empty(t, room.PlayerID)

	// Out of turn
	rr = ts.action("game1", "submit_word", map[string]string{"player_id": bob, "word": "가방"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, decodeError(t, rr).Code)

	rr = ts.action("game1", "submit_word", map[string]string{"player_id": alice, "word": "가방"})
	require.Equal(t, http.StatusOK, rr.Code)

	// Chain mismatch carries the reason
	rr = ts.action("game1", "submit_word", map[string]string{"player_id": bob, "word": "나무"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeInvalidWord, apiErr.Code)
	assert.Equal(t, "ChainMismatch", apiErr.Reason)

	rr = ts.action("game1", "submit_word", map[string]string{"player_id": bob, "word": "방석"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Equal(t, []string{"가방", "방석"}, room.Words)
	assert.Equal(t, 0, room.CurrentPlayerIndex)

	// Late submission ends the round
	ts.app.MockClock.Advance(11 * time.Second)
	rr = ts.action("game1", "submit_word", map[string]string{"player_id": alice, "word": "석류"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeTurnExpired, decodeError(t, rr).Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/game1", nil)
	var after response.Room
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &after))
	assert.Equal(t, "round_over", after.State)
	assert.True(t, after.IsGameOver)
	require.NotNil(t, after.LoserID)
	assert.Equal(t, alice, *after.LoserID)
	assert.Nil(t, after.CurrentPlayerID)

	// History
	rr = ts.request(http.MethodGet, "/api/v1/games/game1/rounds", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var rounds response.RoundList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rounds))
	require.Len(t, rounds.Rounds, 1)
	assert.Equal(t, "turn_expired", rounds.Rounds[0].Reason)
	assert.Equal(t, "Alice", rounds.Rounds[0].LosingPlayerName)
}

func TestTimeoutOutsideRound(t *testing.T) {
	ts := newTestServer(t)
	alice := joinGame(t, ts, "game1", "Alice")

	rr := ts.action("game1", "timeout", map[string]string{"player_id": alice})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeNotPlaying, decodeError(t, rr).Code)
}

func TestRoomFull(t *testing.T) {
	ts := newTestServer(t)
	for i := range 10 {
		joinGame(t, ts, "game1", "player"+string(rune('A'+i)))
	}

	rr := ts.action("game1", "join_game", map[string]string{"name": "Late"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeRoomFull, decodeError(t, rr).Code)
}

func TestLeaveLastPlayerDeletesRoom(t *testing.T) {
	ts := newTestServer(t)
	alice := joinGame(t, ts, "game1", "Alice")

	rr := ts.action("game1", "leave_game", map[string]string{"player_id": alice})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"game_id":"game1","deleted":true}`, rr.Body.String())

	rr = ts.request(http.MethodGet, "/api/v1/games/game1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvalidRequests(t *testing.T) {
	ts := newTestServer(t)
	joinGame(t, ts, "game1", "Alice")

	tests := []struct {
		name     string
		body     any
		wantCode string
	}{
		{name: "unknown action", body: map[string]any{"action": "dance"}, wantCode: apierr.CodeInvalidAction},
		{name: "join without name", body: map[string]any{"action": "join_game", "payload": map[string]string{}}, wantCode: apierr.CodeInvalidRequest},
		{name: "submit without word", body: map[string]any{"action": "submit_word", "payload": map[string]string{"player_id": "p"}}, wantCode: apierr.CodeInvalidRequest},
		{name: "not an object", body: []int{1, 2}, wantCode: apierr.CodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/games/game1", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rr).Code)
		})
	}
}

func TestActionRequiresJSONContentType(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/games/game1", strings.NewReader("name=Alice"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestRoundsInvalidLimit(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/game1/rounds?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoundsEmptyForUnknownGame(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/games/nothing/rounds", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"game_id":"nothing","rounds":[]}`, rr.Body.String())
}

func TestWebSocketThroughMiddleware(t *testing.T) {
	ts := newTestServer(t)
	server := httptest.NewServer(ts.handler)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/games/game1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "join_game",
		"payload": map[string]string{"name": "Alice"},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var event struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&event))
		if event.Type == "joined" {
			assert.Contains(t, string(event.Data), "player_")
			return
		}
	}
}

func TestHostStartDuringRoundRestartsTimer(t *testing.T) {
	ts := newTestServer(t)

	alice := joinGame(t, ts, "game1", "Alice")
	joinGame(t, ts, "game1", "Bob")

	rr := ts.action("game1", "start_game", map[string]string{"player_id": alice})
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.action("game1", "submit_word", map[string]string{"player_id": alice, "word": "가방"})
	require.Equal(t, http.StatusOK, rr.Code)

	ts.app.MockClock.Advance(3 * time.Second)

	rr = ts.action("game1", "start_game", map[string]string{"player_id": alice})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var room response.ActionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &room))
	assert.Equal(t, "playing", room.State)
	assert.Equal(t, []string{"가방"}, room.Words)
	require.NotNil(t, room.TurnStartedAt)
	assert.Equal(t, ts.app.MockClock.Now(), room.TurnStartedAt.UTC())
}
