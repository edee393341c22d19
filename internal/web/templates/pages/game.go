package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/wordchain-go/internal/api/response"
	"github.com/mcoot/wordchain-go/internal/web/templates/components"
	"github.com/mcoot/wordchain-go/internal/web/templates/layout"
)

// GameData holds data for the game page
type GameData struct {
	layout.PageData
	GameID string
	// Room is nil when nobody has joined the room yet
	Room   *response.Room
	Rounds []response.Round
}

// Game renders one room. The page keeps itself current through the SSE
// stream and sends actions to the JSON API.
func Game(data GameData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section id="game" data-game-id="`+templ.EscapeString(data.GameID)+`">`+
			`<h1>Room `+templ.EscapeString(data.GameID)+`</h1>`); err != nil {
			return err
		}

		if data.Room == nil {
			if _, err := io.WriteString(w, `<p id="room-status" data-state="empty">Nobody is here yet. Join to create the room.</p>`+
				`<ol id="players"></ol><ul id="words" class="words"></ul>`); err != nil {
				return err
			}
		} else {
			for _, c := range []templ.Component{
				components.RoomStatus(*data.Room),
				components.PlayerList(*data.Room),
				components.WordList(data.Room.Words),
			} {
				if err := c.Render(ctx, w); err != nil {
					return err
				}
			}
		}

		if _, err := io.WriteString(w, gameControls); err != nil {
			return err
		}
		if err := components.RoundHistory(data.Rounds).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section><script>`+gameScript+`</script>`)
		return err
	})
	return layout.Base(data.PageData, body)
}

const gameControls = `<p id="timer"></p><p id="error" class="flash flash-error hidden"></p>` +
	`<form id="join-form"><input name="name" placeholder="Your name" required maxlength="32"> <button type="submit">Join</button></form>` +
	`<div id="player-controls" class="hidden">` +
	`<button id="start-button" type="button">Start round</button> ` +
	`<form id="word-form"><input name="word" placeholder="Next word" autocomplete="off"> <button type="submit">Submit</button></form> ` +
	`<button id="leave-button" type="button">Leave</button></div>`

// gameScript drives the page: it remembers the player id per tab, renders
// pushed room state and posts actions to the API.
const gameScript = `
(function () {
  const root = document.getElementById("game");
  const gameId = root.dataset.gameId;
  const api = "/api/v1/games/" + encodeURIComponent(gameId);
  const storageKey = "wordchain:" + gameId;
  const params = new URLSearchParams(window.location.search);
  if (params.get("player")) {
    sessionStorage.setItem(storageKey, params.get("player"));
    history.replaceState(null, "", window.location.pathname);
  }
  let playerId = sessionStorage.getItem(storageKey);
  let room = null;
  let timeoutSent = false;

  const el = (id) => document.getElementById(id);
  const labels = { lobby: "Waiting for the host to start", playing: "Round in progress", round_over: "Round over" };

  function showError(message) {
    const e = el("error");
    e.textContent = message || "";
    e.classList.toggle("hidden", !message);
  }

  function render(next) {
    room = next;
    timeoutSent = false;
    const status = el("room-status");
    status.dataset.state = room.state;
    let text = labels[room.state] || room.state;
    const loser = room.players.find((p) => p.id === room.loser_id);
    if (loser) text += " - " + loser.name + " lost";
    status.textContent = text;

    const players = el("players");
    players.replaceChildren(...room.players.map((p) => {
      const li = document.createElement("li");
      li.textContent = p.name + (p.id === room.host_id ? " (host)" : "") + (p.id === playerId ? " (you)" : "");
      if (p.id === room.current_player_id) li.className = "current";
      return li;
    }));

    const words = el("words");
    words.replaceChildren(...room.words.map((w) => {
      const li = document.createElement("li");
      li.className = "word";
      li.textContent = w;
      return li;
    }));

    const joined = room.players.some((p) => p.id === playerId);
    el("join-form").classList.toggle("hidden", joined);
    el("player-controls").classList.toggle("hidden", !joined);
    el("start-button").classList.toggle("hidden", !(joined && room.host_id === playerId && room.state !== "playing"));
    el("word-form").classList.toggle("hidden", room.current_player_id !== playerId);
  }

  async function send(action, payload) {
    showError("");
    const res = await fetch(api, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ action: action, payload: payload }),
    });
    const body = await res.json();
    if (!res.ok) {
      showError(body.error ? body.error.message + (body.error.reason ? " (" + body.error.reason + ")" : "") : "Request failed");
      return null;
    }
    return body;
  }

  el("join-form").addEventListener("submit", async (ev) => {
    ev.preventDefault();
    const body = await send("join_game", { name: ev.target.name.value });
    if (body && body.player_id) {
      playerId = body.player_id;
      sessionStorage.setItem(storageKey, playerId);
      render(body);
      if (!source) subscribe();
    }
  });

  el("start-button").addEventListener("click", () => send("start_game", { player_id: playerId }));

  el("word-form").addEventListener("submit", async (ev) => {
    ev.preventDefault();
    const input = ev.target.word;
    if (await send("submit_word", { player_id: playerId, word: input.value })) input.value = "";
  });

  el("leave-button").addEventListener("click", async () => {
    await send("leave_game", { player_id: playerId });
    sessionStorage.removeItem(storageKey);
    playerId = null;
    window.location.href = "/";
  });

  setInterval(() => {
    const timer = el("timer");
    if (!room || room.state !== "playing" || !room.turn_deadline) {
      timer.textContent = "";
      return;
    }
    const left = Math.max(0, new Date(room.turn_deadline).getTime() - Date.now());
    timer.textContent = (left / 1000).toFixed(1) + "s";
    if (left === 0 && room.current_player_id === playerId && !timeoutSent) {
      timeoutSent = true;
      send("timeout", { player_id: playerId });
    }
  }, 100);

  let source = null;
  function subscribe() {
    source = new EventSource(api + "/events");
    source.addEventListener("game_update", (ev) => render(JSON.parse(ev.data)));
    source.addEventListener("game_deleted", () => {
      el("room-status").textContent = "This room has been closed.";
      source.close();
    });
  }

  fetch(api).then((res) => (res.ok ? res.json() : null)).then((body) => {
    if (body) {
      render(body);
      subscribe();
    }
  });
})();
`
