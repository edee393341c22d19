package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/history"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/storage"
)

// DefaultMaxAttempts bounds the load-apply-save retries on version conflicts
const DefaultMaxAttempts = 5

// Notifier pushes committed room state to subscribers
type Notifier interface {
	Notify(ctx context.Context, room *model.Room)
	NotifyDeleted(ctx context.Context, gameID model.GameID)
}

// Observer receives operational measurements
type Observer interface {
	ObserveAction(action string, outcome string, elapsed time.Duration)
	RoomCreated()
	RoomDeleted()
	RoundEnded(reason string)
}

// Controller runs room operations against storage: load, apply the machine
// transition to a copy, save with a version check, then notify.
type Controller struct {
	storage  storage.Storage
	machine  *Machine
	history  history.Recorder
	notifier Notifier
	observer Observer
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	locks       *keyedLocker
	maxAttempts int
}

// NewController creates a new RoomController. notifier and observer may be nil.
func NewController(
	storage storage.Storage,
	machine *Machine,
	history history.Recorder,
	notifier Notifier,
	observer Observer,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Controller{
		storage:     storage,
		machine:     machine,
		history:     history,
		notifier:    notifier,
		observer:    observer,
		clock:       clock,
		random:      random,
		logger:      logger.With(slog.String("component", "room")),
		locks:       newKeyedLocker(),
		maxAttempts: DefaultMaxAttempts,
	}
}

// Rules returns the room limits in effect
func (c *Controller) Rules() Rules {
	return c.machine.Rules()
}

// GetRoom retrieves a room by game ID
func (c *Controller) GetRoom(ctx context.Context, gameID model.GameID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, gameID)
}

// ListRooms returns a summary of every room
func (c *Controller) ListRooms(ctx context.Context) ([]model.RoomSummary, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.RoomSummary, len(rooms))
	for i, room := range rooms {
		summaries[i] = room.Summary()
	}
	return summaries, nil
}

// ListRounds returns the finished rounds of a game, most recent first
func (c *Controller) ListRounds(ctx context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error) {
	return c.history.ListByGame(ctx, gameID, limit)
}

// Join adds a player to the room, creating the room if it does not exist
func (c *Controller) Join(ctx context.Context, gameID model.GameID, name string) (*model.Room, model.PlayerID, error) {
	res, err := c.mutate(ctx, ActionJoin, gameID, true, func(room *model.Room, now time.Time) (transition, error) {
		return c.machine.Join(room, name, now)
	})
	if err != nil {
		return nil, "", err
	}
	return res.Room, res.PlayerID, nil
}

// Start begins or restarts the round
func (c *Controller) Start(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Room, error) {
	res, err := c.mutate(ctx, ActionStart, gameID, false, func(room *model.Room, now time.Time) (transition, error) {
		return c.machine.Start(room, playerID, now)
	})
	if err != nil {
		return nil, err
	}
	return res.Room, nil
}

// SubmitWord plays a word for the player holding the turn
func (c *Controller) SubmitWord(ctx context.Context, gameID model.GameID, playerID model.PlayerID, word string) (*model.Room, error) {
	res, err := c.mutate(ctx, ActionSubmit, gameID, false, func(room *model.Room, now time.Time) (transition, error) {
		return c.machine.SubmitWord(room, playerID, word, now)
	})
	if err != nil {
		return nil, err
	}
	return res.Room, nil
}

// Timeout ends the running round when a client's timer fires
func (c *Controller) Timeout(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Room, error) {
	res, err := c.mutate(ctx, ActionTimeout, gameID, false, func(room *model.Room, now time.Time) (transition, error) {
		return c.machine.Timeout(room, playerID, now)
	})
	if err != nil {
		return nil, err
	}
	return res.Room, nil
}

// Leave removes a player. deleted reports that the room is gone.
func (c *Controller) Leave(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (room *model.Room, deleted bool, err error) {
	res, err := c.mutate(ctx, ActionLeave, gameID, false, func(room *model.Room, now time.Time) (transition, error) {
		return c.machine.Leave(room, playerID, now)
	})
	if err != nil {
		return nil, false, err
	}
	return res.Room, res.Deleted, nil
}

// Dispatch runs a client action request
func (c *Controller) Dispatch(ctx context.Context, gameID model.GameID, req ActionRequest) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.Payload
	switch req.Action {
	case ActionJoin:
		room, playerID, err := c.Join(ctx, gameID, p.Name)
		if err != nil {
			return nil, err
		}
		return &Result{Room: room, PlayerID: playerID}, nil
	case ActionStart:
		room, err := c.Start(ctx, gameID, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return &Result{Room: room}, nil
	case ActionSubmit:
		room, err := c.SubmitWord(ctx, gameID, p.PlayerID, p.Word)
		if err != nil {
			return nil, err
		}
		return &Result{Room: room}, nil
	case ActionTimeout:
		room, err := c.Timeout(ctx, gameID, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return &Result{Room: room}, nil
	case ActionLeave:
		room, deleted, err := c.Leave(ctx, gameID, p.PlayerID)
		if err != nil {
			return nil, err
		}
		return &Result{Room: room, Deleted: deleted}, nil
	}

	return nil, fmt.Errorf("%w: %q", model.ErrInvalidAction, req.Action)
}

type applyFunc func(room *model.Room, now time.Time) (transition, error)

// mutate serializes operations on one game and retries the whole pass when
// another writer saved the room first
func (c *Controller) mutate(ctx context.Context, action Action, gameID model.GameID, allowCreate bool, apply applyFunc) (*Result, error) {
	started := c.clock.Now()

	unlock := c.locks.Lock(gameID)
	defer unlock()

	var (
		res *Result
		err error
	)
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		res, err = c.attempt(ctx, gameID, allowCreate, apply)
		if !errors.Is(err, model.ErrVersionConflict) {
			break
		}
		c.logger.Warn("version conflict, retrying",
			slog.String("game_id", string(gameID)),
			slog.String("action", string(action)),
			slog.Int("attempt", attempt),
		)
	}

	if res != nil && res.tr.changed {
		c.afterCommit(ctx, gameID, res)
	}

	c.observer.ObserveAction(string(action), Outcome(err), c.clock.Now().Sub(started))
	if err != nil {
		return nil, err
	}
	return res, nil
}

// attempt runs one load-apply-save pass. A non-nil result with an error
// means the transition was committed and still failed the caller.
func (c *Controller) attempt(ctx context.Context, gameID model.GameID, allowCreate bool, apply applyFunc) (*Result, error) {
	now := c.clock.Now()

	current, err := c.storage.GetRoom(ctx, gameID)
	created := false
	if errors.Is(err, model.ErrRoomNotFound) && allowCreate {
		current = c.machine.NewRoom(gameID, now)
		created = true
	} else if err != nil {
		return nil, err
	}

	next := current.Clone()
	tr, applyErr := apply(next, now)
	if !tr.changed {
		if applyErr != nil {
			return nil, applyErr
		}
		return &Result{Room: current, PlayerID: tr.playerID, tr: tr}, nil
	}

	if tr.deleted {
		if err := c.storage.DeleteRoom(ctx, gameID, current.Version); err != nil {
			return nil, c.storageError(gameID, "delete room", err)
		}
		return &Result{Deleted: true, tr: tr}, applyErr
	}

	if err := c.storage.SaveRoom(ctx, next); err != nil {
		return nil, c.storageError(gameID, "save room", err)
	}

	return &Result{Room: next, PlayerID: tr.playerID, created: created, tr: tr}, applyErr
}

func (c *Controller) storageError(gameID model.GameID, op string, err error) error {
	if errors.Is(err, model.ErrVersionConflict) {
		return err
	}
	c.logger.Error("storage failure",
		slog.String("game_id", string(gameID)),
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s: %w", op, err)
}

// afterCommit runs the side effects of a persisted transition
func (c *Controller) afterCommit(ctx context.Context, gameID model.GameID, res *Result) {
	if res.tr.deleted {
		c.logger.Info("room deleted", slog.String("game_id", string(gameID)))
		c.observer.RoomDeleted()
		c.notifier.NotifyDeleted(ctx, gameID)
		return
	}

	if res.created {
		c.logger.Info("room created",
			slog.String("game_id", string(gameID)),
			slog.String("host_id", string(res.Room.HostID)),
		)
		c.observer.RoomCreated()
	}

	if res.tr.roundEnded != "" {
		c.recordRound(ctx, res.Room, res.tr.roundEnded)
	}

	c.notifier.Notify(ctx, res.Room)
}

func (c *Controller) recordRound(ctx context.Context, room *model.Room, reason model.RoundEndReason) {
	rec := &model.RoundRecord{
		ID:      c.random.UUID(),
		GameID:  room.GameID,
		Words:   slices.Clone(room.Words),
		Reason:  reason,
		EndedAt: room.UpdatedAt,
	}
	if loser := room.Loser(); loser != nil {
		rec.LosingPlayerID = loser.ID
		rec.LosingPlayerName = loser.Name
	}
	if room.RoundStartedAt != nil {
		rec.StartedAt = *room.RoundStartedAt
	}

	c.logger.Info("round ended",
		slog.String("game_id", string(room.GameID)),
		slog.String("reason", string(reason)),
		slog.String("loser", rec.LosingPlayerName),
		slog.Int("word_count", len(rec.Words)),
	)
	c.observer.RoundEnded(string(reason))

	if err := c.history.Record(ctx, rec); err != nil {
		c.logger.Error("failed to record round",
			slog.String("game_id", string(room.GameID)),
			slog.String("error", err.Error()),
		)
	}
}

// Outcome labels an operation result for metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, model.ErrRoomFull):
		return "room_full"
	case errors.Is(err, model.ErrNotHost):
		return "not_host"
	case errors.Is(err, model.ErrNotPlayerTurn):
		return "not_your_turn"
	case errors.Is(err, model.ErrTurnExpired):
		return "turn_expired"
	case errors.Is(err, model.ErrInvalidWord):
		return "invalid_word"
	case errors.Is(err, model.ErrNotPlaying),
		errors.Is(err, model.ErrInvalidAction),
		errors.Is(err, model.ErrInvalidName),
		errors.Is(err, model.ErrInvalidRequest):
		return "rejected"
	case errors.Is(err, model.ErrVersionConflict):
		return "conflict"
	default:
		return "error"
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, *model.Room)         {}
func (nopNotifier) NotifyDeleted(context.Context, model.GameID) {}

type nopObserver struct{}

func (nopObserver) ObserveAction(string, string, time.Duration) {}
func (nopObserver) RoomCreated()                                {}
func (nopObserver) RoomDeleted()                                {}
func (nopObserver) RoundEnded(string)                           {}
