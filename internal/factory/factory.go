package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/wordchain-go/internal/dependencies/clock"
	"github.com/mcoot/wordchain-go/internal/dependencies/random"
	"github.com/mcoot/wordchain-go/internal/history"
	historymemory "github.com/mcoot/wordchain-go/internal/history/memory"
	historysql "github.com/mcoot/wordchain-go/internal/history/sql"
	"github.com/mcoot/wordchain-go/internal/metrics"
	"github.com/mcoot/wordchain-go/internal/model"
	"github.com/mcoot/wordchain-go/internal/realtime"
	"github.com/mcoot/wordchain-go/internal/services/dictionary"
	"github.com/mcoot/wordchain-go/internal/services/room"
	"github.com/mcoot/wordchain-go/internal/services/wordrule"
	"github.com/mcoot/wordchain-go/internal/storage"
	"github.com/mcoot/wordchain-go/internal/storage/memory"
	redisstorage "github.com/mcoot/wordchain-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage
	History history.Recorder

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	DictionaryService *dictionary.Service
	Validator         *wordrule.Validator
	Machine           *room.Machine
	RoomController    *room.Controller

	// Push delivery and observability
	HubManager  *realtime.HubManager
	Broadcaster *realtime.Broadcaster
	Realtime    *realtime.Handler
	Metrics     *metrics.Metrics

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// HistoryDBPath is the SQLite file for round history
	// If empty, history is kept in memory
	HistoryDBPath string
	// DictionaryPath is the path to a word list (optional)
	// If empty, a word list previously saved to storage is used when present
	DictionaryPath string
	// RequireDictionary makes New fail when no word list could be loaded
	RequireDictionary bool
	// Rules holds room limits; zero fields fall back to room.DefaultRules()
	Rules room.Rules
	// MinWordLength is the shortest accepted word; 0 means wordrule.DefaultMinLength
	MinWordLength int
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	var recorder history.Recorder
	if cfg.HistoryDBPath != "" {
		sqlRecorder, err := historysql.OpenSQLite(cfg.HistoryDBPath)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		recorder = sqlRecorder
	} else {
		recorder = historymemory.New()
	}

	app := newWithDependencies(store, recorder, clock.New(), random.New(), cfg, logger)

	if err := app.loadDictionary(ctx, cfg); err != nil {
		_ = app.Close()
		return nil, err
	}

	if rooms, err := store.ListRooms(ctx); err != nil {
		logger.Warn("could not count existing rooms", slog.String("error", err.Error()))
	} else {
		app.Metrics.SetActiveRooms(len(rooms))
	}

	return app, nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory' or 'redis'", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	recorder history.Recorder,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *App {
	rules := room.DefaultRules()
	if cfg.Rules.MaxPlayers > 0 {
		rules.MaxPlayers = cfg.Rules.MaxPlayers
	}
	if cfg.Rules.TurnDuration > 0 {
		rules.TurnDuration = cfg.Rules.TurnDuration
	}

	dictService := dictionary.New(store)
	validator := wordrule.New(cfg.MinWordLength).WithDictionary(dictService)
	machine := room.NewMachine(rules, validator, rnd)

	hubManager := realtime.NewHubManager(logger)
	broadcaster := realtime.NewBroadcaster(hubManager, rules.TurnDuration, logger)
	m := metrics.New()
	m.RegisterConnectedClients(hubManager.ClientCount)

	controller := room.NewController(store, machine, recorder, broadcaster, m, clk, rnd, logger)
	realtimeHandler := realtime.NewHandler(hubManager, controller, rules.TurnDuration, rnd, logger)

	return &App{
		Storage:           store,
		History:           recorder,
		Clock:             clk,
		Random:            rnd,
		DictionaryService: dictService,
		Validator:         validator,
		Machine:           machine,
		RoomController:    controller,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
		Realtime:          realtimeHandler,
		Metrics:           m,
		logger:            logger,
	}
}

// loadDictionary loads the word list from the configured file, or from
// storage when no file is configured
func (a *App) loadDictionary(ctx context.Context, cfg Config) error {
	var err error
	if cfg.DictionaryPath != "" {
		err = a.DictionaryService.LoadFromFile(ctx, cfg.DictionaryPath)
	} else {
		err = a.DictionaryService.LoadFromStorage(ctx)
	}

	switch {
	case err == nil:
		a.logger.Info("dictionary loaded", slog.Int("words", a.DictionaryService.WordCount()))
		return nil
	case cfg.RequireDictionary:
		return fmt.Errorf("load dictionary: %w", err)
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		a.logger.Info("no dictionary configured, accepting any hangul word")
		return nil
	default:
		a.logger.Warn("could not load dictionary", slog.String("error", err.Error()))
		return nil
	}
}

// Close releases push subscribers, the history store and the room store
func (a *App) Close() error {
	a.HubManager.Close()
	return errors.Join(a.History.Close(), a.Storage.Close())
}
