// Package config reads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/wordchain-go/internal/api"
	"github.com/mcoot/wordchain-go/internal/factory"
	"github.com/mcoot/wordchain-go/internal/services/room"
	"github.com/mcoot/wordchain-go/internal/services/wordrule"
	redisstorage "github.com/mcoot/wordchain-go/internal/storage/redis"
)

// DefaultEnvFiles are loaded in order; earlier files win, and variables
// already set in the environment win over both
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config is the server configuration
type Config struct {
	Server   api.ServerConfig
	LogLevel slog.Level

	StorageType string
	RedisURL    string

	HistoryDBPath     string
	DictionaryPath    string
	RequireDictionary bool
	StaticDir         string

	MaxPlayers    int
	MinWordLength int
	TurnDuration  time.Duration

	// HubCleanupInterval is how often idle push hubs are dropped
	HubCleanupInterval time.Duration
}

// Load reads env files, then the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = DefaultEnvFiles
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return FromEnv()
}

// FromEnv builds a Config from environment variables
func FromEnv() (*Config, error) {
	p := &parser{}
	defaults := room.DefaultRules()

	cfg := &Config{
		Server:             api.DefaultServerConfig(),
		StorageType:        p.str("STORAGE_TYPE", factory.StorageTypeMemory),
		RedisURL:           p.str("REDIS_URL", ""),
		HistoryDBPath:      p.str("HISTORY_DB_PATH", ""),
		DictionaryPath:     p.str("DICTIONARY_PATH", ""),
		RequireDictionary:  p.boolean("REQUIRE_DICTIONARY", false),
		StaticDir:          p.str("STATIC_DIR", ""),
		MaxPlayers:         p.integer("MAX_PLAYERS", defaults.MaxPlayers),
		MinWordLength:      p.integer("MIN_WORD_LENGTH", wordrule.DefaultMinLength),
		TurnDuration:       p.duration("TURN_DURATION", defaults.TurnDuration),
		HubCleanupInterval: p.duration("HUB_CLEANUP_INTERVAL", time.Minute),
	}
	cfg.Server.Host = p.str("HOST", cfg.Server.Host)
	cfg.Server.Port = p.integer("PORT", cfg.Server.Port)
	cfg.LogLevel = p.level("LOG_LEVEL", slog.LevelInfo)

	switch cfg.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if cfg.RedisURL == "" {
			p.fail("REDIS_URL", errors.New("required when STORAGE_TYPE=redis"))
		}
	default:
		p.fail("STORAGE_TYPE", fmt.Errorf("unknown storage type %q", cfg.StorageType))
	}
	if cfg.MaxPlayers < 2 {
		p.fail("MAX_PLAYERS", errors.New("must be at least 2"))
	}
	if cfg.TurnDuration <= 0 {
		p.fail("TURN_DURATION", errors.New("must be positive"))
	}
	if cfg.HubCleanupInterval <= 0 {
		p.fail("HUB_CLEANUP_INTERVAL", errors.New("must be positive"))
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Factory converts the configuration into the application factory input
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:            logger,
		StorageType:       c.StorageType,
		HistoryDBPath:     c.HistoryDBPath,
		DictionaryPath:    c.DictionaryPath,
		RequireDictionary: c.RequireDictionary,
		Rules: room.Rules{
			MaxPlayers:   c.MaxPlayers,
			TurnDuration: c.TurnDuration,
		},
		MinWordLength: c.MinWordLength,
	}

	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	}

	return fc
}

// NewLogger creates the JSON logger the server writes to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: c.LogLevel,
	}))
}

type parser struct {
	errs []error
}

func (p *parser) fail(key string, err error) {
	p.errs = append(p.errs, fmt.Errorf("invalid %s: %w", key, err))
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (p *parser) integer(key string, def int) int {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return n
}

func (p *parser) boolean(key string, def bool) bool {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return b
}

// duration accepts Go durations ("10s") or a bare number of milliseconds
func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, err)
		return def
	}
	return d
}

func (p *parser) level(key string, def slog.Level) slog.Level {
	v := p.str(key, "")
	if v == "" {
		return def
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		p.fail(key, err)
		return def
	}
	return lvl
}
