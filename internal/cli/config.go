package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	StateDir  string
	PlayerID  string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: getEnvOrDefault("WORDCHAIN_SERVER", "http://localhost:8080"),
		StateDir:  getEnvOrDefault("WORDCHAIN_STATE_DIR", defaultStateDir()),
		Output:    "text",
		Verbose:   false,
	}
}

// ResolvePlayer returns the player id for a game: the --player flag when
// given, otherwise the id saved when this CLI joined the game
func (c *Config) ResolvePlayer(gameID string) (string, error) {
	if c.PlayerID != "" {
		return c.PlayerID, nil
	}

	data, err := os.ReadFile(c.playerFile(gameID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("not joined to game %q: run 'wordchain join %s --name <name>' or pass --player", gameID, gameID)
		}
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// SavePlayer remembers the player id for a game
func (c *Config) SavePlayer(gameID, playerID string) error {
	if err := os.MkdirAll(c.StateDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(c.playerFile(gameID), []byte(playerID), 0600)
}

// ForgetPlayer removes the saved player id for a game
func (c *Config) ForgetPlayer(gameID string) error {
	err := os.Remove(c.playerFile(gameID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (c *Config) playerFile(gameID string) string {
	return filepath.Join(c.StateDir, url.PathEscape(gameID)+".player")
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wordchain"
	}
	return filepath.Join(home, ".wordchain")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
