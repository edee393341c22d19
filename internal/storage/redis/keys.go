package redis

import (
	"fmt"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordchain"

// roomKey returns the Redis key for a Room document
func roomKey(id model.GameID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomsIndexKey returns the Redis key for the SET of known game IDs
func roomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// dictionaryKey returns the Redis key for the dictionary word set
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
