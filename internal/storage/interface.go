package storage

import (
	"context"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Storage defines the interface for data persistence.
//
// Room writes are version-checked: SaveRoom succeeds only if the stored room
// still has room.Version (0 means the room must not exist yet). On success the
// store increments room.Version in place. A mismatch returns
// model.ErrVersionConflict and leaves the stored room untouched.
type Storage interface {
	// Room operations
	GetRoom(ctx context.Context, id model.GameID) (*model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id model.GameID, version int64) error
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Dictionary operations
	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error

	Close() error
}
