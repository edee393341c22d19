package history

import (
	"context"

	"github.com/mcoot/wordchain-go/internal/model"
)

// Recorder stores finished rounds
type Recorder interface {
	// Record persists a finished round. The record ID must be set.
	Record(ctx context.Context, rec *model.RoundRecord) error

	// ListByGame returns the rounds of a game, most recent first.
	// A limit of 0 or less returns every round.
	ListByGame(ctx context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error)

	Close() error
}
