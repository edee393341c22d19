package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/wordchain-go/internal/history"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Recorder is an in-memory round history
type Recorder struct {
	mu     sync.RWMutex
	rounds map[model.GameID][]*model.RoundRecord
}

var _ history.Recorder = (*Recorder)(nil)

// New creates an empty in-memory recorder
func New() *Recorder {
	return &Recorder{
		rounds: make(map[model.GameID][]*model.RoundRecord),
	}
}

func (r *Recorder) Record(_ context.Context, rec *model.RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *rec
	stored.Words = slices.Clone(rec.Words)
	r.rounds[rec.GameID] = append(r.rounds[rec.GameID], &stored)
	return nil
}

func (r *Recorder) ListByGame(_ context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rounds := r.rounds[gameID]
	result := make([]*model.RoundRecord, 0, len(rounds))
	for i := len(rounds) - 1; i >= 0; i-- {
		if limit > 0 && len(result) == limit {
			break
		}
		rec := *rounds[i]
		rec.Words = slices.Clone(rounds[i].Words)
		result = append(result, &rec)
	}
	return result, nil
}

func (r *Recorder) Close() error {
	return nil
}
