package sql

import (
	"time"

	"github.com/mcoot/wordchain-go/internal/model"
)

// roundRow is the table row of a finished round
type roundRow struct {
	ID               string    `gorm:"primarykey;size:36"`
	GameID           string    `gorm:"size:64;not null;index:idx_rounds_game_ended,priority:1"`
	Words            []string  `gorm:"serializer:json;not null"`
	LosingPlayerID   string    `gorm:"size:32;not null"`
	LosingPlayerName string    `gorm:"size:100;not null"`
	Reason           string    `gorm:"size:20;not null"`
	StartedAt        time.Time `gorm:"not null"`
	EndedAt          time.Time `gorm:"not null;index:idx_rounds_game_ended,priority:2"`
}

// TableName returns the table name for round rows
func (roundRow) TableName() string {
	return "round_history"
}

func toRow(rec *model.RoundRecord) *roundRow {
	words := rec.Words
	if words == nil {
		words = []string{}
	}
	return &roundRow{
		ID:               rec.ID,
		GameID:           string(rec.GameID),
		Words:            words,
		LosingPlayerID:   string(rec.LosingPlayerID),
		LosingPlayerName: rec.LosingPlayerName,
		Reason:           string(rec.Reason),
		StartedAt:        rec.StartedAt.UTC(),
		EndedAt:          rec.EndedAt.UTC(),
	}
}

func (r *roundRow) toModel() *model.RoundRecord {
	return &model.RoundRecord{
		ID:               r.ID,
		GameID:           model.GameID(r.GameID),
		Words:            r.Words,
		LosingPlayerID:   model.PlayerID(r.LosingPlayerID),
		LosingPlayerName: r.LosingPlayerName,
		Reason:           model.RoundEndReason(r.Reason),
		StartedAt:        r.StartedAt,
		EndedAt:          r.EndedAt,
	}
}
