// Package sql stores round history in a relational database through GORM.
package sql

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoot/wordchain-go/internal/history"
	"github.com/mcoot/wordchain-go/internal/model"
)

// Recorder is a GORM-backed round history
type Recorder struct {
	db *gorm.DB
}

var _ history.Recorder = (*Recorder)(nil)

// OpenSQLite opens (or creates) a SQLite database at path and migrates the schema
func OpenSQLite(path string) (*Recorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return New(db)
}

// New wraps an open database and migrates the schema
func New(db *gorm.DB) (*Recorder, error) {
	if err := db.AutoMigrate(&roundRow{}); err != nil {
		return nil, fmt.Errorf("migrate history database: %w", err)
	}
	return &Recorder{db: db}, nil
}

func (r *Recorder) Record(ctx context.Context, rec *model.RoundRecord) error {
	if err := r.db.WithContext(ctx).Create(toRow(rec)).Error; err != nil {
		return fmt.Errorf("failed to record round: %w", err)
	}
	return nil
}

func (r *Recorder) ListByGame(ctx context.Context, gameID model.GameID, limit int) ([]*model.RoundRecord, error) {
	query := r.db.WithContext(ctx).
		Where("game_id = ?", string(gameID)).
		Order("ended_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*roundRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}

	records := make([]*model.RoundRecord, len(rows))
	for i, row := range rows {
		records[i] = row.toModel()
	}
	return records, nil
}

func (r *Recorder) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
