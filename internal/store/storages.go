package store

import (
	"context"
	"fmt"

	"github.com/sjdillon/qthena/internal/config"
	"github.com/sjdillon/qthena/internal/logger"
)

// Storages bundles the repositories backed by one database connection.
type Storages struct {
	HistoryRepository HistoryRepository

	db *DB
}

// NewStorages connects to the history database, applies pending migrations
// and builds the repositories.
func NewStorages(ctx context.Context, cfg config.History, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return &Storages{
		HistoryRepository: NewHistoryRepository(db, log),
		db:                db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
