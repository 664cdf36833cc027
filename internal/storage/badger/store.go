// Package badger provides BadgerHold-based storage implementations.
package badger

import (
	"fmt"
	"os"

	"github.com/bobmcallan/yardstick/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// Store owns the BadgerHold database shared by the portfolio and market data
// storages.
type Store struct {
	db     *badgerhold.Store
	path   string
	logger *common.Logger
}

// NewStore opens (creating if needed) the BadgerHold database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // badger's own logger is noisy at INFO

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger database at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("Storage opened")

	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Debug().Str("path", s.path).Msg("Storage closed")
	return s.db.Close()
}
