package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/socialsphere/socialsphere-app/internal/domain"
)

// SchemaVersion is the current on-disk schema version. Opening a store
// written by a newer build fails with ErrSchemaVersion rather than
// silently misreading records.
const SchemaVersion = 1

var schemaVersionKey = []byte("meta:schema_version")

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users         *Entity[domain.User]
	Posts         *Entity[domain.Post]
	Comments      *Entity[domain.Comment]
	Notifications *Entity[domain.Notification]
	Friends       *Entity[domain.Friend]
	Messages      *Entity[domain.Message]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	if err := store.checkSchemaVersion(); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize generic entities
	store.initUsers()
	store.initPosts()
	store.initComments()
	store.initNotifications()
	store.initFriends()
	store.initMessages()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path, "schema_version", SchemaVersion)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// checkSchemaVersion reads the stored schema version and stamps the
// current version. A fresh database gets the current version; an older
// database is migrated forward; a newer one is rejected.
func (s *Store) checkSchemaVersion() error {
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(schemaVersionKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return txn.Set(schemaVersionKey, []byte(strconv.Itoa(SchemaVersion)))
		}
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}

		var stored int
		err = item.Value(func(val []byte) error {
			stored, err = strconv.Atoi(string(val))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to parse schema version: %w", err)
		}

		switch {
		case stored == SchemaVersion:
			return nil
		case stored > SchemaVersion:
			return ErrSchemaVersion.WithMessage(
				fmt.Sprintf("database schema version %d is newer than supported version %d", stored, SchemaVersion))
		default:
			// Migrations between versions run here as the schema evolves.
			// Version 1 is the first released schema, so there is nothing
			// to migrate yet; just stamp the new version.
			if s.logger != nil {
				s.logger.Info("Migrating database schema", "from", stored, "to", SchemaVersion)
			}
			return txn.Set(schemaVersionKey, []byte(strconv.Itoa(SchemaVersion)))
		}
	})
}

// Helper methods for database operations.

// set stores a raw value by key.
func (s *Store) set(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
