// Package storage persists the learned state of the matcher: confirmed
// description-to-code overrides (in SQLite plus a JSON mirror) and the
// history of published predictions.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/frsuministros/orderflow/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Store implements the confirmed-match store and prediction history on a
// single SQLite database. The database file doubles as the structured dump
// of the confirmed map; mirrorPath is the human-readable JSON copy that is
// regenerated in full on every confirmation.
type Store struct {
	db         *sql.DB
	dbPath     string
	mirrorPath string

	// mu scopes the whole read-modify-persist sequence of Confirm so the
	// map and both on-disk forms never diverge mid-write.
	mu        sync.Mutex
	confirmed map[string]string

	historyLimit int
}

// DefaultHistoryLimit bounds the prediction history table.
const DefaultHistoryLimit = 1000

// Open opens (or creates) the store, runs migrations, and loads the
// confirmed map. A corrupt database file is moved aside and replaced with
// an empty one rather than failing startup.
func Open(dbPath, mirrorPath string, historyLimit int) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: storage path", common.ErrMissingConfig)
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := openAndMigrate(dbPath)
	if err != nil {
		if !isCorruption(err) {
			return nil, err
		}

		// Self-heal: keep the bad file for inspection and start empty.
		quarantine := fmt.Sprintf("%s.corrupt.%d", dbPath, time.Now().Unix())
		slog.Error("Store corrupted, starting empty", "db", dbPath, "moved_to", quarantine, "error", err)
		if renameErr := os.Rename(dbPath, quarantine); renameErr != nil {
			return nil, fmt.Errorf("%w: could not quarantine %s: %v", common.ErrStoreCorrupted, dbPath, renameErr)
		}
		if db, err = openAndMigrate(dbPath); err != nil {
			return nil, err
		}
	}

	s := &Store{
		db:           db,
		dbPath:       dbPath,
		mirrorPath:   mirrorPath,
		confirmed:    make(map[string]string),
		historyLimit: historyLimit,
	}

	if err := s.loadConfirmed(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Make sure the mirror exists even before the first confirmation.
	if mirrorPath != "" {
		if _, statErr := os.Stat(mirrorPath); os.IsNotExist(statErr) {
			if err := s.writeMirror(); err != nil {
				slog.Warn("Failed to seed JSON mirror", "path", mirrorPath, "error", err)
			}
		}
	}

	return s, nil
}

func openAndMigrate(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func isCorruption(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "file is not a database") ||
		strings.Contains(msg, "database disk image is malformed")
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
