// Package persistence provides the SQLite-backed save gateway. A save is an
// opaque JSON bundle keyed by slot; a separate meta table records the
// tutorial-completed flag independently of any save.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/green-world/internal/catalog"
	"github.com/talgya/green-world/internal/game"
)

// DefaultSlot is the single save slot the game uses.
const DefaultSlot = "green_world"

const tutorialCompletedKey = "tutorial_completed"

// DB wraps a SQLite connection for save-game storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrateSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrateSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveBundle writes the bundle into the given slot, replacing any prior save.
func (db *DB) SaveBundle(slot string, b *game.Bundle) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	_, err = db.conn.Exec(
		"INSERT OR REPLACE INTO saves (slot, data, saved_at) VALUES (?, ?, ?)",
		slot, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("write save: %w", err)
	}
	slog.Info("game saved", "slot", slot, "bytes", len(data))
	return nil
}

// LoadBundle reads and migrates the bundle in the given slot. A missing slot
// returns (nil, false, nil). Corrupt data is logged and treated as absent so
// the player falls back to a fresh game instead of seeing a parse failure.
func (db *DB) LoadBundle(slot string, c *catalog.Catalog) (*game.Bundle, bool, error) {
	var data string
	err := db.conn.Get(&data, "SELECT data FROM saves WHERE slot = ?", slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read save: %w", err)
	}

	var b game.Bundle
	if err := json.Unmarshal([]byte(data), &b); err != nil {
		slog.Error("corrupt save discarded", "slot", slot, "error", err)
		return nil, false, nil
	}
	if b.GameState == nil {
		slog.Error("corrupt save discarded", "slot", slot, "error", "missing game state")
		return nil, false, nil
	}

	migrateBundle(&b, c)
	return &b, true, nil
}

// DeleteBundle removes the save in the given slot.
func (db *DB) DeleteBundle(slot string) error {
	_, err := db.conn.Exec("DELETE FROM saves WHERE slot = ?", slot)
	return err
}

// HasBundle reports whether a save exists in the given slot.
func (db *DB) HasBundle(slot string) (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM saves WHERE slot = ?", slot); err != nil {
		return false, err
	}
	return n > 0, nil
}

// TutorialCompleted reports whether the guided tutorial has ever been
// finished or skipped. Independent of any save slot.
func (db *DB) TutorialCompleted() bool {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", tutorialCompletedKey)
	if err != nil {
		return false
	}
	return value == "true"
}

// SetTutorialCompleted records that the tutorial has been finished.
func (db *DB) SetTutorialCompleted() error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		tutorialCompletedKey, "true",
	)
	return err
}
