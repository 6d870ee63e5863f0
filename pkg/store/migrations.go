package store

import (
	"database/sql"
	"fmt"
)

// migration is a single schema migration.
type migration struct {
	Version int
	Name    string
	Apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{Version: 1, Name: "initial_schema", Apply: migrateV001},
}

// migrate enables WAL mode and foreign keys, then applies every pending
// migration in order, each inside its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		err := db.QueryRow(
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		if err := applyMigration(db, m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(tx); err != nil {
		return err
	}

	if _, err := tx.Exec(
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}

// migrateV001 creates the projection schema. (channel_id, ts) is the
// message primary key; reactions reference it as a composite foreign
// key. thread_docs holds pre-rendered thread content per format.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS channels (
			id      TEXT PRIMARY KEY,
			name    TEXT NOT NULL,
			topic   TEXT NOT NULL DEFAULT '',
			purpose TEXT NOT NULL DEFAULT '',
			created DATETIME
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id        TEXT PRIMARY KEY,
			name      TEXT NOT NULL,
			real_name TEXT NOT NULL DEFAULT '',
			is_bot    BOOLEAN NOT NULL DEFAULT 0,
			deleted   BOOLEAN NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			channel_id TEXT NOT NULL REFERENCES channels(id),
			ts         TEXT NOT NULL,
			parent_ts  TEXT,
			author_id  TEXT NOT NULL REFERENCES users(id),
			body       TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (channel_id, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS reactions (
			message_channel_id TEXT NOT NULL,
			message_ts         TEXT NOT NULL,
			emoji              TEXT NOT NULL,
			user_id            TEXT NOT NULL,
			FOREIGN KEY (message_channel_id, message_ts)
				REFERENCES messages(channel_id, ts)
		)`,

		`CREATE TABLE IF NOT EXISTS thread_docs (
			channel_id TEXT NOT NULL,
			ts         TEXT NOT NULL,
			format     TEXT NOT NULL,
			content    TEXT NOT NULL,
			PRIMARY KEY (channel_id, ts, format)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_messages_parent  ON messages(channel_id, parent_ts)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_author  ON messages(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_msg    ON reactions(message_channel_id, message_ts)`,
		`CREATE INDEX IF NOT EXISTS idx_reactions_emoji  ON reactions(emoji)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
