// Package store materializes the reconstructed conversation model into a
// normalized SQLite schema. Projection is a full rebuild: the target
// store is cleared and repopulated inside one transaction, so either the
// rebuild commits completely or the prior contents remain untouched.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/testsabirweb/slack_archive/pkg/models"
	"github.com/testsabirweb/slack_archive/pkg/render"
	"github.com/testsabirweb/slack_archive/pkg/thread"
)

// IntegrityError reports a message whose channel or author foreign key
// does not resolve to a loaded entity. The rebuild fails fast and the
// store is left unmodified.
type IntegrityError struct {
	ChannelID string
	TS        string
	Field     string // "channel" or "author"
	Ref       string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("message %s:%s references unknown %s %q",
		e.ChannelID, e.TS, e.Field, e.Ref)
}

// Snapshot is everything one rebuild projects: the entity collections
// plus the reconstructed per-channel forests.
type Snapshot struct {
	Channels []models.Channel
	Users    []models.User
	Forests  map[string]*thread.Forest
}

// Options tunes one rebuild.
type Options struct {
	// RenderFormats lists the formats to pre-render into thread_docs;
	// empty means no rendered side tables.
	RenderFormats []render.Format
	// Resolver supplies display names for rendering; required when
	// RenderFormats is non-empty.
	Resolver render.Resolver
}

// Store is a SQLite projection target.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for read-only queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Rebuild clears and repopulates the store from the snapshot in a
// single transaction. Every message's channel and author foreign key is
// validated before the first insert; a dangling reference aborts with
// IntegrityError and the previously committed contents stay in place.
func (s *Store) Rebuild(ctx context.Context, snap *Snapshot, opts Options) error {
	if err := validate(snap); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{"reactions", "thread_docs", "messages", "users", "channels"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertChannels(ctx, tx, snap.Channels); err != nil {
		return err
	}
	if err := insertUsers(ctx, tx, snap.Users); err != nil {
		return err
	}

	for _, channelID := range sortedChannelIDs(snap.Forests) {
		forest := snap.Forests[channelID]
		if err := insertForest(ctx, tx, forest); err != nil {
			return err
		}
		if len(opts.RenderFormats) > 0 {
			if err := insertThreadDocs(ctx, tx, forest, opts); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// validate checks every foreign key the schema will enforce, before any
// write happens.
func validate(snap *Snapshot) error {
	channels := make(map[string]bool, len(snap.Channels))
	for _, c := range snap.Channels {
		channels[c.ID] = true
	}
	users := make(map[string]bool, len(snap.Users))
	for _, u := range snap.Users {
		users[u.ID] = true
	}

	for channelID, forest := range snap.Forests {
		for _, m := range forest.Messages() {
			if !channels[m.ChannelID] {
				return &IntegrityError{ChannelID: channelID, TS: m.TS, Field: "channel", Ref: m.ChannelID}
			}
			if !users[m.UserID] {
				return &IntegrityError{ChannelID: channelID, TS: m.TS, Field: "author", Ref: m.UserID}
			}
		}
	}
	return nil
}

func sortedChannelIDs(forests map[string]*thread.Forest) []string {
	ids := make([]string, 0, len(forests))
	for id := range forests {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func insertChannels(ctx context.Context, tx *sql.Tx, channels []models.Channel) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO channels (id, name, topic, purpose, created) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare channels insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range channels {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Topic, c.Purpose, c.Created); err != nil {
			return fmt.Errorf("insert channel %s: %w", c.ID, err)
		}
	}
	return nil
}

func insertUsers(ctx context.Context, tx *sql.Tx, users []models.User) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO users (id, name, real_name, is_bot, deleted) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare users insert: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.ExecContext(ctx, u.ID, u.Name, u.RealName, u.IsBot, u.Deleted); err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}
	return nil
}

func insertForest(ctx context.Context, tx *sql.Tx, forest *thread.Forest) error {
	msgStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO messages (channel_id, ts, parent_ts, author_id, body) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare messages insert: %w", err)
	}
	defer msgStmt.Close()

	reactStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO reactions (message_channel_id, message_ts, emoji, user_id) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare reactions insert: %w", err)
	}
	defer reactStmt.Close()

	for _, m := range forest.Messages() {
		var parent sql.NullString
		if m.IsReply() {
			parent = sql.NullString{String: m.ParentTS, Valid: true}
		}
		if _, err := msgStmt.ExecContext(ctx, m.ChannelID, m.TS, parent, m.UserID, m.Text); err != nil {
			return fmt.Errorf("insert message %s:%s: %w", m.ChannelID, m.TS, err)
		}
		for _, r := range m.Reactions {
			for _, userID := range r.Users {
				if _, err := reactStmt.ExecContext(ctx, m.ChannelID, m.TS, r.Name, userID); err != nil {
					return fmt.Errorf("insert reaction on %s:%s: %w", m.ChannelID, m.TS, err)
				}
			}
		}
	}
	return nil
}

func insertThreadDocs(ctx context.Context, tx *sql.Tx, forest *thread.Forest, opts Options) error {
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO thread_docs (channel_id, ts, format, content) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare thread_docs insert: %w", err)
	}
	defer stmt.Close()

	for i := range forest.Threads {
		t := &forest.Threads[i]
		for _, format := range opts.RenderFormats {
			content, err := render.Thread(format, t, opts.Resolver)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, forest.ChannelID, t.Root.TS, string(format), content); err != nil {
				return fmt.Errorf("insert thread doc %s:%s: %w", forest.ChannelID, t.Root.TS, err)
			}
		}
	}
	return nil
}
