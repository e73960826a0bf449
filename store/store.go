// Package store provides the SQLite persistence layer for snapshot
// records and their stylesheet tables.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hazyhaar/domsnap/cssom"
	"github.com/hazyhaar/domsnap/dbopen"
	"github.com/hazyhaar/domsnap/record"
	"github.com/hazyhaar/domsnap/snapshot"
)

// ErrNotFound is returned when a snapshot id is not in the store.
var ErrNotFound = errors.New("store: snapshot not found")

// Store is the domsnap database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the domsnap SQLite database at path, applies
// pragmas and the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	allOpts := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, allOpts...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Save persists a snapshot record and its stylesheet table atomically.
func (s *Store) Save(ctx context.Context, snap *record.Snapshot) error {
	rootJSON, err := json.Marshal(snap.Root)
	if err != nil {
		return fmt.Errorf("store: marshal root: %w", err)
	}

	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (id, page_url, page_id, root, hash, timestamp)
			VALUES (?,?,?,?,?,?)`,
			snap.ID, snap.PageURL, snap.PageID, string(rootJSON), snap.Hash, snap.Timestamp)
		if err != nil {
			return fmt.Errorf("store: insert snapshot: %w", err)
		}
		for _, entry := range snap.Stylesheets {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO snapshot_stylesheets (snapshot_id, sheet_id, href, css)
				VALUES (?,?,?,?)`,
				snap.ID, entry.ID, entry.Href, entry.CSS)
			if err != nil {
				return fmt.Errorf("store: insert stylesheet %d: %w", entry.ID, err)
			}
		}
		return nil
	})
}

// Send implements record.Sink so a store can sit directly behind the
// capture loop.
func (s *Store) Send(ctx context.Context, snap *record.Snapshot) error {
	return s.Save(ctx, snap)
}

// Get loads a full snapshot record, stylesheet table included.
func (s *Store) Get(ctx context.Context, id string) (*record.Snapshot, error) {
	var snap record.Snapshot
	var rootJSON string
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, page_url, page_id, root, hash, timestamp
		FROM snapshots WHERE id = ?`, id).
		Scan(&snap.ID, &snap.PageURL, &snap.PageID, &rootJSON, &snap.Hash, &snap.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(rootJSON), &snap.Root); err != nil {
		return nil, fmt.Errorf("store: unmarshal root: %w", err)
	}

	snap.Stylesheets, err = s.Stylesheets(ctx, id)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Stylesheets returns the stylesheet table of a snapshot, ordered by
// mirror id.
func (s *Store) Stylesheets(ctx context.Context, snapshotID string) ([]record.StylesheetEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT sheet_id, href, css FROM snapshot_stylesheets
		WHERE snapshot_id = ? ORDER BY sheet_id`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("store: query stylesheets: %w", err)
	}
	defer rows.Close()

	var entries []record.StylesheetEntry
	for rows.Next() {
		var e record.StylesheetEntry
		if err := rows.Scan(&e.ID, &e.Href, &e.CSS); err != nil {
			return nil, fmt.Errorf("store: scan stylesheet: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Meta is a snapshot listing row (no node graph).
type Meta struct {
	ID        string `json:"id"`
	PageURL   string `json:"page_url"`
	PageID    string `json:"page_id"`
	Hash      string `json:"hash"`
	Timestamp int64  `json:"timestamp"`
}

// List returns snapshot metadata, newest first. pageID filters when
// non-empty; limit <= 0 means 50.
func (s *Store) List(ctx context.Context, pageID string, limit int) ([]Meta, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, page_url, page_id, hash, timestamp FROM snapshots`
	args := []any{}
	if pageID != "" {
		q += ` WHERE page_id = ?`
		args = append(args, pageID)
	}
	q += ` ORDER BY timestamp DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		if err := rows.Scan(&m.ID, &m.PageURL, &m.PageID, &m.Hash, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("store: scan meta: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Rehydrate reconstructs a StyleSheet Mirror to match a persisted
// snapshot: each stored stylesheet comes back as a single-rule sheet
// carrying its reconstructed text, registered under its persisted id so
// later incremental records resolve against the same id space.
func (s *Store) Rehydrate(ctx context.Context, snapshotID string, mirror *snapshot.StyleMirror) error {
	entries, err := s.Stylesheets(ctx, snapshotID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		sheet := &cssom.StyleSheet{
			Href:  e.Href,
			Rules: []*cssom.Rule{{Type: cssom.StyleRule, Text: e.CSS}},
		}
		mirror.AddWithID(sheet, e.ID)
	}
	return nil
}
