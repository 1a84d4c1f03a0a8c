// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/history.go
// Summary: SQLite-backed history of saved layouts.
//
// Keeps timestamped snapshots of the serialized layout so hosts can offer
// "restore an earlier arrangement". Writes are synchronous; layouts are
// small and saves are user-initiated.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/framegrace/dockyard/dock"
)

// HistoryStore records layout snapshots in a SQLite database.
type HistoryStore struct {
	mu sync.Mutex
	db *sql.DB
}

// HistoryEntry describes one stored snapshot.
type HistoryEntry struct {
	ID      int64
	Name    string
	SavedAt time.Time
	Hash    string
}

// OpenHistory opens (creating if needed) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS layouts (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL DEFAULT '',
		saved_at INTEGER NOT NULL,
		hash     TEXT NOT NULL,
		payload  BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_layouts_saved_at ON layouts(saved_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &HistoryStore{db: db}, nil
}

// Close closes the database.
func (h *HistoryStore) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.db.Close()
}

// Save appends a named layout snapshot and returns its id.
func (h *HistoryStore) Save(name string, state dock.LayoutState) (int64, error) {
	hash, payload, err := layoutHash(state)
	if err != nil {
		return 0, fmt.Errorf("hash layout: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	res, err := h.db.Exec(
		`INSERT INTO layouts(name, saved_at, hash, payload) VALUES(?, ?, ?, ?)`,
		name, time.Now().UTC().UnixMilli(), hash, payload,
	)
	if err != nil {
		return 0, fmt.Errorf("insert layout: %w", err)
	}
	return res.LastInsertId()
}

// Latest returns the most recently saved layout.
func (h *HistoryStore) Latest() (dock.LayoutState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var payload []byte
	err := h.db.QueryRow(
		`SELECT payload FROM layouts ORDER BY saved_at DESC, id DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		return dock.LayoutState{}, err
	}
	return decodePayload(payload)
}

// Get returns the layout stored under id.
func (h *HistoryStore) Get(id int64) (dock.LayoutState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var payload []byte
	err := h.db.QueryRow(`SELECT payload FROM layouts WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		return dock.LayoutState{}, err
	}
	return decodePayload(payload)
}

// List returns entries newest first, up to limit (0 means all).
func (h *HistoryStore) List(limit int) ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := `SELECT id, name, saved_at, hash FROM layouts ORDER BY saved_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := h.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var savedAt int64
		if err := rows.Scan(&e.ID, &e.Name, &savedAt, &e.Hash); err != nil {
			return nil, err
		}
		e.SavedAt = time.UnixMilli(savedAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune keeps only the newest keep entries.
func (h *HistoryStore) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.db.Exec(
		`DELETE FROM layouts WHERE id NOT IN (
			SELECT id FROM layouts ORDER BY saved_at DESC, id DESC LIMIT ?
		)`, keep)
	return err
}

func decodePayload(payload []byte) (dock.LayoutState, error) {
	var state dock.LayoutState
	if err := json.Unmarshal(payload, &state); err != nil {
		return dock.LayoutState{}, fmt.Errorf("decode layout payload: %w", err)
	}
	return state, nil
}
