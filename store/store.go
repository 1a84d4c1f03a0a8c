// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/store.go
// Summary: File-backed persistence of serialized layouts with a content
// hash for integrity checks.
// Usage: Called by hosts on save/restore; the engine itself never touches
// storage.

package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/framegrace/dockyard/dock"
)

// LayoutStore persists one layout state to a JSON file.
type LayoutStore struct {
	path string
	mu   sync.Mutex
}

// StoredLayout is the serialized representation written to disk.
type StoredLayout struct {
	Timestamp time.Time        `json:"timestamp"`
	Hash      string           `json:"hash"`
	Layout    dock.LayoutState `json:"layout"`
}

// NewLayoutStore creates a store writing to path.
func NewLayoutStore(path string) *LayoutStore {
	return &LayoutStore{path: path}
}

func layoutHash(state dock.LayoutState) (string, []byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:]), payload, nil
}

// Save writes the layout to disk together with a SHA-1 hash of its
// serialized form.
func (s *LayoutStore) Save(state dock.LayoutState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, _, err := layoutHash(state)
	if err != nil {
		return fmt.Errorf("hash layout: %w", err)
	}
	stored := StoredLayout{
		Timestamp: time.Now().UTC(),
		Hash:      hash,
		Layout:    state,
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Load reads the stored layout back, verifying the integrity hash. A
// mismatch is reported as an error so the host can fall back to a fresh
// workspace instead of restoring a corrupted tree.
func (s *LayoutStore) Load() (dock.LayoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored StoredLayout
	data, err := os.ReadFile(s.path)
	if err != nil {
		return dock.LayoutState{}, err
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return dock.LayoutState{}, fmt.Errorf("decode layout: %w", err)
	}
	hash, _, err := layoutHash(stored.Layout)
	if err != nil {
		return dock.LayoutState{}, err
	}
	if stored.Hash != "" && stored.Hash != hash {
		return dock.LayoutState{}, fmt.Errorf("layout hash mismatch: stored %s, computed %s", stored.Hash, hash)
	}
	return stored.Layout, nil
}
