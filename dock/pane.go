// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/pane.go
// Summary: Pane state and the registry of live panes.
// Usage: The Manager owns one Registry; the layout tree references panes by id.

package dock

import (
	"sync"
)

// Pane is a user-visible docked content slot with a stable id. The content
// handle is opaque to the engine; it is passed through to the ContentHost
// on mount/unmount and to the renderer, which may type-assert it.
type Pane struct {
	ID       string
	Title    string
	Content  any
	Closable bool

	// Floating geometry. While Floating is set the pane is detached from
	// the layout tree and positioned freely.
	Floating  bool
	FloatRect Rect
}

// ContentHost receives mount/unmount calls whenever pane content changes.
// Rendering of the mounted content is entirely the host's concern.
type ContentHost interface {
	MountContent(paneID string, handle any)
	UnmountContent(paneID string, handle any)
}

// PaneStateListener observes activation changes so hosts can mirror visuals.
type PaneStateListener interface {
	PaneStateChanged(id string, active bool)
}

// Registry owns the set of live panes. All operations are no-ops on
// unknown ids; the registry never panics on bad input because stale ids
// routinely arrive from UI races.
type Registry struct {
	mu    sync.RWMutex
	panes map[string]*Pane
	gen   IDGenerator
	host  ContentHost
}

// NewRegistry creates an empty registry drawing ids from gen.
func NewRegistry(gen IDGenerator) *Registry {
	if gen == nil {
		gen = NewIDGenerator()
	}
	return &Registry{
		panes: make(map[string]*Pane),
		gen:   gen,
	}
}

// SetContentHost installs the mount/unmount collaborator. May be nil.
func (r *Registry) SetContentHost(host ContentHost) {
	r.mu.Lock()
	r.host = host
	r.mu.Unlock()
}

// CreatePane allocates a new pane with a fresh id.
func (r *Registry) CreatePane() *Pane {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &Pane{ID: r.gen.Next(), Closable: true}
	r.panes[p.ID] = p
	return p
}

// adoptPane creates a pane under a caller-provided id during restore.
// Returns nil if the id is already taken.
func (r *Registry) adoptPane(id string) *Pane {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.panes[id]; exists {
		return nil
	}
	r.gen.Observe(id)
	p := &Pane{ID: id, Closable: true}
	r.panes[id] = p
	return p
}

// Get returns the pane for id, or nil.
func (r *Registry) Get(id string) *Pane {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.panes[id]
}

// Count returns the number of live panes.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.panes)
}

// SetContent attaches a content handle, unmounting any previous one.
func (r *Registry) SetContent(id string, handle any) {
	r.mu.Lock()
	p := r.panes[id]
	host := r.host
	var old any
	if p != nil {
		old = p.Content
		p.Content = handle
	}
	r.mu.Unlock()
	if p == nil || host == nil {
		return
	}
	if old != nil {
		host.UnmountContent(id, old)
	}
	if handle != nil {
		host.MountContent(id, handle)
	}
}

// ClearContent detaches the content handle, if any.
func (r *Registry) ClearContent(id string) {
	r.SetContent(id, nil)
}

// SetTitle updates the pane title.
func (r *Registry) SetTitle(id, title string) {
	r.mu.Lock()
	if p := r.panes[id]; p != nil {
		p.Title = title
	}
	r.mu.Unlock()
}

// Remove deletes the pane, unmounting its content first. Returns false on
// unknown ids.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	p := r.panes[id]
	host := r.host
	if p != nil {
		delete(r.panes, id)
	}
	r.mu.Unlock()
	if p == nil {
		return false
	}
	if host != nil && p.Content != nil {
		host.UnmountContent(id, p.Content)
	}
	return true
}
