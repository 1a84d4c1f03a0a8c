// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/drag.go
// Summary: The drag session state machine: docking drags with a drop-zone
// overlay, and floating move/resize drags driven by pointer deltas.
// Usage: At most one session is live; hosts feed it OnMove/OnRelease from
// whatever transport delivers pointer or native-drag events.

package dock

import (
	"log"
)

// A pointer-down only becomes a drag after moving this many cells, so a
// plain click still reads as pane activation.
const defaultDragThreshold = 2

// DragState enumerates the session lifecycle.
type DragState int

const (
	DragIdle DragState = iota
	DragArmed
	DragDragging
	DragCommitted
	DragCancelled
)

// dragKind separates docking drags from floating-pane geometry drags.
type dragKind int

const (
	dragDock dragKind = iota
	dragFloatMove
	dragFloatResize
)

// DropZone is one candidate rectangle of the drag overlay.
type DropZone struct {
	Rect         Rect
	TargetPaneID string // empty for the workspace target
	Position     DropPosition
}

// dragSession tracks one in-flight drag. It is transport agnostic: native
// drag events and raw pointer moves both funnel into OnMove/OnRelease.
type dragSession struct {
	manager *Manager
	kind    dragKind
	state   DragState

	sourceID       string
	startX, startY int
	lastX, lastY   int

	zones   []DropZone
	hovered int // index into zones, -1 when none

	originRect Rect // float sessions restore this on cancel
}

// DragSession is the host-facing handle of an in-flight drag.
type DragSession = dragSession

// BeginPaneDrag arms a docking drag for the pane under the pointer. Any
// prior session is implicitly cancelled. Returns nil for unknown or
// floating panes.
func (m *Manager) BeginPaneDrag(paneID string, x, y int) *DragSession {
	if m.tree.LeafFor(paneID) == nil {
		return nil
	}
	m.cancelSession()
	m.session = &dragSession{
		manager:  m,
		kind:     dragDock,
		state:    DragArmed,
		sourceID: paneID,
		startX:   x,
		startY:   y,
		lastX:    x,
		lastY:    y,
		hovered:  -1,
	}
	return m.session
}

// BeginFloatMove arms a move drag for a floating pane.
func (m *Manager) BeginFloatMove(paneID string, x, y int) *DragSession {
	return m.beginFloatSession(dragFloatMove, paneID, x, y)
}

// BeginFloatResize arms a corner-handle resize drag for a floating pane.
func (m *Manager) BeginFloatResize(paneID string, x, y int) *DragSession {
	return m.beginFloatSession(dragFloatResize, paneID, x, y)
}

func (m *Manager) beginFloatSession(kind dragKind, paneID string, x, y int) *DragSession {
	pane := m.registry.Get(paneID)
	if pane == nil || !pane.Floating {
		return nil
	}
	m.cancelSession()
	m.session = &dragSession{
		manager:    m,
		kind:       kind,
		state:      DragArmed,
		sourceID:   paneID,
		startX:     x,
		startY:     y,
		lastX:      x,
		lastY:      y,
		hovered:    -1,
		originRect: pane.FloatRect,
	}
	return m.session
}

// Session returns the live drag session, or nil.
func (m *Manager) Session() *DragSession { return m.session }

func (m *Manager) cancelSession() {
	if m.session != nil {
		m.session.Cancel()
	}
}

// State returns the session state.
func (s *dragSession) State() DragState { return s.state }

// SourceID returns the dragged pane's id.
func (s *dragSession) SourceID() string { return s.sourceID }

// Zones returns the overlay's candidate drop zones (docking drags only).
func (s *dragSession) Zones() []DropZone { return s.zones }

// Hovered returns the currently highlighted zone, if any.
func (s *dragSession) Hovered() (DropZone, bool) {
	if s.hovered < 0 || s.hovered >= len(s.zones) {
		return DropZone{}, false
	}
	return s.zones[s.hovered], true
}

// Pointer returns the last observed pointer position; the ghost token
// follows it.
func (s *dragSession) Pointer() (int, int) { return s.lastX, s.lastY }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// OnMove feeds a pointer position into the session.
func (s *dragSession) OnMove(x, y int) {
	if s.state != DragArmed && s.state != DragDragging {
		return
	}
	dx, dy := x-s.lastX, y-s.lastY
	s.lastX, s.lastY = x, y

	if s.state == DragArmed {
		if abs(x-s.startX)+abs(y-s.startY) < s.manager.DragThreshold {
			return
		}
		s.state = DragDragging
		if s.kind == dragDock {
			s.zones = s.manager.buildDropZones(s.sourceID)
			log.Printf("drag: pane %q dragging, %d candidate zones", s.sourceID, len(s.zones))
		}
	}

	switch s.kind {
	case dragDock:
		s.hovered = -1
		for i, zone := range s.zones {
			if zone.Rect.Contains(x, y) {
				s.hovered = i
				break
			}
		}
	case dragFloatMove:
		if pane := s.manager.registry.Get(s.sourceID); pane != nil {
			pane.FloatRect.X += dx
			pane.FloatRect.Y += dy
		}
	case dragFloatResize:
		if pane := s.manager.registry.Get(s.sourceID); pane != nil {
			pane.FloatRect.W += dx
			pane.FloatRect.H += dy
			if pane.FloatRect.W < MinFloatWidth {
				pane.FloatRect.W = MinFloatWidth
			}
			if pane.FloatRect.H < MinFloatHeight {
				pane.FloatRect.H = MinFloatHeight
			}
		}
	}
}

// OnRelease ends the session. A docking drag over a valid zone commits a
// move; a release that never crossed the drag threshold counts as a click
// and activates the source pane. Float sessions keep the geometry they
// accumulated.
func (s *dragSession) OnRelease(x, y int) {
	switch s.state {
	case DragArmed:
		s.state = DragCancelled
		s.teardown()
		s.manager.SetActivePane(s.sourceID)
		return
	case DragDragging:
	default:
		return
	}
	s.OnMove(x, y)

	if s.kind != dragDock {
		s.state = DragCommitted
		s.teardown()
		return
	}
	zone, ok := s.Hovered()
	if !ok {
		s.state = DragCancelled
		s.teardown()
		return
	}
	s.state = DragCommitted
	s.teardown()
	log.Printf("drag: pane %q dropped on %q/%s", s.sourceID, zone.TargetPaneID, zone.Position)
	s.manager.MovePane(s.sourceID, zone.TargetPaneID, zone.Position)
}

// Cancel tears the session down without mutating the tree. Float sessions
// restore their original geometry, so cancellation is always safe.
func (s *dragSession) Cancel() {
	if s.state != DragArmed && s.state != DragDragging {
		return
	}
	if s.kind != dragDock {
		if pane := s.manager.registry.Get(s.sourceID); pane != nil {
			pane.FloatRect = s.originRect
		}
	}
	s.state = DragCancelled
	s.teardown()
}

func (s *dragSession) teardown() {
	s.zones = nil
	s.hovered = -1
	if s.manager.session == s {
		s.manager.session = nil
	}
}

// buildDropZones builds the overlay: the workspace's edge set first, then
// edge and center zones for every other pane. The workspace band is the
// top layer of the hit-test; in a tiled layout it is the only way a root
// drop can ever win over the pane underneath it. The workspace has no
// center zone.
func (m *Manager) buildDropZones(sourceID string) []DropZone {
	order := []DropPosition{DropTop, DropBottom, DropLeft, DropRight, DropCenter}
	var zones []DropZone
	sub := zoneRects(m.viewport, m.WorkspaceZone, false)
	for _, pos := range order[:4] {
		zones = append(zones, DropZone{Rect: sub[pos], Position: pos})
	}
	for _, id := range m.tree.PaneIDs() {
		if id == sourceID {
			continue
		}
		rect, ok := m.rects[id]
		if !ok {
			continue
		}
		sub := zoneRects(rect, m.PaneZone, true)
		for _, pos := range order {
			zones = append(zones, DropZone{Rect: sub[pos], TargetPaneID: id, Position: pos})
		}
	}
	return zones
}
