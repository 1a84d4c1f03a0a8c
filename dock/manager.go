// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/manager.go
// Summary: The dock layout manager facade: pane registry + layout tree +
// drag sessions behind the public API.
// Usage: Hosts construct one Manager per workspace and drive it from
// their event loop; all operations are synchronous.

package dock

import (
	"log"
)

// Minimum floating pane size, including chrome.
const (
	MinFloatWidth  = 20
	MinFloatHeight = 8
)

// Manager arranges an arbitrary number of panes into a recursively split
// workspace. It is single-threaded by design: every operation runs to
// completion before the next event, so the tree is never observed
// mid-restructure. Invalid references are absorbed as no-ops.
type Manager struct {
	registry *Registry
	tree     *Tree
	active   string
	floating []string // floating pane ids in raise order

	viewport Rect
	rects    map[string]Rect

	session  *dragSession
	listener PaneStateListener

	// Tunables, settable before the first drag.
	PaneZone      EdgeBands
	WorkspaceZone EdgeBands
	DragThreshold int

	// External drag-and-drop hooks. AcceptExternalDrop filters foreign
	// drag payloads; ExternalDropHandler receives the classified drop.
	AcceptExternalDrop  func(event any) bool
	ExternalDropHandler func(drop ExternalDrop)
}

// ExternalDrop describes a foreign payload dropped onto the workspace.
type ExternalDrop struct {
	PaneID   string // empty for the workspace background
	Position DropPosition
	Event    any
}

// NewManager creates a manager seeded with one pane, which becomes active.
// gen may be nil to use the default monotonic generator.
func NewManager(gen IDGenerator) *Manager {
	m := &Manager{
		registry:      NewRegistry(gen),
		rects:         make(map[string]Rect),
		PaneZone:      PaneBands,
		WorkspaceZone: WorkspaceBands,
		DragThreshold: defaultDragThreshold,
	}
	seed := m.registry.CreatePane()
	m.tree = NewTree(seed.ID)
	m.active = seed.ID
	return m
}

// Registry exposes the pane registry.
func (m *Manager) Registry() *Registry { return m.registry }

// Tree exposes the layout tree for read-only walks.
func (m *Manager) Tree() *Tree { return m.tree }

// SetPaneStateListener installs the activation observer. May be nil.
func (m *Manager) SetPaneStateListener(l PaneStateListener) { m.listener = l }

// ActivePaneID returns the id of the active pane.
func (m *Manager) ActivePaneID() string { return m.active }

// SetActivePane activates the pane if it is alive; unknown ids and the
// empty id are ignored.
func (m *Manager) SetActivePane(paneID string) {
	if paneID == "" || m.registry.Get(paneID) == nil || paneID == m.active {
		return
	}
	prev := m.active
	m.active = paneID
	if m.listener != nil {
		if prev != "" {
			m.listener.PaneStateChanged(prev, false)
		}
		m.listener.PaneStateChanged(paneID, true)
	}
}

// PaneIDs returns all pane ids: docked leaves in traversal order, then
// floating panes in raise order.
func (m *Manager) PaneIDs() []string {
	ids := m.tree.PaneIDs()
	return append(ids, m.floating...)
}

// FloatingPaneIDs returns the floating pane ids in raise order.
func (m *Manager) FloatingPaneIDs() []string {
	return append([]string(nil), m.floating...)
}

// SetPaneContent attaches a content handle to the pane.
func (m *Manager) SetPaneContent(paneID string, handle any) {
	m.registry.SetContent(paneID, handle)
}

// ClearPane detaches the pane's content handle.
func (m *Manager) ClearPane(paneID string) {
	m.registry.ClearContent(paneID)
}

// SetPaneTitle updates the pane title.
func (m *Manager) SetPaneTitle(paneID, title string) {
	m.registry.SetTitle(paneID, title)
}

// SplitPane splits the pane's leaf along the given orientation, creating
// and activating a new pane. Returns the new pane id, or "" if paneID is
// unknown or floating.
func (m *Manager) SplitPane(paneID string, orientation Orientation) string {
	leaf := m.tree.LeafFor(paneID)
	if leaf == nil {
		log.Printf("SplitPane: unknown pane %q", paneID)
		return ""
	}
	created := m.registry.CreatePane()
	m.tree.SplitLeaf(leaf, &Node{PaneID: created.ID}, orientation)
	m.layout()
	m.SetActivePane(created.ID)
	return created.ID
}

// MovePane re-docks the pane relative to a target pane, or to the
// workspace root when targetID is empty. A center drop on a pane swaps
// occupancy; a center drop on the root is a no-op. The moved pane becomes
// active. All invalid inputs are no-ops.
func (m *Manager) MovePane(paneID, targetID string, pos DropPosition) {
	if pos == DropNone || paneID == targetID {
		return
	}
	source := m.tree.LeafFor(paneID)
	if source == nil {
		log.Printf("MovePane: unknown pane %q", paneID)
		return
	}

	if pos == DropCenter {
		if targetID == "" {
			// Root-center drop carries no meaning; deliberately inert.
			return
		}
		target := m.tree.LeafFor(targetID)
		if target == nil {
			log.Printf("MovePane: unknown target %q", targetID)
			return
		}
		m.tree.Swap(source, target)
		m.layout()
		m.SetActivePane(paneID)
		return
	}

	var target *Node
	if targetID != "" {
		target = m.tree.LeafFor(targetID)
		if target == nil {
			log.Printf("MovePane: unknown target %q", targetID)
			return
		}
	}
	if !m.tree.Detach(source) {
		// The last remaining pane has nowhere to go.
		return
	}
	if target == nil {
		target = m.tree.Root
	}
	m.tree.InsertRelative(source, target, pos)
	m.layout()
	m.SetActivePane(paneID)
}

// ClosePane removes the pane. The sole remaining pane is cleared instead
// of removed. Returns the id of the pane that is active afterwards.
func (m *Manager) ClosePane(paneID string) string {
	pane := m.registry.Get(paneID)
	if pane == nil {
		return m.active
	}
	if m.registry.Count() <= 1 {
		// The last pane is never removed, only emptied.
		m.registry.ClearContent(paneID)
		return paneID
	}

	if pane.Floating {
		m.dropFloating(paneID)
		m.registry.Remove(paneID)
		if m.active == paneID {
			m.SetActivePane(m.fallbackPane())
		}
		return m.active
	}

	leaf := m.tree.LeafFor(paneID)
	if leaf == nil {
		return m.active
	}
	fallback := m.closeFallback(leaf)
	if !m.tree.Detach(leaf) {
		// Closing the docked root while other panes float: re-dock the
		// first floating pane in its place so the tree never empties.
		if len(m.floating) == 0 {
			return m.active
		}
		next := m.floating[0]
		m.dropFloating(next)
		if p := m.registry.Get(next); p != nil {
			p.Floating = false
		}
		m.tree.Root = &Node{PaneID: next}
		m.tree.reindex()
		fallback = next
	}
	m.registry.Remove(paneID)
	m.layout()
	if m.active == paneID {
		if fallback == "" {
			fallback = m.fallbackPane()
		}
		m.active = ""
		m.SetActivePane(fallback)
	}
	return m.active
}

// closeFallback picks the pane to activate once leaf is gone: the nearest
// remaining sibling, like closing a pane in any tiling workspace.
func (m *Manager) closeFallback(leaf *Node) string {
	parent := m.tree.Parent(leaf)
	if parent == nil {
		return ""
	}
	i := indexOf(parent, leaf)
	for _, j := range []int{i + 1, i - 1} {
		if j >= 0 && j < len(parent.Children) {
			if first := m.tree.FirstLeaf(parent.Children[j]); first != nil {
				return first.PaneID
			}
		}
	}
	return ""
}

// fallbackPane returns the first pane in document order, then floats.
func (m *Manager) fallbackPane() string {
	ids := m.PaneIDs()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

func (m *Manager) dropFloating(paneID string) {
	for i, id := range m.floating {
		if id == paneID {
			m.floating = append(m.floating[:i], m.floating[i+1:]...)
			return
		}
	}
}

// FloatPane detaches the pane from the tree and positions it freely at
// the given rectangle. Refuses to float the last docked pane.
func (m *Manager) FloatPane(paneID string, rect Rect) {
	pane := m.registry.Get(paneID)
	if pane == nil || pane.Floating {
		return
	}
	leaf := m.tree.LeafFor(paneID)
	if leaf == nil {
		return
	}
	if !m.tree.Detach(leaf) {
		log.Printf("FloatPane: refusing to float the last docked pane %q", paneID)
		return
	}
	if rect.W < MinFloatWidth {
		rect.W = MinFloatWidth
	}
	if rect.H < MinFloatHeight {
		rect.H = MinFloatHeight
	}
	pane.Floating = true
	pane.FloatRect = rect
	m.floating = append(m.floating, paneID)
	m.layout()
	m.SetActivePane(paneID)
}

// DockPane re-inserts a floating pane through the normal move path,
// relative to targetID (or the root when empty).
func (m *Manager) DockPane(paneID, targetID string, pos DropPosition) {
	pane := m.registry.Get(paneID)
	if pane == nil || !pane.Floating || pos == DropNone || pos == DropCenter || paneID == targetID {
		return
	}
	var target *Node
	if targetID != "" {
		if target = m.tree.LeafFor(targetID); target == nil {
			return
		}
	} else {
		target = m.tree.Root
	}
	m.dropFloating(paneID)
	pane.Floating = false
	m.tree.InsertRelative(&Node{PaneID: paneID}, target, pos)
	m.layout()
	m.SetActivePane(paneID)
}

// State captures the current layout as a plain serializable value.
// Floating panes are not part of the wire shape and are omitted.
func (m *Manager) State() LayoutState {
	return LayoutState{
		Root:         CaptureNode(m.tree.Root),
		ActivePaneID: m.active,
	}
}

// RestoreState replaces the whole layout from a serialized state. Pane
// ids found in the value are reused; malformed subtrees degrade to fresh
// leaves. An active id absent from the rebuilt tree falls back to the
// first leaf in document order.
func (m *Manager) RestoreState(state LayoutState) {
	if m.session != nil {
		m.session.Cancel()
	}
	for _, id := range m.PaneIDs() {
		m.registry.Remove(id)
	}
	m.floating = nil

	root := buildNode(state.Root, m.registry)
	m.tree.Root = root
	m.tree.reindex()

	m.active = ""
	if state.ActivePaneID != "" && m.tree.LeafFor(state.ActivePaneID) != nil {
		m.active = state.ActivePaneID
	} else {
		m.active = m.tree.FirstLeaf(root).PaneID
	}
	m.layout()
	if m.listener != nil {
		m.listener.PaneStateChanged(m.active, true)
	}
}

// SetViewport sets the workspace rectangle and recomputes pane layout.
func (m *Manager) SetViewport(rect Rect) {
	m.viewport = rect
	m.layout()
}

// Viewport returns the workspace rectangle.
func (m *Manager) Viewport() Rect { return m.viewport }

// PaneRect returns the computed rectangle for a pane and whether one is
// known. Floating panes report their free geometry.
func (m *Manager) PaneRect(paneID string) (Rect, bool) {
	if p := m.registry.Get(paneID); p != nil && p.Floating {
		return p.FloatRect, true
	}
	r, ok := m.rects[paneID]
	return r, ok
}

// layout recomputes the rectangle of every docked leaf by dividing each
// split equally among its children along its orientation.
func (m *Manager) layout() {
	m.rects = make(map[string]Rect, m.tree.LeafCount())
	if m.viewport.W <= 0 || m.viewport.H <= 0 {
		return
	}
	m.layoutNode(m.tree.Root, m.viewport)
}

func (m *Manager) layoutNode(n *Node, rect Rect) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		m.rects[n.PaneID] = rect
		return
	}
	count := len(n.Children)
	if n.Orientation == Horizontal {
		x := rect.X
		for i, child := range n.Children {
			w := rect.W / count
			if i == count-1 {
				w = rect.X + rect.W - x
			}
			m.layoutNode(child, Rect{X: x, Y: rect.Y, W: w, H: rect.H})
			x += w
		}
		return
	}
	y := rect.Y
	for i, child := range n.Children {
		h := rect.H / count
		if i == count-1 {
			h = rect.Y + rect.H - y
		}
		m.layoutNode(child, Rect{X: rect.X, Y: y, W: rect.W, H: h})
		y += h
	}
}

// CanAcceptExternalDrop asks the host filter whether a foreign drag
// payload may be dropped on the workspace.
func (m *Manager) CanAcceptExternalDrop(event any) bool {
	return m.AcceptExternalDrop != nil && m.AcceptExternalDrop(event)
}

// ClassifyExternal classifies a foreign drag position the same way an
// internal drag would: the workspace edge band first, then the hovered
// pane. Used by hosts for highlight while hovering.
func (m *Manager) ClassifyExternal(x, y int) (paneID string, pos DropPosition) {
	if p := ClassifyZone(x, y, m.viewport, m.WorkspaceZone); p != DropNone && p != DropCenter {
		return "", p
	}
	for _, id := range m.PaneIDs() {
		rect, ok := m.PaneRect(id)
		if !ok || !rect.Contains(x, y) {
			continue
		}
		return id, ClassifyZone(x, y, rect, m.PaneZone)
	}
	return "", DropNone
}

// HandleExternalDrop classifies the drop point and delegates the effect
// to the host's handler; the tree itself is never mutated.
func (m *Manager) HandleExternalDrop(x, y int, event any) {
	if m.ExternalDropHandler == nil || !m.CanAcceptExternalDrop(event) {
		return
	}
	paneID, pos := m.ClassifyExternal(x, y)
	if pos == DropNone {
		return
	}
	m.ExternalDropHandler(ExternalDrop{PaneID: paneID, Position: pos, Event: event})
}
