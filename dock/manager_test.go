// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/manager_test.go
// Summary: Exercises the layout manager's split/move/close semantics and
// the structural invariants of the tree.

package dock

import (
	"reflect"
	"testing"
)

func mustInvariants(t *testing.T, m *Manager) {
	t.Helper()
	if problems := m.tree.checkInvariants(); len(problems) != 0 {
		t.Fatalf("tree invariants violated: %v", problems)
	}
}

func TestNewManagerSeedsOnePane(t *testing.T) {
	m := NewManager(nil)
	ids := m.PaneIDs()
	if len(ids) != 1 {
		t.Fatalf("expected one seeded pane, got %v", ids)
	}
	if m.ActivePaneID() != ids[0] {
		t.Errorf("seed pane should be active, got %q", m.ActivePaneID())
	}
	if !m.Tree().Root.IsLeaf() {
		t.Errorf("fresh manager root should be a leaf")
	}
}

func TestSplitSameOrientationFlattens(t *testing.T) {
	m := NewManager(nil)
	p1 := m.ActivePaneID()
	p2 := m.SplitPane(p1, Horizontal)
	p3 := m.SplitPane(p2, Horizontal)
	if p2 == "" || p3 == "" {
		t.Fatalf("splits failed: %q %q", p2, p3)
	}
	root := m.Tree().Root
	if root.IsLeaf() || root.Orientation != Horizontal || len(root.Children) != 3 {
		t.Fatalf("expected single 3-wide horizontal split, got %+v", root)
	}
	if got, want := m.PaneIDs(), []string{p1, p2, p3}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane order = %v, want %v", got, want)
	}
	if m.ActivePaneID() != p3 {
		t.Errorf("new pane should be active, got %q", m.ActivePaneID())
	}
	mustInvariants(t, m)
}

func TestSplitDifferentOrientationNests(t *testing.T) {
	m := NewManager(nil)
	p1 := m.ActivePaneID()
	p2 := m.SplitPane(p1, Horizontal)
	p3 := m.SplitPane(p2, Vertical)
	root := m.Tree().Root
	if len(root.Children) != 2 || root.Orientation != Horizontal {
		t.Fatalf("unexpected root: %+v", root)
	}
	sub := root.Children[1]
	if sub.IsLeaf() || sub.Orientation != Vertical || len(sub.Children) != 2 {
		t.Fatalf("expected nested vertical split, got %+v", sub)
	}
	if sub.Children[0].PaneID != p2 || sub.Children[1].PaneID != p3 {
		t.Errorf("nested split children = %v", m.PaneIDs())
	}
	mustInvariants(t, m)
}

func TestSplitUnknownPane(t *testing.T) {
	m := NewManager(nil)
	if got := m.SplitPane("nope", Horizontal); got != "" {
		t.Errorf("split of unknown pane returned %q", got)
	}
}

// P1 split horizontally into P2, P2 split vertically
// into P3, then P3 moved to the left of P1.
func TestMoveEdgeScenario(t *testing.T) {
	m := NewManager(nil)
	p1 := m.ActivePaneID()
	p2 := m.SplitPane(p1, Horizontal)
	p3 := m.SplitPane(p2, Vertical)

	m.MovePane(p3, p1, DropLeft)

	root := m.Tree().Root
	if root.IsLeaf() || root.Orientation != Horizontal || len(root.Children) != 3 {
		t.Fatalf("expected 3-wide horizontal root, got %+v", root)
	}
	if got, want := m.PaneIDs(), []string{p3, p1, p2}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane order = %v, want %v", got, want)
	}
	if m.ActivePaneID() != p3 {
		t.Errorf("moved pane should be active, got %q", m.ActivePaneID())
	}
	mustInvariants(t, m)
}

func TestMoveEdgeCreatesNestedSplit(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Vertical)
	c := m.SplitPane(b, Vertical)

	// V[a b c]; moving c to the left of a wraps a in a horizontal pair.
	m.MovePane(c, a, DropLeft)

	root := m.Tree().Root
	if root.Orientation != Vertical || len(root.Children) != 2 {
		t.Fatalf("unexpected root: %+v", root)
	}
	pair := root.Children[0]
	if pair.IsLeaf() || pair.Orientation != Horizontal {
		t.Fatalf("expected horizontal pair at a's old position, got %+v", pair)
	}
	if pair.Children[0].PaneID != c || pair.Children[1].PaneID != a {
		t.Errorf("pair order = [%s %s], want [%s %s]",
			pair.Children[0].PaneID, pair.Children[1].PaneID, c, a)
	}
	mustInvariants(t, m)
}

func TestMoveCenterSwapsOccupancy(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	c := m.SplitPane(b, Vertical)

	shapeBefore := CaptureNode(m.Tree().Root)
	m.MovePane(a, c, DropCenter)

	// Same shape, only occupancy exchanged.
	var shape func(sn *StateNode) string
	shape = func(sn *StateNode) string {
		if sn.Type == nodeTypeLeaf {
			return "L"
		}
		out := "S" + sn.Orientation + "("
		for _, ch := range sn.Children {
			out += shape(ch)
		}
		return out + ")"
	}
	after := CaptureNode(m.Tree().Root)
	if shape(shapeBefore) != shape(after) {
		t.Fatalf("swap changed tree shape: %s vs %s", shape(shapeBefore), shape(after))
	}
	if got, want := m.PaneIDs(), []string{c, b, a}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane order after swap = %v, want %v", got, want)
	}
	if m.ActivePaneID() != a {
		t.Errorf("swap source should be active, got %q", m.ActivePaneID())
	}
	mustInvariants(t, m)
}

func TestMoveNoops(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	before := m.State()

	m.MovePane(a, a, DropCenter)     // onto itself
	m.MovePane(a, "", DropCenter)    // root-center
	m.MovePane(a, "", DropLeft)      // last pane to root
	m.MovePane("x", a, DropLeft)     // unknown source
	m.MovePane(a, "x", DropLeft)     // unknown target
	m.MovePane(a, "", DropNone)      // no position

	if !reflect.DeepEqual(before, m.State()) {
		t.Errorf("no-op moves mutated the tree")
	}
}

func TestMoveToRootEdge(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	c := m.SplitPane(b, Vertical)

	// Root is H[a V[b c]]; moving c to the root's left edge prepends it
	// to the existing horizontal split instead of nesting.
	m.MovePane(c, "", DropLeft)
	root := m.Tree().Root
	if root.Orientation != Horizontal || len(root.Children) != 3 {
		t.Fatalf("expected flattened 3-wide root, got %+v", root)
	}
	if got, want := m.PaneIDs(), []string{c, a, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane order = %v, want %v", got, want)
	}

	// A root edge along the other axis wraps the whole tree.
	m.MovePane(c, "", DropBottom)
	root = m.Tree().Root
	if root.Orientation != Vertical || len(root.Children) != 2 {
		t.Fatalf("expected vertical wrap of the root, got %+v", root)
	}
	if root.Children[1].PaneID != c {
		t.Errorf("source should be the bottom child")
	}
	mustInvariants(t, m)
}

func TestCloseTrimsToLeaf(t *testing.T) {
	orders := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {1, 3, 0, 2}}
	for _, order := range orders {
		m := NewManager(nil)
		p1 := m.ActivePaneID()
		p2 := m.SplitPane(p1, Horizontal)
		p3 := m.SplitPane(p2, Vertical)
		p4 := m.SplitPane(p1, Vertical)
		ids := []string{p1, p2, p3, p4}

		for _, i := range order[:3] {
			m.ClosePane(ids[i])
			mustInvariants(t, m)
		}
		if !m.Tree().Root.IsLeaf() {
			t.Errorf("close order %v: root is not a leaf: %+v", order, m.Tree().Root)
		}
		if m.Registry().Count() != 1 {
			t.Errorf("close order %v: %d panes left", order, m.Registry().Count())
		}
	}
}

func TestCloseTrimFlattensPromotedSplit(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)  // H[a b]
	c := m.SplitPane(b, Vertical)    // H[a V[b c]]
	d := m.SplitPane(c, Horizontal)  // H[a V[b H[c d]]]

	// Closing b promotes H[c d] into the root H split, which must splice
	// rather than nest.
	m.ClosePane(b)
	root := m.Tree().Root
	if root.Orientation != Horizontal || len(root.Children) != 3 {
		t.Fatalf("expected spliced 3-wide root, got %+v", root)
	}
	if got, want := m.PaneIDs(), []string{a, c, d}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane order = %v, want %v", got, want)
	}
	mustInvariants(t, m)
}

func TestCloseSoleRemainingPane(t *testing.T) {
	host := &recordingHost{}
	m := NewManager(nil)
	m.Registry().SetContentHost(host)
	id := m.ActivePaneID()
	m.SetPaneContent(id, "handle")

	if got := m.ClosePane(id); got != id {
		t.Errorf("closing the sole pane returned %q, want %q", got, id)
	}
	if m.Registry().Count() != 1 {
		t.Fatalf("sole pane was removed")
	}
	if p := m.Registry().Get(id); p.Content != nil {
		t.Errorf("sole pane content not cleared")
	}
	if len(host.unmounted) != 1 {
		t.Errorf("expected one unmount, got %v", host.unmounted)
	}
}

func TestCloseActivatesFallback(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	c := m.SplitPane(b, Horizontal)

	// Closing the active pane falls back to a remaining sibling.
	if got := m.ClosePane(c); got == c || m.Registry().Get(got) == nil {
		t.Errorf("fallback active pane %q invalid", got)
	}

	// Closing an inactive pane leaves the active one alone.
	m.SetActivePane(a)
	m.ClosePane(b)
	if m.ActivePaneID() != a {
		t.Errorf("closing inactive pane moved focus to %q", m.ActivePaneID())
	}
}

func TestCloseUnknownPane(t *testing.T) {
	m := NewManager(nil)
	active := m.ActivePaneID()
	if got := m.ClosePane("nope"); got != active {
		t.Errorf("unknown close returned %q, want %q", got, active)
	}
}

func TestFloatAndDock(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)

	m.FloatPane(b, Rect{X: 5, Y: 5, W: 30, H: 10})
	if m.Tree().LeafFor(b) != nil {
		t.Fatalf("floating pane still docked")
	}
	if !m.Tree().Root.IsLeaf() {
		t.Errorf("tree not trimmed after float: %+v", m.Tree().Root)
	}
	p := m.Registry().Get(b)
	if !p.Floating || p.FloatRect.W != 30 {
		t.Errorf("floating state not recorded: %+v", p)
	}
	if got, want := m.PaneIDs(), []string{a, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("pane ids = %v, want %v", got, want)
	}

	m.DockPane(b, a, DropRight)
	if p.Floating {
		t.Errorf("pane still floating after dock")
	}
	root := m.Tree().Root
	if root.IsLeaf() || root.Orientation != Horizontal || root.Children[1].PaneID != b {
		t.Fatalf("dock did not re-insert: %+v", root)
	}
	mustInvariants(t, m)
}

func TestFloatLastDockedPaneRefused(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	m.FloatPane(b, Rect{X: 0, Y: 0, W: 30, H: 10})

	m.FloatPane(a, Rect{X: 2, Y: 2, W: 30, H: 10})
	if m.Registry().Get(a).Floating {
		t.Errorf("last docked pane was floated")
	}
}

func TestCloseDockedRootRedocksFloat(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	m.FloatPane(b, Rect{X: 0, Y: 0, W: 30, H: 10})

	m.ClosePane(a)
	if m.Registry().Get(b) == nil || m.Registry().Get(b).Floating {
		t.Fatalf("floating pane was not re-docked")
	}
	if !m.Tree().Root.IsLeaf() || m.Tree().Root.PaneID != b {
		t.Errorf("root should be the re-docked pane, got %+v", m.Tree().Root)
	}
}

func TestViewportLayoutPartitions(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	c := m.SplitPane(b, Vertical)
	m.SetViewport(Rect{X: 0, Y: 0, W: 101, H: 41})

	ra, _ := m.PaneRect(a)
	rb, _ := m.PaneRect(b)
	rc, _ := m.PaneRect(c)
	if ra.W+rb.W != 101 {
		t.Errorf("horizontal split does not cover the viewport: %+v %+v", ra, rb)
	}
	if rb.H+rc.H != 41 {
		t.Errorf("vertical split does not cover its column: %+v %+v", rb, rc)
	}
	if rb.X != ra.W || rc.Y != rb.H {
		t.Errorf("children not adjacent: %+v %+v %+v", ra, rb, rc)
	}
}

func TestExternalDrop(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	m.SetViewport(Rect{X: 0, Y: 0, W: 100, H: 40})
	m.PaneZone = EdgeBands{Ratio: 0.25, Min: 1, Max: 10}
	m.WorkspaceZone = EdgeBands{Ratio: 0.1, Min: 1, Max: 2}

	var got []ExternalDrop
	m.AcceptExternalDrop = func(ev any) bool { return ev == "file" }
	m.ExternalDropHandler = func(d ExternalDrop) { got = append(got, d) }

	if m.CanAcceptExternalDrop("junk") {
		t.Errorf("filter should reject junk payloads")
	}
	m.HandleExternalDrop(50, 20, "junk")
	if len(got) != 0 {
		t.Fatalf("rejected payload was delivered")
	}

	m.HandleExternalDrop(50, 20, "file")
	if len(got) != 1 || got[0].PaneID != a || got[0].Position != DropCenter {
		t.Fatalf("unexpected drop: %+v", got)
	}
	before := m.State()
	if !reflect.DeepEqual(before, m.State()) {
		t.Errorf("external drop mutated the tree")
	}
}

type recordingHost struct {
	mounted   []string
	unmounted []string
}

func (h *recordingHost) MountContent(paneID string, handle any) { h.mounted = append(h.mounted, paneID) }
func (h *recordingHost) UnmountContent(paneID string, handle any) { h.unmounted = append(h.unmounted, paneID) }

func TestContentMountUnmount(t *testing.T) {
	host := &recordingHost{}
	m := NewManager(nil)
	m.Registry().SetContentHost(host)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)

	m.SetPaneContent(b, "first")
	m.SetPaneContent(b, "second") // replaces: unmount then mount
	m.ClearPane(b)
	if got, want := host.mounted, []string{b, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("mounts = %v, want %v", got, want)
	}
	if got, want := host.unmounted, []string{b, b}; !reflect.DeepEqual(got, want) {
		t.Errorf("unmounts = %v, want %v", got, want)
	}

	m.SetPaneContent(a, "held")
	host.unmounted = nil
	m.ClosePane(a)
	if got, want := host.unmounted, []string{a}; !reflect.DeepEqual(got, want) {
		t.Errorf("close did not unmount: %v", host.unmounted)
	}
}

func TestRegistryNoopsOnUnknownIDs(t *testing.T) {
	m := NewManager(nil)
	m.SetPaneTitle("ghost", "boo")
	m.SetPaneContent("ghost", 1)
	m.ClearPane("ghost")
	if m.Registry().Get("ghost") != nil {
		t.Errorf("unknown id materialized a pane")
	}
	if m.Registry().Remove("ghost") {
		t.Errorf("removing unknown id reported success")
	}
}

type recordingListener struct {
	events []string
}

func (l *recordingListener) PaneStateChanged(id string, active bool) {
	state := "off"
	if active {
		state = "on"
	}
	l.events = append(l.events, id+":"+state)
}

func TestActivationListener(t *testing.T) {
	l := &recordingListener{}
	m := NewManager(nil)
	m.SetPaneStateListener(l)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)

	l.events = nil
	m.SetActivePane(a)
	m.SetActivePane(a) // idempotent
	m.SetActivePane("ghost")
	if got, want := l.events, []string{b + ":off", a + ":on"}; !reflect.DeepEqual(got, want) {
		t.Errorf("listener events = %v, want %v", got, want)
	}
}
