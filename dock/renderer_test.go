// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/renderer_test.go
// Summary: Exercises surface drawing against a stub screen driver.

package dock

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

type stubScreenDriver struct {
	width, height int
	initCalled    bool
	finiCalled    bool
	showCount     int
	content       map[[2]int]rune
}

func newStubDriver(w, h int) *stubScreenDriver {
	return &stubScreenDriver{width: w, height: h, content: make(map[[2]int]rune)}
}

func (s *stubScreenDriver) Init() error { s.initCalled = true; return nil }
func (s *stubScreenDriver) Fini() { s.finiCalled = true }
func (s *stubScreenDriver) Size() (int, int) {
	return s.width, s.height
}
func (s *stubScreenDriver) SetStyle(tcell.Style) {}
func (s *stubScreenDriver) HideCursor() {}
func (s *stubScreenDriver) Show() { s.showCount++ }
func (s *stubScreenDriver) PollEvent() tcell.Event  { return nil }
func (s *stubScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	s.content[[2]int{x, y}] = mainc
}

func (s *stubScreenDriver) runeAt(x, y int) rune { return s.content[[2]int{x, y}] }

func TestRendererDrawsBordersAndTitles(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	m.SetPaneTitle(a, "logs")
	m.SetViewport(Rect{X: 0, Y: 0, W: 80, H: 24})

	driver := newStubDriver(80, 24)
	r := NewRenderer(driver)
	r.Draw(m)

	ra, _ := m.PaneRect(a)
	if driver.runeAt(ra.X, ra.Y) != tcell.RuneULCorner {
		t.Errorf("missing top-left corner for pane %s", a)
	}
	if driver.runeAt(ra.X+ra.W-1, ra.Y+ra.H-1) != tcell.RuneLRCorner {
		t.Errorf("missing bottom-right corner for pane %s", a)
	}
	// " logs " starts two cells in on the top border.
	for i, ch := range "logs" {
		if got := driver.runeAt(ra.X+3+i, ra.Y); got != ch {
			t.Errorf("title rune %d = %q, want %q", i, got, ch)
		}
	}
	rb, _ := m.PaneRect(b)
	if driver.runeAt(rb.X, rb.Y) != tcell.RuneULCorner {
		t.Errorf("missing corner for pane %s", b)
	}
	if driver.showCount != 1 {
		t.Errorf("driver.Show called %d times", driver.showCount)
	}
}

type fixedApp struct {
	title string
	cells [][]Cell
}

func (a *fixedApp) Run() error       { return nil }
func (a *fixedApp) Stop() {}
func (a *fixedApp) Resize(int, int) {}
func (a *fixedApp) Render() [][]Cell { return a.cells }
func (a *fixedApp) GetTitle() string { return a.title }

func TestRendererDrawsAppContentInsideBorders(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	m.SetPaneContent(a, &fixedApp{
		title: "demo",
		cells: [][]Cell{{{Ch: 'x'}, {Ch: 'y'}}},
	})
	m.SetViewport(Rect{X: 0, Y: 0, W: 20, H: 10})

	driver := newStubDriver(20, 10)
	NewRenderer(driver).Draw(m)

	if driver.runeAt(1, 1) != 'x' || driver.runeAt(2, 1) != 'y' {
		t.Errorf("app content not drawn inside the border")
	}
	if driver.runeAt(0, 1) != tcell.RuneVLine {
		t.Errorf("content overwrote the border")
	}
}

func TestRendererDrawsDragGhost(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	m.PaneZone = EdgeBands{Ratio: 0.25, Min: 1, Max: 5}
	m.WorkspaceZone = EdgeBands{Ratio: 0.05, Min: 1, Max: 1}
	m.SetViewport(Rect{X: 0, Y: 0, W: 80, H: 24})
	m.SetPaneTitle(b, "drag me")

	s := m.BeginPaneDrag(b, 60, 10)
	s.OnMove(10, 10)

	driver := newStubDriver(80, 24)
	NewRenderer(driver).Draw(m)

	// The ghost token sits at the pointer: " drag me ".
	if driver.runeAt(11, 10) != 'd' {
		t.Errorf("ghost token not drawn at the pointer, got %q", driver.runeAt(11, 10))
	}
}

func TestRendererDrawsFloatingPaneOnTop(t *testing.T) {
	m := NewManager(nil)
	a := m.ActivePaneID()
	b := m.SplitPane(a, Horizontal)
	m.SetViewport(Rect{X: 0, Y: 0, W: 80, H: 24})
	m.FloatPane(b, Rect{X: 2, Y: 2, W: 24, H: 8})

	driver := newStubDriver(80, 24)
	NewRenderer(driver).Draw(m)

	if driver.runeAt(2, 2) != tcell.RuneULCorner {
		t.Errorf("floating pane border not drawn at its free position")
	}
}
