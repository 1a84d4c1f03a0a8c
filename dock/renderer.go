// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/renderer.go
// Summary: Draws the docked tree, floating panes, and the drag overlay
// onto a ScreenDriver. Pure tree → surface projection: the renderer never
// mutates layout state.

package dock

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Renderer projects a Manager's layout onto a screen driver.
type Renderer struct {
	driver ScreenDriver

	BaseStyle     tcell.Style
	BorderStyle   tcell.Style
	ActiveBorder  tcell.Style
	FloatBorder   tcell.Style
	ZoneHighlight tcell.Style
	GhostStyle    tcell.Style
}

// NewRenderer creates a renderer with default styles.
func NewRenderer(driver ScreenDriver) *Renderer {
	base := tcell.StyleDefault
	return &Renderer{
		driver:        driver,
		BaseStyle:     base,
		BorderStyle:   base.Foreground(tcell.ColorGray),
		ActiveBorder:  base.Foreground(tcell.ColorAqua),
		FloatBorder:   base.Foreground(tcell.ColorYellow),
		ZoneHighlight: base.Background(tcell.ColorNavy),
		GhostStyle:    base.Foreground(tcell.ColorBlack).Background(tcell.ColorAqua),
	}
}

// Draw renders the full workspace: docked panes in traversal order,
// floating panes above them in raise order, then any drag overlay.
func (r *Renderer) Draw(m *Manager) {
	r.fill(m.Viewport(), ' ', r.BaseStyle)
	for _, id := range m.Tree().PaneIDs() {
		rect, ok := m.PaneRect(id)
		if !ok {
			continue
		}
		r.drawPane(m, id, rect, false)
	}
	for _, id := range m.FloatingPaneIDs() {
		rect, ok := m.PaneRect(id)
		if !ok {
			continue
		}
		r.fill(rect, ' ', r.BaseStyle)
		r.drawPane(m, id, rect, true)
	}
	r.drawOverlay(m)
	r.driver.Show()
}

func (r *Renderer) drawPane(m *Manager, id string, rect Rect, floating bool) {
	if rect.W < 2 || rect.H < 2 {
		return
	}
	style := r.BorderStyle
	if floating {
		style = r.FloatBorder
	}
	if m.ActivePaneID() == id {
		style = r.ActiveBorder
	}
	r.border(rect, style)

	pane := m.Registry().Get(id)
	if pane == nil {
		return
	}
	title := pane.Title
	if app, ok := pane.Content.(App); ok && title == "" {
		title = app.GetTitle()
	}
	if title != "" && rect.W > 4 {
		// Truncate by display width so wide runes don't spill over the border.
		title = runewidth.Truncate(title, rect.W-4, "…")
		col := rect.X + 2
		for _, ch := range " " + title + " " {
			if col >= rect.X+rect.W-1 {
				break
			}
			r.driver.SetContent(col, rect.Y, ch, nil, style)
			col += runewidth.RuneWidth(ch)
		}
	}

	if app, ok := pane.Content.(App); ok {
		buf := app.Render()
		for y, row := range buf {
			for x, cell := range row {
				if rect.X+1+x < rect.X+rect.W-1 && rect.Y+1+y < rect.Y+rect.H-1 {
					r.driver.SetContent(rect.X+1+x, rect.Y+1+y, cell.Ch, nil, cell.Style)
				}
			}
		}
	}
}

// drawOverlay highlights the hovered drop zone and paints the ghost token
// at the pointer while a docking drag is live.
func (r *Renderer) drawOverlay(m *Manager) {
	s := m.Session()
	if s == nil || s.State() != DragDragging {
		return
	}
	if zone, ok := s.Hovered(); ok {
		r.fill(zone.Rect, ' ', r.ZoneHighlight)
	}
	ghost := s.SourceID()
	if pane := m.Registry().Get(s.SourceID()); pane != nil && pane.Title != "" {
		ghost = pane.Title
	}
	x, y := s.Pointer()
	for _, ch := range " " + runewidth.Truncate(ghost, 20, "…") + " " {
		r.driver.SetContent(x, y, ch, nil, r.GhostStyle)
		x += runewidth.RuneWidth(ch)
	}
}

func (r *Renderer) border(rect Rect, style tcell.Style) {
	x1 := rect.X + rect.W - 1
	y1 := rect.Y + rect.H - 1
	for x := rect.X; x <= x1; x++ {
		r.driver.SetContent(x, rect.Y, tcell.RuneHLine, nil, style)
		r.driver.SetContent(x, y1, tcell.RuneHLine, nil, style)
	}
	for y := rect.Y; y <= y1; y++ {
		r.driver.SetContent(rect.X, y, tcell.RuneVLine, nil, style)
		r.driver.SetContent(x1, y, tcell.RuneVLine, nil, style)
	}
	r.driver.SetContent(rect.X, rect.Y, tcell.RuneULCorner, nil, style)
	r.driver.SetContent(x1, rect.Y, tcell.RuneURCorner, nil, style)
	r.driver.SetContent(rect.X, y1, tcell.RuneLLCorner, nil, style)
	r.driver.SetContent(x1, y1, tcell.RuneLRCorner, nil, style)
}

func (r *Renderer) fill(rect Rect, ch rune, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			r.driver.SetContent(x, y, ch, nil, style)
		}
	}
}
