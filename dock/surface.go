// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/surface.go
// Summary: The rendering surface abstraction and the optional interfaces
// pane content may implement to take part in drawing.

package dock

import "github.com/gdamore/tcell/v2"

// ScreenDriver abstracts the rendering surface. It mirrors the subset of
// tcell.Screen the renderer needs so tests can run against stubs and a
// remote surface can slot in later.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	SetStyle(style tcell.Style)
	HideCursor()
	Show()
	PollEvent() tcell.Event
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// Cell is one rendered character cell.
type Cell struct {
	Ch    rune
	Style tcell.Style
}

// App is the optional contract for pane content the renderer knows how to
// draw. Content handles that don't implement it render as an empty pane;
// the engine itself never inspects content.
type App interface {
	Run() error
	Stop()
	Resize(cols, rows int)
	Render() [][]Cell
	GetTitle() string
}

// KeyHandler is implemented by apps that accept keyboard input.
type KeyHandler interface {
	HandleKey(ev *tcell.EventKey)
}
