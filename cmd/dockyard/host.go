// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/dockyard/host.go
// Summary: Event loop and app lifecycle for the dockyard host.

package main

import (
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/dockyard/apps/clock"
	"github.com/framegrace/dockyard/apps/shell"
	"github.com/framegrace/dockyard/dock"
	"github.com/framegrace/dockyard/store"
)

type host struct {
	mgr         *dock.Manager
	renderer    *dock.Renderer
	driver      *dock.TcellScreenDriver
	layoutStore *store.LayoutStore
	history     *store.HistoryStore
	historyKeep int
	command     string

	refresh chan struct{}
	quit    chan struct{}
	qOnce   sync.Once

	appsMu sync.Mutex
	apps   map[string]dock.App
}

// refreshNotifiable is implemented by apps that push redraws.
type refreshNotifiable interface {
	SetRefreshNotifier(func())
}

func (h *host) newShell() dock.App {
	return shellFactory(h.command)
}

// shellFactory is a var so tests can stub app creation.
var shellFactory = func(command string) dock.App {
	return shell.New("shell", command)
}

// MountContent starts the app behind a pane. Part of dock.ContentHost.
func (h *host) MountContent(paneID string, handle any) {
	app, ok := handle.(dock.App)
	if !ok {
		return
	}
	h.appsMu.Lock()
	if h.apps == nil {
		h.apps = make(map[string]dock.App)
	}
	h.apps[paneID] = app
	h.appsMu.Unlock()

	if n, ok := app.(refreshNotifiable); ok {
		n.SetRefreshNotifier(h.requestRefresh)
	}
	h.mgr.SetPaneTitle(paneID, app.GetTitle())
	if rect, ok := h.mgr.PaneRect(paneID); ok {
		app.Resize(contentSize(rect))
	}
	go func() {
		if err := app.Run(); err != nil {
			log.Printf("Host: app in pane %s exited: %v", paneID, err)
		}
	}()
}

// UnmountContent stops the app behind a pane. Part of dock.ContentHost.
func (h *host) UnmountContent(paneID string, handle any) {
	h.appsMu.Lock()
	delete(h.apps, paneID)
	h.appsMu.Unlock()
	if app, ok := handle.(dock.App); ok {
		app.Stop()
	}
}

func (h *host) appFor(paneID string) dock.App {
	h.appsMu.Lock()
	defer h.appsMu.Unlock()
	return h.apps[paneID]
}

func (h *host) requestRefresh() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

func (h *host) loop() {
	events := make(chan tcell.Event)
	go func() {
		for {
			ev := h.driver.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-h.quit:
				return
			}
		}
	}()

	h.renderer.Draw(h.mgr)
	for {
		select {
		case <-h.quit:
			return
		case <-h.refresh:
			h.renderer.Draw(h.mgr)
		case ev := <-events:
			h.handleEvent(ev)
			select {
			case <-h.quit:
				return
			default:
			}
			h.renderer.Draw(h.mgr)
		}
	}
}

func (h *host) handleEvent(ev tcell.Event) {
	switch tev := ev.(type) {
	case *tcell.EventResize:
		w, hgt := tev.Size()
		h.mgr.SetViewport(dock.Rect{W: w, H: hgt})
		h.resizeApps()
	case *tcell.EventMouse:
		h.handleMouse(tev)
	case *tcell.EventKey:
		h.handleKey(tev)
	}
}

func (h *host) handleKey(ev *tcell.EventKey) {
	if session := h.mgr.Session(); session != nil && ev.Key() == tcell.KeyEsc {
		session.Cancel()
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		h.shutdown()
		return
	case tcell.KeyCtrlS:
		h.splitActive(dock.Horizontal)
		return
	case tcell.KeyCtrlE:
		h.splitActive(dock.Vertical)
		return
	case tcell.KeyCtrlW:
		h.closeActive()
		return
	case tcell.KeyCtrlT:
		h.toggleFloat()
		return
	case tcell.KeyCtrlL:
		h.snapshotLayout()
		return
	case tcell.KeyCtrlK:
		h.mgr.SetPaneContent(h.mgr.ActivePaneID(), clock.New())
		return
	}

	if app := h.appFor(h.mgr.ActivePaneID()); app != nil {
		if kh, ok := app.(dock.KeyHandler); ok {
			kh.HandleKey(ev)
		}
	}
}

func (h *host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	session := h.mgr.Session()

	switch {
	case ev.Buttons()&tcell.Button1 != 0 && session == nil:
		id, floating := h.paneAt(x, y)
		if id == "" {
			return
		}
		h.mgr.SetActivePane(id)
		if floating {
			rect, _ := h.mgr.PaneRect(id)
			if x >= rect.X+rect.W-2 && y >= rect.Y+rect.H-2 {
				h.mgr.BeginFloatResize(id, x, y)
			} else {
				h.mgr.BeginFloatMove(id, x, y)
			}
			return
		}
		h.mgr.BeginPaneDrag(id, x, y)
	case session != nil && ev.Buttons()&tcell.Button1 != 0:
		session.OnMove(x, y)
	case session != nil:
		session.OnRelease(x, y)
		h.resizeApps()
	}
}

// paneAt finds the pane under a point, floats first since they render on
// top of the docked layer.
func (h *host) paneAt(x, y int) (id string, floating bool) {
	floats := h.mgr.FloatingPaneIDs()
	for i := len(floats) - 1; i >= 0; i-- {
		if rect, ok := h.mgr.PaneRect(floats[i]); ok && rect.Contains(x, y) {
			return floats[i], true
		}
	}
	for _, pid := range h.mgr.PaneIDs() {
		if p := h.mgr.Registry().Get(pid); p != nil && p.Floating {
			continue
		}
		if rect, ok := h.mgr.PaneRect(pid); ok && rect.Contains(x, y) {
			return pid, false
		}
	}
	return "", false
}

func (h *host) splitActive(orientation dock.Orientation) {
	newID := h.mgr.SplitPane(h.mgr.ActivePaneID(), orientation)
	if newID == "" {
		return
	}
	h.mgr.SetPaneContent(newID, h.newShell())
	h.resizeApps()
}

func (h *host) closeActive() {
	id := h.mgr.ActivePaneID()
	// The engine empties the sole pane instead of removing it, so closing
	// it a second time is the quit gesture.
	if h.mgr.Registry().Count() == 1 {
		if p := h.mgr.Registry().Get(id); p != nil && p.Content == nil {
			h.shutdown()
			return
		}
	}
	h.mgr.ClosePane(id)
	h.resizeApps()
}

func (h *host) toggleFloat() {
	id := h.mgr.ActivePaneID()
	p := h.mgr.Registry().Get(id)
	if p == nil {
		return
	}
	if p.Floating {
		h.mgr.DockPane(id, "", dock.DropRight)
	} else {
		vp := h.mgr.Viewport()
		w := vp.W / 2
		hgt := vp.H / 2
		if w < dock.MinFloatWidth {
			w = dock.MinFloatWidth
		}
		if hgt < dock.MinFloatHeight {
			hgt = dock.MinFloatHeight
		}
		h.mgr.FloatPane(id, dock.Rect{X: vp.X + vp.W/4, Y: vp.Y + vp.H/4, W: w, H: hgt})
	}
	h.resizeApps()
}

func (h *host) snapshotLayout() {
	if h.history == nil {
		return
	}
	if _, err := h.history.Save("manual", h.mgr.State()); err != nil {
		log.Printf("Host: failed to record layout snapshot: %v", err)
	}
}

func (h *host) resizeApps() {
	for _, id := range h.mgr.PaneIDs() {
		rect, ok := h.mgr.PaneRect(id)
		if !ok {
			continue
		}
		if app := h.appFor(id); app != nil {
			app.Resize(contentSize(rect))
		}
	}
}

func (h *host) stopApps() {
	h.appsMu.Lock()
	apps := make([]dock.App, 0, len(h.apps))
	for _, app := range h.apps {
		apps = append(apps, app)
	}
	h.apps = nil
	h.appsMu.Unlock()
	for _, app := range apps {
		app.Stop()
	}
}

func (h *host) shutdown() {
	h.qOnce.Do(func() { close(h.quit) })
}

// contentSize is the drawable area inside a pane's border.
func contentSize(rect dock.Rect) (cols, rows int) {
	cols = rect.W - 2
	rows = rect.H - 2
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
