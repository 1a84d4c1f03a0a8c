// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/clock/clock.go
// Summary: A minimal clock app, useful as pane content in demos and tests.

package clock

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/dockyard/dock"
)

type clockApp struct {
	width, height int
	currentTime   string
	mu            sync.RWMutex
	stop          chan struct{}
	refresh       func()
	buf           [][]dock.Cell
}

// New creates a clock app.
func New() dock.App {
	return &clockApp{
		stop: make(chan struct{}),
	}
}

// SetRefreshNotifier installs a callback fired on every tick.
func (a *clockApp) SetRefreshNotifier(refresh func()) {
	a.mu.Lock()
	a.refresh = refresh
	a.mu.Unlock()
}

// Run updates the time every second until stopped.
func (a *clockApp) Run() error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	updateTime := func() {
		a.mu.Lock()
		a.currentTime = time.Now().Format("15:04:05")
		a.mu.Unlock()
	}
	updateTime()

	for {
		select {
		case <-ticker.C:
			updateTime()
			a.mu.RLock()
			refresh := a.refresh
			a.mu.RUnlock()
			if refresh != nil {
				refresh()
			}
		case <-a.stop:
			return nil
		}
	}
}

func (a *clockApp) Stop() {
	close(a.stop)
}

func (a *clockApp) Resize(cols, rows int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width, a.height = cols, rows
}

func (a *clockApp) Render() [][]dock.Cell {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.width <= 0 || a.height <= 0 {
		return [][]dock.Cell{}
	}

	if len(a.buf) != a.height || (len(a.buf) > 0 && len(a.buf[0]) != a.width) {
		a.buf = make([][]dock.Cell, a.height)
		for y := 0; y < a.height; y++ {
			a.buf[y] = make([]dock.Cell, a.width)
		}
	}

	for i := range a.buf {
		for j := range a.buf[i] {
			a.buf[i][j] = dock.Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
	}

	style := tcell.StyleDefault.Foreground(tcell.PaletteColor(6))

	str := fmt.Sprintf("Time: %s", a.currentTime)
	y := a.height / 2
	x := (a.width - len(str)) / 2

	if y < a.height && x >= 0 {
		for i, ch := range str {
			if x+i < a.width {
				a.buf[y][x+i] = dock.Cell{Ch: ch, Style: style}
			}
		}
	}

	return a.buf
}

func (a *clockApp) GetTitle() string {
	return "Clock"
}
