// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/shell/shell.go
// Summary: A pty-hosted command app for dock panes. Keeps a naive line
// buffer rather than a full terminal emulation; escape sequences are
// stripped.

package shell

import (
	"log"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/dockyard/dock"
)

type shellApp struct {
	title   string
	command string
	width   int
	height  int
	cmd     *exec.Cmd
	pty     *os.File
	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	refresh func()

	lines  [][]rune
	curCol int
	esc    escState
}

// escState tracks skipping of escape sequences in the output stream:
// escStart right after ESC, escCSI until a final byte in 0x40..0x7e,
// escOSC until BEL.
type escState int

const (
	escNone escState = iota
	escStart
	escCSI
	escOSC
)

// New creates a shell app running command inside a pty.
func New(title, command string) dock.App {
	return &shellApp{
		title:   title,
		command: command,
		width:   80,
		height:  24,
		stop:    make(chan struct{}),
		lines:   [][]rune{{}},
	}
}

// SetRefreshNotifier installs a callback fired when new output arrives.
func (a *shellApp) SetRefreshNotifier(refresh func()) {
	a.mu.Lock()
	a.refresh = refresh
	a.mu.Unlock()
}

func (a *shellApp) GetTitle() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.title
}

func (a *shellApp) Run() error {
	a.mu.Lock()
	cols := a.width
	rows := a.height
	a.mu.Unlock()

	cmd := exec.Command(a.command)
	cmd.Env = append(os.Environ(), "TERM=dumb")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		log.Printf("Shell: failed to start pty for %q: %v", a.command, err)
		return err
	}
	a.mu.Lock()
	a.pty = ptmx
	a.cmd = cmd
	a.mu.Unlock()

	a.wg.Add(1)
	go a.readLoop(ptmx)
	return cmd.Wait()
}

func (a *shellApp) readLoop(ptmx *os.File) {
	defer a.wg.Done()
	buf := make([]byte, 4096)
	for {
		select {
		case <-a.stop:
			return
		default:
		}
		n, err := ptmx.Read(buf)
		if n > 0 {
			a.mu.Lock()
			a.consume(buf[:n])
			refresh := a.refresh
			a.mu.Unlock()
			if refresh != nil {
				refresh()
			}
		}
		if err != nil {
			return
		}
	}
}

// consume folds raw pty output into the line buffer. Caller holds the lock.
func (a *shellApp) consume(data []byte) {
	for _, r := range string(data) {
		switch a.esc {
		case escStart:
			switch r {
			case '[':
				a.esc = escCSI
			case ']':
				a.esc = escOSC
			default:
				a.esc = escNone
			}
			continue
		case escCSI:
			if r >= 0x40 && r <= 0x7e {
				a.esc = escNone
			}
			continue
		case escOSC:
			if r == '\a' {
				a.esc = escNone
			}
			continue
		}
		switch r {
		case 0x1b:
			a.esc = escStart
		case '\n':
			a.lines = append(a.lines, []rune{})
			a.curCol = 0
		case '\r':
			a.curCol = 0
		case '\b':
			if a.curCol > 0 {
				a.curCol--
			}
		case '\t':
			for i := 0; i < 8-(a.curCol%8); i++ {
				a.put(' ')
			}
		default:
			if r >= ' ' {
				a.put(r)
			}
		}
	}
	if extra := len(a.lines) - 2000; extra > 0 {
		a.lines = a.lines[extra:]
	}
}

func (a *shellApp) put(r rune) {
	line := a.lines[len(a.lines)-1]
	for len(line) <= a.curCol {
		line = append(line, ' ')
	}
	line[a.curCol] = r
	a.lines[len(a.lines)-1] = line
	a.curCol++
}

func (a *shellApp) Render() [][]dock.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := a.height
	cols := a.width
	grid := make([][]dock.Cell, rows)
	start := 0
	if len(a.lines) > rows {
		start = len(a.lines) - rows
	}
	for y := 0; y < rows; y++ {
		grid[y] = make([]dock.Cell, cols)
		for x := range grid[y] {
			grid[y][x] = dock.Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
		idx := start + y
		if idx >= len(a.lines) {
			continue
		}
		for x, r := range a.lines[idx] {
			if x >= cols {
				break
			}
			grid[y][x] = dock.Cell{Ch: r, Style: tcell.StyleDefault}
		}
	}
	return grid
}

func (a *shellApp) Resize(cols, rows int) {
	a.mu.Lock()
	a.width = cols
	a.height = rows
	ptmx := a.pty
	a.mu.Unlock()

	if ptmx != nil {
		if err := pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
			log.Printf("Shell: failed to resize pty: %v", err)
		}
	}
}

func (a *shellApp) HandleKey(ev *tcell.EventKey) {
	a.mu.Lock()
	ptmx := a.pty
	a.mu.Unlock()
	if ptmx == nil {
		return
	}

	var keyBytes []byte
	switch ev.Key() {
	case tcell.KeyEnter:
		keyBytes = []byte("\r")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		keyBytes = []byte{'\b'}
	case tcell.KeyTab:
		keyBytes = []byte("\t")
	case tcell.KeyEsc:
		keyBytes = []byte("\x1b")
	case tcell.KeyCtrlC:
		keyBytes = []byte{0x03}
	case tcell.KeyCtrlD:
		keyBytes = []byte{0x04}
	default:
		keyBytes = []byte(string(ev.Rune()))
	}
	if len(keyBytes) > 0 {
		ptmx.Write(keyBytes)
	}
}

func (a *shellApp) Stop() {
	a.mu.Lock()
	select {
	case <-a.stop:
	default:
		close(a.stop)
	}
	ptmx := a.pty
	cmd := a.cmd
	a.mu.Unlock()

	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
	if ptmx != nil {
		ptmx.Close()
	}
	a.wg.Wait()
}
