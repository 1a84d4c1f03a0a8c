// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"strings"
	"testing"
)

func newTestApp(cols, rows int) *shellApp {
	a := New("test", "/bin/true").(*shellApp)
	a.width = cols
	a.height = rows
	return a
}

func renderLine(a *shellApp, y int) string {
	grid := a.Render()
	var b strings.Builder
	for _, c := range grid[y] {
		b.WriteRune(c.Ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestConsumePlainLines(t *testing.T) {
	a := newTestApp(20, 4)
	a.consume([]byte("hello\r\nworld\r\n"))

	if got := renderLine(a, 0); got != "hello" {
		t.Errorf("line 0 = %q, want %q", got, "hello")
	}
	if got := renderLine(a, 1); got != "world" {
		t.Errorf("line 1 = %q, want %q", got, "world")
	}
}

func TestConsumeCarriageReturnOverwrites(t *testing.T) {
	a := newTestApp(20, 4)
	a.consume([]byte("aaaa\rbb"))

	if got := renderLine(a, 0); got != "bbaa" {
		t.Errorf("line 0 = %q, want %q", got, "bbaa")
	}
}

func TestConsumeStripsEscapeSequences(t *testing.T) {
	a := newTestApp(20, 4)
	a.consume([]byte("\x1b[31mred\x1b[0m text"))

	if got := renderLine(a, 0); got != "red text" {
		t.Errorf("line 0 = %q, want %q", got, "red text")
	}
}

func TestConsumeBackspace(t *testing.T) {
	a := newTestApp(20, 4)
	a.consume([]byte("abc\bd"))

	if got := renderLine(a, 0); got != "abd" {
		t.Errorf("line 0 = %q, want %q", got, "abd")
	}
}

func TestRenderShowsTailWhenScrolled(t *testing.T) {
	a := newTestApp(10, 2)
	a.consume([]byte("one\r\ntwo\r\nthree\r\nfour"))

	if got := renderLine(a, 0); got != "three" {
		t.Errorf("top line = %q, want %q", got, "three")
	}
	if got := renderLine(a, 1); got != "four" {
		t.Errorf("bottom line = %q, want %q", got, "four")
	}
}

func TestRenderClipsToWidth(t *testing.T) {
	a := newTestApp(4, 2)
	a.consume([]byte("overflowing"))

	grid := a.Render()
	if len(grid[0]) != 4 {
		t.Fatalf("row width = %d, want 4", len(grid[0]))
	}
	if got := renderLine(a, 0); got != "over" {
		t.Errorf("visible line = %q, want %q", got, "over")
	}
}
