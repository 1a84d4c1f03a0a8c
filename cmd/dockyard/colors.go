// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/dockyard/colors.go
// Summary: Queries the hosting terminal for its default colors so panes
// blend in instead of forcing black-on-white.

package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

// queryDefaultColors asks the terminal for its default foreground and
// background via OSC 10/11. Terminals that don't answer within the
// deadline get tcell defaults.
func queryDefaultColors() (fg, bg tcell.Color, err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return tcell.ColorDefault, tcell.ColorDefault, fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()

	oldState, err := term.MakeRaw(int(tty.Fd()))
	if err != nil {
		return tcell.ColorDefault, tcell.ColorDefault, fmt.Errorf("MakeRaw: %w", err)
	}
	defer term.Restore(int(tty.Fd()), oldState)

	fg, err = queryOSCColor(tty, 10)
	if err != nil {
		return tcell.ColorDefault, tcell.ColorDefault, err
	}
	bg, err = queryOSCColor(tty, 11)
	if err != nil {
		return tcell.ColorDefault, tcell.ColorDefault, err
	}
	return fg, bg, nil
}

var oscReplyPattern = `\x1b\]%d;rgb:([0-9A-Fa-f]{4})/([0-9A-Fa-f]{4})/([0-9A-Fa-f]{4})`

func queryOSCColor(tty *os.File, code int) (tcell.Color, error) {
	if _, err := tty.WriteString(fmt.Sprintf("\x1b]%d;?\a", code)); err != nil {
		return tcell.ColorDefault, err
	}
	if err := tty.SetReadDeadline(time.Now().Add(500 * time.Millisecond)); err != nil {
		return tcell.ColorDefault, err
	}
	resp := make([]byte, 0, 64)
	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return tcell.ColorDefault, fmt.Errorf("read reply: %w", err)
		}
		resp = append(resp, buf[:n]...)
		if buf[0] == '\a' {
			break
		}
	}
	re := regexp.MustCompile(fmt.Sprintf(oscReplyPattern, code))
	m := re.FindStringSubmatch(string(resp))
	if len(m) != 4 {
		return tcell.ColorDefault, fmt.Errorf("unexpected reply: %q", resp)
	}
	hex2int := func(s string) int32 {
		v, _ := strconv.ParseInt(s, 16, 32)
		return int32(v >> 8)
	}
	return tcell.NewRGBColor(hex2int(m[1]), hex2int(m[2]), hex2int(m[3])), nil
}
