// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/dockyard/main.go
// Summary: Terminal host for the dock engine: renders the pane layout
// with tcell, drives drags from mouse events, and persists the layout.
// Usage: Run `dockyard`; Ctrl-S/Ctrl-E split, Ctrl-W close, Ctrl-T float,
// mouse drag rearranges panes, Ctrl-Q quits.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/dockyard/config"
	"github.com/framegrace/dockyard/dock"
	"github.com/framegrace/dockyard/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("dockyard", flag.ContinueOnError)
	layoutPath := fs.String("layout", "", "Path to the persisted layout file (default: config dir)")
	historyPath := fs.String("history", "", "Path to the layout history database (default: config dir)")
	fromScratch := fs.Bool("from-scratch", false, "Ignore any saved layout and start fresh")
	command := fs.String("command", defaultShellCommand(), "Command run in new panes")
	logPath := fs.String("log", "", "Append logs to this file instead of stderr")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg := config.System()
	opts := config.ReadOptions(cfg)

	if *layoutPath == "" {
		p, err := config.LayoutPath()
		if err != nil {
			return fmt.Errorf("resolve layout path: %w", err)
		}
		*layoutPath = p
	}
	if *historyPath == "" {
		p, err := config.HistoryPath()
		if err != nil {
			return fmt.Errorf("resolve history path: %w", err)
		}
		*historyPath = p
	}

	fg, bg, err := queryDefaultColors()
	if err != nil {
		log.Printf("Host: terminal color query failed, using defaults: %v", err)
		fg, bg = tcell.ColorDefault, tcell.ColorDefault
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}

	h := &host{
		driver:      dock.NewTcellScreenDriver(screen),
		command:     *command,
		layoutStore: store.NewLayoutStore(*layoutPath),
		historyKeep: opts.HistoryKeep,
		refresh:     make(chan struct{}, 1),
		quit:        make(chan struct{}),
	}

	history, err := store.OpenHistory(*historyPath)
	if err != nil {
		log.Printf("Host: layout history unavailable: %v", err)
	} else {
		h.history = history
		defer history.Close()
	}

	h.mgr = dock.NewManager(dock.NewIDGenerator())
	opts.Apply(h.mgr)
	h.mgr.Registry().SetContentHost(h)

	if err := h.driver.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer h.driver.Fini()
	screen.EnableMouse()

	h.renderer = dock.NewRenderer(h.driver)
	h.renderer.BaseStyle = tcell.StyleDefault.Foreground(fg).Background(bg)

	w, hgt := h.driver.Size()
	h.mgr.SetViewport(dock.Rect{W: w, H: hgt})

	if !*fromScratch {
		if state, err := h.layoutStore.Load(); err == nil {
			h.mgr.RestoreState(state)
		} else if !os.IsNotExist(err) {
			log.Printf("Host: saved layout unusable, starting fresh: %v", err)
		}
	}
	for _, id := range h.mgr.PaneIDs() {
		h.mgr.SetPaneContent(id, h.newShell())
	}

	h.resizeApps()
	h.loop()

	state := h.mgr.State()
	if err := h.layoutStore.Save(state); err != nil {
		log.Printf("Host: failed to save layout: %v", err)
	}
	if h.history != nil {
		if _, err := h.history.Save("exit", state); err != nil {
			log.Printf("Host: failed to record layout history: %v", err)
		}
		if err := h.history.Prune(h.historyKeep); err != nil {
			log.Printf("Host: failed to prune layout history: %v", err)
		}
	}
	h.stopApps()
	return nil
}

func defaultShellCommand() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}
