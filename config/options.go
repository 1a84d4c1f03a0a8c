// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/options.go
// Summary: Translates config sections into dock manager settings.

package config

import "github.com/framegrace/dockyard/dock"

// Options collects the tunables a host applies to a dock manager.
type Options struct {
	DragThreshold int
	PaneZone      dock.EdgeBands
	WorkspaceZone dock.EdgeBands
	HistoryKeep   int
}

// ReadOptions extracts manager tunables from the config, falling back to
// the built-in defaults for missing or malformed values.
func ReadOptions(cfg Config) Options {
	return Options{
		DragThreshold: cfg.GetInt("drag", "threshold", 2),
		PaneZone:      readBands(cfg, "zones.pane", dock.PaneBands),
		WorkspaceZone: readBands(cfg, "zones.workspace", dock.WorkspaceBands),
		HistoryKeep:   cfg.GetInt("history", "keep", 20),
	}
}

// Apply installs the options on a manager.
func (o Options) Apply(m *dock.Manager) {
	if m == nil {
		return
	}
	if o.DragThreshold > 0 {
		m.DragThreshold = o.DragThreshold
	}
	m.PaneZone = o.PaneZone
	m.WorkspaceZone = o.WorkspaceZone
}

func readBands(cfg Config, section string, fallback dock.EdgeBands) dock.EdgeBands {
	bands := dock.EdgeBands{
		Ratio: cfg.GetFloat(section, "edge_ratio", fallback.Ratio),
		Min:   cfg.GetInt(section, "min_band", fallback.Min),
		Max:   cfg.GetInt(section, "max_band", fallback.Max),
	}
	if bands.Ratio <= 0 || bands.Ratio > 1 {
		bands.Ratio = fallback.Ratio
	}
	if bands.Min < 0 {
		bands.Min = fallback.Min
	}
	if bands.Max < bands.Min {
		bands.Max = fallback.Max
	}
	return bands
}
