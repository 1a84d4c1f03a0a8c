// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for dockyard configuration.

package config

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("drag", Section{
		"threshold": 2,
	})
	cfg.RegisterDefaults("zones.pane", Section{
		"edge_ratio": 0.35,
		"min_band":   40,
		"max_band":   140,
	})
	cfg.RegisterDefaults("zones.workspace", Section{
		"edge_ratio": 0.35,
		"min_band":   40,
		"max_band":   200,
	})
	cfg.RegisterDefaults("history", Section{
		"keep": 20,
	})
}
