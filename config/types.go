// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Section access and typed getters over the config store.

package config

import "strconv"

// Section returns the named section, or nil when absent or not a map.
func (c Config) Section(name string) Section {
	switch v := c[name].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// RegisterDefaults fills missing keys of a section without overwriting
// values already present.
func (c Config) RegisterDefaults(name string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(name)
	if section == nil {
		section = make(Section, len(defaults))
		c[name] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// lookup fetches a raw value. Values arrive in two shapes: as written by
// applyDefaults (Go ints, floats, bools) and as decoded from
// dockyard.json (float64 for every number). The getters accept both,
// plus strings, so a hand-edited file still parses; anything else falls
// back to the caller's default.
func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if v, ok := c.lookup(sectionName, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetInt retrieves an integer value from the config.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	if v, ok := c.lookup(sectionName, key); ok {
		switch v := v.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from the config.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	if v, ok := c.lookup(sectionName, key); ok {
		switch v := v.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from the config.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	if v, ok := c.lookup(sectionName, key); ok {
		switch v := v.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		case int:
			return v != 0
		case float64:
			return v != 0
		}
	}
	return defaultValue
}

// clone copies the config one section deep. Set stores a clone so later
// mutation of the caller's map cannot bypass the store's lock.
func (c Config) clone() Config {
	out := make(Config, len(c))
	for name, raw := range c {
		if section := c.Section(name); section != nil {
			copied := make(Section, len(section))
			for k, v := range section {
				copied[k] = v
			}
			out[name] = copied
			continue
		}
		out[name] = raw
	}
	return out
}
