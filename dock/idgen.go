// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/idgen.go
// Summary: Stable pane id generation for the dock engine.

package dock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// IDGenerator hands out stable pane ids. Observe feeds back ids seen in a
// restored layout so freshly created panes never collide with them.
type IDGenerator interface {
	Next() string
	Observe(id string)
}

const idPrefix = "pane-"

// counterIDGenerator issues "pane-N" ids from a monotonic counter.
type counterIDGenerator struct {
	mu   sync.Mutex
	last uint64
}

// NewIDGenerator returns the default monotonic generator.
func NewIDGenerator() IDGenerator {
	return &counterIDGenerator{}
}

func (g *counterIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last++
	return fmt.Sprintf("%s%d", idPrefix, g.last)
}

// Observe bumps the counter past any "pane-N" id found in a restored
// layout. Ids with a foreign shape are accepted but don't move the counter.
func (g *counterIDGenerator) Observe(id string) {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}
