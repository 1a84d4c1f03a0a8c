// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/zone.go
// Summary: Drop zone geometry: rectangles, edge bands, and pure pointer
// classification shared by per-pane and whole-workspace targets.

package dock

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
// The right and bottom edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// DropPosition classifies where a drag would dock if released.
type DropPosition int

const (
	DropNone DropPosition = iota
	DropLeft
	DropRight
	DropTop
	DropBottom
	DropCenter
)

func (p DropPosition) String() string {
	switch p {
	case DropLeft:
		return "left"
	case DropRight:
		return "right"
	case DropTop:
		return "top"
	case DropBottom:
		return "bottom"
	case DropCenter:
		return "center"
	}
	return "none"
}

// orientationFor derives the split orientation implied by an edge drop.
func orientationFor(p DropPosition) Orientation {
	if p == DropLeft || p == DropRight {
		return Horizontal
	}
	return Vertical
}

// dropsBefore reports whether the dropped pane lands before the target in
// the child sequence.
func (p DropPosition) dropsBefore() bool {
	return p == DropLeft || p == DropTop
}

// EdgeBands describes how wide the edge drop bands of a target are:
// band = clamp(size * Ratio, Min, Max), computed per axis.
type EdgeBands struct {
	Ratio    float64
	Min, Max int
}

// Default band parameters for pane targets and the whole-workspace target.
var (
	PaneBands      = EdgeBands{Ratio: 0.35, Min: 40, Max: 140}
	WorkspaceBands = EdgeBands{Ratio: 0.35, Min: 40, Max: 200}
)

func (b EdgeBands) width(size int) int {
	w := int(float64(size) * b.Ratio)
	if w < b.Min {
		w = b.Min
	}
	if w > b.Max {
		w = b.Max
	}
	if w > size/2 {
		w = size / 2
	}
	return w
}

// ClassifyZone maps a pointer position inside rect to a drop position.
// Vertical bands (top/bottom) win over horizontal ones in the corners.
// Pointers outside the rectangle classify as DropNone.
func ClassifyZone(px, py int, rect Rect, bands EdgeBands) DropPosition {
	if !rect.Contains(px, py) {
		return DropNone
	}
	bx := bands.width(rect.W)
	by := bands.width(rect.H)
	switch {
	case py < rect.Y+by:
		return DropTop
	case py >= rect.Y+rect.H-by:
		return DropBottom
	case px < rect.X+bx:
		return DropLeft
	case px >= rect.X+rect.W-bx:
		return DropRight
	}
	return DropCenter
}

// zoneRects materializes the sub-rectangles ClassifyZone implies, in the
// order they are hit-tested. withCenter is false for the workspace target,
// which has no center drop.
func zoneRects(rect Rect, bands EdgeBands, withCenter bool) map[DropPosition]Rect {
	bx := bands.width(rect.W)
	by := bands.width(rect.H)
	rects := map[DropPosition]Rect{
		DropTop:    {X: rect.X, Y: rect.Y, W: rect.W, H: by},
		DropBottom: {X: rect.X, Y: rect.Y + rect.H - by, W: rect.W, H: by},
		DropLeft:   {X: rect.X, Y: rect.Y + by, W: bx, H: rect.H - 2*by},
		DropRight:  {X: rect.X + rect.W - bx, Y: rect.Y + by, W: bx, H: rect.H - 2*by},
	}
	if withCenter {
		rects[DropCenter] = Rect{
			X: rect.X + bx,
			Y: rect.Y + by,
			W: rect.W - 2*bx,
			H: rect.H - 2*by,
		}
	}
	return rects
}
