// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/serialize.go
// Summary: Converts the layout tree to and from its plain serialized value.
// Usage: Invoked by hosts through Manager.State/RestoreState; never runs
// during a drag.

package dock

// Serialized node type tags.
const (
	nodeTypeLeaf  = "leaf"
	nodeTypeSplit = "split"
)

// StateNode is the plain nested value mirroring one tree node.
type StateNode struct {
	Type        string       `json:"type"`
	PaneID      string       `json:"paneId,omitempty"`
	Orientation string       `json:"orientation,omitempty"`
	Children    []*StateNode `json:"children,omitempty"`
}

// LayoutState is the serialized layout: the tree plus the active pane id.
type LayoutState struct {
	Root         *StateNode `json:"root"`
	ActivePaneID string     `json:"activePaneId"`
}

// CaptureNode mirrors the subtree under n into plain values.
func CaptureNode(n *Node) *StateNode {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return &StateNode{Type: nodeTypeLeaf, PaneID: n.PaneID}
	}
	sn := &StateNode{
		Type:        nodeTypeSplit,
		Orientation: n.Orientation.String(),
		Children:    make([]*StateNode, len(n.Children)),
	}
	for i, child := range n.Children {
		sn.Children[i] = CaptureNode(child)
	}
	return sn
}

func parseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal":
		return Horizontal, true
	case "vertical":
		return Vertical, true
	}
	return Horizontal, false
}

// buildNode rebuilds a subtree from its serialized form, registering pane
// ids through the registry. Malformed subtrees degrade to a single fresh
// leaf instead of failing: an unknown node shape, a split with a missing
// orientation or no usable children, and a duplicated or empty pane id
// are all recovered locally.
func buildNode(sn *StateNode, reg *Registry) *Node {
	freshLeaf := func() *Node {
		return &Node{PaneID: reg.CreatePane().ID}
	}
	if sn == nil {
		return freshLeaf()
	}
	switch sn.Type {
	case nodeTypeLeaf:
		if sn.PaneID == "" {
			return freshLeaf()
		}
		p := reg.adoptPane(sn.PaneID)
		if p == nil {
			// Id already claimed by an earlier leaf.
			return freshLeaf()
		}
		return &Node{PaneID: p.ID}
	case nodeTypeSplit:
		orientation, ok := parseOrientation(sn.Orientation)
		if !ok || len(sn.Children) == 0 {
			return freshLeaf()
		}
		node := &Node{Orientation: orientation}
		for _, childState := range sn.Children {
			child := buildNode(childState, reg)
			// Collapse same-orientation nesting on the way up.
			if !child.IsLeaf() && child.Orientation == orientation {
				node.Children = append(node.Children, child.Children...)
				continue
			}
			node.Children = append(node.Children, child)
		}
		if len(node.Children) == 1 {
			return node.Children[0]
		}
		return node
	}
	return freshLeaf()
}
