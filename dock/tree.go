// Copyright © 2025 Dockyard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: dock/tree.go
// Summary: The recursive split/leaf layout tree and its restructuring
// transforms: insert, detach, trim, flatten, swap.
// Usage: Owned by the Manager; every public mutation leaves the tree with
// no degenerate or same-orientation-nested splits.

package dock

// Orientation describes how a split lays out its children.
type Orientation int

const (
	// Horizontal arranges children side by side.
	Horizontal Orientation = iota
	// Vertical stacks children top to bottom.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Node is a tagged variant: a leaf wrapping exactly one pane id, or a
// split holding an ordered child sequence along one orientation. The node
// value carries no parent link; the tree keeps a side index instead so the
// structure stays a pure value and serialization is a plain walk.
type Node struct {
	PaneID      string
	Orientation Orientation
	Children    []*Node
}

// IsLeaf reports whether the node wraps a pane.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Tree manages the node hierarchy plus the node → parent side index.
type Tree struct {
	Root    *Node
	parents map[*Node]*Node
}

// NewTree creates a tree rooted at a single leaf for the given pane.
func NewTree(paneID string) *Tree {
	t := &Tree{parents: make(map[*Node]*Node)}
	t.Root = &Node{PaneID: paneID}
	return t
}

// Parent returns the split owning n, or nil for the root.
func (t *Tree) Parent(n *Node) *Node {
	return t.parents[n]
}

// Traverse walks the tree in document order (parent before children).
func (t *Tree) Traverse(f func(*Node)) {
	t.traverse(t.Root, f)
}

func (t *Tree) traverse(n *Node, f func(*Node)) {
	if n == nil {
		return
	}
	f(n)
	for _, child := range n.Children {
		t.traverse(child, f)
	}
}

// PaneIDs returns the pane ids of all leaves in traversal order.
func (t *Tree) PaneIDs() []string {
	ids := make([]string, 0, 4)
	t.Traverse(func(n *Node) {
		if n.IsLeaf() {
			ids = append(ids, n.PaneID)
		}
	})
	return ids
}

// LeafFor returns the leaf wrapping the given pane id, or nil.
func (t *Tree) LeafFor(paneID string) *Node {
	var found *Node
	t.Traverse(func(n *Node) {
		if found == nil && n.IsLeaf() && n.PaneID == paneID {
			found = n
		}
	})
	return found
}

// FirstLeaf returns the first leaf under n in document order.
func (t *Tree) FirstLeaf(n *Node) *Node {
	curr := n
	for curr != nil && !curr.IsLeaf() {
		curr = curr.Children[0]
	}
	return curr
}

// LeafCount returns the number of leaves in the tree.
func (t *Tree) LeafCount() int {
	count := 0
	t.Traverse(func(n *Node) {
		if n.IsLeaf() {
			count++
		}
	})
	return count
}

func indexOf(parent, child *Node) int {
	for i, c := range parent.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// insertChild places child at index i of parent and records its parent.
func (t *Tree) insertChild(parent *Node, i int, child *Node) {
	parent.Children = append(parent.Children, nil)
	copy(parent.Children[i+1:], parent.Children[i:])
	parent.Children[i] = child
	t.parents[child] = parent
}

// replaceNode swaps old for new inside old's parent, or at the root.
func (t *Tree) replaceNode(old, new *Node) {
	parent := t.parents[old]
	if parent == nil {
		t.Root = new
		delete(t.parents, new)
		delete(t.parents, old)
		return
	}
	parent.Children[indexOf(parent, old)] = new
	t.parents[new] = parent
	delete(t.parents, old)
}

// SplitLeaf attaches newLeaf as a sibling of leaf along the given
// orientation. If leaf's parent already runs in that orientation the new
// leaf is inserted immediately after leaf; otherwise leaf is wrapped in a
// fresh two-child split.
func (t *Tree) SplitLeaf(leaf, newLeaf *Node, orientation Orientation) {
	parent := t.parents[leaf]
	if parent != nil && parent.Orientation == orientation {
		t.insertChild(parent, indexOf(parent, leaf)+1, newLeaf)
		return
	}
	split := &Node{Orientation: orientation, Children: []*Node{leaf, newLeaf}}
	t.replaceNode(leaf, split)
	t.parents[leaf] = split
	t.parents[newLeaf] = split
}

// Detach removes leaf from the tree and trims its former ancestor chain.
// Detaching the root is refused; callers decide what a disappearing last
// leaf means.
func (t *Tree) Detach(leaf *Node) bool {
	parent := t.parents[leaf]
	if parent == nil {
		return false
	}
	i := indexOf(parent, leaf)
	parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	delete(t.parents, leaf)
	t.trim(parent)
	return true
}

// trim restores the structural invariants upward from a split whose child
// count may have dropped: empty splits are removed, single-child splits
// are replaced by their survivor, and a promoted split of the same
// orientation as its new parent is spliced into it instead of nesting.
func (t *Tree) trim(split *Node) {
	for split != nil && !split.IsLeaf() {
		if len(split.Children) >= 2 {
			return
		}
		parent := t.parents[split]

		if len(split.Children) == 0 {
			if parent == nil {
				// Cannot happen while a pane remains; leave the root alone.
				return
			}
			i := indexOf(parent, split)
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			delete(t.parents, split)
			split = parent
			continue
		}

		survivor := split.Children[0]
		if parent == nil {
			t.Root = survivor
			delete(t.parents, survivor)
			delete(t.parents, split)
			return
		}

		i := indexOf(parent, split)
		if !survivor.IsLeaf() && survivor.Orientation == parent.Orientation {
			// Flatten: splice the survivor's children into the parent.
			tail := append([]*Node{}, parent.Children[i+1:]...)
			parent.Children = append(parent.Children[:i], survivor.Children...)
			parent.Children = append(parent.Children, tail...)
			for _, gc := range survivor.Children {
				t.parents[gc] = parent
			}
			delete(t.parents, survivor)
		} else {
			parent.Children[i] = survivor
			t.parents[survivor] = parent
		}
		delete(t.parents, split)
		split = parent
	}
}

// InsertRelative docks source next to target according to the drop
// position. target may be any node; root-relative drops pass the root.
// The source node must be detached (or freshly created).
func (t *Tree) InsertRelative(source, target *Node, pos DropPosition) {
	orientation := orientationFor(pos)
	before := pos.dropsBefore()

	if parent := t.parents[target]; parent != nil && parent.Orientation == orientation {
		i := indexOf(parent, target)
		if !before {
			i++
		}
		t.insertChild(parent, i, source)
		return
	}

	if !target.IsLeaf() && target.Orientation == orientation {
		// Same-orientation split target (the root case): append or prepend
		// instead of nesting a new split inside it.
		if before {
			t.insertChild(target, 0, source)
		} else {
			t.insertChild(target, len(target.Children), source)
		}
		return
	}

	split := &Node{Orientation: orientation}
	if before {
		split.Children = []*Node{source, target}
	} else {
		split.Children = []*Node{target, source}
	}
	t.replaceNode(target, split)
	t.parents[source] = split
	t.parents[target] = split
}

// Swap exchanges the pane occupancy of two leaves. The tree shape is
// untouched.
func (t *Tree) Swap(a, b *Node) {
	a.PaneID, b.PaneID = b.PaneID, a.PaneID
}

// reindex rebuilds the parent side index from scratch. Used after a
// wholesale tree replacement during restore.
func (t *Tree) reindex() {
	t.parents = make(map[*Node]*Node)
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, child := range n.Children {
			t.parents[child] = n
			walk(child)
		}
	}
	if t.Root != nil {
		walk(t.Root)
	}
}

// checkInvariants reports structural violations; test support.
func (t *Tree) checkInvariants() []string {
	var problems []string
	seen := make(map[string]int)
	t.Traverse(func(n *Node) {
		if n.IsLeaf() {
			if n.PaneID == "" {
				problems = append(problems, "leaf without pane id")
			}
			seen[n.PaneID]++
			return
		}
		if len(n.Children) < 2 {
			problems = append(problems, "split with fewer than 2 children")
		}
		for _, child := range n.Children {
			if t.parents[child] != n {
				problems = append(problems, "stale parent index entry")
			}
			if !child.IsLeaf() && child.Orientation == n.Orientation {
				problems = append(problems, "same-orientation nested split")
			}
		}
	})
	for id, count := range seen {
		if count > 1 {
			problems = append(problems, "pane "+id+" referenced by multiple leaves")
		}
	}
	return problems
}
