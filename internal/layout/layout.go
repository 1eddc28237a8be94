// Package layout derives node positions from tree shape. Positions are
// absolute canvas coordinates: a subtree move is a uniform translation, and a
// full relayout is a pure, idempotent function of the tree for a given mode.
package layout

import (
	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
)

// Fan constants. Tuned for visual balance, not load-bearing correctness.
const (
	OffsetX        = 200.0 // horizontal step away from the parent
	BaseSpacing    = 60.0  // first vertical offset off the parent's line
	SiblingSpacing = 100.0 // vertical distance between fan steps
)

// PlaceChild positions a just-created child of parent. With no prior children
// the child lands on the parent's line one step outward. The second child
// rebalances the first (with its whole subtree) above the line and takes the
// mirrored slot below. Later children alternate sides of the line with
// growing offsets, forming a zig-zag fan without a full relayout.
func PlaceChild(d *doc.Document, parentID, childID string) {
	parent, ok := d.Find(parentID)
	if !ok {
		return
	}
	child, ok := d.Find(childID)
	if !ok {
		return
	}

	dir := growthDir(d, parent, child)
	siblings := sideSiblings(d, parent, childID, dir)
	k := len(siblings)

	x := parent.Position.X + dir*OffsetX
	switch {
	case k == 0:
		child.Position = model.Position{X: x, Y: parent.Position.Y}
	case k == 1:
		// Rebalance the lone sibling to the upper slot before taking the lower.
		if only, ok := d.Find(siblings[0]); ok {
			dy := (parent.Position.Y - BaseSpacing) - only.Position.Y
			translateSubtree(d, only.ID, 0, dy)
		}
		child.Position = model.Position{X: x, Y: parent.Position.Y + BaseSpacing}
	default:
		offset := float64(k/2)*SiblingSpacing + BaseSpacing
		if k%2 == 0 {
			offset = -offset
		}
		child.Position = model.Position{X: x, Y: parent.Position.Y + offset}
	}
}

// growthDir returns the horizontal direction (+1/-1) the child should extend.
func growthDir(d *doc.Document, parent, child *model.Node) float64 {
	switch d.LayoutMode {
	case model.LayoutLTR:
		return 1
	case model.LayoutRTL:
		return -1
	}
	root := d.Root()
	if root == nil {
		return 1
	}
	if parent.ID != root.ID {
		// Extend away from the root, whichever side the parent already lies on.
		if parent.Position.X < root.Position.X {
			return -1
		}
		return 1
	}
	// Root child under bidirectional layout: join the lighter side, ties left.
	left, right := 0, 0
	for _, cid := range parent.ChildrenIDs {
		if cid == child.ID {
			continue
		}
		c, ok := d.Find(cid)
		if !ok {
			continue
		}
		if c.Position.X < root.Position.X {
			left++
		} else {
			right++
		}
	}
	if right < left {
		return 1
	}
	return -1
}

// sideSiblings lists the parent's existing children on the growth side.
func sideSiblings(d *doc.Document, parent *model.Node, excludeID string, dir float64) []string {
	bidirectionalRoot := d.LayoutMode == model.LayoutBidirectional && parent.ID == model.RootID
	var out []string
	for _, cid := range parent.ChildrenIDs {
		if cid == excludeID {
			continue
		}
		c, ok := d.Find(cid)
		if !ok {
			continue
		}
		if bidirectionalRoot {
			onLeft := c.Position.X < parent.Position.X
			if onLeft != (dir < 0) {
				continue
			}
		}
		out = append(out, cid)
	}
	return out
}

// Apply recomputes every node position from the root for the document's
// current mode. Under bidirectional layout the root's children are
// partitioned alternately into left and right buckets; every other fan
// extends one fixed direction. Each bucket is a block of leaf-weighted slots
// vertically centered on its parent.
func Apply(d *doc.Document) {
	root := d.Root()
	if root == nil {
		return
	}
	leaves := leafCounts(d)

	type job struct {
		parentID string
		children []string
		dir      float64
	}
	var queue []job

	if d.LayoutMode == model.LayoutBidirectional {
		var left, right []string
		for i, cid := range root.ChildrenIDs {
			if i%2 == 0 {
				left = append(left, cid)
			} else {
				right = append(right, cid)
			}
		}
		queue = append(queue,
			job{parentID: root.ID, children: left, dir: -1},
			job{parentID: root.ID, children: right, dir: 1},
		)
	} else {
		dir := 1.0
		if d.LayoutMode == model.LayoutRTL {
			dir = -1
		}
		queue = append(queue, job{parentID: root.ID, children: root.ChildrenIDs, dir: dir})
	}

	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		parent, ok := d.Find(j.parentID)
		if !ok || len(j.children) == 0 {
			continue
		}
		total := 0
		for _, cid := range j.children {
			total += leaves[cid]
		}
		y := parent.Position.Y - float64(total)*SiblingSpacing/2
		for _, cid := range j.children {
			c, ok := d.Find(cid)
			if !ok {
				continue
			}
			slot := float64(leaves[cid]) * SiblingSpacing
			c.Position = model.Position{
				X: parent.Position.X + j.dir*OffsetX,
				Y: y + slot/2,
			}
			y += slot
			queue = append(queue, job{parentID: cid, children: c.ChildrenIDs, dir: j.dir})
		}
	}
}

// leafCounts computes, for every node, how many leaves its subtree carries.
// Collapsed branches still count: layout covers hidden nodes too.
func leafCounts(d *doc.Document) map[string]int {
	counts := make(map[string]int, len(d.Nodes))
	// Children-first order: a node's count is ready once its subtree is done.
	order := d.Descendants(model.RootID)
	order = append(order, model.RootID)
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n, ok := d.Find(id)
		if !ok {
			continue
		}
		sum := 0
		for _, cid := range n.ChildrenIDs {
			sum += counts[cid]
		}
		if sum == 0 {
			sum = 1
		}
		counts[id] = sum
	}
	return counts
}

// Translate applies a drag delta to a node and its visible descendants.
// Collapsed branches keep their relative positions and are caught up by the
// next full relayout; they are not independently draggable while hidden.
func Translate(d *doc.Document, nodeID string, dx, dy float64) {
	n, ok := d.Find(nodeID)
	if !ok {
		return
	}
	n.Position.X += dx
	n.Position.Y += dy
	for _, cid := range d.VisibleDescendants(nodeID) {
		if c, ok := d.Find(cid); ok {
			c.Position.X += dx
			c.Position.Y += dy
		}
	}
}

// TranslateSelection drags every selected node, skipping any whose ancestor
// is also selected so a covered subtree is not translated twice.
func TranslateSelection(d *doc.Document, ids []string, dx, dy float64) {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	for _, id := range ids {
		if hasSelectedAncestor(d, id, selected) {
			continue
		}
		Translate(d, id, dx, dy)
	}
}

func hasSelectedAncestor(d *doc.Document, id string, selected map[string]bool) bool {
	n, ok := d.Find(id)
	if !ok {
		return false
	}
	for n.ParentID != nil {
		p, ok := d.Find(*n.ParentID)
		if !ok {
			return false
		}
		if selected[p.ID] {
			return true
		}
		n = p
	}
	return false
}

// translateSubtree moves a node and all descendants, collapsed ones included.
// Used for layout-driven repositioning where the whole subtree must follow.
func translateSubtree(d *doc.Document, nodeID string, dx, dy float64) {
	n, ok := d.Find(nodeID)
	if !ok {
		return
	}
	n.Position.X += dx
	n.Position.Y += dy
	for _, cid := range d.Descendants(nodeID) {
		if c, ok := d.Find(cid); ok {
			c.Position.X += dx
			c.Position.Y += dy
		}
	}
}
