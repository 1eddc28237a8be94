package doc

import (
	"math"

	"mindmap-cli/internal/model"
)

// Direction is a semantic arrow-key move over the visible tree.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Select replaces the selection with a single node.
func (d *Document) Select(nodeID string) bool {
	if _, ok := d.Nodes[nodeID]; !ok {
		return false
	}
	d.Selected = []string{nodeID}
	return true
}

// ToggleSelect adds or removes a node from the multi-selection. A newly added
// node becomes the active node; removing the active node promotes the
// previous one.
func (d *Document) ToggleSelect(nodeID string) bool {
	if _, ok := d.Nodes[nodeID]; !ok {
		return false
	}
	for i, id := range d.Selected {
		if id == nodeID {
			d.Selected = append(d.Selected[:i], d.Selected[i+1:]...)
			return true
		}
	}
	d.Selected = append(d.Selected, nodeID)
	return true
}

// Active returns the most recently selected node id.
func (d *Document) Active() (string, bool) {
	if len(d.Selected) == 0 {
		return "", false
	}
	return d.Selected[len(d.Selected)-1], true
}

// IsSelected reports membership in the current selection set.
func (d *Document) IsSelected(nodeID string) bool {
	return containsID(d.Selected, nodeID)
}

// Navigate moves the active node one step in dir and collapses the selection
// to the target. Up/down walk visible siblings by vertical position;
// left/right walk toward the parent or toward the nearest visible child,
// depending on which side of the root the active node sits. Crossing the root
// while moving toward it continues onto the opposite side's nearest child, so
// a horizontal sweep runs straight across a bidirectional fan.
func (d *Document) Navigate(dir Direction) (string, bool) {
	activeID, ok := d.Active()
	if !ok {
		if _, ok := d.Nodes[model.RootID]; !ok {
			return "", false
		}
		d.Selected = []string{model.RootID}
		return model.RootID, true
	}
	active, ok := d.Nodes[activeID]
	if !ok {
		return "", false
	}

	var target string
	switch dir {
	case DirUp, DirDown:
		target = d.verticalSibling(active, dir == DirDown)
	case DirLeft, DirRight:
		target = d.horizontalStep(active, dir == DirRight)
	}
	if target == "" {
		return activeID, false
	}
	d.Selected = []string{target}
	return target, true
}

// verticalSibling picks the nearest visible sibling above or below the node.
func (d *Document) verticalSibling(n *model.Node, down bool) string {
	if n.ParentID == nil {
		return ""
	}
	p, ok := d.Nodes[*n.ParentID]
	if !ok {
		return ""
	}
	best := ""
	bestDist := math.MaxFloat64
	for _, sid := range p.ChildrenIDs {
		if sid == n.ID {
			continue
		}
		s, ok := d.Nodes[sid]
		if !ok || !d.Visible(sid) {
			continue
		}
		// Under bidirectional layout only same-side siblings line up vertically.
		if d.LayoutMode == model.LayoutBidirectional && p.ID == model.RootID {
			if sameSide := (s.Position.X >= p.Position.X) == (n.Position.X >= p.Position.X); !sameSide {
				continue
			}
		}
		dy := s.Position.Y - n.Position.Y
		if down && dy <= 0 || !down && dy >= 0 {
			continue
		}
		if dist := math.Abs(dy); dist < bestDist {
			bestDist = dist
			best = sid
		}
	}
	return best
}

// horizontalStep resolves a left/right arrow into parent/child movement.
func (d *Document) horizontalStep(n *model.Node, right bool) string {
	root := d.Root()
	if root == nil {
		return ""
	}

	if n.ID == model.RootID {
		// From the root, each horizontal direction enters that side's fan.
		return d.nearestChildOnSide(root, right, root.Position.Y)
	}

	towardRoot := false
	switch d.LayoutMode {
	case model.LayoutRTL:
		towardRoot = right
	case model.LayoutLTR:
		towardRoot = !right
	default:
		onRightSide := n.Position.X >= root.Position.X
		towardRoot = onRightSide != right
	}

	if towardRoot {
		if n.ParentID == nil {
			return ""
		}
		return *n.ParentID
	}
	return d.nearestVisibleChild(n)
}

// nearestVisibleChild picks the child closest to the node's own vertical line.
func (d *Document) nearestVisibleChild(n *model.Node) string {
	if n.Collapsed {
		return ""
	}
	best := ""
	bestDist := math.MaxFloat64
	for _, cid := range n.ChildrenIDs {
		c, ok := d.Nodes[cid]
		if !ok || !d.Visible(cid) {
			continue
		}
		if dist := math.Abs(c.Position.Y - n.Position.Y); dist < bestDist {
			bestDist = dist
			best = cid
		}
	}
	return best
}

// nearestChildOnSide picks the root child on the requested side closest to y.
// Under unidirectional layouts the side check is dropped: every child lives
// on the single layout side.
func (d *Document) nearestChildOnSide(root *model.Node, right bool, y float64) string {
	if root.Collapsed {
		return ""
	}
	unidirectional := d.LayoutMode != model.LayoutBidirectional
	if unidirectional {
		layoutRight := d.LayoutMode == model.LayoutLTR
		if right != layoutRight {
			return ""
		}
	}
	best := ""
	bestDist := math.MaxFloat64
	for _, cid := range root.ChildrenIDs {
		c, ok := d.Nodes[cid]
		if !ok || !d.Visible(cid) {
			continue
		}
		if !unidirectional {
			onRight := c.Position.X >= root.Position.X
			if onRight != right {
				continue
			}
		}
		if dist := math.Abs(c.Position.Y - y); dist < bestDist {
			bestDist = dist
			best = cid
		}
	}
	return best
}
