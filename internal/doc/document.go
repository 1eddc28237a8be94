package doc

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"sort"
	"strings"

	"mindmap-cli/internal/model"
)

// Document is the live state of one open map: the id-indexed node tree plus
// the selection and the two per-map display settings. It is a plain value
// owned by exactly one controller; operations mutate it in place and report
// whether anything changed. Precondition violations (delete the root, rename
// to blank, unknown ids) are silent no-ops per the editor's recovery policy.
type Document struct {
	Nodes          map[string]*model.Node
	Selected       []string // ordered; the last entry is the active node
	ConnectorStyle model.ConnectorStyle
	LayoutMode     model.LayoutMode
}

// DefaultRootText is used when a map is created empty or rebuilt from
// unusable outline text.
const DefaultRootText = "New map"

func New(rootText string) *Document {
	d := &Document{
		Nodes:          map[string]*model.Node{},
		ConnectorStyle: model.ConnectorCurved,
		LayoutMode:     model.LayoutBidirectional,
	}
	rootText = strings.TrimSpace(rootText)
	if rootText == "" {
		rootText = DefaultRootText
	}
	d.Nodes[model.RootID] = &model.Node{
		ID:          model.RootID,
		Text:        rootText,
		ChildrenIDs: []string{},
		Style:       model.StyleRect,
	}
	d.Selected = []string{model.RootID}
	return d
}

func (d *Document) Root() *model.Node {
	return d.Nodes[model.RootID]
}

func (d *Document) Find(id string) (*model.Node, bool) {
	n, ok := d.Nodes[id]
	return n, ok
}

// AddNode creates a node under parentID and returns its id. A nil parentID
// establishes the root and is only valid while the document is empty.
// An unknown parent is a no-op, and so is blank text: node text is trimmed
// and must be non-empty, same rule as Rename, so every committed node
// survives the outline round trip.
func (d *Document) AddNode(text string, parentID *string, pos model.Position, style model.NodeStyle) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	if style == "" {
		style = model.StyleRect
	}
	if parentID == nil {
		if len(d.Nodes) > 0 {
			return "", false
		}
		d.Nodes[model.RootID] = &model.Node{
			ID:          model.RootID,
			Text:        text,
			ChildrenIDs: []string{},
			Position:    pos,
			Style:       style,
		}
		return model.RootID, true
	}
	parent, ok := d.Nodes[*parentID]
	if !ok {
		return "", false
	}
	id := d.newNodeID()
	pid := parent.ID
	d.Nodes[id] = &model.Node{
		ID:          id,
		Text:        text,
		ParentID:    &pid,
		ChildrenIDs: []string{},
		Position:    pos,
		Style:       style,
	}
	parent.ChildrenIDs = append(parent.ChildrenIDs, id)
	return id, true
}

// DeleteSubtree removes nodeID and every transitive descendant, descending
// through collapsed nodes too. Deleting the root or an unknown id is a no-op.
func (d *Document) DeleteSubtree(nodeID string) bool {
	if nodeID == model.RootID {
		return false
	}
	n, ok := d.Nodes[nodeID]
	if !ok {
		return false
	}
	doomed := d.Descendants(nodeID)
	doomed = append(doomed, nodeID)
	gone := map[string]bool{}
	for _, id := range doomed {
		gone[id] = true
		delete(d.Nodes, id)
	}
	if n.ParentID != nil {
		if p, ok := d.Nodes[*n.ParentID]; ok {
			p.ChildrenIDs = removeID(p.ChildrenIDs, nodeID)
		}
	}
	// Selection must never reference removed nodes.
	kept := d.Selected[:0]
	for _, id := range d.Selected {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	d.Selected = kept
	if len(d.Selected) == 0 && n.ParentID != nil {
		d.Selected = []string{*n.ParentID}
	}
	return true
}

// Rename trims the new text and keeps the previous value when the result is
// blank. A blank rename signals "no change", not an error.
func (d *Document) Rename(nodeID, text string) bool {
	n, ok := d.Nodes[nodeID]
	if !ok {
		return false
	}
	text = strings.TrimSpace(text)
	if text == "" || text == n.Text {
		return false
	}
	n.Text = text
	return true
}

// SetStyle applies style uniformly to every existing node in ids.
func (d *Document) SetStyle(ids []string, style model.NodeStyle) bool {
	if _, ok := model.ParseNodeStyle(string(style)); !ok {
		return false
	}
	changed := false
	for _, id := range ids {
		if n, ok := d.Nodes[id]; ok && n.Style != style {
			n.Style = style
			changed = true
		}
	}
	return changed
}

// ToggleCollapse flips the collapse flag. When a node collapses over the
// entire current selection, the selection snaps to that node so it never
// points at hidden nodes.
func (d *Document) ToggleCollapse(nodeID string) bool {
	n, ok := d.Nodes[nodeID]
	if !ok {
		return false
	}
	n.Collapsed = !n.Collapsed
	if n.Collapsed && len(d.Selected) > 0 {
		hidden := map[string]bool{}
		for _, id := range d.Descendants(nodeID) {
			hidden[id] = true
		}
		all := true
		for _, id := range d.Selected {
			if !hidden[id] {
				all = false
				break
			}
		}
		if all {
			d.Selected = []string{nodeID}
		}
	}
	return true
}

// Descendants returns the transitive children of nodeID, descending through
// collapsed nodes. Used by destructive paths which must reach hidden nodes.
func (d *Document) Descendants(nodeID string) []string {
	return d.collect(nodeID, false)
}

// VisibleDescendants stops descending at collapsed nodes. Used by traversal-
// sensitive operations such as subtree drags.
func (d *Document) VisibleDescendants(nodeID string) []string {
	return d.collect(nodeID, true)
}

func (d *Document) collect(nodeID string, stopAtCollapsed bool) []string {
	start, ok := d.Nodes[nodeID]
	if !ok {
		return nil
	}
	var out []string
	stack := make([]*model.Node, 0, 8)
	stack = append(stack, start)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n != start {
			out = append(out, n.ID)
		}
		if stopAtCollapsed && n.Collapsed {
			continue
		}
		// Push in reverse so children pop in declared order.
		for i := len(n.ChildrenIDs) - 1; i >= 0; i-- {
			if c, ok := d.Nodes[n.ChildrenIDs[i]]; ok {
				stack = append(stack, c)
			}
		}
	}
	return out
}

// Visible reports whether nodeID has no collapsed ancestor. A collapsed node
// is itself still visible; only its descendants are hidden.
func (d *Document) Visible(nodeID string) bool {
	n, ok := d.Nodes[nodeID]
	if !ok {
		return false
	}
	for n.ParentID != nil {
		p, ok := d.Nodes[*n.ParentID]
		if !ok {
			return false
		}
		if p.Collapsed {
			return false
		}
		n = p
	}
	return true
}

// VisibleIDs returns every currently displayable node id.
func (d *Document) VisibleIDs() []string {
	out := make([]string, 0, len(d.Nodes))
	for id := range d.Nodes {
		if d.Visible(id) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns a structurally independent deep copy. History snapshots own
// their clone exclusively; the live document may diverge freely afterward.
func (d *Document) Clone() *Document {
	out := &Document{
		Nodes:          make(map[string]*model.Node, len(d.Nodes)),
		Selected:       append([]string(nil), d.Selected...),
		ConnectorStyle: d.ConnectorStyle,
		LayoutMode:     d.LayoutMode,
	}
	for id, n := range d.Nodes {
		cp := *n
		if n.ParentID != nil {
			pid := *n.ParentID
			cp.ParentID = &pid
		}
		cp.ChildrenIDs = append([]string(nil), n.ChildrenIDs...)
		out.Nodes[id] = &cp
	}
	return out
}

// Equal reports structural equality of the tree content and display settings.
// Selection is deliberately excluded: moving the cursor alone is not an edit.
func Equal(a, b *Document) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ConnectorStyle != b.ConnectorStyle || a.LayoutMode != b.LayoutMode {
		return false
	}
	if len(a.Nodes) != len(b.Nodes) {
		return false
	}
	for id, an := range a.Nodes {
		bn, ok := b.Nodes[id]
		if !ok {
			return false
		}
		if an.Text != bn.Text || an.Collapsed != bn.Collapsed || an.Style != bn.Style {
			return false
		}
		if an.Position != bn.Position {
			return false
		}
		if (an.ParentID == nil) != (bn.ParentID == nil) {
			return false
		}
		if an.ParentID != nil && *an.ParentID != *bn.ParentID {
			return false
		}
		if len(an.ChildrenIDs) != len(bn.ChildrenIDs) {
			return false
		}
		for i := range an.ChildrenIDs {
			if an.ChildrenIDs[i] != bn.ChildrenIDs[i] {
				return false
			}
		}
	}
	return true
}

// Check verifies the structural invariants. It is meant for tests: a failure
// here is a programming error, not a runtime condition to recover from.
func (d *Document) Check() error {
	root, ok := d.Nodes[model.RootID]
	if !ok {
		return fmt.Errorf("missing root node %q", model.RootID)
	}
	if root.ParentID != nil {
		return fmt.Errorf("root has a parent")
	}
	for id, n := range d.Nodes {
		if n.ID != id {
			return fmt.Errorf("node %q keyed as %q", n.ID, id)
		}
		if id != model.RootID && n.ParentID == nil {
			return fmt.Errorf("non-root node %q has no parent", id)
		}
		seen := map[string]bool{}
		for _, cid := range n.ChildrenIDs {
			if seen[cid] {
				return fmt.Errorf("node %q lists child %q twice", id, cid)
			}
			seen[cid] = true
			c, ok := d.Nodes[cid]
			if !ok {
				return fmt.Errorf("node %q lists missing child %q", id, cid)
			}
			if c.ParentID == nil || *c.ParentID != id {
				return fmt.Errorf("child %q does not point back at %q", cid, id)
			}
		}
		if n.ParentID != nil {
			p, ok := d.Nodes[*n.ParentID]
			if !ok {
				return fmt.Errorf("node %q has dangling parent %q", id, *n.ParentID)
			}
			if !containsID(p.ChildrenIDs, id) {
				return fmt.Errorf("parent %q does not list child %q", p.ID, id)
			}
		}
	}
	// Reachability: every node must be on a path from the root.
	reach := map[string]bool{model.RootID: true}
	for _, id := range d.Descendants(model.RootID) {
		reach[id] = true
	}
	for id := range d.Nodes {
		if !reach[id] {
			return fmt.Errorf("node %q unreachable from root", id)
		}
	}
	return nil
}

// newNodeID returns node-<suffix>, 8 chars of lowercase base32. Collisions
// within one document are retried; the fallback counter id never collides.
func (d *Document) newNodeID() string {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	for i := 0; i < 10; i++ {
		var b [5]byte
		if _, err := rand.Read(b[:]); err != nil {
			break
		}
		id := "node-" + strings.ToLower(enc.EncodeToString(b[:]))
		if _, exists := d.Nodes[id]; !exists {
			return id
		}
	}
	for i := len(d.Nodes); ; i++ {
		id := fmt.Sprintf("node-%d", i)
		if _, exists := d.Nodes[id]; !exists {
			return id
		}
	}
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
