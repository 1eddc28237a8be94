package doc

import (
	"testing"

	"mindmap-cli/internal/model"
)

// buildSmallTree returns root -> (a -> (a1, a2), b).
func buildSmallTree(t *testing.T) (*Document, string, string, string, string) {
	t.Helper()
	d := New("Root")
	a, ok := d.AddNode("A", idRef(model.RootID), model.Position{X: 200}, model.StyleRect)
	if !ok {
		t.Fatalf("add A failed")
	}
	b, ok := d.AddNode("B", idRef(model.RootID), model.Position{X: -200}, model.StyleRect)
	if !ok {
		t.Fatalf("add B failed")
	}
	a1, ok := d.AddNode("A1", &a, model.Position{X: 400, Y: -60}, model.StyleRect)
	if !ok {
		t.Fatalf("add A1 failed")
	}
	a2, ok := d.AddNode("A2", &a, model.Position{X: 400, Y: 60}, model.StyleRect)
	if !ok {
		t.Fatalf("add A2 failed")
	}
	if err := d.Check(); err != nil {
		t.Fatalf("invariants after build: %v", err)
	}
	return d, a, b, a1, a2
}

func idRef(id string) *string { return &id }

func TestNewDocumentDefaults(t *testing.T) {
	d := New("  ")
	if got := d.Root().Text; got != DefaultRootText {
		t.Fatalf("blank root text = %q, want %q", got, DefaultRootText)
	}
	if d.ConnectorStyle != model.ConnectorCurved || d.LayoutMode != model.LayoutBidirectional {
		t.Fatalf("unexpected display defaults: %v %v", d.ConnectorStyle, d.LayoutMode)
	}
	if id, ok := d.Active(); !ok || id != model.RootID {
		t.Fatalf("new document should select the root, got %q %v", id, ok)
	}
}

func TestAddNodeNilParentOnlyWhenEmpty(t *testing.T) {
	d := New("Root")
	if _, ok := d.AddNode("again", nil, model.Position{}, model.StyleRect); ok {
		t.Fatalf("nil-parent add must fail on a non-empty document")
	}

	empty := &Document{Nodes: map[string]*model.Node{}}
	id, ok := empty.AddNode("first", nil, model.Position{}, model.StyleRect)
	if !ok || id != model.RootID {
		t.Fatalf("nil-parent add on empty document = %q %v", id, ok)
	}
}

func TestAddNodeUnknownParentIsNoop(t *testing.T) {
	d := New("Root")
	before := len(d.Nodes)
	if _, ok := d.AddNode("x", idRef("node-missing"), model.Position{}, model.StyleRect); ok {
		t.Fatalf("unknown parent must be a no-op")
	}
	if len(d.Nodes) != before {
		t.Fatalf("node count changed on failed add")
	}
}

func TestDeleteRootIsNoop(t *testing.T) {
	d, _, _, _, _ := buildSmallTree(t)
	if d.DeleteSubtree(model.RootID) {
		t.Fatalf("root deletion must be refused")
	}
	if err := d.Check(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestDeleteSubtreeReachesCollapsedDescendants(t *testing.T) {
	d, a, _, a1, a2 := buildSmallTree(t)

	// Hide A's children, then delete A: the hidden nodes must go too.
	if !d.ToggleCollapse(a) {
		t.Fatalf("collapse failed")
	}
	d.Select(a1)
	if !d.DeleteSubtree(a) {
		t.Fatalf("delete failed")
	}
	for _, id := range []string{a, a1, a2} {
		if _, ok := d.Find(id); ok {
			t.Fatalf("node %q survived subtree delete", id)
		}
	}
	// Selection fell back to the deleted node's parent.
	if got, _ := d.Active(); got != model.RootID {
		t.Fatalf("selection fallback = %q, want root", got)
	}
	if err := d.Check(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestDeletePrunesSelectionButKeepsSurvivors(t *testing.T) {
	d, a, b, a1, _ := buildSmallTree(t)
	d.Selected = []string{b, a1}
	if !d.DeleteSubtree(a) {
		t.Fatalf("delete failed")
	}
	if len(d.Selected) != 1 || d.Selected[0] != b {
		t.Fatalf("selection = %v, want [%s]", d.Selected, b)
	}
}

func TestAddNodeRejectsBlankText(t *testing.T) {
	d, a, _, _, _ := buildSmallTree(t)
	before := len(d.Nodes)

	if _, ok := d.AddNode("", &a, model.Position{}, model.StyleRect); ok {
		t.Fatalf("empty text accepted")
	}
	if _, ok := d.AddNode("   ", &a, model.Position{}, model.StyleRect); ok {
		t.Fatalf("whitespace-only text accepted")
	}
	if len(d.Nodes) != before {
		t.Fatalf("node count changed on rejected add")
	}

	id, ok := d.AddNode("  padded  ", &a, model.Position{}, model.StyleRect)
	if !ok {
		t.Fatalf("trimmed add failed")
	}
	if n, _ := d.Find(id); n.Text != "padded" {
		t.Fatalf("add kept whitespace: %q", n.Text)
	}
}

func TestRenameRules(t *testing.T) {
	d, a, _, _, _ := buildSmallTree(t)

	if d.Rename(a, "   ") {
		t.Fatalf("blank rename must be a no-op")
	}
	if d.Rename(a, " A ") {
		t.Fatalf("same-text rename must be a no-op")
	}
	if !d.Rename(a, "  A renamed ") {
		t.Fatalf("rename failed")
	}
	n, _ := d.Find(a)
	if n.Text != "A renamed" {
		t.Fatalf("rename kept whitespace: %q", n.Text)
	}
	if d.Rename("node-missing", "x") {
		t.Fatalf("unknown id rename must be a no-op")
	}
}

func TestSetStyleReportsRealChanges(t *testing.T) {
	d, a, b, _, _ := buildSmallTree(t)
	if d.SetStyle([]string{a, b}, "squiggle") {
		t.Fatalf("invalid style accepted")
	}
	if !d.SetStyle([]string{a, b}, model.StyleUnderline) {
		t.Fatalf("style change not reported")
	}
	if d.SetStyle([]string{a, b}, model.StyleUnderline) {
		t.Fatalf("re-applying the same style must report no change")
	}
}

func TestCollapseHidesTransitively(t *testing.T) {
	d, a, _, a1, a2 := buildSmallTree(t)
	if !d.ToggleCollapse(a) {
		t.Fatalf("collapse failed")
	}
	if !d.Visible(a) {
		t.Fatalf("a collapsed node is itself still visible")
	}
	for _, id := range []string{a1, a2} {
		if d.Visible(id) {
			t.Fatalf("descendant %q visible under collapsed parent", id)
		}
	}
	if got := d.VisibleDescendants(model.RootID); len(got) != 2 {
		t.Fatalf("visible descendants = %v, want root's two children", got)
	}
	if got := d.Descendants(model.RootID); len(got) != 4 {
		t.Fatalf("full descendants = %v, want all four", got)
	}
}

func TestCollapseSnapsFullyHiddenSelection(t *testing.T) {
	d, a, _, a1, a2 := buildSmallTree(t)
	d.Selected = []string{a1, a2}
	d.ToggleCollapse(a)
	if len(d.Selected) != 1 || d.Selected[0] != a {
		t.Fatalf("selection = %v, want snapped to %s", d.Selected, a)
	}
}

func TestDescendantsDeclaredOrder(t *testing.T) {
	d, a, b, a1, a2 := buildSmallTree(t)
	got := d.Descendants(model.RootID)
	want := []string{a, a1, a2, b}
	if len(got) != len(want) {
		t.Fatalf("descendants = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("descendants order = %v, want %v", got, want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d, a, _, _, _ := buildSmallTree(t)
	snap := d.Clone()
	if !Equal(d, snap) {
		t.Fatalf("clone not equal to original")
	}
	d.Rename(a, "changed")
	if Equal(d, snap) {
		t.Fatalf("clone tracked a later edit")
	}
	n, _ := snap.Find(a)
	if n.Text != "A" {
		t.Fatalf("clone text mutated: %q", n.Text)
	}
}

func TestEqualIgnoresSelection(t *testing.T) {
	d, a, _, _, _ := buildSmallTree(t)
	snap := d.Clone()
	d.Select(a)
	if !Equal(d, snap) {
		t.Fatalf("selection change must not break equality")
	}
	d.Nodes[a].Position.Y += 1
	if Equal(d, snap) {
		t.Fatalf("position change must break equality")
	}
}
