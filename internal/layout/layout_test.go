package layout

import (
	"testing"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
)

func addPlaced(t *testing.T, d *doc.Document, parentID, text string) string {
	t.Helper()
	id, ok := d.AddNode(text, &parentID, model.Position{}, model.StyleRect)
	if !ok {
		t.Fatalf("add %q under %q failed", text, parentID)
	}
	PlaceChild(d, parentID, id)
	return id
}

func pos(t *testing.T, d *doc.Document, id string) model.Position {
	t.Helper()
	n, ok := d.Find(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	return n.Position
}

func TestPlaceChildFirstTwoGoLeftThenRight(t *testing.T) {
	d := doc.New("Root")
	// Ties go left: the very first root child lands on the left side.
	first := addPlaced(t, d, model.RootID, "first")
	if p := pos(t, d, first); p.X != -OffsetX || p.Y != 0 {
		t.Fatalf("first child at %+v, want (-%v, 0)", p, OffsetX)
	}
	// One left, zero right: the second child balances to the right.
	second := addPlaced(t, d, model.RootID, "second")
	if p := pos(t, d, second); p.X != OffsetX || p.Y != 0 {
		t.Fatalf("second child at %+v, want (%v, 0)", p, OffsetX)
	}
}

func TestPlaceChildZigZagFan(t *testing.T) {
	d := doc.New("Root")
	d.LayoutMode = model.LayoutLTR

	a := addPlaced(t, d, model.RootID, "a")
	if p := pos(t, d, a); p.Y != 0 {
		t.Fatalf("k=0 sibling off the parent line: %+v", p)
	}

	// Second sibling: the first is rebalanced up, the new one mirrors it down.
	b := addPlaced(t, d, model.RootID, "b")
	if p := pos(t, d, a); p.Y != -BaseSpacing {
		t.Fatalf("k=1 rebalance: a at %+v, want y=-%v", p, BaseSpacing)
	}
	if p := pos(t, d, b); p.Y != BaseSpacing {
		t.Fatalf("k=1: b at %+v, want y=%v", p, BaseSpacing)
	}

	// Then the fan alternates outward: -160, +160, -260, ...
	c := addPlaced(t, d, model.RootID, "c")
	if p := pos(t, d, c); p.Y != -(SiblingSpacing + BaseSpacing) {
		t.Fatalf("k=2: c at %+v, want y=-%v", p, SiblingSpacing+BaseSpacing)
	}
	e := addPlaced(t, d, model.RootID, "e")
	if p := pos(t, d, e); p.Y != SiblingSpacing+BaseSpacing {
		t.Fatalf("k=3: e at %+v, want y=%v", p, SiblingSpacing+BaseSpacing)
	}
	f := addPlaced(t, d, model.RootID, "f")
	if p := pos(t, d, f); p.Y != -(2*SiblingSpacing + BaseSpacing) {
		t.Fatalf("k=4: f at %+v, want y=-%v", p, 2*SiblingSpacing+BaseSpacing)
	}

	for _, id := range []string{a, b, c, e, f} {
		if p := pos(t, d, id); p.X != OffsetX {
			t.Fatalf("ltr child %s at x=%v, want %v", id, p.X, OffsetX)
		}
	}
}

func TestPlaceChildRebalanceCarriesSubtree(t *testing.T) {
	d := doc.New("Root")
	d.LayoutMode = model.LayoutLTR
	a := addPlaced(t, d, model.RootID, "a")
	a1 := addPlaced(t, d, a, "a1")
	a1Before := pos(t, d, a1)

	// Adding a's sibling moves a up; a1 must follow by the same delta.
	addPlaced(t, d, model.RootID, "b")
	aAfter := pos(t, d, a)
	if aAfter.Y != -BaseSpacing {
		t.Fatalf("a not rebalanced: %+v", aAfter)
	}
	a1After := pos(t, d, a1)
	if got, want := a1After.Y-a1Before.Y, -BaseSpacing; got != float64(want) {
		t.Fatalf("subtree delta = %v, want %v", got, want)
	}
}

func TestPlaceChildGrowsAwayFromRoot(t *testing.T) {
	d := doc.New("Root")
	left := addPlaced(t, d, model.RootID, "left") // first child goes left
	deeper := addPlaced(t, d, left, "deeper")
	if p := pos(t, d, deeper); p.X != -2*OffsetX {
		t.Fatalf("left-side grandchild at x=%v, want %v", p.X, -2*OffsetX)
	}
}

func TestApplyBidirectionalAlternates(t *testing.T) {
	d := doc.New("Root")
	var kids []string
	for _, txt := range []string{"a", "b", "c", "d"} {
		pid := model.RootID
		id, _ := d.AddNode(txt, &pid, model.Position{}, model.StyleRect)
		kids = append(kids, id)
	}
	Apply(d)

	// Even declared indexes go left, odd go right.
	for i, id := range kids {
		p := pos(t, d, id)
		if i%2 == 0 && p.X >= 0 {
			t.Fatalf("child %d at x=%v, want left side", i, p.X)
		}
		if i%2 == 1 && p.X <= 0 {
			t.Fatalf("child %d at x=%v, want right side", i, p.X)
		}
	}

	// Two slots per side, centered on the root's line.
	if pos(t, d, kids[0]).Y+pos(t, d, kids[2]).Y != 0 {
		t.Fatalf("left block not centered: %v %v", pos(t, d, kids[0]).Y, pos(t, d, kids[2]).Y)
	}
}

func TestApplyWeightsSlotsByLeafCount(t *testing.T) {
	d := doc.New("Root")
	d.LayoutMode = model.LayoutLTR
	pid := model.RootID
	heavy, _ := d.AddNode("heavy", &pid, model.Position{}, model.StyleRect)
	light, _ := d.AddNode("light", &pid, model.Position{}, model.StyleRect)
	for _, txt := range []string{"h1", "h2", "h3"} {
		d.AddNode(txt, &heavy, model.Position{}, model.StyleRect)
	}
	Apply(d)

	// heavy has 3 leaves, light 1: four slots total, so heavy sits centered in
	// the top three and light in the bottom one.
	if got := pos(t, d, heavy).Y; got != -SiblingSpacing/2 {
		t.Fatalf("heavy at y=%v, want %v", got, -SiblingSpacing/2)
	}
	if got := pos(t, d, light).Y; got != 1.5*SiblingSpacing {
		t.Fatalf("light at y=%v, want %v", got, 1.5*SiblingSpacing)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("a", &pid, model.Position{}, model.StyleRect)
	d.AddNode("a1", &a, model.Position{}, model.StyleRect)
	d.AddNode("b", &pid, model.Position{}, model.StyleRect)

	Apply(d)
	snap := d.Clone()
	Apply(d)
	if !doc.Equal(snap, d) {
		t.Fatalf("second Apply changed positions")
	}
}

func TestApplyCoversCollapsedBranches(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("a", &pid, model.Position{}, model.StyleRect)
	hidden, _ := d.AddNode("hidden", &a, model.Position{X: 999, Y: 999}, model.StyleRect)
	d.ToggleCollapse(a)
	Apply(d)
	if p := pos(t, d, hidden); p.X == 999 {
		t.Fatalf("collapsed child skipped by relayout")
	}
}

func TestTranslateSelectionSkipsCoveredSubtrees(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("a", &pid, model.Position{X: 200}, model.StyleRect)
	a1, _ := d.AddNode("a1", &a, model.Position{X: 400}, model.StyleRect)

	// Both selected: a1 must move exactly once, via its selected ancestor.
	TranslateSelection(d, []string{a, a1}, 10, 0)
	if got := pos(t, d, a1).X; got != 410 {
		t.Fatalf("a1 at x=%v, want 410 (single translation)", got)
	}
}

func TestTranslateStopsAtCollapsedBranch(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("a", &pid, model.Position{X: 200}, model.StyleRect)
	h, _ := d.AddNode("h", &a, model.Position{X: 400}, model.StyleRect)
	d.ToggleCollapse(a)

	Translate(d, a, 0, 50)
	if got := pos(t, d, a).Y; got != 50 {
		t.Fatalf("a at y=%v, want 50", got)
	}
	if got := pos(t, d, h).Y; got != 0 {
		t.Fatalf("hidden child moved with visible drag: y=%v", got)
	}
}
