package outline

import (
	"strings"
	"testing"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
)

func TestExportShapeAndStyles(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("A", &pid, model.Position{}, model.StyleUnderline)
	d.AddNode("A1", &a, model.Position{}, model.StyleNone)
	d.AddNode("B", &pid, model.Position{}, model.StyleRect)

	want := "- Root\n" +
		"  - A {style:underline}\n" +
		"    - A1 {style:none}\n" +
		"  - B\n"
	if got := Export(d); got != want {
		t.Fatalf("Export:\n got: %q\nwant: %q", got, want)
	}

	// The editor-pane view is the same shape with tags stripped.
	wantView := "- Root\n  - A\n    - A1\n  - B\n"
	if got := ExportView(d); got != wantView {
		t.Fatalf("ExportView:\n got: %q\nwant: %q", got, wantView)
	}
}

func TestExportIncludesCollapsedBranches(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("A", &pid, model.Position{}, model.StyleRect)
	d.AddNode("hidden", &a, model.Position{}, model.StyleRect)
	d.ToggleCollapse(a)

	if got := Export(d); !strings.Contains(got, "hidden") {
		t.Fatalf("collapse must not drop nodes from export: %q", got)
	}
}

func TestImportRoundTrip(t *testing.T) {
	text := "- Root\n" +
		"  - A {style:underline}\n" +
		"    - A1\n" +
		"  - B {style:none}\n" +
		"  - C\n"
	d := Import(text)
	if err := d.Check(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if got := Export(d); got != text {
		t.Fatalf("round trip:\n got: %q\nwant: %q", got, text)
	}

	a := d.Root().ChildrenIDs[0]
	if n, _ := d.Find(a); n.Style != model.StyleUnderline {
		t.Fatalf("style tag lost: %v", n.Style)
	}
}

func TestRoundTripPreservesTreesBuiltByCreates(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("A", &pid, model.Position{}, model.StyleRect)
	// A blank add is refused, so it can never produce a "- " line that a
	// later import would drop while reparenting its children.
	if _, ok := d.AddNode("   ", &a, model.Position{}, model.StyleRect); ok {
		t.Fatalf("blank node accepted")
	}
	kid, _ := d.AddNode("kid", &a, model.Position{}, model.StyleRect)
	if kid == "" {
		t.Fatalf("add kid failed")
	}

	again := Import(Export(d))
	if err := again.Check(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
	if got, want := len(again.Nodes), len(d.Nodes); got != want {
		t.Fatalf("round trip lost nodes: %d -> %d", want, got)
	}
	aAgain := again.Root().ChildrenIDs[0]
	n, _ := again.Find(aAgain)
	if n.Text != "A" || len(n.ChildrenIDs) != 1 {
		t.Fatalf("subtree reshaped: %+v", n)
	}
	if k, _ := again.Find(n.ChildrenIDs[0]); k.Text != "kid" {
		t.Fatalf("kid reparented, got %q under A", k.Text)
	}
}

func TestImportSkipsBlankLines(t *testing.T) {
	d := Import("- Root\n\n  - A\n\n\n  - B\n")
	if got := len(d.Root().ChildrenIDs); got != 2 {
		t.Fatalf("root children = %d, want 2", got)
	}
}

func TestImportFallsBackOnUnusableInput(t *testing.T) {
	for _, text := range []string{
		"",
		"   \n\n",
		"  - indented first line\n- Root\n",
	} {
		d := Import(text)
		if err := d.Check(); err != nil {
			t.Fatalf("invariants for %q: %v", text, err)
		}
		if got := d.Root().Text; got != DefaultRootText {
			t.Fatalf("Import(%q) root = %q, want %q", text, got, DefaultRootText)
		}
		if len(d.Root().ChildrenIDs) != 0 {
			t.Fatalf("fallback root must be alone")
		}
	}
}

func TestImportDepthSkipsAttachToNearestAncestor(t *testing.T) {
	// A1 jumps two levels deeper than A; the unwind still parents it to A.
	d := Import("- Root\n  - A\n      - A1\n  - B\n")
	a := d.Root().ChildrenIDs[0]
	n, _ := d.Find(a)
	if len(n.ChildrenIDs) != 1 {
		t.Fatalf("A children = %v", n.ChildrenIDs)
	}
	a1, _ := d.Find(n.ChildrenIDs[0])
	if a1.Text != "A1" {
		t.Fatalf("deep child = %q", a1.Text)
	}
}

func TestImportExtraTopLevelLinesAttachUnderRoot(t *testing.T) {
	d := Import("- Root\n- Stray\n")
	kids := d.Root().ChildrenIDs
	if len(kids) != 1 {
		t.Fatalf("root children = %v", kids)
	}
	if n, _ := d.Find(kids[0]); n.Text != "Stray" {
		t.Fatalf("stray line = %q", n.Text)
	}
}

func TestImportUnknownStyleTagStaysLiteral(t *testing.T) {
	d := Import("- Root {style:sparkly}\n")
	if got := d.Root().Text; got != "Root {style:sparkly}" {
		t.Fatalf("unknown tag mangled: %q", got)
	}
	if d.Root().Style != model.StyleRect {
		t.Fatalf("unknown tag changed style: %v", d.Root().Style)
	}
}

func TestImportNeverSerializesCollapseOrPositions(t *testing.T) {
	d := Import("- Root\n  - A\n")
	for id, n := range d.Nodes {
		if n.Collapsed {
			t.Fatalf("node %s imported collapsed", id)
		}
		if n.Position != (model.Position{}) {
			t.Fatalf("node %s imported with a position: %+v", id, n.Position)
		}
	}
}
