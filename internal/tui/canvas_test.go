package tui

import (
	"strings"
	"testing"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/layout"
	"mindmap-cli/internal/model"
)

func TestNodeCellQuantization(t *testing.T) {
	n := &model.Node{Position: model.Position{X: 200, Y: -60}}
	col, row := nodeCell(n)
	if col != 25 || row != -3 {
		t.Fatalf("nodeCell = (%d,%d), want (25,-3)", col, row)
	}
	n = &model.Node{Position: model.Position{X: -4, Y: 10}}
	col, row = nodeCell(n)
	if col != -1 || row != 1 {
		t.Fatalf("nodeCell negative rounding = (%d,%d), want (-1,1)", col, row)
	}
}

func TestNodeLabelStylesAndCollapse(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("A", &pid, model.Position{}, model.StyleNone)
	d.AddNode("A1", &a, model.Position{}, model.StyleRect)
	d.AddNode("A2", &a, model.Position{}, model.StyleRect)

	if got := nodeLabel(d, d.Root()); got != "[ Root ]" {
		t.Fatalf("rect label = %q", got)
	}
	an, _ := d.Find(a)
	if got := nodeLabel(d, an); got != "A" {
		t.Fatalf("plain label = %q", got)
	}

	d.ToggleCollapse(a)
	got := nodeLabel(d, an)
	if !strings.Contains(got, "2") {
		t.Fatalf("collapsed label must carry the hidden count: %q", got)
	}
}

func TestBuildCanvasShowsVisibleNodesOnly(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	a, _ := d.AddNode("Alpha", &pid, model.Position{}, model.StyleRect)
	d.AddNode("Hidden", &a, model.Position{}, model.StyleRect)
	layout.Apply(d)
	d.ToggleCollapse(a)

	c := buildCanvas(d)
	out := c.render(c.minCol, c.minRow, c.w, c.h)
	if !strings.Contains(out, "Root") || !strings.Contains(out, "Alpha") {
		t.Fatalf("canvas missing labels:\n%s", out)
	}
	if strings.Contains(out, "Hidden") {
		t.Fatalf("collapsed descendant rendered:\n%s", out)
	}
}

func TestRenderViewportDimensions(t *testing.T) {
	d := doc.New("Root")
	layout.Apply(d)
	c := buildCanvas(d)

	out := c.render(0, 0, 40, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("rendered %d rows, want 5", len(lines))
	}
}

func TestConnectorTouchesBothLevels(t *testing.T) {
	d := doc.New("Root")
	pid := model.RootID
	d.AddNode("Child", &pid, model.Position{}, model.StyleRect)
	d.LayoutMode = model.LayoutLTR
	layout.Apply(d)

	c := buildCanvas(d)
	out := c.render(c.minCol, c.minRow, c.w, c.h)
	for _, ch := range []string{"-", "─"} {
		if strings.Contains(out, ch) {
			return
		}
	}
	t.Fatalf("no connector drawn between parent and child:\n%s", out)
}
