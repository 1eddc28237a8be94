package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
)

// The layout engine works in continuous "world" units; the canvas quantizes
// them onto a character grid. One column is 8 world units and one row is 20,
// so the stock horizontal offset (200) becomes 25 columns and sibling spacing
// (100) becomes 5 rows.
const (
	cellUnitX = 8.0
	cellUnitY = 20.0
)

type cell struct {
	r         rune
	text      bool
	underline bool
	selected  bool
	active    bool
}

type canvas struct {
	minCol, minRow int
	w, h           int
	cells          [][]cell
}

type lineGlyphs struct {
	h, v, tl, tr, bl, br rune
}

func glyphsFor(style model.ConnectorStyle) lineGlyphs {
	if asciiGlyphs() {
		return lineGlyphs{h: '-', v: '|', tl: '+', tr: '+', bl: '+', br: '+'}
	}
	if style == model.ConnectorStraight {
		return lineGlyphs{h: '─', v: '│', tl: '┌', tr: '┐', bl: '└', br: '┘'}
	}
	return lineGlyphs{h: '─', v: '│', tl: '╭', tr: '╮', bl: '╰', br: '╯'}
}

// nodeCell maps a node's world position to its grid anchor (the label center).
func nodeCell(n *model.Node) (col, row int) {
	return int(roundHalf(n.Position.X / cellUnitX)), int(roundHalf(n.Position.Y / cellUnitY))
}

func roundHalf(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

// nodeLabel is the node's on-canvas text: rect nodes get bracket borders,
// collapsed nodes a marker with the hidden subtree size.
func nodeLabel(d *doc.Document, n *model.Node) string {
	text := n.Text
	if n.Collapsed {
		if hidden := len(d.Descendants(n.ID)); hidden > 0 {
			text = fmt.Sprintf("%s %s%d", text, glyphCollapsed(), hidden)
		}
	}
	if n.Style == model.StyleRect {
		return "[ " + text + " ]"
	}
	return text
}

func buildCanvas(d *doc.Document) *canvas {
	type placed struct {
		n        *model.Node
		col, row int
		label    []rune
		startCol int
	}

	visible := d.VisibleIDs()
	nodes := make(map[string]*placed, len(visible))
	minCol, minRow := 1<<30, 1<<30
	maxCol, maxRow := -(1 << 30), -(1 << 30)
	for _, id := range visible {
		n, ok := d.Find(id)
		if !ok {
			continue
		}
		col, row := nodeCell(n)
		label := []rune(nodeLabel(d, n))
		p := &placed{n: n, col: col, row: row, label: label, startCol: col - len(label)/2}
		nodes[id] = p
		if p.startCol < minCol {
			minCol = p.startCol
		}
		if end := p.startCol + len(label); end > maxCol {
			maxCol = end
		}
		if row < minRow {
			minRow = row
		}
		if row > maxRow {
			maxRow = row
		}
	}
	if len(nodes) == 0 {
		return &canvas{w: 1, h: 1, cells: [][]cell{{{}}}}
	}
	minCol -= 2
	minRow -= 1
	maxCol += 2
	maxRow += 1

	c := &canvas{
		minCol: minCol,
		minRow: minRow,
		w:      maxCol - minCol + 1,
		h:      maxRow - minRow + 1,
	}
	c.cells = make([][]cell, c.h)
	for i := range c.cells {
		c.cells[i] = make([]cell, c.w)
	}

	g := glyphsFor(d.ConnectorStyle)

	// Connectors first so labels paint over them.
	for _, p := range nodes {
		if p.n.ParentID == nil {
			continue
		}
		pp, ok := nodes[*p.n.ParentID]
		if !ok {
			continue
		}
		var x1 int
		if p.col >= pp.col {
			x1 = pp.startCol + len(pp.label)
		} else {
			x1 = pp.startCol - 1
		}
		var x2 int
		if p.col >= pp.col {
			x2 = p.startCol - 1
		} else {
			x2 = p.startCol + len(p.label)
		}
		c.drawElbow(g, x1, pp.row, x2, p.row)
	}

	for _, p := range nodes {
		sel := d.IsSelected(p.n.ID)
		activeID, _ := d.Active()
		active := sel && activeID == p.n.ID
		underline := p.n.Style == model.StyleUnderline
		for i, r := range p.label {
			c.set(p.startCol+i, p.row, cell{
				r:         r,
				text:      true,
				underline: underline,
				selected:  sel,
				active:    active,
			})
		}
	}
	return c
}

func (c *canvas) set(col, row int, cl cell) {
	x, y := col-c.minCol, row-c.minRow
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cl
}

func (c *canvas) setLine(col, row int, r rune) {
	x, y := col-c.minCol, row-c.minRow
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	if c.cells[y][x].text {
		return
	}
	c.cells[y][x] = cell{r: r}
}

// drawElbow connects (x1,y1) to (x2,y2) with one horizontal-vertical-
// horizontal dogleg bent at the midpoint column.
func (c *canvas) drawElbow(g lineGlyphs, x1, y1, x2, y2 int) {
	if y1 == y2 {
		for x := min(x1, x2); x <= max(x1, x2); x++ {
			c.setLine(x, y1, g.h)
		}
		return
	}
	mid := (x1 + x2) / 2
	for x := min(x1, mid); x <= max(x1, mid); x++ {
		if x != mid {
			c.setLine(x, y1, g.h)
		}
	}
	for x := min(mid, x2); x <= max(mid, x2); x++ {
		if x != mid {
			c.setLine(x, y2, g.h)
		}
	}
	for y := min(y1, y2) + 1; y < max(y1, y2); y++ {
		c.setLine(mid, y, g.v)
	}

	down := y2 > y1
	fromLeft := x1 <= mid
	switch {
	case fromLeft && down:
		c.setLine(mid, y1, g.tr)
	case fromLeft && !down:
		c.setLine(mid, y1, g.br)
	case !fromLeft && down:
		c.setLine(mid, y1, g.tl)
	default:
		c.setLine(mid, y1, g.bl)
	}
	exitRight := x2 >= mid
	switch {
	case down && exitRight:
		c.setLine(mid, y2, g.bl)
	case down && !exitRight:
		c.setLine(mid, y2, g.br)
	case !down && exitRight:
		c.setLine(mid, y2, g.tl)
	default:
		c.setLine(mid, y2, g.tr)
	}
}

// render extracts the viewport at camera offset (camCol,camRow) — grid
// coordinates of the viewport's top-left cell — as styled terminal rows.
func (c *canvas) render(camCol, camRow, width, height int) string {
	lineStyle := faintIfDark(lipgloss.NewStyle().Foreground(colorConnector))
	var b strings.Builder
	for vy := 0; vy < height; vy++ {
		if vy > 0 {
			b.WriteByte('\n')
		}
		y := camRow + vy - c.minRow
		if y < 0 || y >= c.h {
			continue
		}
		var run []rune
		var runStyle cell
		flush := func() {
			if len(run) == 0 {
				return
			}
			s := string(run)
			switch {
			case runStyle.text:
				b.WriteString(textStyle(runStyle).Render(s))
			case strings.TrimSpace(s) == "":
				b.WriteString(s)
			default:
				b.WriteString(lineStyle.Render(s))
			}
			run = run[:0]
		}
		for vx := 0; vx < width; vx++ {
			x := camCol + vx - c.minCol
			cl := cell{}
			if x >= 0 && x < c.w {
				cl = c.cells[y][x]
			}
			if cl.r == 0 {
				cl.r = ' '
			}
			key := cell{text: cl.text, underline: cl.underline, selected: cl.selected, active: cl.active}
			if key != runStyle {
				flush()
				runStyle = key
			}
			run = append(run, cl.r)
		}
		flush()
	}
	return b.String()
}

func textStyle(cl cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch {
	case cl.active:
		st = st.Background(colorAccent).Foreground(colorAccentFg).Bold(true)
	case cl.selected:
		st = st.Background(colorSelectedBg).Foreground(colorSelectedFg)
	}
	if cl.underline {
		st = st.Underline(true)
	}
	return st
}
