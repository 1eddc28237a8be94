// Package outline converts between the in-memory tree and the indentation
// based outline text format:
//
//	- root text
//	  - child text {style:underline}
//	    - grandchild text
//
// Two spaces per depth level, one node per line. A trailing " {style:name}"
// tag carries a non-default node style; rect is the default and is never
// written. Collapse state is interactive-only and does not serialize:
// collapsed nodes still export their children.
package outline

import (
	"strings"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
)

const indentUnit = "  "

// Export serializes the tree in pre-order, styles included.
func Export(d *doc.Document) string {
	return export(d, true)
}

// ExportView is the editor-pane variant: same shape, style tags stripped, so
// hand-editing the outline never has to dodge tag syntax.
func ExportView(d *doc.Document) string {
	return export(d, false)
}

func export(d *doc.Document, withStyles bool) string {
	root := d.Root()
	if root == nil {
		return ""
	}

	type frame struct {
		id    string
		depth int
	}
	var b strings.Builder
	stack := []frame{{id: root.ID, depth: 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := d.Find(f.id)
		if !ok {
			continue
		}
		for i := 0; i < f.depth; i++ {
			b.WriteString(indentUnit)
		}
		b.WriteString("- ")
		b.WriteString(n.Text)
		if withStyles && n.Style != "" && n.Style != model.StyleRect {
			b.WriteString(" {style:")
			b.WriteString(string(n.Style))
			b.WriteString("}")
		}
		b.WriteString("\n")
		for i := len(n.ChildrenIDs) - 1; i >= 0; i-- {
			stack = append(stack, frame{id: n.ChildrenIDs[i], depth: f.depth + 1})
		}
	}
	return b.String()
}

// Import parses outline text into a fresh document. Structurally unusable
// input (empty, or a first line not at depth 0) falls back to a single
// default root; import never fails hard.
func Import(text string) *doc.Document {
	d := &doc.Document{
		Nodes:          map[string]*model.Node{},
		ConnectorStyle: model.ConnectorCurved,
		LayoutMode:     model.LayoutBidirectional,
	}

	type frame struct {
		id    string
		depth int
	}
	var stack []frame

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := leadingSpaces(line) / 2
		body := strings.TrimLeft(line, " ")
		body = strings.TrimPrefix(body, "- ")
		textPart, style := splitStyleTag(body)
		textPart = strings.TrimSpace(textPart)
		if textPart == "" {
			continue
		}

		if len(stack) == 0 && d.Root() == nil {
			if depth != 0 {
				break // first line must be the root
			}
			id, _ := d.AddNode(textPart, nil, model.Position{}, style)
			stack = append(stack, frame{id: id, depth: 0})
			continue
		}

		// Unwind to the nearest shallower ancestor.
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		parentID := model.RootID
		if len(stack) > 0 {
			parentID = stack[len(stack)-1].id
		}
		id, ok := d.AddNode(textPart, &parentID, model.Position{}, style)
		if !ok {
			continue
		}
		stack = append(stack, frame{id: id, depth: depth})
	}

	if d.Root() == nil {
		return doc.New(DefaultRootText)
	}
	d.Selected = []string{model.RootID}
	return d
}

// DefaultRootText is what an empty import produces as the root label.
const DefaultRootText = doc.DefaultRootText

// splitStyleTag strips a trailing " {style:name}" tag when name is a
// recognized style. Anything else stays part of the text verbatim.
func splitStyleTag(s string) (string, model.NodeStyle) {
	if !strings.HasSuffix(s, "}") {
		return s, model.StyleRect
	}
	idx := strings.LastIndex(s, " {style:")
	if idx < 0 {
		return s, model.StyleRect
	}
	name := s[idx+len(" {style:") : len(s)-1]
	style, ok := model.ParseNodeStyle(name)
	if !ok {
		return s, model.StyleRect
	}
	return s[:idx], style
}

func leadingSpaces(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}
