// Package history implements snapshot-based undo/redo for one editing
// session. Snapshots are full deep copies taken before a mutation; undo and
// redo are whole-document swaps, never incremental merges.
package history

import "mindmap-cli/internal/doc"

type History struct {
	undo []*doc.Document
	redo []*doc.Document
}

func New() *History {
	return &History{}
}

// Commit pushes the pre-mutation snapshot and invalidates the redo chain.
// Call once per completed user-visible mutation; callers coalesce gestures
// (a drag commits once, and only if the document actually changed).
func (h *History) Commit(pre *doc.Document) {
	if pre == nil {
		return
	}
	h.undo = append(h.undo, pre)
	h.redo = h.redo[:0]
}

// Undo returns the document to restore, recording the live state for redo.
// With an empty undo stack it returns (nil, false) and changes nothing.
func (h *History) Undo(live *doc.Document) (*doc.Document, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, live.Clone())
	return snap, true
}

// Redo is symmetric to Undo over the redo stack.
func (h *History) Redo(live *doc.Document) (*doc.Document, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, live.Clone())
	return snap, true
}

// Reset clears both stacks. History is scoped to one document's session:
// loading, importing, or switching maps starts fresh.
func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
