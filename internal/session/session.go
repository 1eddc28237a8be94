// Package session owns the live document for one editing session and exposes
// the semantic operation surface the CLI and TUI drive. Everything runs on
// the caller's single goroutine: rapid outline edits and autosaves are
// coalesced with cancel-and-reschedule deadlines that the owner pumps via
// Advance, not with free-running timers.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/history"
	"mindmap-cli/internal/layout"
	"mindmap-cli/internal/model"
	"mindmap-cli/internal/outline"
	"mindmap-cli/internal/store"
)

const (
	// OutlineDebounce is the quiet period after an outline keystroke before
	// the tree is rebuilt from text.
	OutlineDebounce = 400 * time.Millisecond
	// AutosaveDelay coalesces persistence after mutations.
	AutosaveDelay = 2 * time.Second
)

var ErrNoMap = errors.New("no map open")

type Session struct {
	store  store.Store
	logger *log.Logger

	doc  *doc.Document
	hist *history.History

	mapID   string
	mapName string
	created time.Time

	pendingOutline *string
	outlineDue     time.Time
	savePending    bool
	saveDue        time.Time

	dragPre *doc.Document
}

func New(st store.Store, logger *log.Logger) *Session {
	return &Session{store: st, logger: logger, hist: history.New()}
}

func (s *Session) Doc() *doc.Document { return s.doc }
func (s *Session) MapID() string      { return s.mapID }
func (s *Session) MapName() string    { return s.mapName }

// NewMap creates and opens a fresh single-root map, persisting it at once.
func (s *Session) NewMap(name string) (string, error) {
	d := doc.New(name)
	layout.Apply(d)
	now := time.Now().UTC()
	rec := model.MapRecord{
		ID:             s.store.NewMapID(),
		Name:           name,
		Outline:        outline.Export(d),
		ConnectorStyle: d.ConnectorStyle,
		LayoutMode:     d.LayoutMode,
		CreatedAt:      now,
		ModifiedAt:     now,
	}
	if rec.Name == "" {
		rec.Name = d.Root().Text
	}
	if err := s.store.PutMap(context.Background(), rec); err != nil {
		return "", err
	}
	s.adopt(rec, d)
	s.logger.Debug("created map", "id", rec.ID, "name", rec.Name)
	return rec.ID, nil
}

// Open loads a persisted map and rebuilds the tree from its outline text.
func (s *Session) Open(mapID string) error {
	rec, err := s.store.GetMap(context.Background(), mapID)
	if err != nil {
		return err
	}
	d := outline.Import(rec.Outline)
	if cs, ok := model.ParseConnectorStyle(string(rec.ConnectorStyle)); ok {
		d.ConnectorStyle = cs
	}
	if lm, ok := model.ParseLayoutMode(string(rec.LayoutMode)); ok {
		d.LayoutMode = lm
	}
	layout.Apply(d)
	s.adopt(rec, d)
	_ = s.store.SetCurrentMapID(context.Background(), rec.ID)
	s.logger.Debug("opened map", "id", rec.ID)
	return nil
}

// adopt installs a freshly built document. History is scoped to one map's
// editing session, so any adoption starts it over.
func (s *Session) adopt(rec model.MapRecord, d *doc.Document) {
	s.doc = d
	s.mapID = rec.ID
	s.mapName = rec.Name
	s.created = rec.CreatedAt
	s.hist.Reset()
	s.pendingOutline = nil
	s.savePending = false
	s.dragPre = nil
}

// mutate wraps a document edit with snapshot/commit bookkeeping: the
// pre-state is committed only when the edit really changed something, and any
// real change arms the autosave deadline.
func (s *Session) mutate(fn func() bool) bool {
	if s.doc == nil {
		return false
	}
	pre := s.doc.Clone()
	if !fn() {
		return false
	}
	if doc.Equal(pre, s.doc) {
		return false
	}
	s.hist.Commit(pre)
	s.armSave(time.Now())
	return true
}

// AddChild creates a child of the active node (the root when nothing is
// selected), places it, and selects it.
func (s *Session) AddChild(text string) (string, bool) {
	var newID string
	ok := s.mutate(func() bool {
		parentID, ok := s.doc.Active()
		if !ok {
			parentID = model.RootID
		}
		id, ok := s.doc.AddNode(text, &parentID, model.Position{}, model.StyleRect)
		if !ok {
			return false
		}
		layout.PlaceChild(s.doc, parentID, id)
		s.doc.Select(id)
		newID = id
		return true
	})
	return newID, ok
}

// AddSibling creates a peer of the active node; on the root it behaves like
// AddChild.
func (s *Session) AddSibling(text string) (string, bool) {
	if s.doc == nil {
		return "", false
	}
	activeID, ok := s.doc.Active()
	if !ok || activeID == model.RootID {
		return s.AddChild(text)
	}
	n, ok := s.doc.Find(activeID)
	if !ok || n.ParentID == nil {
		return s.AddChild(text)
	}
	parentID := *n.ParentID
	var newID string
	changed := s.mutate(func() bool {
		id, ok := s.doc.AddNode(text, &parentID, model.Position{}, model.StyleRect)
		if !ok {
			return false
		}
		layout.PlaceChild(s.doc, parentID, id)
		s.doc.Select(id)
		newID = id
		return true
	})
	return newID, changed
}

// DeleteSelected removes every selected subtree. The root survives; nodes
// already removed as part of an earlier selected ancestor are skipped.
func (s *Session) DeleteSelected() bool {
	return s.mutate(func() bool {
		ids := append([]string(nil), s.doc.Selected...)
		any := false
		for _, id := range ids {
			if _, ok := s.doc.Find(id); !ok {
				continue
			}
			if s.doc.DeleteSubtree(id) {
				any = true
			}
		}
		return any
	})
}

func (s *Session) Rename(nodeID, text string) bool {
	return s.mutate(func() bool { return s.doc.Rename(nodeID, text) })
}

// SetStyle restyles the whole selection.
func (s *Session) SetStyle(style model.NodeStyle) bool {
	return s.mutate(func() bool {
		return s.doc.SetStyle(append([]string(nil), s.doc.Selected...), style)
	})
}

func (s *Session) ToggleCollapse(nodeID string) bool {
	return s.mutate(func() bool { return s.doc.ToggleCollapse(nodeID) })
}

// SetLayoutMode switches mode and runs the full relayout.
func (s *Session) SetLayoutMode(mode model.LayoutMode) bool {
	if _, ok := model.ParseLayoutMode(string(mode)); !ok {
		return false
	}
	return s.mutate(func() bool {
		if s.doc.LayoutMode == mode {
			return false
		}
		s.doc.LayoutMode = mode
		layout.Apply(s.doc)
		return true
	})
}

func (s *Session) SetConnectorStyle(style model.ConnectorStyle) bool {
	if _, ok := model.ParseConnectorStyle(string(style)); !ok {
		return false
	}
	return s.mutate(func() bool {
		if s.doc.ConnectorStyle == style {
			return false
		}
		s.doc.ConnectorStyle = style
		return true
	})
}

func (s *Session) Undo() bool {
	if s.doc == nil {
		return false
	}
	snap, ok := s.hist.Undo(s.doc)
	if !ok {
		return false
	}
	s.doc = snap
	// A still-pending outline rebuild would clobber the restored state.
	s.pendingOutline = nil
	s.armSave(time.Now())
	return true
}

func (s *Session) Redo() bool {
	if s.doc == nil {
		return false
	}
	snap, ok := s.hist.Redo(s.doc)
	if !ok {
		return false
	}
	s.doc = snap
	s.pendingOutline = nil
	s.armSave(time.Now())
	return true
}

func (s *Session) CanUndo() bool { return s.hist.CanUndo() }
func (s *Session) CanRedo() bool { return s.hist.CanRedo() }

// BeginDrag opens a drag gesture; DragBy applies incremental deltas to the
// selection; EndDrag commits the gesture once, and only if something moved.
func (s *Session) BeginDrag() {
	if s.doc == nil {
		return
	}
	s.dragPre = s.doc.Clone()
}

func (s *Session) DragBy(dx, dy float64) {
	if s.doc == nil || s.dragPre == nil {
		return
	}
	layout.TranslateSelection(s.doc, s.doc.Selected, dx, dy)
}

func (s *Session) EndDrag() bool {
	if s.doc == nil || s.dragPre == nil {
		return false
	}
	pre := s.dragPre
	s.dragPre = nil
	if doc.Equal(pre, s.doc) {
		return false
	}
	s.hist.Commit(pre)
	s.armSave(time.Now())
	return true
}

func (s *Session) Navigate(dir doc.Direction) (string, bool) {
	if s.doc == nil {
		return "", false
	}
	return s.doc.Navigate(dir)
}

// ExportText serializes the current tree, style tags included.
func (s *Session) ExportText() (string, error) {
	if s.doc == nil {
		return "", ErrNoMap
	}
	return outline.Export(s.doc), nil
}

// OutlineView is the style-free text shown in the TUI outline pane.
func (s *Session) OutlineView() string {
	if s.doc == nil {
		return ""
	}
	return outline.ExportView(s.doc)
}

// ImportText tears the tree down and rebuilds it from text immediately,
// preserving the session's map identity and display settings.
func (s *Session) ImportText(text string) error {
	if s.mapID == "" {
		return ErrNoMap
	}
	s.rebuildFromOutline(text, time.Now())
	return nil
}

// EditOutline records a pending outline edit and (re)arms the debounce
// deadline. Each keystroke cancels the previous pending rebuild, so only the
// last text within the window is ever applied.
func (s *Session) EditOutline(text string, now time.Time) {
	if s.mapID == "" {
		return
	}
	t := text
	s.pendingOutline = &t
	s.outlineDue = now.Add(OutlineDebounce)
}

// Advance applies any work whose deadline has passed. The owning event loop
// calls this from its tick; nothing here blocks.
func (s *Session) Advance(now time.Time) {
	if s.pendingOutline != nil && !now.Before(s.outlineDue) {
		text := *s.pendingOutline
		s.pendingOutline = nil
		s.rebuildFromOutline(text, now)
	}
	if s.savePending && !now.Before(s.saveDue) {
		if err := s.flush(now); err != nil {
			s.logger.Warn("autosave failed", "map", s.mapID, "err", err)
		}
	}
}

// Save cancels any pending autosave and writes synchronously.
func (s *Session) Save() error {
	if s.mapID == "" {
		return ErrNoMap
	}
	return s.flush(time.Now())
}

// Dirty reports whether an autosave is still pending.
func (s *Session) Dirty() bool { return s.savePending }

func (s *Session) rebuildFromOutline(text string, now time.Time) {
	cs, lm := s.doc.ConnectorStyle, s.doc.LayoutMode
	d := outline.Import(text)
	d.ConnectorStyle = cs
	d.LayoutMode = lm
	layout.Apply(d)
	s.doc = d
	s.hist.Reset()
	s.armSave(now)
	s.logger.Debug("rebuilt tree from outline", "map", s.mapID, "nodes", len(d.Nodes))
}

func (s *Session) armSave(now time.Time) {
	s.savePending = true
	s.saveDue = now.Add(AutosaveDelay)
}

func (s *Session) flush(now time.Time) error {
	s.savePending = false
	rec := model.MapRecord{
		ID:             s.mapID,
		Name:           s.mapName,
		Outline:        outline.Export(s.doc),
		ConnectorStyle: s.doc.ConnectorStyle,
		LayoutMode:     s.doc.LayoutMode,
		CreatedAt:      s.created,
		ModifiedAt:     now.UTC(),
	}
	if err := s.store.PutMap(context.Background(), rec); err != nil {
		return err
	}
	s.logger.Debug("saved map", "id", s.mapID)
	return nil
}
