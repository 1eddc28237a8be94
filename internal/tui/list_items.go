package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"mindmap-cli/internal/model"
	"mindmap-cli/internal/outline"
)

type mapItem struct {
	rec     model.MapRecord
	current bool
}

func (i mapItem) FilterValue() string { return i.rec.Name }

func (i mapItem) Title() string {
	t := strings.TrimSpace(i.rec.Name)
	if t == "" {
		t = rootTextOf(i.rec)
	}
	if i.current {
		return t + " " + glyphBullet()
	}
	return t
}

func (i mapItem) Description() string {
	n := len(strings.Split(strings.TrimRight(i.rec.Outline, "\n"), "\n"))
	if strings.TrimSpace(i.rec.Outline) == "" {
		n = 0
	}
	return fmt.Sprintf("%s %s %d nodes %s %s",
		i.rec.ID, glyphBullet(), n, glyphBullet(),
		i.rec.ModifiedAt.Local().Format("2006-01-02 15:04"))
}

// rootTextOf pulls a display name out of stored outline text without building
// the whole document.
func rootTextOf(rec model.MapRecord) string {
	for _, line := range strings.Split(rec.Outline, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d := outline.Import(line)
		return d.Root().Text
	}
	return rec.Name
}

func newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	// We render our own footer and title bar, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("map", "maps")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases (common muscle memory).
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}
