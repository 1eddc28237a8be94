package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/x/ansi"

	"mindmap-cli/internal/doc"
	"mindmap-cli/internal/model"
	"mindmap-cli/internal/session"
	"mindmap-cli/internal/store"
)

type view int

const (
	viewMaps view = iota
	viewCanvas
)

type inputKind int

const (
	inputNone inputKind = iota
	inputNewMap
	inputRenameMap
	inputAddChild
	inputAddSibling
	inputRename
)

// tickMsg drives deferred work: the session's debounce/autosave deadlines are
// pumped from here, on the program goroutine, instead of from free timers.
type tickMsg time.Time

const (
	tickEvery    = 250 * time.Millisecond
	outlinePaneW = 42
	nudgeStep    = 1 // grid cells per keypress
)

type appModel struct {
	store  store.Store
	logger *log.Logger
	sess   *session.Session

	width  int
	height int

	view     view
	mapsList list.Model

	camCol int
	camRow int
	multi  bool

	input       textinput.Model
	inputKind   inputKind
	renameMapID string
	renameNode  string

	outline     textarea.Model
	outlineOpen bool

	showHelp bool
	status   string
}

// Run starts the interactive editor. It opens the workspace's current map when
// one is set, otherwise it lands on the map list.
func Run(st store.Store, logger *log.Logger) error {
	if err := st.Ensure(); err != nil {
		return err
	}
	m := newAppModel(st, logger)
	if id, err := st.CurrentMapID(context.Background()); err == nil && id != "" {
		m = m.openMap(id)
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newAppModel(st store.Store, logger *log.Logger) appModel {
	m := appModel{
		store:  st,
		logger: logger,
		view:   viewMaps,
	}
	m.mapsList = newList([]list.Item{})
	m = m.refreshMaps()

	m.input = textinput.New()
	m.input.CharLimit = 512

	m.outline = textarea.New()
	m.outline.ShowLineNumbers = false
	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(tick(), textinput.Blink)
}

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapsList.SetSize(msg.Width, max(1, msg.Height-2))
		m.outline.SetWidth(outlinePaneW - 2)
		m.outline.SetHeight(max(1, msg.Height-4))
		return m, nil

	case tickMsg:
		if m.sess != nil {
			m.sess.Advance(time.Time(msg))
		}
		return m, tick()

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.inputKind != inputNone {
		return m.updateInput(msg)
	}

	if m.outlineOpen {
		return m.updateOutline(msg)
	}

	switch m.view {
	case viewMaps:
		return m.updateMaps(msg)
	default:
		return m.updateCanvas(msg)
	}
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.inputKind = inputNone
		m.input.Blur()
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.input.Value())
		kind := m.inputKind
		m.inputKind = inputNone
		m.input.Blur()
		return m.submitInput(kind, text), nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) submitInput(kind inputKind, text string) appModel {
	switch kind {
	case inputNewMap:
		sess := session.New(m.store, m.logger)
		id, err := sess.NewMap(text)
		if err != nil {
			m.status = "create failed: " + err.Error()
			return m
		}
		m.sess = sess
		m.view = viewCanvas
		m = m.centerCamera()
		m.logger.Debug("tui created map", "id", id)
	case inputRenameMap:
		if text == "" {
			return m
		}
		ctx := context.Background()
		rec, err := m.store.GetMap(ctx, m.renameMapID)
		if err != nil {
			m.status = err.Error()
			return m
		}
		rec.Name = text
		rec.ModifiedAt = time.Now().UTC()
		if err := m.store.PutMap(ctx, rec); err != nil {
			m.status = err.Error()
			return m
		}
		m = m.refreshMaps()
	case inputAddChild:
		if _, ok := m.sess.AddChild(text); ok {
			m = m.followActive()
		}
	case inputAddSibling:
		if _, ok := m.sess.AddSibling(text); ok {
			m = m.followActive()
		}
	case inputRename:
		m.sess.Rename(m.renameNode, text)
	}
	return m
}

func (m appModel) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.outlineOpen = false
		m.outline.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.outline, cmd = m.outline.Update(msg)
	m.sess.EditOutline(m.outline.Value(), time.Now())
	return m, cmd
}

func (m appModel) updateMaps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mapsList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.mapsList, cmd = m.mapsList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q":
		if m.sess != nil {
			if err := m.sess.Save(); err != nil {
				m.logger.Warn("save on quit failed", "err", err)
			}
		}
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "n":
		return m.openInput(inputNewMap, "Map name", ""), textinput.Blink
	case "enter":
		if it, ok := m.mapsList.SelectedItem().(mapItem); ok {
			m = m.openMap(it.rec.ID)
		}
		return m, nil
	case "R":
		if it, ok := m.mapsList.SelectedItem().(mapItem); ok {
			m.renameMapID = it.rec.ID
			return m.openInput(inputRenameMap, "Rename map", it.rec.Name), textinput.Blink
		}
		return m, nil
	case "D":
		if it, ok := m.mapsList.SelectedItem().(mapItem); ok {
			if err := m.store.DeleteMap(context.Background(), it.rec.ID); err != nil {
				m.status = err.Error()
			}
			m = m.refreshMaps()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.mapsList, cmd = m.mapsList.Update(msg)
	return m, cmd
}

func (m appModel) updateCanvas(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil || m.sess.Doc() == nil {
		m.view = viewMaps
		return m, nil
	}
	d := m.sess.Doc()

	switch msg.String() {
	case "ctrl+c", "q":
		if err := m.sess.Save(); err != nil {
			m.logger.Warn("save on quit failed", "err", err)
		}
		return m, tea.Quit
	case "esc":
		if err := m.sess.Save(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.view = viewMaps
		m = m.refreshMaps()
		return m, nil
	case "?":
		m.showHelp = true
		return m, nil

	case "up", "down", "left", "right":
		m = m.navigate(msg.String())
		return m, nil
	case "shift+up":
		m.camRow -= 2
		return m, nil
	case "shift+down":
		m.camRow += 2
		return m, nil
	case "shift+left":
		m.camCol -= 4
		return m, nil
	case "shift+right":
		m.camCol += 4
		return m, nil

	case "tab":
		return m.openInput(inputAddChild, "New child", ""), textinput.Blink
	case "enter":
		return m.openInput(inputAddSibling, "New sibling", ""), textinput.Blink
	case "r", "f2":
		if id, ok := d.Active(); ok {
			if n, ok := d.Find(id); ok {
				m.renameNode = id
				return m.openInput(inputRename, "Rename", n.Text), textinput.Blink
			}
		}
		return m, nil
	case "d", "delete":
		m.sess.DeleteSelected()
		return m.followActive(), nil
	case " ":
		if id, ok := d.Active(); ok {
			m.sess.ToggleCollapse(id)
		}
		return m, nil
	case "m":
		m.multi = !m.multi
		return m, nil

	case "H", "J", "K", "L":
		m.nudge(msg.String())
		return m, nil

	case "s":
		m.cycleStyle()
		return m, nil
	case "l":
		m.sess.SetLayoutMode(nextLayoutMode(d.LayoutMode))
		return m.centerCamera(), nil
	case "c":
		m.sess.SetConnectorStyle(nextConnectorStyle(d.ConnectorStyle))
		return m, nil

	case "u":
		if !m.sess.Undo() {
			m.status = "nothing to undo"
		}
		return m, nil
	case "U":
		if !m.sess.Redo() {
			m.status = "nothing to redo"
		}
		return m, nil

	case "o":
		m.outlineOpen = true
		m.outline.SetValue(m.sess.OutlineView())
		m.outline.Focus()
		m.outline.SetHeight(max(1, m.height-4))
		return m, textinput.Blink
	}
	return m, nil
}

func (m appModel) navigate(key string) appModel {
	dirs := map[string]doc.Direction{
		"up": doc.DirUp, "down": doc.DirDown,
		"left": doc.DirLeft, "right": doc.DirRight,
	}
	d := m.sess.Doc()
	if m.multi {
		// Grow the selection instead of collapsing it: navigation picks the
		// target, then the previous set is restored with the target on top.
		prev := append([]string(nil), d.Selected...)
		id, ok := m.sess.Navigate(dirs[key])
		if !ok {
			return m
		}
		d.Selected = prev
		if d.IsSelected(id) {
			d.ToggleSelect(id)
		}
		d.ToggleSelect(id)
		return m.followActive()
	}
	m.sess.Navigate(dirs[key])
	return m.followActive()
}

func (m *appModel) nudge(key string) {
	var dx, dy float64
	switch key {
	case "H":
		dx = -cellUnitX * nudgeStep
	case "L":
		dx = cellUnitX * nudgeStep
	case "K":
		dy = -cellUnitY * nudgeStep
	case "J":
		dy = cellUnitY * nudgeStep
	}
	m.sess.BeginDrag()
	m.sess.DragBy(dx, dy)
	m.sess.EndDrag()
}

func (m *appModel) cycleStyle() {
	d := m.sess.Doc()
	id, ok := d.Active()
	if !ok {
		return
	}
	n, ok := d.Find(id)
	if !ok {
		return
	}
	m.sess.SetStyle(nextNodeStyle(n.Style))
}

func nextNodeStyle(s model.NodeStyle) model.NodeStyle {
	switch s {
	case model.StyleRect:
		return model.StyleUnderline
	case model.StyleUnderline:
		return model.StyleNone
	default:
		return model.StyleRect
	}
}

func nextLayoutMode(mode model.LayoutMode) model.LayoutMode {
	switch mode {
	case model.LayoutBidirectional:
		return model.LayoutLTR
	case model.LayoutLTR:
		return model.LayoutRTL
	default:
		return model.LayoutBidirectional
	}
}

func nextConnectorStyle(s model.ConnectorStyle) model.ConnectorStyle {
	if s == model.ConnectorCurved {
		return model.ConnectorStraight
	}
	return model.ConnectorCurved
}

func (m appModel) openInput(kind inputKind, prompt, value string) appModel {
	m.inputKind = kind
	m.input.Prompt = prompt + ": "
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m appModel) openMap(id string) appModel {
	sess := session.New(m.store, m.logger)
	if err := sess.Open(id); err != nil {
		m.status = err.Error()
		return m
	}
	m.sess = sess
	m.view = viewCanvas
	m.outlineOpen = false
	m.multi = false
	return m.centerCamera()
}

func (m appModel) refreshMaps() appModel {
	ctx := context.Background()
	maps, err := m.store.ListMaps(ctx)
	if err != nil {
		m.status = err.Error()
		return m
	}
	current, _ := m.store.CurrentMapID(ctx)
	items := make([]list.Item, 0, len(maps))
	for _, rec := range maps {
		items = append(items, mapItem{rec: rec, current: rec.ID == current})
	}
	m.mapsList.SetItems(items)
	return m
}

func (m appModel) canvasSize() (w, h int) {
	w = m.width
	if m.outlineOpen {
		w -= outlinePaneW
	}
	h = m.height - 2
	return max(1, w), max(1, h)
}

func (m appModel) centerCamera() appModel {
	if m.sess == nil || m.sess.Doc() == nil {
		return m
	}
	root := m.sess.Doc().Root()
	if root == nil {
		return m
	}
	col, row := nodeCell(root)
	w, h := m.canvasSize()
	m.camCol = col - w/2
	m.camRow = row - h/2
	return m
}

// followActive pans just enough to keep the active node inside the viewport.
func (m appModel) followActive() appModel {
	d := m.sess.Doc()
	id, ok := d.Active()
	if !ok {
		return m
	}
	n, ok := d.Find(id)
	if !ok {
		return m
	}
	col, row := nodeCell(n)
	w, h := m.canvasSize()
	const margin = 4
	if col < m.camCol+margin {
		m.camCol = col - margin
	}
	if col > m.camCol+w-margin {
		m.camCol = col - w + margin
	}
	if row < m.camRow+2 {
		m.camRow = row - 2
	}
	if row > m.camRow+h-2 {
		m.camRow = row - h + 2
	}
	return m
}

func (m appModel) View() string {
	if m.width == 0 {
		return ""
	}
	if m.showHelp {
		return renderMarkdown(helpMarkdown, min(m.width-2, 78))
	}
	switch m.view {
	case viewMaps:
		return m.viewMapsScreen()
	default:
		return m.viewCanvasScreen()
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	chromeStyle = lipgloss.NewStyle().Foreground(colorStatusFg).Background(colorStatusBg)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

func (m appModel) viewMapsScreen() string {
	title := titleStyle.Render("Maps")
	footer := "enter open " + glyphBullet() + " n new " + glyphBullet() + " R rename " + glyphBullet() +
		" D delete " + glyphBullet() + " ? help " + glyphBullet() + " q quit"
	if m.status != "" {
		footer = m.status
	}
	body := m.mapsList.View()
	if m.inputKind != inputNone {
		footer = m.input.View()
	}
	return title + "\n" + body + "\n" + m.footerLine(footer)
}

func (m appModel) viewCanvasScreen() string {
	d := m.sess.Doc()
	w, h := m.canvasSize()
	body := buildCanvas(d).render(m.camCol, m.camRow, w, h)

	if m.outlineOpen {
		pane := lipgloss.NewStyle().
			Width(outlinePaneW-2).
			Height(h-2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Render(m.outline.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, pane)
	}

	name := m.sess.MapName()
	if name == "" {
		name = d.Root().Text
	}
	title := titleStyle.Render(name)
	meta := string(d.LayoutMode) + " " + glyphBullet() + " " + string(d.ConnectorStyle)
	if m.multi {
		meta += " " + glyphBullet() + " multi"
	}
	if m.sess.Dirty() {
		meta += " " + glyphDirty()
	}
	header := title + "  " + mutedStyle.Render(meta)

	footer := "arrows move " + glyphBullet() + " tab child " + glyphBullet() + " enter sibling " +
		glyphBullet() + " o outline " + glyphBullet() + " ? help"
	if m.status != "" {
		footer = m.status
	}
	if m.inputKind != inputNone {
		footer = m.input.View()
	}
	return ansi.Truncate(header, m.width, "…") + "\n" + body + "\n" + m.footerLine(footer)
}

func (m appModel) footerLine(s string) string {
	return chromeStyle.Width(m.width).Render(ansi.Truncate(" "+s, m.width, "…"))
}
