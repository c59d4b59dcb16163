package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/marcus/notepad/internal/config"
	"github.com/marcus/notepad/internal/keymap"
	"github.com/marcus/notepad/internal/mouse"
	"github.com/marcus/notepad/internal/styles"
	"github.com/marcus/notepad/internal/ui"
)

const (
	headerHeight = 2 // header line + spacing
	footerHeight = 1
	minWidth     = 40
	minHeight    = 10
	minEditorW   = 20
	deleteGlyph  = "×"
)

// Hit region IDs of the main screen.
const (
	regionList   = "list"
	regionRow    = "note-row"
	regionDelete = "note-delete"
	regionTitle  = "editor-title"
	regionBody   = "editor-body"
	regionNew    = "new-note"
)

// View renders the entire application UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show warning if terminal is too small
	if m.width < minWidth || m.height < minHeight {
		msg := fmt.Sprintf("Terminal too small (%dx%d)\nMinimum: %dx%d",
			m.width, m.height, minWidth, minHeight)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			styles.ToastError.Render(msg))
	}

	m.mouse.HitMap.Clear()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderContent())
	if m.showFooter {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	bg := b.String()
	if o := m.activeOverlay(); o != nil {
		return m.renderOverlay(bg, o)
	}
	return bg
}

// renderOverlay draws o's modal at its current, possibly dragged, position.
func (m Model) renderOverlay(bg string, o *overlay) string {
	content := o.modal.Render(m.width, m.height, o.mouse)
	x, y := o.modal.Position()
	return ui.OverlayModalAt(bg, content, x, y, m.width, m.height)
}

func (m Model) renderHeader() string {
	title := styles.Logo.Render(" " + logoText)
	if !m.intro.Done() {
		title = " " + m.intro.View()
	}
	count := styles.Muted.Render(fmt.Sprintf("  %s", pluralize(m.store.Len(), "note", "notes")))

	mode := "delete: ask"
	if !m.deletion.AskBeforeDelete() {
		mode = "delete: immediate"
	}
	modeStr := styles.Subtle.Render("  " + mode)

	left := title + count + modeStr
	newBtn := styles.Button.Render("+ New")

	var clock string
	if m.showClock {
		clock = styles.Clock.Render(m.clock.Format("15:04:05")) + " "
	}

	leftW := lipgloss.Width(left)
	btnW := lipgloss.Width(newBtn)
	clockW := lipgloss.Width(clock)
	spacing := max(1, m.width-leftW-btnW-clockW-1)

	m.mouse.HitMap.Add(regionNew, mouse.Rect{X: leftW + spacing, Y: 0, W: btnW, H: 1}, nil)

	header := left + strings.Repeat(" ", spacing) + newBtn + " " + clock
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(header)
}

// paneWidths splits the screen between the list and the editor.
func (m Model) paneWidths() (list, edit int) {
	list = max(config.MinListWidth, m.listWidth)
	list = min(list, max(config.MinListWidth, m.width-minEditorW))
	return list, max(0, m.width-list)
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight
	if m.showFooter {
		h -= footerHeight
	}
	return max(0, h)
}

// listRowsHeight is the number of note rows visible in the list pane.
func (m Model) listRowsHeight() int {
	return max(0, m.contentHeight()-2)
}

// layout resizes the editor widgets to the current screen.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	_, ew := m.paneWidths()
	rows := m.listRowsHeight()
	m.editor.SetSize(max(1, ew-4), max(1, rows-2))
	m.ensureCursorVisible()
}

func (m Model) renderContent() string {
	height := m.contentHeight()
	if height < 3 {
		return strings.Repeat("\n", max(0, height-1))
	}
	lw, ew := m.paneWidths()
	list := m.renderList(lw, height)
	editor := m.renderEditor(lw, ew, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, editor)
}

// renderList draws the note list and registers one hit region per row
// plus one per delete marker. Rows in an exit transition are drawn but
// not clickable.
func (m Model) renderList(width, height int) string {
	inner := max(1, width-4)
	rowsH := height - 2
	top := headerHeight + 1

	m.mouse.HitMap.Add(regionList, mouse.Rect{X: 0, Y: headerHeight, W: width, H: height}, nil)

	list := m.store.List()
	rows := m.anim.Rows(list)
	var cursorID int64
	if m.cursor >= 0 && m.cursor < len(list) {
		cursorID = list[m.cursor].ID
	}
	selectedID := m.selection.Current()

	var lines []string
	if len(rows) == 0 {
		lines = append(lines, styles.Muted.Render("No notes yet"))
		lines = append(lines, styles.Subtle.Render("press n to create one"))
	}
	scroll := min(m.scrollOff, max(0, len(rows)-1))
	for i := scroll; i < len(rows) && len(lines) < rowsH; i++ {
		r := rows[i]
		y := top + len(lines)
		isCursor := r.state != rowExiting && r.note.ID == cursorID
		isSelected := r.state != rowExiting && r.note.ID == selectedID
		lines = append(lines, renderRow(r, inner, isCursor, isSelected, m.pane == PaneList))

		if r.state == rowExiting {
			continue
		}
		m.mouse.HitMap.Add(regionRow, mouse.Rect{X: 1, Y: y, W: width - 2, H: 1}, r.note.ID)
		m.mouse.HitMap.Add(regionDelete, mouse.Rect{X: 2 + inner - 2, Y: y, W: 2, H: 1}, r.note.ID)
	}

	style := styles.PanelInactive
	if m.pane == PaneList && !m.hasOverlay() {
		style = styles.PanelActive
	}
	return style.Width(width - 2).Height(rowsH).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

// renderRow renders one list line of exactly width cells: cursor gutter,
// title, delete marker.
func renderRow(r listRow, width int, isCursor, isSelected, listFocused bool) string {
	gutter := "  "
	if isCursor && listFocused {
		gutter = styles.ListCursor.Render("> ")
	}
	titleW := max(0, width-4)
	title := r.note.Title
	if strings.TrimSpace(title) == "" {
		title = "Untitled"
	}
	title = strings.ReplaceAll(title, "\n", " ")
	title = runewidth.FillRight(runewidth.Truncate(title, titleW, "…"), titleW)

	style := styles.ListItemNormal
	switch {
	case r.state == rowEntering:
		style = styles.ListItemEntering
	case r.state == rowExiting:
		style = styles.ListItemExiting
	case isSelected:
		style = styles.ListItemSelected
	}
	marker := " " + styles.DeleteMarker.Render(deleteGlyph)
	if r.state == rowExiting {
		marker = "  "
	}
	return gutter + style.Render(title) + marker
}

func (m Model) renderEditor(x, width, height int) string {
	inner := max(1, width-4)
	rowsH := height - 2

	style := styles.PanelInactive
	if m.pane == PaneEditor && !m.hasOverlay() {
		style = styles.PanelActive
	}
	style = style.Width(width - 2).Height(rowsH).MaxHeight(height)

	if !m.editor.Loaded() {
		empty := lipgloss.Place(inner, rowsH, lipgloss.Center, lipgloss.Center,
			styles.Muted.Render("No notes open"))
		return style.Render(empty)
	}

	top := headerHeight + 1
	m.mouse.HitMap.Add(regionTitle, mouse.Rect{X: x + 1, Y: top, W: width - 2, H: 1}, nil)
	m.mouse.HitMap.Add(regionBody, mouse.Rect{X: x + 1, Y: top + 2, W: width - 2, H: max(1, rowsH-2)}, nil)

	var b strings.Builder
	b.WriteString(m.editor.title.View())
	b.WriteString("\n")
	b.WriteString(styles.Subtle.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")
	b.WriteString(m.editor.body.View())
	return style.Render(b.String())
}

// renderFooter renders the bottom bar with key hints and status.
func (m Model) renderFooter() string {
	var status string
	if m.statusMsg != "" {
		toastStyle := styles.ToastSuccess
		if m.statusIsError {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(m.statusMsg)
	}

	statusWidth := lipgloss.Width(status)
	availableForHints := m.width - statusWidth - 4
	hintsStr := renderHintLineTruncated(m.footerHints(), availableForHints)

	spacing := max(0, m.width-lipgloss.Width(hintsStr)-statusWidth)
	footer := hintsStr + strings.Repeat(" ", spacing) + status

	// Use MaxWidth to prevent wrapping and ensure single line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

type footerHint struct {
	keys  string
	label string
}

// footerHintSpecs lists the commands worth a hint, per context, in
// display order.
var footerHintSpecs = map[string][]struct {
	id    string
	label string
}{
	keymap.ContextList: {
		{keymap.CmdNewNote, "new"},
		{keymap.CmdOpenNote, "open"},
		{keymap.CmdRenameNote, "rename"},
		{keymap.CmdDeleteNote, "delete"},
		{keymap.CmdYankBody, "copy"},
		{keymap.CmdToggleAsk, "ask"},
		{keymap.CmdToggleSettings, "settings"},
		{keymap.CmdQuit, "quit"},
	},
	keymap.ContextEditor: {
		{keymap.CmdFocusList, "back"},
		{keymap.CmdNextField, "title/body"},
		{keymap.CmdNewNote, "new"},
		{keymap.CmdQuit, "quit"},
	},
	keymap.ContextConfirm: {
		{keymap.CmdConfirm, "delete"},
		{keymap.CmdCancel, "cancel"},
	},
	keymap.ContextSettings: {
		{keymap.CmdToggleAsk, "ask"},
		{keymap.CmdToggleSettings, "close"},
	},
}

func (m Model) footerHints() []footerHint {
	context := m.activeContext()
	keysByCmd := bindingKeysByCommand(m.keymap.BindingsForContext(context))
	global := bindingKeysByCommand(m.keymap.BindingsForContext(keymap.ContextGlobal))

	var hints []footerHint
	for _, spec := range footerHintSpecs[context] {
		keys := keysByCmd[spec.id]
		if len(keys) == 0 {
			keys = global[spec.id]
		}
		if len(keys) == 0 {
			continue
		}
		hints = append(hints, footerHint{keys: formatBindingKeys(keys), label: spec.label})
	}
	return hints
}

func bindingKeysByCommand(bindings []keymap.Binding) map[string][]string {
	keysByCmd := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		keysByCmd[b.Command] = append(keysByCmd[b.Command], b.Key)
	}
	return keysByCmd
}

// formatBindingKeys shows at most two keys of a command.
func formatBindingKeys(keys []string) string {
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, "/")
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []footerHint, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	separator := "  "
	for i, hint := range hints {
		part := fmt.Sprintf("%s %s", styles.KeyHint.Render(hint.keys), hint.label)
		candidate := part
		if i > 0 {
			candidate = result + separator + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

// truncateTitle truncates a title to maxLen cells with an ellipsis.
func truncateTitle(title string, maxLen int) string {
	return runewidth.Truncate(title, maxLen, "...")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (m Model) hasOverlay() bool {
	return m.confirm.open() || m.settings.open()
}
