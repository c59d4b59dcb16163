package app

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/keymap"
	"github.com/marcus/notepad/internal/mouse"
	appmsg "github.com/marcus/notepad/internal/msg"
	"github.com/marcus/notepad/internal/ui"
)

// clipboardWrite is swapped in tests.
var clipboardWrite = clipboard.WriteAll

// Update handles all messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case TickMsg:
		m.clock = time.Time(msg)
		m.ClearToast()
		return m, tickCmd()

	case animTickMsg:
		return m, m.anim.HandleTick()

	case introTickMsg:
		m.intro.Advance(introFrame)
		if m.intro.Done() {
			return m, nil
		}
		return m, introTick()

	case appmsg.ToastMsg:
		m.ShowToast(msg.Message, msg.Duration, msg.IsError)
		return m, nil

	case ConfigReloadedMsg:
		if m.uiWriter != nil && msg.Config != nil && m.uiWriter.Stale(msg.Config) {
			// A newer settings save is pending or landed after this read.
			m.logger.Debug("notepad: skipped stale config reload")
			return m, waitForConfig(m.configUpdates)
		}
		m.logger.Info("notepad: config reloaded")
		m.applyConfig(msg.Config)
		return m, waitForConfig(m.configUpdates)

	case configSavedMsg:
		if msg.Err != nil {
			return m, m.reportFailure("Saving settings failed", msg.Err)
		}
		return m, nil

	case tea.BlurMsg:
		// The pointer left the terminal: settle any drag in progress.
		m.leaveAll()
		return m, nil

	case tea.KeyMsg:
		return m.finish(m.handleKeyMsg(msg))

	case tea.MouseMsg:
		return m.finish(m.handleMouseMsg(msg))
	}

	// Pass through other messages to the editor (cursor blink, etc.)
	if m.pane == PaneEditor && m.editor.Loaded() {
		if cmd := m.editor.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// finish runs after every input event: it reconciles the editor and the
// overlays with the core state and keeps the animation ticking.
func (m Model) finish(next Model, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	next.syncEditor()
	next.syncConfirm()
	next.clampCursor()
	return next, tea.Batch(cmd, next.anim.StartTick())
}

// leaveAll ends drags on every overlay.
func (m *Model) leaveAll() {
	m.confirm.mouse.Leave()
	m.settings.mouse.Leave()
	m.mouse.Leave()
}

// handleKeyMsg processes keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()
	context := m.activeContext()

	if o := m.activeOverlay(); o != nil {
		return m.handleOverlayKey(o, msg)
	}

	if command, ok := m.keymap.Lookup(key, context); ok {
		return m.runCommand(command)
	}

	if context == keymap.ContextEditor {
		cmd := m.editor.Update(msg)
		err := m.editor.Commit(m.ctx, m.store)
		return m, tea.Batch(cmd, m.reportFailure("Save failed", err))
	}
	return m, nil
}

// handleOverlayKey routes keys to the open modal. Keymap bindings of the
// overlay's context win over the modal's own keys.
func (m Model) handleOverlayKey(o *overlay, msg tea.KeyMsg) (Model, tea.Cmd) {
	context := m.activeContext()
	if command, ok := m.keymap.Lookup(msg.String(), context); ok {
		switch command {
		case keymap.CmdConfirm:
			return m, m.handleConfirmAction(ui.ActionConfirm)
		case keymap.CmdCancel:
			return m, m.handleConfirmAction(ui.ActionCancel)
		case keymap.CmdToggleSettings:
			if o == m.settings {
				m.settings.close()
				return m, nil
			}
		case keymap.CmdToggleAsk:
			if o == m.settings {
				m.settingsVals.ask = !m.settingsVals.ask
				return m, m.handleSettingsAction(settingAsk)
			}
		case keymap.CmdQuit:
			return m, tea.Quit
		}
	}

	action, cmd := o.modal.HandleKey(msg)
	if action == "" {
		return m, cmd
	}
	if o == m.confirm {
		return m, tea.Batch(cmd, m.handleConfirmAction(action))
	}
	return m, tea.Batch(cmd, m.handleSettingsAction(action))
}

// runCommand executes a keymap command outside of overlays.
func (m Model) runCommand(command string) (Model, tea.Cmd) {
	switch command {
	case keymap.CmdQuit:
		if err := m.editor.Commit(m.ctx, m.store); err != nil {
			m.logger.Error("notepad: save on quit failed", "err", err)
		}
		return m, tea.Quit

	case keymap.CmdNewNote:
		cmd := m.focusList()
		n, err := m.store.Create(m.ctx)
		m.moveCursorTo(n.ID)
		return m, tea.Batch(cmd, m.reportFailure("Create failed", err))

	case keymap.CmdDeleteNote:
		n, ok := m.cursorNote()
		if !ok {
			return m, nil
		}
		return m, m.requestDelete(n)

	case keymap.CmdOpenNote:
		if n, ok := m.cursorNote(); ok {
			m.openNote(n, fieldBody)
		}
		return m, nil

	case keymap.CmdRenameNote:
		if n, ok := m.cursorNote(); ok {
			m.openNote(n, fieldTitle)
		}
		return m, nil

	case keymap.CmdCloseNote:
		m.selection.Clear()
		return m, nil

	case keymap.CmdCursorUp:
		m.cursor--
	case keymap.CmdCursorDown:
		m.cursor++
	case keymap.CmdCursorTop:
		m.cursor = 0
	case keymap.CmdCursorBottom:
		m.cursor = m.store.Len() - 1

	case keymap.CmdFocusList:
		return m, m.focusList()

	case keymap.CmdNextField:
		if err := m.editor.Commit(m.ctx, m.store); err != nil {
			return m, m.reportFailure("Save failed", err)
		}
		m.editor.NextField()
		return m, nil

	case keymap.CmdYankBody:
		return m, m.yank(false)
	case keymap.CmdYankTitle:
		return m, m.yank(true)

	case keymap.CmdToggleAsk:
		return m, m.toggleAsk()

	case keymap.CmdToggleSettings:
		cmd := m.focusList()
		m.openSettings()
		return m, cmd

	case keymap.CmdToggleFooter:
		m.showFooter = !m.showFooter
		m.layout()
		return m, m.saveUI()

	case keymap.CmdToggleClock:
		m.showClock = !m.showClock
		return m, m.saveUI()
	}

	m.clampCursor()
	return m, nil
}

// yank copies the cursor note's body, or its title, to the clipboard.
func (m *Model) yank(title bool) tea.Cmd {
	n, ok := m.cursorNote()
	if !ok {
		return nil
	}
	text, what := n.Body, "note body"
	if title {
		text, what = strings.TrimSpace(n.Title), "title"
	}
	if text == "" {
		return appmsg.ShowToast("Nothing to copy", appmsg.ToastShort)
	}
	if err := clipboardWrite(text); err != nil {
		return appmsg.ShowErrorToast("Copy failed", err)
	}
	return appmsg.ShowToast("Copied "+what, appmsg.ToastShort)
}

// handleMouseMsg routes mouse input to the open overlay or the main screen.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	outside := msg.X < 0 || msg.Y < 0 || msg.X >= m.width || msg.Y >= m.height

	if o := m.activeOverlay(); o != nil {
		if outside && msg.Action == tea.MouseActionMotion {
			o.mouse.Leave()
			return m, nil
		}
		action := o.modal.HandleMouse(msg, o.mouse)
		if action == "" {
			return m, nil
		}
		if o == m.confirm {
			return m, m.handleConfirmAction(action)
		}
		return m, m.handleSettingsAction(action)
	}

	action := m.mouse.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return m, nil
		}
		return m.handleClick(action)

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		if action.Region != nil && (action.Region.ID == regionList || action.Region.ID == regionRow || action.Region.ID == regionDelete) {
			maxScroll := max(0, m.store.Len()-m.listRowsHeight())
			m.scrollOff = min(maxScroll, max(0, m.scrollOff+action.Delta))
			return m, nil
		}
		if m.pane == PaneEditor && m.editor.field == fieldBody {
			return m, m.editor.Update(msg)
		}
	}
	return m, nil
}

func (m Model) handleClick(action mouse.MouseAction) (Model, tea.Cmd) {
	switch action.Region.ID {
	case regionNew:
		return m.runCommand(keymap.CmdNewNote)

	case regionRow:
		id, _ := action.Region.Data.(int64)
		n, ok := m.store.Find(id)
		if !ok {
			return m, nil
		}
		cmd := m.focusList()
		m.selection.Select(n.ID)
		m.moveCursorTo(n.ID)
		if action.Type == mouse.ActionDoubleClick {
			m.openNote(n, fieldBody)
		}
		return m, cmd

	case regionDelete:
		// Requests deletion without changing the selection.
		id, _ := action.Region.Data.(int64)
		n, ok := m.store.Find(id)
		if !ok {
			return m, nil
		}
		return m, m.requestDelete(n)

	case regionTitle:
		if n, ok := m.activeNote(); ok {
			m.openNote(n, fieldTitle)
		}
	case regionBody:
		if n, ok := m.activeNote(); ok {
			m.openNote(n, fieldBody)
		}
	}
	return m, nil
}
