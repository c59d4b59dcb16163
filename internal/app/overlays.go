package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepad/internal/modal"
	"github.com/marcus/notepad/internal/mouse"
	"github.com/marcus/notepad/internal/msg"
	"github.com/marcus/notepad/internal/notes"
	"github.com/marcus/notepad/internal/styles"
	"github.com/marcus/notepad/internal/ui"
)

// Settings modal element IDs.
const (
	settingAsk        = "setting-ask"
	settingClock      = "setting-clock"
	settingFooter     = "setting-footer"
	settingAnimations = "setting-animations"
	settingsClose     = "settings-close"
)

// overlay is a draggable modal with the mouse handler that owns its drag.
type overlay struct {
	modal *modal.Modal
	mouse *mouse.Handler
}

func newOverlay() *overlay {
	return &overlay{mouse: mouse.NewHandler()}
}

// open reports whether the overlay has a modal to show.
func (o *overlay) open() bool { return o.modal != nil }

// close drops the modal and ends any drag in progress.
func (o *overlay) close() {
	o.modal = nil
	o.mouse.Clear()
}

// settingsValues backs the settings checkboxes.
type settingsValues struct {
	ask        bool
	clock      bool
	footer     bool
	animations bool
}

// syncConfirm opens the delete confirmation while the workflow has a
// pending candidate and closes it otherwise.
func (m *Model) syncConfirm() {
	candidate, pending := m.deletion.Candidate()
	if !pending {
		if m.confirm.open() {
			m.confirm.close()
		}
		return
	}
	if m.confirm.open() {
		return
	}

	*m.dontAsk = !m.deletion.AskBeforeDelete()

	title := candidate.Title
	if title == "" {
		title = "Untitled"
	}
	d := ui.NewConfirmDialog("Delete note?",
		fmt.Sprintf("Delete %q? This cannot be undone.", truncateTitle(title, 30)))
	d.ConfirmLabel = " Delete "
	d.BorderColor = styles.Error
	d.Width = ui.ModalWidthSmall + 4
	d.OptOutLabel = "Don't ask again"
	d.OptOut = m.dontAsk
	d.Draggable = true
	m.confirm.modal = d.ToModal()
	// Start on Delete so Enter confirms, as the keyboard shortcut does.
	m.confirm.modal.SetFocus(ui.ActionConfirm)
}

// handleConfirmAction applies a confirmation dialog action.
func (m *Model) handleConfirmAction(action string) tea.Cmd {
	switch action {
	case ui.ActionConfirm:
		err := m.deletion.Confirm(m.ctx)
		m.syncConfirm()
		return m.reportFailure("Delete failed", err)
	case ui.ActionCancel:
		m.deletion.Cancel()
		m.syncConfirm()
	case ui.ActionOptOut:
		return m.reportFailure("Saving preference failed",
			m.deletion.SetAskPreference(m.ctx, !*m.dontAsk))
	}
	return nil
}

// openSettings shows the settings panel with current values.
func (m *Model) openSettings() {
	*m.settingsVals = settingsValues{
		ask:        m.deletion.AskBeforeDelete(),
		clock:      m.showClock,
		footer:     m.showFooter,
		animations: m.anim.enabled,
	}
	v, failure := m.settingsVals, m.lastFailure
	m.settings.modal = modal.New("Settings",
		modal.WithWidth(ui.ModalWidthSmall),
		modal.WithDraggable(true),
	).
		AddSection(modal.Checkbox(settingAsk, "Ask before deleting", &v.ask)).
		AddSection(modal.Checkbox(settingClock, "Show clock", &v.clock)).
		AddSection(modal.Checkbox(settingFooter, "Show key hints", &v.footer)).
		AddSection(modal.Checkbox(settingAnimations, "Animate list", &v.animations)).
		AddSection(modal.When(func() bool { return *failure != "" },
			failureLine{text: failure})).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(modal.Btn(" Close ", settingsClose)))
	if m.version != "" {
		m.settings.modal.AddSection(modal.Spacer()).
			AddSection(modal.Text(styles.Muted.Render("notepad " + m.version)))
	}
}

// failureLine renders the last persistence failure in the settings panel.
type failureLine struct {
	text *string
}

func (f failureLine) Render(width int, _, _ string) modal.RenderedSection {
	style := lipgloss.NewStyle().Foreground(styles.Error).Width(width)
	return modal.RenderedSection{Content: style.Render(*f.text)}
}

func (failureLine) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// handleSettingsAction applies a settings modal action. Checkboxes have
// already flipped their value when the action arrives.
func (m *Model) handleSettingsAction(action string) tea.Cmd {
	v := m.settingsVals
	switch action {
	case settingsClose, "cancel":
		m.settings.close()
		return nil
	case settingAsk:
		return m.reportFailure("Saving preference failed", m.deletion.SetAskPreference(m.ctx, v.ask))
	case settingClock:
		m.showClock = v.clock
	case settingFooter:
		m.showFooter = v.footer
		m.layout()
	case settingAnimations:
		m.anim.SetEnabled(v.animations)
		if !v.animations {
			m.intro.Skip()
		}
	default:
		return nil
	}
	return m.saveUI()
}

// toggleAsk flips the ask-before-delete preference from the list.
func (m *Model) toggleAsk() tea.Cmd {
	if err := m.deletion.ToggleAskPreference(m.ctx); err != nil {
		return m.reportFailure("Saving preference failed", err)
	}
	if m.deletion.AskBeforeDelete() {
		return msg.ShowToast("Will ask before deleting", msg.ToastShort)
	}
	return msg.ShowToast("Deleting without confirmation", msg.ToastShort)
}

// requestDelete starts the deletion workflow for n.
func (m *Model) requestDelete(n notes.Note) tea.Cmd {
	err := m.deletion.RequestDelete(m.ctx, n)
	m.syncConfirm()
	return m.reportFailure("Delete failed", err)
}

// activeOverlay returns the overlay receiving input, if any. The
// confirmation dialog takes precedence.
func (m *Model) activeOverlay() *overlay {
	switch {
	case m.confirm.open():
		return m.confirm
	case m.settings.open():
		return m.settings
	}
	return nil
}
