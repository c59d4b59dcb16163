package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepad/internal/modal"
	"github.com/marcus/notepad/internal/styles"
)

// Standard modal widths.
const (
	ModalWidthSmall  = 40
	ModalWidthMedium = 50
	ModalWidthLarge  = 70
)

// Action IDs produced by a ConfirmDialog modal.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
	ActionOptOut  = "opt-out"
)

// ConfirmDialog is a reusable confirmation modal with interactive buttons.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string         // e.g., " Confirm ", " Delete ", " Yes "
	CancelLabel  string         // e.g., " Cancel ", " No "
	BorderColor  lipgloss.Color // Modal border color
	Width        int            // Modal width (default 50)

	// OptOutLabel adds a checkbox bound to OptOut when both are set,
	// e.g. "Don't ask again". Toggling it yields ActionOptOut.
	OptOutLabel string
	OptOut      *bool

	// Draggable lets the user move the dialog by its title bar.
	Draggable bool
}

// NewConfirmDialog creates a dialog with sensible defaults.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		BorderColor:  styles.Primary,
		Width:        ModalWidthMedium,
	}
}

// ToModal adapts the dialog configuration into a modal.Modal instance.
func (d *ConfirmDialog) ToModal() *modal.Modal {
	variant := modal.VariantDefault
	switch d.BorderColor {
	case styles.Error:
		variant = modal.VariantDanger
	case styles.Warning:
		variant = modal.VariantWarning
	case styles.Info:
		variant = modal.VariantInfo
	}

	confirmOpts := []modal.ButtonOption{}
	if variant == modal.VariantDanger {
		confirmOpts = append(confirmOpts, modal.BtnDanger())
	}

	m := modal.New(d.Title,
		modal.WithWidth(d.Width),
		modal.WithVariant(variant),
		modal.WithPrimaryAction(ActionConfirm),
		modal.WithDraggable(d.Draggable),
	).
		AddSection(modal.Text(d.Message)).
		AddSection(modal.Spacer())

	if d.OptOutLabel != "" && d.OptOut != nil {
		m.AddSection(modal.Checkbox(ActionOptOut, d.OptOutLabel, d.OptOut)).
			AddSection(modal.Spacer())
	}

	return m.AddSection(modal.Buttons(
		modal.Btn(d.ConfirmLabel, ActionConfirm, confirmOpts...),
		modal.Btn(d.CancelLabel, ActionCancel),
	))
}
