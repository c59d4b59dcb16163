package modal

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/marcus/notepad/internal/styles"
)

// Width bounds and chrome size.
const (
	DefaultWidth  = 50
	MinModalWidth = 30
	// ModalPadding is border (2) plus horizontal padding (4).
	ModalPadding = 6
)

// Variant selects the modal's accent color.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// accent is the border and title color of v.
func (v Variant) accent() lipgloss.Color {
	switch v {
	case VariantDanger:
		return styles.Error
	case VariantWarning:
		return styles.Warning
	case VariantInfo:
		return styles.Info
	}
	return styles.Primary
}

// Option configures a Modal.
type Option func(*Modal)

// WithWidth sets the preferred width. It is clamped to the screen.
func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

// WithVariant sets the accent variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithPrimaryAction sets the action Enter returns when the focused section
// does not produce one.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithDraggable lets the user move the modal by its title bar.
func WithDraggable(drag bool) Option {
	return func(m *Modal) { m.draggable = drag }
}
