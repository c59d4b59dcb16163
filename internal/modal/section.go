package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/notepad/internal/styles"
)

// FocusableInfo describes a focusable element inside a rendered section.
// Offsets are relative to the section's top-left corner.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// RenderedSection is the output of Section.Render.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// Section is one vertical block of modal content.
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	// Update handles a message while focusID is focused. It returns an
	// action ID when the message triggered one.
	Update(msg tea.Msg, focusID string) (string, tea.Cmd)
}

// measureHeight counts content lines, ignoring one trailing newline.
func measureHeight(content string) int {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// textSection renders wrapped static text.
type textSection struct {
	text string
}

// Text creates a static text section.
func Text(s string) Section {
	return &textSection{text: s}
}

func (s *textSection) Render(contentWidth int, _, _ string) RenderedSection {
	return RenderedSection{Content: lipgloss.NewStyle().Width(contentWidth).Render(s.text)}
}

func (s *textSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

type spacerSection struct{}

// Spacer creates a blank line.
func Spacer() Section {
	return spacerSection{}
}

func (spacerSection) Render(int, string, string) RenderedSection {
	return RenderedSection{Content: " "}
}

func (spacerSection) Update(tea.Msg, string) (string, tea.Cmd) { return "", nil }

// checkboxSection toggles a bound bool.
type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

// Checkbox creates a checkbox bound to checked. Enter or space toggles it
// and returns id as the action.
func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

func (s *checkboxSection) Render(_ int, focusID, hoverID string) RenderedSection {
	box := "[ ]"
	if s.checked != nil && *s.checked {
		box = "[x]"
	}
	line := box + " " + s.label

	style := styles.Body
	switch {
	case focusID == s.id:
		style = styles.ListItemFocused
	case hoverID == s.id:
		style = styles.ListItemSelected
	}
	rendered := style.Render(line)

	return RenderedSection{
		Content: rendered,
		Focusables: []FocusableInfo{{
			ID:     s.id,
			Width:  ansi.StringWidth(rendered),
			Height: 1,
		}},
	}
}

func (s *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if focusID != s.id || s.checked == nil {
		return "", nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}
	switch key.String() {
	case "enter", " ", "space":
		*s.checked = !*s.checked
		return s.id, nil
	}
	return "", nil
}

// ButtonDef is one button in a Buttons section.
type ButtonDef struct {
	Label  string
	ID     string
	Danger bool
}

// ButtonOption configures a ButtonDef.
type ButtonOption func(*ButtonDef)

// BtnDanger renders the button with the destructive style.
func BtnDanger() ButtonOption {
	return func(b *ButtonDef) { b.Danger = true }
}

// Btn creates a button definition.
func Btn(label, id string, opts ...ButtonOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

type buttonsSection struct {
	buttons []ButtonDef
}

// Buttons creates a row of buttons separated by two spaces.
func Buttons(buttons ...ButtonDef) Section {
	return &buttonsSection{buttons: buttons}
}

const buttonGap = "  "

func (s *buttonsSection) Render(_ int, focusID, hoverID string) RenderedSection {
	var sb strings.Builder
	focusables := make([]FocusableInfo, 0, len(s.buttons))
	x := 0

	for i, b := range s.buttons {
		if i > 0 {
			sb.WriteString(buttonGap)
			x += len(buttonGap)
		}
		rendered := buttonStyle(b, focusID == b.ID, hoverID == b.ID).Render(b.Label)
		w := ansi.StringWidth(rendered)
		sb.WriteString(rendered)
		focusables = append(focusables, FocusableInfo{ID: b.ID, OffsetX: x, Width: w, Height: 1})
		x += w
	}

	return RenderedSection{Content: sb.String(), Focusables: focusables}
}

func (s *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || key.String() != "enter" {
		return "", nil
	}
	for _, b := range s.buttons {
		if b.ID == focusID {
			return b.ID, nil
		}
	}
	return "", nil
}

func buttonStyle(b ButtonDef, focused, hovered bool) lipgloss.Style {
	if b.Danger {
		switch {
		case focused:
			return styles.ButtonDangerFocused
		case hovered:
			return styles.ButtonDangerHover
		default:
			return styles.ButtonDanger
		}
	}
	switch {
	case focused:
		return styles.ButtonFocused
	case hovered:
		return styles.ButtonHover
	default:
		return styles.Button
	}
}

// whenSection shows inner only while cond holds.
type whenSection struct {
	cond  func() bool
	inner Section
}

// When renders inner only when cond returns true.
func When(cond func() bool, inner Section) Section {
	return &whenSection{cond: cond, inner: inner}
}

func (s *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !s.cond() {
		return RenderedSection{}
	}
	return s.inner.Render(contentWidth, focusID, hoverID)
}

func (s *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !s.cond() {
		return "", nil
	}
	return s.inner.Update(msg, focusID)
}
