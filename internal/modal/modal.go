package modal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/mouse"
)

// Hit region IDs registered by every modal.
const (
	RegionBackdrop = "modal-backdrop"
	RegionBody     = "modal-body"
	RegionTitle    = "modal-title"
)

// Modal is a declarative dialog built from sections. It tracks focus,
// hover and scroll, and registers its own hit regions on each Render.
type Modal struct {
	title         string
	variant       Variant
	width         int
	sections      []Section
	primaryAction string
	draggable     bool

	focusIdx     int
	focusIDs     []string
	pendingFocus string
	hoverID      string
	scrollOffset int

	// Placement from the last render. placed is set once the modal has been
	// centred so later renders keep the dragged position.
	placed bool
	x, y   int
	w, h   int

	// Content rows of each focusable, for keeping focus in view.
	focusRows     map[string]rowSpan
	lastViewportH int
}

type rowSpan struct {
	top, height int
}

// New creates a Modal with the given title and options.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:   title,
		variant: VariantDefault,
		width:   DefaultWidth,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends s and returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Render lays the modal out for a screenW x screenH screen and registers
// its hit regions on handler. Use Position for where to draw the result.
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

// Position returns the top-left cell of the modal from the last Render.
func (m *Modal) Position() (x, y int) {
	return m.x, m.y
}

// HandleKey processes keyboard input. Esc yields "cancel"; Enter yields
// the focused element's action, falling back to the primary action.
func (m *Modal) HandleKey(msg tea.KeyMsg) (action string, cmd tea.Cmd) {
	switch msg.String() {
	case "esc":
		return "cancel", nil
	case "tab":
		m.cycleFocus(1)
		return "", nil
	case "shift+tab":
		m.cycleFocus(-1)
		return "", nil
	case "enter":
		focusID := m.currentFocusID()
		if focusID == "" {
			return "", nil
		}
		action, cmd = m.routeToFocusedSection(msg)
		switch {
		case action != "":
			return action, cmd
		case m.primaryAction != "":
			return m.primaryAction, cmd
		}
		return focusID, cmd
	}
	return m.routeToFocusedSection(msg)
}

// HandleMouse processes mouse input and returns the action of the element
// pressed, if any. Pressing the title bar of a draggable modal starts a
// drag on handler; the new position takes effect on the next Render.
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	action := handler.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		// Every press counts: a quick second press is still a press.
		if action.Region == nil {
			return ""
		}
		return m.press(action, handler)

	case mouse.ActionHover:
		m.hoverID = ""
		if action.Region != nil && m.isFocusable(action.Region.ID) {
			m.hoverID = action.Region.ID
		}

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		// The offset is clamped by the next layout pass.
		if action.Region != nil && action.Region.ID != RegionBackdrop {
			m.scrollOffset = max(0, m.scrollOffset+action.Delta)
		}
	}
	return ""
}

func (m *Modal) press(action mouse.MouseAction, handler *mouse.Handler) string {
	switch id := action.Region.ID; id {
	case RegionBackdrop:
		return "cancel"
	case RegionBody:
		return ""
	case RegionTitle:
		if m.draggable {
			handler.StartDrag(action.X, action.Y, RegionTitle)
		}
		return ""
	default:
		i := m.focusIndex(id)
		if i < 0 {
			return ""
		}
		m.focusIdx = i
		// A press behaves like Enter on the element.
		if act, _ := m.routeToFocusedSection(tea.KeyMsg{Type: tea.KeyEnter}); act != "" {
			return act
		}
		return id
	}
}

// SetFocus focuses the element with id. Before the first Render the ID
// is remembered and applied once the element exists.
func (m *Modal) SetFocus(id string) {
	if i := m.focusIndex(id); i >= 0 {
		m.focusIdx = i
		m.pendingFocus = ""
		return
	}
	m.pendingFocus = id
}

func (m *Modal) focusIndex(id string) int {
	for i, fid := range m.focusIDs {
		if fid == id {
			return i
		}
	}
	return -1
}

func (m *Modal) isFocusable(id string) bool {
	return m.focusIndex(id) >= 0
}

func (m *Modal) currentFocusID() string {
	if len(m.focusIDs) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return m.focusIDs[0]
	}
	return m.focusIDs[m.focusIdx]
}

func (m *Modal) cycleFocus(delta int) {
	n := len(m.focusIDs)
	if n == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + delta + n) % n
	m.scrollToFocused()
}

// scrollToFocused moves the viewport so the focused element is visible.
func (m *Modal) scrollToFocused() {
	span, ok := m.focusRows[m.currentFocusID()]
	if !ok || m.lastViewportH <= 0 {
		return
	}
	if span.top < m.scrollOffset {
		m.scrollOffset = span.top
	}
	if bottom := span.top + span.height; bottom > m.scrollOffset+m.lastViewportH {
		m.scrollOffset = bottom - m.lastViewportH
	}
}

// routeToFocusedSection offers msg to each section until one reacts.
func (m *Modal) routeToFocusedSection(msg tea.Msg) (string, tea.Cmd) {
	focusID := m.currentFocusID()
	if focusID == "" {
		return "", nil
	}
	for _, s := range m.sections {
		if action, cmd := s.Update(msg, focusID); action != "" || cmd != nil {
			return action, cmd
		}
	}
	return "", nil
}
