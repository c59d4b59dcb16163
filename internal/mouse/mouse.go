// Package mouse provides hit testing and pointer gesture tracking for
// bubbletea mouse events.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the maximum gap between two clicks on the same
// region for the second to count as a double click.
const DoubleClickThreshold = 400 * time.Millisecond

// scrollStep is the number of lines one wheel notch scrolls.
const scrollStep = 3

// Rect is a screen rectangle. X and Y are inclusive, X+W and Y+H exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell at (x, y) is inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named clickable area with optional payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the clickable regions of one frame. Later regions take
// precedence over earlier ones.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (m *HitMap) Add(id string, r Rect, data any) {
	m.regions = append(m.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect registers a region from raw coordinates.
func (m *HitMap) AddRect(id string, x, y, w, h int, data any) {
	m.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (m *HitMap) Test(x, y int) *Region {
	for i := len(m.regions) - 1; i >= 0; i-- {
		if m.regions[i].Rect.Contains(x, y) {
			r := m.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes all regions.
func (m *HitMap) Clear() {
	m.regions = m.regions[:0]
}

// Regions returns a copy of the registered regions.
func (m *HitMap) Regions() []Region {
	out := make([]Region, len(m.regions))
	copy(out, m.regions)
	return out
}

// ActionType classifies a handled mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the result of HandleMouse.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int

	// Delta is the scroll amount for scroll actions.
	Delta int

	// DragDX and DragDY are the pointer travel since the drag began.
	DragDX, DragDY int
	// Position is the dragged element's position for drag actions.
	Position Point
}

// ClickResult is the result of HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks clicks and drags for one surface. Each overlay owns its
// own Handler, and with it its own Drag.
type Handler struct {
	HitMap *HitMap
	Drag   *Drag

	dragRegion string
	dragStart  Point

	lastClickID   string
	lastClickTime time.Time
	now           func() time.Time
}

// NewHandler returns a handler with an empty hit map and an idle drag.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
		Drag:   &Drag{},
		now:    time.Now,
	}
}

// HandleClick hit-tests (x, y) and detects double clicks.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	now := h.now()
	double := region.ID == h.lastClickID && now.Sub(h.lastClickTime) <= DoubleClickThreshold
	if double {
		// A third click starts a new sequence.
		h.lastClickID = ""
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}
	return ClickResult{Region: region, IsDoubleClick: double}
}

// StartDrag begins dragging the handler's element with the pointer at
// (x, y). regionID names what is being dragged.
func (h *Handler) StartDrag(x, y int, regionID string) {
	if h.Drag.Dragging() {
		return
	}
	h.dragRegion = regionID
	h.dragStart = Point{X: x, Y: y}
	h.Drag.Begin(h.dragStart)
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool {
	return h.Drag.Dragging()
}

// DragRegion returns the region being dragged, or "".
func (h *Handler) DragRegion() string {
	return h.dragRegion
}

// EndDrag finishes any drag and returns the clamped resting position.
func (h *Handler) EndDrag() Point {
	h.dragRegion = ""
	return h.Drag.End()
}

// Leave ends a drag when the pointer leaves the surface. It returns
// ActionDragEnd if a drag was in progress.
func (h *Handler) Leave() MouseAction {
	if !h.Drag.Dragging() {
		return MouseAction{Type: ActionNone}
	}
	region := h.dragRegion
	h.dragRegion = ""
	pos := h.Drag.Leave()
	return MouseAction{Type: ActionDragEnd, Region: &Region{ID: region}, Position: pos}
}

// Clear drops all regions and any drag in progress.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	if h.Drag.Dragging() {
		h.EndDrag()
	}
	h.lastClickID = ""
}

// HandleMouse classifies a bubbletea mouse event.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	p := Point{X: msg.X, Y: msg.Y}

	if h.Drag.Dragging() {
		switch msg.Action {
		case tea.MouseActionMotion:
			h.Drag.Move(p)
			d := p.Sub(h.dragStart)
			return MouseAction{
				Type:     ActionDrag,
				Region:   &Region{ID: h.dragRegion},
				X:        msg.X,
				Y:        msg.Y,
				DragDX:   d.X,
				DragDY:   d.Y,
				Position: h.Drag.Position(),
			}
		case tea.MouseActionRelease:
			region := h.dragRegion
			d := p.Sub(h.dragStart)
			pos := h.EndDrag()
			return MouseAction{
				Type:     ActionDragEnd,
				Region:   &Region{ID: region},
				X:        msg.X,
				Y:        msg.Y,
				DragDX:   d.X,
				DragDY:   d.Y,
				Position: pos,
			}
		}
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Shift {
			return MouseAction{Type: ActionScrollLeft, Delta: -scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
		}
		return MouseAction{Type: ActionScrollUp, Delta: -scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseButtonWheelDown:
		if msg.Shift {
			return MouseAction{Type: ActionScrollRight, Delta: scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
		}
		return MouseAction{Type: ActionScrollDown, Delta: scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseButtonWheelLeft:
		// Natural scrolling on macOS reports the opposite direction.
		return MouseAction{Type: ActionScrollRight, Delta: scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseButtonWheelRight:
		return MouseAction{Type: ActionScrollLeft, Delta: -scrollStep, X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return MouseAction{Type: ActionNone, X: msg.X, Y: msg.Y}
		}
		res := h.HandleClick(msg.X, msg.Y)
		if res.Region == nil {
			return MouseAction{Type: ActionNone, X: msg.X, Y: msg.Y}
		}
		t := ActionClick
		if res.IsDoubleClick {
			t = ActionDoubleClick
		}
		return MouseAction{Type: t, Region: res.Region, X: msg.X, Y: msg.Y}
	case tea.MouseActionMotion:
		return MouseAction{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y), X: msg.X, Y: msg.Y}
	}
	return MouseAction{Type: ActionNone, X: msg.X, Y: msg.Y}
}
