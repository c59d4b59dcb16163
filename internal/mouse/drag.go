package mouse

// Point is a terminal cell coordinate.
type Point struct {
	X, Y int
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Drag converts pointer movement into an absolute position for one
// movable element. It is at rest or dragging. While dragging the position
// follows the pointer exactly; bounds are applied only when the drag ends
// so the element never jumps under the cursor.
type Drag struct {
	pos      Point
	offset   Point
	dragging bool

	min     Point
	max     Point
	bounded bool
}

// SetMin sets the lower bound for each axis. The zero value bounds at the
// origin.
func (d *Drag) SetMin(p Point) {
	d.min = p
}

// SetViewport bounds the element to stay inside the viewport. size is the
// element's own width and height. An element larger than the viewport is
// pinned to the viewport origin.
func (d *Drag) SetViewport(viewport Rect, size Point) {
	d.min = Point{X: viewport.X, Y: viewport.Y}
	d.max = Point{
		X: viewport.X + viewport.W - size.X,
		Y: viewport.Y + viewport.H - size.Y,
	}
	if d.max.X < d.min.X {
		d.max.X = d.min.X
	}
	if d.max.Y < d.min.Y {
		d.max.Y = d.min.Y
	}
	d.bounded = true
}

// ClearViewport removes the upper bound.
func (d *Drag) ClearViewport() {
	d.bounded = false
	d.max = Point{}
}

// SetPosition places the element while at rest. It is ignored during a drag.
func (d *Drag) SetPosition(p Point) {
	if d.dragging {
		return
	}
	d.pos = p
}

// Position returns the current position. During a drag it is unclamped.
func (d *Drag) Position() Point {
	return d.pos
}

// Offset returns the pointer offset captured by Begin.
func (d *Drag) Offset() Point {
	return d.offset
}

// Dragging reports whether a drag is in progress.
func (d *Drag) Dragging() bool {
	return d.dragging
}

// Begin starts a drag with the pointer at p. A second Begin during a drag
// is ignored.
func (d *Drag) Begin(p Point) {
	if d.dragging {
		return
	}
	d.offset = p.Sub(d.pos)
	d.dragging = true
}

// Move tracks the pointer. It reports whether the position changed and
// does nothing at rest.
func (d *Drag) Move(p Point) bool {
	if !d.dragging {
		return false
	}
	next := p.Sub(d.offset)
	if next == d.pos {
		return false
	}
	d.pos = next
	return true
}

// End finishes the drag, clamps the position and returns it. At rest it
// returns the position unchanged.
func (d *Drag) End() Point {
	if !d.dragging {
		return d.pos
	}
	d.dragging = false
	d.offset = Point{}
	d.pos = d.clamp(d.pos)
	return d.pos
}

// Leave handles the pointer leaving the tracked surface. It ends the drag
// and keeps the position reached so far.
func (d *Drag) Leave() Point {
	return d.End()
}

// Clamp re-applies the bounds at rest, after the viewport or element size
// changed. It does nothing during a drag.
func (d *Drag) Clamp() Point {
	if !d.dragging {
		d.pos = d.clamp(d.pos)
	}
	return d.pos
}

func (d *Drag) clamp(p Point) Point {
	if d.bounded {
		p.X = min(p.X, d.max.X)
		p.Y = min(p.Y, d.max.Y)
	}
	// Lower bound wins when the bounds cross.
	p.X = max(p.X, d.min.X)
	p.Y = max(p.Y, d.min.Y)
	return p
}
