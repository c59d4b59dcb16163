package app

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/notepad/internal/notes"
)

const (
	// rowTransition is how long a created row stays highlighted and a
	// deleted row stays visible.
	rowTransition = 600 * time.Millisecond
	animFrame     = 50 * time.Millisecond
)

type rowState int

const (
	rowNormal rowState = iota
	rowEntering
	rowExiting
)

// listRow is one rendered line of the note list.
type listRow struct {
	note  notes.Note
	state rowState
}

type exitingRow struct {
	note  notes.Note
	index int
	until time.Time
}

// listAnimator decorates the store's ordered list with enter and exit
// transitions keyed by note ID. It is fed by the store's change signal.
type listAnimator struct {
	enabled bool
	now     func() time.Time

	order    []int64
	entering map[int64]time.Time
	exiting  []exitingRow
	ticking  bool
}

func newListAnimator(enabled bool, now func() time.Time) *listAnimator {
	if now == nil {
		now = time.Now
	}
	return &listAnimator{
		enabled:  enabled,
		now:      now,
		entering: make(map[int64]time.Time),
	}
}

// Sync resets the known order to list without starting transitions.
func (a *listAnimator) Sync(list []notes.Note) {
	a.order = a.order[:0]
	for _, n := range list {
		a.order = append(a.order, n.ID)
	}
}

// SetEnabled turns transitions on or off. Disabling drops running ones.
func (a *listAnimator) SetEnabled(enabled bool) {
	a.enabled = enabled
	if !enabled {
		clear(a.entering)
		a.exiting = nil
	}
}

// Observe records a store change.
func (a *listAnimator) Observe(c notes.Change) {
	switch c.Kind {
	case notes.ChangeCreated:
		a.order = append(a.order, c.Note.ID)
		if a.enabled {
			a.entering[c.Note.ID] = a.now().Add(rowTransition)
		}
	case notes.ChangeDeleted:
		idx := slices.Index(a.order, c.Note.ID)
		if idx >= 0 {
			a.order = slices.Delete(a.order, idx, idx+1)
		}
		delete(a.entering, c.Note.ID)
		if a.enabled {
			a.exiting = append(a.exiting, exitingRow{
				note:  c.Note,
				index: max(idx, 0),
				until: a.now().Add(rowTransition),
			})
		}
	}
}

// Rows merges list with the rows still running an exit transition.
// Exiting rows reappear at the index they were removed from.
func (a *listAnimator) Rows(list []notes.Note) []listRow {
	now := a.now()
	rows := make([]listRow, 0, len(list)+len(a.exiting))
	for _, n := range list {
		state := rowNormal
		if end, ok := a.entering[n.ID]; ok && now.Before(end) {
			state = rowEntering
		}
		rows = append(rows, listRow{note: n, state: state})
	}
	for _, e := range a.exiting {
		if !now.Before(e.until) {
			continue
		}
		idx := min(e.index, len(rows))
		rows = slices.Insert(rows, idx, listRow{note: e.note, state: rowExiting})
	}
	return rows
}

// Active reports whether any transition is still running.
func (a *listAnimator) Active() bool {
	a.prune()
	return len(a.entering) > 0 || len(a.exiting) > 0
}

func (a *listAnimator) prune() {
	now := a.now()
	for id, end := range a.entering {
		if !now.Before(end) {
			delete(a.entering, id)
		}
	}
	a.exiting = slices.DeleteFunc(a.exiting, func(e exitingRow) bool {
		return !now.Before(e.until)
	})
}

// StartTick returns a frame tick if transitions are running and no tick
// is already scheduled.
func (a *listAnimator) StartTick() tea.Cmd {
	if a.ticking || !a.Active() {
		return nil
	}
	a.ticking = true
	return animTick()
}

// HandleTick consumes a frame tick and schedules the next one while
// transitions remain.
func (a *listAnimator) HandleTick() tea.Cmd {
	a.ticking = false
	return a.StartTick()
}
