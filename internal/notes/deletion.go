package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marcus/notepad/internal/kv"
)

// DeletionState is the state of a DeletionWorkflow.
type DeletionState int

const (
	// Idle means no deletion is waiting for confirmation.
	Idle DeletionState = iota
	// PendingConfirmation means a candidate note waits for Confirm or Cancel.
	PendingConfirmation
)

// String returns the display name for the state.
func (s DeletionState) String() string {
	switch s {
	case PendingConfirmation:
		return "pending-confirmation"
	default:
		return "idle"
	}
}

// DeletionWorkflow gates note removal behind an optional confirmation
// step. The askBeforeDelete preference it owns is persisted under KeyAsk.
type DeletionWorkflow struct {
	store     *Store
	selection *Selection
	kv        kv.Store
	logger    *slog.Logger

	mu        sync.Mutex
	ask       bool
	state     DeletionState
	candidate Note

	changed signal[DeletionState]
}

// NewDeletionWorkflow loads the preference from backend. An absent or
// malformed value means "ask". Only a read failure is returned.
func NewDeletionWorkflow(ctx context.Context, store *Store, selection *Selection, backend kv.Store, opts ...Option) (*DeletionWorkflow, error) {
	o := buildOptions(opts)
	w := &DeletionWorkflow{
		store:     store,
		selection: selection,
		kv:        backend,
		logger:    o.logger,
		ask:       true,
		state:     Idle,
	}

	data, err := backend.Get(ctx, KeyAsk)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return w, nil
	case err != nil:
		return nil, fmt.Errorf("load ask preference: %w", err)
	}
	ask, err := DecodeBool(data)
	if err != nil {
		w.logger.Warn("notes: ask preference unreadable, defaulting to ask", "err", err)
		return w, nil
	}
	w.ask = ask
	return w, nil
}

// RequestDelete starts removal of note. Without the preference the note
// is deleted immediately; otherwise it becomes the pending candidate.
// A request while another candidate is pending replaces that candidate.
func (w *DeletionWorkflow) RequestDelete(ctx context.Context, note Note) error {
	w.mu.Lock()
	if w.ask {
		w.state = PendingConfirmation
		w.candidate = note
		w.mu.Unlock()
		w.logger.Debug("notes: delete awaiting confirmation", "id", note.ID)
		w.changed.emit(PendingConfirmation)
		return nil
	}
	w.mu.Unlock()
	return w.remove(ctx, note)
}

// Confirm deletes the pending candidate. With nothing pending it does
// nothing, which absorbs a second click before the dialog closes.
func (w *DeletionWorkflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.state != PendingConfirmation {
		w.mu.Unlock()
		return nil
	}
	candidate := w.candidate
	w.state = Idle
	w.candidate = Note{}
	w.mu.Unlock()

	err := w.remove(ctx, candidate)
	w.changed.emit(Idle)
	return err
}

// Cancel drops the pending candidate without deleting it.
func (w *DeletionWorkflow) Cancel() {
	w.mu.Lock()
	if w.state != PendingConfirmation {
		w.mu.Unlock()
		return
	}
	w.logger.Debug("notes: delete cancelled", "id", w.candidate.ID)
	w.state = Idle
	w.candidate = Note{}
	w.mu.Unlock()

	w.changed.emit(Idle)
}

// ToggleAskPreference flips askBeforeDelete and persists it. The current
// state, including any pending candidate, is left alone.
func (w *DeletionWorkflow) ToggleAskPreference(ctx context.Context) error {
	w.mu.Lock()
	next := !w.ask
	w.mu.Unlock()
	return w.SetAskPreference(ctx, next)
}

// SetAskPreference stores ask. The value is written even when unchanged so
// the persisted entry always matches memory after the call.
func (w *DeletionWorkflow) SetAskPreference(ctx context.Context, ask bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.ask = ask
	if err := w.kv.Set(ctx, KeyAsk, EncodeBool(ask)); err != nil {
		w.logger.Error("notes: persist ask preference failed", "ask", ask, "err", err)
		return fmt.Errorf("persist ask preference: %w", err)
	}
	w.logger.Debug("notes: ask preference set", "ask", ask)
	return nil
}

// AskBeforeDelete reports the current preference.
func (w *DeletionWorkflow) AskBeforeDelete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ask
}

// State returns the current workflow state.
func (w *DeletionWorkflow) State() DeletionState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Candidate returns the note awaiting confirmation, if any.
func (w *DeletionWorkflow) Candidate() (Note, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != PendingConfirmation {
		return Note{}, false
	}
	return w.candidate, true
}

// Subscribe registers fn for state transitions.
func (w *DeletionWorkflow) Subscribe(fn func(DeletionState)) (cancel func()) {
	return w.changed.subscribe(fn)
}

// remove deletes note and clears the selection if it pointed at it.
// It runs without w.mu so store and selection subscribers may query the
// workflow.
func (w *DeletionWorkflow) remove(ctx context.Context, note Note) error {
	err := w.store.Delete(ctx, note.ID)
	if w.selection != nil && w.selection.Current() == note.ID {
		w.selection.Clear()
	}
	return err
}
