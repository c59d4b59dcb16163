package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/notepad/internal/kv"
)

// Store owns the ordered note collection. Every mutation is written
// through the key-value store before the method returns.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	notes  []Note
	lastID int64

	changed signal[Change]
}

// Option configures a Store or DeletionWorkflow.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

// WithLogger sets the logger used for diagnostics. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open loads the collection from backend. An absent or malformed value
// yields an empty collection; only a read failure is returned.
func Open(ctx context.Context, backend kv.Store, opts ...Option) (*Store, error) {
	o := buildOptions(opts)
	s := &Store{
		kv:     backend,
		logger: o.logger,
		now:    o.now,
		notes:  []Note{},
	}

	data, err := backend.Get(ctx, KeyNotes)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("load notes: %w", err)
	}

	loaded, err := DecodeNotes(data)
	if err != nil {
		s.logger.Warn("notes: persisted collection unreadable, starting empty", "err", err)
		return s, nil
	}
	s.notes = loaded
	for _, n := range loaded {
		if n.ID > s.lastID {
			s.lastID = n.ID
		}
	}
	s.logger.Debug("notes: loaded", "count", len(loaded), "max_id", s.lastID)
	return s, nil
}

// Create appends a note with the default title and an empty body.
// The selection is left to the caller.
func (s *Store) Create(ctx context.Context) (Note, error) {
	s.mu.Lock()
	note := Note{ID: s.nextID(), Title: DefaultTitle}
	s.notes = append(s.notes, note)
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed.emit(Change{Kind: ChangeCreated, Note: note})
	return note, err
}

// Rename replaces the title of note id. An unknown id is a no-op.
func (s *Store) Rename(ctx context.Context, id int64, title string) error {
	return s.update(ctx, id, "rename", func(n *Note) { n.Title = title })
}

// SetBody replaces the body of note id. An unknown id is a no-op.
func (s *Store) SetBody(ctx context.Context, id int64, body string) error {
	return s.update(ctx, id, "set body", func(n *Note) { n.Body = body })
}

func (s *Store) update(ctx context.Context, id int64, op string, apply func(*Note)) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("notes: "+op+" ignored, note not found", "id", id)
		return nil
	}
	apply(&s.notes[idx])
	note := s.notes[idx]
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed.emit(Change{Kind: ChangeUpdated, Note: note})
	return err
}

// Delete removes note id. An unknown id is a no-op, so repeated deletes of
// the same note are safe. Clearing the selection is the caller's job.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug("notes: delete ignored, note not found", "id", id)
		return nil
	}
	removed := s.notes[idx]
	s.notes = append(s.notes[:idx:idx], s.notes[idx+1:]...)
	err := s.persist(ctx)
	s.mu.Unlock()

	s.changed.emit(Change{Kind: ChangeDeleted, Note: removed})
	return err
}

// List returns a copy of the collection in creation order.
func (s *Store) List() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

// Find returns the note with the given id.
func (s *Store) Find(id int64) (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.notes[idx], true
	}
	return Note{}, false
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

// Subscribe registers fn for every applied mutation.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	return s.changed.subscribe(fn)
}

// nextID returns a millisecond timestamp, bumped past the last issued or
// loaded id so ids stay strictly increasing even when the clock stalls or
// runs backwards. Callers hold s.mu.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id int64) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection. Callers hold s.mu, which keeps
// snapshots in mutation order.
func (s *Store) persist(ctx context.Context) error {
	data, err := EncodeNotes(s.notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := s.kv.Set(ctx, KeyNotes, data); err != nil {
		s.logger.Error("notes: persist failed", "count", len(s.notes), "err", err)
		return fmt.Errorf("persist notes: %w", err)
	}
	return nil
}
