package notes

import "sync"

// Selection tracks which note is open in the editor. It does not check
// the id against the store; an id that resolves to nothing is shown as
// "no note open". Selection is never persisted.
type Selection struct {
	mu      sync.Mutex
	current int64

	changed signal[int64]
}

// NewSelection returns a selection at NoSelection.
func NewSelection() *Selection {
	return &Selection{current: NoSelection}
}

// Select opens id unconditionally.
func (s *Selection) Select(id int64) {
	s.set(id)
}

// Clear resets the selection to NoSelection.
func (s *Selection) Clear() {
	s.set(NoSelection)
}

// Current returns the selected id or NoSelection.
func (s *Selection) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Active resolves the selection against store.
func (s *Selection) Active(store *Store) (Note, bool) {
	id := s.Current()
	if id == NoSelection || store == nil {
		return Note{}, false
	}
	return store.Find(id)
}

// Subscribe registers fn for every selection change. fn receives the new id.
func (s *Selection) Subscribe(fn func(int64)) (cancel func()) {
	return s.changed.subscribe(fn)
}

func (s *Selection) set(id int64) {
	s.mu.Lock()
	if s.current == id {
		s.mu.Unlock()
		return
	}
	s.current = id
	s.mu.Unlock()

	s.changed.emit(id)
}
