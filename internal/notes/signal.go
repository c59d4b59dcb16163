package notes

import "sync"

// signal fans a value out to subscribers. Emit runs callbacks on the
// caller's goroutine and never while the owner's lock is held.
type signal[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

func (s *signal[T]) subscribe(fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *signal[T]) emit(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	// Subscription order.
	for i := 0; i < s.next; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
