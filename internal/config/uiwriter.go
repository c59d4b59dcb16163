package config

import (
	"sync"
	"time"
)

// UIWriter serializes SaveUI calls for one file. Saves reserve a sequence
// number with Next when the change is made and may run on any goroutine;
// a save whose change was overtaken by a newer one already on disk is
// skipped, so the file always ends up holding the newest settings.
type UIWriter struct {
	path string

	mu        sync.Mutex
	queued    uint64
	written   uint64
	lastWrite time.Time
}

// NewUIWriter returns a writer for the config file at path.
func NewUIWriter(path string) *UIWriter {
	return &UIWriter{path: path}
}

// Path returns the file the writer saves to.
func (w *UIWriter) Path() string { return w.path }

// Next reserves the sequence number of the next save.
func (w *UIWriter) Next() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queued++
	return w.queued
}

// Save writes ui for the change numbered seq. It is a no-op when a later
// change has already been saved.
func (w *UIWriter) Save(seq uint64, ui UIConfig) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq <= w.written {
		return nil
	}
	w.written = seq
	if err := SaveUI(w.path, ui); err != nil {
		return err
	}
	w.lastWrite = time.Now()
	return nil
}

// Pending reports whether a reserved save has not run yet.
func (w *UIWriter) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.queued > w.written
}

// Stale reports whether cfg, as delivered by Watch, may predate the
// newest settings: a save is still pending, or the file was read before
// the last save finished.
func (w *UIWriter) Stale(cfg *Config) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.queued > w.written {
		return true
	}
	if cfg.LoadedAt.IsZero() || w.lastWrite.IsZero() {
		return false
	}
	return cfg.LoadedAt.Before(w.lastWrite)
}
