// Package kv provides the durable key-value layer that notes and
// preferences are persisted through. Every backend stores opaque byte
// values under string keys; callers own the encoding.
package kv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the key has never been written
	// or was deleted.
	ErrNotFound = errors.New("kv: key not found")
	// ErrClosed is returned by any operation on a closed store.
	ErrClosed = errors.New("kv: store closed")
	// ErrUnknownBackend is returned by Open and ParseBackend.
	ErrUnknownBackend = errors.New("kv: unknown backend")
)

// Store is a flat, durable key-value store. Writes to the same key are
// applied in the order Set is called.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile       Backend = "file"
	BackendSQLite     Backend = "sqlite"
	BackendSQLitePure Backend = "sqlite-pure"
	BackendBolt       Backend = "bolt"
	BackendMemory     Backend = "memory"
)

// Backends lists every supported backend in display order.
func Backends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendSQLitePure, BackendBolt, BackendMemory}
}

// ParseBackend converts a config or flag value to a Backend.
// An empty string selects the file backend.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BackendFile, nil
	}
	for _, b := range Backends() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Options configures Open.
type Options struct {
	Backend Backend
	// Path is the backing file. Ignored by the memory backend.
	Path   string
	Logger *slog.Logger
}

// Open creates the Store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	if backend != BackendMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("kv: path is required for %s backend", backend)
	}

	switch backend {
	case BackendFile:
		return OpenFile(opts.Path, logger)
	case BackendSQLite:
		return OpenSQLite(DriverCgo, opts.Path)
	case BackendSQLitePure:
		return OpenSQLite(DriverPure, opts.Path)
	case BackendBolt:
		return OpenBolt(opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultPath returns the backing file name for backend inside dir.
func DefaultPath(dir string, backend Backend) string {
	switch backend {
	case BackendSQLite, BackendSQLitePure:
		return filepath.Join(dir, "notes.db")
	case BackendBolt:
		return filepath.Join(dir, "notes.bolt")
	case BackendMemory:
		return ""
	default:
		return filepath.Join(dir, "notes.json")
	}
}
