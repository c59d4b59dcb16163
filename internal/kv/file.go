package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in a single JSON object on disk. The whole
// object is rewritten atomically on each Set or Delete.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	values map[string]string
	closed bool
}

// OpenFile loads the store at path. A missing file starts empty. A file
// that cannot be parsed is moved aside to path+".corrupt" and the store
// starts empty, so a damaged file never prevents startup.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		aside := path + ".corrupt"
		logger.Warn("kv: unreadable store file, starting empty", "path", path, "moved_to", aside, "err", err)
		if renameErr := os.Rename(path, aside); renameErr != nil {
			logger.Warn("kv: could not move corrupt store file", "path", path, "err", renameErr)
		}
		s.values = make(map[string]string)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, had := s.values[key]
	s.values[key] = string(value)
	if err := s.flush(); err != nil {
		// Keep memory in step with disk.
		if had {
			s.values[key] = prev
		} else {
			delete(s.values, key)
		}
		return err
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	prev, had := s.values[key]
	if !had {
		return nil
	}
	delete(s.values, key)
	if err := s.flush(); err != nil {
		s.values[key] = prev
		return err
	}
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// flush writes the whole map. Callers hold s.mu.
func (s *FileStore) flush() error {
	if err := writeJSONAtomic(s.path, s.values); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	file, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), path)
}
