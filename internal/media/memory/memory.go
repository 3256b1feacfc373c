// Package memory provides an in-memory media store for tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"regdesk/internal/media"
)

// Store records uploads in memory and can be told to fail on demand.
type Store struct {
	mu      sync.Mutex
	saved   map[string]string // url -> content
	failErr error
}

func New() *Store {
	return &Store{saved: make(map[string]string)}
}

// FailWith makes every subsequent Save return err. Pass nil to clear.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

func (s *Store) Save(_ context.Context, kind media.Kind, file *media.File) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return "", s.failErr
	}

	contents, err := io.ReadAll(file.Content)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	url := fmt.Sprintf("memory://%s/%s", kind, uuid.New().String())
	s.saved[url] = string(contents)
	return url, nil
}

// Count returns the number of stored uploads.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

// Contents returns the raw bytes stored for a URL.
func (s *Store) Contents(url string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, ok := s.saved[url]
	return contents, ok
}
