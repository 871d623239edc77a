package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

// MemoryStore is an in-process ObjectStore used by tests and the simulator.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	base    *url.URL
}

func NewMemoryStore(publicBaseURL string) (*MemoryStore, error) {
	base, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid public base URL %q: %w", publicBaseURL, err)
	}
	return &MemoryStore{objects: make(map[string][]byte), base: base}, nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, _ string, body io.Reader) (*PutResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body (key: %s): %w", key, err)
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return &PutResult{Key: key, Location: s.PublicURL(key)}, nil
}

func (s *MemoryStore) PublicURL(key string) string {
	return joinPublicURL(s.base, key)
}

// Get returns a stored object.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	return data, ok
}
