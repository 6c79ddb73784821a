package report

import (
	"context"
	"fmt"
	"sync"
)

type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, repoURL string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[objectKey(repoURL)] = cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, repoURL string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[objectKey(repoURL)]
	if !ok {
		return nil, fmt.Errorf("report: no report stored for %s", repoURL)
	}
	return data, nil
}
