package store

import (
	"context"
	"sync"

	"codearch/internal/types"
)

// MemoryStore is the no-database fallback. Contents do not survive restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*types.AnalysisResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]*types.AnalysisResult)}
}

func (s *MemoryStore) Get(_ context.Context, repoURL string) (*types.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.byID[repoURL]
	return result, ok
}

func (s *MemoryStore) Put(_ context.Context, repoURL string, result *types.AnalysisResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[repoURL] = result
	return nil
}

func (s *MemoryStore) Close() error { return nil }
