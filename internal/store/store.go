// Package store persists completed analyses keyed by repository URL so
// repeated analyze requests for the same URL skip the re-clone.
package store

import (
	"context"
	"log"
	"strings"

	"codearch/internal/types"
)

type Store interface {
	Get(ctx context.Context, repoURL string) (*types.AnalysisResult, bool)
	Put(ctx context.Context, repoURL string, result *types.AnalysisResult) error
	Close() error
}

// NewFromEnv returns a Postgres-backed store when dsn is set, otherwise an
// in-memory one. A Postgres store that cannot be reached falls back to
// memory so the service still starts.
func NewFromEnv(dsn string) Store {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return NewMemoryStore()
	}
	s, err := NewPostgresStore(dsn)
	if err != nil {
		log.Printf("store: postgres unavailable (%v), using in-memory store", err)
		return NewMemoryStore()
	}
	log.Printf("store: using postgres analysis cache")
	return s
}
