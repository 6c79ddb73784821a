package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"codearch/internal/types"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS repo_analysis (
	repo_url   TEXT PRIMARY KEY,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps analyses in Postgres with a read-through LRU in front.
type PostgresStore struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error

	cache *lru.Cache[string, *types.AnalysisResult]
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping db: %w", err)
	}
	cache, err := lru.New[string, *types.AnalysisResult](256)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresStore{db: db, cache: cache}, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, createTableSQL)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, repoURL string) (*types.AnalysisResult, bool) {
	if cached, ok := s.cache.Get(repoURL); ok {
		return cached, true
	}
	if err := s.ensureSchema(ctx); err != nil {
		log.Printf("store: schema: %v", err)
		return nil, false
	}
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM repo_analysis WHERE repo_url = $1`, repoURL).Scan(&raw)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Printf("store: get %s: %v", repoURL, err)
		}
		return nil, false
	}
	var result types.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Printf("store: decode %s: %v", repoURL, err)
		return nil, false
	}
	s.cache.Add(repoURL, &result)
	return &result, true
}

func (s *PostgresStore) Put(ctx context.Context, repoURL string, result *types.AnalysisResult) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO repo_analysis (repo_url, result) VALUES ($1, $2)
		ON CONFLICT (repo_url) DO UPDATE SET result = EXCLUDED.result`,
		repoURL, raw)
	if err != nil {
		return fmt.Errorf("store: put %s: %w", repoURL, err)
	}
	s.cache.Add(repoURL, result)
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
