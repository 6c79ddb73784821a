// Package report persists the rendered-report payload (the full analysis
// JSON) per repository, so the printable report can be re-served without
// re-running the pipeline.
package report

import (
	"context"
	"log"
	"strings"

	"codearch/internal/config"
)

type Store interface {
	Put(ctx context.Context, repoURL string, data []byte) error
	Get(ctx context.Context, repoURL string) ([]byte, error)
}

// NewFromConfig returns an S3-backed store when the config is complete,
// otherwise an in-memory fallback.
func NewFromConfig(cfg config.ReportConfig) Store {
	if !cfg.CanUseS3() {
		return NewMemoryStore()
	}
	s3Store, err := NewS3Store(S3Config{
		Endpoint:  cfg.Endpoint,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		log.Printf("report: s3 store unavailable (%v), using in-memory store", err)
		return NewMemoryStore()
	}
	log.Printf("report: s3 store bucket=%s endpoint=%s", cfg.Bucket, cfg.Endpoint)
	return s3Store
}

// objectKey maps a repository URL to a stable object name.
func objectKey(repoURL string) string {
	key := strings.TrimPrefix(repoURL, "https://")
	key = strings.TrimPrefix(key, "http://")
	key = strings.TrimSuffix(key, ".git")
	key = strings.ReplaceAll(key, "/", "_")
	return "reports/" + key + ".json"
}
