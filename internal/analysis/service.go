package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"codearch/internal/llm"
	"codearch/internal/repofetch"
	"codearch/internal/report"
	"codearch/internal/scan"
	"codearch/internal/store"
	"codearch/internal/types"
)

// ErrNoSourceFiles means the repository cloned fine but nothing survived the
// file classifier.
var ErrNoSourceFiles = errors.New("analysis: repository has no supported source files")

const (
	corpusCacheSize = 32
	corpusCacheTTL  = 10 * time.Minute
)

// Service runs the analyze and chat pipelines. All state is request-scoped
// except the caches, which are keyed by repository URL.
type Service struct {
	llm     llm.Client
	store   store.Store
	reports report.Store

	cloneTimeout   time.Duration
	llmTimeout     time.Duration
	corpusMaxChars int

	// Lets tests substitute a local fixture for the network clone.
	fetch func(ctx context.Context, url string) (*repofetch.Snapshot, error)

	// Chat corpus cache: consecutive questions about the same repository
	// re-clone at most once per TTL window.
	corpusCache *expirable.LRU[string, string]
}

type Options struct {
	CloneTimeout   time.Duration
	LLMTimeout     time.Duration
	CorpusMaxChars int
}

func New(client llm.Client, st store.Store, reports report.Store, opts Options) *Service {
	s := &Service{
		llm:            client,
		store:          st,
		reports:        reports,
		cloneTimeout:   opts.CloneTimeout,
		llmTimeout:     opts.LLMTimeout,
		corpusMaxChars: opts.CorpusMaxChars,
		corpusCache:    expirable.NewLRU[string, string](corpusCacheSize, nil, corpusCacheTTL),
	}
	s.fetch = func(ctx context.Context, url string) (*repofetch.Snapshot, error) {
		return repofetch.Clone(ctx, url, s.cloneTimeout)
	}
	return s
}

// SetFetcher overrides the clone step (tests only).
func (s *Service) SetFetcher(fetch func(ctx context.Context, url string) (*repofetch.Snapshot, error)) {
	s.fetch = fetch
}

// Analyze runs the full pipeline for one repository URL:
// validate -> clone -> tree + graph + corpus -> model calls -> merge.
func (s *Service) Analyze(ctx context.Context, repoURL string) (*types.AnalysisResult, error) {
	if err := repofetch.ValidateURL(repoURL); err != nil {
		return nil, err
	}

	if cached, ok := s.store.Get(ctx, repoURL); ok {
		log.Printf("analysis: cache hit for %s", repoURL)
		return cached, nil
	}

	snap, err := s.fetch(ctx, repoURL)
	if err != nil {
		return nil, err
	}
	defer snap.Close()

	tree, files, err := scan.BuildTree(snap.Dir, snap.Name)
	if err != nil {
		return nil, fmt.Errorf("analysis: read repository: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}

	// Graph extraction and corpus aggregation are independent read-only
	// passes over the same immutable snapshot.
	var (
		wg     sync.WaitGroup
		graph  *types.DependencyGraph
		corpus scan.Corpus
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		graph = scan.BuildGraph(snap.Dir, files)
	}()
	go func() {
		defer wg.Done()
		corpus = scan.BuildCorpus(snap.Dir, files, s.corpusMaxChars)
	}()
	wg.Wait()

	if corpus.OmittedFiles > 0 {
		log.Printf("analysis: corpus for %s omitted %d of %d files (budget %d chars)",
			repoURL, corpus.OmittedFiles, len(files), s.corpusMaxChars)
	}
	s.corpusCache.Add(repoURL, corpus.Text)

	detection := s.detect(ctx, corpus.Text)

	raw, err := s.generate(ctx, analysisPrompt(snap.Name, corpus.Text))
	if err != nil {
		return nil, err
	}
	narrative := llm.DecodeNarrative(raw)

	result := &types.AnalysisResult{
		Modules:                  narrative.Modules,
		Architecture:             narrative.Architecture,
		TechnicalDebt:            narrative.TechnicalDebt,
		TechnicalDebtSuggestions: narrative.TechnicalDebtSuggestions,
		OnboardingGuide:          narrative.OnboardingGuide,
		FileTree:                 tree,
		Dependencies:             graph,
		AIDetection:              detection,
	}

	if err := s.store.Put(ctx, repoURL, result); err != nil {
		log.Printf("analysis: store put for %s failed: %v", repoURL, err)
	}
	s.saveReport(ctx, repoURL, result)
	return result, nil
}

// Chat answers a question about a repository, grounding the prompt in the
// aggregated corpus. The corpus is re-derived (re-clone, re-filter) unless
// still present in the TTL cache.
func (s *Service) Chat(ctx context.Context, repoURL, question string, history []types.ChatMessage) (string, error) {
	if err := repofetch.ValidateURL(repoURL); err != nil {
		return "", err
	}
	corpus, err := s.corpusFor(ctx, repoURL)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, chatPrompt(corpus, repoURL, question, history))
}

// ReportJSON returns the persisted report artifact for a repository.
func (s *Service) ReportJSON(ctx context.Context, repoURL string) ([]byte, bool) {
	if err := repofetch.ValidateURL(repoURL); err != nil {
		return nil, false
	}
	data, err := s.reports.Get(ctx, repoURL)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (s *Service) corpusFor(ctx context.Context, repoURL string) (string, error) {
	if text, ok := s.corpusCache.Get(repoURL); ok {
		return text, nil
	}
	snap, err := s.fetch(ctx, repoURL)
	if err != nil {
		return "", err
	}
	defer snap.Close()

	_, files, err := scan.BuildTree(snap.Dir, snap.Name)
	if err != nil {
		return "", fmt.Errorf("analysis: read repository: %w", err)
	}
	if len(files) == 0 {
		return "", ErrNoSourceFiles
	}
	corpus := scan.BuildCorpus(snap.Dir, files, s.corpusMaxChars)
	s.corpusCache.Add(repoURL, corpus.Text)
	return corpus.Text, nil
}

// detect runs the AI-generated-code heuristic. Failures degrade to the
// default payload; they never fail the request.
func (s *Service) detect(ctx context.Context, corpus string) json.RawMessage {
	raw, err := s.generate(ctx, detectionPrompt(corpus))
	if err != nil {
		log.Printf("analysis: ai detection unavailable: %v", err)
		return llm.DefaultDetection("Detection unavailable")
	}
	return llm.DecodeDetection(raw)
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}
	return s.llm.GenerateText(ctx, prompt)
}

func (s *Service) saveReport(ctx context.Context, repoURL string, result *types.AnalysisResult) {
	if s.reports == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("analysis: marshal report for %s: %v", repoURL, err)
		return
	}
	if err := s.reports.Put(ctx, repoURL, data); err != nil {
		log.Printf("analysis: report put for %s failed: %v", repoURL, err)
	}
}
