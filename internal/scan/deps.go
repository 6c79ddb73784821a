package scan

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"codearch/internal/types"
)

// LanguageExtractor knows how one language family spells its imports and how
// a raw import token resolves to a file inside the repository. New languages
// register alongside the existing ones without touching them.
type LanguageExtractor struct {
	Language   string
	Extensions []string
	// Extract returns raw import tokens found in content.
	Extract func(content string) []string
	// Resolve maps a raw token to a repo-relative path present in files,
	// or returns false when the token points outside the repository
	// (external package, escaping path).
	Resolve func(token, fromDir string, files map[string]struct{}) (string, bool)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]LanguageExtractor{} // keyed by extension
)

// RegisterLanguage adds an extractor for its extensions. Later registrations
// win, which lets tests install stubs.
func RegisterLanguage(l LanguageExtractor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, ext := range l.Extensions {
		registry[strings.ToLower(ext)] = l
	}
}

func extractorFor(ext string) (LanguageExtractor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	l, ok := registry[strings.ToLower(ext)]
	return l, ok
}

// BuildGraph reads every filtered file that has a registered language and
// assembles the directed import graph. Nodes are the whole filtered file set;
// edges only exist between nodes (unresolved imports are dropped, as are
// self-imports). Duplicate edges are kept: one edge per import statement.
// Extraction runs per file in parallel; the merged edge list is normalized
// by sorting, so repeated runs produce identical output.
func BuildGraph(root string, entries []FileEntry) *types.DependencyGraph {
	g := &types.DependencyGraph{
		Nodes:            make([]types.GraphNode, 0, len(entries)),
		Edges:            []types.GraphEdge{},
		ConnectionCounts: map[string]int{},
		ByType:           map[string]int{},
	}

	fileSet := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		fileSet[e.Path] = struct{}{}
		nodeType := strings.TrimPrefix(strings.ToLower(path.Ext(e.Path)), ".")
		g.Nodes = append(g.Nodes, types.GraphNode{
			ID:    e.Path,
			Name:  path.Base(e.Path),
			Path:  e.Path,
			Type:  nodeType,
			Group: path.Dir(e.Path),
		})
		g.ConnectionCounts[e.Path] = 0
		g.ByType[nodeType]++
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		edges []types.GraphEdge
	)
	for _, e := range entries {
		lang, ok := extractorFor(path.Ext(e.Path))
		if !ok {
			continue
		}
		wg.Add(1)
		go func(e FileEntry, lang LanguageExtractor) {
			defer wg.Done()
			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.Path)))
			if err != nil {
				// The file still exists as a node; it just contributes no edges.
				log.Printf("scan: skipping unreadable file %s: %v", e.Path, err)
				return
			}
			fromDir := path.Dir(e.Path)
			var local []types.GraphEdge
			for _, token := range lang.Extract(string(content)) {
				target, ok := lang.Resolve(token, fromDir, fileSet)
				if !ok || target == e.Path {
					continue
				}
				local = append(local, types.GraphEdge{Source: e.Path, Target: target, Import: token})
			}
			if len(local) > 0 {
				mu.Lock()
				edges = append(edges, local...)
				mu.Unlock()
			}
		}(e, lang)
	}
	wg.Wait()

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Import < edges[j].Import
	})
	g.Edges = append(g.Edges, edges...)

	for _, e := range g.Edges {
		g.ConnectionCounts[e.Source]++
		g.ConnectionCounts[e.Target]++
	}
	return g
}
