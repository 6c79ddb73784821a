package scan

import (
	"path"
	"strings"
)

// Extension allow-list. Files whose lowercased extension is absent here are
// excluded everywhere: tree, dependency graph and corpus all apply the same
// rule so the three views agree on the filtered file set.
var codeExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".jsx": {}, ".ts": {}, ".tsx": {},
	".java": {}, ".go": {}, ".rs": {}, ".rb": {}, ".php": {}, ".cs": {},
	".cpp": {}, ".c": {}, ".h": {}, ".hpp": {}, ".swift": {}, ".kt": {},
	".html": {}, ".css": {}, ".scss": {}, ".json": {}, ".yaml": {}, ".yml": {},
	".md": {}, ".ipynb": {}, ".r": {}, ".jl": {},
}

// Directory deny-list: dependency caches, build output, VCS metadata, editor
// state and coverage artifacts. Matched against exact path segments.
var excludedDirs = map[string]struct{}{
	"node_modules": {}, ".git": {}, "__pycache__": {},
	"venv": {}, "env": {}, ".venv": {},
	"dist": {}, "build": {}, "target": {},
	".idea": {}, ".vscode": {}, "coverage": {},
	".next": {}, ".nuxt": {}, "vendor": {}, ".cache": {},
}

// ExcludedDir reports whether a single directory name is denied.
func ExcludedDir(name string) bool {
	_, ok := excludedDirs[name]
	return ok
}

// AllowedExt reports whether a lowercased extension (with leading dot) is on
// the allow-list.
func AllowedExt(ext string) bool {
	_, ok := codeExtensions[strings.ToLower(ext)]
	return ok
}

// IncludeFile decides whether a repo-relative file path (forward slashes)
// belongs to the filtered file set. Pure and deterministic.
func IncludeFile(rel string) bool {
	if rel == "" {
		return false
	}
	for _, seg := range strings.Split(path.Dir(rel), "/") {
		if ExcludedDir(seg) {
			return false
		}
	}
	return AllowedExt(path.Ext(rel))
}
