package scan

import (
	"path"
	"regexp"
	"strings"
)

var (
	rePyImport = regexp.MustCompile(`(?m)^(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)
	// Covers "import x from 'p'", side-effect "import 'p'", dynamic
	// "import('p')" and "require('p')".
	reJSImport = regexp.MustCompile(`import\s+.*?\s+from\s+['"](.+?)['"]|import\s*\(?\s*['"](.+?)['"]|require\s*\(\s*['"](.+?)['"]\s*\)`)
)

// Common standard-library prefixes; imports starting with these never point
// at a repository file worth an edge.
var pyStdlibPrefixes = []string{
	"os", "sys", "json", "re", "typing", "pathlib",
	"collections", "datetime", "asyncio", "functools",
}

func init() {
	RegisterLanguage(LanguageExtractor{
		Language:   "python",
		Extensions: []string{".py"},
		Extract:    extractPythonImports,
		Resolve:    resolvePythonImport,
	})
	RegisterLanguage(LanguageExtractor{
		Language:   "javascript",
		Extensions: []string{".js", ".jsx", ".ts", ".tsx"},
		Extract:    extractJSImports,
		Resolve:    resolveJSImport,
	})
}

func extractPythonImports(content string) []string {
	var out []string
	for _, m := range rePyImport.FindAllStringSubmatch(content, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		if token == "" || hasStdlibPrefix(token) {
			continue
		}
		out = append(out, token)
	}
	return out
}

func hasStdlibPrefix(token string) bool {
	for _, p := range pyStdlibPrefixes {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	return false
}

// Dotted module tokens resolve against the repository root, trying the module
// file itself and a package __init__.py.
func resolvePythonImport(token, _ string, files map[string]struct{}) (string, bool) {
	base := strings.ReplaceAll(token, ".", "/")
	for _, suffix := range []string{".py", "/__init__.py"} {
		if candidate := base + suffix; contains(files, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func extractJSImports(content string) []string {
	var out []string
	for _, m := range reJSImport.FindAllStringSubmatch(content, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		if token == "" {
			token = m[3]
		}
		// Only relative tokens can name repository files; bare specifiers
		// are external packages.
		if token == "" || !(strings.HasPrefix(token, "./") || strings.HasPrefix(token, "../")) {
			continue
		}
		out = append(out, token)
	}
	return out
}

var jsResolutionSuffixes = []string{"", ".js", ".jsx", ".ts", ".tsx", "/index.js", "/index.ts"}

// Relative tokens resolve against the importing file's directory, with and
// without common extensions and with index-file directory resolution.
func resolveJSImport(token, fromDir string, files map[string]struct{}) (string, bool) {
	resolved := path.Clean(path.Join(fromDir, token))
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		// Escapes the repository root.
		return "", false
	}
	for _, suffix := range jsResolutionSuffixes {
		if candidate := resolved + suffix; contains(files, candidate) {
			return candidate, true
		}
	}
	return "", false
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
