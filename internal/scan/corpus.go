package scan

import (
	"log"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Per-file byte cap; oversized files are cut mid-file with a marker.
	maxCorpusFileBytes = 50_000
	headerRule         = "============================================================"
)

// Corpus is the bounded concatenation of the filtered file set, used as
// grounding context for every model call.
type Corpus struct {
	Text         string
	Files        int
	OmittedFiles int
}

// BuildCorpus concatenates file contents in tree order, each prefixed with a
// path header, until maxChars is reached. Once the budget is hit, remaining
// files are omitted whole (never cut mid-file) and counted in OmittedFiles.
// Deterministic for a fixed file set and ordering.
func BuildCorpus(root string, entries []FileEntry, maxChars int) Corpus {
	if maxChars <= 0 {
		maxChars = 400_000
	}
	var (
		b      strings.Builder
		c      Corpus
		budget = maxChars
	)
	for _, e := range entries {
		if budget <= 0 {
			c.OmittedFiles = len(entries) - c.Files
			break
		}
		raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(e.Path)))
		if err != nil {
			log.Printf("scan: corpus skipping unreadable file %s: %v", e.Path, err)
			c.OmittedFiles++
			continue
		}
		content := string(raw)
		if len(content) > maxCorpusFileBytes {
			content = content[:maxCorpusFileBytes] + "\n... [truncated]"
		}

		section := "\n" + headerRule + "\nFile: " + e.Path + "\n" + headerRule + "\n" + content
		if len(section) > budget {
			c.OmittedFiles = len(entries) - c.Files
			break
		}
		b.WriteString(section)
		budget -= len(section)
		c.Files++
	}
	c.Text = b.String()
	return c
}
