package scan

import (
	"log"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"codearch/internal/types"
)

// FileEntry is one member of the filtered file set, in tree order.
type FileEntry struct {
	Path string // repo-relative, forward slashes
	Size int64
}

// BuildTree walks root once, depth first, and returns the hierarchical tree
// plus the flat filtered file set in traversal order. Children are ordered
// folders first, then lexicographically by lowercased name. Folders with no
// surviving descendants are pruned. An entry that cannot be stat'ed or read
// is skipped, never failing the whole walk.
func BuildTree(root, name string) (*types.FileTreeNode, []FileEntry, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, nil, err
	}
	var files []FileEntry
	node := buildDir(root, "", name, &files)
	if node == nil {
		node = &types.FileTreeNode{Name: name, Path: "", Type: types.NodeTypeFolder}
	}
	return node, files, nil
}

func buildDir(root, rel, name string, files *[]FileEntry) *types.FileTreeNode {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	entries, err := os.ReadDir(abs)
	if err != nil {
		log.Printf("scan: skipping unreadable directory %s: %v", rel, err)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var children []*types.FileTreeNode
	for _, e := range entries {
		childRel := e.Name()
		if rel != "" {
			childRel = rel + "/" + e.Name()
		}
		if e.IsDir() {
			if ExcludedDir(e.Name()) {
				continue
			}
			if child := buildDir(root, childRel, e.Name(), files); child != nil {
				children = append(children, child)
			}
			continue
		}
		ext := strings.ToLower(path.Ext(e.Name()))
		if !AllowedExt(ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			log.Printf("scan: skipping unreadable entry %s: %v", childRel, err)
			continue
		}
		children = append(children, &types.FileTreeNode{
			Name:      e.Name(),
			Path:      childRel,
			Type:      types.NodeTypeFile,
			Extension: ext,
			Size:      info.Size(),
		})
		*files = append(*files, FileEntry{Path: childRel, Size: info.Size()})
	}

	if len(children) == 0 {
		// Empty folders (everything beneath filtered out) are pruned.
		return nil
	}
	return &types.FileTreeNode{
		Name:     name,
		Path:     rel,
		Type:     types.NodeTypeFolder,
		Children: children,
	}
}

// CountFiles returns the number of file nodes in a tree.
func CountFiles(n *types.FileTreeNode) int {
	if n == nil {
		return 0
	}
	if n.Type == types.NodeTypeFile {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += CountFiles(c)
	}
	return total
}
