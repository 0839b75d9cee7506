// File: pkg/combine/tree.go
package combine

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"code2text/pkg/walker"
)

type treeLevel struct {
	dir     string
	entries []fs.DirEntry
	next    int
	prefix  string
}

// RenderTree draws the directory structure under root as ASCII art, using the
// walker's ignore rules. Files come before directories at each level, each
// group ordered by name. Unreadable directories are drawn without children.
func RenderTree(w *walker.Walker, root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", root, err)
	}
	entries, err := w.Children(absRoot)
	if err != nil {
		return "", fmt.Errorf("failed to read directory '%s': %w", absRoot, err)
	}

	var treeBuilder strings.Builder
	treeBuilder.WriteString(filepath.Base(absRoot) + "/\n")

	stack := []*treeLevel{{dir: absRoot, entries: sortTreeEntries(entries)}}
	for len(stack) > 0 {
		level := stack[len(stack)-1]
		if level.next >= len(level.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := level.entries[level.next]
		level.next++

		connector := "├── "
		extension := "│   "
		if level.next == len(level.entries) {
			connector = "└── "
			extension = "    "
		}

		if !entry.IsDir() {
			treeBuilder.WriteString(level.prefix + connector + entry.Name() + "\n")
			continue
		}

		treeBuilder.WriteString(level.prefix + connector + entry.Name() + "/\n")
		entryPath := filepath.Join(level.dir, entry.Name())
		children, err := w.Children(entryPath)
		if err != nil {
			continue
		}
		stack = append(stack, &treeLevel{
			dir:     entryPath,
			entries: sortTreeEntries(children),
			prefix:  level.prefix + extension,
		})
	}

	return treeBuilder.String(), nil
}

// sortTreeEntries orders files before directories, then case-insensitively by name.
func sortTreeEntries(entries []fs.DirEntry) []fs.DirEntry {
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return 1
			}
			return -1
		}
		if c := strings.Compare(strings.ToLower(a.Name()), strings.ToLower(b.Name())); c != 0 {
			return c
		}
		return strings.Compare(a.Name(), b.Name())
	})
	return entries
}
