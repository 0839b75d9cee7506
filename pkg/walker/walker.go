// Package walker discovers the files that belong in a code2text report.
package walker

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"code2text/pkg/ignore"

	"go.uber.org/zap"
)

// FileEntry is a discovered file.
type FileEntry struct {
	Path    string // Absolute path on disk.
	RelPath string // Slash-separated path relative to the scan root.
	Size    int64  // Size in bytes at discovery time.
}

// Walker lists files under a root according to an ignore.Set.
type Walker struct {
	set      *ignore.Set
	excluded map[string]struct{}
	logger   *zap.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithExcluded skips the given paths wherever they appear in the tree. It is
// used for the tool's own executable and its output file.
func WithExcluded(paths ...string) Option {
	return func(w *Walker) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			abs, err := filepath.Abs(p)
			if err != nil {
				w.logger.Warn("Failed to resolve excluded path", zap.String("path", p), zap.Error(err))
				continue
			}
			w.excluded[filepath.Clean(abs)] = struct{}{}
		}
	}
}

// New returns a Walker for the given policy.
func New(set *ignore.Set, logger *zap.Logger, opts ...Option) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if set == nil {
		set = ignore.NewSet(ignore.Rules{}, logger)
	}
	w := &Walker{
		set:      set,
		excluded: make(map[string]struct{}),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk resolves root and returns the files beneath it in deterministic order.
// Within each directory entries are visited by name, descending into a
// subdirectory before moving on to its next sibling. The sequence is lazy and
// can be ranged over once; a second pass yields nothing.
//
// An error is returned only when root itself cannot be listed. Unreadable
// subdirectories are logged and contribute no entries.
func (w *Walker) Walk(root string) (iter.Seq[FileEntry], error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %s: %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root %s: %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}
	rootEntries, err := w.Children(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read root %s: %w", absRoot, err)
	}

	consumed := false
	return func(yield func(FileEntry) bool) {
		if consumed {
			w.logger.Warn("File sequence already consumed", zap.String("root", absRoot))
			return
		}
		consumed = true
		w.walk(absRoot, rootEntries, yield)
	}, nil
}

type frame struct {
	dir     string
	entries []fs.DirEntry
	next    int
}

// walk runs a depth-first traversal using an explicit stack.
func (w *Walker) walk(root string, rootEntries []fs.DirEntry, yield func(FileEntry) bool) {
	stack := []*frame{{dir: root, entries: rootEntries}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if top.next >= len(top.entries) {
			stack = stack[:len(stack)-1]
			continue
		}
		entry := top.entries[top.next]
		top.next++
		path := filepath.Join(top.dir, entry.Name())

		if entry.IsDir() {
			children, err := w.Children(path)
			if err != nil {
				continue
			}
			stack = append(stack, &frame{dir: path, entries: children})
			continue
		}
		if !entry.Type().IsRegular() {
			w.logger.Debug("Skipping non-regular file", zap.String("path", path), zap.Stringer("mode", entry.Type()))
			continue
		}
		if !w.set.Includes(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.logger.Warn("Failed to get file info", zap.String("path", path), zap.Error(err))
			continue
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			relPath = path
		}
		fileEntry := FileEntry{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Size:    info.Size(),
		}
		w.logger.Debug("Discovered file", zap.String("relPath", fileEntry.RelPath), zap.Int64("sizeBytes", fileEntry.Size))
		if !yield(fileEntry) {
			return
		}
	}
}

// Children lists one directory level sorted by name, dropping entries excluded
// by name, reserved suffix, gitignore or self-exclusion. The suffix allow-list
// is not applied, so the result also suits tree rendering.
func (w *Walker) Children(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("Skipping unreadable directory", zap.String("directory", dir), zap.Error(err))
		return nil, err
	}

	kept := entries[:0]
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if _, ok := w.excluded[path]; ok {
			w.logger.Debug("Skipping excluded path", zap.String("path", path))
			continue
		}
		if w.set.SkipPath(path, entry.IsDir()) {
			w.logger.Debug("Skipping ignored path", zap.String("path", path))
			continue
		}
		kept = append(kept, entry)
	}
	return kept, nil
}
