package ignore

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// GitIgnoreFileName is the name of the ignore file honored when gitignore support is enabled.
const GitIgnoreFileName = ".gitignore"

// Rules lists the raw policy used to build a Set.
type Rules struct {
	Names            []string // Directory or file names that are never visited.
	ReservedSuffixes []string // Name suffixes that exclude an entry regardless of its base name.
	Extensions       []string // Allow-listed file suffixes, including the leading dot.
	Filenames        []string // Files included by exact name even without an allowed suffix.
}

// Set is an immutable ignore policy. Use NewSet to construct one.
type Set struct {
	names      map[string]struct{}
	suffixes   []string
	extensions map[string]struct{}
	filenames  map[string]struct{}
	matcher    gitignore.IgnoreMatcher // Optional root .gitignore matcher.
	logger     *zap.Logger
}

// NewSet builds a Set from the given rules. Extensions are matched case-insensitively.
func NewSet(rules Rules, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{
		names:      toSet(rules.Names, nil),
		suffixes:   append([]string(nil), rules.ReservedSuffixes...),
		extensions: toSet(rules.Extensions, normalizeExtension),
		filenames:  toSet(rules.Filenames, nil),
		logger:     logger,
	}
	logger.Debug("Built ignore set",
		zap.Int("names", len(s.names)),
		zap.Int("reservedSuffixes", len(s.suffixes)),
		zap.Int("extensions", len(s.extensions)),
		zap.Int("filenames", len(s.filenames)))
	return s
}

// WithGitIgnore returns a copy of the set that also skips paths matched by
// root/.gitignore. A missing file leaves the set unchanged.
func (s *Set) WithGitIgnore(root string) (*Set, error) {
	gitIgnorePath := filepath.Join(root, GitIgnoreFileName)
	if _, err := os.Stat(gitIgnorePath); err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("No gitignore file found", zap.String("filePath", gitIgnorePath))
			return s, nil
		}
		return nil, err
	}

	matcher, err := gitignore.NewGitIgnore(gitIgnorePath, root)
	if err != nil {
		s.logger.Error("Failed to read gitignore file", zap.String("filePath", gitIgnorePath), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Loaded gitignore patterns", zap.String("filePath", gitIgnorePath))

	clone := *s
	clone.matcher = matcher
	return &clone, nil
}

// SkipName reports whether an entry with this base name is excluded by name
// or by a reserved marker suffix. It applies to files and directories alike.
func (s *Set) SkipName(name string) bool {
	if _, ok := s.names[name]; ok {
		return true
	}
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// SkipPath reports whether the absolute path is excluded by the name rules or,
// when loaded, by the .gitignore matcher.
func (s *Set) SkipPath(path string, isDir bool) bool {
	if s.SkipName(filepath.Base(path)) {
		return true
	}
	if s.matcher != nil && s.matcher.Match(path, isDir) {
		s.logger.Debug("Path matches gitignore", zap.String("path", path), zap.Bool("isDir", isDir))
		return true
	}
	return false
}

// Includes reports whether a file with this base name belongs in the output:
// its suffix is allow-listed or the name is special-cased.
func (s *Set) Includes(name string) bool {
	if _, ok := s.filenames[name]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	_, ok := s.extensions[ext]
	return ok
}

func toSet(values []string, normalize func(string) string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if normalize != nil {
			v = normalize(v)
		}
		set[v] = struct{}{}
	}
	return set
}

// normalizeExtension lower-cases an extension and adds the leading dot when missing.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
