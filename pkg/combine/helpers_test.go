package combine_test

import (
	"os"
	"path/filepath"
	"testing"

	"code2text/pkg/ignore"
	"code2text/pkg/walker"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testRules = ignore.Rules{
	Names:            []string{".git", "node_modules"},
	ReservedSuffixes: []string{"~"},
	Extensions:       []string{".py", ".go", ".js", ".json"},
	Filenames:        []string{"Makefile"},
}

var testEncodings = []string{"utf-8", "utf-16", "windows-1252", "latin1"}

func writeFile(t *testing.T, root, relPath, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newWalker(t *testing.T) *walker.Walker {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return walker.New(ignore.NewSet(testRules, logger), logger)
}
