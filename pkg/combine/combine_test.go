package combine_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code2text/pkg/combine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newArguments(root, output string) *combine.Arguments {
	return &combine.Arguments{
		Directory:     root,
		Output:        output,
		MaxFileSizeKB: 1024,
		Encodings:     testEncodings,
		Rules:         testRules,
	}
}

func TestRunCombine(t *testing.T) {
	t.Run("includes allow-listed files only", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "print(42)\n")
		writeFile(t, root, "img.bin", "\x00\x01\x02")
		output := filepath.Join(t.TempDir(), "out.txt")

		result, err := combine.RunCombine(newArguments(root, output), zaptest.NewLogger(t))
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(string(data), "print(42)"))
		assert.NotContains(t, string(data), "img.bin")
		assert.True(t, strings.HasPrefix(string(data), "Project: "+filepath.Base(root)+"\n"))
		assert.Equal(t, output, result.Output)
		assert.Equal(t, 1, result.Summary.Files)
	})

	t.Run("tree shows source but not ignored directories", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "src/x.go", "package x\n")
		writeFile(t, root, "node_modules/y.js", "y")
		output := filepath.Join(t.TempDir(), "out.txt")
		args := newArguments(root, output)
		args.Tree = true

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "└── src/\n    └── x.go\n")
		assert.NotContains(t, string(data), "node_modules")
		assert.NotContains(t, string(data), "y.js")
	})

	t.Run("repeated runs are byte-identical", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "b.go", "package b\n")
		writeFile(t, root, "a/a.py", "a = 1\n")
		writeFile(t, root, "a/c.json", "{}\n")
		output := filepath.Join(root, "out.json")
		args := newArguments(root, output)
		args.Tree = true

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)
		first, err := os.ReadFile(output)
		require.NoError(t, err)

		_, err = combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)
		second, err := os.ReadFile(output)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		// The output lives under the root and matches the allow-list, but is never included.
		assert.NotContains(t, string(second), "out.json")
	})

	t.Run("no matching files writes nothing", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "img.bin", "\x00")
		output := filepath.Join(t.TempDir(), "out.txt")

		_, err := combine.RunCombine(newArguments(root, output), zaptest.NewLogger(t))
		assert.ErrorIs(t, err, combine.ErrNoFiles)
		assert.NoFileExists(t, output)
	})

	t.Run("missing root fails", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "out.txt")

		_, err := combine.RunCombine(newArguments(filepath.Join(t.TempDir(), "missing"), output), zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "failed to collect files")
	})

	t.Run("output write failure aborts", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "a")
		output := t.TempDir()

		_, err := combine.RunCombine(newArguments(root, output), zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "failed to write combined file")
	})

	t.Run("unknown encoding is rejected", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "a")
		args := newArguments(root, filepath.Join(t.TempDir(), "out.txt"))
		args.Encodings = []string{"not-an-encoding"}

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		assert.ErrorContains(t, err, "invalid encodings")
	})

	t.Run("config file under the root is excluded", func(t *testing.T) {
		root := t.TempDir()
		configPath := writeFile(t, root, "settings.json", "{\"tree\": true}\n")
		writeFile(t, root, "data.json", "{}\n")
		output := filepath.Join(t.TempDir(), "out.txt")
		args := newArguments(root, output)
		args.ConfigFile = configPath

		result, err := combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "data.json:")
		assert.NotContains(t, string(data), "settings.json")
		assert.Equal(t, 1, result.Summary.Files)
	})

	t.Run("gitignore is honored when enabled", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, ".gitignore", "generated.go\n")
		writeFile(t, root, "generated.go", "package gen\n")
		writeFile(t, root, "main.go", "package main\n")
		output := filepath.Join(t.TempDir(), "out.txt")
		args := newArguments(root, output)
		args.GitIgnore = true

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Contains(t, string(data), "main.go:")
		assert.NotContains(t, string(data), "generated.go")
	})
}

func TestRunCombineOpener(t *testing.T) {
	t.Run("opens the output after writing", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "a")
		output := filepath.Join(t.TempDir(), "out.txt")
		args := newArguments(root, output)
		args.Open = true

		var opened []string
		args.Opener = func(path string) error {
			assert.FileExists(t, path)
			opened = append(opened, path)
			return nil
		}

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		require.NoError(t, err)
		assert.Equal(t, []string{output}, opened)
	})

	t.Run("viewer failure does not fail the run", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "a")
		args := newArguments(root, filepath.Join(t.TempDir(), "out.txt"))
		args.Open = true
		args.Opener = func(string) error { return errors.New("no display") }

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		assert.NoError(t, err)
	})

	t.Run("not opened when disabled", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.py", "a")
		args := newArguments(root, filepath.Join(t.TempDir(), "out.txt"))
		args.Opener = func(string) error {
			t.Error("opener called while Open is false")
			return nil
		}

		_, err := combine.RunCombine(args, zaptest.NewLogger(t))
		assert.NoError(t, err)
	})
}
