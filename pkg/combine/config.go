// File: pkg/combine/config.go
package combine

import (
	"errors"

	"code2text/pkg/ignore"
)

// ErrNoFiles is returned by RunCombine when nothing under the root matches the policy.
var ErrNoFiles = errors.New("no matching files found")

// Arguments holds the configuration options for a single run.
type Arguments struct {
	Directory     string       // Root directory to scan.
	Output        string       // Destination path for the combined output file.
	Tree          bool         // If true, a directory tree precedes the file contents.
	Open          bool         // If true, the output is opened with the default viewer after a successful write.
	MaxFileSizeKB int          // Files larger than this are replaced with a placeholder.
	Encodings     []string     // Text encodings tried in order when decoding a file.
	Rules         ignore.Rules // Ignore names, reserved suffixes and the include allow-list.
	GitIgnore     bool         // If true, the root .gitignore is honored as well.
	Executable    string       // Path of the running binary; excluded from discovery.
	ConfigFile    string       // Config file that was read, if any; excluded from discovery.
	Opener        Opener       // Viewer used when Open is set; DefaultOpener when nil.
}

// FileContent represents the rendered section of a single file.
type FileContent struct {
	Path     string // Relative, slash-separated path of the file.
	Content  string // Decoded text or the placeholder notice.
	Encoding string // Encoding that decoded Content; empty for placeholders.
	Skipped  bool   // True when Content is a size placeholder.
}

// Summary counts what went into a document.
type Summary struct {
	Files     int   // Sections written, including placeholders.
	Oversized int   // Files replaced by a size placeholder.
	Lossy     int   // Files decoded with replacement characters.
	Failed    int   // Files skipped because they could not be read.
	Bytes     int64 // Bytes of source read.
}

// Result describes a completed run.
type Result struct {
	Output  string // Absolute path of the written document.
	Summary Summary
}
