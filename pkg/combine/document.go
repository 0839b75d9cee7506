package combine

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"code2text/pkg/walker"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const minFenceLength = 3

// Aggregator reads discovered files and renders them into one document.
type Aggregator struct {
	maxFileSize int64
	encodings   []string
	logger      *zap.Logger
}

// NewAggregator returns an Aggregator that replaces files larger than
// maxFileSizeKB with a placeholder and decodes the rest with encodings.
func NewAggregator(maxFileSizeKB int, encodings []string, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		maxFileSize: int64(maxFileSizeKB) * 1024,
		encodings:   append([]string(nil), encodings...),
		logger:      logger,
	}
}

// Write renders the document: a project header, the tree block when tree is
// non-empty, and one fenced section per file. Files that cannot be read are
// logged and left out; only errors from w abort the write.
func (a *Aggregator) Write(w io.Writer, project, tree string, files []walker.FileEntry) (Summary, error) {
	var summary Summary

	header := fmt.Sprintf("Project: %s\n\n", project)
	if tree != "" {
		fence := fenceFor(tree)
		header += fmt.Sprintf("Directory tree:\n%stext\n%s%s\n\n", fence, ensureTrailingNewline(tree), fence)
	}
	header += "Files:\n\n"
	if _, err := io.WriteString(w, header); err != nil {
		return summary, fmt.Errorf("failed to write header: %w", err)
	}

	for _, entry := range files {
		content, err := a.ProcessFile(entry)
		if err != nil {
			a.logger.Error("Skipping unreadable file", zap.String("filePath", entry.Path), zap.Error(err))
			summary.Failed++
			continue
		}

		if _, err := io.WriteString(w, renderSection(content)); err != nil {
			return summary, fmt.Errorf("failed to write content for %s: %w", content.Path, err)
		}
		summary.Files++
		switch {
		case content.Skipped:
			summary.Oversized++
		case content.Encoding == LossyEncoding:
			summary.Lossy++
			summary.Bytes += entry.Size
		default:
			summary.Bytes += entry.Size
		}
	}
	return summary, nil
}

// ProcessFile reads and decodes a single file, or builds a placeholder when it
// exceeds the size limit. The limit is checked against the bytes actually read,
// so a file that grew after discovery is never emitted truncated.
func (a *Aggregator) ProcessFile(entry walker.FileEntry) (FileContent, error) {
	if entry.Size > a.maxFileSize {
		return a.placeholder(entry.RelPath, entry.Size), nil
	}

	file, err := os.Open(entry.Path)
	if err != nil {
		return FileContent{}, fmt.Errorf("error opening file %s: %w", entry.Path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, a.maxFileSize+1))
	if err != nil {
		return FileContent{}, fmt.Errorf("error reading file %s: %w", entry.Path, err)
	}
	if int64(len(data)) > a.maxFileSize {
		size := int64(len(data))
		if info, statErr := file.Stat(); statErr == nil {
			size = info.Size()
		}
		return a.placeholder(entry.RelPath, size), nil
	}

	text, encoding := Decode(data, a.encodings)
	if encoding == LossyEncoding {
		a.logger.Warn("No encoding matched, decoded with replacement characters",
			zap.String("filePath", entry.Path),
			zap.Strings("encodings", a.encodings))
	} else {
		a.logger.Debug("Decoded file",
			zap.String("filePath", entry.Path),
			zap.String("encoding", encoding),
			zap.Int("contentSizeBytes", len(data)))
	}

	return FileContent{
		Path:     entry.RelPath,
		Content:  text,
		Encoding: encoding,
	}, nil
}

func (a *Aggregator) placeholder(relPath string, size int64) FileContent {
	a.logger.Info("File exceeds size limit, writing placeholder",
		zap.String("file", relPath),
		zap.Int64("sizeBytes", size),
		zap.Int64("maxSizeBytes", a.maxFileSize))
	return FileContent{
		Path: relPath,
		Content: fmt.Sprintf("[skipped: file is %s, larger than the %s limit]\n",
			humanize.IBytes(uint64(size)), humanize.IBytes(uint64(a.maxFileSize))),
		Skipped: true,
	}
}

// renderSection formats one file as its path line followed by a fenced block.
func renderSection(content FileContent) string {
	fence := fenceFor(content.Content)
	lang := ""
	if !content.Skipped {
		lang = strings.ToLower(strings.TrimPrefix(filepath.Ext(content.Path), "."))
	}
	return fmt.Sprintf("%s:\n%s%s\n%s%s\n\n", content.Path, fence, lang, ensureTrailingNewline(content.Content), fence)
}

// fenceFor returns a backtick fence longer than any backtick run in text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for i := 0; i < len(text); i++ {
		if text[i] == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(minFenceLength, longest+1))
}

func ensureTrailingNewline(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
