package combine

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"code2text/pkg/ignore"
	"code2text/pkg/walker"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// RunCombine orchestrates a run: it discovers files under args.Directory,
// renders the optional tree, writes the document to args.Output and finally
// opens it when args.Open is set. ErrNoFiles is returned, and nothing is
// written, when no file matches.
func RunCombine(args *Arguments, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	startTime := time.Now()
	logger.Info("Starting combination process", zap.String("directory", args.Directory))

	if err := ValidateEncodings(args.Encodings); err != nil {
		return Result{}, fmt.Errorf("invalid encodings: %w", err)
	}

	parentDir, err := filepath.Abs(args.Directory)
	if err != nil {
		logger.Error("Failed to resolve directory path", zap.Error(err))
		return Result{}, fmt.Errorf("failed to get absolute path: %w", err)
	}
	outputPath, err := filepath.Abs(args.Output)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get absolute output path: %w", err)
	}

	set := ignore.NewSet(args.Rules, logger)
	if args.GitIgnore {
		set, err = set.WithGitIgnore(parentDir)
		if err != nil {
			return Result{}, fmt.Errorf("failed to load ignore patterns: %w", err)
		}
	}
	w := walker.New(set, logger, walker.WithExcluded(outputPath, args.Executable, args.ConfigFile))

	files, err := w.Walk(parentDir)
	if err != nil {
		logger.Error("Failed to collect files", zap.Error(err))
		return Result{}, fmt.Errorf("failed to collect files: %w", err)
	}
	filesToProcess := slices.Collect(files)
	if len(filesToProcess) == 0 {
		logger.Warn("No files to process after filtering", zap.String("directory", parentDir))
		return Result{}, ErrNoFiles
	}
	logger.Debug("Collected files", zap.Int("fileCount", len(filesToProcess)))

	var tree string
	if args.Tree {
		tree, err = RenderTree(w, parentDir)
		if err != nil {
			logger.Error("Failed to generate tree structure", zap.Error(err))
			return Result{}, fmt.Errorf("failed to generate tree structure: %w", err)
		}
	}

	aggregator := NewAggregator(args.MaxFileSizeKB, args.Encodings, logger)
	summary, err := WriteCombinedFile(outputPath, filepath.Base(parentDir), tree, filesToProcess, aggregator, logger)
	if err != nil {
		logger.Error("Failed to write combined file", zap.String("combinedFile", outputPath), zap.Error(err))
		return Result{}, fmt.Errorf("failed to write combined file: %w", err)
	}

	if args.Open {
		opener := args.Opener
		if opener == nil {
			opener = DefaultOpener
		}
		if err := opener(outputPath); err != nil {
			logger.Warn("Failed to open combined file", zap.String("combinedFile", outputPath), zap.Error(err))
		}
	}

	logger.Info("Combination process completed",
		zap.String("outputFile", outputPath),
		zap.Int("totalFiles", summary.Files),
		zap.Int("oversizedFiles", summary.Oversized),
		zap.Int("lossyFiles", summary.Lossy),
		zap.Int("failedFiles", summary.Failed),
		zap.String("sourceSize", humanize.IBytes(uint64(summary.Bytes))),
		zap.Duration("elapsed", time.Since(startTime)))
	return Result{Output: outputPath, Summary: summary}, nil
}

// WriteCombinedFile creates (or truncates) outputPath and renders the document into it.
func WriteCombinedFile(outputPath, project, tree string, files []walker.FileEntry, aggregator *Aggregator, logger *zap.Logger) (summary Summary, err error) {
	logger.Debug("Writing combined content to output file", zap.String("combinedFile", outputPath))

	if err := ensureDirectory(filepath.Dir(outputPath), logger); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return summary, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, outFile.Close())
	}()

	writer := bufio.NewWriter(outFile)
	summary, err = aggregator.Write(writer, project, tree, files)
	if err != nil {
		return summary, err
	}
	if err := writer.Flush(); err != nil {
		return summary, fmt.Errorf("failed to flush output: %w", err)
	}
	return summary, nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}
