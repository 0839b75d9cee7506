package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"code2text/pkg/combine"
	"code2text/pkg/config"
	"code2text/pkg/logging"
	"code2text/pkg/version"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// runCombine resolves configuration, builds the logger and runs the combine process.
func runCombine(cmd *cobra.Command, v *viper.Viper, configFile, root string) error {
	noOpen, err := cmd.Flags().GetBool("no-open")
	if err != nil {
		return fmt.Errorf("error reading flags: %w", err)
	}
	if noOpen {
		v.Set("open", false)
	}

	cfg, err := config.Load(v, configFile, root)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Debug, "code2text", version.Get().Version)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer syncLogger(logger)
	if cfg.File != "" {
		logger.Debug("Loaded config file", zap.String("file", cfg.File))
	}

	executable, err := os.Executable()
	if err != nil {
		logger.Debug("Unable to resolve own executable", zap.Error(err))
		executable = ""
	}

	result, err := combine.RunCombine(&combine.Arguments{
		Directory:     root,
		Output:        cfg.Output,
		Tree:          cfg.Tree,
		Open:          cfg.Open,
		MaxFileSizeKB: cfg.MaxFileSizeKB,
		Encodings:     cfg.Encodings,
		Rules:         cfg.Rules(),
		GitIgnore:     cfg.GitIgnore,
		Executable:    executable,
		ConfigFile:    cfg.File,
	}, logger)
	if errors.Is(err, combine.ErrNoFiles) {
		fmt.Fprintf(cmd.OutOrStdout(), "No matching files found in %s. Exiting.\n", root)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s with %d files.\n", cfg.Output, result.Summary.Files)
	return nil
}

// syncLogger flushes the logger when stderr can be synced. Terminals and
// pipes on some platforms reject fsync with "invalid argument".
func syncLogger(logger *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncErr := logger.Sync(); syncErr != nil {
		if !strings.Contains(strings.ToLower(syncErr.Error()), "invalid argument") {
			log.Printf("Logger sync failed: %v", syncErr)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
