// Package config loads code2text settings from defaults, an optional YAML
// file, CODE2TEXT_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"code2text/pkg/ignore"

	"github.com/spf13/viper"
)

// Config is the resolved configuration of a run.
type Config struct {
	Output           string   `mapstructure:"output"`
	Tree             bool     `mapstructure:"tree"`
	Open             bool     `mapstructure:"open"`
	MaxFileSizeKB    int      `mapstructure:"max_file_size_kb"`
	Encodings        []string `mapstructure:"encodings"`
	Extensions       []string `mapstructure:"extensions"`
	Filenames        []string `mapstructure:"filenames"`
	IgnoreNames      []string `mapstructure:"ignore_names"`
	ReservedSuffixes []string `mapstructure:"reserved_suffixes"`
	GitIgnore        bool     `mapstructure:"gitignore"`
	Debug            bool     `mapstructure:"debug"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// New returns a viper instance with defaults and environment binding applied.
// Flags are bound to it by the caller before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output", DefaultOutput)
	v.SetDefault("tree", false)
	v.SetDefault("open", true)
	v.SetDefault("max_file_size_kb", DefaultMaxFileSizeKB)
	v.SetDefault("encodings", DefaultEncodings)
	v.SetDefault("extensions", DefaultExtensions)
	v.SetDefault("filenames", DefaultFilenames)
	v.SetDefault("ignore_names", DefaultIgnoreNames)
	v.SetDefault("reserved_suffixes", DefaultReservedSuffixes)
	v.SetDefault("gitignore", false)
	v.SetDefault("debug", false)
	return v
}

// Load reads configuration into a Config. When configFile is empty,
// .code2text.yaml is looked up in root and then in the user config directory;
// a missing file is not an error.
func Load(v *viper.Viper, configFile, root string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		if root != "" {
			v.AddConfigPath(root)
		}
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userConfigDir, "code2text"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if configFile == "" {
		if err := checkProjectOutput(cfg.File, root); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// checkProjectOutput rejects an output set by a config file found in the
// scanned root unless it is a local relative path. A project's own config
// must not direct the report outside the working directory.
func checkProjectOutput(used, root string) error {
	if used == "" || root == "" {
		return nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", root, err)
	}
	if filepath.Dir(used) != filepath.Clean(absRoot) {
		return nil
	}

	projectConfig := viper.New()
	projectConfig.SetConfigFile(used)
	if !slices.Contains(viper.SupportedExts, strings.TrimPrefix(filepath.Ext(used), ".")) {
		projectConfig.SetConfigType("yaml")
	}
	if err := projectConfig.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if !projectConfig.IsSet("output") {
		return nil
	}
	if output := projectConfig.GetString("output"); !filepath.IsLocal(output) {
		return fmt.Errorf("output %q in project config %s must be a relative path inside the working directory", output, used)
	}
	return nil
}

// Validate checks values that have no usable interpretation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output must not be empty")
	}
	if c.MaxFileSizeKB <= 0 {
		return fmt.Errorf("max_file_size_kb must be positive, got %d", c.MaxFileSizeKB)
	}
	return nil
}

// Rules returns the ignore policy described by the config.
func (c *Config) Rules() ignore.Rules {
	return ignore.Rules{
		Names:            c.IgnoreNames,
		ReservedSuffixes: c.ReservedSuffixes,
		Extensions:       c.Extensions,
		Filenames:        c.Filenames,
	}
}
