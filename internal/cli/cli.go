// Package cli implements the kmonadfmt command-line interface.
//
// # Commands
//
//   - fmt: align (deflayer) blocks to the (defsrc) grid
//   - width: pad every (defsrc) key to a fixed column width
//   - layer: generate a new (deflayer) block
//   - tree: render the parsed expression tree as DOT or SVG
//   - serve: expose the formatter over HTTP
//   - cache: manage the clean-file cache
//
// Settings come from kmonadfmt.toml (see package config); flags override
// them. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kmonadfmt/pkg/buildinfo"
	"github.com/matzehuels/kmonadfmt/pkg/cache"
	"github.com/matzehuels/kmonadfmt/pkg/config"
	errs "github.com/matzehuels/kmonadfmt/pkg/errors"
	"github.com/matzehuels/kmonadfmt/pkg/format"
	"github.com/matzehuels/kmonadfmt/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "kmonadfmt"

	// stdinPath stands for standard input in file arguments.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	columns    string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "kmonadfmt aligns kmonad keyboard layouts",
		Long:         `kmonadfmt formats kmonad .kbd configurations so that every (deflayer) block lines up with the key grid of the (defsrc) block.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./kmonadfmt.toml, then the user config dir)")
	root.PersistentFlags().StringVar(&c.columns, "columns", "", `column unit: "runes" or "cells" (overrides config)`)

	root.AddCommand(c.fmtCommand())
	root.AddCommand(c.widthCommand())
	root.AddCommand(c.layerCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies persistent flag overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.columns != "" {
		cfg.Columns = c.columns
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded settings, or defaults before loading.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// formatter creates a formatter for the configured column unit.
func (c *CLI) formatter() *format.Formatter {
	return format.New(nil, c.config().Unit())
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	store, err := newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, appName+":"+buildinfo.Version+":")
	r := pipeline.NewRunner(c.formatter(), store, keyer, c.Logger)
	r.Jobs = cfg.Jobs
	if cfg.Cache.TTL.Duration > 0 {
		r.TTL = cfg.Cache.TTL.Duration
	}
	return r, nil
}

func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.RedisURL, appName+":")
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/kmonadfmt/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// readSource reads path, or standard input for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		code := errs.ErrCodeInvalidPath
		if errors.Is(err, fs.ErrNotExist) {
			code = errs.ErrCodeFileNotFound
		}
		return "", errs.Wrap(code, err, "read %s", path)
	}
	return string(data), nil
}

// writeSource writes text back to path, or to the command output for stdin.
func writeSource(cmd *cobra.Command, path, text string) error {
	if path == stdinPath {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	return pipeline.WriteFile(path, text)
}
