// Package cli implements the treeviz command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/buildinfo"
	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/config"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "treeviz"

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
	Config config.Config

	configPath string
	noCache    bool
	redisURL   string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// configuration. The config file is loaded before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Treeviz draws hierarchical data as space-filling diagrams",
		Long: `Treeviz lays out a tree (sunburst, Pythagoras tree, treemap) as a list of
draw commands and renders it to JSON, SVG or PNG, in an OpenGL window, or
over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// -v takes effect before the config file is read.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: user config dir/treeviz/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")
	root.PersistentFlags().StringVar(&c.redisURL, "redis", "", "redis URL for a shared cache (overrides [cache] redis)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the default config file when present.
func (c *CLI) loadConfig() error {
	var (
		cfg config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.Load(c.configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	ttl, err := c.Config.CacheTTL()
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = ttl
	return r, nil
}

// newCache picks the cache backend: none, Redis when a URL is configured,
// otherwise the file cache. An unusable cache directory disables caching.
func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	url := c.redisURL
	if url == "" {
		url = c.Config.Cache.Redis
	}
	if url != "" {
		rc, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Debug("using redis cache")
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, defaulting to the user
// cache directory (~/.cache/treeviz/ on Linux, honoring XDG_CACHE_HOME).
func (c *CLI) cacheDir() (string, error) {
	return c.Config.CacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options from the configuration. File
// settings for the layout are merged under overrides.
func (c *CLI) pipelineOptions(layoutName string, overrides layout.Settings) pipeline.Options {
	opts := pipeline.Options{
		Layout:   layoutName,
		Settings: c.Config.LayoutSettings(layoutName, overrides),
		Palette:  c.Config.Palette,
		Width:    c.Config.Output.Width,
		Height:   c.Config.Output.Height,
		Scale:    c.Config.Output.Scale,
		Logger:   c.Logger,
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
