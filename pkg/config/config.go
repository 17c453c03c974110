// Package config loads treeviz configuration files.
//
// Configuration is TOML. Every section is optional; absent keys keep their
// defaults:
//
//	[palette]
//	name = "alt"
//	gradient = "hsv"
//	per_subtree = true
//	color_mode = true
//
//	[output]
//	width = 1600
//	height = 900
//	scale = 2.0
//
//	[layouts.sunburst]
//	baseRadius = 80
//	sliceMargin = 2
//
//	[cache]
//	dir = "~/.cache/treeviz"
//	redis = "redis://localhost:6379/0"
//	prefix = "treeviz:"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//
// A Config is a plain value: callers pass the pieces they need into layouts
// and sessions explicitly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/treeviz/pkg/cache"
	"github.com/matzehuels/treeviz/pkg/draw"
	"github.com/matzehuels/treeviz/pkg/errors"
	"github.com/matzehuels/treeviz/pkg/layout"
	"github.com/matzehuels/treeviz/pkg/palette"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Config is the decoded configuration.
type Config struct {
	Palette palette.Options            `toml:"palette"`
	Output  Output                     `toml:"output"`
	Layouts map[string]layout.Settings `toml:"layouts"`
	Cache   Cache                      `toml:"cache"`
	Server  Server                     `toml:"server"`
}

// Output controls artifact size.
type Output struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	Scale  float64 `toml:"scale"`
}

// Cache selects and tunes the cache backend.
type Cache struct {
	Dir    string `toml:"dir"`
	Redis  string `toml:"redis"`
	Prefix string `toml:"prefix"`
	TTL    string `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Palette: palette.DefaultOptions(),
		Output:  Output{Width: draw.LogicalWidth, Height: draw.LogicalHeight, Scale: 1},
		Layouts: map[string]layout.Settings{},
		Cache:   Cache{TTL: cache.TTLDraw.String()},
		Server:  Server{Addr: ":8080"},
	}
}

// DefaultPath returns the config file path under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "treeviz", FileName), nil
}

// Load reads path on top of [Default] and validates the result. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the config at [DefaultPath] if it exists and returns
// [Default] otherwise.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Decode parses TOML from a string. Used for inline configuration and tests.
func Decode(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	var unknown []string
	for _, k := range md.Undecoded() {
		// Layout settings are free-form maps; their keys are checked in Validate.
		if len(k) > 0 && k[0] == "layouts" {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "unknown config keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// Validate checks palette, output, cache and every layout section.
func (c Config) Validate() error {
	if !slices.Contains(palette.Names(), c.Palette.Name) {
		return errors.New(errors.ErrCodeInvalidSettings, "unknown palette %q (want one of %s)",
			c.Palette.Name, strings.Join(palette.Names(), ", "))
	}
	switch c.Palette.Gradient {
	case palette.GradientHSV, palette.GradientRGB:
	default:
		return errors.New(errors.ErrCodeInvalidSettings, "unknown gradient %q", c.Palette.Gradient)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "output size must be positive, got %dx%d", c.Output.Width, c.Output.Height)
	}
	if c.Output.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "output scale must be positive, got %v", c.Output.Scale)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	names := make([]string, 0, len(c.Layouts))
	for name := range c.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		l, err := layout.Get(name)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "[layouts.%s]", name)
		}
		if err := l.Schema().Validate(c.Layouts[name]); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSettings, err, "[layouts.%s]", name)
		}
	}
	return nil
}

// CacheTTL parses the cache ttl. An empty value means no expiry.
func (c Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSettings, err, "cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}

// LayoutSettings returns the configured settings for name with overrides
// applied on top. The result is not resolved against the schema.
func (c Config) LayoutSettings(name string, overrides layout.Settings) layout.Settings {
	out := layout.Settings{}
	for k, v := range c.Layouts[name] {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// CacheDir returns the configured cache directory with a leading ~ expanded,
// or the user cache directory when unset.
func (c Config) CacheDir() (string, error) {
	dir := c.Cache.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("user cache dir: %w", err)
		}
		return filepath.Join(base, "treeviz"), nil
	}
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return dir, nil
}

// Encode writes c as TOML.
func (c Config) Encode() (string, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
