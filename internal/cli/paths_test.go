package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := New(os.Stderr, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	t.Setenv("XDG_CACHE_HOME", customCache)
	c := New(os.Stderr, log.InfoLevel)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "config.toml")
	want := filepath.Join(t.TempDir(), "draws")
	if err := os.WriteFile(c.configPath, []byte("[cache]\ndir = \""+want+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.loadConfig(); err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	c := New(os.Stderr, log.InfoLevel)
	c.configPath = filepath.Join(t.TempDir(), "missing.toml")
	if err := c.loadConfig(); err == nil {
		t.Error("loadConfig() with a missing --config file should fail")
	}
}
