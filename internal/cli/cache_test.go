package cli

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeviz/pkg/cache"
)

// seedCache stores two draw lists and one artifact in the CLI's cache dir.
func seedCache(t *testing.T) *cache.FileCache {
	t.Helper()
	isolateConfig(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(os.Stderr, log.InfoLevel)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	k := cache.NewDefaultKeyer()
	ctx := context.Background()
	for _, l := range []string{"sunburst", "treemap"} {
		if err := fc.Set(ctx, k.DrawKey("tree", cache.DrawKeyOpts{Layout: l}), []byte("[]"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}
	if err := fc.Set(ctx, k.ArtifactKey("draw", cache.ArtifactKeyOpts{Format: "svg"}), []byte("<svg/>"), time.Hour); err != nil {
		t.Fatal(err)
	}
	return fc
}

func runCacheCommand(t *testing.T, args ...string) string {
	t.Helper()
	buf := captureStdout(t)
	c := New(os.Stderr, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(append([]string{"cache"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("cache %v: %v", args, err)
	}
	return buf.String()
}

func TestCacheStatsCommand(t *testing.T) {
	seedCache(t)
	out := runCacheCommand(t, "stats")
	for _, want := range []string{"draw", "artifact", "total", "Directory:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output lacks %q:\n%s", want, out)
		}
	}
}

func TestCacheClearCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      string
		draws     int
		artifacts int
	}{
		{"artifacts only", []string{"--artifacts"}, "Cleared 1 cached entries", 2, 0},
		{"draw lists only", []string{"--draws"}, "Cleared 2 cached entries", 0, 1},
		{"everything", nil, "Cleared 3 cached entries", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := seedCache(t)
			out := runCacheCommand(t, append([]string{"clear"}, tt.args...)...)
			if !strings.Contains(out, tt.want) {
				t.Errorf("clear output = %q, want %q", out, tt.want)
			}
			stats, err := fc.Stats(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			got := map[cache.Kind]int{}
			for _, s := range stats {
				got[s.Kind] = s.Entries
			}
			if got[cache.KindDraw] != tt.draws || got[cache.KindArtifact] != tt.artifacts {
				t.Errorf("left draw=%d artifact=%d, want %d %d", got[cache.KindDraw], got[cache.KindArtifact], tt.draws, tt.artifacts)
			}
		})
	}

	t.Run("empty", func(t *testing.T) {
		isolateConfig(t)
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		if out := runCacheCommand(t, "clear"); !strings.Contains(out, "Cache is empty") {
			t.Errorf("clear on empty cache = %q", out)
		}
	})
}
