package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeviz/pkg/cache"
)

// cacheCommand manages the local file cache. A configured Redis cache is
// shared and left alone.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the draw-list and artifact cache",
	}
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) openFileCache() (*cache.FileCache, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many draw lists and artifacts are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			stats, err := fc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, cacheStatsTable(stats))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func cacheStatsTable(stats []cache.KindStats) string {
	rows := make([][]string, 0, len(stats)+1)
	var total cache.KindStats
	for _, s := range stats {
		rows = append(rows, []string{string(s.Kind), strconv.Itoa(s.Entries), strconv.Itoa(s.Expired), humanBytes(int(s.Bytes))})
		total.Entries += s.Entries
		total.Expired += s.Expired
		total.Bytes += s.Bytes
	}
	rows = append(rows, []string{"total", strconv.Itoa(total.Entries), strconv.Itoa(total.Expired), humanBytes(int(total.Bytes))})
	last := len(rows) - 1
	return newTable([]string{"Kind", "Entries", "Expired", "Size"}, rows, func(row, col int) lipgloss.Style {
		switch {
		case row == last:
			return StyleTitle
		case col == 0:
			return StyleHighlight
		}
		return StyleNumber
	}).String()
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	var draws, artifacts bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached draw lists and artifacts",
		Long: `Remove cached draw lists and artifacts.

Without flags every entry is removed. --draws or --artifacts limit the clear
to one kind; artifacts are cheap to rebuild from a cached draw list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.redisURL != "" || c.Config.Cache.Redis != "" {
				printWarning("Redis cache is shared; only the local cache directory is cleared")
			}
			fc, err := c.openFileCache()
			if err != nil {
				return err
			}
			var kinds []cache.Kind
			if draws {
				kinds = append(kinds, cache.KindDraw)
			}
			if artifacts {
				kinds = append(kinds, cache.KindArtifact)
			}
			n, err := fc.Clear(cmd.Context(), kinds...)
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
	cmd.Flags().BoolVar(&draws, "draws", false, "only clear draw lists")
	cmd.Flags().BoolVar(&artifacts, "artifacts", false, "only clear rendered artifacts")
	return cmd
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
