package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps one JSON file per entry, grouped by [Kind]:
//
//	<dir>/draw/ab/cdef….json
//	<dir>/artifact/12/3456….json
//
// so draw lists and rendered artifacts can be counted and cleared
// independently.
type FileCache struct {
	dir string
}

// NewFileCache opens (and creates) a file cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the entry for key. Corrupt and expired files are removed and
// reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var e fileEntry
	if err := json.Unmarshal(raw, &e); err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set writes the entry through a temp file so readers never see a partial
// draw list.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := time.Now()
	e := fileEntry{Key: key, Data: data, CreatedAt: now}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Delete removes the entry. A missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close is a no-op.
func (c *FileCache) Close() error { return nil }

// KindStats summarises the entries of one kind.
type KindStats struct {
	Kind    Kind
	Entries int
	Bytes   int64
	// Expired entries are still on disk until the next Get or Clear.
	Expired int
}

// Stats reports per-kind usage in [Kinds] order.
func (c *FileCache) Stats(ctx context.Context) ([]KindStats, error) {
	now := time.Now()
	out := make([]KindStats, 0, len(Kinds))
	for _, k := range Kinds {
		s := KindStats{Kind: k}
		err := c.walk(k, func(path string, info fs.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.Entries++
			s.Bytes += info.Size()
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			var e fileEntry
			if json.Unmarshal(raw, &e) != nil || e.expired(now) {
				s.Expired++
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Clear removes every entry of the given kinds, or of all kinds when none
// are given, and returns how many entries were removed.
func (c *FileCache) Clear(ctx context.Context, kinds ...Kind) (int, error) {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	n := 0
	for _, k := range kinds {
		err := c.walk(k, func(path string, _ fs.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if os.Remove(path) == nil {
				n++
			}
			return nil
		})
		if err != nil {
			return n, err
		}
		if err := os.RemoveAll(filepath.Join(c.dir, string(k))); err != nil {
			return n, err
		}
	}
	return n, nil
}

// walk visits the entry files of one kind. A kind with no directory yet has
// no entries.
func (c *FileCache) walk(k Kind, fn func(path string, info fs.FileInfo) error) error {
	root := filepath.Join(c.dir, string(k))
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		return fn(path, info)
	})
	return err
}

// path spreads entries over 256 subdirectories per kind.
func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, string(KindOf(key)), h[:2], h[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
