// Package cache provides caching for computed draw lists and rendered
// artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP server and multiple CLIs
//   - [NewNullCache]: caching disabled
//
// # Keys
//
// Keys are produced by a [Keyer] so that the CLI and the HTTP server agree on
// what constitutes "the same" draw list: the tree content hash, the layout
// name, the resolved settings and the palette options. [ScopedKeyer] adds a
// namespace prefix.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLDraw     = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl ≤ 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes the entry. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// DrawKey identifies a draw list computed from a tree.
	DrawKey(treeHash string, opts DrawKeyOpts) string
	// ArtifactKey identifies a rendered output of a draw list.
	ArtifactKey(drawHash string, opts ArtifactKeyOpts) string
}

// DrawKeyOpts are the inputs besides the tree that determine a draw list.
type DrawKeyOpts struct {
	Layout   string         `json:"layout"`
	Settings map[string]any `json:"settings,omitempty"`
	Palette  any            `json:"palette,omitempty"`
}

// ArtifactKeyOpts are the inputs besides the draw list that determine a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      int     `json:"width,omitempty"`
	Height     int     `json:"height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	// TreeHash is set for formats rendered from the tree rather than the
	// draw list (dot, nodelink).
	TreeHash string `json:"tree_hash,omitempty"`
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DrawKey returns "draw:<sha256>".
func (DefaultKeyer) DrawKey(treeHash string, opts DrawKeyOpts) string {
	return hashKey(KindDraw, treeHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(drawHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, drawHash, opts)
}

// NewNullCache returns a cache that never stores anything.
func NewNullCache() Cache { return nullCache{} }

type nullCache struct{}

func (nullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error { return nil }
func (nullCache) Close() error { return nil }
