package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Kind names what a cache entry holds. It is the key segment before the
// content hash.
type Kind string

const (
	KindDraw     Kind = "draw"
	KindArtifact Kind = "artifact"
	// KindOther collects keys that were not produced by a Keyer.
	KindOther Kind = "other"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindDraw, KindArtifact, KindOther}

// KindOf extracts the kind from a key of the form "[scope]kind:hash", so
// keys from a [ScopedKeyer] classify the same as unscoped ones.
func KindOf(key string) Kind {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return KindOther
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		head = head[j+1:]
	}
	switch k := Kind(head); k {
	case KindDraw, KindArtifact:
		return k
	}
	return KindOther
}

// hashKey returns "kind:sha256(json(parts))".
func hashKey(kind Kind, parts ...any) string {
	data, _ := json.Marshal(parts)
	return string(kind) + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Trees and draw lists are hashed with
// it before they become key components.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
