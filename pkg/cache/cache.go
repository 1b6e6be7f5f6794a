// Package cache provides byte-level caching for built trees and rendered
// artifacts.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for multiple `orgtree serve` instances
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] from a content hash of the input document,
// so a changed position or relationship always misses.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL is how long built trees and artifacts are kept.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte values with an optional time-to-live.
// A ttl of zero means the entry does not expire.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// TreeKey identifies a build of the document with the given content hash.
	TreeKey(docHash string, includeInactive bool) string
	// ArtifactKey identifies one rendered output of a built tree.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
}

// DefaultKeyer produces "tree:<hash>" and "artifact:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TreeKey hashes the document hash together with the inactive flag.
func (DefaultKeyer) TreeKey(docHash string, includeInactive bool) string {
	return hashKey("tree", docHash, includeInactive)
}

// ArtifactKey hashes the tree hash together with the render options.
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}

var _ Keyer = DefaultKeyer{}
