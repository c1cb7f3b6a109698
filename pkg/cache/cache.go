// Package cache provides byte caches for generated drawings.
//
// # Overview
//
// Generating a drawing is cheap, serializing it to PDF or DXF less so, and
// the HTTP API sees the same parameter sets over and over. The pipeline
// therefore caches two things:
//
//   - Documents: the laid-out [drawing.Document] as JSON, keyed by the
//     parameter hash and the layout options
//   - Artifacts: rendered bytes per output format, keyed by the document
//     hash and the format options
//
// # Implementations
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disables caching
//
// # Keys
//
// [Keyer] builds keys; [DefaultKeyer] hashes every option that changes the
// output so that no two distinct drawings share a key. [ScopedKeyer] adds a
// prefix when several deployments share one Redis database.
//
// [drawing.Document]: github.com/bridgegad/bridgegad/pkg/drawing.Document
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	TTLDocument = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque bytes under string keys.
//
// Get returns (nil, false, nil) on a miss. A ttl of zero means the entry
// does not expire. Implementations must be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
