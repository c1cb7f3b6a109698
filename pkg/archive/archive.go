// Package archive records the drawings that were generated.
//
// Each successful generation produces a [Record]: which parameter set was
// drawn, into which formats, and when. The CLI keeps its history in a local
// SQLite file; the HTTP server can point at MongoDB so that several
// instances share one history.
//
// # Implementations
//
//   - [SQLiteStore]: sqlx over the pure-Go SQLite driver
//   - [MongoStore]: one document per record in a collection
//   - [MemoryStore]: process-local, for tests and ephemeral servers
//
// All stores return [ErrNotFound] for unknown IDs and list records newest
// first.
package archive

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 20

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Record describes one generated drawing.
type Record struct {
	ID         string             `json:"id" bson:"_id"`
	DocumentID string             `json:"document_id" bson:"document_id"`
	Title      string             `json:"title" bson:"title"`
	Project    string             `json:"project" bson:"project"`
	Spans      int                `json:"spans" bson:"spans"`
	Length     float64            `json:"length" bson:"length"`
	Formats    []string           `json:"formats" bson:"formats"`
	ParamsHash string             `json:"params_hash" bson:"params_hash"`
	Params     map[string]float64 `json:"params" bson:"params"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
}

// NewRecord builds a record for doc drawn from set. CreatedAt is truncated
// to milliseconds, the resolution every store keeps.
func NewRecord(doc *drawing.Document, set *params.Set, paramsHash string, formats []string) *Record {
	return &Record{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Title:      doc.Meta.Title,
		Project:    doc.Meta.Project,
		Spans:      doc.Meta.Spans,
		Length:     doc.Meta.Length,
		Formats:    append([]string(nil), formats...),
		ParamsHash: paramsHash,
		Params:     set.Map(),
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
}

// Store persists records.
type Store interface {
	// Save inserts rec. Saving an ID twice is an error.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit <= 0 means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes a record. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
