// Package store persists graph documents for the HTTP API.
//
// Documents are saved under server-generated UUIDs. [MemoryStore] keeps them
// in process memory and [MongoStore] in a MongoDB collection; both implement
// [Store] and are safe for concurrent use.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/nodegraph/pkg/io"
)

// ErrNotFound is returned when no document exists for an ID.
var ErrNotFound = errors.New("document not found")

// Record is a stored document with its metadata.
type Record struct {
	ID        string      `json:"id" bson:"_id"`
	Hash      string      `json:"hash" bson:"hash"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	Document  io.Document `json:"document" bson:"document"`
}

// Store saves and loads graph documents.
type Store interface {
	// Save stores doc under a new ID and returns the record.
	Save(ctx context.Context, doc io.Document) (Record, error)
	// Load returns the record for id, or ErrNotFound.
	Load(ctx context.Context, id string) (Record, error)
	// List returns all records, oldest first.
	List(ctx context.Context) ([]Record, error)
	// Delete removes the record for id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Close releases resources held by the store.
	Close() error
}

func newRecord(doc io.Document) Record {
	return Record{
		ID:        uuid.NewString(),
		Hash:      io.Hash(doc),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Document:  doc,
	}
}
