// Package store persists graph payload snapshots so a rendered graph can be
// shared by URL.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for a single viewer session and tests
//   - [FileStore]: JSON files in a directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for a long-running viewer
//
// Every backend goes through [Prepare] on save, so a snapshot only enters a
// store if its payload decodes and normalizes.
//
//	snap, err := st.Save(ctx, store.Snapshot{Title: "nightly", Payload: data})
//	url := "/snapshots/" + snap.ID
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
)

// DefaultListLimit caps List when the caller passes no limit.
const DefaultListLimit = 50

// Snapshot is a stored payload and what was learned about it on save.
type Snapshot struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Version   int       `json:"version" bson:"version"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Edges     int       `json:"edges" bson:"edges"`
	Payload   []byte    `json:"payload,omitempty" bson:"payload"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for snapshot backends.
type Store interface {
	// Save validates and stores s, returning it with ID and CreatedAt set.
	Save(ctx context.Context, s Snapshot) (Snapshot, error)

	// Get returns the snapshot with the given id, or SNAPSHOT_NOT_FOUND.
	Get(ctx context.Context, id string) (Snapshot, error)

	// List returns up to limit snapshots, newest first, without payloads.
	// A limit of zero or less means DefaultListLimit.
	List(ctx context.Context, limit int) ([]Snapshot, error)

	// Close releases the backend.
	Close(ctx context.Context) error
}

// Prepare validates a snapshot about to be saved and fills in its id,
// version, element counts and creation time.
func Prepare(s Snapshot) (Snapshot, error) {
	if err := errors.ValidateTitle(s.Title); err != nil {
		return Snapshot{}, err
	}
	if len(s.Payload) == 0 {
		return Snapshot{}, errors.New(errors.ErrCodeInvalidPayload, "snapshot payload is empty")
	}

	p, err := graph.Decode(s.Payload)
	if err != nil {
		return Snapshot{}, err
	}
	elements, err := graph.Normalize(p)
	if err != nil {
		return Snapshot{}, err
	}

	s.ID = uuid.NewString()
	s.Version = p.Version()
	s.Nodes = len(elements.Nodes)
	s.Edges = len(elements.Edges)
	// Mongo stores milliseconds; truncate so every backend round-trips equal.
	s.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	return s, nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func summary(s Snapshot) Snapshot {
	s.Payload = nil
	return s
}
