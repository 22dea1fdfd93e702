package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/actionviz/pkg/errors"
)

// MemoryStore keeps snapshots in a map. Contents are lost on exit.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]Snapshot)}
}

func (m *MemoryStore) Save(ctx context.Context, s Snapshot) (Snapshot, error) {
	s, err := Prepare(s)
	if err != nil {
		return Snapshot{}, err
	}
	s.Payload = append([]byte(nil), s.Payload...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.ID] = s
	return s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Snapshot, error) {
	if err := errors.ValidateSnapshotID(id); err != nil {
		return Snapshot{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, notFound(id)
	}
	return s, nil
}

func (m *MemoryStore) List(ctx context.Context, limit int) ([]Snapshot, error) {
	m.mu.RLock()
	out := make([]Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, summary(s))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := listLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
