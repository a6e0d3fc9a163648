package overlay

import (
	"context"
	"sync"
)

// MemoryStore keeps the overlay in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu          sync.Mutex
	blob        string
	ok          bool
	quarantined []string
}

// NewMemoryStore returns an empty in-memory overlay.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ReadBlob(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blob, m.ok, nil
}

func (m *MemoryStore) WriteBlob(ctx context.Context, blob string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = blob
	m.ok = true
	return nil
}

func (m *MemoryStore) QuarantineBlob(ctx context.Context, blob string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quarantined = append(m.quarantined, blob)
	return nil
}

// Quarantined returns the corrupt blobs set aside so far.
func (m *MemoryStore) Quarantined() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.quarantined))
	copy(out, m.quarantined)
	return out
}
