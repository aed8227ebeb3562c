package checkpoint

import (
	"context"
	"sync"

	"github.com/wikimedia/restbase-cassandra/types"
)

// Memory is an in-process checkpoint store.
//
// Checkpoints live in a map and vanish with the process. Useful for tests
// and for single-run tooling that only needs resumption after a consumer
// error within one process lifetime.
type Memory struct {
	mu      sync.RWMutex
	cursors map[string]types.Cursor
	closed  bool
}

// NewMemory creates an empty in-memory checkpoint store.
//
// Returns:
//   - *Memory: A new store
func NewMemory() *Memory {
	return &Memory{cursors: make(map[string]types.Cursor)}
}

// Save stores a snapshot of the cursor under the given name.
func (m *Memory) Save(_ context.Context, name string, cursor types.Cursor) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrScannerClosed
	}

	m.cursors[name] = cursor.Clone()

	return nil
}

// Load returns the cursor saved under the given name.
func (m *Memory) Load(_ context.Context, name string) (types.Cursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cursor, ok := m.cursors[name]
	if !ok {
		return types.Cursor{}, types.ErrCheckpointNotFound
	}

	return cursor.Clone(), nil
}

// Close discards all checkpoints and rejects further saves.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.cursors = make(map[string]types.Cursor)

	return nil
}
