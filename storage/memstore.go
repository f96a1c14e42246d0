package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/wkalt/dircloud/util"
)

/*
MemStore is an in-memory storage provider backed by a map. It is only suitable
for tests.
*/

////////////////////////////////////////////////////////////////////////////////

// MemStore is an in-memory store.
type MemStore struct {
	data     map[string][]byte
	modified map[string]time.Time
	mtx      *sync.RWMutex
}

// NewMemStore returns a new in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		data:     make(map[string][]byte),
		modified: make(map[string]time.Time),
		mtx:      &sync.RWMutex{},
	}
}

// Put stores an object in the store.
func (m *MemStore) Put(_ context.Context, id string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.data[id] = data
	m.modified[id] = time.Now()
	return nil
}

// ModTime returns the time the object was last stored.
func (m *MemStore) ModTime(_ context.Context, id string) (time.Time, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	t, ok := m.modified[id]
	if !ok {
		return time.Time{}, ErrObjectNotFound
	}
	return t, nil
}

// Get retrieves an object from the store.
func (m *MemStore) Get(_ context.Context, id string) (io.ReadCloser, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	data, ok := m.data[id]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// List returns the ids of all stored objects in sorted order.
func (m *MemStore) List(_ context.Context) ([]string, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return util.Okeys(m.data), nil
}

func (m *MemStore) String() string {
	return "memory"
}
