package testutils

import (
	"context"
	"errors"
	"io"
	"sync"
)

// ErrBlobUnavailable is returned by MemoryBlobs when a failure is injected.
var ErrBlobUnavailable = errors.New("blob storage unavailable")

// MemoryBlobs is an in-memory blob store with switchable failures.
type MemoryBlobs struct {
	mu         sync.Mutex
	blobs      map[string][]byte
	FailSave   bool
	FailDelete bool
}

func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{blobs: make(map[string][]byte)}
}

func (m *MemoryBlobs) Save(ctx context.Context, key string, r io.Reader) (int64, error) {
	if m.FailSave {
		return 0, ErrBlobUnavailable
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return int64(len(data)), nil
}

func (m *MemoryBlobs) Delete(ctx context.Context, key string) error {
	if m.FailDelete {
		return ErrBlobUnavailable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryBlobs) URL(key string) string {
	return "/media/" + key
}

// Has reports whether key is stored.
func (m *MemoryBlobs) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok
}

// Len returns the number of stored blobs.
func (m *MemoryBlobs) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
