package artifact

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// MemBackend is a thread-safe in-memory Backend for tests. Objects can be
// corrupted or removed out-of-band to exercise integrity and liveness
// failures.
type MemBackend struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{objects: make(map[string]memObject)}
}

func (b *MemBackend) EnsureBucket(_ context.Context) error {
	return nil
}

func (b *MemBackend) Put(_ context.Context, key string, data []byte, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	b.objects[key] = memObject{data: stored, contentType: contentType}
	return nil
}

func (b *MemBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (b *MemBackend) Stat(_ context.Context, key string) (ObjectInfo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	obj, ok := b.objects[key]
	if !ok {
		return ObjectInfo{}, ErrNotFound
	}
	return ObjectInfo{Key: key, Size: int64(len(obj.data))}, nil
}

func (b *MemBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *MemBackend) List(_ context.Context, prefix string) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var keys []string
	for key := range b.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Corrupt replaces the stored bytes for key without going through Put.
// Test hook for simulating backend corruption.
func (b *MemBackend) Corrupt(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if obj, ok := b.objects[key]; ok {
		obj.data = data
		b.objects[key] = obj
	}
}
