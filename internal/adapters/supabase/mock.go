package supabase

import (
	"context"
	"sync"
)

// MockObjectStorage is an in-memory implementation of ObjectStorage for testing
type MockObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]*mockObject

	// StoreErr, when set, is returned by every Store call
	StoreErr error
}

type mockObject struct {
	data        []byte
	contentType string
	upsert      bool
}

// NewMockObjectStorage creates a new MockObjectStorage instance
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{
		objects: make(map[string]*mockObject),
	}
}

// Store implements ObjectStorage.Store
func (m *MockObjectStorage) Store(ctx context.Context, bucket, path string, data []byte, opts *StoreOptions) error {
	if !validObjectPath(bucket, path) {
		return NewStorageError("Store", bucket+"/"+path, ErrInvalidPath)
	}
	if m.StoreErr != nil {
		return m.StoreErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	obj := &mockObject{data: append([]byte(nil), data...)}
	if opts != nil {
		obj.contentType = opts.ContentType
		obj.upsert = opts.Upsert
	}
	m.objects[bucket+"/"+path] = obj
	return nil
}

// PublicURL implements ObjectStorage.PublicURL
func (m *MockObjectStorage) PublicURL(bucket, path string) string {
	return "mock://storage/public/" + bucket + "/" + path
}

// Additional methods for testing

// Keys returns the bucket-qualified keys of every stored object
func (m *MockObjectStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

// Object returns the stored data and content type for key
func (m *MockObjectStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, exists := m.objects[key]
	if !exists {
		return nil, "", false
	}
	return append([]byte(nil), obj.data...), obj.contentType, true
}

// ObjectCount returns the number of stored objects
func (m *MockObjectStorage) ObjectCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// Reset clears all stored objects
func (m *MockObjectStorage) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string]*mockObject)
}
