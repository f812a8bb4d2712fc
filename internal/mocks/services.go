package mocks

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/community-cms-api/internal/models"
	"github.com/community-cms-api/internal/service"
	"github.com/community-cms-api/internal/storage"
)

// MockReviewSource is a mock implementation of service.ReviewSource
type MockReviewSource struct {
	Reviews    []*models.GoogleReview
	FetchError error
	Calls      int
}

var _ service.ReviewSource = (*MockReviewSource)(nil)

func (m *MockReviewSource) FetchReviews(ctx context.Context) ([]*models.GoogleReview, error) {
	m.Calls++
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	reviews := make([]*models.GoogleReview, 0, len(m.Reviews))
	for _, r := range m.Reviews {
		out := *r
		reviews = append(reviews, &out)
	}
	return reviews, nil
}

type memoryBlob struct {
	data        []byte
	contentType string
	modified    time.Time
}

// MemoryBlobStore is an in-memory storage.BlobStore
type MemoryBlobStore struct {
	mu       sync.Mutex
	blobs    map[string]*memoryBlob
	PutError error
	Removed  []string
}

var _ storage.BlobStore = (*MemoryBlobStore)(nil)

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]*memoryBlob)}
}

func (m *MemoryBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if m.PutError != nil {
		return m.PutError
	}
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = &memoryBlob{data: data, contentType: contentType, modified: time.Now()}
	return nil
}

func (m *MemoryBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b.data)), &storage.ObjectInfo{
		Key:          key,
		Size:         int64(len(b.data)),
		ContentType:  b.contentType,
		LastModified: b.modified,
	}, nil
}

func (m *MemoryBlobStore) Remove(ctx context.Context, key string) error {
	key, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	m.Removed = append(m.Removed, key)
	return nil
}

func (m *MemoryBlobStore) List(ctx context.Context) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]storage.ObjectInfo, 0, len(m.blobs))
	for key, b := range m.blobs {
		objects = append(objects, storage.ObjectInfo{
			Key:          key,
			Size:         int64(len(b.data)),
			ContentType:  b.contentType,
			LastModified: b.modified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// Has reports whether key is stored
func (m *MemoryBlobStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok
}

// Age backdates key so sweeps see it as old
func (m *MemoryBlobStore) Age(key string, by time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.blobs[key]; ok {
		b.modified = b.modified.Add(-by)
	}
}

// Len returns the number of stored blobs
func (m *MemoryBlobStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
