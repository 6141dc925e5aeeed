package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
)

// MockStore is an in-memory implementation of Store and BlobStore for
// testing.
type MockStore struct {
	mu        sync.RWMutex
	rescues   map[string]rescue.RescueItem
	library   map[string]rescue.LibraryItem
	stories   map[string]rescue.Story
	blobs     map[string][]byte
	pingError error
}

// Ensure MockStore implements both collaborator interfaces
var (
	_ Store     = (*MockStore)(nil)
	_ BlobStore = (*MockStore)(nil)
)

// NewMockStore creates a new empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		rescues: make(map[string]rescue.RescueItem),
		library: make(map[string]rescue.LibraryItem),
		stories: make(map[string]rescue.Story),
		blobs:   make(map[string][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error.
func (m *MockStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// Ping mocks the store health check.
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks store shutdown.
func (m *MockStore) Close() error { return nil }

// GetRescue returns a rescue item, or nil when absent.
func (m *MockStore) GetRescue(ctx context.Context, id string) (*rescue.RescueItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item, ok := m.rescues[id]; ok {
		return &item, nil
	}
	return nil, nil
}

// ListRescues returns all rescue items.
func (m *MockStore) ListRescues(ctx context.Context) ([]rescue.RescueItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]rescue.RescueItem, 0, len(m.rescues))
	for _, item := range m.rescues {
		out = append(out, item)
	}
	return out, nil
}

// SaveRescue stores a rescue item.
func (m *MockStore) SaveRescue(ctx context.Context, item *rescue.RescueItem) error {
	if item == nil {
		return errors.New("rescue item cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rescues[item.ID] = *item
	return nil
}

// DeleteRescue removes a rescue item.
func (m *MockStore) DeleteRescue(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rescues, id)
	return nil
}

// GetLibraryItem returns a library item, or nil when absent.
func (m *MockStore) GetLibraryItem(ctx context.Context, id string) (*rescue.LibraryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item, ok := m.library[id]; ok {
		return &item, nil
	}
	return nil, nil
}

// ListLibraryItems returns every library item.
func (m *MockStore) ListLibraryItems(ctx context.Context) ([]rescue.LibraryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]rescue.LibraryItem, 0, len(m.library))
	for _, item := range m.library {
		out = append(out, item)
	}
	return out, nil
}

// ListLibraryChildren filters by parent id; nil selects root items.
func (m *MockStore) ListLibraryChildren(ctx context.Context, parentID *string) ([]rescue.LibraryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rescue.LibraryItem
	for _, item := range m.library {
		switch {
		case parentID == nil && item.ParentID == nil:
			out = append(out, item)
		case parentID != nil && item.ParentID != nil && *item.ParentID == *parentID:
			out = append(out, item)
		}
	}
	return out, nil
}

// SaveLibraryItem stores a library item.
func (m *MockStore) SaveLibraryItem(ctx context.Context, item *rescue.LibraryItem) error {
	if item == nil {
		return errors.New("library item cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.library[item.ID] = *item
	return nil
}

// DeleteLibraryItem removes a library item.
func (m *MockStore) DeleteLibraryItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.library, id)
	return nil
}

// GetStory returns a story, or nil when absent.
func (m *MockStore) GetStory(ctx context.Context, id string) (*rescue.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.stories[id]; ok {
		return &s, nil
	}
	return nil, nil
}

// ListStories returns the stories of a rescue item, ordered.
func (m *MockStore) ListStories(ctx context.Context, rescueID string) ([]rescue.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []rescue.Story
	for _, s := range m.stories {
		if s.RescueID == rescueID {
			out = append(out, s)
		}
	}
	rescue.SortStories(out)
	return out, nil
}

// SaveStory stores a story.
func (m *MockStore) SaveStory(ctx context.Context, story *rescue.Story) error {
	if story == nil {
		return errors.New("story cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[story.ID] = *story
	return nil
}

// DeleteStory removes a story.
func (m *MockStore) DeleteStory(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stories, id)
	return nil
}

// Upload stores blob bytes under a path.
func (m *MockStore) Upload(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.blobs[path] = buf
	return nil
}

// Download returns blob bytes, or nil when absent.
func (m *MockStore) Download(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.blobs[path]
	if !ok {
		return nil, nil
	}
	return data, nil
}

// Delete removes a blob.
func (m *MockStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, path)
	return nil
}
