package auth

import (
	"sync"

	"hashfeed/pkg/feed"
)

// MockStore implements CredentialStore in memory for tests
type MockStore struct {
	creds map[feed.Platform]*Credentials
	mu    sync.RWMutex

	// Error injection for testing
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

// NewMockStore creates a new mock credential store
func NewMockStore() *MockStore {
	return &MockStore{
		creds: make(map[feed.Platform]*Credentials),
	}
}

// Store saves a copy of creds
func (m *MockStore) Store(creds *Credentials) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	if creds == nil || creds.Platform == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c := *creds
	m.creds[creds.Platform] = &c
	return nil
}

// Retrieve returns a copy of the stored credentials
func (m *MockStore) Retrieve(platform feed.Platform) (*Credentials, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}
	if platform == "" {
		return nil, ErrInvalidCredentials
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	creds, ok := m.creds[platform]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	c := *creds
	return &c, nil
}

// List returns copies of all stored credentials
func (m *MockStore) List() ([]*Credentials, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Credentials, 0, len(m.creds))
	for _, creds := range m.creds {
		c := *creds
		list = append(list, &c)
	}
	return list, nil
}

// Delete removes credentials for platform
func (m *MockStore) Delete(platform feed.Platform) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.creds[platform]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.creds, platform)
	return nil
}

// Exists checks if credentials exist in the mock store
func (m *MockStore) Exists(platform feed.Platform) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.creds[platform]
	return ok
}

// Count returns the number of stored credential sets
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.creds)
}

// NewMockManager creates a Manager with a mock store for testing
func NewMockManager() (*Manager, *MockStore) {
	store := NewMockStore()
	return NewManagerWithStores(store), store
}
