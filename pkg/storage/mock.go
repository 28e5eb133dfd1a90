package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jwebster45206/hearth/pkg/house"
)

// MockStorage is an in-memory Storage for tests and local runs.
type MockStorage struct {
	mu        sync.RWMutex
	saves     map[uuid.UUID][]byte
	pingError error
	saveError error
}

var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		saves: make(map[uuid.UUID][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error;
// nil restores success.
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every SaveHouses call fail with err.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

// SaveHouses stores the encoded payload so later mutations of sd are not
// visible through LoadHouses.
func (m *MockStorage) SaveHouses(ctx context.Context, id uuid.UUID, sd house.SaveData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	data, err := json.Marshal(sd)
	if err != nil {
		return fmt.Errorf("failed to marshal house save data: %w", err)
	}
	m.saves[id] = data
	return nil
}

func (m *MockStorage) LoadHouses(ctx context.Context, id uuid.UUID) (*house.SaveData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.saves[id]
	if !ok {
		return nil, nil
	}
	sd, err := house.ParseSaveData(data)
	if err != nil {
		return nil, err
	}
	return &sd, nil
}

func (m *MockStorage) DeleteHouses(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, id)
	return nil
}

func (m *MockStorage) ListSaves(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(m.saves))
	for id := range m.saves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

// Count returns the number of stored slots.
func (m *MockStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saves)
}
