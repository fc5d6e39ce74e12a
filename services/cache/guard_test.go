package cache

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mapCache is an in-memory CacheService for tests.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

var _ CacheService = (*mapCache)(nil)

func newMapCache() *mapCache {
	return &mapCache{data: make(map[string][]byte)}
}

func (m *mapCache) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return v, nil
}

func (m *mapCache) Set(key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func TestGuardBlocksAfterMark(t *testing.T) {
	guard := NewGuard(newMapCache(), time.Minute)

	assert.False(t, guard.Blocked("B001"))
	guard.Mark("B001")
	assert.True(t, guard.Blocked("B001"))
	assert.False(t, guard.Blocked("B002"))
}

func TestGuardDisabled(t *testing.T) {
	var nilGuard *Guard
	assert.False(t, nilGuard.Blocked("B001"))
	nilGuard.Mark("B001")

	noTTL := NewGuard(newMapCache(), 0)
	noTTL.Mark("B001")
	assert.False(t, noTTL.Blocked("B001"))

	noSvc := NewGuard(nil, time.Minute)
	noSvc.Mark("B001")
	assert.False(t, noSvc.Blocked("B001"))
}
