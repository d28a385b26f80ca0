package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value     []byte
	expiresAt time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryStore 进程内实现，单实例部署或测试使用
type MemoryStore struct {
	data sync.Map
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := m.data.Load(key)
	if !ok {
		return nil, ErrMiss
	}
	it := val.(item)
	if it.expired(m.now()) {
		m.data.Delete(key)
		return nil, ErrMiss
	}
	return it.value, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	it := item{value: value}
	if ttl > 0 {
		it.expiresAt = m.now().Add(ttl)
	}
	m.data.Store(key, it)
	return nil
}

func (m *MemoryStore) Take(ctx context.Context, key string) ([]byte, error) {
	val, ok := m.data.LoadAndDelete(key)
	if !ok {
		return nil, ErrMiss
	}
	it := val.(item)
	if it.expired(m.now()) {
		return nil, ErrMiss
	}
	return it.value, nil
}

func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		m.data.Delete(k)
	}
	return nil
}

// Sweep 清理过期键
func (m *MemoryStore) Sweep() int {
	now := m.now()
	removed := 0
	m.data.Range(func(key, val interface{}) bool {
		if val.(item).expired(now) {
			m.data.Delete(key)
			removed++
		}
		return true
	})
	return removed
}
