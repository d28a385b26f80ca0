package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"laboutique_erp_202610/pkg/config"
)

func TestMemoryStore_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	if err := m.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %s, %v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get() after expiry error = %v, want ErrMiss", err)
	}

	_ = m.Set(ctx, "forever", []byte("x"), 0)
	now = now.Add(24 * time.Hour)
	if _, err := m.Get(ctx, "forever"); err != nil {
		t.Errorf("zero ttl should never expire: %v", err)
	}
}

func TestMemoryStore_Take(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.Set(ctx, "state", []byte("1"), time.Minute)

	if _, err := m.Take(ctx, "state"); err != nil {
		t.Fatalf("first Take() error = %v", err)
	}
	if _, err := m.Take(ctx, "state"); !errors.Is(err, ErrMiss) {
		t.Errorf("second Take() error = %v, want ErrMiss", err)
	}
}

func TestMemoryStore_DeleteAndSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemoryStore()
	m.now = func() time.Time { return now }

	_ = m.Set(ctx, "a", []byte("1"), time.Second)
	_ = m.Set(ctx, "b", []byte("2"), time.Hour)
	_ = m.Set(ctx, "c", []byte("3"), time.Hour)
	_ = m.Delete(ctx, "c")

	now = now.Add(time.Minute)
	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if _, err := m.Get(ctx, "b"); err != nil {
		t.Errorf("b should survive: %v", err)
	}
	if _, err := m.Get(ctx, "c"); !errors.Is(err, ErrMiss) {
		t.Errorf("c should be deleted")
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	type payload struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := SetJSON(ctx, m, "p", payload{ID: 7, Name: "lamp"}, time.Minute); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}
	var out payload
	if err := GetJSON(ctx, m, "p", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out.ID != 7 || out.Name != "lamp" {
		t.Errorf("GetJSON() = %+v", out)
	}
}

func TestNew_FallbackToMemory(t *testing.T) {
	s := New(context.Background(), config.RedisConfig{}, "lb:")
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("New() without addr = %T, want *MemoryStore", s)
	}
}
