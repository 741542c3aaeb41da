package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewBackends(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, &Config{Backend: BackendNone})
	if err != nil || c != nil {
		t.Errorf("New(none) = %v, %v; want nil, nil", c, err)
	}

	c, err = New(ctx, &Config{Backend: "MEMORY", MaxSize: 10, TTL: time.Minute})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("New(memory) = %T, want *MemoryCache", c)
	}

	if _, err := New(ctx, &Config{Backend: "memcached"}); err == nil {
		t.Error("New(memcached) should fail")
	}

	if _, err := New(ctx, &Config{Backend: BackendRedis, RedisURL: "not-a-url://"}); err == nil {
		t.Error("New(redis) with bad URL should fail")
	}
}

func TestNewNilConfig(t *testing.T) {
	c, err := New(context.Background(), nil)
	if err != nil || c != nil {
		t.Errorf("New(nil) = %v, %v; want disabled cache", c, err)
	}
}

func TestKeyStable(t *testing.T) {
	a := Key("search", "apache", "1")
	b := Key("search", "apache", "1")
	c := Key("search", "apache1", "")

	if a != b {
		t.Error("Key() should be deterministic")
	}
	if a == c {
		t.Error("Key() should separate parts")
	}
	if len(a) != 32 {
		t.Errorf("len(Key()) = %d, want 32", len(a))
	}
}

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(missing) error = %v, want ErrMiss", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Errorf("Get(k) = %q, %v", got, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get after Delete error = %v, want ErrMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	c.Set(ctx, "short", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, err := c.Get(ctx, "short"); !errors.Is(err, ErrMiss) {
		t.Errorf("Get(expired) error = %v, want ErrMiss", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, expired item should be dropped", c.Len())
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	c.Set(ctx, "first", []byte("1"), time.Second)
	c.Set(ctx, "second", []byte("2"), time.Hour)
	c.Set(ctx, "third", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, err := c.Get(ctx, "first"); !errors.Is(err, ErrMiss) {
		t.Error("item closest to expiry should have been evicted")
	}

	// Overwriting an existing key must not evict
	c.Set(ctx, "second", []byte("2b"), time.Hour)
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", c.Len())
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	type payload struct {
		Total int `json:"total"`
	}
	if err := SetJSON(ctx, c, "p", payload{Total: 7}, 0); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var got payload
	if err := GetJSON(ctx, c, "p", &got); err != nil || got.Total != 7 {
		t.Errorf("GetJSON() = %+v, %v", got, err)
	}

	if err := GetJSON(ctx, c, "absent", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("GetJSON(absent) error = %v, want ErrMiss", err)
	}
}

func TestMemoryCacheClose(t *testing.T) {
	c := NewMemoryCache(10, time.Minute)
	c.Set(context.Background(), "k", []byte("v"), 0)
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if c.Len() != 0 {
		t.Error("Close() should empty the cache")
	}
}
