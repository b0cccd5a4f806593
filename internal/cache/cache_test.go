package cache

import (
	"testing"
	"time"

	"go.uber.org/goleak"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b to be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("expected a=1, got %v %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("expected size 2, got %d", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string](10, time.Minute)
	c.now = clock.now

	c.Set("k", "v")
	c.Set("other", "v")
	clock.t = clock.t.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected k to be expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("expected 1 expired entry cleaned, got %d", n)
	}
	if c.Size() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Size())
	}
}

func TestLRUCachePurge(t *testing.T) {
	c := NewLRUCache[int](10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Size() != 0 {
		t.Fatalf("expected empty cache after purge")
	}
	c.Set("a", 3)
	if v, _ := c.Get("a"); v != 3 {
		t.Fatalf("cache unusable after purge")
	}
}

func TestManagerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{t: time.Now()}
	c := NewLRUCache[int](10, time.Millisecond)
	c.now = clock.now
	c.Set("a", 1)
	clock.t = clock.t.Add(time.Second)

	m := NewManager(nil)
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected sweep to remove 1, got %d", n)
	}
	m.StartCleanup(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	m.Stop()
	m.Stop()
}
