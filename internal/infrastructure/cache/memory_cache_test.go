package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryCacheTTLBoundary(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(23 * time.Hour)
	c.now = clock.Now
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	clock.Advance(22*time.Hour + 59*time.Minute)
	if _, found, _ := c.Get(ctx, "k"); !found {
		t.Fatalf("entry should be readable at T+22h59m")
	}

	clock.Advance(2 * time.Minute)
	if _, found, _ := c.Get(ctx, "k"); found {
		t.Fatalf("entry should be absent at T+23h01m")
	}

	removed, err := c.Purge(ctx)
	if err != nil || removed != 1 || c.Len() != 0 {
		t.Fatalf("Purge() = %d, %v; len=%d", removed, err, c.Len())
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v1", 0)
	_ = c.Set(ctx, "k", "v2", 0)

	val, found, err := c.Get(ctx, "k")
	if err != nil || !found || val != "v2" {
		t.Fatalf("Get() = %q found=%v err=%v", val, found, err)
	}
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", "v", 0)
			_, _, _ = c.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
}
