package gocache_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-l10n/internal/adapters/gocache"
)

func TestProviderStoresAndExpires(t *testing.T) {
	ctx := context.Background()
	cache := gocache.New(time.Minute)

	if value, err := cache.Get(ctx, "missing"); value != nil || err != nil {
		t.Fatalf("expected miss, got %v %v", value, err)
	}
	if err := cache.Set(ctx, "/projects/monitor/insights", 42, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, _ := cache.Get(ctx, "/projects/monitor/insights"); value != 42 {
		t.Fatalf("expected cached value, got %v", value)
	}

	if err := cache.Set(ctx, "short", "x", time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if value, _ := cache.Get(ctx, "short"); value != nil {
		t.Fatalf("expected expired entry, got %v", value)
	}

	if err := cache.Delete(ctx, "/projects/monitor/insights"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if value, _ := cache.Get(ctx, "/projects/monitor/insights"); value != nil {
		t.Fatalf("expected deleted entry, got %v", value)
	}
}

func TestProviderClear(t *testing.T) {
	ctx := context.Background()
	cache := gocache.New(0)
	_ = cache.Set(ctx, "a", 1, 0)
	_ = cache.Set(ctx, "b", 2, 0)
	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if value, _ := cache.Get(ctx, "a"); value != nil {
		t.Fatalf("expected cleared cache, got %v", value)
	}
}
