package cache_test

import (
	"testing"
	"time"

	"github.com/finassist/dashboard-bff-go/internal/infra/cache"
)

func TestCache_SetGet(t *testing.T) {
	c := cache.New[string](1 * time.Minute)

	c.Set("summary:09", "cached")
	got, ok := c.Get("summary:09")
	if !ok || got != "cached" {
		t.Errorf("got (%q, %v), want (\"cached\", true)", got, ok)
	}

	if _, ok := c.Get("summary:10"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := cache.New[int](10 * time.Millisecond)

	c.Set("k", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[int](1 * time.Minute)

	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after delete")
	}
}

func TestCache_DeletePrefix(t *testing.T) {
	c := cache.New[int](1 * time.Minute)

	c.Set("report:09:summary", 1)
	c.Set("report:09:daily", 2)
	c.Set("report:10:summary", 3)

	c.DeletePrefix("report:09:")

	if _, ok := c.Get("report:09:summary"); ok {
		t.Error("expected report:09:summary to be gone")
	}
	if _, ok := c.Get("report:09:daily"); ok {
		t.Error("expected report:09:daily to be gone")
	}
	if _, ok := c.Get("report:10:summary"); !ok {
		t.Error("expected report:10:summary to survive")
	}
}
