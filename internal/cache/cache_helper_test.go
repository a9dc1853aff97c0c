package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) *CacheHelper {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewCacheHelper(client, "test")
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheHelper_SetAndGet(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	want := cachedValue{Name: "subject", Count: 3}
	if err := helper.Set(ctx, "key1", want, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var got cachedValue
	if err := helper.Get(ctx, "key1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	helper := newTestHelper(t)

	var got cachedValue
	err := helper.Get(context.Background(), "absent", &got)
	if !errors.Is(err, ErrCacheNotFound) {
		t.Fatalf("Get = %v, want ErrCacheNotFound", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return &cachedValue{Name: "fetched", Count: calls}, nil
	}

	var first cachedValue
	if err := helper.CacheOrExecute(ctx, "key2", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Fetch calls = %d, want 1", calls)
	}

	var second cachedValue
	if err := helper.CacheOrExecute(ctx, "key2", &second, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Fetch calls after cache hit = %d, want 1", calls)
	}
	if second.Count != 1 {
		t.Errorf("Cached count = %d, want 1", second.Count)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper := newTestHelper(t)
	ctx := context.Background()

	for _, key := range []string{"list:1", "list:2", "id:1"} {
		if err := helper.Set(ctx, key, cachedValue{}, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "list:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	var got cachedValue
	if err := helper.Get(ctx, "list:1", &got); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("list:1 after invalidation = %v, want ErrCacheNotFound", err)
	}
	if err := helper.Get(ctx, "id:1", &got); err != nil {
		t.Errorf("id:1 should survive the pattern invalidation, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "test")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", cachedValue{}, time.Minute); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("Set = %v, want ErrCacheNotAvailable", err)
	}
	if err := helper.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete = %v, want nil", err)
	}

	calls := 0
	var got cachedValue
	err := helper.CacheOrExecute(ctx, "k", &got, time.Minute, func() (interface{}, error) {
		calls++
		return &cachedValue{Name: "direct"}, nil
	})
	if err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || got.Name != "direct" {
		t.Errorf("CacheOrExecute without redis: calls=%d got=%+v", calls, got)
	}
}
