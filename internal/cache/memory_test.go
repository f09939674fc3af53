package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)
	ctx := context.Background()

	if err := store.Set(ctx, 1, KeyCartTotals, `{"count":3}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	value, ok, err := store.Get(ctx, 1, KeyCartTotals)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("期望命中缓存")
	}
	if value != `{"count":3}` {
		t.Fatalf("缓存值不符: %s", value)
	}

	if _, ok, _ := store.Get(ctx, 2, KeyCartTotals); ok {
		t.Fatal("不同用户不应命中")
	}
}

func TestMemoryStoreLazyExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)
	ctx := context.Background()

	current := time.Now()
	store.now = func() time.Time { return current }

	if err := store.Set(ctx, 1, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	current = current.Add(2 * time.Minute)

	if _, ok, _ := store.Get(ctx, 1, "k"); ok {
		t.Fatal("过期条目不应命中")
	}
	if store.Len() != 0 {
		t.Fatalf("过期条目应被删除, len=%d", store.Len())
	}
}

func TestMemoryStoreCapacity(t *testing.T) {
	store := NewMemoryStore(time.Minute, 2)
	ctx := context.Background()

	if err := store.Set(ctx, 1, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, 2, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// 新用户被拒绝
	if err := store.Set(ctx, 3, "k", "v"); err != ErrCapacityExceeded {
		t.Fatalf("期望 ErrCapacityExceeded, got %v", err)
	}

	// 已有用户不受上限影响
	if err := store.Set(ctx, 1, "k2", "v2"); err != nil {
		t.Fatalf("已有用户写入失败: %v", err)
	}

	// 清理后腾出名额
	if err := store.Clear(ctx, 2); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := store.Set(ctx, 3, "k", "v"); err != nil {
		t.Fatalf("腾出名额后写入失败: %v", err)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore(time.Minute, 10)
	ctx := context.Background()

	_ = store.Set(ctx, 1, "a", "1")
	_ = store.Set(ctx, 1, "b", "2")

	if err := store.Remove(ctx, 1, "a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1, "a"); ok {
		t.Fatal("已删除的键不应命中")
	}
	if _, ok, _ := store.Get(ctx, 1, "b"); !ok {
		t.Fatal("其余键应保留")
	}
}
