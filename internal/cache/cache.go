package cache

import (
	"context"
	"errors"
)

// 常用缓存键
const (
	KeyCartTotals = "cart_totals"
)

// ErrCapacityExceeded 缓存容量已满，拒绝接纳新用户
var ErrCapacityExceeded = errors.New("cache: capacity exceeded")

// Store 按用户隔离的键值缓存。
// 缓存只承载可重算的派生数据，调用方必须把缓存错误视为可忽略。
type Store interface {
	Get(ctx context.Context, userID uint, key string) (string, bool, error)
	Set(ctx context.Context, userID uint, key, value string) error
	Remove(ctx context.Context, userID uint, key string) error
	Clear(ctx context.Context, userID uint) error
}
