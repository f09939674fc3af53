package cache

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultTTL 缓存条目默认存活时长
	DefaultTTL = 600 * time.Second
	// DefaultMaxUsers 内存缓存默认用户上限
	DefaultMaxUsers = 5000
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore 进程内缓存实现。
// 过期采用惰性清理：只在读取时检查并删除过期条目。
// 达到用户上限后拒绝接纳新用户，已有用户不受影响。
type MemoryStore struct {
	mu       sync.Mutex
	entries  map[uint]map[string]memoryEntry
	ttl      time.Duration
	maxUsers int
	now      func() time.Time
}

// NewMemoryStore 创建进程内缓存，ttl/maxUsers 非正时使用默认值
func NewMemoryStore(ttl time.Duration, maxUsers int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxUsers <= 0 {
		maxUsers = DefaultMaxUsers
	}
	return &MemoryStore{
		entries:  make(map[uint]map[string]memoryEntry),
		ttl:      ttl,
		maxUsers: maxUsers,
		now:      time.Now,
	}
}

// Get 读取缓存，过期条目就地删除并视为未命中
func (s *MemoryStore) Get(_ context.Context, userID uint, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[userID]
	if !ok {
		return "", false, nil
	}
	entry, ok := bucket[key]
	if !ok {
		return "", false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(s.entries, userID)
		}
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set 写入缓存，新用户在容量已满时被拒绝
func (s *MemoryStore) Set(_ context.Context, userID uint, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.entries[userID]
	if !ok {
		if len(s.entries) >= s.maxUsers {
			return ErrCapacityExceeded
		}
		bucket = make(map[string]memoryEntry)
		s.entries[userID] = bucket
	}
	bucket[key] = memoryEntry{value: value, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Remove 删除单个键
func (s *MemoryStore) Remove(_ context.Context, userID uint, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bucket, ok := s.entries[userID]; ok {
		delete(bucket, key)
		if len(bucket) == 0 {
			delete(s.entries, userID)
		}
	}
	return nil
}

// Clear 清空某个用户的全部缓存
func (s *MemoryStore) Clear(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// Len 当前缓存中的用户数（测试用）
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
