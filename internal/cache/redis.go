package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore 基于 Redis 哈希的缓存实现。
// 每个用户一个哈希键，TTL 作用于整个哈希，写入时刷新。
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore 创建 Redis 缓存
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(userID uint) string {
	return fmt.Sprintf("%s:cache:%d", s.prefix, userID)
}

// Get 读取缓存
func (s *RedisStore) Get(ctx context.Context, userID uint, key string) (string, bool, error) {
	value, err := s.client.HGet(ctx, s.key(userID), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set 写入缓存并刷新整个哈希的 TTL
func (s *RedisStore) Set(ctx context.Context, userID uint, key, value string) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.key(userID), key, value)
	pipe.Expire(ctx, s.key(userID), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Remove 删除单个键
func (s *RedisStore) Remove(ctx context.Context, userID uint, key string) error {
	return s.client.HDel(ctx, s.key(userID), key).Err()
}

// Clear 清空某个用户的全部缓存
func (s *RedisStore) Clear(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}
