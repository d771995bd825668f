package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ TokenStore = (*RedisTokenStore)(nil)

const redisTokenPrefix = "acct_token:"

// RedisTokenStore implements TokenStore on redis with native key TTLs.
// Overwrite-on-put and expiry come for free from SET with expiration.
type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) key(key string) string {
	return redisTokenPrefix + key
}

func (s *RedisTokenStore) Put(ctx context.Context, key, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), token, ttl).Err(); err != nil {
		return fmt.Errorf("token store put: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Get(ctx context.Context, key string) (TokenEntry, error) {
	rk := s.key(key)
	token, err := s.client.Get(ctx, rk).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return TokenEntry{}, ErrNotFound
		}
		return TokenEntry{}, fmt.Errorf("token store get: %w", err)
	}
	ttl, err := s.client.PTTL(ctx, rk).Result()
	if err != nil {
		return TokenEntry{}, fmt.Errorf("token store ttl: %w", err)
	}
	// Every token is written with a TTL; a key without one is not trusted.
	if ttl <= 0 {
		return TokenEntry{}, ErrNotFound
	}
	return TokenEntry{Token: token, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s *RedisTokenStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("token store delete: %w", err)
	}
	return nil
}
