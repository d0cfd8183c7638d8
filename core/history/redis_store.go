package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the history in a Redis list. The head of the list is the top of the stack.
type RedisStore struct {
	client redis.Cmdable
	key    string
	limit  int64
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisLimit bounds the list length.
func WithRedisLimit(limit int) RedisOption {
	return func(s *RedisStore) {
		if limit > 0 {
			s.limit = int64(limit)
		}
	}
}

// NewRedisStore creates a store using the list at key.
func NewRedisStore(client redis.Cmdable, key string, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, key: key, limit: DefaultLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push adds a token on top and trims the list to the limit.
func (s *RedisStore) Push(ctx context.Context, token string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, token)
		pipe.LTrim(ctx, s.key, 0, s.limit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("push history: %w", err)
	}
	return nil
}

// Pop removes and returns the top token.
func (s *RedisStore) Pop(ctx context.Context) (string, error) {
	token, err := s.client.LPop(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("pop history: %w", err)
	}
	return token, nil
}

// Peek returns the top token without removing it.
func (s *RedisStore) Peek(ctx context.Context) (string, error) {
	token, err := s.client.LIndex(ctx, s.key, 0).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmpty
	}
	if err != nil {
		return "", fmt.Errorf("peek history: %w", err)
	}
	return token, nil
}

// Len returns the number of tokens.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.LLen(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("history length: %w", err)
	}
	return int(n), nil
}

// Clear removes every token.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
