package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps counters as expiring Redis keys:
// ratelimit:<action>:<identifier>:<window unix start>
type RedisStore struct {
	client *redis.Client
	opts   Options
}

func NewRedisStore(client *redis.Client, opts Options) *RedisStore {
	return &RedisStore{client: client, opts: opts.withDefaults()}
}

func (s *RedisStore) Hit(ctx context.Context, identifier, action string) (Decision, error) {
	now := s.opts.Now()
	start := windowStart(now, s.opts.Window)
	key := s.key(identifier, action, start.Unix())

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.opts.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("rate limit hit: %w", err)
	}

	return decide(int(incr.Val()), start, now, s.opts), nil
}

func (s *RedisStore) Reset(ctx context.Context, identifier, action string) error {
	start := windowStart(s.opts.Now(), s.opts.Window)
	if err := s.client.Del(ctx, s.key(identifier, action, start.Unix())).Err(); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

func (s *RedisStore) key(identifier, action string, window int64) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", action, identifier, window)
}
