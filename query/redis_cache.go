package query

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisCache shares cached bodies between dashboard instances. Every group has
// a generation counter; invalidation bumps it and entries of older generations
// are left to expire.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(addr, prefix string, ttl time.Duration) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisCacheFromClient(rdb, prefix, ttl)
}

func NewRedisCacheFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("[RedisCache Ping] %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) generationKey(group string) string {
	return r.prefix + ":" + group + ":gen"
}

func (r *RedisCache) entryKey(group string, gen int64, key string) string {
	return r.prefix + ":" + group + ":" + strconv.FormatInt(gen, 10) + ":" + key
}

func (r *RedisCache) generation(ctx context.Context, group string) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey(group)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "read generation of %s", group)
	}
	return gen, nil
}

func (r *RedisCache) Get(ctx context.Context, group, key string) ([]byte, bool, error) {
	gen, err := r.generation(ctx, group)
	if err != nil {
		return nil, false, err
	}
	value, err := r.client.Get(ctx, r.entryKey(group, gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "read %s", key)
	}
	return value, true, nil
}

// generationTTL outlives every entry written under the generation, so a
// counter only expires once nothing of its group is left to read
func (r *RedisCache) generationTTL() time.Duration {
	return 2 * r.ttl
}

func (r *RedisCache) Set(ctx context.Context, group, key string, value []byte) error {
	gen, err := r.generation(ctx, group)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.entryKey(group, gen, key), value, r.ttl)
		if r.ttl > 0 && gen > 0 {
			pipe.Expire(ctx, r.generationKey(group), r.generationTTL())
		}
		return nil
	})
	return errors.Wrapf(err, "write %s", key)
}

func (r *RedisCache) InvalidateGroup(ctx context.Context, group string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, r.generationKey(group))
		if r.ttl > 0 {
			pipe.Expire(ctx, r.generationKey(group), r.generationTTL())
		}
		return nil
	})
	return errors.Wrapf(err, "invalidate %s", group)
}
