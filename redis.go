package vercache

import (
	"context"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// redisConn adapts a pooled go-redis client to the Conn command surface.
// The client is owned by the pool registry and shared with other cache
// instances; redisConn never closes it.
type redisConn struct {
	rdb goredis.UniversalClient
}

var _ Conn = (*redisConn)(nil)

// NewRedisConn wraps an existing go-redis client. Useful when the caller
// manages its own client instead of going through the pool registry.
func NewRedisConn(client goredis.UniversalClient) Conn {
	return &redisConn{rdb: client}
}

func (c *redisConn) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisConn) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *redisConn) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisConn) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	// SET NX EX is a single command, so the expiry lands atomically with
	// the conditional write.
	return c.rdb.SetNX(ctx, key, value, ttl).Result()
}

func (c *redisConn) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
			// miss; out[i] stays nil
		case string:
			out[i] = []byte(vv)
		case []byte:
			out[i] = vv
		}
	}
	return out, nil
}

func (c *redisConn) SetBatch(ctx context.Context, writes []BatchWrite) error {
	if len(writes) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		for _, w := range writes {
			ttl := w.TTL
			if ttl < 0 {
				ttl = 0
			}
			p.Set(ctx, w.Key, w.Value, ttl)
		}
		return nil
	})
	return err
}

func (c *redisConn) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisConn) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	n, err := c.rdb.IncrBy(ctx, key, delta).Result()
	if err != nil && isNotNumber(err) {
		return 0, ErrNotNumber
	}
	return n, err
}

func (c *redisConn) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *redisConn) TTL(ctx context.Context, key string) (time.Duration, bool, error) {
	d, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	// go-redis passes the redis sentinels through untouched:
	// -2 key missing, -1 no expiry.
	switch d {
	case -2:
		return 0, false, nil
	case -1:
		return NoTTL, true, nil
	}
	return d, true, nil
}

func (c *redisConn) Rename(ctx context.Context, src, dst string) (bool, error) {
	err := c.rdb.Rename(ctx, src, dst).Err()
	if err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (c *redisConn) FlushDB(ctx context.Context) error {
	return c.rdb.FlushDB(ctx).Err()
}

// isNotNumber matches the protocol-level type errors redis raises when
// INCRBY hits a value it cannot treat as an integer.
func isNotNumber(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "not an integer") || strings.Contains(msg, "WRONGTYPE")
}
