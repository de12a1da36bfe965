package vercache

import (
	"context"
	"time"
)

// BatchWrite is one pending write in a pipelined SetBatch.
type BatchWrite struct {
	Key   string
	Value []byte
	TTL   time.Duration // 0 means no expiry
}

// Conn is the subset of the remote protocol the cache issues. The default
// implementation wraps a pooled go-redis client (NewRedisConn); tests
// substitute an in-memory fake. Implementations must be safe for concurrent
// use and byte-for-byte transparent: Get must return exactly the bytes
// previously passed to Set for the same key.
type Conn interface {
	// Ping checks liveness of the connection.
	Ping(ctx context.Context) error

	// Get returns (value, true, nil) on hit and (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. A ttl of 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetNX writes value only if the key is absent, reporting whether the
	// write happened. A positive ttl is applied together with the write.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// MGet fetches many keys in one round trip. The result has one entry
	// per input key, nil for misses.
	MGet(ctx context.Context, keys []string) ([][]byte, error)

	// SetBatch issues all writes as a single pipelined round trip, in
	// slice order.
	SetBatch(ctx context.Context, writes []BatchWrite) error

	// Del removes keys. Zero keys is a no-op.
	Del(ctx context.Context, keys ...string) error

	// IncrBy atomically adds delta to the integer stored at key, creating
	// it at zero when absent. Returns ErrNotNumber when the stored value is
	// not an integer scalar.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)

	// Exists reports whether the key is present. It does not touch the TTL.
	Exists(ctx context.Context, key string) (bool, error)

	// TTL reports (remaining, true) for a key with an expiry, (NoTTL, true)
	// for a key without one and (0, false) when the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, bool, error)

	// Rename moves src to dst, carrying value and remaining TTL. Reports
	// false when src does not exist. An existing dst is overwritten.
	Rename(ctx context.Context, src, dst string) (bool, error)

	// FlushDB removes every key in the database.
	FlushDB(ctx context.Context) error
}
