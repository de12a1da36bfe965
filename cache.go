package vercache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Get retrieves the value stored under key. The second return is false on a
// cache miss; callers substitute their own default. Only a true miss reads
// as (nil, false, nil) - decode failures and transport errors are returned,
// never swallowed.
func (c *client) Get(ctx context.Context, key string, opts ...KeyOption) (any, bool, error) {
	return c.get(ctx, c.MakeKey(key, opts...))
}

func (c *client) get(ctx context.Context, k EncodedKey) (any, bool, error) {
	raw, ok, err := c.conn.Get(ctx, k.String())
	if err != nil {
		return nil, false, &ConnectionError{Op: "get", Err: err}
	}
	if !ok {
		return nil, false, nil
	}
	v, err := c.coder.decode(raw)
	if err != nil {
		c.hooks.DecodeError(k.String(), err)
		return nil, false, err
	}
	return v, true, nil
}

// Set stores value under key and reports whether the write happened.
// A ttl of DefaultTTL resolves to the client's default timeout, NoExpiry (0)
// stores without an expiry, and any other negative ttl stores nothing and
// reports false.
func (c *client) Set(ctx context.Context, key string, value any, ttl time.Duration, opts ...KeyOption) (bool, error) {
	return c.set(ctx, c.MakeKey(key, opts...), value, ttl, false)
}

// Add stores value only if key is absent, reporting whether it was added.
// The conditional write and its expiry land in a single SET NX EX command,
// so no window exists where the key is present without its expiry.
func (c *client) Add(ctx context.Context, key string, value any, ttl time.Duration, opts ...KeyOption) (bool, error) {
	return c.set(ctx, c.MakeKey(key, opts...), value, ttl, true)
}

func (c *client) set(ctx context.Context, k EncodedKey, value any, ttl time.Duration, addOnly bool) (bool, error) {
	ttl = c.resolveTTL(ttl)
	if ttl < 0 {
		return false, nil // negative timeout: do not store
	}
	payload, err := c.coder.encode(value)
	if err != nil {
		return false, err
	}
	if addOnly {
		ok, err := c.conn.SetNX(ctx, k.String(), payload, ttl)
		if err != nil {
			return false, &ConnectionError{Op: "setnx", Err: err}
		}
		return ok, nil
	}
	if err := c.conn.Set(ctx, k.String(), payload, ttl); err != nil {
		return false, &ConnectionError{Op: "set", Err: err}
	}
	return true, nil
}

func (c *client) resolveTTL(ttl time.Duration) time.Duration {
	if ttl == DefaultTTL {
		return c.defaultTimeout
	}
	return ttl
}

// Delete removes key from the cache.
func (c *client) Delete(ctx context.Context, key string, opts ...KeyOption) error {
	if err := c.conn.Del(ctx, c.MakeKey(key, opts...).String()); err != nil {
		return &ConnectionError{Op: "del", Err: err}
	}
	return nil
}

// DeleteMany removes keys in one bulk call. Empty input is a no-op without
// any remote round trip.
func (c *client) DeleteMany(ctx context.Context, keys []string, opts ...KeyOption) error {
	if len(keys) == 0 {
		return nil
	}
	wire := make([]string, len(keys))
	for i, k := range keys {
		wire[i] = c.MakeKey(k, opts...).String()
	}
	if err := c.conn.Del(ctx, wire...); err != nil {
		return &ConnectionError{Op: "del", Err: err}
	}
	return nil
}

// Clear removes EVERY key in the remote database, not just keys under this
// client's namespace or version. Any other cache user sharing the database
// loses its entries too. The over-broad scope is the historical contract of
// this operation; scoping it to the namespace would need a key scan and
// would silently change behavior for existing callers.
func (c *client) Clear(ctx context.Context) error {
	c.log.Warn("flushing entire database", Fields{"server": c.server, "db": c.db})
	if err := c.conn.FlushDB(ctx); err != nil {
		return &ConnectionError{Op: "flushdb", Err: err}
	}
	return nil
}

// GetMany fetches keys in one MGET round trip. The returned map iterates in
// the order of the input slice; absent keys are omitted, not set to nil.
func (c *client) GetMany(ctx context.Context, keys []string, opts ...KeyOption) (*orderedmap.OrderedMap[string, any], error) {
	out := orderedmap.New[string, any]()
	if len(keys) == 0 {
		return out, nil
	}
	wire := make([]string, len(keys))
	for i, k := range keys {
		wire[i] = c.MakeKey(k, opts...).String()
	}
	vals, err := c.conn.MGet(ctx, wire)
	if err != nil {
		return nil, &ConnectionError{Op: "mget", Err: err}
	}
	for i, raw := range vals {
		if raw == nil {
			continue // miss
		}
		v, err := c.coder.decode(raw)
		if err != nil {
			c.hooks.DecodeError(wire[i], err)
			return nil, err
		}
		out.Set(keys[i], v)
	}
	return out, nil
}

// SetMany writes all items in a single pipelined round trip, in slice
// order. Each item is serialized exactly as Set would serialize it and the
// ttl resolves the same way; a negative ttl stores nothing.
func (c *client) SetMany(ctx context.Context, items []Item, ttl time.Duration, opts ...KeyOption) error {
	if len(items) == 0 {
		return nil
	}
	ttl = c.resolveTTL(ttl)
	if ttl < 0 {
		return nil
	}
	writes := make([]BatchWrite, 0, len(items))
	for _, it := range items {
		payload, err := c.coder.encode(it.Value)
		if err != nil {
			return err
		}
		writes = append(writes, BatchWrite{
			Key:   c.MakeKey(it.Key, opts...).String(),
			Value: payload,
			TTL:   ttl,
		})
	}
	if err := c.conn.SetBatch(ctx, writes); err != nil {
		return &ConnectionError{Op: "pipelined set", Err: err}
	}
	return nil
}

// Incr adds delta to the value stored at key and returns the result. A
// missing key is *KeyNotFoundError. Scalar-stored integers increment
// atomically on the store; when the store rejects the value as non-numeric
// (codec-encoded number), Incr falls back to read-modify-write. The
// fallback is NOT atomic: concurrent incrementers can interleave between
// the read and the write and lose updates.
func (c *client) Incr(ctx context.Context, key string, delta int64, opts ...KeyOption) (int64, error) {
	k := c.MakeKey(key, opts...)
	ok, err := c.conn.Exists(ctx, k.String())
	if err != nil {
		return 0, &ConnectionError{Op: "exists", Err: err}
	}
	if !ok {
		return 0, &KeyNotFoundError{Key: key}
	}

	n, err := c.conn.IncrBy(ctx, k.String(), delta)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, ErrNotNumber) {
		return 0, &ConnectionError{Op: "incrby", Err: err}
	}

	c.hooks.IncrFallback(k.String())
	c.log.Debug("incr fell back to read-modify-write", Fields{"key": k.String()})
	v, ok, err := c.get(ctx, k)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &KeyNotFoundError{Key: key}
	}
	cur, numeric := toInt64(v)
	if !numeric {
		return 0, fmt.Errorf("vercache: cannot increment value of type %T", v)
	}
	cur += delta
	if _, err := c.set(ctx, k, cur, DefaultTTL, false); err != nil {
		return 0, err
	}
	return cur, nil
}

// TTL reports the remaining time to live of key: 0 when the key does not
// exist, NoTTL when it exists without an expiry, the remaining duration
// otherwise.
func (c *client) TTL(ctx context.Context, key string, opts ...KeyOption) (time.Duration, error) {
	d, ok, err := c.conn.TTL(ctx, c.MakeKey(key, opts...).String())
	if err != nil {
		return 0, &ConnectionError{Op: "ttl", Err: err}
	}
	if !ok {
		return 0, nil
	}
	return d, nil
}

// Has reports whether key is present and not expired. The check does not
// refresh or extend the TTL.
func (c *client) Has(ctx context.Context, key string, opts ...KeyOption) (bool, error) {
	ok, err := c.conn.Exists(ctx, c.MakeKey(key, opts...).String())
	if err != nil {
		return false, &ConnectionError{Op: "exists", Err: err}
	}
	return ok, nil
}

// IncrVersion moves key from its current version (or the WithVersion
// override) to version+delta and returns the new version number. The move
// is a single RENAME, which carries the value and the remaining TTL
// atomically; a key absent under the old version is *KeyNotFoundError.
// An entry already present under the new version is overwritten, the same
// way a plain write would overwrite it.
func (c *client) IncrVersion(ctx context.Context, key string, delta int, opts ...KeyOption) (int, error) {
	from := c.callVersion(opts)
	to := from + delta
	ok, err := c.conn.Rename(ctx, EncodeKey(c.ns, from, key).String(), EncodeKey(c.ns, to, key).String())
	if err != nil {
		return 0, &ConnectionError{Op: "rename", Err: err}
	}
	if !ok {
		return 0, &KeyNotFoundError{Key: key}
	}
	c.hooks.VersionMigrated(key, from, to)
	c.log.Debug("key moved to new version", Fields{"key": key, "from": from, "to": to})
	return to, nil
}

// toInt64 coerces the numeric shapes a codec can hand back into an int64
// for the incr fallback. Floats must be whole; anything else is rejected.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		f := float64(n)
		if f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
