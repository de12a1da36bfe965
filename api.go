package vercache

import (
	"context"
	"math"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/unkn0wn-root/vercache/codec"
	"github.com/unkn0wn-root/vercache/pool"
)

// TTL sentinels accepted by Set, Add and SetMany.
const (
	// DefaultTTL resolves to the client's configured default timeout.
	DefaultTTL time.Duration = math.MinInt64

	// NoExpiry stores the key without an expiry.
	NoExpiry time.Duration = 0
)

// NoTTL is returned by TTL for a key that exists without an expiry.
const NoTTL time.Duration = -1

// Item is one key/value pair for SetMany. Writes are pipelined in slice
// order.
type Item struct {
	Key   string
	Value any
}

// Cache is the operational surface of a pooled, versioned cache client.
// Every verb builds its wire key from the client namespace and version
// (override per call with WithVersion) and applies the scalar-or-codec
// serialization policy.
type Cache interface {
	// Read-only configuration, derived at construction.
	Server() string
	Namespace() string
	Version() int
	DefaultTimeout() time.Duration
	DB() int

	MakeKey(key string, opts ...KeyOption) EncodedKey
	Ping(ctx context.Context) error

	// Single-key verbs.
	Get(ctx context.Context, key string, opts ...KeyOption) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration, opts ...KeyOption) (bool, error)
	Add(ctx context.Context, key string, value any, ttl time.Duration, opts ...KeyOption) (bool, error)
	Delete(ctx context.Context, key string, opts ...KeyOption) error
	Incr(ctx context.Context, key string, delta int64, opts ...KeyOption) (int64, error)
	TTL(ctx context.Context, key string, opts ...KeyOption) (time.Duration, error)
	Has(ctx context.Context, key string, opts ...KeyOption) (bool, error)
	IncrVersion(ctx context.Context, key string, delta int, opts ...KeyOption) (int, error)

	// Bulk verbs.
	DeleteMany(ctx context.Context, keys []string, opts ...KeyOption) error
	GetMany(ctx context.Context, keys []string, opts ...KeyOption) (*orderedmap.OrderedMap[string, any], error)
	SetMany(ctx context.Context, items []Item, ttl time.Duration, opts ...KeyOption) error

	// Clear flushes the ENTIRE database. See the method docs.
	Clear(ctx context.Context) error
}

// Options configure a cache client. Only Namespace plus either Server or
// Conn are required; everything else has defaults.
type Options struct {
	// Server is "host:port" or a unix socket path. Required unless Conn is
	// set.
	Server string

	// Namespace prefixes every key this client mints. Required.
	Namespace string

	Version        int           // key-version; 0 => 1
	DefaultTimeout time.Duration // DefaultTTL target; 0 => 300s
	DB             *int          // database index; nil => 1 (0 is a valid index)
	Password       string
	ParserClass    string      // protocol parser selector; see pool.ResolveParser
	PoolClass      string      // pool implementation selector; see pool.ResolvePool
	PoolParams     pool.Params // merged over pool.DefaultParams, caller wins

	Registry *pool.Registry // nil => pool.Default
	Conn     Conn           // bypasses Server/Registry resolution entirely
	Codec    codec.Codec    // nil => codec.Msgpack{}
	Logger   Logger         // nil => NopLogger
	Hooks    Hooks          // nil => NopHooks
}

// New validates opts and returns a client bound to a shared pooled
// connection. Misconfiguration - a port or database index that is not an
// integer, or an unresolvable selector - fails here with *ConfigError,
// never lazily at first use.
func New(opts Options) (Cache, error) {
	if opts.Namespace == "" {
		return nil, newConfigError("namespace is required")
	}

	c := &client{
		server:         opts.Server,
		ns:             opts.Namespace,
		version:        coalesce(opts.Version, 1),
		defaultTimeout: coalesce(opts.DefaultTimeout, defaultTimeout),
		db:             defaultDB,
	}
	if opts.DB != nil {
		if *opts.DB < 0 {
			return nil, newConfigError("db index must be non-negative: %d", *opts.DB)
		}
		c.db = *opts.DB
	}
	c.coder = valueCoder{codec: coalesce[codec.Codec](opts.Codec, codec.Msgpack{})}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.Conn != nil {
		c.conn = opts.Conn
		return c, nil
	}

	if opts.Server == "" {
		return nil, newConfigError("server is required")
	}
	host, port, socketPath, err := parseServer(opts.Server)
	if err != nil {
		return nil, err
	}
	// Resolve selectors now even though the factory resolves them again:
	// an existing pool would otherwise mask a bad selector name.
	if _, err := pool.ResolveParser(opts.ParserClass); err != nil {
		return nil, newConfigError("%v", err)
	}
	if _, err := pool.ResolvePool(opts.PoolClass); err != nil {
		return nil, newConfigError("%v", err)
	}

	reg := opts.Registry
	if reg == nil {
		reg = pool.Default
	}
	rdb, err := reg.GetOrCreate(pool.Identity{
		Host:       host,
		Port:       port,
		SocketPath: socketPath,
		DB:         c.db,
		Password:   opts.Password,
		Parser:     opts.ParserClass,
		Pool:       opts.PoolClass,
	}, opts.PoolParams)
	if err != nil {
		return nil, newConfigError("%v", err)
	}
	c.conn = NewRedisConn(rdb)
	return c, nil
}
