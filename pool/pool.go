// Package pool owns the process-wide table of shared Redis connection pools.
//
// Cache clients that resolve to the same Identity share one pooled go-redis
// client. Pools are created lazily on first use and never torn down for the
// lifetime of the process; each pool is capped at Params.MaxConnections, so
// the lack of teardown is bounded.
package pool

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Identity is the connection identity used as the registry lookup key.
// Two clients with equal identities MUST share one pooled connection; the
// registry guarantees it. Treat values as immutable once built.
type Identity struct {
	Host       string
	Port       int
	SocketPath string // unix socket path; when set, Host/Port are unused
	DB         int
	Password   string
	Parser     string // protocol parser selector, see ResolveParser
	Pool       string // pool implementation selector, see ResolvePool
}

// Addr returns the dial address for the identity.
func (id Identity) Addr() string {
	if id.SocketPath != "" {
		return id.SocketPath
	}
	return net.JoinHostPort(id.Host, strconv.Itoa(id.Port))
}

// Params tunes the underlying connection pool. Zero fields take the stock
// values from DefaultParams.
type Params struct {
	RetryOnTimeout  bool
	SocketKeepAlive *bool // nil leaves the transport default untouched
	ConnectTimeout  time.Duration
	SocketTimeout   time.Duration
	MaxConnections  int
}

// DefaultParams returns the stock pool tuning. Caller overrides win
// field-by-field, see Merge.
func DefaultParams() Params {
	return Params{
		RetryOnTimeout: false,
		ConnectTimeout: 2 * time.Second,
		SocketTimeout:  3 * time.Second,
		MaxConnections: 10240,
	}
}

// Merge fills the unset fields of p from def. Caller values win.
func (p Params) Merge(def Params) Params {
	out := p
	if out.SocketKeepAlive == nil {
		out.SocketKeepAlive = def.SocketKeepAlive
	}
	if out.ConnectTimeout == 0 {
		out.ConnectTimeout = def.ConnectTimeout
	}
	if out.SocketTimeout == 0 {
		out.SocketTimeout = def.SocketTimeout
	}
	if out.MaxConnections == 0 {
		out.MaxConnections = def.MaxConnections
	}
	return out
}

// ResolveParser maps a protocol parser selector to a RESP protocol version.
// The selector set is closed; unknown names are a configuration error and
// must surface at client construction, not at first use.
func ResolveParser(name string) (int, error) {
	switch name {
	case "", "default", "resp3":
		return 3, nil
	case "resp2":
		return 2, nil
	}
	return 0, fmt.Errorf("could not find parser class %q", name)
}

// ResolvePool maps a pool implementation selector to the connection
// checkout order of the underlying pool.
func ResolvePool(name string) (fifo bool, err error) {
	switch name {
	case "", "default", "lifo":
		return false, nil
	case "fifo":
		return true, nil
	}
	return false, fmt.Errorf("could not find connection pool class %q", name)
}

// Factory builds a pooled client for an identity. The default factory
// constructs a go-redis client; tests inject a counting fake to observe
// pool creation.
type Factory func(id Identity, p Params) (goredis.UniversalClient, error)

// Registry maps connection identities to shared pooled clients. Safe for
// concurrent use; at most one pool is ever created per identity, no matter
// how many clients race on first use.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	pools   map[Identity]goredis.UniversalClient
}

// Default is the process-wide registry used by clients that are not handed
// one explicitly. Tests should build their own via NewRegistry so pools do
// not leak across test cases.
var Default = NewRegistry(nil)

// NewRegistry returns a registry backed by factory, or by the go-redis
// factory when factory is nil.
func NewRegistry(factory Factory) *Registry {
	if factory == nil {
		factory = newClient
	}
	return &Registry{
		factory: factory,
		pools:   make(map[Identity]goredis.UniversalClient),
	}
}

// GetOrCreate returns the shared pool for id, creating it on first use.
// Params are merged over DefaultParams before the pool is built; they are
// ignored when the pool already exists, since the winner's tuning stands.
func (r *Registry) GetOrCreate(id Identity, p Params) (goredis.UniversalClient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.pools[id]; ok {
		return c, nil
	}
	c, err := r.factory(id, p.Merge(DefaultParams()))
	if err != nil {
		return nil, err
	}
	r.pools[id] = c
	return c, nil
}

func newClient(id Identity, p Params) (goredis.UniversalClient, error) {
	protocol, err := ResolveParser(id.Parser)
	if err != nil {
		return nil, err
	}
	fifo, err := ResolvePool(id.Pool)
	if err != nil {
		return nil, err
	}

	opts := &goredis.Options{
		Addr:         id.Addr(),
		DB:           id.DB,
		Password:     id.Password,
		Protocol:     protocol,
		PoolFIFO:     fifo,
		PoolSize:     p.MaxConnections,
		DialTimeout:  p.ConnectTimeout,
		ReadTimeout:  p.SocketTimeout,
		WriteTimeout: p.SocketTimeout,
	}
	if id.SocketPath != "" {
		opts.Network = "unix"
	}
	if !p.RetryOnTimeout {
		opts.MaxRetries = -1 // callers own retry policy
	}
	if p.SocketKeepAlive != nil {
		ka := time.Duration(-1) // negative disables keep-alive probes
		if *p.SocketKeepAlive {
			ka = 5 * time.Minute
		}
		d := &net.Dialer{Timeout: p.ConnectTimeout, KeepAlive: ka}
		opts.Dialer = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return d.DialContext(ctx, network, addr)
		}
	}
	return goredis.NewClient(opts), nil
}
