package vercache

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// KeyOption adjusts key construction for a single call.
type KeyOption func(*keyConfig)

type keyConfig struct {
	version *int
}

// WithVersion pins the key-version for one call instead of the client's
// current version.
func WithVersion(v int) KeyOption {
	return func(c *keyConfig) {
		ver := v
		c.version = &ver
	}
}

// client carries the per-instance configuration and the shared pooled
// connection. Construction and validation live in api.go; the cache verbs
// live in cache.go.
type client struct {
	server         string
	ns             string
	version        int
	defaultTimeout time.Duration
	db             int

	conn  Conn
	coder valueCoder
	log   Logger
	hooks Hooks
}

var _ Cache = (*client)(nil)

// Server returns the configured endpoint string.
func (c *client) Server() string { return c.server }

// Namespace returns the key prefix shared by every key this client mints.
func (c *client) Namespace() string { return c.ns }

// Version returns the client's current key-version.
func (c *client) Version() int { return c.version }

// DefaultTimeout is the expiry DefaultTTL resolves to.
func (c *client) DefaultTimeout() time.Duration { return c.defaultTimeout }

// DB returns the database index of the pooled connection.
func (c *client) DB() int { return c.db }

// MakeKey builds the wire key for a raw application key under the client's
// namespace and version (or the WithVersion override).
func (c *client) MakeKey(key string, opts ...KeyOption) EncodedKey {
	return EncodeKey(c.ns, c.callVersion(opts), key)
}

// Ping issues a liveness check against the pooled connection.
func (c *client) Ping(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return &ConnectionError{Op: "ping", Err: err}
	}
	return nil
}

func (c *client) callVersion(opts []KeyOption) int {
	var cfg keyConfig
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.version != nil {
		return *cfg.version
	}
	return c.version
}

// parseServer splits "host:port" endpoints; anything without a colon is
// treated as a unix socket path, mirroring how the endpoint string is the
// one knob choosing the transport.
func parseServer(server string) (host string, port int, socketPath string, err error) {
	i := strings.LastIndex(server, ":")
	if i < 0 {
		return "", 0, server, nil
	}
	port, perr := strconv.Atoi(server[i+1:])
	if perr != nil {
		return "", 0, "", newConfigError("port value must be an integer: %q", server[i+1:])
	}
	return server[:i], port, "", nil
}
