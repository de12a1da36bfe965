package vercache

import (
	"errors"
	"fmt"
)

// ConfigError reports invalid client configuration: a malformed endpoint,
// a port or database index that does not parse as an integer, or a pool or
// parser selector that cannot be resolved. It is returned at construction
// time and is fatal to that client instance; nothing retries it.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "vercache: config: " + e.Reason }

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// ConnectionError wraps a transport failure (timeout, refused connection,
// socket error) on a remote call. The cache never retries internally; the
// caller owns retry policy.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("vercache: %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// KeyNotFoundError is returned by Incr and IncrVersion when the target key
// does not exist. It is an expected, recoverable condition, not a transport
// failure.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("vercache: key %q not found", e.Key)
}

// ErrNotNumber is reported by Conn.IncrBy when the store rejects the stored
// value as non-numeric. Incr treats it as the signal to take the
// read-modify-write fallback.
var ErrNotNumber = errors.New("vercache: value is not an integer")
