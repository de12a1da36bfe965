package vercache

import "time"

const (
	// defaultTimeout is the stock expiry applied when Set is called with
	// the DefaultTTL sentinel and the client was built without one.
	defaultTimeout = 300 * time.Second

	// defaultDB is the database index used when Options.DB is nil.
	defaultDB = 1
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
