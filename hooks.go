package vercache

// Hooks are lightweight callbacks for high-signal cache events.
// Implementations MUST be cheap and non-blocking; the cache calls them on
// hot paths. Use hooks/async to offload slow sinks.
type Hooks interface {
	// Incr could not use the store's native increment (non-numeric stored
	// value) and took the non-atomic read-modify-write path.
	IncrFallback(storageKey string)

	// IncrVersion moved a key from one version to another.
	VersionMigrated(key string, from, to int)

	// Stored bytes could not be decoded. The error is also returned to the
	// caller; the hook only adds observability.
	DecodeError(storageKey string, err error)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) IncrFallback(string)              {}
func (NopHooks) VersionMigrated(string, int, int) {}
func (NopHooks) DecodeError(string, error)        {}
