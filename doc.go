// Package vercache implements a pooled, versioned key-value cache client
// backed by Redis. Many logical clients may point at the same endpoint; a
// process-wide registry hands out one shared connection pool per connection
// identity, so identical configurations never duplicate pools.
//
// Components:
//   - pool.Registry: table of shared connection pools, keyed by
//     (endpoint, db, credential, parser/pool selector).
//   - codec.Codec: opaque serializer for non-scalar values (msgpack by default).
//   - Conn: the narrow command surface the cache issues against the pooled
//     client; tests substitute an in-memory fake.
//
// Keys:
//
//	<namespace>:<version>:<key>
//
// Bumping the version makes old entries unreachable without deleting them;
// IncrVersion moves a single key between versions keeping its remaining TTL.
//
// Values that are non-boolean integers are stored as raw decimal scalars so
// the store can increment them natively; everything else travels through the
// configured codec.
package vercache
