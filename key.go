package vercache

import "strconv"

// EncodedKey is a cache key that already carries its namespace and version.
// It is a distinct type from raw string keys so a fully built key can never
// be prefixed twice: only raw strings are ever encoded, and internal calls
// pass EncodedKey values around as-is.
//
// EncodedKey is comparable; equality and map-key behavior follow the wire
// string, so two keys encoding to the same string are the same key.
type EncodedKey struct {
	s string
}

// EncodeKey builds the wire form of a raw application key: namespace,
// version and key joined with ':'. An empty raw key is permitted.
func EncodeKey(namespace string, version int, key string) EncodedKey {
	return EncodedKey{s: namespace + ":" + strconv.Itoa(version) + ":" + key}
}

// String returns the wire form sent to the store.
func (k EncodedKey) String() string { return k.s }
