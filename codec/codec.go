// Package codec provides the opaque serializers vercache uses for every
// value that is not stored as a raw integer scalar.
//
// A codec must be symmetric: Decode(Encode(v)) yields v for all supported v.
// Codecs whose output can be bare ASCII digits (see JSON) interact badly
// with the scalar storage policy; Msgpack is the safe default.
package codec

// Codec encodes/decodes arbitrary values to []byte for storage.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}
