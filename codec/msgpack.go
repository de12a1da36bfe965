package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values using vmihailenco/msgpack/v5. The zero value is
// ready to use. This is the default codec: compact, fast, and a msgpack
// message is never a bare run of ASCII digits, so its output cannot be
// mistaken for a raw integer scalar on decode.
type Msgpack struct{}

var _ Codec = Msgpack{}

func (Msgpack) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (Msgpack) Decode(b []byte) (any, error) {
	var v any
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
