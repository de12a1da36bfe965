package codec

import "encoding/json"

// JSON serializes values with encoding/json. Mind that JSON renders a whole
// float (5.0) as bare digits, which the scalar layer reads back as an
// integer; prefer Msgpack when caching numeric values.
type JSON struct{}

var _ Codec = JSON{}

func (JSON) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSON) Decode(b []byte) (any, error) {
	var v any
	err := json.Unmarshal(b, &v)
	return v, err
}
