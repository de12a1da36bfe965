package vercache

import (
	"reflect"
	"strconv"

	"github.com/unkn0wn-root/vercache/codec"
)

// valueCoder applies the scalar-or-blob storage policy: non-boolean integral
// values travel as raw ASCII decimal so the store can INCRBY them natively;
// everything else (booleans, floats, text, composites) goes through the
// opaque codec. The policy is symmetric and never double-encodes: an already
// scalar-stored integer is returned as-is on read.
type valueCoder struct {
	codec codec.Codec
}

func (vc valueCoder) encode(v any) ([]byte, error) {
	// Kind-based detection so defined integral types (type UserID int) take
	// the scalar path too. A codec-encoded small integer can collide with the
	// scalar wire form on read: msgpack renders 48..57 as a single fixint
	// byte that equals an ASCII digit.
	if v != nil {
		switch rv := reflect.ValueOf(v); rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return strconv.AppendInt(nil, rv.Int(), 10), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return strconv.AppendUint(nil, rv.Uint(), 10), nil
		}
	}
	// bool deliberately falls through to the codec
	return vc.codec.Encode(v)
}

func (vc valueCoder) decode(b []byte) (any, error) {
	if isScalar(b) {
		if n, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return n, nil
		}
		if u, err := strconv.ParseUint(string(b), 10, 64); err == nil {
			return u, nil
		}
	}
	return vc.codec.Decode(b)
}

// isScalar reports whether b is an ASCII decimal integer, the raw form used
// for scalar-stored values. Codec output never matches: encode routes every
// value of integral kind to the scalar form, so the codec never sees a bare
// integer, and a msgpack or CBOR message longer than one byte cannot consist
// solely of digit bytes.
func isScalar(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	i := 0
	if b[0] == '-' {
		if len(b) == 1 {
			return false
		}
		i = 1
	}
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return false
		}
	}
	return true
}
