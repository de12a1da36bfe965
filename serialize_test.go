package vercache

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/unkn0wn-root/vercache/codec"
)

func TestEncodeIntegralScalars(t *testing.T) {
	vc := valueCoder{codec: codec.Msgpack{}}

	cases := []struct {
		in   any
		want string
	}{
		{int(7), "7"},
		{int8(-3), "-3"},
		{int16(300), "300"},
		{int32(-1000), "-1000"},
		{int64(1 << 40), "1099511627776"},
		{uint(7), "7"},
		{uint8(255), "255"},
		{uint16(65535), "65535"},
		{uint32(1 << 30), "1073741824"},
		{uint64(18446744073709551615), "18446744073709551615"},
	}
	for _, tc := range cases {
		b, err := vc.encode(tc.in)
		if err != nil {
			t.Fatalf("encode(%v): %v", tc.in, err)
		}
		if !bytes.Equal(b, []byte(tc.want)) {
			t.Fatalf("encode(%v) = %q, want %q", tc.in, b, tc.want)
		}
	}
}

func TestDefinedIntegralTypesStoredScalar(t *testing.T) {
	type userID int
	type hitCount uint16
	vc := valueCoder{codec: codec.Msgpack{}}

	// 48..57 are the dangerous range: their msgpack fixint encoding is a
	// single byte equal to an ASCII digit, so they must never reach the codec.
	b, err := vc.encode(userID(50))
	if err != nil {
		t.Fatalf("encode(userID): %v", err)
	}
	if !bytes.Equal(b, []byte("50")) {
		t.Fatalf("encode(userID(50)) = %q, want %q", b, "50")
	}
	if v, err := vc.decode(b); err != nil || v != int64(50) {
		t.Fatalf("decode = %v (%T), %v; want int64(50)", v, v, err)
	}

	b, err = vc.encode(hitCount(9))
	if err != nil {
		t.Fatalf("encode(hitCount): %v", err)
	}
	if !bytes.Equal(b, []byte("9")) {
		t.Fatalf("encode(hitCount(9)) = %q, want %q", b, "9")
	}
	if v, err := vc.decode(b); err != nil || v != int64(9) {
		t.Fatalf("decode = %v (%T), %v; want int64(9)", v, v, err)
	}

	// defined bools keep going through the codec
	type flag bool
	b, err = vc.encode(flag(true))
	if err != nil {
		t.Fatalf("encode(flag): %v", err)
	}
	if isScalar(b) {
		t.Fatalf("defined bool encoded as scalar: %q", b)
	}
}

func TestBoolIsNotScalar(t *testing.T) {
	vc := valueCoder{codec: codec.Msgpack{}}

	b, err := vc.encode(true)
	if err != nil {
		t.Fatalf("encode(true): %v", err)
	}
	if isScalar(b) {
		t.Fatalf("bool encoded as scalar: %q", b)
	}
	v, err := vc.decode(b)
	if err != nil || v != true {
		t.Fatalf("decode = %v, %v; want true", v, err)
	}
}

func TestDecodeScalarBounds(t *testing.T) {
	vc := valueCoder{codec: codec.Msgpack{}}

	// within int64
	if v, err := vc.decode([]byte("-42")); err != nil || v != int64(-42) {
		t.Fatalf("decode(-42) = %v, %v", v, err)
	}
	// above int64, still a valid uint64 scalar
	if v, err := vc.decode([]byte("18446744073709551615")); err != nil || v != uint64(18446744073709551615) {
		t.Fatalf("decode(max uint64) = %v (%T), %v", v, v, err)
	}
}

func TestRoundTripLaw(t *testing.T) {
	vc := valueCoder{codec: codec.Msgpack{}}

	values := []any{
		"text",
		"",
		true,
		false,
		2.5,
		[]any{"x", "y", "z"},
		map[string]any{"k": "v"},
		int64(0),
		int64(-1),
	}
	for _, v := range values {
		b, err := vc.encode(v)
		if err != nil {
			t.Fatalf("encode(%#v): %v", v, err)
		}
		got, err := vc.decode(b)
		if err != nil {
			t.Fatalf("decode(%#v): %v", v, err)
		}
		want := v
		// scalar ints normalize to int64/uint64 on read
		switch n := v.(type) {
		case int:
			want = int64(n)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip %#v -> %#v", v, got)
		}
	}
}

func TestIsScalar(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"-", false},
		{"0", true},
		{"42", true},
		{"-42", true},
		{"12a", false},
		{"a12", false},
		{"4 2", false},
		{"--1", false},
	}
	for _, tc := range cases {
		if got := isScalar([]byte(tc.in)); got != tc.want {
			t.Fatalf("isScalar(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
