package presentation

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestEncoderPrimitives(t *testing.T) {
	enc := NewEncoder()
	if enc.Offset() != 0 {
		t.Fatalf("fresh encoder offset = %d", enc.Offset())
	}

	enc.AddU8(123)
	enc.AddI8(-123)
	if enc.Offset() != 2 {
		t.Fatalf("offset = %d, want 2", enc.Offset())
	}

	enc.AddI16(-30000)
	enc.AddU16(30000)
	want := []byte{123, 133, 208, 138, 48, 117}
	if !bytes.Equal(enc.Bytes(), want) {
		t.Fatalf("bytes = %v, want %v", enc.Bytes(), want)
	}

	enc.FillUpToOffset(9, 42)
	if enc.Offset() != 9 {
		t.Fatalf("offset after fill = %d, want 9", enc.Offset())
	}
	if !bytes.Equal(enc.Bytes()[6:], []byte{42, 42, 42}) {
		t.Fatalf("fill bytes = %v", enc.Bytes()[6:])
	}

	enc.AddBytes([]byte{1, 2, 3, 4, 5, 6})
	enc.AddI32(-30000000)
	enc.AddU32(30000000)
	enc.AddI64(-30000000010)
	enc.AddU64(30000000010)
	if enc.Offset() != 39 {
		t.Fatalf("offset = %d, want 39", enc.Offset())
	}

	tail := enc.Bytes()[15:]
	wantTail := []byte{
		128, 60, 54, 254,
		0b10000000, 0b11000011, 0b11001001, 0b00000001,
		246, 83, 220, 3, 249, 255, 255, 255,
		0b00001010, 0b10101100, 0b00100011, 0b11111100, 0b00000110, 0, 0, 0,
	}
	if !bytes.Equal(tail, wantTail) {
		t.Fatalf("integer tail = %v, want %v", tail, wantTail)
	}
}

func TestEncoderFillBehindOffsetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("no panic for a fill target behind the cursor")
		}
	}()
	enc := NewEncoder()
	enc.AddU32(1)
	enc.FillUpToOffset(2, 0)
}

func TestDecoderPrimitivesRoundTrip(t *testing.T) {
	enc := NewEncoder()
	enc.AddU8(0xFE)
	enc.AddI8(-2)
	enc.AddU16(0xBEEF)
	enc.AddI16(-12345)
	enc.AddU32(0xDEADBEEF)
	enc.AddI32(-123456789)
	enc.AddU64(0xBADC0FFEE)
	enc.AddI64(-30000000010)
	enc.AddF32(3.25)
	enc.AddF64(-1.5e300)

	dec := NewDecoder(enc.Bytes())
	if dec.Remaining() != enc.Offset() {
		t.Fatalf("remaining = %d, want %d", dec.Remaining(), enc.Offset())
	}
	if v := dec.FetchU8(); v != 0xFE {
		t.Fatalf("u8 = %#x", v)
	}
	if v := dec.FetchI8(); v != -2 {
		t.Fatalf("i8 = %d", v)
	}
	if v := dec.FetchU16(); v != 0xBEEF {
		t.Fatalf("u16 = %#x", v)
	}
	if v := dec.FetchI16(); v != -12345 {
		t.Fatalf("i16 = %d", v)
	}
	if v := dec.FetchU32(); v != 0xDEADBEEF {
		t.Fatalf("u32 = %#x", v)
	}
	if v := dec.FetchI32(); v != -123456789 {
		t.Fatalf("i32 = %d", v)
	}
	if v := dec.FetchU64(); v != 0xBADC0FFEE {
		t.Fatalf("u64 = %#x", v)
	}
	if v := dec.FetchI64(); v != -30000000010 {
		t.Fatalf("i64 = %d", v)
	}
	if v := dec.FetchF32(); v != 3.25 {
		t.Fatalf("f32 = %v", v)
	}
	if v := dec.FetchF64(); v != -1.5e300 {
		t.Fatalf("f64 = %v", v)
	}
	if dec.Err() != nil {
		t.Fatalf("err = %v", dec.Err())
	}
	if dec.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", dec.Remaining())
	}
}

func TestDecoderNaNPassThrough(t *testing.T) {
	enc := NewEncoder()
	enc.AddF32(float32(math.NaN()))
	enc.AddF64(math.NaN())

	dec := NewDecoder(enc.Bytes())
	if v := dec.FetchF32(); !math.IsNaN(float64(v)) {
		t.Fatalf("f32 = %v, want NaN", v)
	}
	if v := dec.FetchF64(); !math.IsNaN(v) {
		t.Fatalf("f64 = %v, want NaN", v)
	}
}

func TestDecoderUnderflowIsSticky(t *testing.T) {
	dec := NewDecoder([]byte{1, 2})
	if v := dec.FetchU32(); v != 0 {
		t.Fatalf("underflow fetch = %d, want 0", v)
	}
	if !errors.Is(dec.Err(), ErrUnderflow) {
		t.Fatalf("err = %v, want ErrUnderflow", dec.Err())
	}
	// Everything after the failure keeps returning zero values.
	if v := dec.FetchU8(); v != 0 {
		t.Fatalf("fetch after underflow = %d", v)
	}
	if s := dec.FetchBytes(1); s != nil {
		t.Fatalf("bytes after underflow = %v", s)
	}
}

func TestDecoderSkipAndFetchBytes(t *testing.T) {
	dec := NewDecoder([]byte{1, 2, 3, 4, 5, 6})
	dec.SkipUpToOffset(2)
	if got := dec.FetchBytes(3); !bytes.Equal(got, []byte{3, 4, 5}) {
		t.Fatalf("bytes = %v", got)
	}
	if dec.Offset() != 5 {
		t.Fatalf("offset = %d, want 5", dec.Offset())
	}

	dec.SkipUpToOffset(4)
	if !errors.Is(dec.Err(), ErrUnderflow) {
		t.Fatalf("backward skip did not fail")
	}

	dec = NewDecoder([]byte{1})
	dec.SkipUpToOffset(2)
	if !errors.Is(dec.Err(), ErrUnderflow) {
		t.Fatalf("skip past the end did not fail")
	}
}

func TestDecoderASCIIString(t *testing.T) {
	// Terminated: the nul is consumed and excluded.
	dec := NewDecoder([]byte{'a', 'b', 'c', 0, 'x'})
	if s := dec.FetchASCIIString(10); s != "abc" {
		t.Fatalf("string = %q", s)
	}
	if dec.Offset() != 4 {
		t.Fatalf("offset = %d, want 4", dec.Offset())
	}

	// At capacity: no terminator is expected in the stream.
	dec = NewDecoder([]byte{'a', 'b', 'c', 'x'})
	if s := dec.FetchASCIIString(3); s != "abc" {
		t.Fatalf("string = %q", s)
	}
	if dec.Offset() != 3 {
		t.Fatalf("offset = %d, want 3", dec.Offset())
	}

	// End of stream terminates too.
	dec = NewDecoder([]byte{'h', 'i'})
	if s := dec.FetchASCIIString(10); s != "hi" {
		t.Fatalf("string = %q", s)
	}
}
