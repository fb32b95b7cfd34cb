package presentation

import (
	"encoding/binary"
	"math"
)

// Encoder appends little-endian primitives to a growing byte buffer and
// tracks the write offset.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// NewEncoderCapacity returns an empty encoder with room for size bytes
// preallocated.
func NewEncoderCapacity(size int) *Encoder {
	return &Encoder{buf: make([]byte, 0, size)}
}

// Bytes returns the encoded stream. The slice aliases the encoder's buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Offset returns the number of bytes written so far.
func (e *Encoder) Offset() int {
	return len(e.buf)
}

func (e *Encoder) AddU8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) AddI8(v int8) {
	e.buf = append(e.buf, byte(v))
}

func (e *Encoder) AddU16(v uint16) {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
}

func (e *Encoder) AddI16(v int16) {
	e.AddU16(uint16(v))
}

func (e *Encoder) AddU32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) AddI32(v int32) {
	e.AddU32(uint32(v))
}

func (e *Encoder) AddU64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

func (e *Encoder) AddI64(v int64) {
	e.AddU64(uint64(v))
}

// AddF32 appends the IEEE-754 single bit pattern little-endian.
func (e *Encoder) AddF32(v float32) {
	e.AddU32(math.Float32bits(v))
}

// AddF64 appends the IEEE-754 double bit pattern little-endian.
func (e *Encoder) AddF64(v float64) {
	e.AddU64(math.Float64bits(v))
}

// AddBytes appends a raw byte run.
func (e *Encoder) AddBytes(p []byte) {
	e.buf = append(e.buf, p...)
}

// FillUpToOffset writes fill bytes until the offset equals target. The
// target must not be behind the current offset.
func (e *Encoder) FillUpToOffset(target int, fill byte) {
	if target < len(e.buf) {
		panic("presentation: fill target behind the write offset")
	}
	for len(e.buf) < target {
		e.buf = append(e.buf, fill)
	}
}
