package presentation

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnderflow indicates a fetch past the end of the stream. Once set the
// decoder stays failed; message decoders treat it as a fatal parse failure.
var ErrUnderflow = errors.New("presentation: stream underflow")

// Decoder reads little-endian primitives from a bounded byte stream and
// tracks the read offset. Underflow is sticky: every fetch after the first
// failing one returns the zero value, and Err reports the failure.
type Decoder struct {
	data []byte
	off  int
	err  error
}

// NewDecoder returns a decoder over data. The decoder does not copy data;
// fetched byte runs alias it.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{data: data}
}

// Err returns the sticky underflow error, if any fetch has failed.
func (d *Decoder) Err() error {
	return d.err
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of bytes left in the stream.
func (d *Decoder) Remaining() int {
	return len(d.data) - d.off
}

func (d *Decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}
	if d.Remaining() < n {
		d.err = ErrUnderflow
		return nil
	}
	s := d.data[d.off : d.off+n]
	d.off += n
	return s
}

func (d *Decoder) FetchU8() uint8 {
	s := d.take(1)
	if s == nil {
		return 0
	}
	return s[0]
}

func (d *Decoder) FetchI8() int8 {
	return int8(d.FetchU8())
}

func (d *Decoder) FetchU16() uint16 {
	s := d.take(2)
	if s == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(s)
}

func (d *Decoder) FetchI16() int16 {
	return int16(d.FetchU16())
}

func (d *Decoder) FetchU32() uint32 {
	s := d.take(4)
	if s == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(s)
}

func (d *Decoder) FetchI32() int32 {
	return int32(d.FetchU32())
}

func (d *Decoder) FetchU64() uint64 {
	s := d.take(8)
	if s == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(s)
}

func (d *Decoder) FetchI64() int64 {
	return int64(d.FetchU64())
}

// FetchF32 reads an IEEE-754 single. NaN bit patterns pass through.
func (d *Decoder) FetchF32() float32 {
	return math.Float32frombits(d.FetchU32())
}

// FetchF64 reads an IEEE-754 double. NaN bit patterns pass through.
func (d *Decoder) FetchF64() float64 {
	return math.Float64frombits(d.FetchU64())
}

// FetchBytes reads count raw bytes. The returned slice aliases the stream.
func (d *Decoder) FetchBytes(count int) []byte {
	return d.take(count)
}

// SkipUpToOffset advances the cursor to target, which must lie between the
// current offset and the end of the stream.
func (d *Decoder) SkipUpToOffset(target int) {
	if d.err != nil {
		return
	}
	if target < d.off || target > len(d.data) {
		d.err = ErrUnderflow
		return
	}
	d.off = target
}

// FetchASCIIString reads up to a nul terminator (consumed, excluded from the
// result) or until maxLen bytes have been read, in which case no terminator
// is expected in the stream. Reaching the end of the stream also terminates
// the string.
func (d *Decoder) FetchASCIIString(maxLen int) string {
	if d.err != nil {
		return ""
	}
	out := make([]byte, 0, maxLen)
	for len(out) < maxLen && d.Remaining() > 0 {
		b := d.data[d.off]
		d.off++
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out)
}
