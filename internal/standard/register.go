package standard

import (
	"fmt"

	"github.com/danmuck/popcop/internal/presentation"
)

const (
	// RegisterNameMaxLength bounds a register name on the wire.
	RegisterNameMaxLength = 93
	// RegisterValueMaxBodySize bounds the encoded body of any register
	// value variant.
	RegisterValueMaxBodySize = 256
)

// RegisterValueTag is the stable on-wire tag of a RegisterValue variant.
type RegisterValueTag uint8

const (
	TagEmpty RegisterValueTag = iota
	TagString
	TagUnstructured
	TagBoolean
	TagI64
	TagI32
	TagI16
	TagI8
	TagU64
	TagU32
	TagU16
	TagU8
	TagF32
	TagF64
)

// RegisterValue is the closed tagged union of register value variants. The
// variant set is fixed; tags are stable on the wire.
type RegisterValue interface {
	Tag() RegisterValueTag
	isRegisterValue()
}

// EmptyValue is the absent register value.
type EmptyValue struct{}

// StringValue holds up to 256 bytes of ASCII.
type StringValue string

// UnstructuredValue holds up to 256 arbitrary bytes.
type UnstructuredValue []byte

// BooleanValue holds up to 256 flags, one byte each on the wire.
type BooleanValue []bool

type I64Value []int64
type I32Value []int32
type I16Value []int16
type I8Value []int8
type U64Value []uint64
type U32Value []uint32
type U16Value []uint16
type U8Value []uint8
type F32Value []float32
type F64Value []float64

func (EmptyValue) Tag() RegisterValueTag        { return TagEmpty }
func (StringValue) Tag() RegisterValueTag       { return TagString }
func (UnstructuredValue) Tag() RegisterValueTag { return TagUnstructured }
func (BooleanValue) Tag() RegisterValueTag      { return TagBoolean }
func (I64Value) Tag() RegisterValueTag          { return TagI64 }
func (I32Value) Tag() RegisterValueTag          { return TagI32 }
func (I16Value) Tag() RegisterValueTag          { return TagI16 }
func (I8Value) Tag() RegisterValueTag           { return TagI8 }
func (U64Value) Tag() RegisterValueTag          { return TagU64 }
func (U32Value) Tag() RegisterValueTag          { return TagU32 }
func (U16Value) Tag() RegisterValueTag          { return TagU16 }
func (U8Value) Tag() RegisterValueTag           { return TagU8 }
func (F32Value) Tag() RegisterValueTag          { return TagF32 }
func (F64Value) Tag() RegisterValueTag          { return TagF64 }

func (EmptyValue) isRegisterValue()        {}
func (StringValue) isRegisterValue()       {}
func (UnstructuredValue) isRegisterValue() {}
func (BooleanValue) isRegisterValue()      {}
func (I64Value) isRegisterValue()          {}
func (I32Value) isRegisterValue()          {}
func (I16Value) isRegisterValue()          {}
func (I8Value) isRegisterValue()           {}
func (U64Value) isRegisterValue()          {}
func (U32Value) isRegisterValue()          {}
func (U16Value) isRegisterValue()          {}
func (U8Value) isRegisterValue()           {}
func (F32Value) isRegisterValue()          {}
func (F64Value) isRegisterValue()          {}

func registerValueBodySize(v RegisterValue) int {
	switch v := v.(type) {
	case nil, EmptyValue:
		return 0
	case StringValue:
		return len(v)
	case UnstructuredValue:
		return len(v)
	case BooleanValue:
		return len(v)
	case I64Value:
		return len(v) * 8
	case I32Value:
		return len(v) * 4
	case I16Value:
		return len(v) * 2
	case I8Value:
		return len(v)
	case U64Value:
		return len(v) * 8
	case U32Value:
		return len(v) * 4
	case U16Value:
		return len(v) * 2
	case U8Value:
		return len(v)
	case F32Value:
		return len(v) * 4
	case F64Value:
		return len(v) * 8
	default:
		return 0
	}
}

// ValidateRegisterValue reports whether v fits the wire bounds.
func ValidateRegisterValue(v RegisterValue) error {
	if size := registerValueBodySize(v); size > RegisterValueMaxBodySize {
		return fmt.Errorf("standard: register value body %d bytes exceeds %d", size, RegisterValueMaxBodySize)
	}
	return nil
}

// encodeRegisterValue appends the tag and body. A nil value encodes as
// EmptyValue.
func encodeRegisterValue(enc *presentation.Encoder, v RegisterValue) {
	if v == nil {
		v = EmptyValue{}
	}
	enc.AddU8(uint8(v.Tag()))
	switch v := v.(type) {
	case EmptyValue:
	case StringValue:
		enc.AddBytes([]byte(v))
	case UnstructuredValue:
		enc.AddBytes(v)
	case BooleanValue:
		for _, x := range v {
			if x {
				enc.AddU8(1)
			} else {
				enc.AddU8(0)
			}
		}
	case I64Value:
		for _, x := range v {
			enc.AddI64(x)
		}
	case I32Value:
		for _, x := range v {
			enc.AddI32(x)
		}
	case I16Value:
		for _, x := range v {
			enc.AddI16(x)
		}
	case I8Value:
		for _, x := range v {
			enc.AddI8(x)
		}
	case U64Value:
		for _, x := range v {
			enc.AddU64(x)
		}
	case U32Value:
		for _, x := range v {
			enc.AddU32(x)
		}
	case U16Value:
		for _, x := range v {
			enc.AddU16(x)
		}
	case U8Value:
		enc.AddBytes(v)
	case F32Value:
		for _, x := range v {
			enc.AddF32(x)
		}
	case F64Value:
		for _, x := range v {
			enc.AddF64(x)
		}
	}
}

// decodeRegisterValue consumes the rest of the stream as a register value.
// An exhausted stream deduces EmptyValue; tag 0 ignores any trailing bytes.
// A body over 256 bytes, a partial trailing element, or a boolean byte
// outside {0,1} fails.
func decodeRegisterValue(dec *presentation.Decoder) (RegisterValue, bool) {
	if dec.Err() != nil {
		return nil, false
	}
	if dec.Remaining() == 0 {
		return EmptyValue{}, true
	}
	tag := RegisterValueTag(dec.FetchU8())
	if tag == TagEmpty {
		dec.SkipUpToOffset(dec.Offset() + dec.Remaining())
		return EmptyValue{}, true
	}
	size := dec.Remaining()
	if size > RegisterValueMaxBodySize {
		return nil, false
	}
	switch tag {
	case TagString:
		body := dec.FetchBytes(size)
		for i, b := range body {
			if b == 0 {
				body = body[:i]
				break
			}
		}
		return StringValue(body), true
	case TagUnstructured:
		out := make(UnstructuredValue, size)
		copy(out, dec.FetchBytes(size))
		return out, true
	case TagBoolean:
		body := dec.FetchBytes(size)
		out := make(BooleanValue, size)
		for i, b := range body {
			if b > 1 {
				return nil, false
			}
			out[i] = b == 1
		}
		return out, true
	case TagI64:
		n, ok := vectorLen(size, 8)
		if !ok {
			return nil, false
		}
		out := make(I64Value, n)
		for i := range out {
			out[i] = dec.FetchI64()
		}
		return out, true
	case TagI32:
		n, ok := vectorLen(size, 4)
		if !ok {
			return nil, false
		}
		out := make(I32Value, n)
		for i := range out {
			out[i] = dec.FetchI32()
		}
		return out, true
	case TagI16:
		n, ok := vectorLen(size, 2)
		if !ok {
			return nil, false
		}
		out := make(I16Value, n)
		for i := range out {
			out[i] = dec.FetchI16()
		}
		return out, true
	case TagI8:
		out := make(I8Value, size)
		for i := range out {
			out[i] = dec.FetchI8()
		}
		return out, true
	case TagU64:
		n, ok := vectorLen(size, 8)
		if !ok {
			return nil, false
		}
		out := make(U64Value, n)
		for i := range out {
			out[i] = dec.FetchU64()
		}
		return out, true
	case TagU32:
		n, ok := vectorLen(size, 4)
		if !ok {
			return nil, false
		}
		out := make(U32Value, n)
		for i := range out {
			out[i] = dec.FetchU32()
		}
		return out, true
	case TagU16:
		n, ok := vectorLen(size, 2)
		if !ok {
			return nil, false
		}
		out := make(U16Value, n)
		for i := range out {
			out[i] = dec.FetchU16()
		}
		return out, true
	case TagU8:
		out := make(U8Value, size)
		copy(out, dec.FetchBytes(size))
		return out, true
	case TagF32:
		n, ok := vectorLen(size, 4)
		if !ok {
			return nil, false
		}
		out := make(F32Value, n)
		for i := range out {
			out[i] = dec.FetchF32()
		}
		return out, true
	case TagF64:
		n, ok := vectorLen(size, 8)
		if !ok {
			return nil, false
		}
		out := make(F64Value, n)
		for i := range out {
			out[i] = dec.FetchF64()
		}
		return out, true
	default:
		return nil, false
	}
}

func vectorLen(size, elem int) (int, bool) {
	if size%elem != 0 {
		return 0, false
	}
	return size / elem, true
}

// encodeRegisterName appends the length-prefixed name.
func encodeRegisterName(enc *presentation.Encoder, name string) {
	enc.AddU8(uint8(len(name)))
	enc.AddBytes([]byte(name))
}

// decodeRegisterName reads a length-prefixed name of up to 93 bytes.
func decodeRegisterName(dec *presentation.Decoder) (string, bool) {
	length := int(dec.FetchU8())
	if dec.Err() != nil || length > RegisterNameMaxLength {
		return "", false
	}
	body := dec.FetchBytes(length)
	if dec.Err() != nil {
		return "", false
	}
	return string(body), true
}

// validateRegisterName reports whether name fits the wire bounds.
func validateRegisterName(name string) error {
	if len(name) > RegisterNameMaxLength {
		return fmt.Errorf("standard: register name %d bytes exceeds %d", len(name), RegisterNameMaxLength)
	}
	return nil
}
