package transport

import "encoding/binary"

func needsEscaping(b byte) bool {
	return b == FrameDelimiter || b == EscapeCharacter
}

// BufferedEmitter renders one frame byte-at-a-time from a payload held in
// memory. Emission order: leading delimiter, escaped payload, escaped type
// code, escaped CRC-32C little-endian, trailing delimiter.
//
// The emitter does not copy the payload; the caller keeps it alive until
// Finished reports true.
type BufferedEmitter struct {
	payload       []byte
	typeCode      byte
	crc           [4]byte
	pos           int
	started       bool
	escapePending bool
	done          bool
}

// NewBufferedEmitter returns an emitter for one frame carrying payload under
// the given type code.
func NewBufferedEmitter(typeCode byte, payload []byte) *BufferedEmitter {
	var crc CRC
	crc.AddBytes(payload)
	crc.Add(typeCode)
	e := &BufferedEmitter{payload: payload, typeCode: typeCode}
	binary.LittleEndian.PutUint32(e.crc[:], crc.Get())
	return e
}

// NextByte returns the next wire byte. After Finished reports true it keeps
// returning the frame delimiter.
func (e *BufferedEmitter) NextByte() byte {
	if !e.started {
		e.started = true
		return FrameDelimiter
	}
	if e.escapePending {
		e.escapePending = false
		b := e.bodyByte(e.pos)
		e.pos++
		return b ^ 0xFF
	}
	if e.pos < len(e.payload)+frameOverhead {
		b := e.bodyByte(e.pos)
		if needsEscaping(b) {
			e.escapePending = true
			return EscapeCharacter
		}
		e.pos++
		return b
	}
	e.done = true
	return FrameDelimiter
}

// Finished reports whether the trailing delimiter has been emitted.
func (e *BufferedEmitter) Finished() bool {
	return e.done
}

// Bytes drains the emitter into a freshly allocated wire image.
func (e *BufferedEmitter) Bytes() []byte {
	out := make([]byte, 0, len(e.payload)+frameOverhead+2)
	for {
		out = append(out, e.NextByte())
		if e.Finished() {
			return out
		}
	}
}

func (e *BufferedEmitter) bodyByte(i int) byte {
	switch {
	case i < len(e.payload):
		return e.payload[i]
	case i == len(e.payload):
		return e.typeCode
	default:
		return e.crc[i-len(e.payload)-1]
	}
}

// StreamEmitter frames a payload lazily: bytes written through it are
// escaped and handed to the sink as they arrive, with the CRC computed
// incrementally, so the payload need never be held in memory at once.
//
// The leading delimiter is emitted on first use; Finalize emits the escaped
// type code, CRC and trailing delimiter. The sink must not call back into
// the emitter.
type StreamEmitter struct {
	sink      func(byte)
	typeCode  byte
	crc       CRC
	started   bool
	finalized bool
}

// NewStreamEmitter returns a stream emitter for one frame under the given
// type code, writing wire bytes to sink.
func NewStreamEmitter(typeCode byte, sink func(byte)) *StreamEmitter {
	return &StreamEmitter{sink: sink, typeCode: typeCode}
}

// AddByte feeds one payload byte through the emitter.
func (e *StreamEmitter) AddByte(b byte) {
	e.start()
	e.crc.Add(b)
	e.emitEscaped(b)
}

// Write feeds a payload run through the emitter. It implements io.Writer and
// never fails.
func (e *StreamEmitter) Write(p []byte) (int, error) {
	for _, b := range p {
		e.AddByte(b)
	}
	return len(p), nil
}

// Finalize closes the frame: escaped type code, escaped little-endian CRC,
// trailing delimiter. Subsequent calls are no-ops; the emitter is consumed.
func (e *StreamEmitter) Finalize() {
	if e.finalized {
		return
	}
	e.finalized = true
	e.start()
	e.crc.Add(e.typeCode)
	e.emitEscaped(e.typeCode)
	var crc [4]byte
	binary.LittleEndian.PutUint32(crc[:], e.crc.Get())
	for _, b := range crc {
		e.emitEscaped(b)
	}
	e.sink(FrameDelimiter)
}

func (e *StreamEmitter) start() {
	if !e.started {
		e.started = true
		e.sink(FrameDelimiter)
	}
}

func (e *StreamEmitter) emitEscaped(b byte) {
	if needsEscaping(b) {
		e.sink(EscapeCharacter)
		e.sink(b ^ 0xFF)
		return
	}
	e.sink(b)
}
