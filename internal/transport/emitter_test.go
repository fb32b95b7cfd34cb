package transport

import (
	"bytes"
	"math/rand"
	"testing"
)

func drainEmitter(e *BufferedEmitter) []byte {
	var out []byte
	for {
		out = append(out, e.NextByte())
		if e.Finished() {
			return out
		}
	}
}

func TestBufferedEmitterGoldenFrames(t *testing.T) {
	cases := []struct {
		name     string
		typeCode byte
		payload  []byte
		wire     []byte
	}{
		{
			name:     "empty payload",
			typeCode: 123,
			wire:     []byte{FrameDelimiter, 123, 0x67, 0xAC, 0x6C, 0xBA, FrameDelimiter},
		},
		{
			name:     "plain payload",
			typeCode: 90,
			payload:  []byte{42, 12, 34, 56, 78},
			wire: []byte{FrameDelimiter, 42, 12, 34, 56, 78, 90,
				0xCE, 0x4E, 0x88, 0xBC, FrameDelimiter},
		},
		{
			name:     "reserved bytes escaped",
			typeCode: EscapeCharacter,
			payload:  []byte{FrameDelimiter},
			wire: []byte{FrameDelimiter,
				EscapeCharacter, FrameDelimiter ^ 0xFF,
				EscapeCharacter, EscapeCharacter ^ 0xFF,
				0x91, 0x5C, 0xA9, 0xC0, FrameDelimiter},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := drainEmitter(NewBufferedEmitter(tc.typeCode, tc.payload))
			if !bytes.Equal(got, tc.wire) {
				t.Fatalf("wire = % x, want % x", got, tc.wire)
			}
			if got2 := NewBufferedEmitter(tc.typeCode, tc.payload).Bytes(); !bytes.Equal(got2, tc.wire) {
				t.Fatalf("Bytes() = % x, want % x", got2, tc.wire)
			}
		})
	}
}

func TestStreamEmitterMatchesBuffered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		typeCode := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(200))
		for j := range payload {
			payload[j] = byte(rng.Intn(256))
		}

		buffered := NewBufferedEmitter(typeCode, payload).Bytes()

		var streamed []byte
		stream := NewStreamEmitter(typeCode, func(b byte) { streamed = append(streamed, b) })
		for _, b := range payload {
			stream.AddByte(b)
		}
		stream.Finalize()

		if !bytes.Equal(buffered, streamed) {
			t.Fatalf("iteration %d: buffered % x != streamed % x", i, buffered, streamed)
		}
	}
}

func TestStreamEmitterWriteAndEmptyFrame(t *testing.T) {
	var streamed []byte
	stream := NewStreamEmitter(7, func(b byte) { streamed = append(streamed, b) })
	if _, err := stream.Write([]byte{1, 2, 3}); err != nil {
		t.Fatalf("write: %v", err)
	}
	stream.Finalize()
	stream.Finalize() // consumed; further calls are no-ops

	want := NewBufferedEmitter(7, []byte{1, 2, 3}).Bytes()
	if !bytes.Equal(streamed, want) {
		t.Fatalf("wire = % x, want % x", streamed, want)
	}

	streamed = nil
	empty := NewStreamEmitter(123, func(b byte) { streamed = append(streamed, b) })
	empty.Finalize()
	want = []byte{FrameDelimiter, 123, 0x67, 0xAC, 0x6C, 0xBA, FrameDelimiter}
	if !bytes.Equal(streamed, want) {
		t.Fatalf("empty frame wire = % x, want % x", streamed, want)
	}
}

func TestEmitterParserRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := NewParser(4096)

	for i := 0; i < 1000; i++ {
		typeCode := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(512))
		for j := range payload {
			payload[j] = byte(rng.Intn(256))
		}

		e := NewBufferedEmitter(typeCode, payload)
		var got Output
		for !e.Finished() {
			out := p.ProcessNextByte(e.NextByte())
			if !out.Empty() {
				got = out
			}
		}
		requireFrame(t, got, typeCode, payload)
	}
}

func TestStreamEmitterParserRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := NewParser(4096)

	for i := 0; i < 500; i++ {
		typeCode := byte(rng.Intn(256))
		payload := make([]byte, rng.Intn(512))
		for j := range payload {
			payload[j] = byte(rng.Intn(256))
		}

		frames := 0
		stream := NewStreamEmitter(typeCode, func(b byte) {
			out := p.ProcessNextByte(b)
			if out.Frame != nil {
				requireFrame(t, out, typeCode, payload)
				frames++
			}
			if out.Extraneous != nil {
				t.Fatalf("round trip produced extraneous data")
			}
		})
		for _, b := range payload {
			stream.AddByte(b)
		}
		stream.Finalize()

		if frames != 1 {
			t.Fatalf("iteration %d: %d frames, want 1", i, frames)
		}
	}
}
