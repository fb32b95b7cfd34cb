package link

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/danmuck/popcop/internal/standard"
	"github.com/danmuck/popcop/internal/testutil/testlog"
	"github.com/danmuck/popcop/internal/transport"
)

func TestEndpointFrameRoundTrip(t *testing.T) {
	testlog.Start(t)

	var wire bytes.Buffer
	endpoint := New(&wire, Options{Name: "loopback"})

	payload := []byte{1, 2, 3, transport.FrameDelimiter, transport.EscapeCharacter}
	if err := endpoint.SendFrame(42, payload); err != nil {
		t.Fatalf("send: %v", err)
	}

	frame, err := endpoint.ReceiveFrame()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if frame.TypeCode != 42 || !bytes.Equal(frame.Payload, payload) {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestEndpointSkipsExtraneousData(t *testing.T) {
	testlog.Start(t)

	var wire bytes.Buffer
	wire.Write([]byte("line noise"))
	endpoint := New(&wire, Options{Name: "loopback", Metrics: true})

	if err := endpoint.SendFrame(7, []byte{9}); err != nil {
		t.Fatalf("send: %v", err)
	}

	frame, err := endpoint.ReceiveFrame()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if frame.TypeCode != 7 || !bytes.Equal(frame.Payload, []byte{9}) {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestEndpointMessageRoundTrip(t *testing.T) {
	testlog.Start(t)

	var wire bytes.Buffer
	endpoint := New(&wire, Options{Name: "loopback"})

	// A non-standard frame first; ReceiveMessage must skip it.
	if err := endpoint.SendFrame(3, []byte{1, 2, 3}); err != nil {
		t.Fatalf("send raw: %v", err)
	}
	want := &standard.RegisterDiscoveryResponseMessage{Index: 9, Name: "foo"}
	if err := endpoint.SendMessage(want); err != nil {
		t.Fatalf("send message: %v", err)
	}

	m, err := endpoint.ReceiveMessage()
	if err != nil {
		t.Fatalf("receive message: %v", err)
	}
	got, ok := m.(*standard.RegisterDiscoveryResponseMessage)
	if !ok || got.Index != 9 || got.Name != "foo" {
		t.Fatalf("message = %+v", m)
	}
}

func TestEndpointReadErrorPropagates(t *testing.T) {
	testlog.Start(t)

	var wire bytes.Buffer
	endpoint := New(&wire, Options{Name: "loopback"})

	_, err := endpoint.ReceiveFrame()
	if err == nil || !errors.Is(err, io.EOF) {
		t.Fatalf("err = %v, want io.EOF", err)
	}
}

func TestEndpointReset(t *testing.T) {
	testlog.Start(t)

	var wire bytes.Buffer
	wire.Write([]byte{transport.FrameDelimiter, 1, 2, 3})
	endpoint := New(&wire, Options{Name: "loopback"})

	// Pull the partial frame into the parser, then discard it.
	if _, err := endpoint.ReceiveFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF while mid-frame, got %v", err)
	}
	endpoint.Reset()

	if err := endpoint.SendFrame(5, nil); err != nil {
		t.Fatalf("send: %v", err)
	}
	frame, err := endpoint.ReceiveFrame()
	if err != nil {
		t.Fatalf("receive after reset: %v", err)
	}
	if frame.TypeCode != 5 || len(frame.Payload) != 0 {
		t.Fatalf("frame = %+v", frame)
	}
}
