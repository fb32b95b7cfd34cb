package link

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/danmuck/popcop/internal/observability"
	"github.com/danmuck/popcop/internal/standard"
	"github.com/danmuck/popcop/internal/transport"
)

const defaultChunkSize = 256

// Options configures an Endpoint.
type Options struct {
	// BufferCapacity is the parser payload capacity. Zero selects the
	// transport default.
	BufferCapacity int
	// Name labels log lines and metrics, typically the port path.
	Name string
	// Logger receives link-level events. The zero value is silent.
	Logger zerolog.Logger
	// Metrics enables the prometheus link counters.
	Metrics bool
}

// Endpoint sends and receives frames over a byte stream. It owns one parser
// and buffers one read chunk; all access is caller-serialized.
type Endpoint struct {
	rw      io.ReadWriter
	parser  *transport.Parser
	logger  zerolog.Logger
	name    string
	metrics bool
	readBuf []byte
	chunk   []byte
}

// New returns an endpoint over rw.
func New(rw io.ReadWriter, opts Options) *Endpoint {
	name := opts.Name
	if name == "" {
		name = "link"
	}
	return &Endpoint{
		rw:      rw,
		parser:  transport.NewParser(opts.BufferCapacity),
		logger:  opts.Logger.With().Str("link", name).Logger(),
		name:    name,
		metrics: opts.Metrics,
	}
}

// SendFrame frames payload under typeCode and writes the wire image in one
// call.
func (e *Endpoint) SendFrame(typeCode byte, payload []byte) error {
	wire := transport.NewBufferedEmitter(typeCode, payload).Bytes()
	if _, err := e.rw.Write(wire); err != nil {
		return fmt.Errorf("link: send frame: %w", err)
	}
	if e.metrics {
		observability.RecordFrameSent(e.name)
	}
	e.logger.Debug().Int("payload", len(payload)).Uint8("type_code", typeCode).Msg("frame sent")
	return nil
}

// SendMessage frames an encoded standard message.
func (e *Endpoint) SendMessage(m standard.Message) error {
	return e.SendFrame(standard.FrameTypeCode, m.Encode())
}

// ReceiveFrame blocks until the stream yields one complete frame. Extraneous
// runs are counted and logged, never surfaced as errors. The returned
// payload is a copy and stays valid.
func (e *Endpoint) ReceiveFrame() (transport.Frame, error) {
	for {
		for len(e.chunk) > 0 {
			b := e.chunk[0]
			e.chunk = e.chunk[1:]
			out := e.parser.ProcessNextByte(b)
			if out.Frame != nil {
				if e.metrics {
					observability.RecordFrameReceived(e.name)
				}
				e.logger.Debug().
					Int("payload", len(out.Frame.Payload)).
					Uint8("type_code", out.Frame.TypeCode).
					Msg("frame received")
				payload := make([]byte, len(out.Frame.Payload))
				copy(payload, out.Frame.Payload)
				return transport.Frame{TypeCode: out.Frame.TypeCode, Payload: payload}, nil
			}
			if out.Extraneous != nil {
				if e.metrics {
					observability.RecordExtraneous(e.name, len(out.Extraneous))
				}
				e.logger.Debug().Int("size", len(out.Extraneous)).Msg("extraneous data")
			}
		}
		if err := e.fill(); err != nil {
			return transport.Frame{}, err
		}
	}
}

// ReceiveMessage blocks until a frame carrying a decodable standard message
// arrives. Frames with other type codes and undecodable payloads are
// skipped.
func (e *Endpoint) ReceiveMessage() (standard.Message, error) {
	for {
		frame, err := e.ReceiveFrame()
		if err != nil {
			return nil, err
		}
		if frame.TypeCode != standard.FrameTypeCode {
			e.logger.Debug().Uint8("type_code", frame.TypeCode).Msg("skipping non-standard frame")
			continue
		}
		if m := standard.Decode(frame.Payload); m != nil {
			return m, nil
		}
		e.logger.Debug().Int("payload", len(frame.Payload)).Msg("undecodable standard frame")
	}
}

// Reset discards parser state and any buffered unparsed bytes.
func (e *Endpoint) Reset() {
	e.parser.Reset()
	e.chunk = nil
}

func (e *Endpoint) fill() error {
	if e.readBuf == nil {
		e.readBuf = make([]byte, defaultChunkSize)
	}
	n, err := e.rw.Read(e.readBuf)
	if n > 0 {
		e.chunk = e.readBuf[:n]
		return nil
	}
	if err != nil {
		return fmt.Errorf("link: read: %w", err)
	}
	return nil
}
