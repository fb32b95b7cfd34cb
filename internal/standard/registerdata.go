package standard

import "github.com/danmuck/popcop/internal/presentation"

// Encoded size bounds, total including the 2-byte header.
const (
	RegisterDataRequestMinEncodedSize = HeaderSize + 2
	RegisterDataRequestMaxEncodedSize = HeaderSize + 1 + RegisterNameMaxLength + 1 + RegisterValueMaxBodySize

	RegisterDataResponseMinEncodedSize = HeaderSize + 8 + 1 + 1 + 1
	RegisterDataResponseMaxEncodedSize = RegisterDataRequestMaxEncodedSize + 8 + 1

	RegisterDiscoveryRequestEncodedSize     = HeaderSize + 2
	RegisterDiscoveryResponseMinEncodedSize = HeaderSize + 2 + 1
	RegisterDiscoveryResponseMaxEncodedSize = HeaderSize + 2 + 1 + RegisterNameMaxLength
)

// RegisterFlags qualifies a register in a data response.
type RegisterFlags uint8

const (
	RegisterFlagMutable RegisterFlags = 1 << iota
	RegisterFlagPersistent
)

// Mutable reports whether the register can be written.
func (f RegisterFlags) Mutable() bool { return f&RegisterFlagMutable != 0 }

// Persistent reports whether the register survives restarts.
func (f RegisterFlags) Persistent() bool { return f&RegisterFlagPersistent != 0 }

// RegisterDataRequestMessage reads a register when the value is empty and
// writes it otherwise.
type RegisterDataRequestMessage struct {
	Name  string
	Value RegisterValue
}

func (m *RegisterDataRequestMessage) MessageID() MessageID {
	return MessageIDRegisterDataRequest
}

// Validate reports whether the message fits the wire bounds.
func (m *RegisterDataRequestMessage) Validate() error {
	if err := validateRegisterName(m.Name); err != nil {
		return err
	}
	return ValidateRegisterValue(m.Value)
}

func (m *RegisterDataRequestMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(RegisterDataRequestMaxEncodedSize)
	enc.AddU16(uint16(MessageIDRegisterDataRequest))
	encodeRegisterName(enc, m.Name)
	encodeRegisterValue(enc, m.Value)
	return enc.Bytes()
}

// DecodeRegisterDataRequest returns the decoded message or nil.
func DecodeRegisterDataRequest(data []byte) *RegisterDataRequestMessage {
	if !matchHeader(data, MessageIDRegisterDataRequest,
		RegisterDataRequestMinEncodedSize, RegisterDataRequestMaxEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	name, ok := decodeRegisterName(dec)
	if !ok {
		return nil
	}
	value, ok := decodeRegisterValue(dec)
	if !ok {
		return nil
	}
	return &RegisterDataRequestMessage{Name: name, Value: value}
}

// RegisterDataResponseMessage reports a register's value, sample time and
// access flags.
type RegisterDataResponseMessage struct {
	Timestamp uint64 // microseconds since an endpoint-defined epoch
	Flags     RegisterFlags
	Name      string
	Value     RegisterValue
}

func (m *RegisterDataResponseMessage) MessageID() MessageID {
	return MessageIDRegisterDataResponse
}

// Validate reports whether the message fits the wire bounds.
func (m *RegisterDataResponseMessage) Validate() error {
	if err := validateRegisterName(m.Name); err != nil {
		return err
	}
	return ValidateRegisterValue(m.Value)
}

func (m *RegisterDataResponseMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(RegisterDataResponseMaxEncodedSize)
	enc.AddU16(uint16(MessageIDRegisterDataResponse))
	enc.AddU64(m.Timestamp)
	enc.AddU8(uint8(m.Flags))
	encodeRegisterName(enc, m.Name)
	encodeRegisterValue(enc, m.Value)
	return enc.Bytes()
}

// DecodeRegisterDataResponse returns the decoded message or nil.
func DecodeRegisterDataResponse(data []byte) *RegisterDataResponseMessage {
	if !matchHeader(data, MessageIDRegisterDataResponse,
		RegisterDataResponseMinEncodedSize, RegisterDataResponseMaxEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	m := &RegisterDataResponseMessage{
		Timestamp: dec.FetchU64(),
		Flags:     RegisterFlags(dec.FetchU8()),
	}
	name, ok := decodeRegisterName(dec)
	if !ok {
		return nil
	}
	value, ok := decodeRegisterValue(dec)
	if !ok {
		return nil
	}
	m.Name = name
	m.Value = value
	return m
}

// RegisterDiscoveryRequestMessage asks for the name of the register at the
// given index.
type RegisterDiscoveryRequestMessage struct {
	Index uint16
}

func (m *RegisterDiscoveryRequestMessage) MessageID() MessageID {
	return MessageIDRegisterDiscoveryRequest
}

func (m *RegisterDiscoveryRequestMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(RegisterDiscoveryRequestEncodedSize)
	enc.AddU16(uint16(MessageIDRegisterDiscoveryRequest))
	enc.AddU16(m.Index)
	return enc.Bytes()
}

// DecodeRegisterDiscoveryRequest returns the decoded message or nil.
func DecodeRegisterDiscoveryRequest(data []byte) *RegisterDiscoveryRequestMessage {
	if !matchHeader(data, MessageIDRegisterDiscoveryRequest,
		RegisterDiscoveryRequestEncodedSize, RegisterDiscoveryRequestEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	return &RegisterDiscoveryRequestMessage{Index: dec.FetchU16()}
}

// RegisterDiscoveryResponseMessage names the register at the given index. An
// empty name means the index is past the last register.
type RegisterDiscoveryResponseMessage struct {
	Index uint16
	Name  string
}

func (m *RegisterDiscoveryResponseMessage) MessageID() MessageID {
	return MessageIDRegisterDiscoveryResponse
}

func (m *RegisterDiscoveryResponseMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(RegisterDiscoveryResponseMaxEncodedSize)
	enc.AddU16(uint16(MessageIDRegisterDiscoveryResponse))
	enc.AddU16(m.Index)
	encodeRegisterName(enc, m.Name)
	return enc.Bytes()
}

// DecodeRegisterDiscoveryResponse returns the decoded message or nil.
func DecodeRegisterDiscoveryResponse(data []byte) *RegisterDiscoveryResponseMessage {
	if !matchHeader(data, MessageIDRegisterDiscoveryResponse,
		RegisterDiscoveryResponseMinEncodedSize, RegisterDiscoveryResponseMaxEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	index := dec.FetchU16()
	name, ok := decodeRegisterName(dec)
	if !ok || dec.Remaining() != 0 {
		return nil
	}
	return &RegisterDiscoveryResponseMessage{Index: index, Name: name}
}
