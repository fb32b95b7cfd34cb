package standard

import "github.com/danmuck/popcop/internal/presentation"

const (
	BootloaderStatusRequestEncodedSize  = HeaderSize + 1
	BootloaderStatusResponseEncodedSize = HeaderSize + 8 + 8 + 1

	// BootloaderImageDataMaxChunkSize bounds one image data transfer.
	BootloaderImageDataMaxChunkSize = 256

	BootloaderImageDataMinEncodedSize = HeaderSize + 8 + 1
	BootloaderImageDataMaxEncodedSize = BootloaderImageDataMinEncodedSize + BootloaderImageDataMaxChunkSize
)

// BootloaderState is the bootloader's state machine position.
type BootloaderState uint8

const (
	BootloaderStateNoAppToBoot BootloaderState = iota
	BootloaderStateBootDelay
	BootloaderStateBootCancelled
	BootloaderStateAppUpgradeInProgress
	BootloaderStateReadyToBoot
	bootloaderStateLimit
)

// BootloaderImageType selects which image an image data message addresses.
type BootloaderImageType uint8

const (
	BootloaderImageApplication BootloaderImageType = iota
	BootloaderImageCertificateOfAuthenticity
	bootloaderImageTypeLimit
)

// BootloaderStatusRequestMessage asks the bootloader to enter the desired
// state and report its status.
type BootloaderStatusRequestMessage struct {
	DesiredState BootloaderState
}

func (m *BootloaderStatusRequestMessage) MessageID() MessageID {
	return MessageIDBootloaderStatusRequest
}

func (m *BootloaderStatusRequestMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(BootloaderStatusRequestEncodedSize)
	enc.AddU16(uint16(MessageIDBootloaderStatusRequest))
	enc.AddU8(uint8(m.DesiredState))
	return enc.Bytes()
}

// DecodeBootloaderStatusRequest returns the decoded message or nil.
func DecodeBootloaderStatusRequest(data []byte) *BootloaderStatusRequestMessage {
	if !matchHeader(data, MessageIDBootloaderStatusRequest,
		BootloaderStatusRequestEncodedSize, BootloaderStatusRequestEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	state := BootloaderState(dec.FetchU8())
	if state >= bootloaderStateLimit {
		return nil
	}
	return &BootloaderStatusRequestMessage{DesiredState: state}
}

// BootloaderStatusResponseMessage reports the bootloader's state.
type BootloaderStatusResponseMessage struct {
	Timestamp uint64 // microseconds since an endpoint-defined epoch
	Flags     uint64
	State     BootloaderState
}

func (m *BootloaderStatusResponseMessage) MessageID() MessageID {
	return MessageIDBootloaderStatusResponse
}

func (m *BootloaderStatusResponseMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(BootloaderStatusResponseEncodedSize)
	enc.AddU16(uint16(MessageIDBootloaderStatusResponse))
	enc.AddU64(m.Timestamp)
	enc.AddU64(m.Flags)
	enc.AddU8(uint8(m.State))
	return enc.Bytes()
}

// DecodeBootloaderStatusResponse returns the decoded message or nil.
func DecodeBootloaderStatusResponse(data []byte) *BootloaderStatusResponseMessage {
	if !matchHeader(data, MessageIDBootloaderStatusResponse,
		BootloaderStatusResponseEncodedSize, BootloaderStatusResponseEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	m := &BootloaderStatusResponseMessage{
		Timestamp: dec.FetchU64(),
		Flags:     dec.FetchU64(),
		State:     BootloaderState(dec.FetchU8()),
	}
	if m.State >= bootloaderStateLimit {
		return nil
	}
	return m
}

func encodeBootloaderImageData(id MessageID, offset uint64, imageType BootloaderImageType, imageData []byte) []byte {
	enc := presentation.NewEncoderCapacity(BootloaderImageDataMinEncodedSize + len(imageData))
	enc.AddU16(uint16(id))
	enc.AddU64(offset)
	enc.AddU8(uint8(imageType))
	enc.AddBytes(imageData)
	return enc.Bytes()
}

func decodeBootloaderImageData(data []byte, id MessageID) (offset uint64, imageType BootloaderImageType, imageData []byte, ok bool) {
	if !matchHeader(data, id, BootloaderImageDataMinEncodedSize, BootloaderImageDataMaxEncodedSize) {
		return 0, 0, nil, false
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	offset = dec.FetchU64()
	imageType = BootloaderImageType(dec.FetchU8())
	if imageType >= bootloaderImageTypeLimit {
		return 0, 0, nil, false
	}
	if n := dec.Remaining(); n > 0 {
		imageData = make([]byte, n)
		copy(imageData, dec.FetchBytes(n))
	}
	return offset, imageType, imageData, true
}

// BootloaderImageDataRequestMessage carries one chunk of an image being
// uploaded, or requests a downlink chunk when ImageData is empty.
type BootloaderImageDataRequestMessage struct {
	ImageOffset uint64
	ImageType   BootloaderImageType
	ImageData   []byte
}

func (m *BootloaderImageDataRequestMessage) MessageID() MessageID {
	return MessageIDBootloaderImageDataRequest
}

func (m *BootloaderImageDataRequestMessage) Encode() []byte {
	return encodeBootloaderImageData(MessageIDBootloaderImageDataRequest, m.ImageOffset, m.ImageType, m.ImageData)
}

// DecodeBootloaderImageDataRequest returns the decoded message or nil.
func DecodeBootloaderImageDataRequest(data []byte) *BootloaderImageDataRequestMessage {
	offset, imageType, imageData, ok := decodeBootloaderImageData(data, MessageIDBootloaderImageDataRequest)
	if !ok {
		return nil
	}
	return &BootloaderImageDataRequestMessage{ImageOffset: offset, ImageType: imageType, ImageData: imageData}
}

// BootloaderImageDataResponseMessage echoes an image data transfer.
type BootloaderImageDataResponseMessage struct {
	ImageOffset uint64
	ImageType   BootloaderImageType
	ImageData   []byte
}

func (m *BootloaderImageDataResponseMessage) MessageID() MessageID {
	return MessageIDBootloaderImageDataResponse
}

func (m *BootloaderImageDataResponseMessage) Encode() []byte {
	return encodeBootloaderImageData(MessageIDBootloaderImageDataResponse, m.ImageOffset, m.ImageType, m.ImageData)
}

// DecodeBootloaderImageDataResponse returns the decoded message or nil.
func DecodeBootloaderImageDataResponse(data []byte) *BootloaderImageDataResponseMessage {
	offset, imageType, imageData, ok := decodeBootloaderImageData(data, MessageIDBootloaderImageDataResponse)
	if !ok {
		return nil
	}
	return &BootloaderImageDataResponseMessage{ImageOffset: offset, ImageType: imageType, ImageData: imageData}
}
