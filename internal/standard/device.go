package standard

import "github.com/danmuck/popcop/internal/presentation"

const (
	DeviceManagementCommandRequestEncodedSize  = HeaderSize + 2
	DeviceManagementCommandResponseEncodedSize = HeaderSize + 3
)

// DeviceManagementCommand selects a device management action.
type DeviceManagementCommand uint16

const (
	DeviceCommandRestart DeviceManagementCommand = iota
	DeviceCommandPowerOff
	DeviceCommandLaunchBootloader
	DeviceCommandFactoryReset
	deviceCommandLimit
)

// DeviceManagementStatus reports how the endpoint took a command.
type DeviceManagementStatus uint8

const (
	DeviceStatusOk DeviceManagementStatus = iota
	DeviceStatusBadCommand
	DeviceStatusMaybeLater
	DeviceStatusRejected
	deviceStatusLimit
)

// DeviceManagementCommandRequestMessage orders the endpoint to perform a
// management action.
type DeviceManagementCommandRequestMessage struct {
	Command DeviceManagementCommand
}

func (m *DeviceManagementCommandRequestMessage) MessageID() MessageID {
	return MessageIDDeviceManagementCommandRequest
}

func (m *DeviceManagementCommandRequestMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(DeviceManagementCommandRequestEncodedSize)
	enc.AddU16(uint16(MessageIDDeviceManagementCommandRequest))
	enc.AddU16(uint16(m.Command))
	return enc.Bytes()
}

// DecodeDeviceManagementCommandRequest returns the decoded message or nil.
func DecodeDeviceManagementCommandRequest(data []byte) *DeviceManagementCommandRequestMessage {
	if !matchHeader(data, MessageIDDeviceManagementCommandRequest,
		DeviceManagementCommandRequestEncodedSize, DeviceManagementCommandRequestEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	command := DeviceManagementCommand(dec.FetchU16())
	if command >= deviceCommandLimit {
		return nil
	}
	return &DeviceManagementCommandRequestMessage{Command: command}
}

// DeviceManagementCommandResponseMessage acknowledges a management command.
type DeviceManagementCommandResponseMessage struct {
	Command DeviceManagementCommand
	Status  DeviceManagementStatus
}

func (m *DeviceManagementCommandResponseMessage) MessageID() MessageID {
	return MessageIDDeviceManagementCommandResponse
}

func (m *DeviceManagementCommandResponseMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(DeviceManagementCommandResponseEncodedSize)
	enc.AddU16(uint16(MessageIDDeviceManagementCommandResponse))
	enc.AddU16(uint16(m.Command))
	enc.AddU8(uint8(m.Status))
	return enc.Bytes()
}

// DecodeDeviceManagementCommandResponse returns the decoded message or nil.
func DecodeDeviceManagementCommandResponse(data []byte) *DeviceManagementCommandResponseMessage {
	if !matchHeader(data, MessageIDDeviceManagementCommandResponse,
		DeviceManagementCommandResponseEncodedSize, DeviceManagementCommandResponseEncodedSize) {
		return nil
	}
	dec := presentation.NewDecoder(data[HeaderSize:])
	command := DeviceManagementCommand(dec.FetchU16())
	status := DeviceManagementStatus(dec.FetchU8())
	if command >= deviceCommandLimit || status >= deviceStatusLimit {
		return nil
	}
	return &DeviceManagementCommandResponseMessage{Command: command, Status: status}
}
