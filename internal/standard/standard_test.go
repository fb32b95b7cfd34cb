package standard

import "testing"

func TestDecodeDispatch(t *testing.T) {
	messages := []Message{
		goldenEndpointInfoMessage(),
		&RegisterDataRequestMessage{Name: "foo", Value: U32Value{1, 2}},
		&RegisterDataResponseMessage{Name: "foo", Value: StringValue("bar")},
		&RegisterDiscoveryRequestMessage{Index: 3},
		&RegisterDiscoveryResponseMessage{Index: 3, Name: "foo"},
		&DeviceManagementCommandRequestMessage{Command: DeviceCommandPowerOff},
		&DeviceManagementCommandResponseMessage{Command: DeviceCommandPowerOff, Status: DeviceStatusRejected},
		&BootloaderStatusRequestMessage{DesiredState: BootloaderStateReadyToBoot},
		&BootloaderStatusResponseMessage{State: BootloaderStateBootDelay},
		&BootloaderImageDataRequestMessage{ImageOffset: 16, ImageData: []byte{1}},
		&BootloaderImageDataResponseMessage{ImageOffset: 16, ImageData: []byte{1}},
	}

	for _, want := range messages {
		got := Decode(want.Encode())
		if got == nil {
			t.Fatalf("message ID %d did not dispatch", want.MessageID())
		}
		if got.MessageID() != want.MessageID() {
			t.Fatalf("dispatched ID %d, want %d", got.MessageID(), want.MessageID())
		}
	}
}

func TestDecodeDispatchLegacyHeader(t *testing.T) {
	m := Decode(goldenEndpointInfoMessage().EncodeLegacy())
	if m == nil {
		t.Fatalf("legacy endpoint info did not dispatch")
	}
	info, ok := m.(*EndpointInfoMessage)
	if !ok || info.EndpointName != "Hello!" {
		t.Fatalf("legacy dispatch = %+v", m)
	}
}

func TestDecodeUnknownID(t *testing.T) {
	if Decode([]byte{0x63, 0x00, 1, 2, 3}) != nil {
		t.Fatalf("unknown message ID decoded")
	}
	if Decode([]byte{0x01}) != nil {
		t.Fatalf("one-byte input decoded")
	}
	if Decode(nil) != nil {
		t.Fatalf("empty input decoded")
	}
}

func TestPeekMessageID(t *testing.T) {
	id, ok := PeekMessageID([]byte{0x07, 0x00, 0xAA})
	if !ok || id != MessageIDBootloaderStatusRequest {
		t.Fatalf("peek = %d, ok=%v", id, ok)
	}
	if _, ok := PeekMessageID([]byte{1}); ok {
		t.Fatalf("peek succeeded on one byte")
	}
}
