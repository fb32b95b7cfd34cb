package standard

import "github.com/danmuck/popcop/internal/presentation"

const (
	endpointInfoBodySize = 360
	endpointInfoNameSize = 80
	endpointInfoUIDSize  = 16

	// CertificateOfAuthenticityMaxSize bounds the certificate tail of an
	// endpoint info response.
	CertificateOfAuthenticityMaxSize = 222

	// EndpointInfoMinEncodedSize is the bare-header request form.
	EndpointInfoMinEncodedSize = HeaderSize
	// EndpointInfoResponseEncodedSize is a full response without the
	// certificate tail.
	EndpointInfoResponseEncodedSize = HeaderSize + endpointInfoBodySize
	// EndpointInfoMaxEncodedSize is a full response with the largest
	// certificate tail.
	EndpointInfoMaxEncodedSize = EndpointInfoResponseEncodedSize + CertificateOfAuthenticityMaxSize
)

// EndpointInfoMode is the operating mode reported by an endpoint.
type EndpointInfoMode uint8

const (
	ModeNormal EndpointInfoMode = iota
	ModeBootloader
	modeLimit
)

// Software image flag bits.
const (
	endpointFlagImageCRCValid = 1 << iota
	endpointFlagReleaseBuild
	endpointFlagDirtyBuild
)

// SoftwareVersion describes the software image an endpoint runs.
type SoftwareVersion struct {
	Major             uint8
	Minor             uint8
	VCSCommitID       uint32
	BuildTimestampUTC uint32
	ImageCRC          uint64
	ImageCRCSet       bool
	ReleaseBuild      bool
	DirtyBuild        bool
}

// HardwareVersion describes the hardware an endpoint runs on.
type HardwareVersion struct {
	Major uint8
	Minor uint8
}

// EndpointInfoMessage describes a node. A message with no endpoint name is a
// request for the peer's info; responses carry the full body plus an
// optional certificate-of-authenticity tail.
type EndpointInfoMessage struct {
	SoftwareVersion               SoftwareVersion
	HardwareVersion               HardwareVersion
	Mode                          EndpointInfoMode
	GloballyUniqueID              [endpointInfoUIDSize]byte
	EndpointName                  string
	EndpointDescription           string
	BuildEnvironmentDescription   string
	RuntimeEnvironmentDescription string
	CertificateOfAuthenticity     []byte
}

func (m *EndpointInfoMessage) MessageID() MessageID {
	return MessageIDEndpointInfo
}

// IsRequest reports whether the message is a request for the peer's info
// rather than a description of the sender.
func (m *EndpointInfoMessage) IsRequest() bool {
	return m.EndpointName == ""
}

// Encode renders the message. Requests encode as the bare header.
func (m *EndpointInfoMessage) Encode() []byte {
	enc := presentation.NewEncoderCapacity(EndpointInfoResponseEncodedSize + len(m.CertificateOfAuthenticity))
	enc.AddU16(uint16(MessageIDEndpointInfo))
	if m.IsRequest() {
		return enc.Bytes()
	}
	m.encodeBody(enc)
	return enc.Bytes()
}

// EncodeLegacy renders the message behind the 8-byte NodeInfo-era header.
func (m *EndpointInfoMessage) EncodeLegacy() []byte {
	enc := presentation.NewEncoderCapacity(LegacyHeaderSize + endpointInfoBodySize + len(m.CertificateOfAuthenticity))
	enc.AddU16(uint16(MessageIDEndpointInfo))
	enc.FillUpToOffset(LegacyHeaderSize, 0)
	if m.IsRequest() {
		return enc.Bytes()
	}
	m.encodeBody(enc)
	return enc.Bytes()
}

func (m *EndpointInfoMessage) encodeBody(enc *presentation.Encoder) {
	base := enc.Offset()
	sw := m.SoftwareVersion
	if sw.ImageCRCSet {
		enc.AddU64(sw.ImageCRC)
	} else {
		enc.AddU64(0)
	}
	enc.AddU32(sw.VCSCommitID)
	enc.AddU32(sw.BuildTimestampUTC)
	enc.AddU8(sw.Major)
	enc.AddU8(sw.Minor)
	enc.AddU8(m.HardwareVersion.Major)
	enc.AddU8(m.HardwareVersion.Minor)

	var flags uint8
	if sw.ImageCRCSet {
		flags |= endpointFlagImageCRCValid
	}
	if sw.ReleaseBuild {
		flags |= endpointFlagReleaseBuild
	}
	if sw.DirtyBuild {
		flags |= endpointFlagDirtyBuild
	}
	enc.AddU8(flags)
	enc.AddU8(uint8(m.Mode))
	enc.FillUpToOffset(base+24, 0) // reserved

	enc.AddBytes(m.GloballyUniqueID[:])
	addPaddedString(enc, m.EndpointName)
	addPaddedString(enc, m.EndpointDescription)
	addPaddedString(enc, m.BuildEnvironmentDescription)
	addPaddedString(enc, m.RuntimeEnvironmentDescription)
	enc.AddBytes(m.CertificateOfAuthenticity)
}

func addPaddedString(enc *presentation.Encoder, s string) {
	if len(s) > endpointInfoNameSize {
		s = s[:endpointInfoNameSize]
	}
	target := enc.Offset() + endpointInfoNameSize
	enc.AddBytes([]byte(s))
	enc.FillUpToOffset(target, 0)
}

// DecodeEndpointInfo returns the decoded message or nil. Anything shorter
// than a full response body decodes as a request whose body is ignored.
func DecodeEndpointInfo(data []byte) *EndpointInfoMessage {
	return decodeEndpointInfo(data, HeaderSize)
}

// DecodeNodeInfo decodes the legacy form behind the 8-byte header. The six
// reserved header bytes must be zero.
func DecodeNodeInfo(data []byte) *EndpointInfoMessage {
	if len(data) >= LegacyHeaderSize {
		for _, b := range data[HeaderSize:LegacyHeaderSize] {
			if b != 0 {
				return nil
			}
		}
	}
	return decodeEndpointInfo(data, LegacyHeaderSize)
}

// DecodeEndpointInfoCompat accepts either header form, preferring the
// modern one.
func DecodeEndpointInfoCompat(data []byte) *EndpointInfoMessage {
	if m := DecodeEndpointInfo(data); m != nil {
		return m
	}
	return DecodeNodeInfo(data)
}

func decodeEndpointInfo(data []byte, headerSize int) *EndpointInfoMessage {
	if !matchHeader(data, MessageIDEndpointInfo,
		HeaderSize, headerSize+endpointInfoBodySize+CertificateOfAuthenticityMaxSize) {
		return nil
	}
	if len(data) < headerSize+endpointInfoBodySize {
		return &EndpointInfoMessage{}
	}

	dec := presentation.NewDecoder(data[headerSize:])
	m := &EndpointInfoMessage{}
	sw := &m.SoftwareVersion
	sw.ImageCRC = dec.FetchU64()
	sw.VCSCommitID = dec.FetchU32()
	sw.BuildTimestampUTC = dec.FetchU32()
	sw.Major = dec.FetchU8()
	sw.Minor = dec.FetchU8()
	m.HardwareVersion.Major = dec.FetchU8()
	m.HardwareVersion.Minor = dec.FetchU8()

	flags := dec.FetchU8()
	sw.ImageCRCSet = flags&endpointFlagImageCRCValid != 0
	sw.ReleaseBuild = flags&endpointFlagReleaseBuild != 0
	sw.DirtyBuild = flags&endpointFlagDirtyBuild != 0
	if !sw.ImageCRCSet {
		sw.ImageCRC = 0
	}

	m.Mode = EndpointInfoMode(dec.FetchU8())
	if m.Mode >= modeLimit {
		return nil
	}
	dec.SkipUpToOffset(24)

	copy(m.GloballyUniqueID[:], dec.FetchBytes(endpointInfoUIDSize))
	m.EndpointName = fetchPaddedString(dec)
	m.EndpointDescription = fetchPaddedString(dec)
	m.BuildEnvironmentDescription = fetchPaddedString(dec)
	m.RuntimeEnvironmentDescription = fetchPaddedString(dec)
	if dec.Err() != nil {
		return nil
	}
	if n := dec.Remaining(); n > 0 {
		m.CertificateOfAuthenticity = make([]byte, n)
		copy(m.CertificateOfAuthenticity, dec.FetchBytes(n))
	}
	return m
}

// fetchPaddedString reads one fixed 80-byte slot and strips trailing nuls.
func fetchPaddedString(dec *presentation.Decoder) string {
	slot := dec.FetchBytes(endpointInfoNameSize)
	end := len(slot)
	for end > 0 && slot[end-1] == 0 {
		end--
	}
	return string(slot[:end])
}
