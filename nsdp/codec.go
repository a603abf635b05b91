// Package nsdp implements the request/response exchange of the NSDP-style
// discovery protocol spoken by ProSAFE switches: a fixed-layout big-endian
// query datagram, answered by a header followed by a stream of
// tag-length-value records.
package nsdp

import (
	"bytes"
	"encoding/binary"
	"math/rand/v2"
	"net"

	"github.com/cockroachdb/errors"
)

// Command selects the statistics a switch returns.
type Command uint32

const (
	CmdSpeedStats Command = 0x0C000000
	CmdPortStats  Command = 0x10000000
	// CmdEnd follows the command in a request and terminates its opcode list.
	CmdEnd Command = 0xFFFF0000
)

func (c Command) String() string {
	switch c {
	case CmdSpeedStats:
		return "speed-stats"
	case CmdPortStats:
		return "port-stats"
	case CmdEnd:
		return "end"
	default:
		return "unknown"
	}
}

const (
	requestType = 0x0101

	// RequestLen is the encoded size of a QueryRequest.
	RequestLen = 40
	// HeaderLen is the size of the response prefix preceding the records.
	HeaderLen = 32
)

var (
	requestMagic  = [8]byte{'N', 'S', 'D', 'P', 0, 0, 0, 0}
	responseMagic = [2]byte{0x01, 0x02}
)

// QueryRequest is the datagram sent to a switch. Blank fields are reserved
// and always encoded as zero.
type QueryRequest struct {
	Type     uint16
	_        [6]byte
	SrcMAC   [6]byte
	DstMAC   [6]byte
	_        [2]byte
	Seq      uint16
	Magic    [8]byte
	Commands [2]Command
}

// NewQueryRequest builds a request for cmd with a random sequence number.
// A nil or non-Ethernet dst leaves the destination all-zero.
func NewQueryRequest(cmd Command, src, dst net.HardwareAddr) *QueryRequest {
	return &QueryRequest{
		Type:     requestType,
		SrcMAC:   hardwareAddr6(src),
		DstMAC:   hardwareAddr6(dst),
		Seq:      uint16(rand.Uint32()),
		Magic:    requestMagic,
		Commands: [2]Command{cmd, CmdEnd},
	}
}

func (req *QueryRequest) Encode() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, RequestLen))
	if err := binary.Write(buf, binary.BigEndian, req); err != nil {
		return nil, errors.Wrap(err, "Failed to encode request")
	}
	return buf.Bytes(), nil
}

// EncodeRequest is shorthand for NewQueryRequest followed by Encode.
func EncodeRequest(cmd Command, src, dst net.HardwareAddr) ([]byte, error) {
	return NewQueryRequest(cmd, src, dst).Encode()
}

func hardwareAddr6(addr net.HardwareAddr) [6]byte {
	var out [6]byte
	if len(addr) == len(out) {
		copy(out[:], addr)
	}
	return out
}

// ResponseHeader is the fixed prefix of a switch reply. Only the magic is
// checked; the remaining fields are carried for logging.
type ResponseHeader struct {
	Magic    [2]byte
	Result   uint16
	Reserved uint16
	_        [26]byte
}

// DecodeHeader parses the response prefix and returns the record stream
// following it.
func DecodeHeader(b []byte) (ResponseHeader, []byte, error) {
	var hdr ResponseHeader
	if len(b) < HeaderLen {
		return hdr, nil, errors.Wrapf(ErrMalformedHeader, "%d bytes, want at least %d", len(b), HeaderLen)
	}
	if err := binary.Read(bytes.NewReader(b[:HeaderLen]), binary.BigEndian, &hdr); err != nil {
		return hdr, nil, errors.Mark(errors.Wrap(err, "Failed to read header"), ErrMalformedHeader)
	}
	if hdr.Magic != responseMagic {
		return hdr, nil, errors.Wrapf(ErrMalformedHeader, "magic %#x", hdr.Magic[:])
	}
	return hdr, b[HeaderLen:], nil
}
