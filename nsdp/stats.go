package nsdp

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

const (
	portStatLen     = 1 + 6*8
	speedStatLen    = 1 + 2
	portStatRecvIdx = 0
	portStatSendIdx = 1
	portStatErrIdx  = 5
)

// PortStat holds the traffic counters of one switch port.
type PortStat struct {
	PortNo    uint8
	RecvBytes uint64
	SendBytes uint64
	ErrorPkts uint64
}

// SpeedStat holds the negotiated link speed of one switch port.
type SpeedStat struct {
	PortNo uint8
	Link   LinkSpeed
}

// ParsePortStats interprets port-statistics records. Order is preserved and
// duplicate ports are passed through.
func ParsePortStats(records []Record) ([]PortStat, error) {
	stats := make([]PortStat, 0, len(records))
	for _, rec := range records {
		if rec.Tag == TagEnd {
			continue
		}
		if len(rec.Payload) != portStatLen {
			return nil, errors.Wrapf(ErrMalformedPayload, "port stat record has %d bytes, want %d", len(rec.Payload), portStatLen)
		}
		stats = append(stats, PortStat{
			PortNo:    rec.Payload[0],
			RecvBytes: counter(rec.Payload, portStatRecvIdx),
			SendBytes: counter(rec.Payload, portStatSendIdx),
			ErrorPkts: counter(rec.Payload, portStatErrIdx),
		})
	}
	return stats, nil
}

func counter(payload []byte, idx int) uint64 {
	off := 1 + idx*8
	return binary.BigEndian.Uint64(payload[off : off+8])
}

// ParseSpeedStats interprets speed-statistics records.
func ParseSpeedStats(records []Record) ([]SpeedStat, error) {
	stats := make([]SpeedStat, 0, len(records))
	for _, rec := range records {
		if rec.Tag == TagEnd {
			continue
		}
		if len(rec.Payload) != speedStatLen {
			return nil, errors.Wrapf(ErrMalformedPayload, "speed stat record has %d bytes, want %d", len(rec.Payload), speedStatLen)
		}
		stats = append(stats, SpeedStat{
			PortNo: rec.Payload[0],
			Link:   LinkSpeedFromCode(rec.Payload[1]),
		})
	}
	return stats, nil
}

type LinkSpeed int

const (
	LinkNone LinkSpeed = iota
	LinkSpeed10Mbps
	LinkSpeed100Mbps
	LinkSpeed1Gbps
	LinkSpeed10Gbps
	LinkUnknown
)

// LinkSpeedFromCode maps the link code reported by the switch.
func LinkSpeedFromCode(code byte) LinkSpeed {
	switch code {
	case 0:
		return LinkNone
	case 1, 2:
		return LinkSpeed10Mbps
	case 3, 4:
		return LinkSpeed100Mbps
	case 5:
		return LinkSpeed1Gbps
	case 6:
		return LinkSpeed10Gbps
	default:
		return LinkUnknown
	}
}

// Mbps returns the nominal speed, 0 for a down or unrecognised link.
func (l LinkSpeed) Mbps() int {
	switch l {
	case LinkSpeed10Mbps:
		return 10
	case LinkSpeed100Mbps:
		return 100
	case LinkSpeed1Gbps:
		return 1000
	case LinkSpeed10Gbps:
		return 10000
	default:
		return 0
	}
}

func (l LinkSpeed) String() string {
	switch l {
	case LinkNone:
		return "down"
	case LinkSpeed10Mbps:
		return "10Mbps"
	case LinkSpeed100Mbps:
		return "100Mbps"
	case LinkSpeed1Gbps:
		return "1Gbps"
	case LinkSpeed10Gbps:
		return "10Gbps"
	default:
		return "unknown"
	}
}
