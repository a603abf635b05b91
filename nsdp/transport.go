package nsdp

import (
	"context"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// Ports fixed by the protocol.
const (
	DefaultSendPort    = 63321
	DefaultReceivePort = 63321
	DefaultSwitchPort  = 63322

	DefaultTimeout    = 1 * time.Second
	DefaultBufferSize = 1024
)

// Transport sends one query and waits for one reply. The ports are fixed by
// the protocol, so two exchanges on the same local address cannot overlap;
// callers must serialize them.
type Transport struct {
	SendPort      int
	ReceivePort   int
	SwitchPort    int
	BroadcastAddr net.IP
	Timeout       time.Duration
	// BufferSize bounds the reply; larger datagrams are truncated.
	BufferSize int
}

func DefaultTransport() *Transport {
	return &Transport{
		SendPort:      DefaultSendPort,
		ReceivePort:   DefaultReceivePort,
		SwitchPort:    DefaultSwitchPort,
		BroadcastAddr: net.IPv4bcast,
		Timeout:       DefaultTimeout,
		BufferSize:    DefaultBufferSize,
	}
}

// Exchange sends cmd to the switch at hostname from localIP and returns the
// first datagram received on the broadcast port, whatever its source.
func (t *Transport) Exchange(localIP net.IP, localMAC net.HardwareAddr, hostname string, cmd Command) ([]byte, error) {
	req, err := EncodeRequest(cmd, localMAC, nil)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{Control: setBroadcast}

	sendAddr := net.JoinHostPort(localIP.String(), strconv.Itoa(t.SendPort))
	sconn, err := lc.ListenPacket(context.Background(), "udp4", sendAddr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Failed to bind send socket %s", sendAddr), ErrSocketBindFailed)
	}
	defer sconn.Close()

	recvAddr := t.ReceiveEndpoint()
	rconn, err := lc.ListenPacket(context.Background(), "udp4", recvAddr)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Failed to bind receive socket %s", recvAddr), ErrSocketBindFailed)
	}
	defer rconn.Close()

	swAddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(hostname, strconv.Itoa(t.SwitchPort)))
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Failed to resolve %s", hostname), ErrHostnameResolutionFailed)
	}

	if _, err := sconn.WriteTo(req, swAddr); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "Failed to send request to %s", swAddr), ErrSendFailed)
	}
	log.Debugf("Sent %s request to %s: % x", cmd, swAddr, req)

	if err := rconn.SetReadDeadline(time.Now().Add(t.timeout())); err != nil {
		return nil, errors.Wrap(err, "Failed to set read deadline")
	}
	buf := make([]byte, t.bufferSize())
	n, src, err := rconn.ReadFrom(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, errors.Wrapf(ErrNoResponse, "%s did not answer within %s", hostname, t.timeout())
		}
		return nil, errors.Mark(errors.Wrap(err, "Failed to receive response"), ErrNoResponse)
	}
	log.Debugf("Received %d bytes from %s: % x", n, src, buf[:n])

	return buf[:n], nil
}

// ReceiveEndpoint is the address the reply socket binds. Exchanges sharing it
// cannot run at the same time, whatever local interface they use.
func (t *Transport) ReceiveEndpoint() string {
	return net.JoinHostPort(t.BroadcastAddr.String(), strconv.Itoa(t.ReceivePort))
}

func (t *Transport) timeout() time.Duration {
	if t.Timeout <= 0 {
		return DefaultTimeout
	}
	return t.Timeout
}

func (t *Transport) bufferSize() int {
	if t.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return t.BufferSize
}
