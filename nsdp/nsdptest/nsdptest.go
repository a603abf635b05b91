// Package nsdptest provides a loopback switch and reply builders for testing
// code that talks to ProSAFE switches.
package nsdptest

import (
	"encoding/binary"
	"net"
	"sync"
	"testing"
	"time"

	"prosafe_exporter/nsdp"
)

// Response builds a reply datagram: a valid header followed by records and a
// terminator.
func Response(records ...nsdp.Record) []byte {
	b := make([]byte, nsdp.HeaderLen)
	b[0], b[1] = 0x01, 0x02
	for _, rec := range records {
		b = AppendRecord(b, rec.Tag, rec.Payload)
	}
	return AppendRecord(b, nsdp.TagEnd, nil)
}

func AppendRecord(b []byte, tag uint16, payload []byte) []byte {
	b = binary.BigEndian.AppendUint16(b, tag)
	b = binary.BigEndian.AppendUint16(b, uint16(len(payload)))
	return append(b, payload...)
}

// PortStatRecord encodes a port-statistics record with six counters.
func PortStatRecord(port uint8, counters [6]uint64) nsdp.Record {
	payload := []byte{port}
	for _, c := range counters {
		payload = binary.BigEndian.AppendUint64(payload, c)
	}
	return nsdp.Record{Tag: 0x1000, Payload: payload}
}

func SpeedStatRecord(port, code uint8) nsdp.Record {
	return nsdp.Record{Tag: 0x0c00, Payload: []byte{port, code, 0x01}}
}

// Handler answers a request; a nil reply sends nothing.
type Handler func(req []byte) []byte

// Switch is a UDP responder on loopback. Replies go to the transport's
// receive port, like a real switch broadcasting its answer.
type Switch struct {
	Transport *nsdp.Transport

	conn    *net.UDPConn
	handler Handler

	mu       sync.Mutex
	requests [][]byte
}

// NewSwitch starts a responder and returns it with a Transport wired to it.
// Everything is closed when the test ends.
func NewSwitch(t testing.TB, handler Handler) *Switch {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	ports := FreePorts(t, 2)
	sw := &Switch{
		Transport: &nsdp.Transport{
			SendPort:      ports[0],
			ReceivePort:   ports[1],
			SwitchPort:    conn.LocalAddr().(*net.UDPAddr).Port,
			BroadcastAddr: net.IPv4(127, 0, 0, 1),
			Timeout:       500 * time.Millisecond,
			BufferSize:    nsdp.DefaultBufferSize,
		},
		conn:    conn,
		handler: handler,
	}
	go sw.serve()
	return sw
}

func (sw *Switch) serve() {
	buf := make([]byte, 2048)
	for {
		n, _, err := sw.conn.ReadFromUDP(buf)
		if err != nil {
			return
		}
		req := append([]byte(nil), buf[:n]...)
		sw.mu.Lock()
		sw.requests = append(sw.requests, req)
		sw.mu.Unlock()

		reply := sw.handler(req)
		if reply == nil {
			continue
		}
		dst := &net.UDPAddr{IP: sw.Transport.BroadcastAddr, Port: sw.Transport.ReceivePort}
		_, _ = sw.conn.WriteToUDP(reply, dst)
	}
}

// Requests returns the datagrams received so far.
func (sw *Switch) Requests() [][]byte {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return append([][]byte(nil), sw.requests...)
}

// FreePorts returns n distinct UDP ports on loopback that were free a moment
// ago.
func FreePorts(t testing.TB, n int) []int {
	t.Helper()
	ports := make([]int, 0, n)
	for range n {
		conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
		if err != nil {
			t.Fatalf("listen: %v", err)
		}
		defer conn.Close()
		ports = append(ports, conn.LocalAddr().(*net.UDPAddr).Port)
	}
	return ports
}

// Reply returns a handler that always answers with b.
func Reply(b []byte) Handler {
	return func([]byte) []byte { return b }
}

// ByCommand answers each command with its own reply.
func ByCommand(replies map[nsdp.Command][]byte) Handler {
	return func(req []byte) []byte {
		if len(req) < nsdp.RequestLen {
			return nil
		}
		cmd := nsdp.Command(binary.BigEndian.Uint32(req[32:36]))
		return replies[cmd]
	}
}
