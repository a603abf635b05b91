package cmd

import (
	"net"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosafe_exporter/netif"
	"prosafe_exporter/nsdp"
	"prosafe_exporter/nsdp/nsdptest"
	"prosafe_exporter/prosafe"
)

func loopback(name string) (netif.Interface, error) {
	return netif.Interface{Name: name, IPv4: net.IPv4(127, 0, 0, 1)}, nil
}

func fakeSwitch(t *testing.T, handler nsdptest.Handler) *prosafe.Switch {
	fake := nsdptest.NewSwitch(t, handler)
	return &prosafe.Switch{
		Hostname:  "127.0.0.1",
		Interface: "lo",
		Transport: fake.Transport,
		Resolve:   loopback,
	}
}

func TestRunQuery(t *testing.T) {
	sw := fakeSwitch(t, nsdptest.ByCommand(map[nsdp.Command][]byte{
		nsdp.CmdPortStats: nsdptest.Response(
			nsdptest.PortStatRecord(1, [6]uint64{2048, 1, 0, 0, 0, 4}),
			nsdptest.PortStatRecord(2, [6]uint64{}),
		),
		nsdp.CmdSpeedStats: nsdptest.Response(
			nsdptest.SpeedStatRecord(1, 5),
		),
	}))
	target := prosafe.Target{Host: "127.0.0.1", Interface: "lo"}

	res := runQuery(target, sw, &prosafe.Locks{}, true)
	require.NoError(t, res.err)
	assert.Len(t, res.ports, 2)
	assert.Equal(t, map[uint8]nsdp.LinkSpeed{1: nsdp.LinkSpeed1Gbps}, res.speeds)

	out := res.render()
	assert.Contains(t, out, "127.0.0.1:lo")
	assert.Contains(t, out, "2.00KiB")
	assert.Contains(t, out, "1Gbps")
	// port 2 had no speed record
	assert.Contains(t, out, "unknown")
}

func TestRunQueryWithoutSpeed(t *testing.T) {
	sw := fakeSwitch(t, nsdptest.ByCommand(map[nsdp.Command][]byte{
		nsdp.CmdPortStats: nsdptest.Response(nsdptest.PortStatRecord(1, [6]uint64{})),
	}))

	res := runQuery(prosafe.Target{Host: "127.0.0.1", Interface: "lo"}, sw, &prosafe.Locks{}, false)
	require.NoError(t, res.err)
	assert.Nil(t, res.speeds)
	assert.NotContains(t, res.render(), "LINK")
}

func TestRunQueryFailure(t *testing.T) {
	sw := fakeSwitch(t, func([]byte) []byte { return nil })
	sw.Transport.Timeout = 50 * time.Millisecond

	res := runQuery(prosafe.Target{Host: "127.0.0.1", Interface: "lo"}, sw, &prosafe.Locks{}, true)
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, nsdp.ErrNoResponse), "got %v", res.err)
	assert.Nil(t, res.ports)
}

func TestQueryAllIsolatesFailures(t *testing.T) {
	healthy := nsdptest.NewSwitch(t, nsdptest.Reply(nsdptest.Response(
		nsdptest.PortStatRecord(1, [6]uint64{}),
	)))
	silent := nsdptest.NewSwitch(t, func([]byte) []byte { return nil })
	silent.Transport.Timeout = 50 * time.Millisecond

	targets := []prosafe.Target{
		{Host: "127.0.0.1", Interface: "eth0"},
		{Host: "127.0.0.1", Interface: "eth1"},
	}
	transports := map[string]*nsdp.Transport{"eth0": healthy.Transport, "eth1": silent.Transport}

	results, err := queryAll(targets, func(target prosafe.Target) *prosafe.Switch {
		return &prosafe.Switch{
			Hostname:  target.Host,
			Interface: target.Interface,
			Transport: transports[target.Interface],
			Resolve:   loopback,
		}
	}, false)

	require.Error(t, err)
	assert.True(t, errors.Is(err, nsdp.ErrNoResponse), "got %v", err)
	require.Len(t, results, 2)
	assert.NoError(t, results[0].err)
	assert.Len(t, results[0].ports, 1)
	assert.Error(t, results[1].err)
}

func TestQueryAllDifferentInterfacesSameEndpoint(t *testing.T) {
	fake := nsdptest.NewSwitch(t, nsdptest.Reply(nsdptest.Response(
		nsdptest.PortStatRecord(1, [6]uint64{}),
	)))
	targets := []prosafe.Target{
		{Host: "127.0.0.1", Interface: "eth0"},
		{Host: "127.0.0.1", Interface: "eth1"},
		{Host: "127.0.0.1", Interface: "eth2"},
	}

	results, err := queryAll(targets, func(target prosafe.Target) *prosafe.Switch {
		return &prosafe.Switch{
			Hostname:  target.Host,
			Interface: target.Interface,
			Transport: fake.Transport,
			Resolve:   loopback,
		}
	}, false)

	require.NoError(t, err)
	for _, res := range results {
		assert.NoError(t, res.err, res.target.String())
	}
}
