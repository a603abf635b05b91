// Package prosafe queries ProSAFE switches for port and link-speed
// statistics through a local interface.
package prosafe

import (
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"prosafe_exporter/netif"
	"prosafe_exporter/nsdp"
)

// Switch is a switch reachable through a local interface. Each query does
// one exchange and keeps no state between calls.
type Switch struct {
	Hostname  string
	Interface string

	Transport *nsdp.Transport
	// Resolve looks up the local interface; netif.Resolve when nil.
	Resolve func(name string) (netif.Interface, error)
}

func New(hostname, ifName string) *Switch {
	return &Switch{
		Hostname:  hostname,
		Interface: ifName,
		Transport: nsdp.DefaultTransport(),
		Resolve:   netif.Resolve,
	}
}

// PortStats returns the traffic counters of every port.
func (sw *Switch) PortStats() ([]nsdp.PortStat, error) {
	records, err := sw.query(nsdp.CmdPortStats)
	if err != nil {
		return nil, err
	}
	stats, err := nsdp.ParsePortStats(records)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse port stats of %s", sw.Hostname)
	}
	return stats, nil
}

// SpeedStats returns the link speed of every port.
func (sw *Switch) SpeedStats() ([]nsdp.SpeedStat, error) {
	records, err := sw.query(nsdp.CmdSpeedStats)
	if err != nil {
		return nil, err
	}
	stats, err := nsdp.ParseSpeedStats(records)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse speed stats of %s", sw.Hostname)
	}
	return stats, nil
}

// LockKey names the socket endpoint the switch's exchanges bind; see Locks.
func (sw *Switch) LockKey() string {
	return sw.transport().ReceiveEndpoint()
}

func (sw *Switch) transport() *nsdp.Transport {
	if sw.Transport == nil {
		return nsdp.DefaultTransport()
	}
	return sw.Transport
}

func (sw *Switch) query(cmd nsdp.Command) ([]nsdp.Record, error) {
	resolve := sw.Resolve
	if resolve == nil {
		resolve = netif.Resolve
	}
	iface, err := resolve(sw.Interface)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to resolve interface %s", sw.Interface)
	}

	raw, err := sw.transport().Exchange(iface.IPv4, iface.HardwareAddr, sw.Hostname, cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to query %s through %s", sw.Hostname, sw.Interface)
	}

	hdr, body, err := nsdp.DecodeHeader(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode reply from %s", sw.Hostname)
	}
	log.Debugf("Reply header from %s: %+v", sw.Hostname, hdr)

	records, err := nsdp.Records(body)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode reply from %s", sw.Hostname)
	}
	return records, nil
}
