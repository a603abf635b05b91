//go:build !linux

package netif

import (
	"net"

	"github.com/cockroachdb/errors"
)

func resolve(name string) (Interface, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		if !interfaceExists(name) {
			return Interface{}, errors.Mark(errors.Wrapf(err, "Interface %s not found", name), ErrInterfaceNotFound)
		}
		return Interface{}, errors.Mark(errors.Wrapf(err, "Failed to get interface %s", name), ErrInterfaceQueryFailed)
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return Interface{}, errors.Mark(errors.Wrapf(err, "Failed to list addresses of %s", name), ErrInterfaceQueryFailed)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok {
			ips = append(ips, ipnet.IP)
		}
	}
	ip := firstIPv4(ips)
	if ip == nil {
		return Interface{}, noIPv4(name)
	}

	return Interface{
		Name:         iface.Name,
		IPv4:         ip,
		HardwareAddr: iface.HardwareAddr,
	}, nil
}

// interfaceExists reports whether name is listed. A failed listing counts as
// present so the lookup error is reported as a query failure.
func interfaceExists(name string) bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.Name == name {
			return true
		}
	}
	return false
}
