// Package netif looks up the local interface a switch is reached through.
package netif

import (
	"net"

	"github.com/cockroachdb/errors"
)

var (
	ErrInterfaceNotFound    = errors.New("interface not found")
	ErrNoIPv4Address        = errors.New("no IPv4 address")
	ErrInterfaceQueryFailed = errors.New("interface query failed")
)

// Interface is the addressing of a local network interface at lookup time.
type Interface struct {
	Name         string
	IPv4         net.IP
	HardwareAddr net.HardwareAddr
}

// Resolve looks up the named interface. Results are not cached; addresses can
// change between calls.
func Resolve(name string) (Interface, error) {
	return resolve(name)
}

func firstIPv4(ips []net.IP) net.IP {
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4
		}
	}
	return nil
}

func noIPv4(name string) error {
	return errors.Wrapf(ErrNoIPv4Address, "interface %s", name)
}
