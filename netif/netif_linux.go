package netif

import (
	"net"

	"github.com/cockroachdb/errors"
	"github.com/vishvananda/netlink"
)

func resolve(name string) (Interface, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return Interface{}, errors.Mark(errors.Wrapf(err, "Interface %s not found", name), ErrInterfaceNotFound)
		}
		return Interface{}, errors.Mark(errors.Wrapf(err, "Failed to get link %s", name), ErrInterfaceQueryFailed)
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return Interface{}, errors.Mark(errors.Wrapf(err, "Failed to list addresses of %s", name), ErrInterfaceQueryFailed)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		ips = append(ips, addr.IP)
	}
	ip := firstIPv4(ips)
	if ip == nil {
		return Interface{}, noIPv4(name)
	}

	attrs := link.Attrs()
	return Interface{
		Name:         attrs.Name,
		IPv4:         ip,
		HardwareAddr: attrs.HardwareAddr,
	}, nil
}
