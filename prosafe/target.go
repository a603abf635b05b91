package prosafe

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Target names a switch and the local interface used to reach it, written
// as "host:ifname".
type Target struct {
	Host      string
	Interface string
}

func ParseTarget(s string) (Target, error) {
	host, ifName, ok := strings.Cut(s, ":")
	if !ok {
		return Target{}, errors.Newf("Invalid target %q: want host:interface", s)
	}
	if host == "" || ifName == "" {
		return Target{}, errors.Newf("Invalid target %q: empty host or interface", s)
	}
	return Target{Host: host, Interface: ifName}, nil
}

func (t Target) String() string {
	return t.Host + ":" + t.Interface
}

func (t Target) IsZero() bool {
	return t == Target{}
}

// Switch returns a client for the target with default transport settings.
func (t Target) Switch() *Switch {
	return New(t.Host, t.Interface)
}
