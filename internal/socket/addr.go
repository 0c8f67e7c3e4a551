package socket

import (
	"errors"
	"net"
	"strconv"
)

// Family selects the protocol family of a socket. The zero value lets
// resolution pick a family from the resolved address.
type Family int

const (
	// FamilyUnspec defers the family choice to address resolution.
	FamilyUnspec Family = iota
	// FamilyIPv4 forces AF_INET sockets and udp4 resolution.
	FamilyIPv4
	// FamilyIPv6 forces AF_INET6 sockets and udp6 resolution.
	FamilyIPv6
)

// ErrFamilyMismatch is returned when an address cannot be expressed in the
// socket's protocol family, such as an IPv6 peer on an AF_INET socket.
var ErrFamilyMismatch = errors.New("socket: address does not match protocol family")

// Network returns the net package network name for the family.
func (f Family) Network() string {
	switch f {
	case FamilyIPv4:
		return "udp4"
	case FamilyIPv6:
		return "udp6"
	default:
		return "udp"
	}
}

// String implements fmt.Stringer.
func (f Family) String() string {
	return f.Network()
}

// FamilyOf classifies an IP address. A nil IP counts as IPv4, matching the
// wildcard default used for empty bind hosts.
func FamilyOf(ip net.IP) Family {
	if ip != nil && ip.To4() == nil {
		return FamilyIPv6
	}
	return FamilyIPv4
}

// Resolve resolves a host and port into a UDP address for the given family.
// An empty host resolves to the wildcard address (bind semantics). The
// returned family is always concrete: when FamilyUnspec is passed, it is
// derived from the resolved address.
func Resolve(family Family, host string, port int) (*net.UDPAddr, Family, error) {
	if port < 0 || port > 65535 {
		return nil, family, errors.New("socket: port out of range")
	}
	if host == "" {
		return Wildcard(family, port), concrete(family), nil
	}
	addr, err := net.ResolveUDPAddr(family.Network(), net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, family, err
	}
	resolved := FamilyOf(addr.IP)
	if family != FamilyUnspec && resolved != family {
		return nil, family, ErrFamilyMismatch
	}
	return addr, resolved, nil
}

// ResolveAddress resolves a "host:port" string, used by connect-mode
// construction where the peer is fixed up front.
func ResolveAddress(family Family, address string) (*net.UDPAddr, Family, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, family, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, family, errors.New("socket: invalid port in address " + address)
	}
	if host == "" {
		return nil, family, errors.New("socket: missing host in address " + address)
	}
	return Resolve(family, host, port)
}

// Wildcard returns the any-address bind target for the family.
func Wildcard(family Family, port int) *net.UDPAddr {
	if family == FamilyIPv6 {
		return &net.UDPAddr{IP: net.IPv6unspecified, Port: port}
	}
	return &net.UDPAddr{IP: net.IPv4zero, Port: port}
}

func concrete(family Family) Family {
	if family == FamilyUnspec {
		return FamilyIPv4
	}
	return family
}
