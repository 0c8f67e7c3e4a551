//go:build darwin || freebsd || linux || netbsd || openbsd

package socket

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"
)

// Multicast configuration goes through the x/net ipv4/ipv6 packages, which
// already encode the per-platform sockopt layouts. They operate on a
// net.PacketConn, so the owned descriptor is temporarily duplicated and
// wrapped; socket options set through a duplicate apply to the shared socket
// description, and the wrapper is closed before returning.

// SetMulticastInterface selects the outbound interface for multicast sends.
func (s *Socket) SetMulticastInterface(name string) error {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return fmt.Errorf("socket: unknown multicast interface %q: %w", name, err)
	}
	return s.withPacketConn(func(c net.PacketConn) error {
		if s.family == FamilyIPv6 {
			return ipv6.NewPacketConn(c).SetMulticastInterface(ifi)
		}
		return ipv4.NewPacketConn(c).SetMulticastInterface(ifi)
	})
}

// SetMulticastTTL sets the TTL (IPv4) or hop limit (IPv6) for multicast
// sends.
func (s *Socket) SetMulticastTTL(ttl int) error {
	return s.withPacketConn(func(c net.PacketConn) error {
		if s.family == FamilyIPv6 {
			return ipv6.NewPacketConn(c).SetMulticastHopLimit(ttl)
		}
		return ipv4.NewPacketConn(c).SetMulticastTTL(ttl)
	})
}

// JoinGroup joins the multicast group on the named interface, or on the
// system default interface when name is empty.
func (s *Socket) JoinGroup(group net.IP, name string) error {
	var ifi *net.Interface
	if name != "" {
		found, err := net.InterfaceByName(name)
		if err != nil {
			return fmt.Errorf("socket: unknown multicast interface %q: %w", name, err)
		}
		ifi = found
	}
	return s.withPacketConn(func(c net.PacketConn) error {
		if s.family == FamilyIPv6 {
			return ipv6.NewPacketConn(c).JoinGroup(ifi, &net.UDPAddr{IP: group})
		}
		return ipv4.NewPacketConn(c).JoinGroup(ifi, &net.UDPAddr{IP: group})
	})
}

func (s *Socket) withPacketConn(fn func(net.PacketConn) error) error {
	dup, err := unix.Dup(s.fd)
	if err != nil {
		return os.NewSyscallError("dup", err)
	}
	f := os.NewFile(uintptr(dup), "udp")
	conn, err := net.FilePacketConn(f)
	f.Close()
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}
