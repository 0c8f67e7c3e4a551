//go:build windows

package socket

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"unsafe"
)

// Multicast configuration uses raw Winsock socket options here because
// net.FilePacketConn, which the Unix files use to reach the x/net helpers,
// is not supported on Windows.

// SetMulticastInterface selects the outbound interface for multicast sends.
func (s *Socket) SetMulticastInterface(name string) error {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return fmt.Errorf("socket: unknown multicast interface %q: %w", name, err)
	}
	if s.family == FamilyIPv6 {
		return os.NewSyscallError("setsockopt",
			syscall.SetsockoptInt(s.fd, syscall.IPPROTO_IPV6, syscall.IPV6_MULTICAST_IF, ifi.Index))
	}
	addr, err := interfaceIPv4(ifi)
	if err != nil {
		return err
	}
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptInet4Addr(s.fd, syscall.IPPROTO_IP, syscall.IP_MULTICAST_IF, addr))
}

// SetMulticastTTL sets the TTL (IPv4) or hop limit (IPv6) for multicast
// sends.
func (s *Socket) SetMulticastTTL(ttl int) error {
	if s.family == FamilyIPv6 {
		return os.NewSyscallError("setsockopt",
			syscall.SetsockoptInt(s.fd, syscall.IPPROTO_IPV6, syscall.IPV6_MULTICAST_HOPS, ttl))
	}
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptInt(s.fd, syscall.IPPROTO_IP, syscall.IP_MULTICAST_TTL, ttl))
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
	if s.family == FamilyIPv6 {
		mreq := struct {
			Multiaddr [16]byte
			Interface uint32
		}{}
		ip := group.To16()
		if ip == nil {
			return ErrFamilyMismatch
		}
		copy(mreq.Multiaddr[:], ip)
		if ifi != nil {
			mreq.Interface = uint32(ifi.Index)
		}
		return os.NewSyscallError("setsockopt",
			syscall.Setsockopt(s.fd, syscall.IPPROTO_IPV6, syscall.IPV6_JOIN_GROUP,
				(*byte)(unsafe.Pointer(&mreq)), int32(unsafe.Sizeof(mreq))))
	}
	ip := group.To4()
	if ip == nil {
		return ErrFamilyMismatch
	}
	mreq := &syscall.IPMreq{}
	copy(mreq.Multiaddr[:], ip)
	if ifi != nil {
		addr, err := interfaceIPv4(ifi)
		if err != nil {
			return err
		}
		mreq.Interface = addr
	}
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptIPMreq(s.fd, syscall.IPPROTO_IP, syscall.IP_ADD_MEMBERSHIP, mreq))
}

func interfaceIPv4(ifi *net.Interface) ([4]byte, error) {
	var out [4]byte
	addrs, err := ifi.Addrs()
	if err != nil {
		return out, err
	}
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil {
			copy(out[:], ip4)
			return out, nil
		}
	}
	return out, errors.New("socket: interface " + ifi.Name + " has no IPv4 address")
}
