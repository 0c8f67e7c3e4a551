//go:build windows

package socket

import (
	"errors"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// Socket owns exactly one non-blocking UDP descriptor. It is not safe for
// two goroutines to Recv concurrently, nor two to Send concurrently; one
// reader plus one writer is fine.
type Socket struct {
	fd     syscall.Handle
	family Family
}

// New creates a non-blocking UDP socket for the family.
func New(family Family) (*Socket, error) {
	domain := syscall.AF_INET
	if family == FamilyIPv6 {
		domain = syscall.AF_INET6
	}
	fd, err := syscall.Socket(domain, syscall.SOCK_DGRAM, syscall.IPPROTO_UDP)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	syscall.CloseOnExec(fd)
	if err = syscall.SetNonblock(fd, true); err != nil {
		syscall.Closesocket(fd)
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Socket{fd: fd, family: family}, nil
}

// Family returns the protocol family fixed at creation.
func (s *Socket) Family() Family {
	return s.family
}

// Close releases the descriptor. The Socket must not be used afterwards.
func (s *Socket) Close() error {
	err := syscall.Closesocket(s.fd)
	s.fd = syscall.InvalidHandle
	return os.NewSyscallError("closesocket", err)
}

// Bind binds the socket to a local address.
func (s *Socket) Bind(addr *net.UDPAddr) error {
	sa, err := s.sockaddr(addr)
	if err != nil {
		return err
	}
	return os.NewSyscallError("bind", syscall.Bind(s.fd, sa))
}

// Connect fixes the peer for subsequent Send/Recv calls.
func (s *Socket) Connect(addr *net.UDPAddr) error {
	sa, err := s.sockaddr(addr)
	if err != nil {
		return err
	}
	return os.NewSyscallError("connect", syscall.Connect(s.fd, sa))
}

// Disconnect clears any peer association. Winsock dissolves the association
// when connect is called with a zero-filled address.
func (s *Socket) Disconnect() error {
	var sa syscall.Sockaddr
	if s.family == FamilyIPv6 {
		sa = &syscall.SockaddrInet6{}
	} else {
		sa = &syscall.SockaddrInet4{}
	}
	err := syscall.Connect(s.fd, sa)
	if err != nil && !errors.Is(err, windows.WSAEAFNOSUPPORT) && !errors.Is(err, windows.WSAENOTCONN) {
		return os.NewSyscallError("connect", err)
	}
	return nil
}

// Shutdown disables reading and writing on the descriptor without releasing
// it. WSAENOTCONN from unconnected datagram sockets is expected and ignored.
func (s *Socket) Shutdown() error {
	err := syscall.Shutdown(s.fd, syscall.SHUT_RDWR)
	if err != nil && !errors.Is(err, windows.WSAENOTCONN) {
		return os.NewSyscallError("shutdown", err)
	}
	return nil
}

// LocalAddr returns the bound local address, including the kernel-assigned
// port after a port-zero bind.
func (s *Socket) LocalAddr() (*net.UDPAddr, error) {
	sa, err := syscall.Getsockname(s.fd)
	if err != nil {
		return nil, os.NewSyscallError("getsockname", err)
	}
	return fromSockaddr(sa), nil
}

// RemoteAddr returns the associated peer address, or an error if the socket
// has no peer.
func (s *Socket) RemoteAddr() (*net.UDPAddr, error) {
	sa, err := syscall.Getpeername(s.fd)
	if err != nil {
		return nil, os.NewSyscallError("getpeername", err)
	}
	return fromSockaddr(sa), nil
}

// SetReuseAddress enables SO_REUSEADDR so multiple multicast receivers can
// share one group port. Unicast binds never use it here; see
// ReuseAddrOnUnicastBind.
func (s *Socket) SetReuseAddress() error {
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptInt(s.fd, syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1))
}

// RecvBufferSize reads the kernel receive buffer size.
func (s *Socket) RecvBufferSize() (int, error) {
	n, err := syscall.GetsockoptInt(s.fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF)
	return n, os.NewSyscallError("getsockopt", err)
}

// SetRecvBufferSize requests a kernel receive buffer size.
func (s *Socket) SetRecvBufferSize(n int) error {
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptInt(s.fd, syscall.SOL_SOCKET, syscall.SO_RCVBUF, n))
}

// SendBufferSize reads the kernel send buffer size.
func (s *Socket) SendBufferSize() (int, error) {
	n, err := syscall.GetsockoptInt(s.fd, syscall.SOL_SOCKET, syscall.SO_SNDBUF)
	return n, os.NewSyscallError("getsockopt", err)
}

// SetSendBufferSize requests a kernel send buffer size.
func (s *Socket) SetSendBufferSize(n int) error {
	return os.NewSyscallError("setsockopt",
		syscall.SetsockoptInt(s.fd, syscall.SOL_SOCKET, syscall.SO_SNDBUF, n))
}

// Send transmits one datagram to the connected peer.
func (s *Socket) Send(p []byte) (int, error) {
	var buf syscall.WSABuf
	buf.Len = uint32(len(p))
	if len(p) > 0 {
		buf.Buf = &p[0]
	}
	var sent uint32
	if err := syscall.WSASend(s.fd, &buf, 1, &sent, 0, nil, nil); err != nil {
		return 0, err
	}
	return int(sent), nil
}

// Recv receives one datagram from the connected peer. The boolean reports
// whether Winsock truncated the datagram (WSAEMSGSIZE) because it exceeded
// len(p).
func (s *Socket) Recv(p []byte) (int, bool, error) {
	var buf syscall.WSABuf
	buf.Len = uint32(len(p))
	if len(p) > 0 {
		buf.Buf = &p[0]
	}
	var recvd, flags uint32
	if err := syscall.WSARecv(s.fd, &buf, 1, &recvd, &flags, nil, nil); err != nil {
		if errors.Is(err, windows.WSAEMSGSIZE) {
			return int(recvd), true, nil
		}
		return 0, false, err
	}
	return int(recvd), false, nil
}

// RecvFrom receives one datagram and captures the sender's address, used
// while a connect-on-first-packet socket is still unassociated.
func (s *Socket) RecvFrom(p []byte) (int, *net.UDPAddr, bool, error) {
	var buf syscall.WSABuf
	buf.Len = uint32(len(p))
	if len(p) > 0 {
		buf.Buf = &p[0]
	}
	var (
		recvd, flags uint32
		rsa          syscall.RawSockaddrAny
		rsaLen       = int32(syscall.SizeofSockaddrAny)
	)
	err := syscall.WSARecvFrom(s.fd, &buf, 1, &recvd, &flags, &rsa, &rsaLen, nil, nil)
	truncated := false
	if err != nil {
		if !errors.Is(err, windows.WSAEMSGSIZE) {
			return 0, nil, false, err
		}
		truncated = true
	}
	sa, err := rsa.Sockaddr()
	if err != nil {
		return 0, nil, false, os.NewSyscallError("recvfrom", err)
	}
	return int(recvd), fromSockaddr(sa), truncated, nil
}

// IsInterrupted reports whether err is an interrupted Winsock call, which
// the transport retries silently and without limit.
func IsInterrupted(err error) bool {
	return errors.Is(err, windows.WSAEINTR)
}

// IsWouldBlock reports whether err means the non-blocking operation found the
// socket not ready.
func IsWouldBlock(err error) bool {
	return errors.Is(err, windows.WSAEWOULDBLOCK)
}

func (s *Socket) sockaddr(addr *net.UDPAddr) (syscall.Sockaddr, error) {
	if s.family == FamilyIPv6 {
		sa := &syscall.SockaddrInet6{Port: addr.Port}
		if addr.IP != nil {
			ip := addr.IP.To16()
			if ip == nil {
				return nil, ErrFamilyMismatch
			}
			copy(sa.Addr[:], ip)
		}
		if addr.Zone != "" {
			ifi, err := net.InterfaceByName(addr.Zone)
			if err != nil {
				return nil, err
			}
			sa.ZoneId = uint32(ifi.Index)
		}
		return sa, nil
	}
	sa := &syscall.SockaddrInet4{Port: addr.Port}
	if addr.IP != nil {
		ip := addr.IP.To4()
		if ip == nil {
			return nil, ErrFamilyMismatch
		}
		copy(sa.Addr[:], ip)
	}
	return sa, nil
}

func fromSockaddr(sa syscall.Sockaddr) *net.UDPAddr {
	switch v := sa.(type) {
	case *syscall.SockaddrInet4:
		return &net.UDPAddr{IP: net.IPv4(v.Addr[0], v.Addr[1], v.Addr[2], v.Addr[3]), Port: v.Port}
	case *syscall.SockaddrInet6:
		addr := &net.UDPAddr{IP: make(net.IP, net.IPv6len), Port: v.Port}
		copy(addr.IP, v.Addr[:])
		if v.ZoneId != 0 {
			if ifi, err := net.InterfaceByIndex(int(v.ZoneId)); err == nil {
				addr.Zone = ifi.Name
			}
		}
		return addr
	default:
		return nil
	}
}
