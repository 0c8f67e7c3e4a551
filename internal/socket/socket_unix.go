//go:build darwin || freebsd || linux || netbsd || openbsd

package socket

import (
	"errors"
	"net"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Socket owns exactly one non-blocking UDP descriptor. It is not safe for
// two goroutines to Recv concurrently, nor two to Send concurrently; one
// reader plus one writer is fine.
type Socket struct {
	fd     int
	family Family
}

// New creates a non-blocking, close-on-exec UDP socket for the family.
func New(family Family) (*Socket, error) {
	domain := unix.AF_INET
	if family == FamilyIPv6 {
		domain = unix.AF_INET6
	}
	// The ForkLock bracket keeps the descriptor from leaking into a child
	// spawned between socket() and CloseOnExec.
	syscall.ForkLock.RLock()
	fd, err := unix.Socket(domain, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err == nil {
		unix.CloseOnExec(fd)
	}
	syscall.ForkLock.RUnlock()
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err = unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
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
	err := unix.Close(s.fd)
	s.fd = -1
	return os.NewSyscallError("close", err)
}

// Bind binds the socket to a local address.
func (s *Socket) Bind(addr *net.UDPAddr) error {
	sa, err := s.sockaddr(addr)
	if err != nil {
		return err
	}
	return os.NewSyscallError("bind", unix.Bind(s.fd, sa))
}

// Connect fixes the peer for subsequent Send/Recv calls. For UDP this
// performs no handshake; it only installs the peer filter in the kernel.
func (s *Socket) Connect(addr *net.UDPAddr) error {
	sa, err := s.sockaddr(addr)
	if err != nil {
		return err
	}
	return os.NewSyscallError("connect", unix.Connect(s.fd, sa))
}

// Disconnect clears any peer association by connecting with AF_UNSPEC.
// Kernels acknowledge the dissolution in different ways (Darwin reports
// EAFNOSUPPORT, others ENOTCONN when no peer was set); both outcomes leave
// the socket dissociated and are not errors.
func (s *Socket) Disconnect() error {
	var rsa unix.RawSockaddrAny
	rsa.Addr.Family = unix.AF_UNSPEC
	_, _, errno := unix.Syscall(unix.SYS_CONNECT, uintptr(s.fd),
		uintptr(unsafe.Pointer(&rsa)), uintptr(unix.SizeofSockaddrAny))
	if errno != 0 && errno != unix.EAFNOSUPPORT && errno != unix.ENOTCONN {
		return os.NewSyscallError("connect", errno)
	}
	return nil
}

// Shutdown disables reading and writing on the descriptor without releasing
// it. ENOTCONN from unconnected datagram sockets is expected and ignored.
func (s *Socket) Shutdown() error {
	err := unix.Shutdown(s.fd, unix.SHUT_RDWR)
	if err != nil && !errors.Is(err, unix.ENOTCONN) {
		return os.NewSyscallError("shutdown", err)
	}
	return nil
}

// LocalAddr returns the bound local address, including the kernel-assigned
// port after a port-zero bind.
func (s *Socket) LocalAddr() (*net.UDPAddr, error) {
	sa, err := unix.Getsockname(s.fd)
	if err != nil {
		return nil, os.NewSyscallError("getsockname", err)
	}
	return fromSockaddr(sa), nil
}

// RemoteAddr returns the associated peer address, or an error if the socket
// has no peer.
func (s *Socket) RemoteAddr() (*net.UDPAddr, error) {
	sa, err := unix.Getpeername(s.fd)
	if err != nil {
		return nil, os.NewSyscallError("getpeername", err)
	}
	return fromSockaddr(sa), nil
}

// SetReuseAddress enables SO_REUSEADDR, allowing rebinding while an earlier
// socket lingers in a closing state and letting multiple multicast receivers
// share one group port.
func (s *Socket) SetReuseAddress() error {
	return os.NewSyscallError("setsockopt",
		unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1))
}

// RecvBufferSize reads the kernel receive buffer size.
func (s *Socket) RecvBufferSize() (int, error) {
	n, err := unix.GetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF)
	return n, os.NewSyscallError("getsockopt", err)
}

// SetRecvBufferSize requests a kernel receive buffer size. The kernel may
// silently clamp the value; read it back to learn what was applied.
func (s *Socket) SetRecvBufferSize(n int) error {
	return os.NewSyscallError("setsockopt",
		unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_RCVBUF, n))
}

// SendBufferSize reads the kernel send buffer size.
func (s *Socket) SendBufferSize() (int, error) {
	n, err := unix.GetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF)
	return n, os.NewSyscallError("getsockopt", err)
}

// SetSendBufferSize requests a kernel send buffer size.
func (s *Socket) SetSendBufferSize(n int) error {
	return os.NewSyscallError("setsockopt",
		unix.SetsockoptInt(s.fd, unix.SOL_SOCKET, unix.SO_SNDBUF, n))
}

// Send transmits one datagram to the connected peer. The raw errno is
// returned unwrapped so callers can apply the IsInterrupted/IsWouldBlock
// retry policy.
func (s *Socket) Send(p []byte) (int, error) {
	return unix.Write(s.fd, p)
}

// Recv receives one datagram from the connected peer. The boolean reports
// whether the kernel truncated the datagram because it exceeded len(p).
func (s *Socket) Recv(p []byte) (int, bool, error) {
	n, _, flags, _, err := unix.Recvmsg(s.fd, p, nil, 0)
	if err != nil {
		return 0, false, err
	}
	return n, flags&unix.MSG_TRUNC != 0, nil
}

// RecvFrom receives one datagram and captures the sender's address, used
// while a connect-on-first-packet socket is still unassociated.
func (s *Socket) RecvFrom(p []byte) (int, *net.UDPAddr, bool, error) {
	n, _, flags, sa, err := unix.Recvmsg(s.fd, p, nil, 0)
	if err != nil {
		return 0, nil, false, err
	}
	return n, fromSockaddr(sa), flags&unix.MSG_TRUNC != 0, nil
}

// IsInterrupted reports whether err is a signal-interrupted syscall, which
// the transport retries silently and without limit.
func IsInterrupted(err error) bool {
	return errors.Is(err, unix.EINTR)
}

// IsWouldBlock reports whether err means the non-blocking operation found the
// socket not ready.
func IsWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func (s *Socket) sockaddr(addr *net.UDPAddr) (unix.Sockaddr, error) {
	if s.family == FamilyIPv6 {
		sa := &unix.SockaddrInet6{Port: addr.Port}
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
	sa := &unix.SockaddrInet4{Port: addr.Port}
	if addr.IP != nil {
		ip := addr.IP.To4()
		if ip == nil {
			return nil, ErrFamilyMismatch
		}
		copy(sa.Addr[:], ip)
	}
	return sa, nil
}

func fromSockaddr(sa unix.Sockaddr) *net.UDPAddr {
	switch v := sa.(type) {
	case *unix.SockaddrInet4:
		return &net.UDPAddr{IP: net.IPv4(v.Addr[0], v.Addr[1], v.Addr[2], v.Addr[3]), Port: v.Port}
	case *unix.SockaddrInet6:
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
