//go:build windows

package socket

import (
	"time"

	"golang.org/x/sys/windows"
)

// WSAPoll event bits. POLLIN is the POLLRDNORM|POLLRDBAND combination Winsock
// documents for datagram sockets.
const (
	pollRDNorm = 0x0100
	pollRDBand = 0x0200
	pollWRNorm = 0x0010
)

// WaitRead blocks until the socket is readable or the timeout expires. The
// timeout follows the transport convention: zero polls without blocking,
// negative waits indefinitely. A false result with a nil error means the
// wait expired.
func (s *Socket) WaitRead(timeout time.Duration) (bool, error) {
	return s.wait(pollRDNorm|pollRDBand, timeout)
}

// WaitWrite blocks until the socket is writable or the timeout expires.
func (s *Socket) WaitWrite(timeout time.Duration) (bool, error) {
	return s.wait(pollWRNorm, timeout)
}

func (s *Socket) wait(events int16, timeout time.Duration) (bool, error) {
	fd := windows.WSAPOLLFD{Fd: windows.Handle(s.fd), Events: events}
	n, err := windows.WSAPoll(&fd, 1, int32(pollTimeout(timeout)))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
