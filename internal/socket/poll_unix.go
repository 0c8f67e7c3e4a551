//go:build darwin || freebsd || linux || netbsd || openbsd

package socket

import (
	"time"

	"golang.org/x/sys/unix"
)

// WaitRead blocks until the socket is readable or the timeout expires. The
// timeout follows the transport convention: zero polls without blocking,
// negative waits indefinitely. A false result with a nil error means the
// wait expired. EINTR is surfaced so the caller can apply its retry policy.
func (s *Socket) WaitRead(timeout time.Duration) (bool, error) {
	return s.wait(unix.POLLIN, timeout)
}

// WaitWrite blocks until the socket is writable or the timeout expires.
func (s *Socket) WaitWrite(timeout time.Duration) (bool, error) {
	return s.wait(unix.POLLOUT, timeout)
}

func (s *Socket) wait(events int16, timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
	n, err := unix.Poll(fds, pollTimeout(timeout))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
