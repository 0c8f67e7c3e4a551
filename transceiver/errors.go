package transceiver

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotReady is returned by Read and Write when called with a zero timeout
// and the socket is not ready. It is a scheduling signal, not a failure: the
// caller may retry or reschedule the operation.
var ErrNotReady = errors.New("datagram: socket not ready")

// DatagramLimitError reports a payload that exceeds the negotiated
// single-datagram ceiling. On the send side it is raised before any syscall;
// on the receive side it is derived from the kernel's truncation signal,
// meaning the peer exceeded the ceiling.
type DatagramLimitError struct {
	// Size is the offending payload length, or zero when the kernel
	// truncated an incoming datagram of unknown length.
	Size int
	// Limit is the ceiling in effect: min(65507, bufferSize-28).
	Limit int
}

// Error implements error.
func (e *DatagramLimitError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("datagram: payload of %d bytes exceeds maximum of %d", e.Size, e.Limit)
	}
	return fmt.Sprintf("datagram: received datagram exceeded maximum of %d bytes", e.Limit)
}

// TimeoutError reports that a bounded readiness wait expired before the
// socket became ready. It is distinct from other transport failures so upper
// layers can tell "try later" from "broken".
type TimeoutError struct {
	Op string
	// After is the bounded wait that expired.
	After time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("datagram: %s timed out after %s", e.Op, e.After)
}

// Timeout implements the net.Error timeout convention.
func (e *TimeoutError) Timeout() bool { return true }

// ConnectionLostError reports that a read observed a concurrent shutdown
// request. Unlike a timeout it is deliberate and terminal: no further I/O
// will succeed on the transceiver.
type ConnectionLostError struct{}

// Error implements error.
func (e *ConnectionLostError) Error() string {
	return "datagram: connection lost: shutdown requested"
}

// SocketError wraps any other OS-reported socket failure, preserving the
// underlying errno for diagnostics.
type SocketError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *SocketError) Error() string {
	return "datagram: " + e.Op + ": " + e.Err.Error()
}

// Unwrap exposes the underlying OS error.
func (e *SocketError) Unwrap() error { return e.Err }

// IsNotReady reports whether err is the zero-timeout not-ready signal.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

// IsDatagramLimit reports whether err is a datagram size-limit violation.
func IsDatagramLimit(err error) bool {
	var e *DatagramLimitError
	return errors.As(err, &e)
}

// IsTimeout reports whether err is an expired readiness wait.
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}

// IsConnectionLost reports whether err was raised by a shutdown request.
func IsConnectionLost(err error) bool {
	var e *ConnectionLostError
	return errors.As(err, &e)
}
