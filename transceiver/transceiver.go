// Package transceiver implements the datagram (UDP) transport endpoint used
// by request/reply middleware runtimes.
//
// A transceiver wraps a single UDP socket (unicast, multicast-send, or
// multicast-receive) behind a uniform blocking-with-timeout read/write
// contract, so upper protocol layers can treat datagram transport like any
// stream transport, modulo framing. UDP semantics are preserved, never
// strengthened: datagrams may be lost, duplicated, or reordered, each send
// is atomic, and payloads larger than one datagram are a hard error.
//
// The socket is always non-blocking; blocking-with-timeout is built from an
// explicit poll-based readiness wait, which keeps timeouts and the
// cooperative shutdown flag observable while a caller is parked. One
// goroutine may read while another writes, but two goroutines must not both
// read, nor both write, concurrently.
//
// Construction is two-mode:
//
//   - Dial creates an outbound socket pre-connected to a fixed peer (with
//     optional multicast interface and TTL when the peer is a group).
//   - Listen creates an inbound socket bound to a local endpoint, optionally
//     joined to a multicast group, and optionally locking onto whichever
//     peer sends the first datagram.
//
// Teardown is two-phase: Shutdown unblocks a parked reader (from any
// goroutine), then Close releases the descriptor. Using a transceiver after
// Close is a programming-contract violation and panics.
package transceiver

import "time"

// Transceiver is the uniform transport contract shared by the runtime's
// interchangeable transport implementations.
//
// The timeout convention on Read and Write: zero means never block (return
// ErrNotReady when the socket is not ready), negative means wait
// indefinitely, and a positive value bounds the readiness wait, failing with
// a TimeoutError on expiry.
type Transceiver interface {
	// Read receives one datagram into p and returns its exact length.
	// len(p) must not exceed the negotiated receive ceiling.
	Read(p []byte, timeout time.Duration) (int, error)

	// Write sends p as one atomic datagram. len(p) must not exceed the
	// negotiated send ceiling; oversize payloads fail before any syscall.
	Write(p []byte, timeout time.Duration) error

	// CheckWriteSize verifies n bytes would fit in a single datagram under
	// the negotiated send ceiling, without performing I/O. Framing layers
	// use it to validate message sizes up front.
	CheckWriteSize(n int) error

	// Shutdown requests cooperative teardown: it marks the transceiver and
	// unblocks any reader parked in Read, which then fails with
	// ConnectionLostError. Safe to call from a goroutine other than the
	// I/O goroutines.
	Shutdown()

	// Close releases the socket. It must be called exactly once, after
	// which any use of the transceiver panics.
	Close() error

	// Type returns the transport type name used in statistics records.
	Type() string

	// String renders the local (and, when known, remote) addresses for
	// trace output.
	String() string
}
