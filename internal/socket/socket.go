// Package socket is the platform abstraction under the datagram transport:
// non-blocking UDP descriptors, socket-option plumbing, multicast
// configuration, and poll-based readiness waits.
//
// Every Socket is created non-blocking and stays that way for its entire
// life. Blocking-with-timeout behavior is built above this package by pairing
// the non-blocking I/O calls with WaitRead/WaitWrite, never by switching the
// descriptor to blocking mode; that keeps shutdown flags and timeouts
// observable in the layer above.
//
// Platform-divergent behavior lives in the *_unix.go and *_windows.go files;
// the capability constants (BindsToMulticastAddress, ReuseAddrOnUnicastBind,
// ShutdownWakesPoll) expose the differences the transport must sequence
// around without leaking OS details upward.
package socket

import "time"

// pollTimeout converts the transport's timeout convention (zero = immediate,
// negative = infinite) into poll's millisecond convention. Sub-millisecond
// positive timeouts round up to one millisecond so they cannot degrade into
// an immediate return.
func pollTimeout(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := int(d / time.Millisecond)
	if d > 0 && ms == 0 {
		ms = 1
	}
	return ms
}
