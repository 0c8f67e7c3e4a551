//go:build windows

package socket

// Platform capabilities consumed by the transport layer.
const (
	// BindsToMulticastAddress: Windows rejects binding a socket to a
	// multicast group address; receivers bind the wildcard address on the
	// group's port instead.
	BindsToMulticastAddress = false

	// ReuseAddrOnUnicastBind: on Windows SO_REUSEADDR would let a second
	// process bind an address already owned by another process, so it is
	// not set for unicast binds.
	ReuseAddrOnUnicastBind = false

	// ShutdownWakesPoll: Winsock does not wake a thread parked in a poll
	// call when a UDP socket is shut down; the transport must send a decoy
	// datagram to force readiness.
	ShutdownWakesPoll = false
)
