//go:build freebsd || linux || netbsd || openbsd

package socket

// Platform capabilities consumed by the transport layer.
const (
	// BindsToMulticastAddress: these kernels accept binding a socket
	// directly to a multicast group address.
	BindsToMulticastAddress = true

	// ReuseAddrOnUnicastBind: SO_REUSEADDR is wanted on unicast binds so a
	// restarted process can rebind while the old socket lingers in a closing
	// state. It does not allow hijacking a live binding here.
	ReuseAddrOnUnicastBind = true

	// ShutdownWakesPoll: shutting down a UDP socket reliably makes a thread
	// parked in poll() return, so no decoy datagram is needed to unblock a
	// reader during shutdown.
	ShutdownWakesPoll = true
)
