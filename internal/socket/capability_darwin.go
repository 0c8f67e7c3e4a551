//go:build darwin

package socket

// Platform capabilities consumed by the transport layer.
const (
	// BindsToMulticastAddress: Darwin accepts binding a socket directly to a
	// multicast group address.
	BindsToMulticastAddress = true

	// ReuseAddrOnUnicastBind: SO_REUSEADDR is wanted on unicast binds so a
	// restarted process can rebind while the old socket lingers in a closing
	// state.
	ReuseAddrOnUnicastBind = true

	// ShutdownWakesPoll: on Darwin, shutting down a UDP socket does not
	// reliably wake a thread already parked in poll(); the transport must
	// send a decoy datagram to force readiness.
	ShutdownWakesPoll = false
)
