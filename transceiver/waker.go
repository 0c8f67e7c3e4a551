package transceiver

import (
	"net"

	"github.com/courierkit/datagram/internal/socket"
	"github.com/courierkit/datagram/internal/trace"
)

// A waker forces a reader parked in a readiness wait to return after a
// shutdown request, so it can observe the shutdown flag. Which implementation
// is used depends on a platform capability: some kernels signal readiness
// when a UDP socket is shut down, others need a decoy datagram.
type waker interface {
	wake(u *UDP)
}

func platformWaker() waker {
	if socket.ShutdownWakesPoll {
		return shutdownWaker{}
	}
	return decoyWaker{}
}

// shutdownWaker relies on the kernel reporting readiness to parked pollers
// when the socket is shut down.
type shutdownWaker struct{}

func (shutdownWaker) wake(u *UDP) {
	if err := u.sock.Shutdown(); err != nil {
		u.tracer.Warning("udp shutdown failed: %s", err.Error())
	}
}

// decoyWaker handles platforms where shutting down (or disconnecting) a UDP
// socket leaves parked pollers asleep. It sends one throwaway datagram to the
// socket's own address purely to force a readiness event; the reader checks
// the shutdown flag before every receive, so the decoy is never surfaced as
// data.
type decoyWaker struct{}

func (decoyWaker) wake(u *UDP) {
	// The local address must be captured before the socket is shut down or
	// dissociated.
	local, err := u.sock.LocalAddr()
	if err != nil {
		u.tracer.Warning("udp shutdown: no local address for decoy wake: %s", err.Error())
		err = u.sock.Shutdown()
		if err != nil {
			u.tracer.Warning("udp shutdown failed: %s", err.Error())
		}
		return
	}
	if err = u.sock.Shutdown(); err != nil {
		u.tracer.Warning("udp shutdown failed: %s", err.Error())
	}

	// A connected UDP socket only receives datagrams from its peer, which
	// would filter out the decoy; dissociate it first. Sockets still waiting
	// for their first sender have no peer to clear.
	u.mu.Lock()
	pending := u.pendingConnect
	u.mu.Unlock()
	if !pending {
		if err = u.sock.Disconnect(); err != nil {
			u.tracer.Warning("udp shutdown: disconnect failed: %s", err.Error())
		}
	}

	if local.IP.IsUnspecified() {
		// A wildcard bind has no routable self address; the loopback
		// address reaches the same port.
		ip := net.IPv4(127, 0, 0, 1)
		if u.sock.Family() == socket.FamilyIPv6 {
			ip = net.IPv6loopback
		}
		local = &net.UDPAddr{IP: ip, Port: local.Port}
	}

	decoy, err := socket.New(u.sock.Family())
	if err != nil {
		u.tracer.Warning("udp shutdown: decoy socket failed: %s", err.Error())
		return
	}
	defer decoy.Close()
	if err = decoy.Connect(local); err != nil {
		u.tracer.Warning("udp shutdown: decoy connect failed: %s", err.Error())
		return
	}
	// The payload content is irrelevant; one byte is enough to trip the wait.
	if _, err = decoy.Send([]byte{0}); err != nil {
		u.tracer.Warning("udp shutdown: decoy send failed: %s", err.Error())
	}
	u.tracer.Network(trace.LevelControl, "sent decoy datagram to %s to release a parked reader", local)
}
