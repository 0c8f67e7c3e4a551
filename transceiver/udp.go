package transceiver

import (
	"net"
	"sync"
	"time"

	"github.com/courierkit/datagram/internal/protocol"
	"github.com/courierkit/datagram/internal/socket"
	"github.com/courierkit/datagram/internal/trace"
	"github.com/courierkit/datagram/properties"
	"github.com/courierkit/datagram/stats"
)

type role uint8

const (
	roleOutbound role = iota
	roleInbound
	roleInboundMulticast
)

// UDP is the datagram transport endpoint. It owns exactly one non-blocking
// UDP socket from construction until Close.
//
// Concurrency contract: at most one goroutine may call Read and at most one
// may call Write at any time (the two may run concurrently with each other);
// Shutdown may be called from any goroutine. The shutdown flag is the only
// state shared across goroutines and is guarded by its own lock; everything
// else is written at construction or by the I/O goroutine only.
type UDP struct {
	sock *socket.Socket
	role role
	// addr is the fixed peer (outbound) or the resolved bind address
	// (inbound); for multicast receivers it keeps the group address even
	// when the socket had to bind the wildcard address instead.
	addr *net.UDPAddr

	mu             sync.Mutex
	shutdownReq    bool
	pendingConnect bool

	rcvSize int
	sndSize int
	warn    bool

	tracer trace.Tracer
	stats  stats.Recorder
	wake   waker
}

var _ Transceiver = (*UDP)(nil)

// Dial creates an outbound transceiver pre-connected to the peer at address
// ("host:port"). Connecting a UDP socket performs no handshake; it only
// fixes the peer so later reads and writes need no per-call addressing.
//
// When address names a multicast group, WithMulticastInterface and
// WithMulticastTTL configure the outbound interface and TTL; both are no-ops
// for unicast peers.
//
// On any failure the socket is released and the returned transceiver is nil;
// a failed construction must not be used.
func Dial(address string, opts ...Option) (*UDP, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	addr, family, err := socket.ResolveAddress(cfg.family, address)
	if err != nil {
		return nil, &SocketError{Op: "resolve " + address, Err: err}
	}
	u, err := newTransceiver(cfg, family, roleOutbound, addr)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			u.sock.Close()
		}
	}()
	if err = u.sock.Connect(addr); err != nil {
		return nil, &SocketError{Op: "connect", Err: err}
	}
	if addr.IP.IsMulticast() {
		if cfg.mcastInterface != "" {
			if err = u.sock.SetMulticastInterface(cfg.mcastInterface); err != nil {
				return nil, &SocketError{Op: "set multicast interface", Err: err}
			}
		}
		if cfg.mcastTTL != -1 {
			if err = u.sock.SetMulticastTTL(cfg.mcastTTL); err != nil {
				return nil, &SocketError{Op: "set multicast ttl", Err: err}
			}
		}
	}
	u.tracer.Network(trace.LevelLifecycle, "starting to send udp datagrams (%s)", u)
	ok = true
	return u, nil
}

// Listen creates an inbound transceiver bound to host and port. An empty
// host binds the wildcard address; a port of zero lets the kernel pick one
// (see EffectivePort).
//
// When host resolves to a multicast group address, the socket enables
// address reuse so several processes can share the group, binds (to the
// wildcard address on platforms that reject binding the group directly),
// and joins the group on the interface named by WithMulticastInterface or
// on the system default interface.
//
// For unicast binds, WithConnectToFirstSender defers peer association to the
// first arriving datagram.
func Listen(host string, port int, opts ...Option) (*UDP, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	addr, family, err := socket.Resolve(cfg.family, host, port)
	if err != nil {
		return nil, &SocketError{Op: "resolve bind address", Err: err}
	}
	u, err := newTransceiver(cfg, family, roleInbound, addr)
	if err != nil {
		return nil, err
	}
	ok := false
	defer func() {
		if !ok {
			u.sock.Close()
		}
	}()
	u.pendingConnect = cfg.connectFirst
	u.tracer.Network(trace.LevelControl, "attempting to bind udp socket to %s", addr)
	if addr.IP.IsMulticast() {
		u.role = roleInboundMulticast
		// Required so multiple processes on one host can receive the group.
		if err = u.sock.SetReuseAddress(); err != nil {
			return nil, &SocketError{Op: "set reuse address", Err: err}
		}
		bindAddr := addr
		if !socket.BindsToMulticastAddress {
			bindAddr = socket.Wildcard(family, port)
		}
		if err = u.sock.Bind(bindAddr); err != nil {
			return nil, &SocketError{Op: "bind", Err: err}
		}
		if err = u.sock.JoinGroup(addr.IP, cfg.mcastInterface); err != nil {
			return nil, &SocketError{Op: "join multicast group", Err: err}
		}
	} else {
		// Reuse lets a restarted process rebind past a lingering close;
		// platforms where reuse would instead allow hijacking a live port
		// skip it.
		if socket.ReuseAddrOnUnicastBind {
			if err = u.sock.SetReuseAddress(); err != nil {
				return nil, &SocketError{Op: "set reuse address", Err: err}
			}
		}
		if err = u.sock.Bind(addr); err != nil {
			return nil, &SocketError{Op: "bind", Err: err}
		}
	}
	u.tracer.Network(trace.LevelLifecycle, "starting to receive udp datagrams (%s)", u)
	ok = true
	return u, nil
}

func newTransceiver(cfg *config, family socket.Family, r role, addr *net.UDPAddr) (*UDP, error) {
	sock, err := socket.New(family)
	if err != nil {
		return nil, &SocketError{Op: "create socket", Err: err}
	}
	u := &UDP{
		sock:   sock,
		role:   r,
		addr:   addr,
		warn:   cfg.props.Bool(protocol.KeyWarnDatagrams, false),
		tracer: trace.New(cfg.log, cfg.traceLevel),
		stats:  cfg.stats,
		wake:   platformWaker(),
	}
	if err = u.negotiateBufferSizes(cfg.props); err != nil {
		sock.Close()
		return nil, err
	}
	return u, nil
}

// Write sends p as one atomic datagram to the connected peer.
//
// Oversize payloads fail with a DatagramLimitError before any syscall; UDP
// cannot short-write, so any kernel-reported failure is a transport
// condition, never a framing one. A zero timeout returns ErrNotReady when
// the send buffer is full; a positive timeout bounds the writability wait;
// a negative timeout waits indefinitely. Interrupted syscalls are retried
// silently.
func (u *UDP) Write(p []byte, timeout time.Duration) error {
	s := u.handle()
	if limit := u.maxSendSize(); len(p) > limit {
		// No warning on the send side: the caller gets the error directly.
		return &DatagramLimitError{Size: len(p), Limit: limit}
	}
	for {
		n, err := s.Send(p)
		if err == nil {
			if n != len(p) {
				panic("datagram: udp send was not atomic")
			}
			if u.stats != nil {
				u.stats.BytesSent(protocol.TransportType, n)
			}
			u.tracer.Network(trace.LevelData, "sent %d bytes via udp (%s)", n, u)
			return nil
		}
		if socket.IsInterrupted(err) {
			continue
		}
		if !socket.IsWouldBlock(err) {
			return &SocketError{Op: "send", Err: err}
		}
		if timeout == 0 {
			return ErrNotReady
		}
		for {
			ready, werr := s.WaitWrite(timeout)
			if werr != nil {
				if socket.IsInterrupted(werr) {
					continue
				}
				return &SocketError{Op: "wait for writability", Err: werr}
			}
			if !ready {
				return &TimeoutError{Op: "write", After: timeout}
			}
			break
		}
	}
}

// Read receives one datagram into p and returns its exact length.
//
// len(p) must not exceed the negotiated receive ceiling; a larger buffer
// fails with a DatagramLimitError up front (and a warning when enabled,
// since silent truncation on the receive side would otherwise be invisible).
// The shutdown flag is checked before every receive attempt, so a
// concurrent Shutdown releases a parked reader with a ConnectionLostError.
// While the transceiver is waiting for its first sender, the sender of the
// first datagram becomes the permanent peer.
func (u *UDP) Read(p []byte, timeout time.Duration) (int, error) {
	s := u.handle()
	limit := u.maxRecvSize()
	if len(p) > limit {
		if u.warn {
			u.tracer.Warning("datagram limit: receive buffer of %d bytes exceeds the maximum payload of %d", len(p), limit)
		}
		return 0, &DatagramLimitError{Size: len(p), Limit: limit}
	}
	for {
		u.mu.Lock()
		down, pending := u.shutdownReq, u.pendingConnect
		u.mu.Unlock()
		if down {
			return 0, &ConnectionLostError{}
		}

		var (
			n         int
			from      *net.UDPAddr
			truncated bool
			err       error
		)
		if pending {
			n, from, truncated, err = s.RecvFrom(p)
			if err == nil {
				// First datagram: lock the socket to its sender.
				if cerr := s.Connect(from); cerr != nil {
					return 0, &SocketError{Op: "connect to first sender", Err: cerr}
				}
				u.mu.Lock()
				u.pendingConnect = false
				u.mu.Unlock()
				u.tracer.Network(trace.LevelLifecycle, "associated udp socket with peer %s (%s)", from, u)
			}
		} else {
			n, truncated, err = s.Recv(p)
		}
		if err != nil {
			if socket.IsInterrupted(err) {
				continue
			}
			if !socket.IsWouldBlock(err) {
				return 0, &SocketError{Op: "recv", Err: err}
			}
			if timeout == 0 {
				return 0, ErrNotReady
			}
			for {
				ready, werr := s.WaitRead(timeout)
				if werr != nil {
					if socket.IsInterrupted(werr) {
						continue
					}
					return 0, &SocketError{Op: "wait for readability", Err: werr}
				}
				if !ready {
					return 0, &TimeoutError{Op: "read", After: timeout}
				}
				break
			}
			// Readable again; the outer loop re-checks the shutdown flag
			// before the next receive, which is how a decoy wake turns into
			// a connection-lost error instead of data.
			continue
		}
		if truncated {
			if u.warn {
				u.tracer.Warning("datagram limit: incoming datagram exceeded the maximum payload of %d bytes", limit)
			}
			return 0, &DatagramLimitError{Limit: limit}
		}
		if u.stats != nil {
			u.stats.BytesReceived(protocol.TransportType, n)
		}
		u.tracer.Network(trace.LevelData, "received %d bytes via udp (%s)", n, u)
		return n, nil
	}
}

// CheckWriteSize verifies n bytes would fit in one datagram under the
// negotiated send ceiling, without performing I/O.
func (u *UDP) CheckWriteSize(n int) error {
	if limit := u.maxSendSize(); n > limit {
		return &DatagramLimitError{Size: n, Limit: limit}
	}
	return nil
}

// Shutdown requests cooperative teardown from any goroutine: it sets the
// shutdown flag under its lock, shuts the socket down in both directions,
// and, on platforms where that does not wake a parked poller, sends a
// decoy datagram to force readiness. A reader parked in Read observes the
// flag on its next loop iteration and fails with ConnectionLostError.
//
// Shutdown does not release the descriptor; Close must still be called.
func (u *UDP) Shutdown() {
	u.handle()
	u.tracer.Network(trace.LevelControl, "shutting down udp transceiver for reading and writing (%s)", u)
	u.mu.Lock()
	u.shutdownReq = true
	u.mu.Unlock()
	u.wake.wake(u)
}

// Close releases the socket. The handle must still be open: closing twice,
// like any I/O after Close, is a programming-contract violation and panics.
func (u *UDP) Close() error {
	s := u.handle()
	u.tracer.Network(trace.LevelLifecycle, "closing udp transceiver (%s)", u)
	u.sock = nil
	if err := s.Close(); err != nil {
		return &SocketError{Op: "close", Err: err}
	}
	return nil
}

// Type returns the transport type name recorded in statistics.
func (u *UDP) Type() string {
	return protocol.TransportType
}

// EffectivePort returns the actually-bound local port. After binding port
// zero, this is the kernel-assigned port.
func (u *UDP) EffectivePort() int {
	local, err := u.handle().LocalAddr()
	if err != nil {
		return 0
	}
	return local.Port
}

// String renders the transceiver's addresses for trace output.
func (u *UDP) String() string {
	if u.sock == nil {
		return "udp (closed)"
	}
	local, err := u.sock.LocalAddr()
	if err != nil {
		return "udp"
	}
	if u.role == roleInboundMulticast {
		return "udp multicast group " + u.addr.String() + " local " + local.String()
	}
	if remote, rerr := u.sock.RemoteAddr(); rerr == nil {
		return "udp local " + local.String() + " remote " + remote.String()
	}
	return "udp local " + local.String()
}

func (u *UDP) maxSendSize() int {
	return min(protocol.MaxDatagramSize, u.sndSize-protocol.Overhead)
}

func (u *UDP) maxRecvSize() int {
	return min(protocol.MaxDatagramSize, u.rcvSize-protocol.Overhead)
}

func (u *UDP) handle() *socket.Socket {
	if u.sock == nil {
		panic("datagram: use of closed transceiver")
	}
	return u.sock
}

// negotiateBufferSizes resolves the effective kernel buffer sizes for both
// directions: read the default, apply a configured override unless it is
// below the protocol overhead floor, then read back what the kernel actually
// applied, since it may silently clamp the request. The applied sizes, not
// the requested ones, govern the datagram ceilings.
func (u *UDP) negotiateBufferSizes(props *properties.Properties) error {
	directions := []struct {
		name string
		key  string
		get  func() (int, error)
		set  func(int) error
		out  *int
	}{
		{"receive", protocol.KeyRecvBufferSize, u.sock.RecvBufferSize, u.sock.SetRecvBufferSize, &u.rcvSize},
		{"send", protocol.KeySendBufferSize, u.sock.SendBufferSize, u.sock.SetSendBufferSize, &u.sndSize},
	}
	for _, d := range directions {
		dflt, err := d.get()
		if err != nil {
			return &SocketError{Op: "read " + d.name + " buffer size", Err: err}
		}
		*d.out = dflt
		requested := props.Int(d.key, dflt)
		if requested < protocol.Overhead {
			u.tracer.Warning("invalid %s value of %d adjusted to the kernel default of %d", d.key, requested, dflt)
			requested = dflt
		}
		if requested == dflt {
			continue
		}
		if err = d.set(requested); err != nil {
			return &SocketError{Op: "set " + d.name + " buffer size", Err: err}
		}
		applied, err := d.get()
		if err != nil {
			return &SocketError{Op: "read " + d.name + " buffer size", Err: err}
		}
		*d.out = applied
		if applied < requested {
			u.tracer.Warning("udp %s buffer size: requested %d bytes, kernel applied %d", d.name, requested, applied)
		}
	}
	return nil
}
