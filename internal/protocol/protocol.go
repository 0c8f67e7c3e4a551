// Package protocol defines the wire-level constants shared by the datagram
// transport: UDP/IP header overhead, the single-datagram payload ceiling, and
// the configuration keys consulted during transceiver construction.
package protocol

// Datagram size accounting per RFC 768 (UDP) and RFC 791 (IP).
//
// The IP total-length field is 16 bits, so a datagram can never exceed 65535
// bytes on the wire. Of those, 20 bytes belong to the IP header and 8 bytes to
// the UDP header, leaving 65507 bytes for the payload.
const (
	// Overhead is the per-datagram protocol overhead accounted against the
	// wire ceiling: a 20-byte IP header plus an 8-byte UDP header.
	Overhead = 20 + 8

	// MaxDatagramSize is the largest payload a single UDP datagram can carry
	// regardless of socket buffer configuration. Payloads above this limit are
	// a hard error; the transport never fragments.
	MaxDatagramSize = 65535 - Overhead
)

// TransportType identifies this transport to statistics sinks and trace lines.
const TransportType = "udp"

// Configuration keys consulted through the read-only properties source.
//
// Buffer-size overrides below Overhead are rejected during negotiation and
// replaced by the kernel default (with a warning, not a failure).
const (
	// KeyRecvBufferSize overrides the kernel receive buffer size in bytes.
	KeyRecvBufferSize = "udp.rcvsize"

	// KeySendBufferSize overrides the kernel send buffer size in bytes.
	KeySendBufferSize = "udp.sndsize"

	// KeyWarnDatagrams enables warnings when a datagram exceeds the
	// negotiated size ceiling. Receivers warn on this condition because
	// silent truncation would otherwise be invisible to the application.
	KeyWarnDatagrams = "warn.datagrams"

	// KeyTraceNetwork sets the network trace verbosity: 1 traces socket
	// lifecycle, 2 adds bind and shutdown attempts, 3 adds per-datagram
	// byte counts.
	KeyTraceNetwork = "trace.network"
)
