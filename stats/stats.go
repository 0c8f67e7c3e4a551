// Package stats defines the statistics sink contract consulted by transports
// after successful I/O operations.
//
// Sinks are best-effort and purely observational: the transport calls them
// only on success and never lets them affect control flow. Implementations
// must be safe for concurrent use, since one thread may be sending while
// another receives.
package stats

import "sync/atomic"

// Recorder receives byte counts from a transport. The transport argument is
// the transport type name (for example "udp"), letting a single sink
// aggregate across several interchangeable transport implementations.
type Recorder interface {
	// BytesSent records a successfully transmitted payload of n bytes.
	BytesSent(transport string, n int)

	// BytesReceived records a successfully received payload of n bytes.
	BytesReceived(transport string, n int)
}

// Counters is an atomic in-memory Recorder, suitable for tests and simple
// runtime introspection. The zero value is ready to use.
type Counters struct {
	sent     atomic.Int64
	received atomic.Int64
}

// BytesSent implements Recorder.
func (c *Counters) BytesSent(_ string, n int) {
	c.sent.Add(int64(n))
}

// BytesReceived implements Recorder.
func (c *Counters) BytesReceived(_ string, n int) {
	c.received.Add(int64(n))
}

// Sent returns the total bytes recorded as sent.
func (c *Counters) Sent() int64 {
	return c.sent.Load()
}

// Received returns the total bytes recorded as received.
func (c *Counters) Received() int64 {
	return c.received.Load()
}
