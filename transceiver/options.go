package transceiver

import (
	"errors"

	"github.com/PurpleSec/logx"

	"github.com/courierkit/datagram/internal/protocol"
	"github.com/courierkit/datagram/internal/socket"
	"github.com/courierkit/datagram/properties"
	"github.com/courierkit/datagram/stats"
)

// Option is a functional option for Dial and Listen. All options are applied
// before the socket is created; an option error aborts construction.
type Option func(*config) error

type config struct {
	family         socket.Family
	mcastInterface string
	mcastTTL       int
	connectFirst   bool
	props          *properties.Properties
	log            logx.Log
	traceLevel     int
	stats          stats.Recorder
}

func newConfig(opts []Option) (*config, error) {
	c := &config{
		mcastTTL:   -1,
		props:      properties.FromEnv(),
		traceLevel: -1,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.traceLevel < 0 {
		c.traceLevel = c.props.Int(protocol.KeyTraceNetwork, 0)
	}
	return c, nil
}

// WithIPv4 forces an AF_INET socket and udp4 address resolution. Without a
// family option, the family is derived from the resolved address.
func WithIPv4() Option {
	return func(c *config) error {
		c.family = socket.FamilyIPv4
		return nil
	}
}

// WithIPv6 forces an AF_INET6 socket and udp6 address resolution.
func WithIPv6() Option {
	return func(c *config) error {
		c.family = socket.FamilyIPv6
		return nil
	}
}

// WithMulticastInterface names the interface used to send to (Dial) or
// receive from (Listen) a multicast group. Without it, the system default
// interface is used. The option is a no-op for unicast addresses.
func WithMulticastInterface(name string) Option {
	return func(c *config) error {
		c.mcastInterface = name
		return nil
	}
}

// WithMulticastTTL sets the TTL (IPv4) or hop limit (IPv6) for datagrams
// sent to a multicast group. The option is a no-op for unicast targets.
func WithMulticastTTL(ttl int) Option {
	return func(c *config) error {
		if ttl < 0 || ttl > 255 {
			return errors.New("datagram: multicast TTL out of range")
		}
		c.mcastTTL = ttl
		return nil
	}
}

// WithConnectToFirstSender makes a Listen socket lock onto whichever peer
// sends the first datagram: the socket connects to that sender and from then
// on only accepts its datagrams. The transition is one-way.
func WithConnectToFirstSender() Option {
	return func(c *config) error {
		c.connectFirst = true
		return nil
	}
}

// WithProperties supplies the configuration source consulted for buffer-size
// overrides, the datagram-size warning toggle, and the default trace level.
// The default source is built from DATAGRAM_-prefixed environment variables.
func WithProperties(p *properties.Properties) Option {
	return func(c *config) error {
		c.props = p
		return nil
	}
}

// WithLogger directs warnings and network trace lines to l. Without a
// logger, the transceiver is silent.
func WithLogger(l logx.Log) Option {
	return func(c *config) error {
		c.log = l
		return nil
	}
}

// WithTraceLevel sets the network trace verbosity (1 = lifecycle, 2 = adds
// bind/shutdown, 3 = adds per-datagram byte counts), overriding the
// "trace.network" property.
func WithTraceLevel(level int) Option {
	return func(c *config) error {
		if level < 0 {
			return errors.New("datagram: negative trace level")
		}
		c.traceLevel = level
		return nil
	}
}

// WithStats supplies the statistics sink that receives byte counts after
// successful reads and writes.
func WithStats(r stats.Recorder) Option {
	return func(c *config) error {
		c.stats = r
		return nil
	}
}
