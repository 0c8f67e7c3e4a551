// Package properties provides the read-only key/value configuration source
// consulted by the transport at construction time.
//
// A Properties instance is an immutable string-to-string map with typed getters
// that fall back to caller-supplied defaults. The transport only ever reads
// from it; it never observes later changes, so values resolved at
// construction (such as negotiated buffer sizes) stay fixed for the lifetime
// of a transceiver.
package properties

import (
	"os"
	"strconv"
	"strings"
)

// envPrefix marks environment variables that seed FromEnv. The variable
// DATAGRAM_UDP_RCVSIZE becomes the key "udp.rcvsize".
const envPrefix = "DATAGRAM_"

// Properties is a read-only string-keyed lookup with defaults.
//
// The zero value and a nil *Properties are both valid empty sources: every
// getter returns its fallback.
type Properties struct {
	values map[string]string
}

// New returns an empty configuration source.
func New() *Properties {
	return &Properties{values: make(map[string]string)}
}

// FromMap copies the supplied values into a new configuration source. Later
// changes to the argument are not observed.
func FromMap(values map[string]string) *Properties {
	p := New()
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// FromEnv builds a configuration source from DATAGRAM_-prefixed environment
// variables, mapping DATAGRAM_UDP_RCVSIZE to "udp.rcvsize".
func FromEnv() *Properties {
	p := New()
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(kv[len(envPrefix):eq], "_", "."))
		if key == "" {
			continue
		}
		p.values[key] = kv[eq+1:]
	}
	return p
}

// String returns the raw value for key, or fallback if the key is absent.
func (p *Properties) String(key, fallback string) string {
	if p == nil {
		return fallback
	}
	if v, ok := p.values[key]; ok {
		return v
	}
	return fallback
}

// Int returns the integer value for key, or fallback if the key is absent or
// not parseable as a base-10 integer.
func (p *Properties) Int(key string, fallback int) int {
	v := p.String(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Bool returns the boolean value for key, or fallback if the key is absent or
// unparseable. Both strconv.ParseBool forms ("true", "1", ...) and bare
// positive integers ("2") count as true, matching the common convention of
// integer-valued feature toggles.
func (p *Properties) Bool(key string, fallback bool) bool {
	v := p.String(key, "")
	if v == "" {
		return fallback
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n > 0
	}
	return fallback
}
