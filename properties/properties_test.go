package properties

import "testing"

func TestStringFallsBack(t *testing.T) {
	p := FromMap(map[string]string{"udp.rcvsize": "131072"})
	if got := p.String("udp.rcvsize", "none"); got != "131072" {
		t.Errorf("String = %q, want %q", got, "131072")
	}
	if got := p.String("udp.sndsize", "none"); got != "none" {
		t.Errorf("String fallback = %q, want %q", got, "none")
	}
}

func TestInt(t *testing.T) {
	p := FromMap(map[string]string{
		"udp.rcvsize": "131072",
		"udp.sndsize": "not-a-number",
	})
	tests := []struct {
		key      string
		fallback int
		want     int
	}{
		{"udp.rcvsize", 0, 131072},
		{"udp.sndsize", 65536, 65536},
		{"missing", 42, 42},
	}
	for _, tt := range tests {
		if got := p.Int(tt.key, tt.fallback); got != tt.want {
			t.Errorf("Int(%q, %d) = %d, want %d", tt.key, tt.fallback, got, tt.want)
		}
	}
}

func TestBool(t *testing.T) {
	p := FromMap(map[string]string{
		"warn.datagrams": "1",
		"trace.enabled":  "true",
		"off":            "0",
		"garbage":        "maybe",
	})
	tests := []struct {
		key      string
		fallback bool
		want     bool
	}{
		{"warn.datagrams", false, true},
		{"trace.enabled", false, true},
		{"off", true, false},
		{"garbage", true, true},
		{"missing", false, false},
	}
	for _, tt := range tests {
		if got := p.Bool(tt.key, tt.fallback); got != tt.want {
			t.Errorf("Bool(%q, %v) = %v, want %v", tt.key, tt.fallback, got, tt.want)
		}
	}
}

func TestNilSafety(t *testing.T) {
	var p *Properties
	if got := p.String("key", "fallback"); got != "fallback" {
		t.Errorf("nil String = %q, want fallback", got)
	}
	if got := p.Int("key", 7); got != 7 {
		t.Errorf("nil Int = %d, want 7", got)
	}
	if got := p.Bool("key", true); got != true {
		t.Error("nil Bool dropped the fallback")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("DATAGRAM_UDP_RCVSIZE", "262144")
	t.Setenv("DATAGRAM_WARN_DATAGRAMS", "1")
	t.Setenv("UNRELATED_VARIABLE", "ignored")
	p := FromEnv()
	if got := p.Int("udp.rcvsize", 0); got != 262144 {
		t.Errorf("udp.rcvsize from environment = %d, want 262144", got)
	}
	if !p.Bool("warn.datagrams", false) {
		t.Error("warn.datagrams from environment not set")
	}
	if got := p.String("unrelated.variable", ""); got != "" {
		t.Errorf("unprefixed variable leaked into properties: %q", got)
	}
}
