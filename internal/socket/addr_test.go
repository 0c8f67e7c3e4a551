package socket

import (
	"net"
	"testing"
	"time"
)

func TestFamilyNetwork(t *testing.T) {
	tests := []struct {
		family Family
		want   string
	}{
		{FamilyUnspec, "udp"},
		{FamilyIPv4, "udp4"},
		{FamilyIPv6, "udp6"},
	}
	for _, tt := range tests {
		if got := tt.family.Network(); got != tt.want {
			t.Errorf("%v.Network() = %q, want %q", tt.family, got, tt.want)
		}
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		ip   string
		want Family
	}{
		{"127.0.0.1", FamilyIPv4},
		{"224.0.0.251", FamilyIPv4},
		{"::1", FamilyIPv6},
		{"ff02::fb", FamilyIPv6},
		{"::ffff:192.0.2.1", FamilyIPv4},
	}
	for _, tt := range tests {
		ip := net.ParseIP(tt.ip)
		if ip == nil {
			t.Fatalf("ParseIP(%q) returned nil", tt.ip)
		}
		if got := FamilyOf(ip); got != tt.want {
			t.Errorf("FamilyOf(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		family  Family
		host    string
		port    int
		wantIP  string
		wantFam Family
		wantErr bool
	}{
		{name: "ipv4 literal", family: FamilyUnspec, host: "127.0.0.1", port: 4061, wantIP: "127.0.0.1", wantFam: FamilyIPv4},
		{name: "ipv6 literal", family: FamilyUnspec, host: "::1", port: 4061, wantIP: "::1", wantFam: FamilyIPv6},
		{name: "empty host is wildcard", family: FamilyIPv4, host: "", port: 0, wantIP: "0.0.0.0", wantFam: FamilyIPv4},
		{name: "family mismatch", family: FamilyIPv6, host: "127.0.0.1", port: 4061, wantErr: true},
		{name: "unresolvable host", family: FamilyUnspec, host: "host.invalid", port: 4061, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, fam, err := Resolve(tt.family, tt.host, tt.port)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%v, %q, %d) succeeded, want error", tt.family, tt.host, tt.port)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%v, %q, %d) failed: %v", tt.family, tt.host, tt.port, err)
			}
			if !addr.IP.Equal(net.ParseIP(tt.wantIP)) {
				t.Errorf("resolved IP = %s, want %s", addr.IP, tt.wantIP)
			}
			if addr.Port != tt.port {
				t.Errorf("resolved port = %d, want %d", addr.Port, tt.port)
			}
			if fam != tt.wantFam {
				t.Errorf("resolved family = %v, want %v", fam, tt.wantFam)
			}
		})
	}
}

func TestResolveAddress(t *testing.T) {
	addr, fam, err := ResolveAddress(FamilyUnspec, "127.0.0.1:4061")
	if err != nil {
		t.Fatalf("ResolveAddress failed: %v", err)
	}
	if fam != FamilyIPv4 {
		t.Errorf("family = %v, want %v", fam, FamilyIPv4)
	}
	if addr.Port != 4061 {
		t.Errorf("port = %d, want 4061", addr.Port)
	}

	if _, _, err = ResolveAddress(FamilyUnspec, "missing-port"); err == nil {
		t.Error("ResolveAddress accepted an address without a port")
	}
}

func TestWildcard(t *testing.T) {
	v4 := Wildcard(FamilyIPv4, 9999)
	if !v4.IP.Equal(net.IPv4zero) || v4.Port != 9999 {
		t.Errorf("Wildcard(FamilyIPv4, 9999) = %s", v4)
	}
	v6 := Wildcard(FamilyIPv6, 0)
	if !v6.IP.Equal(net.IPv6unspecified) || v6.Port != 0 {
		t.Errorf("Wildcard(FamilyIPv6, 0) = %s", v6)
	}
}

func TestPollTimeout(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    int
	}{
		{-1, -1},
		{-5 * time.Second, -1},
		{0, 0},
		{500 * time.Microsecond, 1},
		{time.Millisecond, 1},
		{250 * time.Millisecond, 250},
	}
	for _, tt := range tests {
		if got := pollTimeout(tt.timeout); got != tt.want {
			t.Errorf("pollTimeout(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}
