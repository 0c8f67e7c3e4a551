// Package integration exercises transceivers end to end over real sockets:
// request/reply exchanges between two endpoints, peer association on inbound
// sockets, and statistics accounting across a full conversation.
package integration

import (
	"bytes"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/courierkit/datagram/stats"
	"github.com/courierkit/datagram/transceiver"
)

func TestRequestReplyExchange(t *testing.T) {
	var serverStats stats.Counters
	server, err := transceiver.Listen("127.0.0.1", 0,
		transceiver.WithIPv4(),
		transceiver.WithConnectToFirstSender(),
		transceiver.WithStats(&serverStats))
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer server.Close()

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(server.EffectivePort()))
	client, err := transceiver.Dial(addr, transceiver.WithIPv4())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer client.Close()

	// Echo loop: the server replies to each request over the peer
	// association it formed on the first datagram.
	serverDone := make(chan error, 1)
	go func() {
		buf := make([]byte, 1024)
		for i := 0; i < 3; i++ {
			n, rerr := server.Read(buf, 5*time.Second)
			if rerr != nil {
				serverDone <- rerr
				return
			}
			if rerr = server.Write(buf[:n], 5*time.Second); rerr != nil {
				serverDone <- rerr
				return
			}
		}
		serverDone <- nil
	}()

	buf := make([]byte, 1024)
	var total int
	for i := 0; i < 3; i++ {
		req := []byte("request " + strconv.Itoa(i))
		total += len(req)
		if err = client.Write(req, 5*time.Second); err != nil {
			t.Fatalf("client Write failed: %v", err)
		}
		n, rerr := client.Read(buf, 5*time.Second)
		if rerr != nil {
			t.Fatalf("client Read failed: %v", rerr)
		}
		if !bytes.Equal(buf[:n], req) {
			t.Fatalf("reply %q does not match request %q", buf[:n], req)
		}
	}
	if err = <-serverDone; err != nil {
		t.Fatalf("server loop failed: %v", err)
	}
	if got := serverStats.Received(); got != int64(total) {
		t.Errorf("server recorded %d received bytes, want %d", got, total)
	}
	if got := serverStats.Sent(); got != int64(total) {
		t.Errorf("server recorded %d sent bytes, want %d", got, total)
	}
}

func TestConcurrentReadAndWrite(t *testing.T) {
	a, err := transceiver.Listen("127.0.0.1", 0, transceiver.WithIPv4())
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer a.Close()
	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(a.EffectivePort()))
	b, err := transceiver.Dial(addr, transceiver.WithIPv4())
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer b.Close()

	const count = 50
	writeDone := make(chan error, 1)
	go func() {
		for i := 0; i < count; i++ {
			if werr := b.Write([]byte{byte(i)}, time.Second); werr != nil {
				writeDone <- werr
				return
			}
		}
		writeDone <- nil
	}()

	buf := make([]byte, 16)
	received := 0
	deadline := time.Now().Add(10 * time.Second)
	for received < count && time.Now().Before(deadline) {
		_, rerr := a.Read(buf, time.Second)
		if rerr != nil {
			if transceiver.IsTimeout(rerr) {
				continue
			}
			t.Fatalf("Read failed: %v", rerr)
		}
		received++
	}
	if err = <-writeDone; err != nil {
		t.Fatalf("writer failed: %v", err)
	}
	// Loopback does not normally drop datagrams; all writes should land.
	if received != count {
		t.Errorf("received %d of %d datagrams", received, count)
	}
}
