package transceiver

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"not ready", ErrNotReady, IsNotReady},
		{"wrapped not ready", fmt.Errorf("write: %w", ErrNotReady), IsNotReady},
		{"datagram limit", &DatagramLimitError{Size: 70000, Limit: 65507}, IsDatagramLimit},
		{"timeout", &TimeoutError{Op: "read", After: time.Second}, IsTimeout},
		{"connection lost", &ConnectionLostError{}, IsConnectionLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.is(tt.err) {
				t.Errorf("classifier rejected %v", tt.err)
			}
			others := []func(error) bool{IsNotReady, IsDatagramLimit, IsTimeout, IsConnectionLost}
			matches := 0
			for _, is := range others {
				if is(tt.err) {
					matches++
				}
			}
			if matches != 1 {
				t.Errorf("%v matched %d classifiers, want exactly 1", tt.err, matches)
			}
		})
	}
}

func TestClassifiersRejectForeignErrors(t *testing.T) {
	for _, err := range []error{nil, io.EOF, errors.New("unrelated")} {
		if IsNotReady(err) || IsDatagramLimit(err) || IsTimeout(err) || IsConnectionLost(err) {
			t.Errorf("a classifier accepted %v", err)
		}
	}
}

func TestTimeoutErrorImplementsNetError(t *testing.T) {
	err := &TimeoutError{Op: "read", After: 50 * time.Millisecond}
	var ne interface{ Timeout() bool }
	if !errors.As(error(err), &ne) || !ne.Timeout() {
		t.Error("TimeoutError does not report Timeout() = true")
	}
	if !strings.Contains(err.Error(), "50ms") {
		t.Errorf("timeout message %q omits the expired wait", err.Error())
	}
}

func TestSocketErrorUnwrap(t *testing.T) {
	cause := &net.AddrError{Err: "bad port", Addr: "example:99999"}
	err := &SocketError{Op: "resolve", Err: cause}
	if !errors.Is(err, error(cause)) {
		t.Error("SocketError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "resolve") {
		t.Errorf("SocketError message %q omits the operation", err.Error())
	}
}

func TestDatagramLimitErrorMessages(t *testing.T) {
	outgoing := (&DatagramLimitError{Size: 70000, Limit: 65507}).Error()
	if !strings.Contains(outgoing, "70000") || !strings.Contains(outgoing, "65507") {
		t.Errorf("outgoing limit message %q omits the sizes", outgoing)
	}
	incoming := (&DatagramLimitError{Limit: 65507}).Error()
	if !strings.Contains(incoming, "65507") {
		t.Errorf("incoming limit message %q omits the ceiling", incoming)
	}
}
