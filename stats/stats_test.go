package stats

import (
	"sync"
	"testing"
)

func TestCountersAccumulate(t *testing.T) {
	var c Counters
	c.BytesSent("udp", 100)
	c.BytesSent("udp", 28)
	c.BytesReceived("udp", 1)
	if got := c.Sent(); got != 128 {
		t.Errorf("Sent() = %d, want 128", got)
	}
	if got := c.Received(); got != 1 {
		t.Errorf("Received() = %d, want 1", got)
	}
}

func TestCountersConcurrent(t *testing.T) {
	var c Counters
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.BytesSent("udp", 1)
				c.BytesReceived("udp", 2)
			}
		}()
	}
	wg.Wait()
	if got := c.Sent(); got != 8000 {
		t.Errorf("Sent() = %d, want 8000", got)
	}
	if got := c.Received(); got != 16000 {
		t.Errorf("Received() = %d, want 16000", got)
	}
}
